package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"veil/config"
	"veil/logx"
	"veil/tx"
)

type revealConfig struct {
	PublicKey string
	Password  string
	Timeout   time.Duration
}

var revealCfg revealConfig

var revealPKCmd = &cobra.Command{
	Use:   "reveal-pk",
	Short: "Reveal a public key on chain",
	Long: `Publishes the public key for an implicit address so the chain can
verify signatures from it. Submission is skipped when the key is
already revealed.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runRevealPK(revealCfg); err != nil {
			logx.Error("REVEAL CLI", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(revealPKCmd)

	revealPKCmd.Flags().StringVarP(&revealCfg.PublicKey, "public-key", "k", "", "public key to reveal (scheme-tagged base58)")
	revealPKCmd.Flags().StringVarP(&revealCfg.Password, "password", "p", "", "wallet password")
	revealPKCmd.Flags().DurationVar(&revealCfg.Timeout, "timeout", 60*time.Second, "submission timeout")
}

func runRevealPK(cfg revealConfig) error {
	profile := loadProfile()
	session, err := newSession(profile)
	if err != nil {
		return err
	}

	blob, err := tx.EncodeTxArgs(&tx.TxArgs{
		ChainID:         profile.ChainID,
		GasToken:        config.DefaultGasToken,
		GasLimit:        config.DefaultGasLimit,
		VerificationKey: cfg.PublicKey,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := session.SubmitRevealPK(ctx, blob, cfg.Password); err != nil {
		return err
	}
	logx.Info("REVEAL CLI", "reveal submitted")
	return nil
}
