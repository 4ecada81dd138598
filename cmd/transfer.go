package cmd

import (
	"context"
	"time"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"veil/config"
	"veil/logx"
	"veil/tx"
)

type transferConfig struct {
	Source      string
	Target      string
	Token       string
	Amount      string
	Password    string
	SpendingKey string
	Timeout     time.Duration
}

var transferCfg transferConfig

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Transfer tokens to another account",
	Long: `Builds, signs and submits a transfer using a locally held key.
Shielded sources and targets (zveil... addresses) require the proving
parameters to be fetched first; see the fetch-params command.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTransfer(transferCfg); err != nil {
			logx.Error("TRANSFER CLI", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(transferCmd)

	transferCmd.Flags().StringVarP(&transferCfg.Source, "source", "s", "", "source address")
	transferCmd.Flags().StringVarP(&transferCfg.Target, "target", "t", "", "target address")
	transferCmd.Flags().StringVar(&transferCfg.Token, "token", config.DefaultGasToken, "token to transfer")
	transferCmd.Flags().StringVarP(&transferCfg.Amount, "amount", "a", "", "amount")
	transferCmd.Flags().StringVarP(&transferCfg.Password, "password", "p", "", "wallet password")
	transferCmd.Flags().StringVar(&transferCfg.SpendingKey, "spending-key", "", "shielded spending key alias")
	transferCmd.Flags().DurationVar(&transferCfg.Timeout, "timeout", 60*time.Second, "submission timeout")
}

func runTransfer(cfg transferConfig) error {
	profile := loadProfile()
	session, err := newSession(profile)
	if err != nil {
		return err
	}

	amount, err := uint256.FromDecimal(cfg.Amount)
	if err != nil {
		return err
	}
	blob, err := tx.EncodeTransferArgs(&tx.TransferArgs{
		Tx: tx.TxArgs{
			ChainID:  profile.ChainID,
			GasToken: config.DefaultGasToken,
			GasLimit: config.DefaultGasLimit,
		},
		Source: cfg.Source,
		Target: cfg.Target,
		Token:  cfg.Token,
		Amount: amount,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := session.SubmitTransfer(ctx, blob, cfg.Password, cfg.SpendingKey); err != nil {
		return err
	}
	logx.Info("TRANSFER CLI", "transfer submitted")
	return nil
}
