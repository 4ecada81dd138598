package cmd

import (
	"context"
	"time"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"veil/config"
	"veil/keys"
	"veil/logx"
	"veil/sdk"
	"veil/tx"
)

type stakingConfig struct {
	Source    string
	Validator string
	Amount    string
	Password  string
	Timeout   time.Duration
}

var stakingCfg stakingConfig

var bondCmd = &cobra.Command{
	Use:   "bond",
	Short: "Bond tokens to a validator",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runStaking(stakingCfg, tx.TxBond); err != nil {
			logx.Error("STAKING CLI", err)
		}
	},
}

var unbondCmd = &cobra.Command{
	Use:   "unbond",
	Short: "Unbond tokens from a validator",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runStaking(stakingCfg, tx.TxUnbond); err != nil {
			logx.Error("STAKING CLI", err)
		}
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Withdraw unbonded tokens",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runStaking(stakingCfg, tx.TxWithdraw); err != nil {
			logx.Error("STAKING CLI", err)
		}
	},
}

func init() {
	for _, c := range []*cobra.Command{bondCmd, unbondCmd, withdrawCmd} {
		rootCmd.AddCommand(c)
		c.Flags().StringVarP(&stakingCfg.Source, "source", "s", "", "source address")
		c.Flags().StringVarP(&stakingCfg.Validator, "validator", "v", "", "validator address")
		c.Flags().StringVarP(&stakingCfg.Password, "password", "p", "", "wallet password")
		c.Flags().DurationVar(&stakingCfg.Timeout, "timeout", 60*time.Second, "submission timeout")
	}
	bondCmd.Flags().StringVarP(&stakingCfg.Amount, "amount", "a", "", "amount")
	unbondCmd.Flags().StringVarP(&stakingCfg.Amount, "amount", "a", "", "amount")
}

func runStaking(cfg stakingConfig, kind tx.TxType) error {
	profile := loadProfile()
	session, err := newSession(profile)
	if err != nil {
		return err
	}

	source, err := keys.ParseAddress(cfg.Source)
	if err != nil {
		return err
	}
	txArgs := tx.TxArgs{
		ChainID:  profile.ChainID,
		GasToken: config.DefaultGasToken,
		GasLimit: config.DefaultGasLimit,
	}

	var blob []byte
	switch kind {
	case tx.TxBond, tx.TxUnbond:
		amount, err := uint256.FromDecimal(cfg.Amount)
		if err != nil {
			return err
		}
		bond := tx.BondArgs{Tx: txArgs, Source: source, Validator: cfg.Validator, Amount: amount}
		if kind == tx.TxBond {
			blob, err = tx.EncodeBondArgs(&bond)
		} else {
			unbond := tx.UnbondArgs(bond)
			blob, err = tx.EncodeUnbondArgs(&unbond)
		}
		if err != nil {
			return err
		}
	default:
		blob, err = tx.EncodeWithdrawArgs(&tx.WithdrawArgs{Tx: txArgs, Source: source, Validator: cfg.Validator})
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := submitStaking(ctx, session, kind, blob, cfg.Password); err != nil {
		return err
	}
	logx.Info("STAKING CLI", kind.String(), " submitted")
	return nil
}

func submitStaking(ctx context.Context, session *sdk.Sdk, kind tx.TxType, blob []byte, password string) error {
	switch kind {
	case tx.TxBond:
		return session.SubmitBond(ctx, blob, password)
	case tx.TxUnbond:
		return session.SubmitUnbond(ctx, blob, password)
	default:
		return session.SubmitWithdraw(ctx, blob, password)
	}
}
