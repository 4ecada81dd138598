package cmd

import (
	"context"
	"time"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"veil/config"
	"veil/keys"
	"veil/logx"
	"veil/tx"
)

type ibcConfig struct {
	Source        string
	Receiver      string
	Token         string
	Amount        string
	PortID        string
	ChannelID     string
	TimeoutHeight uint64
	Password      string
	Timeout       time.Duration
}

var ibcCfg ibcConfig

var ibcTransferCmd = &cobra.Command{
	Use:   "ibc-transfer",
	Short: "Transfer tokens over an IBC channel",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runIBCTransfer(ibcCfg); err != nil {
			logx.Error("IBC CLI", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(ibcTransferCmd)

	ibcTransferCmd.Flags().StringVarP(&ibcCfg.Source, "source", "s", "", "source address")
	ibcTransferCmd.Flags().StringVarP(&ibcCfg.Receiver, "receiver", "r", "", "receiver on the counterparty chain")
	ibcTransferCmd.Flags().StringVar(&ibcCfg.Token, "token", config.DefaultGasToken, "token to transfer")
	ibcTransferCmd.Flags().StringVarP(&ibcCfg.Amount, "amount", "a", "", "amount")
	ibcTransferCmd.Flags().StringVar(&ibcCfg.PortID, "port", "transfer", "IBC port")
	ibcTransferCmd.Flags().StringVar(&ibcCfg.ChannelID, "channel", "", "IBC channel")
	ibcTransferCmd.Flags().Uint64Var(&ibcCfg.TimeoutHeight, "timeout-height", 0, "timeout height on the counterparty chain (0 derives one from the current epoch)")
	ibcTransferCmd.Flags().StringVarP(&ibcCfg.Password, "password", "p", "", "wallet password")
	ibcTransferCmd.Flags().DurationVar(&ibcCfg.Timeout, "timeout", 60*time.Second, "submission timeout")
}

func runIBCTransfer(cfg ibcConfig) error {
	profile := loadProfile()
	session, err := newSession(profile)
	if err != nil {
		return err
	}

	source, err := keys.ParseAddress(cfg.Source)
	if err != nil {
		return err
	}
	amount, err := uint256.FromDecimal(cfg.Amount)
	if err != nil {
		return err
	}
	blob, err := tx.EncodeIBCTransferArgs(&tx.IBCTransferArgs{
		Tx: tx.TxArgs{
			ChainID:  profile.ChainID,
			GasToken: config.DefaultGasToken,
			GasLimit: config.DefaultGasLimit,
		},
		Source:        source,
		Receiver:      cfg.Receiver,
		Token:         cfg.Token,
		Amount:        amount,
		PortID:        cfg.PortID,
		ChannelID:     cfg.ChannelID,
		TimeoutHeight: cfg.TimeoutHeight,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := session.SubmitIBCTransfer(ctx, blob, cfg.Password); err != nil {
		return err
	}
	logx.Info("IBC CLI", "ibc transfer submitted")
	return nil
}
