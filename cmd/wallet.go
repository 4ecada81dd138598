package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"veil/logx"
)

type walletConfig struct {
	SecretKey string
	Password  string
	Alias     string
}

var walletCfg walletConfig

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage the local keyring",
}

var walletInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty wallet file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := walletInit(); err != nil {
			logx.Error("WALLET CLI", err)
		}
	},
}

var walletAddKeyCmd = &cobra.Command{
	Use:   "add-key",
	Short: "Add a secret key to the keyring",
	Run: func(cmd *cobra.Command, args []string) {
		if err := walletAddKey(walletCfg); err != nil {
			logx.Error("WALLET CLI", err)
		}
	},
}

var walletShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List keyring aliases",
	Run: func(cmd *cobra.Command, args []string) {
		if err := walletShow(); err != nil {
			logx.Error("WALLET CLI", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(walletCmd)
	walletCmd.AddCommand(walletInitCmd)
	walletCmd.AddCommand(walletAddKeyCmd)
	walletCmd.AddCommand(walletShowCmd)

	walletAddKeyCmd.Flags().StringVarP(&walletCfg.SecretKey, "secret-key", "k", "", "secret key (scheme-tagged base58)")
	walletAddKeyCmd.Flags().StringVarP(&walletCfg.Password, "password", "p", "", "password protecting the key")
	walletAddKeyCmd.Flags().StringVarP(&walletCfg.Alias, "alias", "a", "", "alias for the key (defaults to the address)")
}

func walletInit() error {
	profile := loadProfile()
	if _, err := os.Stat(profile.WalletFile); err == nil {
		return fmt.Errorf("wallet file already exists at %s", profile.WalletFile)
	}
	session, err := newSession(profile)
	if err != nil {
		return err
	}
	if err := saveWallet(session, profile); err != nil {
		return err
	}
	logx.Info("WALLET CLI", "wallet created at ", profile.WalletFile)
	return nil
}

func walletAddKey(cfg walletConfig) error {
	profile := loadProfile()
	session, err := newSession(profile)
	if err != nil {
		return err
	}
	if err := session.AddKey(cfg.SecretKey, cfg.Password, cfg.Alias); err != nil {
		return err
	}
	if err := saveWallet(session, profile); err != nil {
		return err
	}
	logx.Info("WALLET CLI", "key stored")
	return nil
}

func walletShow() error {
	session, err := newSession(loadProfile())
	if err != nil {
		return err
	}
	for _, alias := range session.Wallet().Aliases() {
		fmt.Println(alias)
	}
	return nil
}
