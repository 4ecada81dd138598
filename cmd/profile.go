package cmd

import (
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"veil/config"
)

// Profile holds CLI defaults read from ~/.veil/cli.ini, so that node and
// wallet flags do not have to be repeated on every invocation.
type Profile struct {
	NodeURL    string
	ChainID    string
	WalletFile string
	ParamsPath string
}

func defaultProfile() Profile {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Profile{
		NodeURL:    config.DefaultRPCEndpoint,
		ChainID:    config.DefaultChainID,
		WalletFile: filepath.Join(home, ".veil", "wallet.bin"),
		ParamsPath: filepath.Join(home, ".veil", "params.db"),
	}
}

// loadProfile overlays the ini file, when present, on the defaults.
func loadProfile() Profile {
	p := defaultProfile()
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	file, err := ini.Load(filepath.Join(home, ".veil", "cli.ini"))
	if err != nil {
		return p
	}
	node := file.Section("node")
	if v := node.Key("url").String(); v != "" {
		p.NodeURL = v
	}
	if v := node.Key("chain_id").String(); v != "" {
		p.ChainID = v
	}
	walletSec := file.Section("wallet")
	if v := walletSec.Key("file").String(); v != "" {
		p.WalletFile = v
	}
	if v := walletSec.Key("params_path").String(); v != "" {
		p.ParamsPath = v
	}
	return p
}
