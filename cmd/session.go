package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"veil/client"
	"veil/sdk"
)

// newSession wires an SDK instance from the CLI profile and loads the
// wallet blob when one exists on disk.
func newSession(profile Profile) (*sdk.Sdk, error) {
	ledger := client.NewClient(client.Config{Endpoint: profile.NodeURL})
	session := sdk.New(ledger, sdk.Config{ChainID: profile.ChainID})

	data, err := os.ReadFile(profile.WalletFile)
	if os.IsNotExist(err) {
		return session, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading wallet file: %w", err)
	}
	if err := session.DecodeWallet(data); err != nil {
		return nil, fmt.Errorf("loading wallet file: %w", err)
	}
	return session, nil
}

// saveWallet writes the keyring blob back to the profile's wallet file.
func saveWallet(session *sdk.Sdk, profile Profile) error {
	data, err := session.EncodeWallet()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(profile.WalletFile), 0700); err != nil {
		return err
	}
	return os.WriteFile(profile.WalletFile, data, 0600)
}
