package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"veil/logx"
)

var rootCmd = &cobra.Command{
	Use:   "veil",
	Short: "Veil wallet CLI",
	Long:  "Command line interface for building, signing and submitting Veil ledger transactions.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}
