package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"veil/logx"
	"veil/shielded"
)

type paramsConfig struct {
	Dir     string
	Timeout time.Duration
}

var paramsCfg paramsConfig

var fetchParamsCmd = &cobra.Command{
	Use:   "fetch-params",
	Short: "Fetch and store the shielded proving parameters",
	Long: `Reads the spend, output and convert parameter blobs from a directory
and stores them in the local parameter database. Shielded transfers
refuse to build until this has been done once.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runFetchParams(paramsCfg); err != nil {
			logx.Error("PARAMS CLI", err)
		}
	},
}

var hasParamsCmd = &cobra.Command{
	Use:   "has-params",
	Short: "Check whether the proving parameters are stored",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runHasParams(); err != nil {
			logx.Error("PARAMS CLI", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(fetchParamsCmd)
	rootCmd.AddCommand(hasParamsCmd)

	fetchParamsCmd.Flags().StringVarP(&paramsCfg.Dir, "dir", "d", "", "directory holding the parameter files")
	fetchParamsCmd.Flags().DurationVar(&paramsCfg.Timeout, "timeout", 5*time.Minute, "fetch timeout")
}

// dirSource reads the three parameter blobs from fixed filenames inside a
// directory, in (spend, output, convert) order.
type dirSource struct {
	dir string
}

func (d dirSource) FetchParams(context.Context) ([][]byte, error) {
	names := []string{"spend.params", "output.params", "convert.params"}
	blobs := make([][]byte, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(d.dir, name))
		if err != nil {
			return nil, err
		}
		blobs = append(blobs, data)
	}
	return blobs, nil
}

func runFetchParams(cfg paramsConfig) error {
	profile := loadProfile()
	if err := os.MkdirAll(filepath.Dir(profile.ParamsPath), 0700); err != nil {
		return err
	}
	store, err := shielded.OpenStore(profile.ParamsPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := store.FetchAndStore(ctx, dirSource{dir: cfg.Dir}); err != nil {
		return err
	}
	logx.Info("PARAMS CLI", "parameters stored at ", profile.ParamsPath)
	return nil
}

func runHasParams() error {
	profile := loadProfile()
	if _, err := os.Stat(profile.ParamsPath); os.IsNotExist(err) {
		fmt.Println("false")
		return nil
	}
	store, err := shielded.OpenStore(profile.ParamsPath)
	if err != nil {
		return err
	}
	defer store.Close()

	has, err := store.Has()
	if err != nil {
		return err
	}
	fmt.Println(has)
	return nil
}
