package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/brogergvhs/wikidict/internal/config"

	"github.com/spf13/cobra"
)

var (
	flagIgnoreConfig bool
	flagDebug        bool
	flagConfigFile   string
)

var rootCmd = &cobra.Command{
	Use:   "wikidict",
	Short: "Build an offline dictionary from Wiktionary articles",
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagIgnoreConfig, "ignore-config", false, "ignore config and use only CLI flags")
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "use this config file instead of the active profile")
}

// loadConfig resolves the configuration for a command: an explicit
// --config file, or the active profile merged with the flags.
func loadConfig(opts config.Options) (*config.Config, string, error) {
	opts.IgnoreConfig = flagIgnoreConfig
	opts.Debug = flagDebug

	if flagConfigFile != "" && !flagIgnoreConfig {
		cfg, err := config.LoadFile(flagConfigFile, opts)
		return cfg, flagConfigFile, err
	}
	return config.LoadMerged(opts)
}

// closeOnExit closes c from a deferred call and reports a failure through
// *err, unless the command is already returning another error.
func closeOnExit(c io.Closer, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
