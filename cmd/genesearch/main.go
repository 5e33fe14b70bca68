// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the genesearch CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/genesearch/internal/secrets"
	"github.com/pdiddy/genesearch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "genesearch/0.1"
)

// rootCmd is the base command for the genesearch CLI.
var rootCmd = &cobra.Command{
	Use:   "genesearch",
	Short: "Summarise what the web says about a gene in a species",
	Long: `genesearch searches the web for a gene/species pair, downloads the top
results, and condenses them into a short description of the gene's role in
that species. Summaries come either from a hosted chat model or from a local
batch summarisation service.

The summarise subcommand runs the whole pipeline; search and fetch expose the
first two stages on their own.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(viper.GetString("loglevel")); err != nil {
			return err
		}
		if f := viper.ConfigFileUsed(); f != "" {
			log.Debug().Str("file", f).Msg("using config file")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("genesearch {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./genesearch.yaml or ~/.config/genesearch/genesearch.yaml)")
	pf.String("loglevel", "INFO", "log level: DEBUG, INFO, WARNING, ERROR, CRITICAL")
	pf.String("credentials", "api_keys.yaml", "YAML file with API keys, used for values missing from the environment")
	pf.String("env-file", ".env", "dotenv file loaded before reading the environment")

	for _, name := range []string{"loglevel", "credentials", "env-file"} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("genesearch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "genesearch"))
		}
	}

	viper.SetEnvPrefix("GENESEARCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// parseLogLevel maps the --loglevel names onto zerolog levels. CRITICAL has
// no zerolog equivalent and is treated as fatal.
func parseLogLevel(name string) (zerolog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "INFO":
		return zerolog.InfoLevel, nil
	case "DEBUG":
		return zerolog.DebugLevel, nil
	case "WARNING", "WARN":
		return zerolog.WarnLevel, nil
	case "ERROR":
		return zerolog.ErrorLevel, nil
	case "CRITICAL":
		return zerolog.FatalLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

func setupLogging(name string) error {
	level, err := parseLogLevel(name)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	return nil
}

// resolveCredentials loads the run's API keys from the dotenv file, the
// environment, and the credentials file, in that order of precedence.
func resolveCredentials() (types.Credentials, error) {
	creds, err := secrets.Resolve(viper.GetString("env-file"), viper.GetString("credentials"))
	if err != nil {
		return types.Credentials{}, err
	}
	if missing := secrets.Missing(creds); len(missing) > 0 {
		log.Debug().Strs("missing", missing).Msg("credentials not configured")
	}
	return creds, nil
}

func httpConfig(timeout time.Duration) types.HTTPConfig {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return types.HTTPConfig{Timeout: timeout, UserAgent: defaultUserAgent}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
