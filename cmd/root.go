package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/ngramdex/configs"
	"github.com/jsphweid/ngramdex/logging"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	configFile     string
	verbose        bool
	logLevel       string
	outputFormat   string
	maxConcurrency int
	maxFiles       int

	cfg *configs.Config
	log logging.Logger = &logging.NoOpLogger{}
)

var rootCmd = &cobra.Command{
	Use:   "ngramdex",
	Short: "n-gram features from symbolic music",
	Long: `ngramdex reads MIDI files and extracts n-gram features from them:
melodic, rhythmic and vertical interval n-grams, their frequencies and
the statistics built on top of those.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if z, ok := log.(*logging.ZapLogger); ok {
			_ = z.Sync()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is ./ngramdex.yaml or $HOME/.config/ngramdex/ngramdex.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output, same as --log-level debug")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "json",
		"output format (json, yaml, table)")
	rootCmd.PersistentFlags().IntVarP(&maxConcurrency, "concurrency", "c", 0,
		"files processed at once (default is the number of CPUs)")
	rootCmd.PersistentFlags().IntVar(&maxFiles, "max-files", 0,
		"stop after this many files, 0 for no limit")

	cobra.CheckErr(bindPersistentFlags(rootCmd.PersistentFlags(), viper.GetViper()))
}

// config keys set by persistent flags
var persistentFlagKeys = map[string]string{
	"verbose":       "verbose",
	"log_level":     "log-level",
	"output_format": "output",
	"max_files":     "max-files",
}

func bindPersistentFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	var lastErr error
	for key, name := range persistentFlagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			lastErr = errors.Wrapf(err, "binding --%s", name)
		}
	}
	return lastErr
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", configs.ConfigName))
		}
		viper.SetConfigName(configs.ConfigName)
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(configs.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	} else if configFile != "" {
		fmt.Fprintf(os.Stderr, "Could not read config file %s: %v\n", configFile, err)
		os.Exit(1)
	}
}

// initializeConfig binds flags, decodes the configuration and sets up the
// logger once flags are parsed
func initializeConfig(cmd *cobra.Command) error {
	v := viper.GetViper()
	if err := bindFlags(cmd, v); err != nil {
		return err
	}
	// only an explicit flag overrides the configured concurrency
	if f := cmd.Flags().Lookup("concurrency"); f != nil && f.Changed {
		v.Set("max_concurrency", maxConcurrency)
	}

	c, err := configs.LoadConfig(v)
	if err != nil {
		return err
	}
	cfg = c

	z, err := logging.NewZapLogger(cfg.EffectiveLogLevel())
	if err != nil {
		return err
	}
	log = z
	logging.SetGlobalLogger(z)
	return nil
}

// bindFlags binds each cobra flag to its associated viper configuration
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				lastErr = err
			}
		}

		if err := v.BindEnv(f.Name, configs.EnvPrefix+"_"+envVarSuffix); err != nil {
			lastErr = err
		}
	})

	return lastErr
}
