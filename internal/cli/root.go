package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"alfredoptarigan/resume-screener/internal/config"
)

const (
	app = "resume-screener"
)

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-screener ranks resumes against a job description by semantic similarity and skill overlap",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return initConfig()
		},
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-screener.yaml in current directory, if present)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

// initConfig reads the optional YAML config file. An explicitly passed file must exist.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	return nil
}

// applyOverrides layers config file values and flags over the environment config.
func applyOverrides(cfg *config.Config) {
	if viper.IsSet("embedding.provider") {
		cfg.Embedding.Provider = viper.GetString("embedding.provider")
	}
	if viper.IsSet("embedding.model") {
		cfg.Embedding.Model = viper.GetString("embedding.model")
	}
	if viper.IsSet("embedding.ollama-url") {
		cfg.Embedding.OllamaURL = viper.GetString("embedding.ollama-url")
	}
	if viper.IsSet("max-pages") {
		cfg.Screening.MaxPages = viper.GetInt("max-pages")
	}
	if skills := viper.GetStringSlice("skills"); len(skills) > 0 {
		cfg.Screening.Skills = skills
	}
	if viper.IsSet("s3.bucket") {
		cfg.S3.Bucket = viper.GetString("s3.bucket")
	}
	if viper.IsSet("s3.prefix") {
		cfg.S3.Prefix = viper.GetString("s3.prefix")
	}
	if viper.GetBool("json") {
		cfg.Log.JSON = true
	}
	if viper.GetBool("debug") {
		cfg.Log.Debug = true
	}
}
