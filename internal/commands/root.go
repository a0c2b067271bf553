// internal/commands/root.go
package palu

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/api"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/appconfig"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/logging"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/session"
)

var (
	cfgFile        string
	currentConfig  *appconfig.Config
	currentSession *session.Session
	apiClient      *api.Client
	appVersion     = "dev"
	appCommit      = "none"
	appDate        = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "palu",
	Short: "palu — terminal client for the malaria blood-cell analysis backend",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appconfig.Load(cfgFile)
		if err != nil {
			if cmd.Flags().Changed("config") {
				return err
			}
			// No config file is fine; defaults plus flags cover everything.
			cfg = appconfig.Config{}
		}

		if v := viper.GetString("baseURL"); v != "" {
			cfg.BaseURL = v
		}
		if v := viper.GetString("apiVersion"); v != "" {
			cfg.APIVersion = v
		}
		if v := viper.GetInt("timeout"); v > 0 {
			cfg.TimeoutSeconds = v
		}
		if v := viper.GetString("logFile"); v != "" {
			cfg.LogFile = v
		}
		if v := viper.GetString("sessionFile"); v != "" {
			cfg.SessionFile = v
		}
		if v := viper.GetString("exportDir"); v != "" {
			cfg.ExportDir = v
		}
		if v := viper.GetString("defaultModel"); v != "" {
			cfg.DefaultModel = v
		}
		if viper.GetBool("debug") {
			cfg.Debug = true
		}
		currentConfig = &cfg

		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		sess, err := session.Load(cfg.SessionFilePath())
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		currentSession = sess
		apiClient = api.New(cfg, sess)

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().String("baseURL", "", "analysis backend base URL")
	rootCmd.PersistentFlags().String("apiVersion", "", "backend API version (default v1)")
	rootCmd.PersistentFlags().Int("timeout", 0, "HTTP request timeout in seconds")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().String("sessionFile", "", "path to the persisted session file")
	rootCmd.PersistentFlags().String("exportDir", "", "directory export files are written to")
	rootCmd.PersistentFlags().String("defaultModel", "", "model id used when none is given")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging of API traffic")

	_ = viper.BindPFlag("baseURL", rootCmd.PersistentFlags().Lookup("baseURL"))
	_ = viper.BindPFlag("apiVersion", rootCmd.PersistentFlags().Lookup("apiVersion"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
	_ = viper.BindPFlag("sessionFile", rootCmd.PersistentFlags().Lookup("sessionFile"))
	_ = viper.BindPFlag("exportDir", rootCmd.PersistentFlags().Lookup("exportDir"))
	_ = viper.BindPFlag("defaultModel", rootCmd.PersistentFlags().Lookup("defaultModel"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	viper.SetEnvPrefix("PALU")
	viper.AutomaticEnv()
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// Client returns the API client built during command setup.
func Client() *api.Client {
	return apiClient
}

// CurrentSession returns the persisted session for the running command.
func CurrentSession() *session.Session {
	return currentSession
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// modelOrDefault resolves the model id to use for a prediction call.
func modelOrDefault(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if currentConfig != nil {
		return currentConfig.DefaultModel
	}
	return ""
}

// readImage loads an image file for upload.
func readImage(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image %s: %w", path, err)
	}
	return data, nil
}
