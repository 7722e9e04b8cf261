package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vitalia-app/vitalia/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vitalia",
	Short: "Daily wellness scoring and coaching engine.",
	Long: `vitalia computes a composite daily wellness score from whatever health
signals a user recorded, asks the coaching model for suggestions and turns its
unreliable output into stable, persisted recommendation records.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.vitalia.yaml)")

	// Global flags
	rootCmd.PersistentFlags().String("dbpath", "", "SQLite database path (default is $HOME/.config/vitalia/vitalia.sqlite)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".vitalia")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.vitalia.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Generation backend
	viper.SetDefault("ai.endpoint", "http://localhost:3000/api/chat")
	viper.SetDefault("ai.api_key", "")
	viper.SetDefault("ai.model", "gpt-4o-mini")
	viper.SetDefault("ai.timeout_seconds", 45)

	// Health-data backend serving raw daily signals
	viper.SetDefault("signals.base_url", "http://localhost:3000")
	viper.SetDefault("signals.timeout_seconds", 15)

	// Per-user goals
	viper.SetDefault("goals.sleep_hours", 8)
	viper.SetDefault("goals.steps", 10000)
	viper.SetDefault("goals.hydration_glasses", 8)
	viper.SetDefault("goals.hrv_ms", 60)
	viper.SetDefault("goals.calories", 2000)
	viper.SetDefault("goals.meditation_minutes", 10)

	// Per-category score weights
	viper.SetDefault("weights.mood", 2)
	viper.SetDefault("weights.sleep", 3)
	viper.SetDefault("weights.sleep_auto", 2)
	viper.SetDefault("weights.steps", 2)
	viper.SetDefault("weights.hydration", 1)
	viper.SetDefault("weights.hrv", 2)
	viper.SetDefault("weights.calories", 1)
	viper.SetDefault("weights.meditation", 1)
	viper.SetDefault("score.min_coverage", 3)

	// Orchestration
	viper.SetDefault("cache.ttl_minutes", 60)
	viper.SetDefault("lock.timeout_seconds", 30)
	viper.SetDefault("retry.max_attempts", 3)

	// API server. Empty credentials disable basic auth.
	viper.SetDefault("server.auth_user", "")
	viper.SetDefault("server.auth_pass", "")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

// resolveDBPath picks the --dbpath flag or the default config location.
func resolveDBPath() (string, error) {
	dbPath, _ := rootCmd.PersistentFlags().GetString("dbpath")
	if dbPath != "" {
		return filepath.Abs(dbPath)
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "vitalia")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "vitalia.sqlite"), nil
}
