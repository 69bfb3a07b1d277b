package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "upca-console",
	Short: "UPCA personnel console",
	Long:  `Personnel incident records (novedades, incapacidades, enfermeria) with per-module permissions.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// a missing .env is normal outside development
		_ = godotenv.Load()
		logger.Init(appEnv(), os.Getenv("LOG_LEVEL"))
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func appEnv() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	return "development"
}

func isProduction() bool {
	return appEnv() == "production" || os.Getenv("DOCKER_ENV") == "true"
}

// loadConfig reads and validates the server configuration.
func loadConfig(path string) (*internal.Config, error) {
	cfg, err := readConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}
	return cfg, nil
}

// readConfig reads UPCA_* variables in production and config.yml under path
// otherwise. In development ENV_* variables override the file, e.g.
// ENV_DATABASE_SOURCE.
func readConfig(path string) (*internal.Config, error) {
	if isProduction() {
		return internal.LoadConfigFromEnv()
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// setDefaults mirrors the envconfig defaults so both sources agree. Keys
// with a default are also the ones AutomaticEnv can override.
func setDefaults(v *viper.Viper) {
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.read_header_timeout", "5s")
	v.SetDefault("http_server.read_timeout", "15s")
	v.SetDefault("http_server.idle_timeout", "60s")
	v.SetDefault("http_server.write_timeout", "15s")
	v.SetDefault("http_server.login_rate_per_minute", 10)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.conn_max_idle_time", "5m")
	v.SetDefault("database.source", "")
	v.SetDefault("security.access_token_duration", "15m")
	v.SetDefault("security.refresh_token_duration", "24h")
	v.SetDefault("security.bcrypt_cost", 10)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.path", "/metrics")
	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "json")
	v.SetDefault("client.api_url", "http://localhost:8080")
	v.SetDefault("client.timeout", "10s")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", ".", "directory holding config.yml")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, canCmd)
}
