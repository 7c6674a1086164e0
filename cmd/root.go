package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/config"
)

var (
	cfgFile  string
	logLevel string
	Version  = "0.4.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════════════════════╗",
		"║     ███████╗██╗      █████╗ ███████╗██╗  ██╗                 ║",
		"║     ██╔════╝██║     ██╔══██╗██╔════╝██║  ██║                 ║",
		"║     █████╗  ██║     ███████║███████╗███████║  charts         ║",
		"║     ██╔══╝  ██║     ██╔══██║╚════██║██╔══██║                 ║",
		"║     ██║     ███████╗██║  ██║███████║██║  ██║                 ║",
		"║     ╚═╝     ╚══════╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝                 ║",
		"║                                                              ║",
		"║        ⚡ Aggregate, pivot and chart your tables ⚡           ║",
		"╚══════════════════════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("                        ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "flashcharts",
	Short: "Build aggregated charts straight from your database tables",
	Long: `
flashcharts turns a chart selection (x-axis, y-axes, group-by, filters and
joined tables) into a single parameterized aggregation query, runs it and
reshapes the rows for charting.

Database Support:
- PostgreSQL
- MySQL
- SQLite
- DuckDB`,
	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("flashcharts version %s\n", Version)
			return
		}

		if len(args) == 0 {
			showBanner()
			fmt.Println()
			cmd.Help()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.FileName+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env")
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("flashcharts.config")
	}

	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// loadConfig loads and validates the config, applying --log-level and --db
// overrides, and installs the slog default logger.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	if f := cmd.Flags().Lookup("db"); f != nil && f.Value.String() != "" {
		os.Setenv(cfg.Database.URLEnv, f.Value.String())
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}
