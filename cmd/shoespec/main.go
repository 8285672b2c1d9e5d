// Package main provides the entry point for the shoe spec extraction CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shoespec",
	Short: "Athletic shoe spec extraction engine",
	Long: `shoespec reads running shoe articles and extracts structured specifications
(stack heights, drop, weight, price, cushioning, surface and more) for every shoe model.

Pattern extraction runs first; a Gemini model fills in when patterns find too little.
Configuration can be loaded from a JSON file using --config. Command-line flags override config file values,
and config file values override the environment.`,
	SilenceUsage: true,
}

var (
	configPath  string
	apiKey      string
	logLevel    string
	metricsAddr string
	verbose     bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed results")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
