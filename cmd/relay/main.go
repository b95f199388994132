package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/go-push-relay/internal/config"
	"github.com/go-push-relay/internal/pkg/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "Push-notification relay for story replies",
	Long: `relay receives database change events for new story replies and
sends a push notification to the story owner's registered device.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		dotenvErr := godotenv.Load()
		cfg = config.Load()
		logger = logging.New(cfg.AppEnv, cfg.LogLevel)
		if dotenvErr != nil {
			logger.Debug("No .env file found, reading from environment")
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "relay: %v\n", err)
		os.Exit(1)
	}
}
