package main

import (
	"os"
	"time"

	"github.com/requiem-ai/hfchat/config"
	"github.com/requiem-ai/hfchat/context"
	"github.com/requiem-ai/hfchat/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	overrides config.Overrides
)

var rootCmd = &cobra.Command{
	Use:   "hfchat",
	Short: "Chat with a Hugging Face hosted model from the terminal",
	Long: `hfchat reads a line, sends it to the Hugging Face Inference API and prints the reply.
Type 'exit' to quit. The model has no memory between lines.

  HF_API_KEY must be set in the environment or in a .env file.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(&services.ConsoleService{})
	},
}

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Relay a Telegram bot to the model (needs TELEGRAM_SECRET)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(&services.TelegramService{})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&overrides.EnvFile, "env-file", config.DefaultEnvFile, "environment file to load if present")
	rootCmd.PersistentFlags().StringVar(&overrides.Endpoint, "url", "", "inference endpoint (default $HF_API_URL or the Mistral-7B-Instruct model)")
	rootCmd.PersistentFlags().DurationVar(&overrides.Timeout, "timeout", 0, "request timeout (default $HF_TIMEOUT or 60s)")
	rootCmd.PersistentFlags().BoolVar(&overrides.ShowRaw, "raw", false, "print the raw response body before the reply")
	rootCmd.AddCommand(telegramCmd)
}

func setupLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(config.ParseLogLevel(os.Getenv("LOG_LEVEL")))
}

func run(frontend context.Service) error {
	ctx, err := context.NewCtx(
		&services.SetupService{Overrides: overrides},
		&services.InferenceService{},
		frontend,
	)
	if err != nil {
		return err
	}

	return ctx.Run()
}

func main() {
	setupLogging()

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("hfchat failed")
	}
}
