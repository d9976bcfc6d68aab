package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "sifter/api-client"
	"sifter/config"
)

var (
	configPath string
	chainFlag  string
	apiKeyFlag string
	logLevel   string

	cfg       *config.Config
	apiClient *apiclient.Client
	logger    = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "sifter",
	Short: "Query the Covalent class-A API",
	Long: `sifter queries the Covalent class-A API and prints the decoded responses
as JSON.

The API key is taken from --api-key, the apiKey config entry or the
COVALENT_API_KEY environment variable (a .env file in the working
directory is loaded first).

Examples:
  sifter token-balances --addr 0xf4024faad5fafd0755875e3161524c9c4e1a1111
  sifter -c 1 block --block-height latest
  sifter token-holders --addr 0x5c74070fdea071359b86082bd9f9b3deaafbe32b --all-pages`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a yaml config file")
	rootCmd.PersistentFlags().StringVarP(&chainFlag, "chain-id", "c", "", "chain id or name to query (default 8217, Klaytn mainnet)")
	rootCmd.PersistentFlags().StringVarP(&apiKeyFlag, "api-key", "a", "", "Covalent API key; when empty COVALENT_API_KEY is used")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "trace, debug, info, warn or error")

	rootCmd.AddCommand(resourceCommands()...)
	rootCmd.AddCommand(holdersPortfolio)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setup() error {
	// .env is optional; the key may already be in the environment
	_ = godotenv.Load()

	loaded, err := config.Load(viper.New(), configPath)
	if err != nil {
		return err
	}
	if chainFlag != "" {
		loaded.ChainID = apiclient.Chain(chainFlag).ID()
	}
	if apiKeyFlag != "" {
		loaded.ApiKey = apiKeyFlag
	}
	if logLevel != "" {
		loaded.LogLevel = logLevel
	}
	cfg = loaded

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	apiClient, err = apiclient.NewAPIClient(cfg,
		apiclient.WithTransport(apiclient.NewHTTPTransport(cfg.Timeout, cfg.RequestsPerSecond)),
		apiclient.WithLogger(logger),
	)
	if err != nil {
		return errors.Wrap(err, "failure creating Covalent client")
	}
	logger.Debug().
		Str("chain", apiClient.ChainID()).
		Str("baseUrl", cfg.BaseURL).
		Msg("client ready")
	return nil
}
