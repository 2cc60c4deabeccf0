package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/soulgarden/aori-client/client"
	"github.com/soulgarden/aori-client/conf"
	"github.com/soulgarden/aori-client/response"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	configPath string
	apiKey     string
	endpoint   string
	debug      bool
}

func Execute() {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "aori",
		Short:         "Client for the aori order-matching api",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to json config")
	rootCmd.PersistentFlags().StringVar(&flags.apiKey, "api-key", "", "api key, overrides config")
	rootCmd.PersistentFlags().StringVar(&flags.endpoint, "endpoint", "", "rpc endpoint, overrides config")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "debug logging")

	rootCmd.AddCommand(
		newPingCmd(flags),
		newOrdersCmd(flags),
		newOrderbookCmd(flags),
		newMakeOrderCmd(flags),
		newTakeOrderCmd(flags),
		newCancelOrderCmd(flags),
		newQuoteCmd(flags),
		newSubscribeCmd(flags),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Err(err).Msg("command execution failed")
		os.Exit(1)
	}
}

func (f *globalFlags) load() (*conf.Aori, *zerolog.Logger) {
	cfg := conf.New(f.configPath)

	if f.apiKey != "" {
		cfg.APIKey = f.apiKey
	}

	if f.endpoint != "" {
		cfg.Endpoint = f.endpoint
	}

	if f.debug {
		cfg.Debug = true
	}

	defaultLogLevel := zerolog.InfoLevel
	if cfg.Debug {
		defaultLogLevel = zerolog.DebugLevel
	}

	logger := zerolog.New(os.Stderr).Level(defaultLogLevel).With().Timestamp().Caller().Logger()

	return cfg, &logger
}

func (f *globalFlags) rpc() *client.RPC {
	cfg, logger := f.load()

	return client.NewRPC(cfg, logger)
}

// printResponse writes the raw body to stdout. A JSON-RPC error is printed too and then returned.
func printResponse(cmd *cobra.Command, resp *response.Response, err error) error {
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(resp.Raw))

	if rpcErr := resp.Err(); rpcErr != nil {
		return rpcErr
	}

	return nil
}
