package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/soulgarden/aori-client/broker"
	"github.com/soulgarden/aori-client/service"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	tb "gopkg.in/tucnak/telebot.v2"
)

func newSubscribeCmd(flags *globalFlags) *cobra.Command {
	var (
		wsEndpoint string
		reconnect  bool
		telegram   bool
	)

	cmd := &cobra.Command{
		Use:   "subscribe",
		Short: "Stream orderbook updates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := flags.load()

			if wsEndpoint != "" {
				cfg.WsEndpoint = wsEndpoint
			}

			if reconnect {
				cfg.Subscription.Reconnect = true
			}

			cmdManager := service.NewManager(logger)

			ctx, cancel := cmdManager.ListenSignal(cmd.Context())
			defer cancel()

			g, ctx := errgroup.WithContext(ctx)

			eventBroker := broker.New(logger)
			feed := service.NewFeed(cfg, eventBroker, logger)

			out := cmd.OutOrStdout()

			feed.Tap(func(msg []byte) {
				fmt.Fprintln(out, string(msg))
			})

			g.Go(func() error {
				eventBroker.Start(ctx)

				return nil
			})

			if telegram {
				tgBot, err := tb.NewBot(tb.Settings{Token: cfg.Telegram.Token})
				if err != nil {
					logger.Err(err).Msg("new tg bot")
					cancel()

					_ = g.Wait()

					return err
				}

				tgSvc := service.NewTelegram(cfg, tgBot, logger)
				tgUpdates := eventBroker.Subscribe()

				g.Go(func() error {
					tgSvc.Start(ctx)

					return nil
				})
				g.Go(func() error {
					tgSvc.Forward(ctx, tgUpdates)

					return nil
				})

				tgSvc.SendAsync("orderbook subscription starting")
				defer tgSvc.SendSync("orderbook subscription stopped")
			}

			g.Go(func() error {
				defer cancel()

				return feed.Start(ctx)
			})

			err := g.Wait()
			if errors.Is(err, context.Canceled) {
				return nil
			}

			return err
		},
	}

	cmd.Flags().StringVar(&wsEndpoint, "ws-endpoint", "", "websocket endpoint, overrides config")
	cmd.Flags().BoolVar(&reconnect, "reconnect", false, "reconnect with backoff when the connection ends")
	cmd.Flags().BoolVar(&telegram, "telegram", false, "forward updates to the configured telegram chat")

	return cmd
}
