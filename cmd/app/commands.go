package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pos/cmd"
	httpin "pos/internal/adapters/in/http"
	"pos/internal/adapters/out/postgres"
	"pos/internal/core/domain/model/kernel"
	"pos/internal/render"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

type rootOptions struct {
	EnvFile string
	Verbose bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "pos",
		Short:         "Restaurant point of sale and kitchen coordination",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newServeCommand(opts))
	root.AddCommand(newMigrateCommand(opts))
	root.AddCommand(newReceiptCommand(opts))
	return root
}

func (o *rootOptions) logger() *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// bootstrap loads the configuration, connects to the database and builds the
// composition root.
func (o *rootOptions) bootstrap() (cmd.Config, *cmd.CompositionRoot, error) {
	cfg, err := cmd.LoadConfig(o.EnvFile)
	if err != nil {
		return cmd.Config{}, nil, err
	}
	db, err := cmd.OpenDB(cfg)
	if err != nil {
		return cmd.Config{}, nil, err
	}
	app, err := cmd.NewCompositionRoot(cfg, db, o.logger())
	if err != nil {
		return cmd.Config{}, nil, err
	}
	return cfg, app, nil
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the websocket streams and the background jobs",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, app, err := opts.bootstrap()
			if err != nil {
				return err
			}
			defer app.Close()
			if err = app.Connect(); err != nil {
				return err
			}

			jobManager := app.CreateJobManager()
			if err = jobManager.StartAll(); err != nil {
				return err
			}
			defer jobManager.StopAll()

			doc, err := httpin.LoadSpec()
			if err != nil {
				return err
			}
			e := echo.New()
			e.HideBanner = true
			e.Use(middleware.Recover())
			if err = app.CreateServer().Register(e, doc); err != nil {
				return err
			}
			app.CreateStreams().Register(e)

			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort))
			}()

			select {
			case err = <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := cmd.LoadConfig(opts.EnvFile)
			if err != nil {
				return err
			}
			db, err := cmd.OpenDB(cfg)
			if err != nil {
				return err
			}
			if err = postgres.Migrate(c.Context(), db); err != nil {
				return err
			}
			opts.logger().InfoContext(c.Context(), "schema is up to date")
			return nil
		},
	}
}

func newReceiptCommand(opts *rootOptions) *cobra.Command {
	var withTickets bool

	command := &cobra.Command{
		Use:   "receipt <order-id>",
		Short: "Print the receipt of a stored order",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			orderID, err := kernel.UUIDFromString(args[0])
			if err != nil {
				return err
			}
			_, app, err := opts.bootstrap()
			if err != nil {
				return err
			}

			o, err := app.OrderRepository().Get(c.Context(), orderID)
			if err != nil {
				return err
			}
			out := c.OutOrStdout()
			fmt.Fprint(out, render.Receipt(render.HeaderFor(app.Directory(), o, time.Now()), o))

			if !withTickets {
				return nil
			}
			tickets, err := app.TicketRepository().ListByOrder(c.Context(), orderID)
			if err != nil {
				return err
			}
			for _, t := range tickets {
				fmt.Fprintln(out)
				fmt.Fprint(out, render.KitchenTicket(t))
			}
			return nil
		},
	}
	command.Flags().BoolVar(&withTickets, "tickets", false, "also print the kitchen tickets of the order")
	return command
}
