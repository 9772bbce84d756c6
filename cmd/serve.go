package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phux/phishcheck/web"

	"github.com/spf13/cobra"
)

var (
	listenAddr string
	noBanner   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve the single page URL checker",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("listen") {
			cfg.Listen = listenAddr
		}

		level, err := cfg.SlogLevel()
		if err != nil {
			return err
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		srv, err := web.New(web.Options{
			Analyzer:   newClient(cfg),
			Logger:     logger,
			SessionTTL: cfg.SessionTTL,
			Debug:      level == slog.LevelDebug,
		})
		if err != nil {
			return err
		}

		if !noBanner {
			printBanner(cfg.Listen, cfg.Endpoint)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return srv.Run(ctx, cfg.Listen)
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "[optional] address to listen on (default from config: :8080)")
	serveCmd.Flags().BoolVar(&noBanner, "no-banner", false, "[optional] do not print the startup banner")
	rootCmd.AddCommand(serveCmd)
}

