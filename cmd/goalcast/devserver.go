package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/goalcast/internal/devserver"
)

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Serve fixture teams and predictions for offline development",
	Long: `Devserver answers the search and prediction endpoints from a YAML
fixture file so the picker can be used without the real service. Without
--fixtures a small built-in set of teams is served.

Add ?format=html to a search to get the legacy HTML fragment instead of JSON.`,
	RunE: runDevServer,
}

func runDevServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.DevServer.Addr = addr
	}
	if path, _ := cmd.Flags().GetString("fixtures"); path != "" {
		cfg.DevServer.Fixtures = path
	}

	fx, err := devserver.LoadFixtures(cfg.DevServer.Fixtures)
	if err != nil {
		return err
	}

	log, err := openLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := devserver.New(fx, log.Logger)
	return srv.ListenAndServe(ctx, cfg.DevServer.Addr, func(a net.Addr) {
		fmt.Fprintf(os.Stderr, "Serving %d fixture teams on http://%s\n", len(fx.Teams), a)
		log.Info("devserver listening", "addr", a.String(), "teams", len(fx.Teams), "latency", fx.Latency)
	})
}

func init() {
	devserverCmd.Flags().String("addr", "", "listen address (default from config, :8000)")
	devserverCmd.Flags().String("fixtures", "", "fixture YAML file (default: built-in teams)")

	rootCmd.AddCommand(devserverCmd)
}
