package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tunnelproxy/internal/config"
	"tunnelproxy/internal/connector"
	"tunnelproxy/internal/metrics"
	"tunnelproxy/internal/resolver"
	"tunnelproxy/internal/supervisor"
	"tunnelproxy/internal/tunnel"
	"tunnelproxy/internal/ui"
)

const defaultMetricsAddr = ":9090"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "tunnelproxy",
		Short: "Multi-mode intercepting TCP proxy (HTTP CONNECT, HTTPS/SNI, static TCP)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the TOML config file (required)")
	return cmd
}

func run(configPath string) error {
	// Ignored: in production/docker, env vars may be set directly rather
	// than through a .env file.
	_ = godotenv.Load()

	ui.PrintBanner()

	if configPath == "" {
		ui.ErrorNote("Config file not found: pass --config/-c with a path to a TOML config file")
		return fmt.Errorf("config file not found")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		ui.ErrorNote(err.Error())
		return err
	}
	if err := cfg.Validate(); err != nil {
		ui.ErrorNote(err.Error())
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var dnsTTL *time.Duration
	if cfg.TargetConnection.DNSCacheTTL != nil {
		d := cfg.TargetConnection.DNSCacheTTL.Duration()
		dnsTTL = &d
	}
	dnsResolver := resolver.New(dnsTTL)
	conn := connector.New(dnsResolver, cfg.TargetConnection.ConnectTimeout.Duration())

	handlers := buildHandlers(cfg, conn)
	fmt.Println(ui.RenderTable(listenerSummary(handlers)))

	sup := supervisor.New(handlers...)
	if err := sup.Serve(); err != nil {
		ui.ErrorNote("Bind failed: " + err.Error())
		return err
	}

	metricsSrv := metrics.NewServer(defaultMetricsAddr)
	metricsSrv.Start(func(err error) {
		ui.LogStatus("error", "metrics server error: "+err.Error())
	})

	<-ctx.Done()
	ui.LogGracefulShutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
	sup.Shutdown()

	return nil
}

func listenerSummary(handlers []tunnel.Handler) ui.RenderTableOptions {
	rows := make([]map[string]string, 0, len(handlers))
	for _, h := range handlers {
		rows = append(rows, map[string]string{
			"kind":   h.Name(),
			"listen": h.ListenAddr(),
		})
	}
	return ui.RenderTableOptions{
		Columns: []ui.TableColumn{
			{Key: "kind", Header: "Tunnel"},
			{Key: "listen", Header: "Listen Address"},
		},
		Rows: rows,
	}
}

func buildHandlers(cfg *config.Config, conn *connector.Connector) []tunnel.Handler {
	var handlers []tunnel.Handler

	if cfg.HTTP != nil {
		addr := fmt.Sprintf(":%d", cfg.HTTP.ListenPort)
		handlers = append(handlers, tunnel.NewHTTP(addr, conn))
	}
	if cfg.HTTPS != nil {
		addr := fmt.Sprintf(":%d", cfg.HTTPS.ListenPort)
		handlers = append(handlers, tunnel.NewHTTPS(addr, conn))
	}
	for _, t := range cfg.TCP {
		addr := fmt.Sprintf(":%d", t.ListenPort)
		handlers = append(handlers, tunnel.NewTCP(addr, t.RemoteAddr, conn))
	}

	return handlers
}
