package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pagemill/elementor-mcp/config"
	"github.com/pagemill/elementor-mcp/elementor"
	"github.com/pagemill/elementor-mcp/mcp"
	"github.com/pagemill/elementor-mcp/wp"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		httpAddr   string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "elementor-mcp",
		Short: "MCP server exposing WordPress and Elementor page editing tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(debug)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			site, err := cfg.ActiveSite()
			if err != nil {
				return err
			}
			client, err := wp.NewClient(wp.Config{
				BaseURL:     site.BaseURL,
				Username:    site.Username,
				AppPassword: site.AppPassword,
			}, nil, logger)
			if err != nil {
				return err
			}
			store := elementor.NewStore(client, logger)

			if httpAddr == "" {
				httpAddr = cfg.HTTPAddr
			}
			if httpAddr != "" {
				events := mcp.NewEventBroker(logger, nil)
				s := mcp.NewServer(logger, store, client, events)
				logger.Info("starting MCP server", zap.String("addr", httpAddr), zap.String("site", site.BaseURL))
				return http.ListenAndServe(httpAddr, mcp.NewHTTPHandler(s, "/mcp"))
			}

			s := mcp.NewServer(logger, store, client, nil)
			logger.Info("starting MCP server on stdio", zap.String("site", site.BaseURL))
			return s.ServeStdio()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the config file")
	cmd.Flags().StringVar(&httpAddr, "http", "", "HTTP server address (e.g. ':8080'); stdio when empty")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	return cmd
}

// newLogger builds the process logger. Logs go to stderr, which keeps the
// stdio MCP transport on stdout clean.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
