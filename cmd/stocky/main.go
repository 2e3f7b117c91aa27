package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stockyhq/stocky/internal/config"
	"github.com/stockyhq/stocky/internal/search"
	"github.com/stockyhq/stocky/internal/server"
	"github.com/stockyhq/stocky/pkg/logger"
)

var (
	Version   = "dev"
	BuildDate = "unknown"
)

var (
	cfgFile  string
	httpAddr string
	showVer  bool
)

var rootCmd = &cobra.Command{
	Use:   "stocky",
	Short: "MCP server for royalty-free stock image search",
	Long: `An MCP server that aggregates stock image search across
Pexels, Unsplash and Pixabay behind two tools: search_stock_images
and get_image_details. Speaks MCP over stdio by default, or over
streamable HTTP with --http.`,
	Run: func(cmd *cobra.Command, args []string) {
		if showVer {
			fmt.Printf("stocky %s (built %s)\n", Version, BuildDate)
			return
		}

		cfg := config.Load(cfgFile)
		if httpAddr != "" {
			cfg.Server.HTTPAddr = httpAddr
		}

		logger.Init(cfg.Logging.Level, cfg.Logging.Format)
		defer logger.Sync()

		logger.Info("starting stocky",
			zap.String("version", Version),
			zap.Int("provider_timeout_sec", cfg.Search.ProviderTimeout),
			zap.Bool("attribution_links", cfg.Search.AttributionLinks),
		)

		manager := search.NewManager(cfg)
		srv := server.New(manager, Version)

		if cfg.Server.HTTPAddr != "" {
			runHTTP(srv, cfg.Server.HTTPAddr)
			return
		}

		if err := srv.ServeStdio(); err != nil {
			logger.Error("stdio server error", zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&httpAddr, "http", "", "serve MCP over streamable HTTP on this address instead of stdio")
	rootCmd.Flags().BoolVarP(&showVer, "version", "v", false, "show version")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runHTTP(srv *server.Server, addr string) {
	httpSrv := srv.NewHTTPServer()

	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		if err := httpSrv.Start(addr); err != nil {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
