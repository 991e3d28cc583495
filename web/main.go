// Command glint-web serves the progressive raytracer over HTTP, streaming
// live previews to the browser with Server-Sent Events.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/glintrender/glint/web/server"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML server config; empty uses defaults")
	addr := flag.String("addr", "", "listen address override, e.g. :8080")
	static := flag.String("static", "", "static assets directory override")
	debug := flag.Bool("debug", false, "verbose development logging")
	flag.Parse()

	logger := newLogger(*debug)
	defer func() { _ = logger.Sync() }()

	config := server.DefaultConfig()
	if *configPath != "" {
		var err error
		if config, err = server.LoadConfig(*configPath); err != nil {
			logger.Fatal("loading config", zap.Error(err))
		}
	}
	if *addr != "" {
		config.ListenAddress = *addr
	}
	if *static != "" {
		config.StaticDir = *static
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := server.NewServer(config, logger).Start(ctx); err != nil {
		logger.Fatal("web server failed", zap.Error(err))
	}
}

func newLogger(debug bool) *zap.Logger {
	if debug {
		return zap.Must(zap.NewDevelopment())
	}
	return zap.Must(zap.NewProduction())
}
