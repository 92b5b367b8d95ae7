// cmd/dnp3-adapter/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/longzhou3/openfmb-adapters/internal/config"
	"github.com/longzhou3/openfmb-adapters/internal/dnp3"
	"github.com/longzhou3/openfmb-adapters/internal/publish"
	"github.com/longzhou3/openfmb-adapters/internal/scan"
)

func main() {
	atom := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger := zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		atom,
	))
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	if len(os.Args) < 2 {
		log.Fatal("usage: dnp3-adapter <config.yaml>")
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)
	atom.SetLevel(parseLevel(cfg.Adapter.LogLevel))

	// --------------------
	// Build the translation pipeline
	// --------------------

	mapping, err := config.BuildMapping(cfg)
	if err != nil {
		log.Fatalf("mapping build failed (adapter=%s): %v", cfg.Adapter.ID, err)
	}

	observer, err := publish.Build(cfg.Adapter.Publish, log)
	if err != nil {
		log.Fatalf("publish sink failed (adapter=%s): %v", cfg.Adapter.ID, err)
	}

	adapter := dnp3.NewUpdateAdapter(cfg.Adapter.ID, mapping, observer, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Optional scan ingress
	// --------------------

	if cfg.Adapter.Source != nil {
		src, closeSource, err := scan.Build(cfg.Adapter.ID, cfg.Adapter.Source, adapter, log)
		if err != nil {
			log.Fatalf("scan source failed (adapter=%s): %v", cfg.Adapter.ID, err)
		}
		defer func() { _ = closeSource() }()

		go src.Run(ctx)
		log.Infof("adapter %s: scanning %s every %dms",
			cfg.Adapter.ID, cfg.Adapter.Source.Endpoint, cfg.Adapter.Source.IntervalMs)
	} else {
		log.Infof("adapter %s: no scan source configured, waiting for session callbacks", cfg.Adapter.ID)
	}

	<-ctx.Done()
	log.Infof("adapter %s: shutting down", cfg.Adapter.ID)
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "lvl",
	NameKey:        "name",
	CallerKey:      "caller",
	MessageKey:     "message",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalLevelEncoder,
	EncodeTime:     zapcore.RFC3339TimeEncoder,
	EncodeDuration: zapcore.SecondsDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}
