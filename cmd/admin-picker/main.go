package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/text/language"

	"github.com/Its-donkey/admin-picker/internal/config"
	"github.com/Its-donkey/admin-picker/internal/ui/app"
	"github.com/Its-donkey/admin-picker/internal/ui/directory"
	"github.com/Its-donkey/admin-picker/internal/ui/i18n"
	"github.com/Its-donkey/admin-picker/internal/ui/model"
	"github.com/Its-donkey/admin-picker/internal/ui/server"
	"github.com/Its-donkey/admin-picker/logging"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		// A second signal forces exit.
		<-sigCh
		log.Println("second interrupt received, forcing shutdown")
		os.Exit(1)
	}()
	defer func() {
		signal.Stop(sigCh)
		cancel()
	}()

	configPath := flag.String("config", config.DefaultPath, "path to configuration (.json, .toml, .yaml)")
	listen := flag.String("listen", "", "address to serve the picker (defaults to server.listen)")
	wasmDir := flag.String("wasm-dir", "", "directory holding main.wasm and wasm_exec.js; enables /app")
	proxyAPI := flag.Bool("api-proxy", false, "reverse-proxy /api/ to the directory API")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *listen != "" {
		cfg.Server.Listen = *listen
	}

	logger, closeLogs, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer closeLogs()

	lang, ok := i18n.ParseTag(cfg.UI.Locale)
	if !ok {
		logger.Warn("config", "unsupported locale, using ru", map[string]any{"locale": cfg.UI.Locale})
		lang = language.Russian
	}

	client := directory.New(cfg.API.BaseURL,
		directory.WithTimeout(cfg.API.Timeout),
		directory.WithLogger(logger),
	)
	picker, err := app.New(app.Options{
		Directory:      client,
		Logger:         logger,
		Language:       lang,
		Theme:          model.Theme{HeaderColor: cfg.UI.Theme.HeaderColor, BackgroundColor: cfg.UI.Theme.BackgroundColor},
		SafeguardDelay: cfg.UI.SafeguardDelay,
		CloseDelay:     cfg.UI.CloseDelay,
	})
	if err != nil {
		log.Fatalf("picker: %v", err)
	}
	picker.Start(ctx)

	opts := server.Options{
		Listen:   cfg.Server.Listen,
		App:      picker,
		Logger:   logger,
		Language: lang,
		WASMDir:  *wasmDir,
	}
	if *proxyAPI {
		opts.APIBase = cfg.API.BaseURL
	}
	if err := server.Run(ctx, opts); err != nil && err != context.Canceled {
		logger.Error("http", "server stopped", err, nil)
		os.Exit(1)
	}
}

func newLogger(cfg config.LoggingConfig) (*logging.Logger, func(), error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	writers := []io.Writer{os.Stdout}
	closeLogs := func() {}
	if cfg.Dir != "" {
		fw, err := logging.NewFileWriter(cfg.Dir, cfg.File, cfg.MaxSizeMB, cfg.MaxFiles)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, fw)
		closeLogs = func() { _ = fw.Close() }
	}
	return logging.New(level, writers...), closeLogs, nil
}
