package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/techurbanist/duread/internal/buildinfo"
	"github.com/techurbanist/duread/internal/client/cli"
	"github.com/techurbanist/duread/internal/client/config"
	"github.com/techurbanist/duread/internal/client/extract"
	"github.com/techurbanist/duread/internal/client/httpapi"
	"github.com/techurbanist/duread/internal/client/scheduler"
	"github.com/techurbanist/duread/internal/client/services"
	"github.com/techurbanist/duread/internal/client/session"
	"github.com/techurbanist/duread/internal/client/store"
	"github.com/techurbanist/duread/internal/client/translator"
	"github.com/techurbanist/duread/internal/logging"
)

func main() {
	buildinfo.Print(os.Stdout)

	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	st, err := store.Open(ctx, cfg.StorageDriver, cfg.DSN)
	if err != nil {
		return err
	}
	defer st.Close()

	creds := services.NewCredentialService(st, session.NewMemoryCache())

	client := translator.New(
		translator.WithURL(cfg.APIURL),
		translator.WithModel(cfg.Model),
		translator.WithMaxTokens(cfg.MaxTokens),
	)

	opts := []services.DocumentOption{
		services.WithFetcher(extract.New()),
		services.WithLogger(logger),
		services.WithSchedulerOptions(
			scheduler.WithTimeout(cfg.RequestTimeout),
			scheduler.WithRetry(uint64(cfg.MaxRetries), cfg.RetryDelay),
		),
	}
	if cfg.HTTPAddr == "" {
		opts = append(opts, services.WithObserver(cli.NewRenderer(os.Stdout)))
	}

	docs := services.NewDocumentService(ctx, st, creds, client, opts...)
	defer docs.Close()

	if cfg.HTTPAddr == "" {
		cli.NewApp(cfg, creds, docs).Run(ctx)
		return nil
	}

	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return err
	}
	logger.Info(ctx, "serving", "addr", ln.Addr().String())
	return httpapi.Serve(ctx, ln, httpapi.NewRouter(creds, docs, logger))
}
