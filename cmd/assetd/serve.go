package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/memohai/assetd/internal/assets"
	"github.com/memohai/assetd/internal/config"
	"github.com/memohai/assetd/internal/handlers"
	"github.com/memohai/assetd/internal/ledger"
	"github.com/memohai/assetd/internal/logger"
	"github.com/memohai/assetd/internal/server"
	"github.com/memohai/assetd/internal/storage"
	"github.com/memohai/assetd/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		app := fx.New(
			fx.Supply(cfg),
			infraModule,
			domainModule,
			serverModule,
			fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
				return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
			}),
		)
		if err := app.Err(); err != nil {
			return err
		}
		app.Run()
		return nil
	},
}

var infraModule = fx.Module(
	"infra",
	fx.Provide(
		provideLogger,
		provideRegistry,
		provideLedger,
		provideStorage,
	),
)

var domainModule = fx.Module(
	"domain",
	fx.Provide(
		provideObserver,
		provideAssetService,
	),
)

var serverModule = fx.Module(
	"server",
	fx.Provide(
		provideServerHandler(handlers.NewPingHandler),
		provideServerHandler(provideAssetsHandler),
		provideServerHandler(handlers.NewFilesHandler),
		provideServerHandler(handlers.NewSwaggerHandler),
		provideServerHandler(provideMetricsHandler),
		provideServer,
	),
	fx.Invoke(startServer),
)

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideLedger(lc fx.Lifecycle, log *slog.Logger, cfg config.Config) (assets.Ledger, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Ledger.Timeout())
	defer cancel()

	led, closeLedger, err := ledger.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("ledger ready", slog.String("driver", cfg.Ledger.Driver))
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			closeLedger()
			return nil
		},
	})
	return led, nil
}

func provideStorage(log *slog.Logger, cfg config.Config) (storage.Provider, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Storage.Timeout())
	defer cancel()

	provider, err := storage.NewProvider(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	log.Info("storage ready", slog.String("backend", cfg.Storage.Backend), slog.String("base_url", provider.BaseURL()))
	return provider, nil
}

func provideObserver(reg *prometheus.Registry) (assets.Observer, error) {
	return assets.NewPrometheusObserver("assetd", reg)
}

func provideAssetService(log *slog.Logger, cfg config.Config, led assets.Ledger, provider storage.Provider, observer assets.Observer) *assets.Service {
	return assets.NewService(log, led, provider, assets.PolicyFromConfig(cfg.Assets), assets.Options{
		LedgerTimeout:  cfg.Ledger.Timeout(),
		StorageTimeout: cfg.Storage.Timeout(),
		Observer:       observer,
	})
}

func provideAssetsHandler(log *slog.Logger, cfg config.Config, svc *assets.Service) *handlers.AssetsHandler {
	return handlers.NewAssetsHandler(log, svc).WithUploadLimit(cfg.Server.UploadRatePerSecond, cfg.Server.UploadBurst)
}

func provideMetricsHandler(reg *prometheus.Registry) *handlers.MetricsHandler {
	return handlers.NewMetricsHandler(reg)
}

type serverParams struct {
	fx.In

	Logger         *slog.Logger
	Config         config.Config
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	return server.NewServer(params.Logger, server.Options{
		Addr:           params.Config.Server.Addr,
		JWTSecret:      params.Config.Auth.JWTSecret,
		MaxUploadBytes: params.Config.Assets.MaxFileSizeBytes,
	}, params.ServerHandlers...)
}

func startServer(lc fx.Lifecycle, logger *slog.Logger, cfg config.Config, srv *server.Server, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.Auth.JWTSecret == "" {
				return errors.New("auth.jwt_secret is required")
			}
			logger.Info("starting assetd", slog.String("version", version.GetInfo()))
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := srv.Stop(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stop: %w", err)
			}
			return nil
		},
	})
}
