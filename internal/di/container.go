package di

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/reshetovitsme/feedview/internal/modules/feed/controller"
	"github.com/reshetovitsme/feedview/internal/modules/feed/fetcher"
	"github.com/reshetovitsme/feedview/internal/modules/feed/render"
	feedService "github.com/reshetovitsme/feedview/internal/modules/feed/service"
	"github.com/reshetovitsme/feedview/internal/shared/config"
	sharedErrors "github.com/reshetovitsme/feedview/internal/shared/errors"
	httpServer "github.com/reshetovitsme/feedview/internal/transport/http"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	Register(injector)
	return injector, nil
}

// Register provides every component except the config, which callers
// supply themselves.
func Register(injector do.Injector) {
	// Register Fetcher
	do.Provide(injector, func(i do.Injector) (fetcher.FeedFetcher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewFetcher(cfg, slog.Default())
	})

	// Register Render Region
	do.Provide(injector, func(i do.Injector) (*render.Region, error) {
		return render.NewRegion(), nil
	})

	// Register Feed Service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		f := do.MustInvoke[fetcher.FeedFetcher](i)
		region := do.MustInvoke[*render.Region](i)
		return feedService.New(f, region, cfg.DefaultFeed, slog.Default()), nil
	})

	// Register Controller
	do.Provide(injector, func(i do.Injector) (*controller.Controller, error) {
		service := do.MustInvoke[*feedService.Service](i)
		return controller.New(service, slog.Default()), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		service := do.MustInvoke[*feedService.Service](i)
		ctrl := do.MustInvoke[*controller.Controller](i)
		region := do.MustInvoke[*render.Region](i)
		server := httpServer.New(cfg, service, ctrl, region)
		server.SetLogger(slog.Default())
		return server, nil
	})
}

// NewFetcher builds the fetcher selected by cfg.Fetcher
func NewFetcher(cfg *config.Config, log *slog.Logger) (fetcher.FeedFetcher, error) {
	client := &http.Client{Timeout: cfg.Timeout()}

	switch cfg.Fetcher {
	case config.FetcherKindConverter:
		return fetcher.NewConverterFetcher(cfg.ConversionService, client, log), nil
	case config.FetcherKindDirect:
		return fetcher.NewDirectFetcher(client, log), nil
	default:
		return nil, oops.With("fetcher", cfg.Fetcher).Errorf("unsupported fetcher kind: %s", cfg.Fetcher)
	}
}

// Shutdown gracefully shuts down all services
func Shutdown(ctx context.Context, injector do.Injector) error {
	// Detach the controller and wait for loads in flight
	if ctrl, err := do.Invoke[*controller.Controller](injector); err == nil && ctrl != nil {
		if err := ctrl.Detach(); err != nil && !errors.Is(err, sharedErrors.ErrDetached) {
			return oops.With("context", "failed to detach controller").Wrap(err)
		}
	}

	// Stop the HTTP server if it exists
	if server, err := do.Invoke[*httpServer.Server](injector); err == nil && server != nil {
		if err := server.Shutdown(ctx); err != nil {
			return oops.With("context", "failed to stop http server").Wrap(err)
		}
	}

	return nil
}
