package controller

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	sharedErrors "github.com/reshetovitsme/feedview/internal/shared/errors"
	"github.com/samber/oops"
)

// Loader starts feed loads without blocking the caller
type Loader interface {
	LoadAsync(ctx context.Context, raw string)
	Wait()
}

// Controller owns the triggers of the feed widget: one load when it is
// attached (page load) and one per activation of the control.
type Controller struct {
	loader Loader
	log    *slog.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a detached controller
func New(loader Loader, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		loader: loader,
		log:    log,
	}
}

// Attach subscribes the controller and fires the initial load with the
// default feed. Loads started afterwards are cancelled by Detach or by ctx.
func (c *Controller) Attach(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return oops.In("controller").Wrap(sharedErrors.ErrAlreadyAttached)
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.log.Info("Feed controller attached")
	c.loader.LoadAsync(c.ctx, "")
	return nil
}

// Activate handles the control: input is trimmed and, when empty, the
// default feed is loaded instead.
func (c *Controller) Activate(input string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel == nil || c.ctx.Err() != nil {
		return oops.In("controller").Wrap(sharedErrors.ErrDetached)
	}

	c.log.Debug("Feed control activated", slog.Bool("default", strings.TrimSpace(input) == ""))
	c.loader.LoadAsync(c.ctx, input)
	return nil
}

// Attached reports whether activations are currently accepted
func (c *Controller) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil && c.ctx.Err() == nil
}

// Detach unsubscribes, cancels loads in flight and waits for them to return.
func (c *Controller) Detach() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel == nil {
		return oops.In("controller").Wrap(sharedErrors.ErrDetached)
	}

	c.cancel()
	c.loader.Wait()
	c.ctx, c.cancel = nil, nil
	c.log.Info("Feed controller detached")
	return nil
}
