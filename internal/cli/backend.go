package cli

import (
	"context"
	"errors"
	"fmt"

	"tasky/internal/backend/googletasks"
	"tasky/internal/backend/local"
	"tasky/internal/config"
	"tasky/internal/credentials"
	"tasky/internal/service"
)

// DefaultServiceFactory creates the backend selected in config.yaml.
func DefaultServiceFactory(ctx context.Context, cfg *config.Config) (service.Service, error) {
	switch cfg.Settings.Backend {
	case config.BackendLocal:
		if err := cfg.EnsureDir(); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		b, err := local.New(cfg.DatabasePath())
		if err != nil {
			return nil, err
		}
		return b, nil

	default:
		if !cfg.HasOAuthClient() {
			return nil, fmt.Errorf("%w in %s (run: %s login)", credentials.ErrNoClient, cfg.Dir, config.AppName)
		}
		c, err := googletasks.New(ctx, cfg, credentials.New(cfg))
		if errors.Is(err, credentials.ErrNoToken) {
			return nil, fmt.Errorf("%w (run: %s login)", err, config.AppName)
		}
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}
