package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/carousel/fonts"
	"github.com/ByLCY/carousel/internal/cache"
	"github.com/ByLCY/carousel/internal/config"
	"github.com/ByLCY/carousel/internal/fetch"
	"github.com/ByLCY/carousel/internal/pipeline"
	"github.com/ByLCY/carousel/renderer"
)

// openCache builds the configured cache backend.
func openCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheFile:
		return cache.NewFileCache(cfg.Dir)
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{URL: cfg.RedisURL})
	default:
		return cache.NewNullCache(), nil
	}
}

// newService wires fonts, fetcher and cache into a pipeline.Service. The
// caller closes the returned cache. assetDir overrides cfg.Assets.BaseDir
// when the config leaves it empty.
func newService(ctx context.Context, cfg *config.Config, assetDir string, logger *log.Logger) (*pipeline.Service, cache.Cache, error) {
	format, err := renderer.ParseFormat(cfg.Render.Format)
	if err != nil {
		return nil, nil, err
	}
	c, err := openCache(ctx, cfg.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s cache: %w", cfg.Cache.Backend, err)
	}

	baseDir := cfg.Assets.BaseDir
	if baseDir == "" {
		baseDir = assetDir
	}
	svc := pipeline.New(pipeline.Options{
		Fonts: fonts.NewDirLoader(cfg.Fonts.Dir, logger),
		Fetcher: fetch.New(fetch.Options{
			BaseDir:  baseDir,
			Timeout:  cfg.Assets.Timeout.Duration,
			MaxBytes: cfg.Assets.MaxBytes,
			Attempts: cfg.Assets.Attempts,
			Logger:   logger,
		}),
		Cache:         c,
		CacheTTL:      cfg.Cache.TTL.Duration,
		Concurrency:   cfg.Render.Concurrency,
		DefaultFormat: format,
		DefaultWidth:  cfg.Render.Width,
		Logger:        logger,
	})
	logger.Debug("service ready", "cache", cfg.Cache.Backend, "fonts", cfg.Fonts.Dir, "assets", baseDir, "format", format)
	return svc, c, nil
}
