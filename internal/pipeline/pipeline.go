// Package pipeline renders slide requests end to end:
// validate → fetch asset → load fonts → compose → arrange → rasterize.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/carousel/fonts"
	"github.com/ByLCY/carousel/internal/cache"
	"github.com/ByLCY/carousel/internal/fetch"
	"github.com/ByLCY/carousel/layout"
	"github.com/ByLCY/carousel/renderer"
	canvasrenderer "github.com/ByLCY/carousel/renderer/canvas"
)

// Options configures a Service. Nil collaborators get working defaults.
type Options struct {
	Fonts         *fonts.Loader
	Fetcher       *fetch.Fetcher
	Cache         cache.Cache
	CacheTTL      time.Duration
	Concurrency   int
	DefaultFormat renderer.Format
	DefaultWidth  int
	Logger        *log.Logger
}

// Service renders slides. It is safe for concurrent use.
type Service struct {
	fonts         *fonts.Loader
	fetcher       *fetch.Fetcher
	cache         cache.Cache
	cacheTTL      time.Duration
	concurrency   int
	defaultFormat renderer.Format
	defaultWidth  int
	logger        *log.Logger
	canvas        *canvasrenderer.Renderer
}

// Result is one rendered slide.
type Result struct {
	Data     []byte
	Format   renderer.Format
	Width    int
	Height   int
	Duration time.Duration
	Cached   bool

	// Tree and Frame are set on cache misses only.
	Tree  *layout.Node
	Frame *layout.Frame
}

// New creates a Service.
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Service{
		fonts:         opts.Fonts,
		fetcher:       opts.Fetcher,
		cache:         opts.Cache,
		cacheTTL:      opts.CacheTTL,
		concurrency:   opts.Concurrency,
		defaultFormat: opts.DefaultFormat,
		defaultWidth:  opts.DefaultWidth,
		logger:        logger,
	}
	if s.fonts == nil {
		s.fonts = fonts.NewLoader(nil, logger)
	}
	if s.fetcher == nil {
		s.fetcher = fetch.New(fetch.Options{Logger: logger})
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.concurrency < 1 {
		s.concurrency = 4
	}
	s.canvas = canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Logger: logger})
	return s
}

// cacheKey covers every field that influences the output.
type cacheKey struct {
	Request *Request        `json:"request"`
	Format  renderer.Format `json:"format"`
	Width   int             `json:"width"`
}

// Render validates and renders a single slide.
func (s *Service) Render(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	format, width, height := req.outputSpec(s.defaultFormat, s.defaultWidth)

	key, err := cache.Key("render", cacheKey{Request: req, Format: format, Width: width})
	if err != nil {
		return nil, err
	}
	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("cache get failed", "err", err)
	} else if ok {
		return &Result{Data: data, Format: format, Width: width, Height: height, Duration: time.Since(start), Cached: true}, nil
	}

	var asset, logo []byte
	degraded := false
	if req.AssetURL != "" {
		asset = s.fetcher.Optional(ctx, req.AssetURL)
		degraded = asset == nil
	}
	if req.Brand.LogoURL != "" && req.slideType() == layout.SlideTypeCTA {
		logo = s.fetcher.Optional(ctx, req.Brand.LogoURL)
		degraded = degraded || logo == nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	family := req.FontFamily()
	if err := s.canvas.Register(family, s.fonts.Load(family)); err != nil {
		// 未注册的字体族由渲染器使用内置字体
		s.logger.Warn("failed to register font family", "family", family, "err", err)
	}

	tree := layout.Compose(req.Content(asset, logo))
	frame, err := layout.Arrange(tree, layout.ArrangeOptions{Typesetter: s.canvas})
	if err != nil {
		return nil, fmt.Errorf("arrange slide %d: %w", req.SlideNumber, err)
	}
	data, err := s.canvas.Render(frame, renderer.Options{Format: format, Width: width})
	if err != nil {
		return nil, fmt.Errorf("render slide %d: %w", req.SlideNumber, err)
	}

	// 图片缺失的降级结果不入缓存，下次请求重新获取
	if degraded {
		s.logger.Debug("not caching degraded render", "slide", req.SlideNumber)
	} else if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("cache set failed", "err", err)
	}
	res := &Result{
		Data:     data,
		Format:   format,
		Width:    width,
		Height:   height,
		Duration: time.Since(start),
		Tree:     tree,
		Frame:    frame,
	}
	s.logger.Debug("rendered slide", "slide", req.SlideNumber, "type", req.SlideType, "template", req.Template, "format", format, "took", res.Duration)
	return res, nil
}

// RenderDeck renders every request with bounded concurrency. Results keep
// the order of reqs; the first error cancels the remaining renders.
func (s *Service) RenderDeck(ctx context.Context, reqs []*Request) ([]*Result, error) {
	results := make([]*Result, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, req := range reqs {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			res, err := s.Render(gctx, req)
			if err != nil {
				return fmt.Errorf("slide %d: %w", i+1, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
