package pipeline

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ByLCY/carousel/layout"
	"github.com/ByLCY/carousel/renderer"
	"github.com/ByLCY/carousel/style"
)

// Validation errors. Handlers map these to 400.
var (
	ErrMissingFields    = errors.New("missing required fields")
	ErrInvalidSlideType = errors.New("invalid slide type")
	ErrInvalidOutput    = errors.New("invalid output options")
)

// MaxOutputWidth caps the rendered width in pixels.
const MaxOutputWidth = 4320

// Request is the JSON body of a render call.
type Request struct {
	SlideNumber int     `json:"slide_number"`
	TotalSlides int     `json:"total_slides"`
	SlideType   string  `json:"slide_type"`
	Title       string  `json:"title"`
	Subtitle    string  `json:"subtitle,omitempty"`
	BodyText    string  `json:"body_text,omitempty"`
	Emoji       string  `json:"emoji,omitempty"`
	Brand       *Brand  `json:"brand"`
	Template    string  `json:"template"`
	AssetURL    string  `json:"asset_url,omitempty"`
	UseAssetAs  string  `json:"use_asset_as,omitempty"`
	Output      *Output `json:"output,omitempty"`
}

type Brand struct {
	Name           string `json:"name"`
	ColorPrimary   string `json:"color_primary"`
	ColorSecondary string `json:"color_secondary"`
	FontFamily     string `json:"font_family"`
	LogoURL        string `json:"logoUrl,omitempty"`
}

// Output 输出尺寸与格式；Height 仅作参考，实际高度按 1080×1350 的比例计算。
type Output struct {
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Format string `json:"format,omitempty"`
}

// Validate checks required fields the way the HTTP API reports them.
func (r *Request) Validate() error {
	if r == nil || r.SlideNumber == 0 || strings.TrimSpace(r.SlideType) == "" || strings.TrimSpace(r.Title) == "" || r.Brand == nil {
		return ErrMissingFields
	}
	if !r.slideType().Valid() {
		return fmt.Errorf("%w: %q (expected cover, content or cta)", ErrInvalidSlideType, r.SlideType)
	}
	if r.Output != nil {
		if r.Output.Width < 0 || r.Output.Width > MaxOutputWidth {
			return fmt.Errorf("%w: width %d out of range", ErrInvalidOutput, r.Output.Width)
		}
		if _, err := renderer.ParseFormat(r.Output.Format); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidOutput, err)
		}
	}
	return nil
}

func (r *Request) slideType() layout.SlideType {
	return layout.SlideType(strings.ToLower(strings.TrimSpace(r.SlideType)))
}

// FontFamily returns the requested font family or the default.
func (r *Request) FontFamily() string {
	if r.Brand != nil && strings.TrimSpace(r.Brand.FontFamily) != "" {
		return strings.TrimSpace(r.Brand.FontFamily)
	}
	return style.DefaultFontFamily
}

// Content converts the request into composer input. asset and logo are
// already fetched bytes; nil means absent.
func (r *Request) Content(asset, logo []byte) layout.SlideContent {
	c := layout.SlideContent{
		Number:   r.SlideNumber,
		Total:    r.TotalSlides,
		Type:     r.slideType(),
		Title:    r.Title,
		Subtitle: r.Subtitle,
		Body:     r.BodyText,
		Emoji:    r.Emoji,
		Template: r.Template,
		Asset:    asset,
		Logo:     logo,
	}
	switch layout.AssetRole(strings.ToLower(strings.TrimSpace(r.UseAssetAs))) {
	case layout.AssetFeatured:
		c.AssetRole = layout.AssetFeatured
	case layout.AssetBackground:
		c.AssetRole = layout.AssetBackground
	}
	if r.Brand != nil {
		c.Brand = layout.Brand{
			Name:       r.Brand.Name,
			Primary:    r.Brand.ColorPrimary,
			Secondary:  r.Brand.ColorSecondary,
			FontFamily: r.FontFamily(),
			LogoURL:    r.Brand.LogoURL,
		}
	}
	return c
}

// outputSpec resolves the output format and pixel size.
func (r *Request) outputSpec(defaultFormat renderer.Format, defaultWidth int) (renderer.Format, int, int) {
	format, width := defaultFormat, defaultWidth
	if r.Output != nil {
		if r.Output.Format != "" {
			if f, err := renderer.ParseFormat(r.Output.Format); err == nil {
				format = f
			}
		}
		if r.Output.Width > 0 {
			width = r.Output.Width
		}
	}
	if format == "" {
		format = renderer.FormatPNG
	}
	if width <= 0 {
		width = style.CanvasWidth
	}
	height := int(math.Round(float64(width) * style.CanvasHeight / style.CanvasWidth))
	return format, width, height
}
