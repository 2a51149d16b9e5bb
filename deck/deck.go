// Package deck turns a parsed .carousel file into ordered render requests.
package deck

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ByLCY/carousel/binding"
	"github.com/ByLCY/carousel/dsl"
	"github.com/ByLCY/carousel/internal/pipeline"
)

// ErrInvalidDeck wraps every structural problem found while building a deck.
var ErrInvalidDeck = errors.New("invalid deck")

// Deck is a built deck: one request per slide, numbered from 1.
type Deck struct {
	Name    string
	Version string
	Format  string
	Width   int
	Slides  []*pipeline.Request
}

// Build converts doc into render requests. Text values are interpolated
// against data (may be nil).
func Build(doc *dsl.Deck, data any) (*Deck, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDeck)
	}
	d := &Deck{Name: doc.Name, Version: doc.Version}
	brand := &pipeline.Brand{}
	var template string
	var slides []*dsl.SlideSection

	text := func(v *dsl.Value) string { return binding.Interpolate(v.Text(), data) }

	for _, sec := range doc.Sections {
		switch sec.Kind() {
		case "brand":
			for _, a := range sec.Brand.Block.Assignments {
				switch a.Key {
				case "name":
					brand.Name = text(a.Value)
				case "primary":
					brand.ColorPrimary = text(a.Value)
				case "secondary":
					brand.ColorSecondary = text(a.Value)
				case "font":
					brand.FontFamily = text(a.Value)
				case "logo":
					brand.LogoURL = text(a.Value)
				default:
					return nil, unknownKey("brand", a)
				}
			}
		case "setting":
			a := sec.Setting
			switch a.Key {
			case "template":
				template = text(a.Value)
			case "format":
				d.Format = text(a.Value)
			case "width":
				w, err := a.Value.Int()
				if err != nil {
					return nil, fmt.Errorf("%w: %s: width: %v", ErrInvalidDeck, a.Pos, err)
				}
				d.Width = w
			default:
				return nil, unknownKey("deck", a)
			}
		case "slide":
			slides = append(slides, sec.Slide)
		default:
			return nil, fmt.Errorf("%w: empty section", ErrInvalidDeck)
		}
	}
	if len(slides) == 0 {
		return nil, fmt.Errorf("%w: deck %s has no slides", ErrInvalidDeck, doc.Name)
	}

	for i, s := range slides {
		req := &pipeline.Request{
			SlideNumber: i + 1,
			TotalSlides: len(slides),
			SlideType:   s.Type,
			Template:    template,
			Brand:       brand,
		}
		for _, a := range s.Block.Assignments {
			switch a.Key {
			case "title":
				req.Title = text(a.Value)
			case "subtitle":
				req.Subtitle = text(a.Value)
			case "body":
				req.BodyText = text(a.Value)
			case "emoji":
				req.Emoji = text(a.Value)
			case "asset":
				req.AssetURL = text(a.Value)
			case "use-asset":
				req.UseAssetAs = text(a.Value)
			case "template":
				req.Template = text(a.Value)
			default:
				return nil, unknownKey("slide", a)
			}
		}
		if d.Format != "" || d.Width > 0 {
			req.Output = &pipeline.Output{Format: d.Format, Width: d.Width}
		}
		if err := req.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: slide %d: %w", ErrInvalidDeck, s.Pos, i+1, err)
		}
		d.Slides = append(d.Slides, req)
	}
	return d, nil
}

// ParseFile parses and builds a deck file; dataPath (optional) names a JSON
// document used for ${path} interpolation.
func ParseFile(path, dataPath string) (*Deck, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := dsl.Parse(path, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDeck, err)
	}
	var data any
	if dataPath != "" {
		if data, err = LoadData(dataPath); err != nil {
			return nil, err
		}
	}
	return Build(doc, data)
}

// LoadData reads a JSON document for interpolation.
func LoadData(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("解析数据文件 %s 失败: %w", path, err)
	}
	return data, nil
}

// FileName returns the output file name of slide i (0-based), e.g. "launch-01.png".
func (d *Deck) FileName(i int, ext string) string {
	name := strings.ToLower(strings.TrimSpace(d.Name))
	if name == "" {
		name = "slide"
	}
	width := len(strconv.Itoa(len(d.Slides)))
	if width < 2 {
		width = 2
	}
	return fmt.Sprintf("%s-%0*d%s", name, width, i+1, ext)
}

func unknownKey(scope string, a *dsl.Assignment) error {
	return fmt.Errorf("%w: %s: unknown %s key %q", ErrInvalidDeck, a.Pos, scope, a.Key)
}
