package canvasrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/carousel/fonts"
	"github.com/ByLCY/carousel/layout"
	"github.com/ByLCY/carousel/renderer"
)

const defaultJPEGQuality = 90

// Renderer draws frames via github.com/tdewolff/canvas.
type Renderer struct {
	logger *log.Logger

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *fontFamilyEntry
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// fontFamilyEntry 记录一个字体族及其已加载的字重。
type fontFamilyEntry struct {
	family  *canvas.FontFamily
	weights []int
}

// style 选出与 weight 最接近的已加载字重。
func (e *fontFamilyEntry) style(weight int) canvas.FontStyle {
	if len(e.weights) == 0 {
		return canvas.FontRegular
	}
	best := e.weights[0]
	for _, w := range e.weights[1:] {
		d, bd := absInt(w-weight), absInt(best-weight)
		if d < bd || (d == bd && w > best) {
			best = w
		}
	}
	return weightStyle(best)
}

// Options configures the canvas renderer.
type Options struct {
	Logger *log.Logger
}

// errUnresolved marks an image whose bytes were never fetched; the caller
// already reported why.
var errUnresolved = errors.New("image bytes not resolved")

// NewRendererWithOptions creates a renderer. Images are drawn only from
// ImageSource.Data: the renderer never fetches on its own.
func NewRendererWithOptions(opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Renderer{
		logger:       logger,
		fontFamilies: map[string]*fontFamilyEntry{},
	}
}

// Register 以 name 注册一个字体集合；name 通常为品牌请求的字体族，
// 即使集合本身是回退字体。重复注册同名字体族时保留先注册的结果。
func (r *Renderer) Register(name string, set fonts.Set) error {
	if name == "" {
		name = set.Family
	}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if _, ok := r.fontFamilies[name]; ok {
		return nil
	}
	entry, err := newFamilyEntry(name, set.Fonts)
	if err != nil {
		return err
	}
	r.fontFamilies[name] = entry
	return nil
}

func newFamilyEntry(name string, list []fonts.Font) (*fontFamilyEntry, error) {
	family := canvas.NewFontFamily(name)
	entry := &fontFamilyEntry{family: family}
	seen := map[canvas.FontStyle]bool{}
	for _, f := range list {
		style := weightStyle(f.Weight)
		if seen[style] {
			continue
		}
		if err := family.LoadFont(f.Data, 0, style); err != nil {
			return nil, fmt.Errorf("加载字体 %s(%d) 失败: %w", f.Name, f.Weight, err)
		}
		seen[style] = true
		entry.weights = append(entry.weights, f.Weight)
	}
	if len(entry.weights) == 0 {
		return nil, fmt.Errorf("字体族 %s 没有可用字体", name)
	}
	return entry, nil
}

// Render 将绘制列表输出为 PNG/JPEG/SVG/PDF。
func (r *Renderer) Render(frame *layout.Frame, opts renderer.Options) ([]byte, error) {
	if frame == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if frame.Width <= 0 || frame.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸无效: %gx%g", frame.Width, frame.Height)
	}
	scale := opts.Scale(frame.Width)

	c := canvas.New(frame.Width, frame.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	for _, it := range frame.Items {
		var err error
		switch {
		case it.Rect != nil:
			err = r.drawRect(ctx, *it.Rect, scale)
		case it.Image != nil:
			r.drawImage(ctx, it.Element.String(), *it.Image, scale)
		case it.Text != nil:
			err = r.drawTextBox(ctx, *it.Text)
		}
		if err != nil {
			return nil, fmt.Errorf("绘制 %s 失败: %w", it.Element, err)
		}
	}
	return r.encode(c, frame, opts, scale)
}

func (r *Renderer) encode(c *canvas.Canvas, frame *layout.Frame, opts renderer.Options, scale float64) ([]byte, error) {
	var buf bytes.Buffer
	switch opts.Format {
	case renderer.FormatSVG:
		writer := svg.New(&buf, frame.Width, frame.Height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 SVG 失败: %w", err)
		}
	case renderer.FormatPDF:
		writer := pdf.New(&buf, frame.Width, frame.Height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	case renderer.FormatJPEG:
		img := rasterizer.Draw(c, canvas.DPMM(scale), canvas.DefaultColorSpace)
		quality := opts.Quality
		if quality <= 0 || quality > 100 {
			quality = defaultJPEGQuality
		}
		if err := jpeg.Encode(&buf, flatten(img), &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("编码 JPEG 失败: %w", err)
		}
	case renderer.FormatPNG, "":
		img := rasterizer.Draw(c, canvas.DPMM(scale), canvas.DefaultColorSpace)
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("编码 PNG 失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的输出格式：%s", opts.Format)
	}
	return buf.Bytes(), nil
}

// flatten 将透明区域合成到白色背景上，JPEG 不支持透明度。
func flatten(src image.Image) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	fillRGBA(dst, color.White)
	drawOver(dst, src)
	return dst
}

func (r *Renderer) drawRect(ctx *canvas.Context, rc layout.Rect, scale float64) error {
	if rc.Width <= 0 || rc.Height <= 0 {
		return nil
	}
	if rc.Gradient != nil {
		img, err := paintGradient(rc, scale)
		if err != nil {
			return err
		}
		ctx.DrawImage(rc.X, rc.Y, img, canvas.DPMM(float64(img.Bounds().Dx())/rc.Width))
		return nil
	}
	ctx.SetFillColor(colorFromLayout(rc.Fill))
	ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	ctx.SetStrokeWidth(0)
	ctx.DrawPath(rc.X, rc.Y, canvas.Rectangle(rc.Width, rc.Height))
	return nil
}

// drawImage 加载或解码失败时仅记录警告并跳过该图片。
func (r *Renderer) drawImage(ctx *canvas.Context, name string, box layout.ImageBox, scale float64) {
	src, err := decodeSource(box.Src)
	if errors.Is(err, errUnresolved) {
		r.logger.Debug("skipping unresolved image", "element", name, "uri", box.Src.URI)
		return
	}
	if err != nil {
		r.logger.Warn("skipping image", "element", name, "uri", box.Src.URI, "err", err)
		return
	}
	w := int(math.Ceil(box.Width * scale))
	h := int(math.Ceil(box.Height * scale))
	if w <= 0 || h <= 0 {
		return
	}
	ctx.DrawImage(box.X, box.Y, fitImage(src, w, h, box.Fit, box.Opacity), canvas.DPMM(float64(w)/box.Width))
}

func decodeSource(src layout.ImageSource) (image.Image, error) {
	if len(src.Data) == 0 {
		return nil, errUnresolved
	}
	img, _, err := image.Decode(bytes.NewReader(src.Data))
	if err != nil {
		return nil, fmt.Errorf("解码图片失败: %w", err)
	}
	return img, nil
}

func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	// TextBox 的坐标/字号/行高均为逻辑像素（画布 mm）；创建字体面需要 pt，这里做一次 mm→pt。
	face, err := r.fontFace(tb.Font, toPt(tb.FontSize), tb.Color)
	if err != nil {
		return err
	}

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: tb.Content, Width: tb.Width, Height: tb.LineHeight}}
	}

	// 处理水平对齐：left（默认）/center/right。
	var textAlign canvas.TextAlign
	var anchorX float64
	switch strings.ToLower(tb.Align) {
	case "center":
		textAlign = canvas.Center
		anchorX = tb.X + tb.Width/2
	case "right", "end":
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width
	default:
		textAlign = canvas.Left
		anchorX = tb.X
	}

	metrics := face.Metrics()
	cursorY := tb.Y
	for _, line := range lines {
		cursorY += line.GapBefore
		lineHeight := line.Height
		if lineHeight <= 0 {
			lineHeight = tb.FontSize
		}
		if line.Content != "" {
			// 基线位置：行顶部加上字体上升部
			ctx.DrawText(anchorX, cursorY+metrics.Ascent, canvas.NewTextLine(face, line.Content, textAlign))
		}
		cursorY += lineHeight
	}
	return nil
}

func (r *Renderer) fontFace(font layout.FontSpec, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	entry, err := r.ensureFontFamily(font.Family)
	if err != nil {
		return nil, err
	}
	weight := font.Weight
	if weight <= 0 {
		weight = layout.DefaultFontWeight
	}
	return entry.family.Face(sizePt, colorFromLayout(col), entry.style(weight), canvas.FontNormal), nil
}

// ensureFontFamily 未注册的字体族使用内置回退字体。
func (r *Renderer) ensureFontFamily(name string) (*fontFamilyEntry, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if entry, ok := r.fontFamilies[name]; ok {
		return entry, nil
	}
	return r.fallback()
}

func (r *Renderer) fallback() (*fontFamilyEntry, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, nil
	}
	set := fonts.NewLoader(nil, r.logger).Load(fonts.EmbeddedFamily)
	entry, err := newFamilyEntry("carousel-fallback", set.Fonts)
	if err != nil {
		return nil, err
	}
	r.fallbackFamily = entry
	return entry, nil
}

// weightStyle maps a CSS font weight to the nearest canvas style.
func weightStyle(weight int) canvas.FontStyle {
	switch {
	case weight >= 850:
		return canvas.FontBlack
	case weight >= 750:
		return canvas.FontExtraBold
	case weight >= 650:
		return canvas.FontBold
	case weight >= 550:
		return canvas.FontSemiBold
	case weight >= 450:
		return canvas.FontMedium
	case weight >= 350:
		return canvas.FontRegular
	default:
		return canvas.FontLight
	}
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, float64(c.A)/255.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
