package layout

import (
	"encoding/json"

	"github.com/ByLCY/carousel/style"
)

// SlideType 是幻灯片类型，仅支持 cover/content/cta 三种。
type SlideType string

const (
	SlideTypeCover   SlideType = "cover"
	SlideTypeContent SlideType = "content"
	SlideTypeCTA     SlideType = "cta"
)

// Valid reports whether t is one of the supported slide types.
func (t SlideType) Valid() bool {
	switch t {
	case SlideTypeCover, SlideTypeContent, SlideTypeCTA:
		return true
	default:
		return false
	}
}

// AssetRole 描述素材图片的用途；空字符串表示未使用素材。
type AssetRole string

const (
	AssetNone       AssetRole = ""
	AssetFeatured   AssetRole = "featured"
	AssetBackground AssetRole = "background"
)

// Brand 品牌信息。
type Brand struct {
	Name       string `json:"name"`
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	FontFamily string `json:"fontFamily,omitempty"`
	LogoURL    string `json:"logoUrl,omitempty"`
}

// Style returns the subset of the brand that influences styling.
func (b Brand) Style() style.Brand {
	return style.Brand{Primary: b.Primary, Secondary: b.Secondary, FontFamily: b.FontFamily}
}

// SlideContent 是一次渲染的输入，Title 不可为空（由调用方校验）。
type SlideContent struct {
	Number    int       `json:"number"`
	Total     int       `json:"total"`
	Type      SlideType `json:"type"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle,omitempty"`
	Body      string    `json:"body,omitempty"`
	Emoji     string    `json:"emoji,omitempty"`
	Template  string    `json:"template,omitempty"`
	AssetRole AssetRole `json:"assetRole,omitempty"`
	Asset     []byte    `json:"-"` // 已解码校验的素材字节，nil 表示缺失
	Logo      []byte    `json:"-"` // 已获取的 logo 字节，可为空，此时使用 Brand.LogoURL
	Brand     Brand     `json:"brand"`
}

// HasAsset reports whether an asset image is available.
func (c SlideContent) HasAsset() bool { return len(c.Asset) > 0 }

// Kind 是布局节点类型，集合封闭。
type Kind int

const (
	KindContainer Kind = iota
	KindImage
	KindOverlay
	KindTextSpan
	KindHeading
	KindParagraph

	kindCount
)

var kindNames = [kindCount]string{
	KindContainer: "container",
	KindImage:     "image",
	KindOverlay:   "overlay",
	KindTextSpan:  "span",
	KindHeading:   "heading",
	KindParagraph: "paragraph",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// MarshalText writes the kind by name in debug JSON.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// IsText reports whether nodes of this kind carry text.
func (k Kind) IsText() bool {
	return k == KindTextSpan || k == KindHeading || k == KindParagraph
}

// ImageSource 引用图片：优先使用 Data，否则由渲染器按 URI 加载。
type ImageSource struct {
	Data []byte `json:"-"`
	URI  string `json:"uri,omitempty"`
}

// IsZero reports whether the source refers to nothing.
func (s ImageSource) IsZero() bool { return len(s.Data) == 0 && s.URI == "" }

// MarshalJSON reports the byte count instead of the payload.
func (s ImageSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		URI   string `json:"uri,omitempty"`
		Bytes int    `json:"bytes,omitempty"`
	}{s.URI, len(s.Data)})
}

// Node 是布局树节点。Container 使用 Children；文本节点使用 Text；Image 使用 Src；Overlay 无内容。
type Node struct {
	Kind     Kind          `json:"kind"`
	Element  style.Element `json:"element"`
	Style    style.Box     `json:"style"`
	Children []*Node       `json:"children,omitempty"`
	Text     string        `json:"text,omitempty"`
	Src      ImageSource   `json:"src,omitempty"`
}

// Color 采用 0-255 的 RGBA 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
	A int `json:"a"`
}

// Frame 是排版后的绘制列表，Items 已按绘制顺序排列。
type Frame struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Items  []Item  `json:"items"`
}

// Item 恰好设置 Rect、Image、Text 之一。
type Item struct {
	Element style.Element `json:"element"`
	Rect    *Rect         `json:"rect,omitempty"`
	Image   *ImageBox     `json:"image,omitempty"`
	Text    *TextBox      `json:"text,omitempty"`
}

// Rect 填充矩形；Gradient 非空时忽略 Fill。
type Rect struct {
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Fill     Color     `json:"fill"`
	Gradient *Gradient `json:"gradient,omitempty"`
}

// Gradient 线性渐变，起止点为画布坐标。
type Gradient struct {
	X0    float64        `json:"x0"`
	Y0    float64        `json:"y0"`
	X1    float64        `json:"x1"`
	Y1    float64        `json:"y1"`
	Stops []GradientStop `json:"stops"`
}

// GradientStop 渐变色标，Offset 位于 [0,1]。
type GradientStop struct {
	Offset float64 `json:"offset"`
	Color  Color   `json:"color"`
}

// ImageBox 图片绘制框；Fit 为 cover/contain。
type ImageBox struct {
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Width   float64     `json:"width"`
	Height  float64     `json:"height"`
	Src     ImageSource `json:"src"`
	Fit     string      `json:"fit,omitempty"`
	Opacity float64     `json:"opacity"`
}

// FontSpec 选择字体族与字重。
type FontSpec struct {
	Family string `json:"family"`
	Weight int    `json:"weight"`
}

// TextBox 文本块，Height == Σ(line.Height + line.GapBefore)。
type TextBox struct {
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Content    string     `json:"content"`
	Lines      []TextLine `json:"lines"`
	Font       FontSpec   `json:"font"`
	FontSize   float64    `json:"fontSize"`
	LineHeight float64    `json:"lineHeight"`
	Color      Color      `json:"color"`
	Align      string     `json:"align"`
}

// TextLine 单行文本。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}
