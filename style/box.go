package style

// Canvas size of every slide in logical pixels.
const (
	CanvasWidth  = 1080
	CanvasHeight = 1350
)

// Position mirrors the CSS position property for the subset a slide uses.
type Position string

const (
	PositionStatic   Position = ""
	PositionRelative Position = "relative"
	PositionAbsolute Position = "absolute"
)

// Edges holds padding or margin values in logical pixels.
type Edges struct {
	Top    float64 `json:"top,omitempty"`
	Right  float64 `json:"right,omitempty"`
	Bottom float64 `json:"bottom,omitempty"`
	Left   float64 `json:"left,omitempty"`
}

// Symmetric returns edges with the given vertical and horizontal values.
func Symmetric(vertical, horizontal float64) Edges {
	return Edges{Top: vertical, Right: horizontal, Bottom: vertical, Left: horizontal}
}

// Uniform returns edges with the same value on every side.
func Uniform(v float64) Edges { return Symmetric(v, v) }

// Inset holds the offsets of an absolutely positioned box. nil 表示未设置。
type Inset struct {
	Top    *float64 `json:"top,omitempty"`
	Right  *float64 `json:"right,omitempty"`
	Bottom *float64 `json:"bottom,omitempty"`
	Left   *float64 `json:"left,omitempty"`
}

// Offset returns a pointer usable in Inset literals.
func Offset(v float64) *float64 { return &v }

// ColorStop is one stop of a linear gradient; Offset is in [0,1].
type ColorStop struct {
	Color  string  `json:"color"`
	Offset float64 `json:"offset"`
}

// LinearGradient follows CSS linear-gradient: Angle in degrees, 0 points up, 90 points right.
type LinearGradient struct {
	Angle float64     `json:"angle"`
	Stops []ColorStop `json:"stops"`
}

// Paint is a box background: a gradient when Gradient is set, otherwise a solid color.
// An empty Color and nil Gradient means transparent.
type Paint struct {
	Color    string          `json:"color,omitempty"`
	Opacity  float64         `json:"opacity,omitempty"`
	Gradient *LinearGradient `json:"gradient,omitempty"`
}

// IsZero reports whether nothing would be painted.
func (p Paint) IsZero() bool { return p.Color == "" && p.Gradient == nil }

// Alpha returns the paint opacity, 0 表示未设置即不透明。
func (p Paint) Alpha() float64 {
	if p.Opacity <= 0 {
		return 1
	}
	return p.Opacity
}

// Box is the resolved style of one element kind.
type Box struct {
	Display        string `json:"display,omitempty"`
	FlexDirection  string `json:"flexDirection,omitempty"`
	JustifyContent string `json:"justifyContent,omitempty"`
	AlignItems     string `json:"alignItems,omitempty"`

	Position Position `json:"position,omitempty"`
	Inset    Inset    `json:"inset,omitempty"`
	ZIndex   int      `json:"zIndex,omitempty"`
	Overflow string   `json:"overflow,omitempty"`

	Width    Length  `json:"width,omitempty"`
	Height   Length  `json:"height,omitempty"`
	MaxWidth float64 `json:"maxWidth,omitempty"`
	Padding  Edges   `json:"padding,omitempty"`
	Margin   Edges   `json:"margin,omitempty"`

	FontFamily string  `json:"fontFamily,omitempty"`
	FontSize   float64 `json:"fontSize,omitempty"`
	FontWeight int     `json:"fontWeight,omitempty"`
	LineHeight float64 `json:"lineHeight,omitempty"`
	TextAlign  string  `json:"textAlign,omitempty"`
	Color      string  `json:"color,omitempty"`
	Opacity    float64 `json:"opacity,omitempty"`

	Background Paint  `json:"background,omitempty"`
	ObjectFit  string `json:"objectFit,omitempty"`
}

// Alpha returns the element opacity, 0 表示未设置即不透明。
func (b Box) Alpha() float64 {
	if b.Opacity <= 0 {
		return 1
	}
	return b.Opacity
}

// Record is the complete style set of one slide. Every element kind has a box,
// whether or not a given slide uses it.
type Record struct {
	Container       Box `json:"container"`
	ContentWrapper  Box `json:"contentWrapper"`
	BackgroundImage Box `json:"backgroundImage"`
	Overlay         Box `json:"overlay"`
	FeaturedAsset   Box `json:"featuredAsset"`
	TitleLarge      Box `json:"titleLarge"`
	TitleMedium     Box `json:"titleMedium"`
	Subtitle        Box `json:"subtitle"`
	Body            Box `json:"bodyText"`
	Emoji           Box `json:"emoji"`
	SlideNumber     Box `json:"slideNumber"`
	SwipeIndicator  Box `json:"swipeIndicator"`
	CTAArrow        Box `json:"ctaArrow"`
	BrandLogo       Box `json:"brandLogo"`
}

// Element returns the box of the given element kind.
func (r *Record) Element(e Element) *Box {
	switch e {
	case ElementContainer:
		return &r.Container
	case ElementContentWrapper:
		return &r.ContentWrapper
	case ElementBackgroundImage:
		return &r.BackgroundImage
	case ElementOverlay:
		return &r.Overlay
	case ElementFeaturedAsset:
		return &r.FeaturedAsset
	case ElementTitleLarge:
		return &r.TitleLarge
	case ElementTitleMedium:
		return &r.TitleMedium
	case ElementSubtitle:
		return &r.Subtitle
	case ElementBody:
		return &r.Body
	case ElementEmoji:
		return &r.Emoji
	case ElementSlideNumber:
		return &r.SlideNumber
	case ElementSwipeIndicator:
		return &r.SwipeIndicator
	case ElementCTAArrow:
		return &r.CTAArrow
	case ElementBrandLogo:
		return &r.BrandLogo
	default:
		return nil
	}
}
