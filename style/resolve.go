// Package style resolves a template name and brand colors into the complete
// style record of a slide.
package style

// DefaultFontFamily is used when the brand does not name a family.
const DefaultFontFamily = "Inter"

// Brand carries the inputs that influence styling.
type Brand struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	FontFamily string `json:"fontFamily,omitempty"`
}

const white = "#FFFFFF"

// scheme applies a template's colors on top of the base record.
type scheme func(r *Record, b Brand)

// schemes is indexed by Template; TemplateDefault keeps the base record.
var schemes = [templateCount]scheme{
	TemplateDefault:        nil,
	TemplateModernGradient: modernGradient,
	TemplateMinimalClean:   minimalClean,
	TemplateBoldContrast:   boldContrast,
	TemplateSoftPastel:     softPastel,
}

// Resolve builds the style record for a template name. It never fails:
// unknown names fall back to the base record.
func Resolve(name string, b Brand) Record {
	return ResolveTemplate(ParseTemplate(name), b)
}

// ResolveTemplate is Resolve for an already parsed template.
func ResolveTemplate(t Template, b Brand) Record {
	rec := base(b)
	if t < 0 || t >= templateCount {
		return rec
	}
	if apply := schemes[t]; apply != nil {
		apply(&rec, b)
	}
	return rec
}

func base(b Brand) Record {
	family := b.FontFamily
	if family == "" {
		family = DefaultFontFamily
	}
	return Record{
		Container: Box{
			Display:        "flex",
			FlexDirection:  "column",
			JustifyContent: "center",
			AlignItems:     "center",
			Position:       PositionRelative,
			Width:          Px(CanvasWidth),
			Height:         Px(CanvasHeight),
			FontFamily:     family,
			Overflow:       "hidden",
		},
		ContentWrapper: Box{
			Display:        "flex",
			FlexDirection:  "column",
			JustifyContent: "center",
			AlignItems:     "center",
			Padding:        Uniform(60),
			ZIndex:         10,
			Width:          Percent(100),
			Height:         Percent(100),
		},
		BackgroundImage: Box{
			Position:  PositionAbsolute,
			Inset:     Inset{Top: Offset(0), Left: Offset(0)},
			Width:     Percent(100),
			Height:    Percent(100),
			ObjectFit: "cover",
			ZIndex:    1,
		},
		Overlay: Box{
			Position:   PositionAbsolute,
			Inset:      Inset{Top: Offset(0), Left: Offset(0)},
			Width:      Percent(100),
			Height:     Percent(100),
			Background: Paint{Color: "#000000", Opacity: 0.4},
			ZIndex:     2,
		},
		FeaturedAsset: Box{
			Width:     Px(400),
			Height:    Px(400),
			ObjectFit: "contain",
			Margin:    Edges{Bottom: 40},
		},
		TitleLarge: Box{
			FontSize:   72,
			FontWeight: 700,
			TextAlign:  "center",
			Margin:     Symmetric(20, 0),
			LineHeight: 1.2,
			MaxWidth:   900,
		},
		TitleMedium: Box{
			FontSize:   56,
			FontWeight: 700,
			TextAlign:  "center",
			Margin:     Symmetric(16, 0),
			LineHeight: 1.3,
			MaxWidth:   900,
		},
		Subtitle: Box{
			FontSize:  36,
			TextAlign: "center",
			Margin:    Symmetric(12, 0),
			Opacity:   0.9,
			MaxWidth:  800,
		},
		Body: Box{
			FontSize:   32,
			TextAlign:  "center",
			LineHeight: 1.6,
			Margin:     Symmetric(24, 0),
			MaxWidth:   800,
		},
		Emoji: Box{
			FontSize: 120,
			Margin:   Edges{Bottom: 30},
		},
		SlideNumber: Box{
			Position:   PositionAbsolute,
			Inset:      Inset{Top: Offset(40), Right: Offset(40)},
			FontSize:   28,
			Opacity:    0.7,
			FontWeight: 600,
		},
		SwipeIndicator: Box{
			Position:   PositionAbsolute,
			Inset:      Inset{Bottom: Offset(60)},
			FontSize:   32,
			Opacity:    0.8,
			FontWeight: 500,
		},
		CTAArrow: Box{
			FontSize: 80,
			Margin:   Edges{Top: 30},
		},
		BrandLogo: Box{
			Width:     Px(140),
			Height:    Px(140),
			ObjectFit: "contain",
			Margin:    Edges{Top: 40},
			Opacity:   0.95,
		},
	}
}

func modernGradient(r *Record, b Brand) {
	r.Container.Background = Paint{Gradient: &LinearGradient{
		Angle: 135,
		Stops: []ColorStop{{Color: b.Primary, Offset: 0}, {Color: b.Secondary, Offset: 1}},
	}}
	for _, box := range []*Box{&r.TitleLarge, &r.TitleMedium, &r.Subtitle, &r.Body, &r.SlideNumber, &r.SwipeIndicator, &r.CTAArrow} {
		box.Color = white
	}
}

func minimalClean(r *Record, b Brand) {
	r.Container.Background = Paint{Color: white}
	r.TitleLarge.Color = b.Primary
	r.TitleMedium.Color = b.Primary
	r.Subtitle.Color = "#4B5563"
	r.Body.Color = "#6B7280"
	r.SlideNumber.Color = b.Secondary
	r.SwipeIndicator.Color = b.Primary
	r.CTAArrow.Color = b.Primary
}

func boldContrast(r *Record, b Brand) {
	r.Container.Background = Paint{Color: b.Primary}
	r.TitleLarge.Color = white
	r.TitleLarge.FontSize = 80
	r.TitleMedium.Color = white
	r.TitleMedium.FontSize = 64
	r.Subtitle.Color = b.Secondary
	r.Body.Color = white
	r.SlideNumber.Color = b.Secondary
	r.SwipeIndicator.Color = white
	r.CTAArrow.Color = white
}

func softPastel(r *Record, b Brand) {
	dark := AdjustColorLightness(b.Primary, 0.25)
	r.Container.Background = Paint{Color: AdjustColorLightness(b.Primary, 0.92)}
	r.TitleLarge.Color = dark
	r.TitleMedium.Color = dark
	r.Subtitle.Color = AdjustColorLightness(b.Primary, 0.4)
	r.Body.Color = AdjustColorLightness(b.Primary, 0.35)
	r.SlideNumber.Color = b.Primary
	r.SwipeIndicator.Color = dark
	r.CTAArrow.Color = dark
}
