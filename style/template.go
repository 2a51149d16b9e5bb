package style

// Template identifies one of the closed set of visual schemes.
type Template int

const (
	TemplateDefault Template = iota
	TemplateModernGradient
	TemplateMinimalClean
	TemplateBoldContrast
	TemplateSoftPastel

	templateCount
)

var templateNames = [templateCount]string{
	TemplateDefault:        "default",
	TemplateModernGradient: "modern_gradient",
	TemplateMinimalClean:   "minimal_clean",
	TemplateBoldContrast:   "bold_contrast",
	TemplateSoftPastel:     "soft_pastel",
}

func (t Template) String() string {
	if t < 0 || t >= templateCount {
		return templateNames[TemplateDefault]
	}
	return templateNames[t]
}

// ParseTemplate maps a template name to its identifier. Names match exactly:
// any other spelling, including case or whitespace variants, is TemplateDefault.
func ParseTemplate(name string) Template {
	for t := TemplateDefault; t < templateCount; t++ {
		if templateNames[t] == name {
			return t
		}
	}
	return TemplateDefault
}

// Templates lists every template in declaration order.
func Templates() []Template {
	out := make([]Template, 0, templateCount)
	for t := TemplateDefault; t < templateCount; t++ {
		out = append(out, t)
	}
	return out
}

// Element identifies a styled element kind of a slide.
type Element int

const (
	ElementContainer Element = iota
	ElementContentWrapper
	ElementBackgroundImage
	ElementOverlay
	ElementFeaturedAsset
	ElementTitleLarge
	ElementTitleMedium
	ElementSubtitle
	ElementBody
	ElementEmoji
	ElementSlideNumber
	ElementSwipeIndicator
	ElementCTAArrow
	ElementBrandLogo

	elementCount
)

var elementNames = [elementCount]string{
	ElementContainer:       "container",
	ElementContentWrapper:  "contentWrapper",
	ElementBackgroundImage: "backgroundImage",
	ElementOverlay:         "overlay",
	ElementFeaturedAsset:   "featuredAsset",
	ElementTitleLarge:      "titleLarge",
	ElementTitleMedium:     "titleMedium",
	ElementSubtitle:        "subtitle",
	ElementBody:            "bodyText",
	ElementEmoji:           "emoji",
	ElementSlideNumber:     "slideNumber",
	ElementSwipeIndicator:  "swipeIndicator",
	ElementCTAArrow:        "ctaArrow",
	ElementBrandLogo:       "brandLogo",
}

func (e Element) String() string {
	if e < 0 || e >= elementCount {
		return "unknown"
	}
	return elementNames[e]
}

// MarshalText writes the element by name in debug JSON.
func (e Element) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// Elements lists every element kind in declaration order.
func Elements() []Element {
	out := make([]Element, 0, elementCount)
	for e := ElementContainer; e < elementCount; e++ {
		out = append(out, e)
	}
	return out
}
