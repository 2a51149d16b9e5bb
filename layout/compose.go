package layout

import (
	"fmt"

	"github.com/ByLCY/carousel/style"
)

// 固定文案，不可配置。
const (
	SwipeLabel = "Desliza →"
	CTAGlyph   = "👆"
)

// Compose 将幻灯片内容组装为布局树，根节点总是 Container。
// 样式经由进程级缓存解析；纯函数，无 I/O。
func Compose(content SlideContent) *Node {
	return ComposeWith(style.Cached(content.Template, content.Brand.Style()), content)
}

// ComposeWith 使用给定的样式记录组装布局树。
func ComposeWith(rec style.Record, content SlideContent) *Node {
	var layers []*Node

	// 背景素材与遮罩位于低层级，内容层在其上
	if content.AssetRole == AssetBackground && content.HasAsset() {
		layers = append(layers,
			imageNode(&rec, style.ElementBackgroundImage, ImageSource{Data: content.Asset}),
			&Node{Kind: KindOverlay, Element: style.ElementOverlay, Style: rec.Overlay},
		)
	}

	var items []*Node
	if content.Type == SlideTypeContent {
		items = append(items, textNode(&rec, KindTextSpan, style.ElementSlideNumber, fmt.Sprintf("%d/%d", content.Number, content.Total)))
	}
	switch {
	case content.AssetRole == AssetFeatured && content.HasAsset():
		items = append(items, imageNode(&rec, style.ElementFeaturedAsset, ImageSource{Data: content.Asset}))
	case content.Emoji != "" && !content.HasAsset():
		// 只要存在素材（无论用途）就不显示 emoji
		items = append(items, textNode(&rec, KindTextSpan, style.ElementEmoji, content.Emoji))
	}

	heading := style.ElementTitleMedium
	if content.Type == SlideTypeCover {
		heading = style.ElementTitleLarge
	}
	items = append(items, textNode(&rec, KindHeading, heading, content.Title))

	if content.Subtitle != "" {
		items = append(items, textNode(&rec, KindParagraph, style.ElementSubtitle, content.Subtitle))
	}
	if content.Body != "" {
		items = append(items, textNode(&rec, KindParagraph, style.ElementBody, content.Body))
	}

	switch content.Type {
	case SlideTypeCover:
		items = append(items, textNode(&rec, KindTextSpan, style.ElementSwipeIndicator, SwipeLabel))
	case SlideTypeCTA:
		items = append(items, textNode(&rec, KindTextSpan, style.ElementCTAArrow, CTAGlyph))
		if content.Brand.LogoURL != "" {
			items = append(items, imageNode(&rec, style.ElementBrandLogo, ImageSource{Data: content.Logo, URI: content.Brand.LogoURL}))
		}
	}

	wrapper := &Node{
		Kind:     KindContainer,
		Element:  style.ElementContentWrapper,
		Style:    rec.ContentWrapper,
		Children: items,
	}
	return &Node{
		Kind:     KindContainer,
		Element:  style.ElementContainer,
		Style:    rec.Container,
		Children: append(layers, wrapper),
	}
}

func textNode(rec *style.Record, kind Kind, el style.Element, text string) *Node {
	return &Node{Kind: kind, Element: el, Style: *rec.Element(el), Text: text}
}

func imageNode(rec *style.Record, el style.Element, src ImageSource) *Node {
	return &Node{Kind: KindImage, Element: el, Style: *rec.Element(el), Src: src}
}

// Walk visits n and its descendants depth-first in tree order.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns every node of the given element in tree order.
func (n *Node) Find(el style.Element) []*Node {
	var out []*Node
	n.Walk(func(c *Node) {
		if c.Element == el {
			out = append(out, c)
		}
	})
	return out
}
