package layout

import (
	"testing"

	"github.com/ByLCY/carousel/style"
)

var testBrand = Brand{
	Name:       "Acme",
	Primary:    "#336699",
	Secondary:  "#FFCC00",
	FontFamily: "Inter",
}

func slide(kind SlideType) SlideContent {
	return SlideContent{
		Number:   3,
		Total:    10,
		Type:     kind,
		Title:    "Launch Day",
		Template: "minimal_clean",
		Brand:    testBrand,
	}
}

// elements 返回内容层子节点的元素序列。
func elements(t *testing.T, root *Node) []style.Element {
	t.Helper()
	wrapper := contentWrapper(t, root)
	out := make([]style.Element, 0, len(wrapper.Children))
	for _, c := range wrapper.Children {
		out = append(out, c.Element)
	}
	return out
}

func contentWrapper(t *testing.T, root *Node) *Node {
	t.Helper()
	if root == nil || root.Kind != KindContainer || root.Element != style.ElementContainer {
		t.Fatalf("根节点必须是 container，实际 %+v", root)
	}
	last := root.Children[len(root.Children)-1]
	if last.Element != style.ElementContentWrapper || last.Kind != KindContainer {
		t.Fatalf("最后一个子节点应为内容层，实际 %v", last.Element)
	}
	return last
}

func sameElements(a, b []style.Element) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestComposeContentNumbering(t *testing.T) {
	root := Compose(slide(SlideTypeContent))
	nodes := root.Find(style.ElementSlideNumber)
	if len(nodes) != 1 {
		t.Fatalf("expected one numbering node, got %d", len(nodes))
	}
	if nodes[0].Text != "3/10" || nodes[0].Kind != KindTextSpan {
		t.Fatalf("unexpected numbering node %+v", nodes[0])
	}
	got := elements(t, root)
	want := []style.Element{style.ElementSlideNumber, style.ElementTitleMedium}
	if !sameElements(got, want) {
		t.Fatalf("content order: got %v want %v", got, want)
	}
}

func TestComposeCoverHasSwipeNeverNumber(t *testing.T) {
	c := slide(SlideTypeCover)
	c.Subtitle = "sub"
	c.Body = "body"
	root := Compose(c)
	if n := root.Find(style.ElementSlideNumber); len(n) != 0 {
		t.Fatalf("cover must not carry numbering")
	}
	swipe := root.Find(style.ElementSwipeIndicator)
	if len(swipe) != 1 || swipe[0].Text != SwipeLabel {
		t.Fatalf("cover must carry swipe indicator, got %+v", swipe)
	}
	want := []style.Element{style.ElementTitleLarge, style.ElementSubtitle, style.ElementBody, style.ElementSwipeIndicator}
	if got := elements(t, root); !sameElements(got, want) {
		t.Fatalf("cover order: got %v want %v", got, want)
	}
	if h := root.Find(style.ElementTitleLarge)[0]; h.Kind != KindHeading || h.Text != "Launch Day" {
		t.Fatalf("unexpected heading %+v", h)
	}
}

func TestComposeEmojiSuppressedByAnyAsset(t *testing.T) {
	for _, role := range []AssetRole{AssetNone, AssetFeatured, AssetBackground} {
		c := slide(SlideTypeContent)
		c.Emoji = "🚀"
		c.Asset = []byte{1, 2, 3}
		c.AssetRole = role
		if n := Compose(c).Find(style.ElementEmoji); len(n) != 0 {
			t.Fatalf("role %q: emoji must be suppressed when an asset exists", role)
		}
	}

	c := slide(SlideTypeContent)
	c.Emoji = "🚀"
	emoji := Compose(c).Find(style.ElementEmoji)
	if len(emoji) != 1 || emoji[0].Text != "🚀" {
		t.Fatalf("emoji expected without asset, got %+v", emoji)
	}
}

func TestComposeFeaturedAsset(t *testing.T) {
	c := slide(SlideTypeContent)
	c.AssetRole = AssetFeatured
	c.Asset = []byte("png")
	root := Compose(c)
	want := []style.Element{style.ElementSlideNumber, style.ElementFeaturedAsset, style.ElementTitleMedium}
	if got := elements(t, root); !sameElements(got, want) {
		t.Fatalf("featured order: got %v want %v", got, want)
	}
	img := root.Find(style.ElementFeaturedAsset)[0]
	if img.Kind != KindImage || string(img.Src.Data) != "png" {
		t.Fatalf("unexpected featured node %+v", img)
	}
	if len(root.Children) != 1 {
		t.Fatalf("featured asset must not add background layers")
	}
}

func TestComposeBackgroundAsset(t *testing.T) {
	c := slide(SlideTypeCover)
	c.AssetRole = AssetBackground
	c.Asset = []byte("jpg")
	root := Compose(c)
	if len(root.Children) != 3 {
		t.Fatalf("expected background, overlay, wrapper; got %d children", len(root.Children))
	}
	bg, overlay := root.Children[0], root.Children[1]
	if bg.Kind != KindImage || bg.Element != style.ElementBackgroundImage || bg.Style.ObjectFit != "cover" {
		t.Fatalf("unexpected background node %+v", bg)
	}
	if overlay.Kind != KindOverlay || overlay.Style.ZIndex <= bg.Style.ZIndex {
		t.Fatalf("overlay must stack above background: %+v", overlay)
	}
	if wrapper := contentWrapper(t, root); wrapper.Style.ZIndex <= overlay.Style.ZIndex {
		t.Fatalf("content must stack above overlay")
	}
	if n := root.Find(style.ElementFeaturedAsset); len(n) != 0 {
		t.Fatalf("background asset must not be featured")
	}

	// 角色为 background 但素材缺失时不生成背景层
	c.Asset = nil
	if got := Compose(c); len(got.Children) != 1 {
		t.Fatalf("missing asset must not add background layers")
	}
}

func TestComposeCTALogoAfterArrow(t *testing.T) {
	c := slide(SlideTypeCTA)
	c.Brand.LogoURL = "https://example.com/logo.png"
	root := Compose(c)
	want := []style.Element{style.ElementTitleMedium, style.ElementCTAArrow, style.ElementBrandLogo}
	if got := elements(t, root); !sameElements(got, want) {
		t.Fatalf("cta order: got %v want %v", got, want)
	}
	logos := root.Find(style.ElementBrandLogo)
	if len(logos) != 1 || logos[0].Src.URI != c.Brand.LogoURL {
		t.Fatalf("expected exactly one logo node, got %+v", logos)
	}
	if arrow := root.Find(style.ElementCTAArrow)[0]; arrow.Text != CTAGlyph {
		t.Fatalf("unexpected arrow glyph %q", arrow.Text)
	}

	c.Brand.LogoURL = ""
	if n := Compose(c).Find(style.ElementBrandLogo); len(n) != 0 {
		t.Fatalf("logo must be omitted without a logo reference")
	}
}

func TestComposeSoftPastelCover(t *testing.T) {
	c := slide(SlideTypeCover)
	c.Template = "soft_pastel"
	root := Compose(c)
	if got := root.Style.Background.Color; got != style.AdjustColorLightness("#336699", 0.92) {
		t.Fatalf("container background: got %s", got)
	}
	heading := root.Find(style.ElementTitleLarge)
	if len(heading) != 1 {
		t.Fatalf("expected large heading on cover")
	}
	if got := heading[0].Style.Color; got != style.AdjustColorLightness("#336699", 0.25) {
		t.Fatalf("heading color: got %s", got)
	}
}

func TestComposeWithUsesGivenRecord(t *testing.T) {
	rec := style.Resolve("bold_contrast", testBrand.Style())
	rec.TitleMedium.FontSize = 10
	root := ComposeWith(rec, slide(SlideTypeContent))
	if got := root.Find(style.ElementTitleMedium)[0].Style.FontSize; got != 10 {
		t.Fatalf("ComposeWith ignored record: %g", got)
	}
}
