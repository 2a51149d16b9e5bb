package layout

import (
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ByLCY/carousel/style"
)

// stubTypesetter 是一个最小实现，仅用于测试，避免引入 renderer 造成循环依赖。
// 每个字符宽度为字号的一半，按空格贪心折行。
type stubTypesetter struct {
	calls []string
	fail  error
}

func (s *stubTypesetter) LayoutLines(content string, width float64, font FontSpec, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error) {
	if s.fail != nil {
		return nil, s.fail
	}
	s.calls = append(s.calls, font.Family+"|"+wrap)
	measure := func(str string) float64 { return float64(utf8.RuneCountInString(str)) * fontSize / 2 }
	leading := math.Max(lineHeight-fontSize, 0)
	mk := func(str string, first bool) TextLine {
		ln := TextLine{Content: str, Width: measure(str), Height: fontSize}
		if !first {
			ln.GapBefore = leading
		}
		return ln
	}
	if wrap == WrapNone {
		return []TextLine{mk(content, true)}, nil
	}
	var lines []TextLine
	current := ""
	for _, word := range strings.Fields(content) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if current != "" && measure(candidate) > width {
			lines = append(lines, mk(current, len(lines) == 0))
			current = word
			continue
		}
		current = candidate
	}
	lines = append(lines, mk(current, len(lines) == 0))
	return lines, nil
}

func arrange(t *testing.T, c SlideContent) (*Frame, *stubTypesetter) {
	t.Helper()
	ts := &stubTypesetter{}
	frame, err := Arrange(Compose(c), ArrangeOptions{Typesetter: ts})
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	return frame, ts
}

func findItem(t *testing.T, f *Frame, el style.Element) Item {
	t.Helper()
	for _, it := range f.Items {
		if it.Element == el {
			return it
		}
	}
	t.Fatalf("未找到元素 %v", el)
	return Item{}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestArrangeErrors(t *testing.T) {
	if _, err := Arrange(nil, ArrangeOptions{Typesetter: &stubTypesetter{}}); !errors.Is(err, ErrNilTree) {
		t.Fatalf("expected ErrNilTree, got %v", err)
	}
	if _, err := Arrange(Compose(slide(SlideTypeCover)), ArrangeOptions{}); !errors.Is(err, ErrNoTypesetter) {
		t.Fatalf("expected ErrNoTypesetter, got %v", err)
	}
	boom := errors.New("boom")
	if _, err := Arrange(Compose(slide(SlideTypeCover)), ArrangeOptions{Typesetter: &stubTypesetter{fail: boom}}); !errors.Is(err, boom) {
		t.Fatalf("typesetter error must be wrapped, got %v", err)
	}
}

func TestArrangeCoverPositions(t *testing.T) {
	frame, ts := arrange(t, slide(SlideTypeCover))
	if frame.Width != style.CanvasWidth || frame.Height != style.CanvasHeight {
		t.Fatalf("unexpected frame size %gx%g", frame.Width, frame.Height)
	}
	first := frame.Items[0]
	if first.Rect == nil || first.Element != style.ElementContainer {
		t.Fatalf("container background must paint first, got %+v", first)
	}
	if first.Rect.Fill != (Color{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("minimal_clean background should be white, got %+v", first.Rect.Fill)
	}

	heading := findItem(t, frame, style.ElementTitleLarge).Text
	if !near(heading.Width, 360) || !near(heading.Height, 72) {
		t.Fatalf("heading size: %gx%g", heading.Width, heading.Height)
	}
	if !near(heading.X+heading.Width/2, 540) {
		t.Fatalf("heading not centred horizontally: x=%g w=%g", heading.X, heading.Width)
	}
	// 内容区高 1230，唯一的流式子节点占 20+72+20
	if !near(heading.Y, 60+(1230-112)/2.0+20) {
		t.Fatalf("heading not centred vertically: y=%g", heading.Y)
	}
	if heading.Align != "center" || heading.Font.Weight != 700 || heading.Font.Family != "Inter" {
		t.Fatalf("unexpected heading attrs %+v", heading)
	}

	swipe := findItem(t, frame, style.ElementSwipeIndicator).Text
	if !near(swipe.Y+swipe.Height, 1350-60) {
		t.Fatalf("swipe indicator should sit 60 above the bottom, y=%g h=%g", swipe.Y, swipe.Height)
	}
	if !near(swipe.X+swipe.Width/2, 540) {
		t.Fatalf("swipe indicator not centred: x=%g", swipe.X)
	}
	for _, call := range ts.calls {
		if !strings.HasPrefix(call, "Inter|") {
			t.Fatalf("font family not inherited: %s", call)
		}
	}
}

func TestArrangeSlideNumberTopRight(t *testing.T) {
	frame, _ := arrange(t, slide(SlideTypeContent))
	num := findItem(t, frame, style.ElementSlideNumber).Text
	if num.Content != "3/10" {
		t.Fatalf("unexpected number %q", num.Content)
	}
	if !near(num.X+num.Width, 1080-40) || !near(num.Y, 40) {
		t.Fatalf("slide number misplaced: x=%g y=%g w=%g", num.X, num.Y, num.Width)
	}
	// opacity 0.7 → alpha ≈ 178.5
	if num.Color.A < 178 || num.Color.A > 179 {
		t.Fatalf("opacity not applied to color: %+v", num.Color)
	}
}

func TestArrangeBackgroundLayering(t *testing.T) {
	c := slide(SlideTypeCover)
	c.Template = "modern_gradient"
	c.AssetRole = AssetBackground
	c.Asset = []byte("img")
	frame, _ := arrange(t, c)

	want := []style.Element{
		style.ElementContainer,
		style.ElementBackgroundImage,
		style.ElementOverlay,
		style.ElementTitleLarge,
		style.ElementSwipeIndicator,
	}
	if len(frame.Items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(frame.Items))
	}
	for i, el := range want {
		if frame.Items[i].Element != el {
			t.Fatalf("item %d: got %v want %v", i, frame.Items[i].Element, el)
		}
	}

	grad := frame.Items[0].Rect.Gradient
	if grad == nil || len(grad.Stops) != 2 {
		t.Fatalf("expected two-stop gradient, got %+v", grad)
	}
	if !(grad.X0 < grad.X1 && grad.Y0 < grad.Y1) {
		t.Fatalf("135deg gradient should run top-left to bottom-right: %+v", grad)
	}
	if !near((grad.X0+grad.X1)/2, 540) || !near((grad.Y0+grad.Y1)/2, 675) {
		t.Fatalf("gradient line must pass through the centre: %+v", grad)
	}

	img := frame.Items[1].Image
	if img == nil || img.X != 0 || img.Y != 0 || img.Width != 1080 || img.Height != 1350 || img.Fit != "cover" {
		t.Fatalf("background image must cover the canvas: %+v", img)
	}
	overlay := frame.Items[2].Rect
	if overlay == nil || overlay.Fill.A != 102 || overlay.Width != 1080 {
		t.Fatalf("unexpected overlay %+v", overlay)
	}
	if heading := frame.Items[3].Text; heading.Color != (Color{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("modern_gradient heading must be white: %+v", heading.Color)
	}
}

func TestArrangeWrapsBody(t *testing.T) {
	c := slide(SlideTypeContent)
	c.Body = strings.Repeat("carousel slides wrap nicely ", 8)
	frame, _ := arrange(t, c)
	body := findItem(t, frame, style.ElementBody).Text
	if len(body.Lines) < 2 {
		t.Fatalf("expected wrapped body, got %d lines", len(body.Lines))
	}
	if body.Width > 800+1e-6 {
		t.Fatalf("body exceeds max width: %g", body.Width)
	}
	total := 0.0
	for _, ln := range body.Lines {
		total += ln.GapBefore + ln.Height
	}
	if !near(total, body.Height) {
		t.Fatalf("TextBox.Height 不变式不成立: got=%g want=%g", body.Height, total)
	}
	if body.Lines[0].GapBefore != 0 {
		t.Fatalf("first line must not have a gap")
	}

	heading := findItem(t, frame, style.ElementTitleMedium).Text
	if body.Y < heading.Y+heading.Height {
		t.Fatalf("body must follow heading: heading bottom=%g body y=%g", heading.Y+heading.Height, body.Y)
	}
}

func TestArrangeFeaturedImageCentered(t *testing.T) {
	c := slide(SlideTypeContent)
	c.AssetRole = AssetFeatured
	c.Asset = []byte("img")
	frame, _ := arrange(t, c)
	img := findItem(t, frame, style.ElementFeaturedAsset).Image
	if img.Width != 400 || img.Height != 400 || img.Fit != "contain" {
		t.Fatalf("unexpected featured box %+v", img)
	}
	if !near(img.X, 340) {
		t.Fatalf("featured image not centred: x=%g", img.X)
	}
}

func TestNormalizeAlign(t *testing.T) {
	cases := map[string]string{"": "left", "start": "left", "end": "right", "CENTER": "center", "right": "right"}
	for in, want := range cases {
		if got := normalizeAlign(in); got != want {
			t.Fatalf("normalizeAlign(%q) = %q, want %q", in, got, want)
		}
	}
}
