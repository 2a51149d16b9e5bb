package layout

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ByLCY/carousel/style"
)

var (
	ErrNilTree      = errors.New("布局树为空")
	ErrNoTypesetter = errors.New("缺少排版后端")
)

// Arrange 计算布局树中每个节点的位置，输出按 z-index 排好序的绘制列表。
//
// 这是一个只覆盖幻灯片所需子集的 flex-column 布局：
//   - 容器的非绝对定位子节点纵向堆叠，两个方向均居中；
//   - 绝对定位节点按 inset 相对父盒子放置，缺省的方向居中；
//   - 文本按 min(max-width, 可用宽度) 折行，盒子宽度收缩到最宽的一行；
//   - 相同 z-index 的节点保持树的先后顺序。
func Arrange(root *Node, opts ArrangeOptions) (*Frame, error) {
	if root == nil {
		return nil, ErrNilTree
	}
	if opts.Typesetter == nil {
		return nil, ErrNoTypesetter
	}
	w := root.Style.Width.Resolve(style.CanvasWidth, style.CanvasWidth)
	h := root.Style.Height.Resolve(style.CanvasHeight, style.CanvasHeight)

	a := &arranger{ts: opts.Typesetter}
	m, err := a.measure(root, area{w: w, h: h}, root.Style.FontFamily)
	if err != nil {
		return nil, err
	}
	a.place(m, area{w: w, h: h}, root.Style.FontFamily, 0)

	sort.SliceStable(a.items, func(i, j int) bool { return a.items[i].z < a.items[j].z })
	frame := &Frame{Width: w, Height: h, Items: make([]Item, 0, len(a.items))}
	for _, it := range a.items {
		frame.Items = append(frame.Items, it.item)
	}
	return frame, nil
}

type area struct{ x, y, w, h float64 }

func (r area) inset(e style.Edges) area {
	return area{
		x: r.x + e.Left,
		y: r.y + e.Top,
		w: math.Max(r.w-e.Left-e.Right, 0),
		h: math.Max(r.h-e.Top-e.Bottom, 0),
	}
}

type zItem struct {
	z    int
	item Item
}

type arranger struct {
	ts    Typesetter
	items []zItem
}

// sized 是已测量尺寸、尚未定位的节点。
type sized struct {
	node     *Node
	w, h     float64
	text     *TextBox
	children []*sized
}

func (a *arranger) measure(n *Node, avail area, family string) (*sized, error) {
	if n.Style.FontFamily != "" {
		family = n.Style.FontFamily
	}
	s := &sized{node: n}
	switch n.Kind {
	case KindContainer:
		s.w = n.Style.Width.Resolve(avail.w, avail.w)
		s.h = n.Style.Height.Resolve(avail.h, avail.h)
		inner := area{w: s.w, h: s.h}.inset(n.Style.Padding)
		for _, c := range n.Children {
			// 绝对定位相对父盒子本身，流式子节点使用内容区
			childAvail := inner
			if c.Style.Position == style.PositionAbsolute {
				childAvail = area{w: s.w, h: s.h}
			}
			cs, err := a.measure(c, childAvail, family)
			if err != nil {
				return nil, err
			}
			s.children = append(s.children, cs)
		}
	case KindImage, KindOverlay:
		s.w = n.Style.Width.Resolve(avail.w, 0)
		s.h = n.Style.Height.Resolve(avail.h, 0)
	case KindTextSpan, KindHeading, KindParagraph:
		tb, err := a.typeset(n, avail, family)
		if err != nil {
			return nil, err
		}
		s.text = tb
		s.w, s.h = tb.Width, tb.Height
	default:
		return nil, fmt.Errorf("未知的节点类型 %d", n.Kind)
	}
	return s, nil
}

func (a *arranger) typeset(n *Node, avail area, family string) (*TextBox, error) {
	st := n.Style
	fontSize := st.FontSize
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	factor := st.LineHeight
	if factor <= 0 {
		factor = DefaultLineHeight
	}
	weight := st.FontWeight
	if weight <= 0 {
		weight = DefaultFontWeight
	}
	lineHeight := fontSize * factor

	maxWidth := math.Max(avail.w-st.Margin.Left-st.Margin.Right, 0)
	if st.MaxWidth > 0 && st.MaxWidth < maxWidth {
		maxWidth = st.MaxWidth
	}
	wrap := WrapNormal
	if n.Kind == KindTextSpan {
		wrap = WrapNone
	}
	font := FontSpec{Family: family, Weight: weight}
	lines, err := a.ts.LayoutLines(n.Text, maxWidth, font, fontSize, lineHeight, wrap)
	if err != nil {
		return nil, fmt.Errorf("排版 %s 失败: %w", n.Element, err)
	}
	if len(lines) == 0 {
		lines = []TextLine{{Content: "", Height: fontSize}}
	}

	// 后端未回填时按字号与默认行距补齐，保证 Height == Σ(Height+GapBefore)
	var width, height float64
	defaultLeading := math.Max(lineHeight-fontSize, 0)
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = fontSize
		}
		if i == 0 {
			lines[i].GapBefore = 0
		} else if lines[i].GapBefore <= 0 {
			lines[i].GapBefore = defaultLeading
		}
		width = math.Max(width, lines[i].Width)
		height += lines[i].Height + lines[i].GapBefore
	}
	return &TextBox{
		Width:      width,
		Height:     height,
		Content:    n.Text,
		Lines:      lines,
		Font:       font,
		FontSize:   fontSize,
		LineHeight: lineHeight,
		Color:      textColor(st.Color, st.Alpha()),
		Align:      normalizeAlign(st.TextAlign),
	}, nil
}

// normalizeAlign 支持 start/end 别名，默认 left。
func normalizeAlign(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "center":
		return "center"
	case "right", "end":
		return "right"
	default:
		return "left"
	}
}

// place 定位已测量的节点并追加绘制项；at 为节点自身的盒子。
func (a *arranger) place(s *sized, at area, family string, z int) {
	n := s.node
	if n.Style.ZIndex != 0 {
		z = n.Style.ZIndex
	}
	if n.Style.FontFamily != "" {
		family = n.Style.FontFamily
	}
	switch n.Kind {
	case KindContainer:
		a.paint(n, at, z)
		a.placeChildren(s, at, family, z)
	case KindOverlay:
		a.paint(n, at, z)
	case KindImage:
		if n.Src.IsZero() || at.w <= 0 || at.h <= 0 {
			return
		}
		a.emit(z, Item{Element: n.Element, Image: &ImageBox{
			X: at.x, Y: at.y, Width: at.w, Height: at.h,
			Src:     n.Src,
			Fit:     n.Style.ObjectFit,
			Opacity: n.Style.Alpha(),
		}})
	default:
		tb := *s.text
		tb.X, tb.Y = at.x, at.y
		a.emit(z, Item{Element: n.Element, Text: &tb})
	}
}

func (a *arranger) placeChildren(s *sized, at area, family string, z int) {
	st := s.node.Style
	inner := at.inset(st.Padding)

	total := 0.0
	for _, c := range s.children {
		if c.node.Style.Position == style.PositionAbsolute {
			continue
		}
		m := c.node.Style.Margin
		total += m.Top + c.h + m.Bottom
	}
	y := inner.y
	switch st.JustifyContent {
	case "center":
		y += (inner.h - total) / 2
	case "flex-end", "end":
		y += inner.h - total
	}

	// 按树顺序定位，保证同层绘制顺序与节点顺序一致
	for _, c := range s.children {
		if c.node.Style.Position == style.PositionAbsolute {
			a.place(c, absoluteBox(c, at), family, z)
			continue
		}
		m := c.node.Style.Margin
		y += m.Top
		var x float64
		switch st.AlignItems {
		case "center":
			x = inner.x + m.Left + (inner.w-m.Left-m.Right-c.w)/2
		case "flex-end", "end":
			x = inner.x + inner.w - m.Right - c.w
		default:
			x = inner.x + m.Left
		}
		a.place(c, area{x: x, y: y, w: c.w, h: c.h}, family, z)
		y += c.h + m.Bottom
	}
}

// absoluteBox 根据 inset 计算绝对定位盒子；未设置的方向在父盒子中居中。
func absoluteBox(c *sized, parent area) area {
	in := c.node.Style.Inset
	box := area{w: c.w, h: c.h}
	switch {
	case in.Left != nil:
		box.x = parent.x + *in.Left
	case in.Right != nil:
		box.x = parent.x + parent.w - *in.Right - c.w
	default:
		box.x = parent.x + (parent.w-c.w)/2
	}
	switch {
	case in.Top != nil:
		box.y = parent.y + *in.Top
	case in.Bottom != nil:
		box.y = parent.y + parent.h - *in.Bottom - c.h
	default:
		box.y = parent.y + (parent.h-c.h)/2
	}
	return box
}

func (a *arranger) paint(n *Node, at area, z int) {
	bg := n.Style.Background
	if bg.IsZero() || at.w <= 0 || at.h <= 0 {
		return
	}
	rect := &Rect{X: at.x, Y: at.y, Width: at.w, Height: at.h}
	if g := bg.Gradient; g != nil {
		grad := &Gradient{}
		grad.X0, grad.Y0, grad.X1, grad.Y1 = gradientLine(g.Angle, at)
		for _, stop := range g.Stops {
			c, ok := parseColor(stop.Color, bg.Alpha())
			if !ok {
				continue
			}
			grad.Stops = append(grad.Stops, GradientStop{Offset: stop.Offset, Color: c})
		}
		if len(grad.Stops) == 0 {
			return
		}
		rect.Gradient = grad
		rect.Fill = grad.Stops[0].Color
	} else {
		c, ok := parseColor(bg.Color, bg.Alpha())
		if !ok {
			return
		}
		rect.Fill = c
	}
	a.emit(z, Item{Element: n.Element, Rect: rect})
}

func (a *arranger) emit(z int, it Item) {
	a.items = append(a.items, zItem{z: z, item: it})
}

// gradientLine 按 CSS linear-gradient 的规则计算渐变线：
// 方向 (sin a, -cos a)，长度 |w·sin a| + |h·cos a|，穿过盒子中心。
func gradientLine(angle float64, r area) (x0, y0, x1, y1 float64) {
	rad := angle * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	half := (math.Abs(r.w*dx) + math.Abs(r.h*dy)) / 2
	cx, cy := r.x+r.w/2, r.y+r.h/2
	return cx - dx*half, cy - dy*half, cx + dx*half, cy + dy*half
}

func parseColor(hex string, alpha float64) (Color, bool) {
	r, g, b, a, err := style.ParseHex(hex)
	if err != nil {
		return Color{}, false
	}
	return Color{R: r, G: g, B: b, A: int(math.Round(float64(a) * alpha))}, true
}

// textColor 未设置或无法解析时使用黑色。
func textColor(hex string, alpha float64) Color {
	if c, ok := parseColor(hex, alpha); ok {
		return c
	}
	return Color{A: int(math.Round(255 * alpha))}
}
