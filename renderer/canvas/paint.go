package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // 注册解码器
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/carousel/layout"
)

const (
	FitCover   = "cover"
	FitContain = "contain"
)

// paintGradient 将线性渐变绘制为 rc 尺寸（乘以 scale）的位图。
func paintGradient(rc layout.Rect, scale float64) (image.Image, error) {
	g := rc.Gradient
	if g == nil || len(g.Stops) == 0 {
		return nil, fmt.Errorf("渐变缺少色标")
	}
	w := int(math.Ceil(rc.Width * scale))
	h := int(math.Ceil(rc.Height * scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("渐变尺寸无效: %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	grad := gg.NewLinearGradient(
		(g.X0-rc.X)*scale, (g.Y0-rc.Y)*scale,
		(g.X1-rc.X)*scale, (g.Y1-rc.Y)*scale,
	)
	for _, stop := range g.Stops {
		grad.AddColorStop(stop.Offset, nrgba(stop.Color))
	}
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()
	return dc.Image(), nil
}

func nrgba(c layout.Color) color.NRGBA {
	return color.NRGBA{R: clampByte(c.R), G: clampByte(c.G), B: clampByte(c.B), A: clampByte(c.A)}
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// fitImage 将 src 缩放到 w×h：cover 居中裁剪铺满，contain 等比缩放后居中留白。
// opacity 不在 (0,1) 内时视为不透明。
func fitImage(src image.Image, w, h int, fit string, opacity float64) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	sb := src.Bounds()
	if sb.Empty() {
		return dst
	}

	var scaled *image.NRGBA
	switch fit {
	case FitContain:
		dr := containRect(sb.Dx(), sb.Dy(), w, h)
		scaled = image.NewNRGBA(dst.Bounds())
		draw.CatmullRom.Scale(scaled, dr, src, sb, draw.Src, nil)
	default:
		scaled = image.NewNRGBA(dst.Bounds())
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, coverRect(sb, w, h), draw.Src, nil)
	}

	if opacity <= 0 || opacity >= 1 {
		return scaled
	}
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(opacity * 255))})
	draw.DrawMask(dst, dst.Bounds(), scaled, image.Point{}, mask, image.Point{}, draw.Over)
	return dst
}

// coverRect 返回源图中与目标宽高比一致的居中裁剪区域。
func coverRect(sb image.Rectangle, w, h int) image.Rectangle {
	sw, sh := float64(sb.Dx()), float64(sb.Dy())
	target := float64(w) / float64(h)
	if sw/sh > target {
		cw := int(math.Round(sh * target))
		x := sb.Min.X + (sb.Dx()-cw)/2
		return image.Rect(x, sb.Min.Y, x+cw, sb.Max.Y)
	}
	ch := int(math.Round(sw / target))
	y := sb.Min.Y + (sb.Dy()-ch)/2
	return image.Rect(sb.Min.X, y, sb.Max.X, y+ch)
}

// containRect 返回目标区域中等比缩放后居中的矩形。
func containRect(sw, sh, w, h int) image.Rectangle {
	ratio := math.Min(float64(w)/float64(sw), float64(h)/float64(sh))
	dw := int(math.Round(float64(sw) * ratio))
	dh := int(math.Round(float64(sh) * ratio))
	x := (w - dw) / 2
	y := (h - dh) / 2
	return image.Rect(x, y, x+dw, y+dh)
}

func fillRGBA(dst *image.RGBA, c color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func drawOver(dst *image.RGBA, src image.Image) {
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Over)
}
