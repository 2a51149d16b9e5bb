package renderer

import (
	"fmt"
	"strings"

	"github.com/ByLCY/carousel/layout"
)

// Format 输出格式。
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatSVG  Format = "svg"
	FormatPDF  Format = "pdf"
)

// ParseFormat 解析输出格式，空字符串为 png。
func ParseFormat(v string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "svg":
		return FormatSVG, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("不支持的输出格式：%s", v)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPDF:
		return "application/pdf"
	default:
		return "image/png"
	}
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	if f == "" {
		return ".png"
	}
	return "." + string(f)
}

// Options 控制输出。Width 为输出像素宽度，0 表示与画布逻辑宽度一致；高度按比例计算。
type Options struct {
	Format  Format
	Width   int
	Quality int // 仅 jpeg 使用，0 表示默认值
}

// Scale returns the output scale for a frame of the given logical width.
func (o Options) Scale(frameWidth float64) float64 {
	if o.Width <= 0 || frameWidth <= 0 {
		return 1
	}
	return float64(o.Width) / frameWidth
}

// Renderer 将绘制列表输出为最终文件，例如 PNG 或 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(frame *layout.Frame, opts Options) ([]byte, error)
}
