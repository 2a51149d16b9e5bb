package canvasrenderer

import (
	"math"
	"strings"
	"unicode"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/carousel/layout"
)

// WrapBreakWord 忽略空白，纯按宽度切分。
const WrapBreakWord = "break-word"

// LayoutLines 实现 layout.Typesetter 接口，使用贪心换行算法。
// 约定：width/fontSize/lineHeight 入参均为逻辑像素（画布 mm），内部创建字体面时换算为 pt。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontSpec, fontSize, lineHeight float64, wrap string) ([]layout.TextLine, error) {
	face, err := r.fontFace(font, toPt(fontSize), layout.Color{A: 255})
	if err != nil {
		return nil, err
	}
	if wrap == "" {
		wrap = layout.WrapNormal
	}
	lines := greedyWrapTokens(content, width, face, wrap)

	textHeight := face.Metrics().LineHeight
	if textHeight <= 0 {
		textHeight = fontSize
	}
	leading := math.Max(lineHeight-textHeight, 0)
	if len(lines) == 0 {
		lines = []layout.TextLine{{Height: textHeight}}
	}
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = textHeight
		}
		if i == 0 {
			lines[i].GapBefore = 0
		} else {
			lines[i].GapBefore = leading
		}
	}
	return lines, nil
}

// textMeasurer 抽象出测宽函数，便于在没有字体的情况下测试折行。
type textMeasurer interface {
	TextWidth(s string) float64
}

var _ textMeasurer = (*canvas.FontFace)(nil)

func greedyWrapTokens(content string, width float64, face textMeasurer, wrap string) []layout.TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	// nowrap：仅按显式换行划分
	if wrap == layout.WrapNone {
		parts := strings.Split(strings.ReplaceAll(content, "\r", ""), "\n")
		lines := make([]layout.TextLine, 0, len(parts))
		for _, p := range parts {
			lines = append(lines, layout.TextLine{Content: p, Width: face.TextWidth(p)})
		}
		return lines
	}

	var lines []layout.TextLine
	var builder strings.Builder
	emit := func(force bool) {
		// 行尾空白不参与宽度，否则居中会偏左
		str := strings.TrimRightFunc(builder.String(), unicode.IsSpace)
		builder.Reset()
		if str == "" {
			if force {
				lines = append(lines, layout.TextLine{})
			}
			return
		}
		lines = append(lines, layout.TextLine{Content: str, Width: face.TextWidth(str)})
	}

	if wrap == WrapBreakWord {
		current := 0.0
		for _, r := range content {
			if r == '\r' {
				continue
			}
			if r == '\n' {
				emit(true)
				current = 0
				continue
			}
			s := string(r)
			cw := face.TextWidth(s)
			if current > 0 && current+cw > limit {
				emit(false)
				current = 0
			}
			builder.WriteString(s)
			current += cw
		}
		emit(true)
		return lines
	}

	// normal：优先在空白处分割，单词超过限制时在词内拆分
	currentWidth := 0.0
	flush := func(force bool) {
		emit(force)
		currentWidth = 0
	}
	appendToken := func(token string, w float64) {
		if currentWidth == 0 && isBlank(token) {
			return // 行首空白
		}
		builder.WriteString(token)
		currentWidth += w
	}

	for _, token := range tokenizeContent(content) {
		if token == "\n" {
			flush(true)
			continue
		}
		tokenWidth := face.TextWidth(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit && !isBlank(token) {
			flush(false)
		}
		if tokenWidth <= limit || isBlank(token) {
			appendToken(token, tokenWidth)
			continue
		}
		for _, chunk := range splitTokenByWidth(token, limit, face) {
			chunkWidth := face.TextWidth(chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				flush(false)
			}
			appendToken(chunk, chunkWidth)
		}
	}
	flush(true)
	return lines
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// tokenizeContent 将文本切分为交替的空白/非空白片段，显式换行单独成为一个 token。
func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(token string, limit float64, face textMeasurer) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var current []rune
	for _, r := range token {
		current = append(current, r)
		if len(current) > 1 && face.TextWidth(string(current)) > limit {
			parts = append(parts, string(current[:len(current)-1]))
			current = current[len(current)-1:]
		}
	}
	if len(current) > 0 {
		parts = append(parts, string(current))
	}
	return parts
}
