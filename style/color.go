package style

import (
	"fmt"
	"math"
	"strings"
)

// AdjustColorLightness moves a #RRGGBB color toward white (amount > 0.5) or
// toward black (amount < 0.5). amount is clamped to [0,1]; 0 gives black,
// 1 gives white and 0.5 leaves the color unchanged.
//
// The first '#' is dropped, then channels are read from fixed positions
// (0-1, 2-3, 4-5), so "336699" and "#336699" are the same color. A channel
// that is missing or not hex reads as 0, so malformed input degrades instead
// of failing. The result is always upper-case #RRGGBB.
func AdjustColorLightness(hex string, amount float64) string {
	amount = math.Max(0, math.Min(1, amount))
	hex = strings.Replace(hex, "#", "", 1)
	r, g, b := hexChannel(hex, 0), hexChannel(hex, 2), hexChannel(hex, 4)

	var adjust func(v float64) float64
	if amount >= 0.5 {
		// 0.5 处两个分支结果相同，统一走提亮分支
		f := (amount - 0.5) * 2
		adjust = func(v float64) float64 { return v + (255-v)*f }
	} else {
		f := amount * 2
		adjust = func(v float64) float64 { return v * f }
	}
	return fmt.Sprintf("#%02X%02X%02X", clampChannel(adjust(r)), clampChannel(adjust(g)), clampChannel(adjust(b)))
}

// hexChannel parses the two characters at start as a hex byte. Parsing stops at
// the first non-hex character; no digits at all reads as 0.
func hexChannel(s string, start int) float64 {
	if start >= len(s) {
		return 0
	}
	end := min(start+2, len(s))
	v := 0
	for i := start; i < end; i++ {
		d, ok := hexDigit(s[i])
		if !ok {
			break
		}
		v = v*16 + d
	}
	return float64(v)
}

func hexDigit(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}

func clampChannel(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Max(0, math.Min(255, math.Round(v))))
}

// ParseHex parses #RGB, #RRGGBB or #RRGGBBAA into 0-255 channels.
func ParseHex(value string) (r, g, b, a int, err error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	expand := func(s string) (int, error) {
		n := 0
		for i := 0; i < len(s); i++ {
			d, ok := hexDigit(s[i])
			if !ok {
				return 0, fmt.Errorf("颜色值 %s 无法解析", value)
			}
			n = n*16 + d
		}
		return n, nil
	}
	parts := make([]string, 0, 4)
	switch len(v) {
	case 3:
		for i := 0; i < 3; i++ {
			parts = append(parts, strings.Repeat(v[i:i+1], 2))
		}
	case 6, 8:
		for i := 0; i < len(v); i += 2 {
			parts = append(parts, v[i:i+2])
		}
	default:
		return 0, 0, 0, 0, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	ch := [4]int{0, 0, 0, 255}
	for i, p := range parts {
		n, err := expand(p)
		if err != nil {
			return 0, 0, 0, 0, err
		}
		ch[i] = n
	}
	return ch[0], ch[1], ch[2], ch[3], nil
}
