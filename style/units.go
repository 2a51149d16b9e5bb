package style

import "strconv"

// Unit represents the original unit of a length value as written in a style.
type Unit int

const (
	UnitNone    Unit = iota // 未设置，由布局决定（auto）
	UnitPX                  // 逻辑像素，画布为 1080×1350
	UnitPercent             // 相对父盒子的百分比
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitPercent:
		return "%"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Px returns an absolute length in logical pixels.
func Px(v float64) Length { return Length{Value: v, Unit: UnitPX} }

// Percent returns a length relative to the parent box.
func Percent(v float64) Length { return Length{Value: v, Unit: UnitPercent} }

// IsAuto reports whether the length was left unset.
func (l Length) IsAuto() bool { return l.Unit == UnitNone }

// Resolve converts the length to logical pixels against the parent extent.
// auto 返回 fallback。
func (l Length) Resolve(parent, fallback float64) float64 {
	switch l.Unit {
	case UnitPX:
		return l.Value
	case UnitPercent:
		return parent * l.Value / 100
	default:
		return fallback
	}
}

// String renders the length the way a stylesheet would write it.
func (l Length) String() string {
	if l.Unit == UnitNone {
		return "auto"
	}
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// MarshalText keeps debug output readable ("100%", "400px").
func (l Length) MarshalText() ([]byte, error) { return []byte(l.String()), nil }
