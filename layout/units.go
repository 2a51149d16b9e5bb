package layout

// 画布以逻辑像素为单位，渲染时 1 px 映射为 canvas 的 1 mm；
// 字体系统使用 pt，在边界处做 mm↔pt 换算。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// 未设置时使用的文本默认值。
const (
	DefaultFontSize   = 16.0
	DefaultFontWeight = 400
	DefaultLineHeight = 1.2
)
