package layout

// ArrangeOptions 配置排版阶段所需的依赖，例如排版后端。
type ArrangeOptions struct {
	Typesetter Typesetter
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行。
// wrap 取值 normal（按宽度折行）或 nowrap（仅按显式换行划分）。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontSpec, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error)
}

const (
	WrapNormal = "normal"
	WrapNone   = "nowrap"
)
