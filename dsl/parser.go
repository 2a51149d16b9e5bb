package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "Number", Pattern: `\d+(?:\.\d+)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[:;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	deckParser = participle.MustBuild[Deck](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment"),
	)
)

// Deck is the root AST node of a .carousel file.
type Deck struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'deck' @Ident"`
	Version  string         `parser:"@Ident?"`
	Sections []*Section     `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}' Newline*"`
}

// Section is a top-level entry of a deck: brand block, slide, or setting.
type Section struct {
	Brand   *BrandSection `parser:"  @@"`
	Slide   *SlideSection `parser:"| @@"`
	Setting *Assignment   `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Brand != nil:
		return "brand"
	case s.Slide != nil:
		return "slide"
	case s.Setting != nil:
		return "setting"
	default:
		return "unknown"
	}
}

// BrandSection 品牌信息：name/primary/secondary/font/logo。
type BrandSection struct {
	Block *Block `parser:"'brand' Newline* @@"`
}

// SlideSection 单张幻灯片；Type 为 cover/content/cta。
type SlideSection struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Type  string         `parser:"'slide' @Ident"`
	Block *Block         `parser:"Newline* @@"`
}

// Block is a delimited list of assignments.
type Block struct {
	Assignments []*Assignment `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' Newline* @@"`
}

// Value represents a property value.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Color  *string        `parser:"| @Color"`
	Number *string        `parser:"| @Number"`
	Ident  *string        `parser:"| @Ident"`
}

// Text returns the value as plain text, whatever its lexical form.
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Color != nil:
		return strings.ToUpper(*v.Color)
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// Int returns the value as an integer.
func (v *Value) Int() (int, error) {
	if v == nil || v.Number == nil {
		return 0, fmt.Errorf("值 %q 不是数字", v.Text())
	}
	f, err := strconv.ParseFloat(*v.Number, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a deck from an io.Reader. filename is only used in error positions.
func Parse(filename string, r io.Reader) (*Deck, error) {
	return deckParser.Parse(filename, r)
}

// ParseString parses a deck from a string.
func ParseString(input string) (*Deck, error) {
	return deckParser.ParseString("", input)
}
