package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/carousel/dsl"
)

const sampleDeck = `
// 发布会轮播
deck Launch v1 {
  brand { name: "Acme" primary: #336699 secondary: #ffcc00 font: "Inter" }

  template: soft_pastel

  slide cover {
    title: "Launch Day"
    subtitle: "${product.name}"
    emoji: "🚀"
  }

  /* 正文 */
  slide content { title: "Why"; body: "Because it is fast."; asset: "https://example.com/a.png"; use-asset: featured }

  slide cta
  {
    title: "Follow us"
    template: bold_contrast
  }
}
`

func TestParseDeck(t *testing.T) {
	doc, err := dsl.ParseString(sampleDeck)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Launch" || doc.Version != "v1" {
		t.Fatalf("unexpected header %s %s", doc.Name, doc.Version)
	}
	if len(doc.Sections) != 5 {
		t.Fatalf("expected 5 sections, got %d", len(doc.Sections))
	}

	kinds := []string{"brand", "setting", "slide", "slide", "slide"}
	for i, want := range kinds {
		if got := doc.Sections[i].Kind(); got != want {
			t.Fatalf("section %d: got %s want %s", i, got, want)
		}
	}

	brand := doc.Sections[0].Brand.Block
	if v, ok := lookup(brand, "primary"); !ok || v.Text() != "#336699" {
		t.Fatalf("primary colour missing: %+v", v)
	}
	if v, _ := lookup(brand, "secondary"); v.Text() != "#FFCC00" {
		t.Fatalf("colours should be upper-cased, got %s", v.Text())
	}

	if s := doc.Sections[1].Setting; s.Key != "template" || s.Value.Text() != "soft_pastel" {
		t.Fatalf("unexpected setting %+v", s)
	}

	cover := doc.Sections[2].Slide
	if cover.Type != "cover" || len(cover.Block.Assignments) != 3 {
		t.Fatalf("unexpected cover %+v", cover)
	}
	if v, _ := lookup(cover.Block, "subtitle"); v.Text() != "${product.name}" {
		t.Fatalf("interpolation placeholder must be kept verbatim, got %q", v.Text())
	}
	if v, _ := lookup(cover.Block, "emoji"); v.Text() != "🚀" {
		t.Fatalf("emoji lost: %q", v.Text())
	}

	content := doc.Sections[3].Slide
	if v, _ := lookup(content.Block, "use-asset"); v.Text() != "featured" {
		t.Fatalf("use-asset not parsed: %+v", v)
	}

	cta := doc.Sections[4].Slide
	if v, _ := lookup(cta.Block, "template"); v.Text() != "bold_contrast" {
		t.Fatalf("slide override missing")
	}
	if cta.Pos.Line == 0 {
		t.Fatalf("slide position should be recorded")
	}
}

func TestParseValueKinds(t *testing.T) {
	doc, err := dsl.Parse("kinds.carousel", strings.NewReader(`deck K { slide content { number: 7 title: "x" } }`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Version != "" {
		t.Fatalf("version is optional, got %q", doc.Version)
	}
	n, _ := lookup(doc.Sections[0].Slide.Block, "number")
	if got, err := n.Int(); err != nil || got != 7 {
		t.Fatalf("number value: %d %v", got, err)
	}
	title, _ := lookup(doc.Sections[0].Slide.Block, "title")
	if _, err := title.Int(); err == nil {
		t.Fatalf("string is not a number")
	}
	if _, ok := lookup(doc.Sections[0].Slide.Block, "missing"); ok {
		t.Fatalf("missing key must not be found")
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		`doc X v1 {}`,
		`deck X v1 { slide cover { title "no colon" } }`,
		`deck X v1 { slide cover { title: } }`,
		`deck X v1 { slide cover { title: "unterminated }`,
	}
	for _, src := range cases {
		if _, err := dsl.ParseString(src); err == nil {
			t.Fatalf("expected error for %q", src)
		}
	}
}

// lookup returns the last assignment for key.
func lookup(b *dsl.Block, key string) (*dsl.Value, bool) {
	var found *dsl.Value
	for _, a := range b.Assignments {
		if a.Key == key {
			found = a.Value
		}
	}
	return found, found != nil
}
