package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ByLCY/carousel/fonts"
	"github.com/ByLCY/carousel/style"
)

type templatesOpts struct {
	primary   string
	secondary string
	font      string
	dump      string // template whose full record is printed as JSON
}

func newTemplatesCmd() *cobra.Command {
	opts := templatesOpts{primary: "#336699", secondary: "#FFCC00"}
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Preview the colors each template derives from a brand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplates(cmd.OutOrStdout(), &opts)
		},
	}
	cmd.Flags().StringVar(&opts.primary, "primary", opts.primary, "brand primary color (#RRGGBB)")
	cmd.Flags().StringVar(&opts.secondary, "secondary", opts.secondary, "brand secondary color (#RRGGBB)")
	cmd.Flags().StringVar(&opts.font, "font", "", "brand font family")
	cmd.Flags().StringVar(&opts.dump, "json", "", "print the full style record of one template as JSON")
	return cmd
}

func runTemplates(w io.Writer, opts *templatesOpts) error {
	for _, c := range []string{opts.primary, opts.secondary} {
		if _, _, _, _, err := style.ParseHex(c); err != nil {
			return fmt.Errorf("invalid color %q: %w", c, err)
		}
	}
	brand := style.Brand{Primary: opts.primary, Secondary: opts.secondary, FontFamily: opts.font}

	if opts.dump != "" {
		rec := style.Resolve(opts.dump, brand)
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	fmt.Fprintln(w, StyleTitle.Render("Templates"))
	for _, t := range style.Templates() {
		rec := style.ResolveTemplate(t, brand)
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleHighlight.Render(t.String()))
		printKeyValue(w, "background", paintSwatch(rec.Container.Background))
		printKeyValue(w, "title", swatch(rec.TitleLarge.Color))
		printKeyValue(w, "body", swatch(rec.Body.Color))
		printKeyValue(w, "number", paintSwatch(rec.SlideNumber.Background))
	}
	fmt.Fprintln(w)
	printKeyValue(w, "fonts", StyleValue.Render(strings.Join(fonts.Families(), ", ")))
	return nil
}

func paintSwatch(p style.Paint) string {
	if p.Gradient != nil {
		parts := make([]string, 0, len(p.Gradient.Stops))
		for _, s := range p.Gradient.Stops {
			parts = append(parts, swatch(s.Color))
		}
		return fmt.Sprintf("%s %s", strings.Join(parts, " → "), StyleDim.Render(fmt.Sprintf("%g°", p.Gradient.Angle)))
	}
	return swatch(p.Color)
}

// swatch renders a colored block followed by the hex value.
func swatch(hex string) string {
	if hex == "" {
		return StyleDim.Render("none")
	}
	block := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
	return block + " " + StyleValue.Render(hex)
}
