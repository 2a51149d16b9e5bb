package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ByLCY/carousel/deck"
)

type deckOpts struct {
	in     string
	data   string
	outDir string
	format string
	width  int
}

func newDeckCmd(g *globals) *cobra.Command {
	var opts deckOpts
	cmd := &cobra.Command{
		Use:   "deck [file.carousel]",
		Short: "Render every slide of a deck file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.in = args[0]
			}
			if opts.in == "" {
				return fmt.Errorf("缺少 deck 文件：传入路径或使用 --in")
			}
			return runDeck(cmd, g, opts.in, &opts)
		},
	}
	cmd.Flags().StringVarP(&opts.in, "in", "i", "", "deck file (.carousel)")
	cmd.Flags().StringVarP(&opts.data, "data", "d", "", "JSON file bound to ${path} placeholders")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "output", "output directory")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format (overrides the deck)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "output width in pixels (overrides the deck)")
	return cmd
}

func runDeck(cmd *cobra.Command, g *globals, path string, opts *deckOpts) error {
	ctx := cmd.Context()
	cfg, logger, err := g.loadConfig(ctx)
	if err != nil {
		return err
	}
	d, err := deck.ParseFile(path, opts.data)
	if err != nil {
		return err
	}
	for _, req := range d.Slides {
		if err := applyOutput(req, opts.format, opts.width); err != nil {
			return err
		}
	}

	svc, c, err := newService(ctx, cfg, filepath.Dir(path), logger)
	if err != nil {
		return err
	}
	defer c.Close()

	prog := newProgress(logger)
	results, err := svc.RenderDeck(ctx, d.Slides)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d slides", len(results)))

	w := cmd.OutOrStdout()
	printSuccess(w, "Deck %s", StyleHighlight.Render(d.Name))
	for i, res := range results {
		out := filepath.Join(opts.outDir, d.FileName(i, res.Format.Ext()))
		if err := writeFile(out, res.Data); err != nil {
			return err
		}
		printFile(w, out)
	}
	return nil
}
