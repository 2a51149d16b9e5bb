package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/carousel/internal/pipeline"
	"github.com/ByLCY/carousel/layout"
	"github.com/ByLCY/carousel/renderer"
)

type renderOpts struct {
	request string // request JSON path, "-" for stdin
	output  string
	format  string
	width   int
	debug   string // layout debug JSON path
}

func newRenderCmd(g *globals) *cobra.Command {
	var opts renderOpts
	cmd := &cobra.Command{
		Use:   "render [request.json]",
		Short: "Render one slide request to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.request = args[0]
			}
			if opts.request == "" {
				return fmt.Errorf("缺少请求文件：传入路径或使用 --request")
			}
			return runRender(cmd, g, &opts)
		},
	}
	cmd.Flags().StringVarP(&opts.request, "request", "r", "", "request JSON file (- for stdin)")
	cmd.Flags().StringVarP(&opts.output, "out", "o", "", "output file (default slide-<n>.<ext>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: png, jpeg, svg, pdf")
	cmd.Flags().IntVar(&opts.width, "width", 0, "output width in pixels")
	cmd.Flags().StringVar(&opts.debug, "debug", "", "write the layout tree and frame as JSON")
	return cmd
}

func runRender(cmd *cobra.Command, g *globals, opts *renderOpts) error {
	ctx := cmd.Context()
	cfg, logger, err := g.loadConfig(ctx)
	if err != nil {
		return err
	}
	req, err := readRequest(cmd.InOrStdin(), opts.request)
	if err != nil {
		return err
	}
	if err := applyOutput(req, opts.format, opts.width); err != nil {
		return err
	}

	assetDir := ""
	if opts.request != "-" {
		assetDir = filepath.Dir(opts.request)
	}
	svc, c, err := newService(ctx, cfg, assetDir, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	prog := newProgress(logger)
	res, err := svc.Render(ctx, req)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered slide %d", req.SlideNumber))

	out := opts.output
	if out == "" {
		out = fmt.Sprintf("slide-%d%s", req.SlideNumber, res.Format.Ext())
	}
	if err := writeFile(out, res.Data); err != nil {
		return err
	}
	if opts.debug != "" {
		if res.Cached {
			logger.Warn("cached result has no layout to dump", "path", opts.debug)
		} else if err := layout.WriteDebugJSON(debugDump{Tree: res.Tree, Frame: res.Frame}, opts.debug); err != nil {
			return fmt.Errorf("写入调试文件失败: %w", err)
		}
	}

	w := cmd.OutOrStdout()
	printSuccess(w, "Rendered %s", StyleHighlight.Render(req.SlideType))
	printFile(w, out)
	printKeyValue(w, "size", fmt.Sprintf("%d×%d", res.Width, res.Height))
	if res.Cached {
		printDetail(w, iconCached)
	}
	return nil
}

type debugDump struct {
	Tree  *layout.Node  `json:"tree"`
	Frame *layout.Frame `json:"frame"`
}

func readRequest(stdin io.Reader, path string) (*pipeline.Request, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("读取请求失败: %w", err)
	}
	var req pipeline.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("解析请求 JSON 失败: %w", err)
	}
	return &req, nil
}

// applyOutput lets --format and --width override the request's output block.
func applyOutput(req *pipeline.Request, format string, width int) error {
	format = strings.TrimSpace(format)
	if format == "" && width <= 0 {
		return nil
	}
	if format != "" {
		if _, err := renderer.ParseFormat(format); err != nil {
			return err
		}
	}
	if req.Output == nil {
		req.Output = &pipeline.Output{}
	}
	if format != "" {
		req.Output.Format = format
	}
	if width > 0 {
		req.Output.Width = width
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return nil
}
