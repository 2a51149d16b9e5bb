// Package fonts 按字体族加载字体文件，带进程级缓存与回退。
//
// 查找顺序：请求的字体族 → Inter → 内置 Go 字体（golang.org/x/image/font/gofont），
// 因此 Load 永远不会返回空集合。
package fonts

import (
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFamily 是请求的字体族无可用文件时的回退字体族。
const DefaultFamily = "Inter"

// EmbeddedFamily 是最终回退使用的内置字体族名。
const EmbeddedFamily = "Go"

// Font 是交给渲染器的单个字体资源。
type Font struct {
	Name   string `json:"name"`
	Data   []byte `json:"-"`
	Weight int    `json:"weight"`
	Style  string `json:"style"`
}

// Set 是一个字体族已加载的字体。
type Set struct {
	Family string `json:"family"`
	Fonts  []Font `json:"fonts"`
}

type fontFile struct {
	file   string
	weight int
}

var familyFiles = map[string][]fontFile{
	"Inter": {
		{file: "Inter-Regular.ttf", weight: 400},
		{file: "Inter-Bold.ttf", weight: 700},
	},
	"Roboto": {
		{file: "Roboto-Regular.ttf", weight: 400},
		{file: "Roboto-Bold.ttf", weight: 700},
	},
	"Open Sans": {
		{file: "OpenSans-Regular.ttf", weight: 400},
		{file: "OpenSans-Bold.ttf", weight: 700},
	},
	"Montserrat": {
		{file: "Montserrat-Regular.ttf", weight: 400},
		{file: "Montserrat-Bold.ttf", weight: 700},
	},
	"Poppins": {
		{file: "Poppins-Regular.ttf", weight: 400},
		{file: "Poppins-Bold.ttf", weight: 700},
	},
}

// Families lists the font families with a known file mapping.
func Families() []string {
	out := make([]string, 0, len(familyFiles))
	for name := range familyFiles {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// filesFor 未知字体族使用 Inter 的文件。
func filesFor(family string) []fontFile {
	if files, ok := familyFiles[family]; ok {
		return files
	}
	return familyFiles[DefaultFamily]
}

// Loader 从目录加载字体文件。
// 缓存首次请求时按字体族填充，永不淘汰；并发安全。
type Loader struct {
	fsys   fs.FS
	logger *log.Logger

	mu    sync.Mutex
	cache map[string]Set
}

// NewLoader creates a loader reading font files from fsys. fsys may be nil,
// in which case only the embedded fonts are available.
func NewLoader(fsys fs.FS, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{fsys: fsys, logger: logger, cache: map[string]Set{}}
}

// NewDirLoader creates a loader reading font files from dir.
func NewDirLoader(dir string, logger *log.Logger) *Loader {
	if dir == "" {
		return NewLoader(nil, logger)
	}
	return NewLoader(os.DirFS(dir), logger)
}

// Load returns the fonts of family, falling back to Inter and then to the
// embedded Go fonts. The result always holds at least one font.
func (l *Loader) Load(family string) Set {
	if family == "" {
		family = DefaultFamily
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadLocked(family)
}

// Cached reports whether family has already been loaded.
func (l *Loader) Cached(family string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.cache[family]
	return ok
}

func (l *Loader) loadLocked(family string) Set {
	if set, ok := l.cache[family]; ok {
		return set
	}

	set := Set{Family: family}
	for _, f := range filesFor(family) {
		data, err := l.read(f.file)
		if err != nil {
			l.logger.Warn("failed to load font", "family", family, "file", f.file, "err", err)
			continue
		}
		set.Fonts = append(set.Fonts, Font{Name: family, Data: data, Weight: f.weight, Style: "normal"})
	}

	if len(set.Fonts) == 0 {
		if family != DefaultFamily {
			l.logger.Warn("no usable font files, falling back", "family", family, "fallback", DefaultFamily)
			set = l.loadLocked(DefaultFamily)
		} else {
			l.logger.Warn("no usable font files, using embedded fonts", "family", family)
			set = embedded()
		}
	}
	l.cache[family] = set
	return set
}

func (l *Loader) read(name string) ([]byte, error) {
	if l.fsys == nil {
		return nil, fmt.Errorf("未配置字体目录")
	}
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, err
	}
	if _, err := opentype.Parse(data); err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", name, err)
	}
	return data, nil
}

func embedded() Set {
	return Set{
		Family: EmbeddedFamily,
		Fonts: []Font{
			{Name: EmbeddedFamily, Data: goregular.TTF, Weight: 400, Style: "normal"},
			{Name: EmbeddedFamily, Data: gobold.TTF, Weight: 700, Style: "normal"},
		},
	}
}
