package fonts

import (
	"io"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/charmbracelet/log"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func quietLogger() *log.Logger { return log.New(io.Discard) }

func TestLoadRequestedFamily(t *testing.T) {
	fsys := fstest.MapFS{
		"Poppins-Regular.ttf": {Data: goregular.TTF},
		"Poppins-Bold.ttf":    {Data: gobold.TTF},
	}
	l := NewLoader(fsys, quietLogger())
	set := l.Load("Poppins")
	if set.Family != "Poppins" || len(set.Fonts) != 2 {
		t.Fatalf("unexpected set %+v", set)
	}
	if set.Fonts[0].Weight != 400 || set.Fonts[1].Weight != 700 || set.Fonts[0].Style != "normal" {
		t.Fatalf("unexpected weights %+v", set.Fonts)
	}
	if set.Fonts[0].Name != "Poppins" {
		t.Fatalf("font name should be the family, got %s", set.Fonts[0].Name)
	}
	if !l.Cached("Poppins") {
		t.Fatalf("family should be cached after first load")
	}
}

func TestLoadSkipsBrokenFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"Roboto-Regular.ttf": {Data: goregular.TTF},
		"Roboto-Bold.ttf":    {Data: []byte("not a font")},
	}
	set := NewLoader(fsys, quietLogger()).Load("Roboto")
	if len(set.Fonts) != 1 || set.Fonts[0].Weight != 400 {
		t.Fatalf("expected only the regular face, got %+v", set.Fonts)
	}
}

func TestLoadFallsBackToInter(t *testing.T) {
	fsys := fstest.MapFS{
		"Inter-Regular.ttf": {Data: goregular.TTF},
		"Inter-Bold.ttf":    {Data: gobold.TTF},
	}
	l := NewLoader(fsys, quietLogger())
	set := l.Load("Montserrat")
	if set.Family != "Inter" || len(set.Fonts) != 2 {
		t.Fatalf("expected Inter fallback, got %+v", set)
	}

	// 未知字体族直接映射到 Inter 的文件
	unknown := l.Load("Comic Sans")
	if len(unknown.Fonts) != 2 || unknown.Fonts[0].Name != "Comic Sans" {
		t.Fatalf("unknown family should use Inter files, got %+v", unknown)
	}
}

func TestLoadNeverEmpty(t *testing.T) {
	for _, l := range []*Loader{
		NewLoader(nil, quietLogger()),
		NewLoader(fstest.MapFS{}, quietLogger()),
		NewDirLoader("", quietLogger()),
	} {
		set := l.Load("Open Sans")
		if len(set.Fonts) == 0 {
			t.Fatalf("Load must never return an empty set")
		}
		if set.Family != EmbeddedFamily {
			t.Fatalf("expected embedded fallback, got %s", set.Family)
		}
	}
}

func TestLoadConcurrent(t *testing.T) {
	l := NewLoader(fstest.MapFS{"Inter-Regular.ttf": {Data: goregular.TTF}}, quietLogger())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if set := l.Load(""); len(set.Fonts) != 1 {
				t.Errorf("unexpected set %+v", set)
			}
		}()
	}
	wg.Wait()
}

func TestFamilies(t *testing.T) {
	got := Families()
	if len(got) != 5 || got[0] != "Inter" {
		t.Fatalf("unexpected families %v", got)
	}
}
