// Package fetch loads slide assets and brand logos from http(s) URLs,
// data: URIs and local files.
package fetch

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // 注册解码器
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	_ "golang.org/x/image/webp"
)

// Sentinel errors.
var (
	ErrNotFound    = errors.New("asset not found")
	ErrNetwork     = errors.New("network error")
	ErrTooLarge    = errors.New("asset too large")
	ErrUnsupported = errors.New("unsupported asset uri")
	ErrNotImage    = errors.New("asset is not a decodable image")
)

// Defaults.
const (
	DefaultTimeout  = 10 * time.Second
	DefaultMaxBytes = 10 << 20
	DefaultAttempts = 3
)

// Options configures a Fetcher.
type Options struct {
	BaseDir  string        // 本地路径的根目录；为空时禁止本地路径
	Timeout  time.Duration // 单次 HTTP 请求超时
	MaxBytes int64
	Attempts int
	Delay    time.Duration // 首次重试前的等待
	Client   *http.Client
	Logger   *log.Logger
}

// Fetcher retrieves asset bytes. It is safe for concurrent use.
type Fetcher struct {
	http     *http.Client
	baseDir  string
	maxBytes int64
	attempts int
	delay    time.Duration
	logger   *log.Logger
}

// New creates a Fetcher, filling unset options with defaults.
func New(opts Options) *Fetcher {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	f := &Fetcher{
		http:     client,
		baseDir:  opts.BaseDir,
		maxBytes: opts.MaxBytes,
		attempts: opts.Attempts,
		delay:    opts.Delay,
		logger:   opts.Logger,
	}
	if f.maxBytes <= 0 {
		f.maxBytes = DefaultMaxBytes
	}
	if f.attempts <= 0 {
		f.attempts = DefaultAttempts
	}
	if f.delay <= 0 {
		f.delay = 500 * time.Millisecond
	}
	if f.logger == nil {
		f.logger = log.Default()
	}
	return f
}

// Fetch returns the bytes behind uri.
func (f *Fetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	uri = strings.TrimSpace(uri)
	switch {
	case uri == "":
		return nil, fmt.Errorf("%w: empty", ErrUnsupported)
	case strings.HasPrefix(uri, "data:"):
		return f.decodeDataURI(uri)
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		var data []byte
		err := Retry(ctx, f.attempts, f.delay, func() error {
			var err error
			data, err = f.get(ctx, uri)
			return err
		})
		return data, err
	case strings.HasPrefix(uri, "file://"):
		return f.readFile(strings.TrimPrefix(uri, "file://"))
	case strings.Contains(uri, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, uri)
	default:
		return f.readFile(uri)
	}
}

// Optional fetches an image and returns nil when it cannot be retrieved or decoded.
// Failures are logged as warnings; rendering continues without the image.
func (f *Fetcher) Optional(ctx context.Context, uri string) []byte {
	if strings.TrimSpace(uri) == "" {
		return nil
	}
	data, err := f.Fetch(ctx, uri)
	if err == nil {
		err = CheckImage(data)
	}
	if err != nil {
		f.logger.Warn("failed to fetch asset image", "uri", redact(uri), "err", err)
		return nil
	}
	return data
}

// CheckImage reports whether data decodes as a supported image format.
func CheckImage(data []byte) error {
	if len(data) == 0 {
		return ErrNotImage
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return nil
}

func (f *Fetcher) get(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "carousel-renderer")

	resp, err := f.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	if resp.ContentLength > f.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, resp.ContentLength)
	}
	return f.readLimited(resp.Body)
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, f.maxBytes)
	}
	return data, nil
}

func (f *Fetcher) decodeDataURI(uri string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data uri", ErrUnsupported)
	}
	var data []byte
	if strings.HasSuffix(meta, ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
		data = decoded
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
		data = []byte(unescaped)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, f.maxBytes)
	}
	return data, nil
}

// readFile 只允许读取 baseDir 下的文件。
func (f *Fetcher) readFile(path string) ([]byte, error) {
	if f.baseDir == "" {
		return nil, fmt.Errorf("%w: local paths disabled: %s", ErrUnsupported, path)
	}
	base, err := filepath.Abs(f.baseDir)
	if err != nil {
		return nil, err
	}
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(base, full)
	}
	full = filepath.Clean(full)
	if rel, err := filepath.Rel(base, full); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: %s escapes %s", ErrUnsupported, path, f.baseDir)
	}

	file, err := os.Open(full)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, f.maxBytes)
	}
	return data, nil
}

// redact drops query strings and data payloads from log output.
func redact(uri string) string {
	if strings.HasPrefix(uri, "data:") {
		meta, _, _ := strings.Cut(uri, ",")
		return meta + ",…"
	}
	if u, err := url.Parse(uri); err == nil && u.RawQuery != "" {
		u.RawQuery = ""
		return u.String()
	}
	return uri
}
