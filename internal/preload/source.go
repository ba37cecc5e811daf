package preload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

type source struct {
	body        io.ReadCloser
	contentType string
}

// resolve turns a slide src into an absolute URL or file path. Relative
// sources are taken relative to the manifest location.
func resolve(base, src string) (string, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", errors.New("empty source")
	}
	if u, err := url.Parse(src); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return u.String(), nil
	}
	if strings.HasPrefix(src, "file://") {
		return strings.TrimPrefix(src, "file://"), nil
	}
	if b, err := url.Parse(base); err == nil && (b.Scheme == "http" || b.Scheme == "https") {
		ref, err := url.Parse(src)
		if err != nil {
			return "", fmt.Errorf("parse source: %w", err)
		}
		return b.ResolveReference(ref).String(), nil
	}
	if filepath.IsAbs(src) {
		return src, nil
	}
	dir := "."
	if base != "" {
		dir = filepath.Dir(strings.TrimPrefix(base, "file://"))
	}
	return filepath.Join(dir, filepath.FromSlash(src)), nil
}

func isHTTP(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

// open starts reading target. A positive rangeBytes asks HTTP servers for
// only the leading bytes.
func (p *Preloader) open(ctx context.Context, target string, rangeBytes int64) (*source, error) {
	if !isHTTP(target) {
		f, err := os.Open(target)
		if err != nil {
			return nil, err
		}
		return &source{body: f}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if p.opts.UserAgent != "" {
		req.Header.Set("User-Agent", p.opts.UserAgent)
	}
	if rangeBytes > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", rangeBytes-1))
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return &source{body: resp.Body, contentType: mediaType}, nil
}
