package preload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"recap/internal/manifest"
)

// loadImage fetches the whole image and decodes it. A decoded bitmap is the
// only success signal. Dimensions are checked from the header first so a
// small file cannot expand into an oversized bitmap.
func (p *Preloader) loadImage(ctx context.Context, target string) (*Asset, error) {
	src, err := p.open(ctx, target, 0)
	if err != nil {
		return nil, err
	}
	defer src.body.Close()

	var reader io.Reader = src.body
	if p.opts.MaxImageBytes > 0 {
		reader = io.LimitReader(src.body, p.opts.MaxImageBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if p.opts.MaxImageBytes > 0 && int64(len(data)) > p.opts.MaxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", p.opts.MaxImageBytes)
	}

	header, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if limit := p.opts.MaxImagePixels; limit > 0 && int64(header.Width)*int64(header.Height) > limit {
		return nil, fmt.Errorf("image is %dx%d, over the %d pixel limit", header.Width, header.Height, limit)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	return &Asset{
		Kind:        manifest.KindImage,
		ContentType: "image/" + format,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Bytes:       int64(len(data)),
	}, nil
}

// loadVideo buffers the leading chunk of a video. The video counts as ready
// once enough data arrived to identify it as video.
func (p *Preloader) loadVideo(ctx context.Context, target string) (*Asset, error) {
	src, err := p.open(ctx, target, p.opts.VideoReadahead)
	if err != nil {
		return nil, err
	}
	defer src.body.Close()

	limit := p.opts.VideoReadahead
	if limit <= 0 {
		limit = defaultReadahead
	}
	data, err := io.ReadAll(io.LimitReader(src.body, limit))
	if err != nil && len(data) == 0 {
		return nil, fmt.Errorf("read video: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("no video data")
	}

	contentType := mimetype.Detect(data).String()
	if !strings.HasPrefix(contentType, "video/") {
		if !strings.HasPrefix(src.contentType, "video/") {
			return nil, fmt.Errorf("not a video (detected %s)", contentType)
		}
		contentType = src.contentType
	}
	return &Asset{
		Kind:        manifest.KindVideo,
		ContentType: contentType,
		Bytes:       int64(len(data)),
		Muted:       true,
	}, nil
}
