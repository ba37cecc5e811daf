package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"recap/internal/logging"
)

const maxManifestBytes = 8 << 20

// Format is the manifest encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Loader fetches and validates a manifest from a URL or a local file.
// It never retries; a failure is returned once for the caller to report.
type Loader struct {
	source    string
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

// NewLoader constructs a loader for source. A nil client uses http.DefaultClient.
func NewLoader(source string, client *http.Client, userAgent string, logger *slog.Logger) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{
		source:    strings.TrimSpace(source),
		client:    client,
		userAgent: userAgent,
		logger:    logging.NewComponentLogger(logger, "manifest"),
	}
}

// Source returns the configured manifest location.
func (l *Loader) Source() string {
	return l.source
}

// Load fetches the manifest and returns it, or an *Error.
func (l *Loader) Load(ctx context.Context) (*Manifest, error) {
	if l.source == "" {
		return nil, newError("(unset)", "no manifest source configured", nil)
	}

	var (
		data   []byte
		format Format
		err    error
	)
	if isRemote(l.source) {
		data, format, err = l.fetch(ctx)
	} else {
		data, format, err = l.read()
	}
	if err != nil {
		return nil, err
	}

	m, err := Parse(l.source, data, format)
	if err != nil {
		return nil, err
	}
	l.logger.Info("manifest loaded",
		logging.String("source", l.source),
		logging.Int("slides", m.Len()),
		logging.String("format", string(format)),
	)
	return m, nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, Format, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, "", newError(l.source, "build request", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, "", newError(l.source, "fetch", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", newError(l.source, fmt.Sprintf("unexpected HTTP status %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestBytes+1))
	if err != nil {
		return nil, "", newError(l.source, "read body", err)
	}
	if len(data) > maxManifestBytes {
		return nil, "", newError(l.source, "body exceeds size limit", nil)
	}

	format := formatFromContentType(resp.Header.Get("Content-Type"))
	if format == "" {
		format = formatFromPath(urlPath(l.source))
	}
	return data, format, nil
}

func (l *Loader) read() ([]byte, Format, error) {
	filePath := strings.TrimPrefix(l.source, "file://")
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, "", newError(l.source, "open", err)
	}
	if info.Size() > maxManifestBytes {
		return nil, "", newError(l.source, "file exceeds size limit", nil)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, "", newError(l.source, "read", err)
	}
	return data, formatFromPath(filePath), nil
}

// Parse decodes data as an ordered, non-empty slide sequence.
func Parse(source string, data []byte, format Format) (*Manifest, error) {
	var (
		slides []Slide
		err    error
	)
	switch format {
	case FormatYAML:
		slides, err = decodeYAML(data)
	default:
		slides, err = decodeJSON(data)
	}
	if err != nil {
		return nil, newError(source, "invalid slide data", err)
	}
	if len(slides) == 0 {
		return nil, newError(source, "invalid slide data: expected non-empty array", nil)
	}
	return New(source, slides), nil
}

func decodeJSON(data []byte) ([]Slide, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("expected a JSON array")
	}
	var slides []Slide
	if err := json.Unmarshal(trimmed, &slides); err != nil {
		return nil, err
	}
	return slides, nil
}

func decodeYAML(data []byte) ([]Slide, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("expected a YAML sequence")
	}
	var slides []Slide
	if err := doc.Decode(&slides); err != nil {
		return nil, err
	}
	return slides, nil
}

func isRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func formatFromContentType(value string) Format {
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return FormatYAML
	case "application/json", "text/json":
		return FormatJSON
	}
	return ""
}

func formatFromPath(p string) Format {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func urlPath(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return parsed.Path
}
