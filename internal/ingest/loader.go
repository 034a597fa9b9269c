// Package ingest turns a file path or URL into cleaned contract text.
// Plain text, Markdown and HTML are supported; binary office formats and
// scanned documents are not.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/clauseguard/internal/logging"
	"github.com/ppiankov/clauseguard/internal/model"
)

var (
	// ErrEmptyDocument is returned when no text remains after cleaning
	ErrEmptyDocument = errors.New("empty document")

	// ErrUnsupportedFormat is returned for formats that need OCR or an office parser
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Format is the detected source format
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// Document is a loaded, cleaned contract
type Document struct {
	Source string
	Format Format
	Text   string
}

var unsupportedExts = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".odt": true, ".rtf": true,
	".png": true, ".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true,
}

// Loader reads documents from disk or the network
type Loader struct {
	fetcher  *Fetcher
	maxBytes int64
	log      logging.Logger
}

// NewLoader creates a loader using the HTTP settings for URL sources
func NewLoader(cfg model.HTTPConfig, log logging.Logger) *Loader {
	return &Loader{
		fetcher:  NewFetcher(cfg.Timeout, cfg.UserAgent, cfg.MaxBodyBytes, cfg.RespectRobots, cfg.HTTPProxy, cfg.HTTPSProxy),
		maxBytes: cfg.MaxBodyBytes,
		log:      logging.OrNop(log).Named("ingest"),
	}
}

// Load reads a file path or http(s) URL
func (l *Loader) Load(ctx context.Context, source string) (*Document, error) {
	lower := strings.ToLower(source)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return l.LoadURL(ctx, source)
	}
	return l.LoadFile(source)
}

// LoadFile reads a local file; the extension selects the format
func (l *Loader) LoadFile(path string) (*Document, error) {
	format, err := formatForExt(filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if l.maxBytes > 0 && info.Size() > l.maxBytes {
		return nil, fmt.Errorf("read %s: file is %d bytes, limit is %d", path, info.Size(), l.maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	l.log.Debug("loaded file", logging.String("path", path), logging.Int("bytes", len(data)))
	return newDocument(path, format, string(data))
}

// LoadURL fetches a document; the Content-Type selects the format
func (l *Loader) LoadURL(ctx context.Context, rawURL string) (*Document, error) {
	res, err := l.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if res.Truncated {
		l.log.Warn("document truncated at size limit",
			logging.String("url", rawURL), logging.Any("max_bytes", l.maxBytes))
	}

	format, err := formatForContentType(res.ContentType, res.FinalURL)
	if err != nil {
		return nil, err
	}

	l.log.Debug("fetched document",
		logging.String("url", res.FinalURL),
		logging.String("content_type", res.ContentType),
		logging.Int("bytes", len(res.Body)))
	return newDocument(rawURL, format, res.Body)
}

func newDocument(source string, format Format, raw string) (*Document, error) {
	text := raw
	if format == FormatHTML {
		var err error
		if text, err = HTMLText(raw); err != nil {
			return nil, err
		}
	}

	text = Clean(text)
	if text == "" {
		return nil, fmt.Errorf("%s: %w", source, ErrEmptyDocument)
	}
	return &Document{Source: source, Format: format, Text: text}, nil
}

func formatForExt(ext string) (Format, error) {
	ext = strings.ToLower(ext)
	switch {
	case ext == ".html" || ext == ".htm" || ext == ".xhtml":
		return FormatHTML, nil
	case unsupportedExts[ext]:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	default:
		return FormatText, nil
	}
}

func formatForContentType(contentType, finalURL string) (Format, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType == "" || mediaType == "application/octet-stream" {
		// No usable header, fall back to the URL path
		return formatForExt(filepath.Ext(strings.SplitN(finalURL, "?", 2)[0]))
	}

	switch {
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		return FormatHTML, nil
	case strings.HasPrefix(mediaType, "text/"):
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mediaType)
	}
}
