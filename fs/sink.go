// Package fs writes crawl results to timestamped files on disk.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/newscrawl"
)

// DefaultPrefix names output files when no prefix is given.
const DefaultPrefix = "newsday_articles"

// Format is an output file format.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXML  Format = "xml"
)

// DefaultFormats are written when NewSink is given none.
var DefaultFormats = []Format{FormatJSON, FormatCSV, FormatXML}

// ParseFormat parses a format name such as "json".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatXML:
		return f, nil
	default:
		return "", newscrawl.Errorf(newscrawl.EINVALID, "unknown output format %q", s)
	}
}

var _ newscrawl.ResultSink = (*Sink)(nil)

// Sink writes the whole record collection once per format, to
// {dir}/{prefix}_{YYYYMMDD_HHMMSS}.{ext}. Every file is written to a
// temporary name first and renamed into place when complete.
type Sink struct {
	dir     string
	prefix  string
	formats []Format

	// Now stamps file names. Defaults to time.Now.
	Now func() time.Time
}

// NewSink creates a Sink writing into dir.
func NewSink(dir, prefix string, formats ...Format) *Sink {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	return &Sink{dir: dir, prefix: prefix, formats: formats}
}

// Write writes records in every configured format and returns the file
// paths in format order. An empty collection writes nothing.
func (s *Sink) Write(ctx context.Context, records []*newscrawl.ArticleRecord) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, err
	}

	stamp := s.now().Format("20060102_150405")

	var locations []string
	for _, format := range s.formats {
		if err := ctx.Err(); err != nil {
			return locations, err
		}

		path := filepath.Join(s.dir, fmt.Sprintf("%s_%s.%s", s.prefix, stamp, format))
		if err := writeAtomic(path, func(f *os.File) error {
			return encode(f, format, records)
		}); err != nil {
			return locations, fmt.Errorf("writing %s: %w", path, err)
		}
		locations = append(locations, path)
	}
	return locations, nil
}

func (s *Sink) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// writeAtomic writes to path.tmp and renames it to path on success.
func writeAtomic(path string, write func(*os.File) error) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
