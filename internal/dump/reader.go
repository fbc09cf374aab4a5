// Package dump streams pages out of a MediaWiki XML export.
package dump

import (
	"compress/bzip2"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/heartmarshall/wikidefine/internal/domain"
)

// Stats counts what the reader has seen so far.
type Stats struct {
	Pages        int // pages returned by Next
	SkippedPages int // pages without a title or revision text
}

type xmlRevision struct {
	Text *string `xml:"text"`
}

type xmlPage struct {
	Title     string        `xml:"title"`
	Namespace int           `xml:"ns"`
	Revisions []xmlRevision `xml:"revision"`
}

// Reader yields pages one at a time without loading the dump into memory.
// It is not safe for concurrent use.
type Reader struct {
	dec    *xml.Decoder
	closer io.Closer
	stats  Stats
}

// NewReader reads an uncompressed XML export from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: xml.NewDecoder(r)}
}

// Open opens the export at path. Files ending in ".bz2" are decompressed
// on the fly.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dump: open %s: %w", path, err)
	}

	var src io.Reader = f
	if strings.HasSuffix(path, ".bz2") {
		src = bzip2.NewReader(f)
	}

	r := NewReader(src)
	r.closer = f
	return r, nil
}

// Next returns the next page that has both a title and text. Pages missing
// either are counted in Stats and skipped. Next returns io.EOF when the
// export is exhausted; any other error is terminal.
func (r *Reader) Next() (domain.Page, error) {
	for {
		tok, err := r.dec.Token()
		if errors.Is(err, io.EOF) {
			return domain.Page{}, io.EOF
		}
		if err != nil {
			return domain.Page{}, fmt.Errorf("dump: read token: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "page" {
			continue
		}

		var p xmlPage
		if err := r.dec.DecodeElement(&p, &start); err != nil {
			return domain.Page{}, fmt.Errorf("dump: decode page after %d pages: %w", r.stats.Pages, err)
		}

		text := latestText(p.Revisions)
		if p.Title == "" || text == nil {
			r.stats.SkippedPages++
			continue
		}

		r.stats.Pages++
		return domain.Page{
			Title:     p.Title,
			Namespace: p.Namespace,
			Content:   *text,
		}, nil
	}
}

// Stats returns the counters accumulated so far.
func (r *Reader) Stats() Stats {
	return r.stats
}

// Close releases the underlying file when the reader was created by Open.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func latestText(revs []xmlRevision) *string {
	for i := len(revs) - 1; i >= 0; i-- {
		if revs[i].Text != nil {
			return revs[i].Text
		}
	}
	return nil
}
