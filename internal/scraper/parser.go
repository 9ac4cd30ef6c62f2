// internal/scraper/parser.go
package scraper

import (
	"bytes"
	"errors"

	"github.com/PuerkitoBio/goquery"
)

// Parser builds a queryable document from raw markup.
type Parser interface {
	Parse(raw []byte) (*goquery.Document, error)
}

// HTMLParser is the goquery-backed Parser.
type HTMLParser struct{}

// NewHTMLParser creates a new HTML parser.
func NewHTMLParser() HTMLParser {
	return HTMLParser{}
}

// Parse parses raw HTML. Empty input and tokenizer failures are reported as
// *ParseError.
func (HTMLParser) Parse(raw []byte) (*goquery.Document, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &ParseError{Err: errors.New("empty document")}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return doc, nil
}
