// Package extract turns fetched HTML into metadata and playable sources.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Document is a parsed, traversable HTML document.
type Document struct {
	*goquery.Document
}

// Parser turns raw markup into a Document.
type Parser interface {
	Parse(r io.Reader) (*Document, error)
}

// HTMLParser is the goquery-backed Parser.
type HTMLParser struct{}

func (HTMLParser) Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{Document: doc}, nil
}

// ParseString parses html with the default parser.
func ParseString(html string) (*Document, error) {
	return HTMLParser{}.Parse(strings.NewReader(html))
}

// ParseBytes parses html with the default parser.
func ParseBytes(html []byte) (*Document, error) {
	return HTMLParser{}.Parse(bytes.NewReader(html))
}

// CompileSelector validates a CSS selector.
func CompileSelector(selector string) (cascadia.Selector, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return sel, nil
}

// Select returns the outer HTML of every node matching selector, in document order.
func Select(doc *Document, selector string) ([]string, error) {
	sel, err := CompileSelector(selector)
	if err != nil {
		return nil, err
	}

	var out []string
	var renderErr error
	doc.FindMatcher(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		html, err := goquery.OuterHtml(s)
		if err != nil {
			renderErr = err
			return false
		}
		out = append(out, html)
		return true
	})
	if renderErr != nil {
		return nil, fmt.Errorf("render match: %w", renderErr)
	}
	return out, nil
}
