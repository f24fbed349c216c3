// Package dom exposes the small slice of HTML querying the scraper needs: find elements by tag and
// attribute predicate and hand them back as plain values.
package dom

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Element is a matched HTML element.
type Element struct {
	Tag   string
	Attrs map[string]string
	Text  string
}

// Attr returns the attribute value or "" when absent.
func (e Element) Attr(name string) string {
	return e.Attrs[name]
}

// Match filters elements by attribute. The "class" key matches any single class token,
// every other key must equal the attribute value. An empty value only requires presence.
type Match map[string]string

// Document is a parsed HTML page.
type Document struct {
	doc *goquery.Document
}

// Parse reads an HTML page.
func Parse(html []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// FindAll returns every tag element satisfying match, in document order.
func (d *Document) FindAll(tag string, match Match) []Element {
	var out []Element
	d.doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
		if !matches(s, match) {
			return
		}
		out = append(out, toElement(tag, s))
	})
	return out
}

func matches(s *goquery.Selection, match Match) bool {
	for name, want := range match {
		got, ok := s.Attr(name)
		if !ok {
			return false
		}
		if want == "" {
			continue
		}
		if name == "class" {
			if !hasToken(got, want) {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}

func hasToken(list, token string) bool {
	for _, f := range strings.Fields(list) {
		if f == token {
			return true
		}
	}
	return false
}

func toElement(tag string, s *goquery.Selection) Element {
	attrs := make(map[string]string)
	if n := s.Get(0); n != nil {
		for _, a := range n.Attr {
			attrs[a.Key] = a.Val
		}
	}
	return Element{
		Tag:   tag,
		Attrs: attrs,
		Text:  strings.TrimSpace(s.Text()),
	}
}
