
package parser

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// Document is a fetched listing page decoded to UTF-8 and parsed.
type Document struct {
	Doc       *goquery.Document
	Title     string
	Canonical string
	Lang      string
}

type Parser struct{}

func New() *Parser { return &Parser{} }

// Parse decodes r according to contentType (or the page's own meta charset)
// and builds a queryable document with scripts and styles removed.
func (p *Parser) Parse(r io.Reader, contentType string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return p.ParseBytes(data, contentType)
}

func (p *Parser) ParseBytes(data []byte, contentType string) (*Document, error) {
	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// fallback: if already utf-8, continue
		if !utf8.Valid(data) {
			return nil, err
		}
		utf8data = data
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if err != nil {
		return nil, err
	}

	doc.Find("script,noscript,style").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	lang := strings.TrimSpace(doc.Find("html").AttrOr("lang", ""))
	if lang == "" {
		lang = strings.TrimSpace(doc.Find(`meta[property="og:locale"]`).AttrOr("content", ""))
	}

	return &Document{
		Doc:       doc,
		Title:     strings.TrimSpace(doc.Find("title").First().Text()),
		Canonical: strings.TrimSpace(doc.Find(`link[rel="canonical"]`).AttrOr("href", "")),
		Lang:      lang,
	}, nil
}
