package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
)

const defaultSelector = "body"

// bulletRx strips list and heading prefixes the converter puts in front of lines.
var bulletRx = regexp.MustCompile(`^(?:[-*+]|\d+\.|#{1,6})\s+`)

// markupToText narrows an HTML page to the nodes matched by selector and
// renders them in the same line-oriented form the reader proxy produces.
func markupToText(raw []byte, selector string) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("data cannot be parsed as HTML: %w", err)
	}
	doc.Find("script, style, noscript, template").Remove()

	if selector == "" {
		selector = defaultSelector
	}

	var fragment strings.Builder
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		html, htmlErr := goquery.OuterHtml(s)
		if htmlErr == nil {
			fragment.WriteString(html)
			fragment.WriteByte('\n')
		}
	})
	if fragment.Len() == 0 {
		html, htmlErr := doc.Html()
		if htmlErr != nil {
			return nil, fmt.Errorf("failed to render document: %w", htmlErr)
		}
		fragment.WriteString(html)
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
	md, err := conv.ConvertString(fragment.String())
	if err != nil {
		return nil, fmt.Errorf("failed to convert markup: %w", err)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		lines[i] = bulletRx.ReplaceAllString(strings.TrimSpace(line), "")
	}

	return []byte(strings.Join(lines, "\n")), nil
}
