package parser

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"github.com/Houeta/storewatch/internal/models"
)

// Format tells the extractor how to read a page payload.
type Format string

const (
	FormatAuto   Format = "auto"
	FormatText   Format = "text"
	FormatMarkup Format = "markup"
)

// ParseFormat maps a config value onto a Format, falling back to FormatAuto.
func ParseFormat(s string) Format {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText:
		return FormatText
	case FormatMarkup:
		return FormatMarkup
	default:
		return FormatAuto
	}
}

var (
	// anchorRx matches a product image line. The "Image N: " prefix is added by
	// the reader proxy and is missing from converted markup, where the image may
	// also sit inside a link.
	anchorRx = regexp.MustCompile(`^\[?!\[(?:Image \d+: )?Image of[^\]]*\]\((https://m\.media-amazon\.com/images/I/[^)\s]+)\)`)
	linkRx   = regexp.MustCompile(
		`\[(?:Vedi opzioni|Scopri di più|Acquista ora|Maggiori dettagli)\]\((https://www\.amazon\.it/[^)\s]+)\)`,
	)
	priceRx  = regexp.MustCompile(`([\d.,]+\s*€)`)
	ratingRx = regexp.MustCompile(`(\d+,\d+)\s*su\s*5\s*stelle`)
)

// spaceFolder turns the no-break spaces used around prices and ratings into
// plain ones. RE2 \s only covers ASCII whitespace.
var spaceFolder = strings.NewReplacer("\u00a0", " ", "\u202f", " ", "\u2009", " ")

const (
	quickViewMarker = "Visualizzazione rapida"
	ratingMarker    = "su 5 stelle"
	endMarker       = "*   []"
	currencyMarker  = "€"
)

type tokenKind int

const (
	tokenText tokenKind = iota
	tokenAnchor
	tokenQuickView
	tokenLink
	tokenEnd
)

type token struct {
	kind tokenKind
	text string // trimmed source line
	url  string // image or link target
}

// tokenize classifies one trimmed line.
func tokenize(line string) token {
	if m := anchorRx.FindStringSubmatch(line); m != nil {
		return token{kind: tokenAnchor, text: line, url: strings.TrimSpace(m[1])}
	}
	if strings.Contains(line, quickViewMarker) {
		return token{kind: tokenQuickView, text: line}
	}
	if m := linkRx.FindStringSubmatch(line); m != nil {
		return token{kind: tokenLink, text: line, url: strings.TrimSpace(m[1])}
	}
	if strings.HasPrefix(line, endMarker) {
		return token{kind: tokenEnd, text: line}
	}
	return token{kind: tokenText, text: line}
}

type scanState int

const (
	seekingAnchor scanState = iota
	collecting
)

// scanner is the single-pass record builder. It holds exactly one scratch
// record, reset on every start, finalize and discard.
type scanner struct {
	state         scanState
	seenQuickView bool
	seenTitle     bool
	current       models.Product
	products      []models.Product
}

func (s *scanner) reset() {
	s.state = seekingAnchor
	s.seenQuickView = false
	s.seenTitle = false
	s.current = models.Product{}
}

func (s *scanner) start(image string) {
	s.reset()
	s.state = collecting
	s.current.Image = image
}

// finalize emits the scratch record when it has an image and a title, then
// resets. Incomplete records are dropped.
func (s *scanner) finalize() {
	if s.state == collecting && s.current.Image != "" && s.current.Title != "" {
		s.products = append(s.products, s.current)
	}
	s.reset()
}

func (s *scanner) feed(tok token) {
	if tok.kind == tokenAnchor {
		s.start(tok.url)
		return
	}
	if s.state == seekingAnchor {
		return
	}

	switch tok.kind {
	case tokenQuickView:
		s.seenQuickView = true
	case tokenLink:
		if s.seenTitle {
			s.current.Link = tok.url
		}
		s.finalize()
	case tokenEnd:
		s.finalize()
	case tokenText:
		s.collect(tok.text)
	}
}

func (s *scanner) collect(line string) {
	if line == "" {
		return
	}
	if !s.seenTitle {
		if s.seenQuickView {
			s.current.Title = line
			s.seenTitle = true
		}
		return
	}

	switch {
	case strings.Contains(line, currencyMarker):
		if m := priceRx.FindStringSubmatch(line); m != nil {
			s.current.Price = strings.TrimSpace(m[1])
		}
	case strings.Contains(line, ratingMarker):
		if m := ratingRx.FindStringSubmatch(line); m != nil {
			s.current.Rating = m[1] + " su 5"
		} else {
			s.current.Rating = line
		}
	}
}

// ExtractText scans a reader-style text dump and returns the products in page order.
// It never fails: unrecognised or incomplete blocks are skipped.
func ExtractText(raw []byte) []models.Product {
	var s scanner

	sc := bufio.NewScanner(bytes.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		s.feed(tokenize(strings.TrimSpace(spaceFolder.Replace(sc.Text()))))
	}
	// A scanner error only truncates the input; whatever was read still counts.
	s.finalize()

	return s.products
}

// Extract dispatches on format. Markup is converted to the text form first; if
// conversion fails the payload is scanned as text.
func Extract(raw []byte, format Format, selector string) []models.Product {
	if format == FormatAuto {
		format = detectFormat(raw)
	}
	if format == FormatMarkup {
		text, err := markupToText(raw, selector)
		if err == nil {
			return ExtractText(text)
		}
	}
	return ExtractText(raw)
}

func detectFormat(raw []byte) Format {
	head := bytes.ToLower(bytes.TrimSpace(raw[:min(len(raw), 512)]))
	for _, prefix := range [][]byte{[]byte("<!doctype html"), []byte("<html"), []byte("<body")} {
		if bytes.HasPrefix(head, prefix) {
			return FormatMarkup
		}
	}
	return FormatText
}
