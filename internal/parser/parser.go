package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Houeta/storewatch/internal/models"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
)

const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	acceptLanguage = "it-IT,it;q=0.9"
	defaultTimeout = 30 * time.Second
)

// PageParser fetches the storefront page and turns it into product records.
type PageParser interface {
	// FetchPage returns the raw page body decoded to UTF-8.
	FetchPage(ctx context.Context) ([]byte, error)
	// Extract turns a page body into products. It never fails.
	Extract(ctx context.Context, body []byte) []models.Product
}

type Parser struct {
	log      *slog.Logger
	client   *resty.Client
	destURL  string
	format   Format
	selector string
}

// Option customises a Parser.
type Option func(*Parser)

// WithFormat sets how page bodies are read.
func WithFormat(f Format) Option {
	return func(p *Parser) { p.format = f }
}

// WithSelector narrows markup pages to the matched nodes.
func WithSelector(sel string) Option {
	return func(p *Parser) { p.selector = sel }
}

// WithTimeout bounds a single fetch.
func WithTimeout(d time.Duration) Option {
	return func(p *Parser) {
		if d > 0 {
			p.client.SetTimeout(d)
		}
	}
}

func NewParser(log *slog.Logger, destinationURL string, opts ...Option) *Parser {
	client := resty.New().
		SetTimeout(defaultTimeout).
		SetHeaders(map[string]string{
			"User-Agent":      userAgent,
			"Accept-Language": acceptLanguage,
			"Cache-Control":   "no-cache",
			"Pragma":          "no-cache",
		})

	p := &Parser{
		log:      log,
		client:   client,
		destURL:  destinationURL,
		format:   FormatAuto,
		selector: defaultSelector,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ParseProducts fetches the page and extracts its products.
func (p *Parser) ParseProducts(ctx context.Context) ([]models.Product, error) {
	body, err := p.FetchPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	return p.Extract(ctx, body), nil
}

// FetchPage implements PageParser.
func (p *Parser) FetchPage(ctx context.Context) ([]byte, error) {
	reqURL, err := url.Parse(p.destURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse destination URL %s: %w", p.destURL, err)
	}

	p.log.DebugContext(ctx, "Send request", "method", http.MethodGet, "URL", reqURL.String())

	res, err := p.client.R().SetContext(ctx).Get(reqURL.String())
	if err != nil {
		return nil, fmt.Errorf("failed to request %s: %w", p.destURL, err)
	}

	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("status code error: [%d] %s", res.StatusCode(), res.Status())
	}

	p.log.InfoContext(ctx, "Successfully received http response", "status code", res.StatusCode(), "size", len(res.Body()))

	return toUTF8(res.Body(), res.Header().Get("Content-Type"))
}

// Extract implements PageParser.
func (p *Parser) Extract(ctx context.Context, body []byte) []models.Product {
	products := Extract(body, p.format, p.selector)
	for _, product := range products {
		p.log.DebugContext(ctx, "Parsed product", "Title", product.Title, "Price", product.Price, "Rating", product.Rating)
	}
	if len(products) == 0 && len(body) > 0 {
		p.log.WarnContext(ctx, "page contained no recognizable product blocks", "size", len(body))
	}

	return products
}

// toUTF8 converts body to UTF-8 using the Content-Type header and content sniffing.
func toUTF8(body []byte, contentType string) ([]byte, error) {
	enc, name, _ := charset.DetermineEncoding(body, contentType)
	if strings.EqualFold(name, "utf-8") {
		return body, nil
	}

	decoded, err := io.ReadAll(enc.NewDecoder().Reader(bytes.NewReader(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to read converted UTF-8 body: %w", err)
	}

	return decoded, nil
}
