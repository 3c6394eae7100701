// Package main provides storewatch-extract, an offline runner for the product extractor.
//
// Usage:
//
//	storewatch-extract page.txt
//	curl -s https://example.com | storewatch-extract --format markup
//	storewatch-extract --against previous.json https://www.amazon.it/stores/page/...
//
// See --help for all available options.
package main

// main is the entry point for storewatch-extract.
func main() {
	Execute()
}
