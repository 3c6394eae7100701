package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Houeta/storewatch/internal/models"
	"github.com/Houeta/storewatch/internal/parser"
	"github.com/Houeta/storewatch/internal/services/checker"
	"github.com/spf13/cobra"
)

// stdinArg selects standard input as the page source.
const stdinArg = "-"

var errNoInput = errors.New("no input: pass a file, a URL or - for stdin")

// NewRootCmd creates the extract command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storewatch-extract [file|url|-]",
		Short: "Extract product records from a storefront page",
		Long: `Extract reads one storefront page and prints the product records found in it as JSON.

The page can be a local file, standard input ("-") or an http(s) URL, which is
fetched the same way the watcher fetches it.

With --against, the output is the change set between the products stored in the
given JSON file (a previous run of this command) and the products just extracted.

Examples:
  # Extract from a saved reader dump
  storewatch-extract page.txt

  # Extract from raw HTML on stdin, narrowing to a custom selector
  curl -s https://example.com | storewatch-extract -f markup -s "div.grid" -

  # Compare against a previous run
  storewatch-extract --against old.json page.txt`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runExtractCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringP("format", "f", string(parser.FormatAuto),
		"Input format: auto, text or markup")
	cmd.Flags().StringP("selector", "s", "",
		"CSS selector narrowing markup input (default: body)")
	cmd.Flags().DurationP("timeout", "t", 30*time.Second,
		"Fetch timeout for URL input")
	cmd.Flags().StringP("against", "a", "",
		"JSON file with previously extracted products; print changes instead")
	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runExtractCmd(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	selector, _ := cmd.Flags().GetString("selector")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	against, _ := cmd.Flags().GetString("against")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if len(args) == 0 {
		return errNoInput
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	opts := []parser.Option{
		parser.WithFormat(parser.ParseFormat(format)),
		parser.WithTimeout(timeout),
	}
	if selector != "" {
		opts = append(opts, parser.WithSelector(selector))
	}

	products, err := loadProducts(cmd.Context(), log, args[0], cmd.InOrStdin(), opts)
	if err != nil {
		return err
	}

	if against == "" {
		return writeJSON(cmd.OutOrStdout(), products)
	}

	previous, err := readSnapshot(against)
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), checker.DetectChanges(previous, products))
}

// loadProducts fetches a URL or reads a file or stdin, then extracts from it.
func loadProducts(
	ctx context.Context,
	log *slog.Logger,
	source string,
	stdin io.Reader,
	opts []parser.Option,
) ([]models.Product, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if isURL(source) {
		products, err := parser.NewParser(log, source, opts...).ParseProducts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to extract from %s: %w", source, err)
		}
		return products, nil
	}

	var (
		body []byte
		err  error
	)
	if source == stdinArg {
		body, err = io.ReadAll(stdin)
	} else {
		body, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}

	return parser.NewParser(log, "", opts...).Extract(ctx, body), nil
}

func readSnapshot(path string) ([]models.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read previous products: %w", err)
	}

	var products []models.Product
	if err = json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to decode previous products from %s: %w", path, err)
	}

	return products, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	return nil
}
