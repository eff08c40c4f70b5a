package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mioding/catalog-search/internal/engine"
	"github.com/mioding/catalog-search/model"
)

const commandTimeout = time.Minute

// newSearchCmd creates the search subcommand.
func newSearchCmd() *cobra.Command {
	var (
		filters  []string
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the catalog and print the result as JSON",
		Example: `  catalog-search search "pvc 50"
  catalog-search search 弯头 --filter 品牌=金德 --page-size 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseFilters(filters)
			if err != nil {
				return err
			}
			req := model.SearchRequest{Page: page, PageSize: pageSize, Filters: parsed}
			if len(args) == 1 {
				req.Query = args[0]
			}

			return withEngine(func(ctx context.Context, eng *engine.Engine) error {
				result, err := eng.Search.Search(ctx, req)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "filter as label=value; repeat for more values")
	cmd.Flags().IntVar(&page, "page", 1, "1-based page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "items per page")
	return cmd
}

// newAttributesCmd creates the attributes subcommand.
func newAttributesCmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:     "attributes <attribute>",
		Short:   "List the distinct values of an attribute",
		Example: `  catalog-search attributes brand --query lian`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(ctx context.Context, eng *engine.Engine) error {
				values, err := eng.Search.AttributeValues(ctx, args[0], query)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), values)
			})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "fuzzy filter applied to the values")
	return cmd
}

// newDialogCmd creates the dialog subcommand.
func newDialogCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dialog <text>",
		Short:   "Answer a short product request such as \"联塑 dn110 0.6MPa\"",
		Args:    cobra.MinimumNArgs(1),
		Example: `  catalog-search dialog 联塑 dn110`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(ctx context.Context, eng *engine.Engine) error {
				reply, err := eng.Dialog.Respond(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), reply)
			})
		},
	}
}

// withEngine runs fn against a freshly built engine and closes it afterwards.
func withEngine(fn func(ctx context.Context, eng *engine.Engine) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	eng, err := engine.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("start engine: %w", err)
	}
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Warn().Err(err).Msg("Engine close failed")
		}
	}()
	return fn(ctx, eng)
}

// parseFilters turns repeated label=value flags into request filters.
func parseFilters(raw []string) (map[string][]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	filters := make(map[string][]string, len(raw))
	for _, f := range raw {
		label, value, ok := strings.Cut(f, "=")
		label, value = strings.TrimSpace(label), strings.TrimSpace(value)
		if !ok || label == "" || value == "" {
			return nil, fmt.Errorf("invalid filter %q, expected label=value", f)
		}
		filters[label] = append(filters[label], value)
	}
	return filters, nil
}

// printJSON writes v to w, indented, without HTML escaping.
func printJSON(w io.Writer, v interface{}) error {
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
