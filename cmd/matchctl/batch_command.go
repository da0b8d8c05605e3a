package main

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/boqmatch/backend/internal/app"
	"github.com/boqmatch/backend/internal/domain"
	"github.com/boqmatch/backend/internal/usecase"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var sourceURL string
	var scraperConfigID string

	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Match a file of scraped products and queue the ones that need review",
		Long: "Reads one product per line as NAME or NAME,PRICE. Blank lines and lines " +
			"starting with # are skipped. Use - to read standard input.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := readBatchFile(cmd, args[0])
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return fmt.Errorf("%s contains no items", args[0])
			}

			return ctx.withServices(cmd.Context(), func(services *app.Services) error {
				if dryRun {
					results, err := services.Matcher.MatchBatch(cmd.Context(), items)
					if err != nil {
						return err
					}
					summary := &usecase.IngestSummary{Total: len(results)}
					for _, r := range results {
						switch {
						case r.Error != "":
							summary.Failed++
						case r.Method == domain.MethodAliasExact:
							summary.AliasHits++
						case r.Method == domain.MethodFuzzyAutoAlias:
							summary.AutoAliased++
						}
						summary.Results = append(summary.Results, usecase.IngestItemResult{BatchMatchResult: r})
					}
					return printIngestSummary(cmd, ctx, summary)
				}

				summary, err := services.Ingestion.Ingest(cmd.Context(), &usecase.IngestRequest{
					SourceURL:       sourceURL,
					ScraperConfigID: scraperConfigID,
					Items:           items,
				})
				if err != nil {
					return err
				}
				return printIngestSummary(cmd, ctx, summary)
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Match only; do not queue reviews")
	cmd.Flags().StringVar(&sourceURL, "source", "", "Source URL recorded with queued reviews")
	cmd.Flags().StringVar(&scraperConfigID, "scraper-config", "", "Scraper config id recorded with queued reviews")

	return cmd
}

func readBatchFile(cmd *cobra.Command, path string) ([]domain.BatchItem, error) {
	if path == "-" {
		return parseBatchItems(cmd.InOrStdin())
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch file: %w", err)
	}
	defer file.Close()
	return parseBatchItems(file)
}

// parseBatchItems reads NAME or NAME,PRICE lines. A trailing field that is not
// a finite number stays part of the name, so names may contain commas.
func parseBatchItems(r io.Reader) ([]domain.BatchItem, error) {
	var items []domain.BatchItem
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		item := domain.BatchItem{Name: line}
		if idx := strings.LastIndex(line, ","); idx >= 0 {
			price, err := strconv.ParseFloat(strings.TrimSpace(line[idx+1:]), 64)
			if err == nil && !math.IsNaN(price) && !math.IsInf(price, 0) {
				item.Name = strings.TrimSpace(line[:idx])
				item.Price = &price
			}
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	return items, nil
}

func printIngestSummary(cmd *cobra.Command, ctx *commandContext, summary *usecase.IngestSummary) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, summary)
	}

	headers := []string{"Name", "Price", "Method", "Material", "Confidence", "Review", "Error"}
	aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}

	rows := make([][]string, 0, len(summary.Results))
	for _, r := range summary.Results {
		review := yesNo(r.NeedsReview)
		if r.Queued {
			review = "queued"
		}
		errText := r.Error
		if errText == "" {
			errText = r.QueueError
		}
		rows = append(rows, []string{
			r.OriginalName,
			formatPrice(r.Price),
			string(r.Method),
			orDash(r.MaterialCode),
			formatConfidence(r.Confidence),
			review,
			orDash(errText),
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
	fmt.Fprintf(out, "total=%d alias_hits=%d auto_aliased=%d queued=%d failed=%d\n",
		summary.Total, summary.AliasHits, summary.AutoAliased, summary.Queued, summary.Failed)
	return nil
}
