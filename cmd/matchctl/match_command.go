package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boqmatch/backend/internal/app"
	"github.com/boqmatch/backend/internal/domain"
)

type matchRow struct {
	Name   string              `json:"name"`
	Result *domain.MatchResult `json:"result"`
	Queued bool                `json:"queued"`
}

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var queue bool
	var sourceURL string

	cmd := &cobra.Command{
		Use:   "match NAME...",
		Short: "Match one or more scraped product names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(cmd.Context(), func(services *app.Services) error {
				rows := make([]matchRow, 0, len(args))
				for _, name := range args {
					result, err := services.Matcher.Match(cmd.Context(), name)
					if err != nil {
						return fmt.Errorf("match %q: %w", name, err)
					}

					row := matchRow{Name: name, Result: result}
					if queue && result.NeedsReview {
						input := domain.PendingReviewInput{ScrapedName: name, SourceURL: sourceURL}
						if err := services.Matcher.AddToPendingReview(cmd.Context(), input, result); err != nil {
							return fmt.Errorf("queue %q: %w", name, err)
						}
						row.Queued = true
					}
					rows = append(rows, row)
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, rows)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderMatchRows(rows))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&queue, "queue", false, "Queue results that need review")
	cmd.Flags().StringVar(&sourceURL, "source", "", "Source URL recorded with queued reviews")

	return cmd
}

func renderMatchRows(rows []matchRow) string {
	headers := []string{"Name", "Method", "Material", "Confidence", "Review", "Brand", "Grade"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft}

	body := make([][]string, 0, len(rows))
	for _, row := range rows {
		review := yesNo(row.Result.NeedsReview)
		if row.Queued {
			review = "queued"
		}
		body = append(body, []string{
			row.Name,
			string(row.Result.Method),
			orDash(row.Result.MaterialCode),
			formatConfidence(row.Result.Confidence),
			review,
			orDash(row.Result.ExtractedBrand),
			orDash(row.Result.ExtractedGrade),
		})
	}
	return renderTable(headers, body, aligns)
}
