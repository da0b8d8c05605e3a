package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/boqmatch/backend/internal/domain"
	"github.com/boqmatch/backend/internal/infrastructure/sqlite"
)

func newReviewsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "List the newest pending reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return fmt.Errorf("--limit must be positive")
			}
			return ctx.withStore(func(store *sqlite.Store) error {
				reviews, err := store.ListPendingReviews(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if reviews == nil {
					reviews = []domain.PendingReview{}
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, reviews)
				}
				if len(reviews) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No pending reviews")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderReviews(reviews))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of reviews to show")

	return cmd
}

func renderReviews(reviews []domain.PendingReview) string {
	headers := []string{"Created", "Scraped Name", "Price", "Suggested", "Confidence", "Method", "Source"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignLeft, alignLeft}

	rows := make([][]string, 0, len(reviews))
	for _, r := range reviews {
		rows = append(rows, []string{
			r.CreatedAt.Local().Format(time.DateTime),
			r.ScrapedName,
			formatPrice(r.ScrapedPrice),
			orDash(r.SuggestedMaterialCode),
			formatConfidence(r.Confidence),
			string(r.MatchMethod),
			orDash(r.SourceURL),
		})
	}
	return renderTable(headers, rows, aligns)
}
