package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/boqmatch/backend/internal/domain"
	"github.com/boqmatch/backend/internal/infrastructure/sqlite"
)

func newAliasesCommand(ctx *commandContext) *cobra.Command {
	var materialCode string

	cmd := &cobra.Command{
		Use:   "aliases",
		Short: "List stored aliases, optionally for one material",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *sqlite.Store) error {
				aliases, err := store.ListAliases(cmd.Context(), materialCode)
				if err != nil {
					return err
				}
				if aliases == nil {
					aliases = []domain.MaterialAlias{}
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, aliases)
				}
				if len(aliases) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No aliases")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderAliases(aliases))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&materialCode, "material", "m", "", "Only show aliases for this material code")

	return cmd
}

func renderAliases(aliases []domain.MaterialAlias) string {
	headers := []string{"Alias", "Material", "Confidence", "Created"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}

	rows := make([][]string, 0, len(aliases))
	for _, a := range aliases {
		created := "-"
		if !a.CreatedAt.IsZero() {
			created = a.CreatedAt.Local().Format(time.DateTime)
		}
		rows = append(rows, []string{
			a.AliasName,
			a.MaterialCode,
			formatConfidence(a.Confidence()),
			created,
		})
	}
	return renderTable(headers, rows, aligns)
}
