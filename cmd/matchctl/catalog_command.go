package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/boqmatch/backend/internal/app"
	"github.com/boqmatch/backend/internal/domain"
	"github.com/boqmatch/backend/internal/infrastructure/sqlite"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the canonical material catalog",
	}

	cmd.AddCommand(newCatalogImportCommand(ctx))
	cmd.AddCommand(newCatalogListCommand(ctx))

	return cmd
}

func newCatalogImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Upsert materials from a YAML catalog file into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *sqlite.Store) error {
				count, err := app.ImportCatalog(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{"imported": count, "database": store.Path()})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d materials into %s\n", count, store.Path())
				return nil
			})
		},
	}
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List materials from the configured catalog source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *sqlite.Store) error {
				materials, err := app.LoadCatalog(cmd.Context(), cfg, store)
				if err != nil {
					return err
				}
				if materials == nil {
					materials = []domain.Material{}
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, materials)
				}

				rows := make([][]string, 0, len(materials))
				for _, m := range materials {
					rows = append(rows, []string{m.ID, m.Name, orDash(m.Category)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Name", "Category"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}
