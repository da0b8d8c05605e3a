package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boqmatch/backend/internal/domain"
	"github.com/boqmatch/backend/internal/usecase"
)

const testCatalog = `materials:
  - id: sand-river
    name: River Sand
    category: aggregates
  - id: cement-ppc-325n
    name: PPC 32.5N Portland Cement
    category: cement
  - id: brick-clay-stock
    name: Clay Stock Brick
    category: masonry
`

type cliTestEnv struct {
	baseDir     string
	configPath  string
	catalogPath string
}

func setupCLITestEnv(t *testing.T, catalogSource string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		baseDir:     base,
		configPath:  filepath.Join(base, "config.yaml"),
		catalogPath: filepath.Join(base, "catalog.yaml"),
	}
	require.NoError(t, os.WriteFile(env.catalogPath, []byte(testCatalog), 0o644))

	cfg := "database:\n  path: " + filepath.Join(base, "boqmatch.db") + "\n" +
		"catalog:\n  source: " + catalogSource + "\n  path: " + env.catalogPath + "\n" +
		"cache:\n  type: none\n"
	require.NoError(t, os.WriteFile(env.configPath, []byte(cfg), 0o644))

	return env
}

func (e *cliTestEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestMatchCommand(t *testing.T) {
	env := setupCLITestEnv(t, "file")

	out, err := env.run(t, "", "--json", "match", "Rivers Sand", "Mystery Item")
	require.NoError(t, err)

	var rows []matchRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, domain.MethodFuzzyAutoAlias, rows[0].Result.Method)
	assert.Equal(t, "sand-river", rows[0].Result.MaterialCode)
	assert.Equal(t, domain.MethodNoMatch, rows[1].Result.Method)
	assert.False(t, rows[1].Queued)

	// The auto-alias written by the first run answers the second.
	out, err = env.run(t, "", "--json", "match", "rivers sand")
	require.NoError(t, err)
	rows = nil
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, domain.MethodAliasExact, rows[0].Result.Method)

	out, err = env.run(t, "", "match", "PPC Cement 32.5N 50kg Bag")
	require.NoError(t, err)
	assert.Contains(t, out, "fuzzy_low")
	assert.Contains(t, out, "cement-ppc-325n")
	assert.Contains(t, out, "325N")
}

func TestMatchCommandQueue(t *testing.T) {
	env := setupCLITestEnv(t, "file")

	_, err := env.run(t, "", "match", "--queue", "--source", "https://shop.example.com", "Mystery Item", "River Sand")
	require.NoError(t, err)

	out, err := env.run(t, "", "--json", "reviews")
	require.NoError(t, err)

	var reviews []domain.PendingReview
	require.NoError(t, json.Unmarshal([]byte(out), &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, "Mystery Item", reviews[0].ScrapedName)
	assert.Equal(t, "https://shop.example.com", reviews[0].SourceURL)
}

func TestAliasesCommand(t *testing.T) {
	env := setupCLITestEnv(t, "file")

	out, err := env.run(t, "", "aliases")
	require.NoError(t, err)
	assert.Contains(t, out, "No aliases")

	_, err = env.run(t, "", "match", "Rivers Sand", "Clay stock bricks")
	require.NoError(t, err)

	out, err = env.run(t, "", "--json", "aliases")
	require.NoError(t, err)
	var aliases []domain.MaterialAlias
	require.NoError(t, json.Unmarshal([]byte(out), &aliases))
	require.Len(t, aliases, 2)
	assert.Equal(t, "clay stock bricks", aliases[0].AliasName)
	assert.Equal(t, "rivers sand", aliases[1].AliasName)

	out, err = env.run(t, "", "aliases", "--material", "sand-river")
	require.NoError(t, err)
	assert.Contains(t, out, "rivers sand")
	assert.NotContains(t, out, "clay stock bricks")
}

func TestBatchCommand(t *testing.T) {
	env := setupCLITestEnv(t, "file")

	input := strings.Join([]string{
		"# scraped from shop",
		"Rivers Sand,420",
		"PPC Cement 32.5N 50kg Bag, 89.99",
		"",
		"Mystery Item",
	}, "\n")

	out, err := env.run(t, input, "--json", "batch", "--scraper-config", "cfg-1", "-")
	require.NoError(t, err)

	var summary usecase.IngestSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.AutoAliased)
	assert.Equal(t, 2, summary.Queued)
	assert.Equal(t, 0, summary.Failed)
	require.NotNil(t, summary.Results[1].Price)
	assert.Equal(t, 89.99, *summary.Results[1].Price)

	out, err = env.run(t, "", "reviews", "--limit", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Mystery Item")
	assert.Contains(t, out, "PPC Cement 32.5N 50kg Bag")
	assert.Contains(t, out, "89.99")

	t.Run("dry run queues nothing", func(t *testing.T) {
		env := setupCLITestEnv(t, "file")

		out, err := env.run(t, "Mystery Item\n", "batch", "--dry-run", "-")
		require.NoError(t, err)
		assert.Contains(t, out, "queued=0")

		out, err = env.run(t, "", "reviews")
		require.NoError(t, err)
		assert.Contains(t, out, "No pending reviews")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := env.run(t, "# nothing\n\n", "batch", "-")
		assert.Error(t, err)
	})
}

func TestCatalogCommands(t *testing.T) {
	env := setupCLITestEnv(t, "database")

	out, err := env.run(t, "", "--json", "catalog", "list")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)

	out, err = env.run(t, "", "catalog", "import", env.catalogPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 materials")

	out, err = env.run(t, "", "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "brick-clay-stock")
	assert.Contains(t, out, "PPC 32.5N Portland Cement")

	out, err = env.run(t, "", "--json", "match", "Clay stock bricks")
	require.NoError(t, err)
	var rows []matchRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Equal(t, "brick-clay-stock", rows[0].Result.MaterialCode)

	_, err = env.run(t, "", "catalog", "import", filepath.Join(env.baseDir, "missing.yaml"))
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestRootCommandRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache:\n  type: redis\n"), 0o644))

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path, "reviews"})
	assert.Error(t, cmd.Execute())
}

func TestParseBatchItems(t *testing.T) {
	items, err := parseBatchItems(strings.NewReader(strings.Join([]string{
		"River Sand",
		"Brickforce, 150mm,12.50",
		"Cement, Portland",
		"  # comment",
	}, "\n")))
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "River Sand", items[0].Name)
	assert.Nil(t, items[0].Price)

	assert.Equal(t, "Brickforce, 150mm", items[1].Name)
	require.NotNil(t, items[1].Price)
	assert.Equal(t, 12.5, *items[1].Price)

	assert.Equal(t, "Cement, Portland", items[2].Name)
	assert.Nil(t, items[2].Price)
}

func TestParseBatchItemsNonFinitePrice(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"NaN", "Cement, NaN", "Cement, NaN"},
		{"Inf", "Brick, Inf", "Brick, Inf"},
		{"negative infinity", "Sand, -infinity", "Sand, -infinity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := parseBatchItems(strings.NewReader(tt.line))
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, tt.want, items[0].Name)
			assert.Nil(t, items[0].Price)
		})
	}

	t.Run("json output stays encodable", func(t *testing.T) {
		env := setupCLITestEnv(t, "file")

		out, err := env.run(t, "River Sand, NaN\n", "--json", "batch", "--dry-run", "-")
		require.NoError(t, err)

		var summary usecase.IngestSummary
		require.NoError(t, json.Unmarshal([]byte(out), &summary))
		require.Len(t, summary.Results, 1)
		assert.Equal(t, "River Sand, NaN", summary.Results[0].OriginalName)
		assert.Nil(t, summary.Results[0].Price)
	})
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"ID", "Name"}, [][]string{{"a"}, {"b", "Bee"}}, []columnAlignment{alignLeft, alignRight})
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Bee")
	assert.Empty(t, renderTable(nil, nil, nil))
}
