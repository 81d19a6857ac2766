package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/careerscan/internal/adapter/spreadsheet"
	"github.com/user/careerscan/internal/entity"
)

func TestLoadConfig_FlagsOverrideEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BATCH_SIZE", "4")

	cmd := newRootCommand()
	search, _, err := cmd.Find([]string{"search"})
	require.NoError(t, err)
	require.NoError(t, search.ParseFlags([]string{"--batch-size", "9", "--headless=false"}))

	cfg, err := loadConfig(search)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.BatchSize)
	assert.False(t, cfg.Headless)
}

func TestLoadConfig_UnsetFlagsKeepEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BATCH_SIZE", "4")

	cmd := newRootCommand()
	search, _, err := cmd.Find([]string{"search"})
	require.NoError(t, err)
	require.NoError(t, search.ParseFlags(nil))

	cfg, err := loadConfig(search)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.BatchSize)
	assert.True(t, cfg.Headless)
}

func TestSeedSheetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	seeds := filepath.Join(dir, "seeds.csv")
	require.NoError(t, os.WriteFile(seeds, []byte("Company,URL,Keywords,Exclude\nAcme,https://acme.example/jobs,,\n"), 0o644))

	sheet, err := readSeedSheet(seeds)
	require.NoError(t, err)
	assert.Equal(t, []entity.SeedEntry{{Organization: "Acme", URL: "https://acme.example/jobs"}}, sheet.Seeds)

	_, err = readSeedSheet(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestWriteResults(t *testing.T) {
	records := []entity.JobRecord{{Organization: "Acme", Title: "Engineer", ApplyLink: "https://acme.example/1"}}

	var stdout bytes.Buffer
	require.NoError(t, writeResults(&stdout, "", records))
	assert.Equal(t, "Company,Title,Apply Link\nAcme,Engineer,https://acme.example/1\n", stdout.String())

	out := filepath.Join(t.TempDir(), "jobs.XLSX")
	require.NoError(t, writeResults(&stdout, out, records))
	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	_, err = spreadsheet.ReadXLSX(f)
	// The result sheet has no seed columns, so it parses as a workbook but not as seeds.
	var cfgErr *entity.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
