package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/user/careerscan/internal/adapter/spreadsheet"
	"github.com/user/careerscan/internal/entity"
	"github.com/user/careerscan/internal/usecase"
)

func newSearchCommand() *cobra.Command {
	var seedsPath, outPath string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run one search in-process and write the results as CSV or XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			sheet, err := readSeedSheet(seedsPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			renderer, err := newRenderer(cfg)
			if err != nil {
				return err
			}
			defer renderer.Close()

			fetcher := usecase.NewBatchFetcher(renderer, usecase.WithConcurrency(cfg.BatchSize))
			engine := usecase.NewFrontierEngine(fetcher,
				usecase.WithExclusionPatterns(cfg.ExclusionPatterns),
				usecase.WithRoundObserver(func(_ context.Context, s usecase.RoundSnapshot) {
					for _, f := range s.Failures {
						slog.Debug("Page failed", "round", s.Round, "url", f.URL, "error", f.Err)
					}
				}),
			)

			records, err := engine.Run(ctx, sheet.Seeds, sheet.Policy(), cfg.BatchSize)
			if err != nil {
				return err
			}
			slog.Info("Search finished", "jobs", len(records))

			return writeResults(cmd.OutOrStdout(), outPath, records)
		},
	}

	cmd.Flags().StringVar(&seedsPath, "seeds", "", "seed sheet (.csv or .xlsx) with Company, URL, Keywords and Exclude columns")
	cmd.Flags().StringVar(&outPath, "out", "", "result file (.csv or .xlsx); stdout CSV when empty")
	_ = cmd.MarkFlagRequired("seeds")
	return cmd
}

func readSeedSheet(path string) (*spreadsheet.Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed sheet: %w", err)
	}
	defer f.Close()

	if isXLSX(path) {
		return spreadsheet.ReadXLSX(f)
	}
	return spreadsheet.ReadCSV(f)
}

func writeResults(stdout io.Writer, path string, records []entity.JobRecord) error {
	if path == "" {
		return spreadsheet.WriteCSV(stdout, records)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create result file: %w", err)
	}
	write := spreadsheet.WriteCSV
	if isXLSX(path) {
		write = spreadsheet.WriteXLSX
	}
	if err := write(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func isXLSX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}
