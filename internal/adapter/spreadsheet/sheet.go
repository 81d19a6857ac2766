// Package spreadsheet reads seed sheets and writes result sheets in CSV and XLSX form.
package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/user/careerscan/internal/entity"
)

// Seed sheet columns. Company and URL pair up per row; Keywords and Exclude are
// independent lists read top to bottom, blanks skipped.
const (
	ColCompany  = "Company"
	ColURL      = "URL"
	ColKeywords = "Keywords"
	ColExclude  = "Exclude"
)

// ResultHeader is the header row of every exported result sheet.
var ResultHeader = []string{"Company", "Title", "Apply Link"}

var requiredColumns = []string{ColCompany, ColURL, ColKeywords, ColExclude}

// Sheet is a parsed seed sheet.
type Sheet struct {
	Seeds   []entity.SeedEntry
	Include []string
	Exclude []string
}

// Policy builds the keyword policy described by the sheet.
func (s *Sheet) Policy() entity.KeywordPolicy {
	return entity.NewKeywordPolicy(s.Include, s.Exclude)
}

// parseRows turns raw rows (header first) into a Sheet. A missing column is a
// *entity.ConfigError; seed values themselves are validated by the engine.
func parseRows(rows [][]string) (*Sheet, error) {
	if len(rows) == 0 {
		return nil, &entity.ConfigError{Problems: []string{"seed sheet is empty"}}
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		index[strings.ToLower(name)] = i
	}

	var problems []string
	for _, col := range requiredColumns {
		if _, ok := index[strings.ToLower(col)]; !ok {
			problems = append(problems, fmt.Sprintf("seed sheet is missing the %q column", col))
		}
	}
	if len(problems) > 0 {
		return nil, &entity.ConfigError{Problems: problems}
	}

	cell := func(row []string, col string) string {
		i := index[strings.ToLower(col)]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	sheet := &Sheet{}
	for _, row := range rows[1:] {
		company, url := cell(row, ColCompany), cell(row, ColURL)
		if company != "" || url != "" {
			sheet.Seeds = append(sheet.Seeds, entity.SeedEntry{Organization: company, URL: url})
		}
		if kw := cell(row, ColKeywords); kw != "" {
			sheet.Include = append(sheet.Include, kw)
		}
		if ex := cell(row, ColExclude); ex != "" {
			sheet.Exclude = append(sheet.Exclude, ex)
		}
	}
	return sheet, nil
}

func resultRows(records []entity.JobRecord) [][]string {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, ResultHeader)
	for _, r := range records {
		rows = append(rows, []string{r.Organization, r.Title, r.ApplyLink})
	}
	return rows
}
