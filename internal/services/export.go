package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"alfredoptarigan/resume-screener/internal/models"
)

// CSVFilename is the name of the downloadable export.
const CSVFilename = "screening_results.csv"

// ResultColumns are the columns of the results table and of the CSV export.
var ResultColumns = []string{"Rank", "Candidate", "Score", "Skills Found"}

// ExportRow is one parsed line of an exported CSV.
type ExportRow struct {
	Rank        int
	Candidate   string
	Score       string
	SkillsFound int
}

// TableRows renders results as table cells in ResultColumns order.
func TableRows(results []models.ScoreResult) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			strconv.Itoa(r.Rank),
			r.Candidate,
			models.FormatScore(r.Score),
			strconv.Itoa(r.SkillsFound),
		})
	}
	return rows
}

// WriteCSV writes a header row followed by one row per result, without an index column.
func WriteCSV(w io.Writer, results []models.ScoreResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ResultColumns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := cw.WriteAll(TableRows(results)); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	return nil
}

// ReadCSV parses a file produced by WriteCSV.
func ReadCSV(r io.Reader) ([]ExportRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(ResultColumns)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty csv")
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if strings.Join(header, ",") != strings.Join(ResultColumns, ",") {
		return nil, fmt.Errorf("unexpected csv header: %v", header)
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv rows: %w", err)
	}

	rows := make([]ExportRow, 0, len(records))
	for i, rec := range records {
		rank, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid rank %q: %w", i+1, rec[0], err)
		}
		skills, err := strconv.Atoi(rec[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid skills count %q: %w", i+1, rec[3], err)
		}
		rows = append(rows, ExportRow{
			Rank:        rank,
			Candidate:   rec[1],
			Score:       rec[2],
			SkillsFound: skills,
		})
	}

	return rows, nil
}
