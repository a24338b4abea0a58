package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	fallbackStyle = cellStyle.Faint(true)
)

// renderResults draws the ranked results table. Fallback rows are dimmed.
func renderResults(results []models.ScoreResult) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(services.ResultColumns...).
		Rows(services.TableRows(results)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(results) && results[row].Fallback:
				return fallbackStyle
			default:
				return cellStyle
			}
		})

	return t.Render()
}
