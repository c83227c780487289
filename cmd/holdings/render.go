package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/findosh/holdings/internal/models"
	"github.com/findosh/holdings/internal/services/analytics"
	"github.com/shopspring/decimal"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	numberStyle  = cellStyle.Align(lipgloss.Right)
	totalStyle   = numberStyle.Bold(true)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// renderLog prints one line per entry, colored by severity
func renderLog(log models.ProcessingLog) string {
	lines := make([]string, 0, len(log))
	for _, e := range log {
		style := infoStyle
		switch e.Severity {
		case models.SeveritySuccess:
			style = successStyle
		case models.SeverityWarning:
			style = warningStyle
		}
		lines = append(lines, style.Render(strings.ToUpper(string(e.Severity)))+" "+e.Message)
	}
	return strings.Join(lines, "\n")
}

// renderTable draws a table; numeric columns are right aligned
func renderTable(t models.Table, numeric map[int]bool) string {
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = []string(r)
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(t.Columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case numeric[col]:
				return numberStyle
			default:
				return cellStyle
			}
		}).
		String()
}

// renderPivot draws the cross-tab with currency cells, a Total column and a
// totals footer row
func renderPivot(m *models.PivotMatrix) string {
	headers := append([]string{models.ColAssetCategory, models.ColName, models.ColTicker}, m.Labels()...)
	headers = append(headers, "Total")

	rows := make([][]string, 0, len(m.Rows)+1)
	for _, r := range m.Rows {
		row := []string{r.Key.Category, r.Key.Name, r.Key.Ticker}
		for _, c := range r.Cells {
			row = append(row, models.FormatCell(c))
		}
		rows = append(rows, append(row, models.FormatMoney(r.Total())))
	}

	footer := []string{"Total", "", ""}
	for _, total := range m.ColumnTotals() {
		footer = append(footer, formatTotal(total))
	}
	footer = append(footer, models.FormatMoney(m.GrandTotal()))
	rows = append(rows, footer)
	last := len(rows) - 1

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == last && col >= 3:
				return totalStyle
			case col >= 3:
				return numberStyle
			default:
				return cellStyle
			}
		}).
		String()
}

func formatTotal(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return models.FormatMoney(d)
}

func writeCSV(w io.Writer, t models.Table) error {
	return analytics.WriteCSV(w, t)
}
