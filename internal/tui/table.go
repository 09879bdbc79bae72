package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/eugenenazirov/pallet-planner/internal/presentation"
)

const noResultsMessage = "No orientation fits. Check that every measurement is positive and that at least one box side fits under the maximum stack height."

// RankingTable renders the ranked summaries as a bordered table with the
// selected row highlighted.
func RankingTable(summaries []presentation.Summary, selected int) string {
	if len(summaries) == 0 {
		return styleWarning.Render(noResultsMessage)
	}

	rows := make([][]string, 0, len(summaries))
	for i, s := range summaries {
		cursor := "  "
		if i == selected {
			cursor = "> "
		}
		rows = append(rows, []string{
			cursor + strconv.Itoa(s.Rank+1),
			s.Label,
			s.Dimensions,
			s.Layering,
			strconv.Itoa(s.TotalBoxes),
			fmt.Sprintf("%.1f%%", s.Efficiency),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Orientation", "Dimensions", "Layering", "Boxes", "Efficiency").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if row < 0 || row >= len(summaries) {
				return lipgloss.NewStyle()
			}
			if col == 5 {
				return tierStyle(summaries[row].Tier).Bold(row == selected)
			}
			if row == selected {
				return styleSelected
			}
			return lipgloss.NewStyle()
		})

	return t.Render()
}

// Report is the non-interactive output: title, ranking table, and the top
// view of the selected result. topView is expected to carry its own caption.
func Report(view presentation.View, topView string) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Pallet Planner"))
	b.WriteString("\n")
	b.WriteString(styleDim.Render(fmt.Sprintf("box %gx%gx%g on pallet %gx%g, max stack height %g",
		view.Inputs.BoxLength, view.Inputs.BoxWidth, view.Inputs.BoxHeight,
		view.Inputs.PalletLength, view.Inputs.PalletWidth, view.Inputs.MaxStackHeight)))
	b.WriteString("\n\n")
	b.WriteString(RankingTable(view.Results, view.Selected))
	b.WriteString("\n")

	if view.Layout != nil && topView != "" {
		b.WriteString("\n")
		b.WriteString(topView)
	}
	return b.String()
}
