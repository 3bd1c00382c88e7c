package printer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dyluth/roulette/internal/round"
)

// cardsPerRow caps how many group cards are joined side by side.
const cardsPerRow = 3

var (
	cardHead = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF"))
	cardTag = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888"))
	cardBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		MarginRight(1)
	banner = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1)
)

// RenderCard draws one group as a bordered card listing members and tags.
func RenderCard(g round.Group) string {
	lines := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		if m.Tag == "" {
			lines = append(lines, m.Name)
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s", m.Name, cardTag.Render("· "+m.Tag)))
	}
	return cardBox.Render(cardHead.Render(g.Label) + "\n" + strings.Join(lines, "\n"))
}

// RenderGroups draws a banner for the round column followed by its group
// cards, cardsPerRow to a line.
func RenderGroups(column string, groups []round.Group) string {
	sections := []string{banner.Render("☕ " + column)}
	if len(groups) == 0 {
		sections = append(sections, cardTag.Render("no participants"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	for start := 0; start < len(groups); start += cardsPerRow {
		end := min(start+cardsPerRow, len(groups))
		cards := make([]string, 0, end-start)
		for _, g := range groups[start:end] {
			cards = append(cards, RenderCard(g))
		}
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Groups prints RenderGroups to Out.
func Groups(column string, groups []round.Group) {
	fmt.Fprintln(Out, RenderGroups(column, groups))
}
