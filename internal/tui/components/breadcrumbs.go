package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/folio/internal/tui/styles"
)

const crumbSeparator = " › "

// RenderBreadcrumbs renders path elements as numbered crumbs. The number
// is the key that jumps to the crumb; the last crumb is the current folder.
// Leading crumbs are dropped when the line does not fit width.
func RenderBreadcrumbs(elements []string, width int) string {
	if len(elements) == 0 {
		return ""
	}

	crumbs := make([]string, len(elements))
	for i, el := range elements {
		style := styles.CrumbStyle
		if i == len(elements)-1 {
			style = styles.CrumbCurrentStyle
		}
		label := style.Render(el)
		if i < 9 {
			label = styles.CrumbIndexStyle.Render(strconv.Itoa(i+1)+":") + label
		}
		crumbs[i] = label
	}

	sep := styles.DimStyle.Render(crumbSeparator)
	line := strings.Join(crumbs, sep)
	for start := 1; lipgloss.Width(line) > width && start < len(crumbs); start++ {
		line = styles.DimStyle.Render("…") + sep + strings.Join(crumbs[start:], sep)
	}
	return line
}
