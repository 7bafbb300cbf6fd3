package tui

// Vertical layout: title line and breadcrumbs above the list, a single
// footer line below it
const (
	HeaderHeight = 2
	FooterHeight = 1
	ChromeHeight = HeaderHeight + FooterHeight

	MinListHeight = 5
)

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}
	m.List.SetSize(m.Width, max(m.Height-ChromeHeight, MinListHeight))
}
