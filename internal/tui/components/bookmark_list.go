package components

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// Spinner frames for loading animation
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Layout constants for the bookmark list
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// bookmarkSource implements fuzzy.Source over display names
type bookmarkSource []string

func (s bookmarkSource) String(i int) string { return s[i] }
func (s bookmarkSource) Len() int            { return len(s) }

// BookmarkList is a scrollable list of folder entries with an optional
// fuzzy filter. Cursor positions are positions in the visible (filtered)
// list; SelectedIndex maps back to the underlying slice.
type BookmarkList struct {
	items []domain.Bookmark

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width  int
	height int

	title     string
	emptyText string
	showPath  bool

	// Loading state
	loading      bool
	spinnerFrame int

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into items
}

// NewBookmarkList creates an empty list
func NewBookmarkList() *BookmarkList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &BookmarkList{
		items:       []domain.Bookmark{},
		filterInput: ti,
		emptyText:   "No bookmarks",
	}
}

// Update handles list navigation and filter typing
func (c *BookmarkList) Update(msg tea.Msg) tea.Cmd {
	// Filter input is active and focused (typing mode)
	if c.filterActive && c.filterInput.Focused() {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(keyMsg, ListKeys.Escape):
				c.clearFilter()
				return nil
			case key.Matches(keyMsg, ListKeys.Accept):
				// Accept filter, blur input to allow navigation
				c.filterInput.Blur()
				return nil
			case key.Matches(keyMsg, ListKeys.Erase):
				if c.filterInput.Value() == "" {
					c.clearFilter()
					return nil
				}
			}
		}

		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		c.applyFilter()
		return cmd
	}

	// Filter is active but blurred (navigation mode with filter results)
	if c.filterActive {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(keyMsg, ListKeys.Escape):
				c.clearFilter()
				return nil
			case key.Matches(keyMsg, ListKeys.Filter):
				c.filterInput.Focus()
				return nil
			}
		}
	}

	count := c.ItemCount()
	if count == 0 {
		return nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, ListKeys.Down):
			if c.cursor < count-1 {
				c.cursor++
				c.ensureVisible()
			}
		case key.Matches(keyMsg, ListKeys.Up):
			if c.cursor > 0 {
				c.cursor--
				c.ensureVisible()
			}
		case key.Matches(keyMsg, ListKeys.Home):
			c.cursor = 0
			c.offset = 0
		case key.Matches(keyMsg, ListKeys.End):
			c.cursor = count - 1
			c.ensureVisible()
		case key.Matches(keyMsg, ListKeys.HalfDown):
			c.cursor = min(c.cursor+max(c.maxVisible/2, 1), count-1)
			c.ensureVisible()
		case key.Matches(keyMsg, ListKeys.HalfUp):
			c.cursor = max(c.cursor-max(c.maxVisible/2, 1), 0)
			c.ensureVisible()
		}
	}
	return nil
}

func (c *BookmarkList) View() string {
	style := styles.ActiveBorder
	content := c.renderContent()

	// Subtract frame (border) size so total rendered size equals c.width x c.height
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(max(c.width-frameW, 0)).
		Height(max(c.height-frameH, 0)).
		Render(content)
}

func (c *BookmarkList) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible()
}

func (c *BookmarkList) Width() int  { return c.width }
func (c *BookmarkList) Height() int { return c.height }

func (c *BookmarkList) Title() string         { return c.title }
func (c *BookmarkList) SetTitle(title string) { c.title = title }

// SetEmptyText sets the text shown for an empty list
func (c *BookmarkList) SetEmptyText(text string) { c.emptyText = text }

// SetShowPath toggles showing each entry's owning folder (search results)
func (c *BookmarkList) SetShowPath(show bool) { c.showPath = show }

// SetLoading toggles the loading placeholder
func (c *BookmarkList) SetLoading(loading bool) { c.loading = loading }

// SetSpinnerFrame updates the spinner animation frame
func (c *BookmarkList) SetSpinnerFrame(frame int) { c.spinnerFrame = frame }

// SetItems replaces the entries in place: the cursor is kept (clamped) and
// an active filter is re-applied.
func (c *BookmarkList) SetItems(items []domain.Bookmark) {
	if items == nil {
		items = []domain.Bookmark{}
	}
	c.items = items
	if c.filterActive && c.filterQuery != "" {
		c.filteredIdx = c.match(c.filterQuery)
	}
	c.SetCursor(c.cursor)
}

// Reset shows a new list: the cursor returns to the top and the filter is cleared
func (c *BookmarkList) Reset(items []domain.Bookmark) {
	c.cursor = 0
	c.offset = 0
	c.clearFilter()
	c.SetItems(items)
}

// Items returns the unfiltered entries
func (c *BookmarkList) Items() []domain.Bookmark {
	return c.items
}

// Selected returns the entry under the cursor
func (c *BookmarkList) Selected() (domain.Bookmark, bool) {
	idx := c.SelectedIndex()
	if idx < 0 {
		return domain.Bookmark{}, false
	}
	return c.items[idx], true
}

// SelectedIndex returns the index of the selected entry in Items, or -1
func (c *BookmarkList) SelectedIndex() int {
	count := c.ItemCount()
	if count == 0 || c.cursor >= count {
		return -1
	}
	return c.mapIndex(c.cursor)
}

// Cursor returns the cursor position in the visible list
func (c *BookmarkList) Cursor() int {
	return c.cursor
}

// SetCursor moves the cursor to a visible position, clamped to the list
func (c *BookmarkList) SetCursor(idx int) {
	maxIdx := c.ItemCount() - 1
	if maxIdx < 0 {
		c.cursor = 0
		c.offset = 0
		return
	}
	c.cursor = max(0, min(idx, maxIdx))
	c.ensureVisible()
}

// SelectIndex moves the cursor onto the entry at index idx of Items
func (c *BookmarkList) SelectIndex(idx int) {
	if c.filteredIdx == nil {
		c.SetCursor(idx)
		return
	}
	for pos, i := range c.filteredIdx {
		if i == idx {
			c.SetCursor(pos)
			return
		}
	}
}

// ItemCount returns the number of visible entries
func (c *BookmarkList) ItemCount() int {
	if c.filteredIdx != nil {
		return len(c.filteredIdx)
	}
	return len(c.items)
}

// IsEmpty reports whether no entry is visible
func (c *BookmarkList) IsEmpty() bool {
	return c.ItemCount() == 0
}

// ToggleFilter activates the filter input
func (c *BookmarkList) ToggleFilter() {
	c.filterActive = true
	c.filterInput.Focus()
	c.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (c *BookmarkList) IsFiltering() bool {
	return c.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused
func (c *BookmarkList) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all items
func (c *BookmarkList) ClearFilter() {
	c.clearFilter()
}

// Internal methods

func (c *BookmarkList) recalcMaxVisible() {
	// Interior height minus the title line and both scroll indicators
	interiorHeight := c.height - BorderHeight
	c.maxVisible = interiorHeight - ScrollIndicatorLines - 1
	if c.filterActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *BookmarkList) ensureVisible() {
	// Don't adjust offset if size hasn't been set yet
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

func (c *BookmarkList) clearFilter() {
	c.filterActive = false
	c.filterQuery = ""
	c.filteredIdx = nil
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.recalcMaxVisible()
}

func (c *BookmarkList) applyFilter() {
	query := c.filterInput.Value()
	c.filterQuery = query

	if query == "" {
		c.filteredIdx = nil
		return
	}

	c.filteredIdx = c.match(query)
	c.cursor = 0
	c.offset = 0
}

// match returns the indices of entries whose name fuzzily matches query,
// best match first
func (c *BookmarkList) match(query string) []int {
	names := make(bookmarkSource, len(c.items))
	for i, b := range c.items {
		names[i] = strings.ToLower(b.DisplayName)
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), names)
	idx := make([]int, len(matches))
	for i, m := range matches {
		idx[i] = m.Index
	}
	return idx
}

func (c *BookmarkList) mapIndex(i int) int {
	if c.filteredIdx != nil && i < len(c.filteredIdx) {
		return c.filteredIdx[i]
	}
	return i
}

// Rendering

func (c *BookmarkList) renderContent() string {
	itemWidth := c.width - BorderWidth
	if itemWidth < 10 {
		itemWidth = 10
	}

	titleLine := styles.AccentStyle.Render(styles.Truncate(c.title, itemWidth))

	count := c.ItemCount()
	if count == 0 {
		emptyMsg := styles.DimStyle.Render(c.emptyText)
		if c.loading {
			spinner := SpinnerFrames[c.spinnerFrame%len(SpinnerFrames)]
			emptyMsg = styles.DimStyle.Render(spinner + " Loading...")
		} else if c.filterActive && c.filterQuery != "" {
			emptyMsg = styles.DimStyle.Render("No matches")
		}
		content := titleLine + "\n" + " " + "\n" + emptyMsg + "\n" + " "
		if c.filterActive {
			content += "\n" + c.renderFilterBar()
		}
		return content
	}

	var lines []string

	end := min(c.offset+c.maxVisible, count)
	for i := c.offset; i < end; i++ {
		lines = append(lines, c.renderItem(c.items[c.mapIndex(i)], i == c.cursor, itemWidth))
	}

	// Always reserve the indicator lines so the layout does not shift
	header := " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer
	if c.filterActive {
		content += "\n" + c.renderFilterBar()
	}
	return content
}

func (c *BookmarkList) renderItem(b domain.Bookmark, selected bool, width int) string {
	marker := styles.NodeChar
	markerFg := styles.DimGray
	name := b.DisplayName
	if b.IsFolder() {
		marker = styles.FolderChar
		markerFg = styles.Accent
		if b.ChildCount > 0 {
			name = fmt.Sprintf("%s (%d)", name, b.ChildCount)
		}
	}

	// width - marker(1) - space(1) - margins(2)
	available := max(width-4, 5)
	name = styles.Truncate(name, available)

	parts := []styles.RowPart{
		{Text: marker, Foreground: &markerFg},
		{Text: " " + name, Foreground: nil},
	}

	detail := ""
	if c.showPath {
		detail = b.Path
	} else if !b.IsFolder() {
		detail = hostOf(b.URL)
	}
	if rest := available - lipgloss.Width(name) - 2; detail != "" && rest > 3 {
		dim := styles.DimGray
		parts = append(parts, styles.RowPart{Text: "  " + styles.Truncate(detail, rest), Foreground: &dim})
	}

	return styles.RenderListRow(parts, selected, width)
}

func (c *BookmarkList) renderFilterBar() string {
	input := c.filterInput.View()

	countStr := ""
	if c.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", c.ItemCount(), len(c.items)))
	}
	return input + countStr
}

// hostOf returns the host of a URL, or the raw text if it does not parse
func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}
