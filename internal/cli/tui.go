package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/digtower/pkg/digfile"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// WorkflowListModel - Interactive definition selection
// =============================================================================

// workflowItem is one row of the picker.
type workflowItem struct {
	Path      string // definition path
	Name      string // project-relative display name
	Tasks     int    // top-level "+" tasks
	Scheduled bool
	Modified  time.Time
	Err       error // definition could not be parsed
}

// loadWorkflowItems reads the summary shown for each file.
func loadWorkflowItems(root string, files []string) []workflowItem {
	items := make([]workflowItem, 0, len(files))
	for _, path := range files {
		item := workflowItem{Path: path, Name: path}
		if rel, err := filepath.Rel(root, path); err == nil {
			item.Name = filepath.ToSlash(rel)
		}
		if info, err := os.Stat(path); err == nil {
			item.Modified = info.ModTime()
		}
		def, err := digfile.Load(path)
		if err != nil {
			item.Err = err
			items = append(items, item)
			continue
		}
		for _, k := range def.Tasks.Keys() {
			if strings.HasPrefix(k, "+") {
				item.Tasks++
			}
		}
		_, item.Scheduled = def.Tasks.Get("schedule")
		items = append(items, item)
	}
	return items
}

// WorkflowListModel is the bubbletea model for interactive workflow selection.
type WorkflowListModel struct {
	Items    []workflowItem
	Cursor   int
	Selected *workflowItem
	Height   int
	Offset   int
}

// NewWorkflowListModel creates a new workflow list model.
func NewWorkflowListModel(items []workflowItem) WorkflowListModel {
	return WorkflowListModel{
		Items:  items,
		Height: 15,
	}
}

func (m WorkflowListModel) Init() tea.Cmd {
	return nil
}

func (m WorkflowListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Items) == 0 {
				return m, tea.Quit
			}
			item := m.Items[m.Cursor]
			if item.Err != nil {
				return m, nil
			}
			m.Selected = &item
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m WorkflowListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Workflow"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		tasks := fmt.Sprint(it.Tasks)
		sched := "—"
		if it.Scheduled {
			sched = "✓"
		}
		if it.Err != nil {
			tasks, sched = "invalid", ""
		}

		rows = append(rows, []string{cursor, it.Name, tasks, sched, formatRelativeTime(it.Modified)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Workflow", "Tasks", "Scheduled", "Modified").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			idx := m.Offset + row
			if idx >= len(m.Items) {
				return lipgloss.NewStyle()
			}
			it := m.Items[idx]
			isCurrent := idx == m.Cursor

			base := lipgloss.NewStyle()
			if col == 4 {
				base = base.Foreground(colorDim)
			}
			switch {
			case it.Err != nil:
				return base.Foreground(colorRed)
			case isCurrent:
				return base.Foreground(colorGreen).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Items))))

	return b.String()
}

// pickWorkflow runs the picker and returns the chosen path, or "" if the
// user quit.
func pickWorkflow(root string, files []string) (string, error) {
	model := NewWorkflowListModel(loadWorkflowItems(root, files))
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return "", fmt.Errorf("workflow picker: %w", err)
	}
	m, ok := final.(WorkflowListModel)
	if !ok || m.Selected == nil {
		return "", nil
	}
	return m.Selected.Path, nil
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}

	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
