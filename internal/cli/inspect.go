package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	pkgio "github.com/autosplice/autosplice/pkg/io"
	"github.com/autosplice/autosplice/pkg/scoper"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command: an interactive browser over
// a relocation registry file.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <registry.json>",
		Short: "Browse a symbol relocation registry interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := pkgio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if reg.Count() == 0 {
				printInfo("Registry %s is empty", args[0])
				return nil
			}

			model := NewSymbolListModel(reg)
			_, err = tea.NewProgram(model).Run()
			return err
		},
	}
}

// symbolRow is one relocation flattened for display.
type symbolRow struct {
	Kind string
	From string
	To   string
}

// SymbolListModel is the bubbletea model for browsing a relocation
// registry: classes first, then functions, in recording order.
type SymbolListModel struct {
	Prefix string
	Rows   []symbolRow
	Cursor int
	Height int
	Offset int
}

// NewSymbolListModel creates a list model over the registry's relocations.
func NewSymbolListModel(reg *scoper.Registry) SymbolListModel {
	rows := make([]symbolRow, 0, reg.Count())
	for _, rel := range reg.Classes() {
		rows = append(rows, symbolRow{Kind: "class", From: rel.From, To: rel.To})
	}
	for _, rel := range reg.Functions() {
		rows = append(rows, symbolRow{Kind: "function", From: rel.From, To: rel.To})
	}
	return SymbolListModel{
		Prefix: reg.Prefix(),
		Rows:   rows,
		Height: 15,
	}
}

func (m SymbolListModel) Init() tea.Cmd {
	return nil
}

func (m SymbolListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "g", "home":
			m.Cursor = 0
			m.Offset = 0
		case "G", "end":
			m.Cursor = len(m.Rows) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m SymbolListModel) View() string {
	var b strings.Builder

	title := "Symbol Relocations"
	if m.Prefix != "" {
		title += " · " + m.Prefix
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G top/bottom  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, r.Kind, r.From, r.To})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Kind", "Original", "Relocated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}

			base := lipgloss.NewStyle()
			if col == 1 {
				base = base.Foreground(colorGray)
			}
			if actualIdx == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}
