package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

var helpSections = []string{"Navigation", "Selection", "Resize", "Other"}

// renderHelpContent generates the help page shown in the pager
func renderHelpContent(keys keyMap) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder

	help.WriteString(titleStyle.Render("calselect Help"))
	help.WriteString("\n")

	for i, group := range keys.FullHelp() {
		help.WriteString(sectionStyle.Render(helpSections[i]))
		help.WriteString("\n")
		for _, b := range group {
			writeBinding(&help, keyStyle, descStyle, b)
		}
		help.WriteString("\n")
	}

	help.WriteString(sectionStyle.Render("Mouse"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("click"), descStyle.Render("Start a new selection")))
	help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("shift+click"), descStyle.Render("Add a selection, keeping the others")))
	help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("drag"), descStyle.Render("Stretch the selection")))
	help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("wheel"), descStyle.Render("Scroll the day")))
	help.WriteString("\n")

	note := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
	help.WriteString(note.Render("  Selections never overlap: moving one over another trims or removes the other."))
	help.WriteString("\n")

	return help.String()
}

func writeBinding(w *strings.Builder, keyStyle, descStyle lipgloss.Style, b key.Binding) {
	h := b.Help()
	fmt.Fprintf(w, "  %s  %s\n", keyStyle.Render(h.Key), descStyle.Render(capitalize(h.Desc)))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
