package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/specialistvlad/filtergrid/internal/registry"
	"github.com/specialistvlad/filtergrid/internal/schema"
)

var (
	categoryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#FF00FF"))

	nodeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	portStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// ListSchema writes the registry's node types grouped by category.
func (app *App) ListSchema() error {
	_, err := io.WriteString(app.outW, renderSchema(app.registry))
	return err
}

func renderSchema(reg *registry.Registry) string {
	var sections []string
	for _, cat := range schema.Categories {
		types := reg.ListByCategory(cat)
		if len(types) == 0 {
			continue
		}
		lines := []string{categoryStyle.Render(fmt.Sprintf("%s (%d)", cat, len(types)))}
		for _, nt := range types {
			lines = append(lines, renderNodeType(reg, nt))
		}
		sections = append(sections, lipgloss.JoinVertical(lipgloss.Left, lines...))
	}
	return strings.Join(sections, "\n\n") + "\n"
}

func renderNodeType(reg *registry.Registry, nt *schema.NodeType) string {
	header := nodeStyle.Render(nt.Ref)
	if nt.DisplayLabel() != nt.Ref {
		header += " " + mutedStyle.Render(nt.DisplayLabel())
	}
	if nt.Nested() {
		header += mutedStyle.Render(" nests in " + strings.Join(nt.NestIn, ", "))
	}

	var attrs []string
	for _, spec := range nt.Attributes {
		if spec.Private() {
			continue
		}
		line := fmt.Sprintf("  %s %s", spec.Name, mutedStyle.Render(schema.DescribeKind(spec.EffectiveKind())))
		if spec.HasPort() {
			line += " " + portStyle.Render(fmt.Sprintf("[%s %s]", spec.Flow(), spec.Relation()))
		}
		attrs = append(attrs, line)
	}
	for _, child := range reg.ListNestableInto(nt.Ref) {
		entry := "  + " + child.Type.Ref
		if child.Limit > 0 {
			entry += fmt.Sprintf(" (max %d)", child.Limit)
		}
		attrs = append(attrs, portStyle.Render(entry))
	}
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{header}, attrs...)...)
}
