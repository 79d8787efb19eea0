package views

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"calselect/internal/domain"
)

// golden angle in degrees, spreads consecutive hues far apart
const goldenAngle = 137.50776405

// Palette picks a stable color per selection id
type Palette struct {
	HueOffset float64
}

// Hue returns the hue in [0, 360) used for id
func (p Palette) Hue(id domain.SelectionID) float64 {
	// ids are random int64s; fold them so float math stays exact enough
	n := float64(uint64(id) % 10007)
	return math.Mod(n*goldenAngle+p.HueOffset, 360)
}

// Background is the fill color for the selection's cells; the editing
// selection is drawn lighter.
func (p Palette) Background(id domain.SelectionID, editing bool) colorful.Color {
	if editing {
		return colorful.Hcl(p.Hue(id), 0.45, 0.82).Clamped()
	}
	return colorful.Hcl(p.Hue(id), 0.55, 0.6).Clamped()
}

// Style renders text on the selection's background with a readable foreground
func (p Palette) Style(id domain.SelectionID, editing bool) lipgloss.Style {
	bg := p.Background(id, editing)
	fg := lipgloss.Color("#ffffff")
	if _, _, l := bg.Hcl(); l > 0.65 {
		fg = lipgloss.Color("#000000")
	}
	style := lipgloss.NewStyle().
		Background(lipgloss.Color(bg.Hex())).
		Foreground(fg)
	if editing {
		style = style.Bold(true)
	}
	return style
}
