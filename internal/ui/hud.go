//go:build ebiten

package ui

import (
	"fmt"
	"image/color"
	"strings"

	"cupheat/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const (
	panelPadding = 10
	lineHeight   = 15
	groupGap     = 6
)

var (
	panelColor  = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleColor  = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	groupColor  = color.RGBA{R: 150, G: 170, B: 200, A: 255}
	labelColor  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	statusColor = color.RGBA{R: 240, G: 200, B: 120, A: 255}
)

// HUD renders a read-only panel to the right of the section view: live
// status lines on top, the session parameters below.
type HUD struct {
	sim        core.Sim
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot
	status     []string
	title      string
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{sim: sim, width: width, title: buildTitle(sim)}
}

// Width returns the panel width in pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// SetStatus replaces the live status lines.
func (h *HUD) SetStatus(lines []string) {
	if h == nil {
		return
	}
	h.status = append(h.status[:0], lines...)
}

// Update refreshes the cached parameter snapshot from the simulation.
func (h *HUD) Update() {
	if h == nil {
		return
	}
	provider, ok := h.sim.(core.ParameterProvider)
	if !ok {
		h.snapshot = core.ParameterSnapshot{}
		return
	}
	h.snapshot = provider.Parameters()
}

// Draw paints the HUD panel at offsetX with the given height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(panelColor)

	face := basicfont.Face7x13
	y := panelPadding + 10
	text.Draw(h.panel, h.title, face, panelPadding, y, titleColor)
	y += lineHeight + groupGap
	for _, line := range h.status {
		text.Draw(h.panel, line, face, panelPadding, y, statusColor)
		y += lineHeight
	}
	for _, group := range h.snapshot.Groups {
		if y > height-lineHeight {
			break
		}
		y += groupGap
		text.Draw(h.panel, group.Name, face, panelPadding, y, groupColor)
		y += lineHeight
		for _, p := range group.Params {
			text.Draw(h.panel, formatParam(p), face, panelPadding+8, y, labelColor)
			y += lineHeight
		}
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func formatParam(p core.Parameter) string {
	value := p.Value
	if len(value) > 12 {
		value = value[:12]
	}
	if p.Unit != "" {
		return fmt.Sprintf("%-16s %s %s", p.Label, value, p.Unit)
	}
	return fmt.Sprintf("%-16s %s", p.Label, value)
}

func buildTitle(sim core.Sim) string {
	if sim == nil || sim.Name() == "" {
		return "Parameters"
	}
	name := sim.Name()
	return strings.ToUpper(name[:1]) + name[1:]
}
