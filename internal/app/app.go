//go:build ebiten

package app

import (
	"context"
	"fmt"
	"image/color"

	"cupheat/internal/core"
	"cupheat/internal/render"
	"cupheat/internal/sims/coffee"
	"cupheat/internal/ui"
	"cupheat/pkg/material"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"
)

const (
	paletteLevels  = 64
	minPanelHeight = 480
)

// Game adapts a coffee session to the ebiten.Game interface. It draws the
// vertical cross-section through the cup axis with a HUD panel to its right.
type Game struct {
	ctx      context.Context
	cfg      *Config
	scenario coffee.Config
	log      *zap.Logger

	session *coffee.Session
	smap    *render.SectionMap
	painter *render.SectionPainter
	palette []color.RGBA
	opts    render.SectionOptions
	raster  render.Raster
	drawn   uint64
	fresh   bool

	hud   *ui.HUD
	pacer *core.FixedStep

	paused   bool
	tickOnce bool
}

// New builds the session described by scenario and prepares its view.
func New(ctx context.Context, cfg *Config, scenario coffee.Config, logger *zap.Logger) (*Game, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.Normalize()
	g := &Game{
		ctx:      ctx,
		cfg:      cfg,
		scenario: scenario,
		log:      logger,
		palette:  render.HeatPalette(paletteLevels),
		pacer:    core.NewFixedStep(cfg.TPS),
	}
	if err := g.Reset(); err != nil {
		return nil, err
	}
	return g, nil
}

// Reset discards the current session and starts the scenario from t = 0.
func (g *Game) Reset() error {
	sess, err := coffee.New(g.ctx, g.scenario, coffee.WithLogger(g.log))
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	g.session = sess
	g.smap = render.NewSectionMap(sess.Solver(), g.cfg.Width)
	g.painter = render.NewSectionPainter(g.smap.W, g.smap.H)
	initial := sess.Initial()
	g.opts = render.SectionOptions{Width: g.cfg.Width, Min: initial.Min, Max: initial.Max, Levels: paletteLevels}
	g.hud = ui.NewHUD(sess, g.cfg.HUDWidth)
	g.hud.Update()
	g.fresh = false
	g.tickOnce = false
	g.refresh()
	return nil
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.Reset(); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.cfg.StepsPerTick *= 2
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.cfg.StepsPerTick = max(g.cfg.StepsPerTick/2, 1)
	}

	ticks := g.pacer.Due()
	if g.paused {
		ticks = 0
	}
	if g.tickOnce {
		ticks = max(ticks, 1)
		g.tickOnce = false
	}
	for i := 0; i < ticks*g.cfg.StepsPerTick && g.session.Running(); i++ {
		if err := g.session.Step(g.ctx); err != nil {
			return err
		}
	}
	g.refresh()
	return nil
}

// refresh re-renders the section when the solver has advanced.
func (g *Game) refresh() {
	solver := g.session.Solver()
	steps := solver.Steps()
	if !g.fresh || steps != g.drawn {
		g.raster = g.smap.Render(solver.Temperatures(), g.opts)
		g.drawn = steps
		g.fresh = true
	}
	sum := solver.Summary()
	g.hud.SetStatus(statusLines(statusInfo{
		time:         sum.Time,
		steps:        sum.Steps,
		coffee:       sum.Average[material.Coffee],
		cup:          sum.Average[material.CupMaterial],
		air:          sum.Average[material.Air],
		min:          sum.Min,
		max:          sum.Max,
		paused:       g.paused,
		done:         !g.session.Running(),
		stepsPerTick: g.cfg.StepsPerTick,
	}))
}

// Draw renders the current section and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(render.Background)
	g.painter.Blit(screen, g.raster, g.palette, g.cfg.Scale)
	_, h := g.Layout(0, 0)
	g.hud.Draw(screen, g.smap.W*g.cfg.Scale, h)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := g.smap.W*g.cfg.Scale + g.hud.Width()
	h := g.smap.H * g.cfg.Scale
	if g.hud.Width() > 0 {
		h = max(h, minPanelHeight)
	}
	return w, h
}

// Session returns the session currently on screen.
func (g *Game) Session() *coffee.Session { return g.session }
