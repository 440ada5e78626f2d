// Package view draws a running simulation into a terminal screen.
package view

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"boxyjump/internal/evo"
	"boxyjump/internal/model"
	"boxyjump/internal/scape"
)

const (
	// cellsPerUnit is the horizontal zoom; one row is one world unit.
	cellsPerUnit = 2
	topCount     = 3
	recentCount  = 10
	recentWidth  = 18
)

// Entry is one scored generation as shown in the panels.
type Entry struct {
	Generation int
	Score      float64
}

// Frame is everything one redraw needs, captured from the simulation so the
// renderer never touches live state.
type Frame struct {
	AgentX, AgentY float64
	Platforms      []scape.Platform
	Generation     int
	Lives          int
	Score          float64
	Distance       float64
	Elapsed        float64
	Genome         model.GenomeSnapshot
	Top            []Entry
	Recent         []Entry
}

// Capture snapshots the simulation for a screen width in cells.
func Capture(sim *scape.Simulation, width int) Frame {
	body := sim.Body()
	span := float64(width)/(2*cellsPerUnit) + 1
	ctrl := sim.Controller()
	f := Frame{
		AgentX:    body.X,
		AgentY:    body.Y,
		Platforms: sim.Course().Platforms(body.X-span, body.X+span),
		Lives:     sim.Lives(),
		Distance:  sim.Distance(),
		Elapsed:   ctrl.Elapsed(),
	}
	f.Score = evo.Score(f.Distance, f.Elapsed)
	if life, ok := ctrl.Life(); ok {
		f.Genome = life.Genome
		f.Generation = life.Genome.Generation
	}
	archive := ctrl.Archive()
	f.Top = entries(archive.TopScores(topCount))
	f.Recent = entries(archive.Recent(recentCount))
	return f
}

func entries(records []evo.ScoredRecord) []Entry {
	out := make([]Entry, 0, len(records))
	for _, rec := range records {
		out = append(out, Entry{Generation: rec.Genome.Generation, Score: rec.Score})
	}
	return out
}

type Renderer struct {
	screen     tcell.Screen
	textStyle  tcell.Style
	floorStyle tcell.Style
	airStyle   tcell.Style
	agentStyle tcell.Style
}

func NewRenderer(screen tcell.Screen) *Renderer {
	base := tcell.StyleDefault
	return &Renderer{
		screen:     screen,
		textStyle:  base.Foreground(tcell.ColorWhite),
		floorStyle: base.Foreground(tcell.ColorGreen),
		airStyle:   base.Foreground(tcell.ColorYellow),
		agentStyle: base.Foreground(tcell.ColorAqua).Bold(true),
	}
}

// Draw clears the screen and paints one frame.
func (r *Renderer) Draw(f Frame) {
	r.screen.Clear()
	width, height := r.screen.Size()
	if width <= 0 || height <= 0 {
		return
	}
	groundRow := height - 2

	for _, p := range f.Platforms {
		style, glyph := r.floorStyle, '='
		if p.Air {
			style, glyph = r.airStyle, '-'
		}
		row := groundRow - int(math.Round(p.Top))
		left := columnFor(width, f.AgentX, p.X-p.Width/2)
		right := columnFor(width, f.AgentX, p.X+p.Width/2)
		for x := left; x < right; x++ {
			r.put(x, row, glyph, style)
		}
	}
	r.put(width/2, groundRow-int(math.Round(f.AgentY)), '#', r.agentStyle)

	for i, line := range StatusLines(f) {
		r.text(0, i, line)
	}
	recentX := width - recentWidth
	if recentX > 0 {
		r.text(recentX, 0, "recent")
		for i, e := range f.Recent {
			r.text(recentX, i+1, formatEntry(e))
		}
	}
	r.screen.Show()
}

// StatusLines renders the left panel: run counters, the live genome and the
// best scores so far.
func StatusLines(f Frame) []string {
	lines := []string{
		fmt.Sprintf("gen %d  lives %d", f.Generation, f.Lives),
		fmt.Sprintf("score %.2f  dist %.1f  t %.1fs", f.Score, f.Distance, f.Elapsed),
	}
	receptors := "none"
	if len(f.Genome.Receptors) > 0 {
		receptors = strings.Join(f.Genome.Receptors, ",")
	}
	lines = append(lines, "receptors: "+receptors)
	for _, resp := range f.Genome.Responses {
		lines = append(lines, FormatResponse(resp))
	}
	lines = append(lines, "top")
	for i, e := range f.Top {
		lines = append(lines, fmt.Sprintf(" %d. %s", i+1, formatEntry(e)))
	}
	return lines
}

func FormatResponse(resp model.ResponseSnapshot) string {
	line := fmt.Sprintf(" %s: %s odds=%.2f amt=%.2f", resp.Receptor, resp.Kind, resp.Odds, resp.Amount)
	if resp.Secondary != 0 {
		line += fmt.Sprintf(" sec=%.1f", resp.Secondary)
	}
	if !resp.Active {
		line += " (off)"
	}
	return line
}

func formatEntry(e Entry) string {
	return fmt.Sprintf("g%-4d %8.2f", e.Generation, e.Score)
}

func columnFor(width int, originX, x float64) int {
	return width/2 + int(math.Round((x-originX)*cellsPerUnit))
}

func (r *Renderer) put(x, y int, ch rune, style tcell.Style) {
	width, height := r.screen.Size()
	if x < 0 || y < 0 || x >= width || y >= height {
		return
	}
	r.screen.SetContent(x, y, ch, nil, style)
}

func (r *Renderer) text(x, y int, s string) {
	for i, ch := range s {
		r.put(x+i, y, ch, r.textStyle)
	}
}
