package main

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"boxyjump/internal/view"
	"boxyjump/pkg/boxyjump"
)

// ~60 FPS
const frameInterval = 16 * time.Millisecond

var newScreen = tcell.NewScreen

// watchLoop steps the session speed frames per tick and redraws until the
// session is done, the user quits or ctx ends.
func watchLoop(ctx context.Context, screen tcell.Screen, session *boxyjump.Session, speed int, interval time.Duration) error {
	renderer := view.NewRenderer(screen)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if isQuitKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			for i := 0; i < speed && !session.Done(); i++ {
				if _, err := session.Step(ctx); err != nil {
					return err
				}
			}
			width, _ := screen.Size()
			renderer.Draw(view.Capture(session.Simulation(), width))
			if session.Done() {
				return nil
			}
		}
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}
