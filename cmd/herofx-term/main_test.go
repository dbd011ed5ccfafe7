package main

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/herofx/pkg/config"
	"github.com/decker502/herofx/pkg/lifecycle"
)

func newTestTerm(t *testing.T, cols, rows int) (*Term, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(cols, rows)

	term, err := NewTerm(screen, config.DefaultFieldConfig(), 12)
	if err != nil {
		t.Fatalf("NewTerm: %v", err)
	}
	t.Cleanup(term.cleanup)
	return term, screen
}

func TestTermStartsField(t *testing.T) {
	term, screen := newTestTerm(t, 80, 24)

	vw, vh := term.page.Viewport()
	if vw != 960 || vh != 576 {
		t.Fatalf("viewport: got %.0fx%.0f", vw, vh)
	}
	if w, h := term.surface.Size(); w != 80 || h != 48 {
		t.Errorf("surface pixels: got %dx%d, want 80x48", w, h)
	}
	if len(term.engine.Particles()) != 120 {
		t.Errorf("particles: got %d", len(term.engine.Particles()))
	}

	term.tick()
	if term.engine.Stats().Particles != 120 {
		t.Errorf("frame not rendered: %+v", term.engine.Stats())
	}
	if mainc, _, _, _ := screen.GetContent(0, 0); mainc != '▀' {
		t.Errorf("expected half block at origin, got %q", mainc)
	}
}

func TestTermQuitKeys(t *testing.T) {
	term, _ := newTestTerm(t, 40, 12)

	tests := []struct {
		name string
		ev   *tcell.EventKey
		cont bool
	}{
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), false},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), false},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), false},
		{"other rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := term.handleEvent(tt.ev); got != tt.cont {
				t.Errorf("handleEvent: got %v, want %v", got, tt.cont)
			}
		})
	}
}

func TestTermMouseDrivesPointer(t *testing.T) {
	term, _ := newTestTerm(t, 80, 24)

	term.handleEvent(tcell.NewEventMouse(10, 5, tcell.ButtonNone, tcell.ModNone))
	p := term.engine.Context().Pointer
	if !p.Active {
		t.Fatal("mouse motion should activate the pointer")
	}
	// 格 (10,5) -> 像素 (10,10) 中心 -> 逻辑 (126,126)
	if p.X != 126 || p.Y != 126 {
		t.Errorf("pointer: got (%.0f,%.0f), want (126,126)", p.X, p.Y)
	}
}

func TestTermScrollStopsField(t *testing.T) {
	term, _ := newTestTerm(t, 80, 24)

	for i := 0; i < 23; i++ {
		term.handleEvent(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	}
	if term.engine.State() != lifecycle.Running {
		t.Fatal("host still partially visible, loop should run")
	}
	term.handleEvent(tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	if term.engine.State() != lifecycle.Stopped {
		t.Fatal("host scrolled out of view, loop should stop")
	}
	if term.engine.Context().ScrollY != 576 {
		t.Errorf("scrollY: got %.0f", term.engine.Context().ScrollY)
	}
}

func TestTermFocusAndResize(t *testing.T) {
	term, screen := newTestTerm(t, 80, 24)

	term.handleEvent(tcell.NewEventFocus(false))
	if term.engine.State() != lifecycle.Stopped {
		t.Fatal("losing focus should stop the loop")
	}
	term.handleEvent(tcell.NewEventFocus(true))
	if term.engine.State() != lifecycle.Running {
		t.Fatal("regaining focus should restart the loop")
	}

	screen.SetSize(40, 12)
	term.handleEvent(tcell.NewEventResize(40, 12))
	if vw, _ := term.page.Viewport(); vw != 480 {
		t.Errorf("viewport width after resize: got %.0f", vw)
	}
	if term.timers.Len() == 0 {
		t.Error("resize should be debounced through a timer")
	}
}

func TestPollEventsStopsWhenDone(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	defer screen.Fini()

	// 无人读取的通道：转发必须能被 done 打断
	out := make(chan tcell.Event)
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		pollEvents(screen, out, done)
		close(finished)
	}()

	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	close(done)

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("pollEvents still blocked after done was closed")
	}
}

func TestTermCleanupIdempotent(t *testing.T) {
	term, _ := newTestTerm(t, 80, 24)

	// 在 resize 防抖窗口内退出，仍有待触发的定时器
	term.events.Emit(lifecycle.Event{Kind: lifecycle.EventResize})
	term.cleanup()
	term.cleanup()

	if !term.engine.Done() {
		t.Error("engine not cleaned up")
	}
	if n := term.timers.Len(); n != 0 {
		t.Errorf("timers left after cleanup: %d", n)
	}
}

func TestTermStatsLine(t *testing.T) {
	term, screen := newTestTerm(t, 120, 24)
	term.showStats = true
	term.tick()

	var line []rune
	for x := 0; x < 120; x++ {
		mainc, _, _, _ := screen.GetContent(x, 0)
		line = append(line, mainc)
	}
	got := string(line)
	for _, want := range []string{"fps", "focus true, in view true", "tier 0 x1.00", "particles 120"} {
		if !strings.Contains(got, want) {
			t.Errorf("stats line %q missing %q", got, want)
		}
	}
}
