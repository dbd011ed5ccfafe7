// Package main 在终端中运行粒子场
//
// 终端即视口，每个字符格显示上下两个像素，hero 宿主区域占据页面顶部一屏。
//
// Usage:
//
//	go run ./cmd/herofx-term [flags]
//
// Flags:
//
//	--config <path>  粒子场配置（默认使用内置默认值）
//	--fps <n>        刷新率（默认 30）
//	--cell <px>      每个终端像素对应的逻辑像素（默认 12）
//	--stats          显示统计信息
//	--verbose        启用详细日志（需配合 --log）
//	--log <path>     日志文件
//
// Controls:
//
//	Mouse            - 吸引附近的粒子
//	Wheel / Up/Down  - 滚动页面
//	s                - 切换统计信息
//	q / Esc / Ctrl-C - 退出
package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/herofx/internal/termsurface"
	"github.com/decker502/herofx/pkg/config"
	"github.com/decker502/herofx/pkg/engine"
	"github.com/decker502/herofx/pkg/lifecycle"
)

const pageScreens = 3

var (
	configFlag  = flag.String("config", "", "Path to a field config YAML (default: built-in defaults)")
	fpsFlag     = flag.Int("fps", 30, "Refresh rate")
	cellFlag    = flag.Float64("cell", 12, "Logical pixels per terminal pixel")
	statsFlag   = flag.Bool("stats", false, "Show the stats line")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging")
	logFlag     = flag.String("log", "", "Write logs to this file")
)

// Term 终端宿主
type Term struct {
	screen tcell.Screen
	cell   float64

	clock  *lifecycle.MonotonicClock
	sched  *lifecycle.TickScheduler
	timers *lifecycle.Timers
	events *lifecycle.Events

	page    *engine.Page
	surface *termsurface.Surface
	engine  *engine.Engine

	showStats bool
	closed    bool
	frames    int
	fpsAt     time.Duration
	fps       float64
}

// NewTerm 初始化终端与粒子场
func NewTerm(screen tcell.Screen, cfg *config.FieldConfig, cell float64) (*Term, error) {
	t := &Term{
		screen:  screen,
		cell:    cell,
		clock:   lifecycle.NewMonotonicClock(),
		sched:   lifecycle.NewTickScheduler(),
		timers:  lifecycle.NewTimers(),
		events:  lifecycle.NewEvents(),
		page:    engine.NewPage(pageScreens),
		surface: termsurface.New(color.RGBA{A: 255}),
	}
	t.measure()

	e, err := engine.New(engine.Options{
		Config:      cfg,
		Canvas:      t.surface,
		Host:        t.page,
		Scheduler:   t.sched,
		Timers:      t.timers,
		Events:      t.events,
		Observer:    t.page,
		PageVisible: true,
	})
	if err != nil {
		return nil, fmt.Errorf("particle field init failed: %w", err)
	}
	t.engine = e
	return t, nil
}

// measure 按终端尺寸更新视口，返回是否变化
func (t *Term) measure() bool {
	cols, rows := t.screen.Size()
	return t.page.SetViewport(float64(cols)*t.cell, float64(rows*2)*t.cell, 1/t.cell)
}

// toClient 字符格坐标转换为视口逻辑坐标（取格内上半像素中心）
func (t *Term) toClient(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * t.cell, (float64(row*2) + 0.5) * t.cell
}

func (t *Term) scroll(rows int) {
	if t.page.ScrollBy(float64(rows*2) * t.cell) {
		t.events.Emit(lifecycle.Event{Kind: lifecycle.EventScroll, ScrollY: t.page.ScrollY()})
	}
}

// handleEvent 处理一个 tcell 事件，返回 false 表示退出
func (t *Term) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyUp:
			t.scroll(-1)
		case ev.Key() == tcell.KeyDown:
			t.scroll(1)
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 's':
			t.showStats = !t.showStats
		}

	case *tcell.EventMouse:
		buttons := ev.Buttons()
		switch {
		case buttons&tcell.WheelUp != 0:
			t.scroll(-1)
		case buttons&tcell.WheelDown != 0:
			t.scroll(1)
		}
		x, y := t.toClient(ev.Position())
		t.events.Emit(lifecycle.Event{Kind: lifecycle.EventPointerMove, ClientX: x, ClientY: y})

	case *tcell.EventFocus:
		t.events.Emit(lifecycle.Event{Kind: lifecycle.EventVisibilityChange, Visible: ev.Focused})

	case *tcell.EventResize:
		if t.measure() {
			vw, vh := t.page.Viewport()
			t.events.Emit(lifecycle.Event{Kind: lifecycle.EventResize, Width: vw, Height: vh})
		}
		t.screen.Sync()
	}
	return true
}

// tick 推进定时器与帧调度，然后刷新屏幕
func (t *Term) tick() {
	now := t.clock.Now()
	t.timers.Advance(now)

	rendered := t.engine.Loop().Rendered()
	t.sched.Tick(now)
	if t.engine.Loop().Rendered() != rendered {
		t.countFrame(now)
	}

	t.screen.Clear()
	rect := t.page.Rect()
	t.surface.Present(t.screen, 0, int(rect.Top/(2*t.cell)))
	if t.showStats {
		t.drawStats()
	}
	t.screen.Show()
}

func (t *Term) countFrame(now time.Duration) {
	t.frames++
	if elapsed := now - t.fpsAt; elapsed >= time.Second {
		t.fps = float64(t.frames) / elapsed.Seconds()
		t.frames = 0
		t.fpsAt = now
	}
}

func (t *Term) drawStats() {
	ctx := t.engine.Context()
	st := t.engine.Stats()
	pageVisible, inView := t.engine.Visibility()
	line := fmt.Sprintf(" fps %.1f | %s (focus %v, in view %v) | tier %d x%.2f | particles %d | lines %d | scroll %.0f ",
		t.fps, t.engine.State(), pageVisible, inView, ctx.Tier, t.engine.Density(), st.Particles, st.Lines, ctx.ScrollY)
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	for i, r := range line {
		t.screen.SetContent(i, 0, r, nil, style)
	}
}

// run 事件与刷新循环，所有粒子场调用都在此 goroutine 上
func (t *Term) run(fps int) {
	ticker := time.NewTicker(time.Second / time.Duration(max(fps, 1)))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(t.screen, eventChan, done)

	for {
		select {
		case ev := <-eventChan:
			if !t.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			t.tick()
		}
	}
}

// pollEvents 把终端事件转发到 out，直到 PollEvent 返回 nil（Fini 之后）或 done 关闭
func pollEvents(screen tcell.Screen, out chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-done:
			return
		}
	}
}

// cleanup 销毁粒子场并恢复终端，可重复调用
func (t *Term) cleanup() {
	if t.closed {
		return
	}
	t.closed = true
	t.events.Emit(lifecycle.Event{Kind: lifecycle.EventPageHide})
	t.engine.Cleanup()
	t.timers.CancelAll()
	t.screen.Fini()
}

func setupLogging() (io.Closer, error) {
	if !*verboseFlag || *logFlag == "" {
		// 终端被占用，日志不能写到 stderr
		log.SetOutput(io.Discard)
		return nil, nil
	}
	f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	return f, nil
}

func loadConfig(path string) (*config.FieldConfig, error) {
	if path == "" {
		return config.DefaultFieldConfig(), nil
	}
	return config.LoadFieldConfig(path)
}

func main() {
	flag.Parse()

	logFile, err := setupLogging()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()

	term, err := NewTerm(screen, cfg, *cellFlag)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	term.showStats = *statsFlag
	defer term.cleanup()

	term.run(*fpsFlag)
}
