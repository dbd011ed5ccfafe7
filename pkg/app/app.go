// Package app 提供粒子场桌面/移动端应用的包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/herofx/pkg/config"
	"github.com/decker502/herofx/pkg/engine"
	"github.com/decker502/herofx/pkg/lifecycle"
	"github.com/decker502/herofx/pkg/render"
	"github.com/decker502/herofx/pkg/settings"
	"github.com/decker502/herofx/pkg/utils"
)

const (
	// pageScreens 模拟页面的总高度（屏数）
	pageScreens = 3
	// wheelStep 滚轮每格滚动的逻辑像素
	wheelStep = 60
)

// pageBackground 页面背景色
var pageBackground = color.RGBA{R: 13, G: 17, B: 23, A: 255}

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Field 粒子场配置，为 nil 时使用内置默认值
	Field *config.FieldConfig
	// ShowStats 强制显示统计信息（否则使用保存的设置）
	ShowStats bool
	// Fullscreen 强制全屏启动（否则使用保存的设置）
	Fullscreen bool
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	fieldCfg *config.FieldConfig
	settings *settings.Manager

	clock  *lifecycle.MonotonicClock
	sched  *lifecycle.TickScheduler
	timers *lifecycle.Timers
	events *lifecycle.Events

	page    *engine.Page
	surface *render.EbitenSurface
	engine  *engine.Engine

	initialized bool
	disabled    bool
	closed      bool

	// 输入轮询状态
	focused      bool
	cursorInside bool
	cursorX      int
	cursorY      int
	touchIDs     []ebiten.TouchID
	touching     bool
	touchX       int
	touchY       int

	// 屏幕像素与逻辑像素之比（未截断）
	screenScale   float64
	viewportDirty bool

	showStats bool
}

// NewApp 创建应用
//
// 粒子场本身在第一次 Update 时才初始化，此时窗口尺寸已知。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	fieldCfg := cfg.Field
	if fieldCfg == nil {
		fieldCfg = config.DefaultFieldConfig()
	}

	sm := settings.NewManager(openStore())
	sm.Apply(fieldCfg)
	if err := fieldCfg.Validate(); err != nil {
		return nil, fmt.Errorf("粒子场配置无效: %w", err)
	}

	if cfg.ShowStats {
		sm.SetShowStats(true)
	}
	if cfg.Fullscreen {
		sm.SetFullscreen(true)
	}

	a := &App{
		fieldCfg:    fieldCfg,
		settings:    sm,
		clock:       lifecycle.NewMonotonicClock(),
		sched:       lifecycle.NewTickScheduler(),
		timers:      lifecycle.NewTimers(),
		events:      lifecycle.NewEvents(),
		page:        engine.NewPage(pageScreens),
		surface:     render.NewEbitenSurface(nil),
		focused:     true,
		screenScale: 1,
		showStats:   sm.Get().ShowStats,
	}

	ebiten.SetFullscreen(sm.Get().Fullscreen)
	return a, nil
}

// openStore 打开跨平台存储，失败时返回 nil（设置仅保存在内存中）
func openStore() *gdata.Manager {
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	store, err := gdata.Open(gdata.Config{AppName: "herofx"})
	if err != nil {
		log.Printf("[App] Warning: persistent settings unavailable: %v", err)
		return nil
	}
	return store
}

// initField 初始化粒子场，只执行一次
func (a *App) initField() {
	if a.initialized {
		return
	}
	a.initialized = true
	// 初始化时直接测量，不需要再走一次防抖 resize
	a.viewportDirty = false

	e, err := engine.New(engine.Options{
		Config:       a.fieldCfg,
		Canvas:       a.surface,
		Host:         a.page,
		Scheduler:    a.sched,
		Timers:       a.timers,
		Events:       a.events,
		Observer:     a.page,
		PageVisible:  a.focused,
		ScrollY:      a.page.ScrollY(),
		ForceMobile:  utils.IsMobile(),
		InitialTier:  a.settings.RestoredTier(),
		OnTierChange: a.settings.RecordTier,
	})
	if err != nil {
		// 装饰效果：放弃渲染，不影响窗口
		a.disabled = true
		log.Printf("[App] Particle field disabled: %v", err)
		return
	}
	a.engine = e
}

// Update 轮询输入、推进定时器与帧调度
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.Close()
		return ebiten.Termination
	}

	if vw, _ := a.page.Viewport(); vw > 0 {
		a.initField()
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		fullscreen := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(fullscreen)
		a.settings.SetFullscreen(fullscreen)
	}
	// F3 切换统计信息
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		a.showStats = !a.showStats
		a.settings.SetShowStats(a.showStats)
	}

	a.pollInput()

	now := a.clock.Now()
	a.timers.Advance(now)
	a.sched.Tick(now)
	return nil
}

// Draw 把离屏画布贴到宿主区域当前位置
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(pageBackground)

	if a.engine != nil && !a.engine.Done() {
		if img := a.surface.Image(); img != nil {
			rect := a.page.Rect()
			// 画布按截断后的像素比分配，屏幕按真实像素比布局
			k := a.screenScale / a.engine.Context().DPR
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(k, k)
			op.GeoM.Translate(rect.Left*a.screenScale, rect.Top*a.screenScale)
			op.Filter = ebiten.FilterLinear
			screen.DrawImage(img, op)
		}
	}

	if a.showStats {
		ebitenutil.DebugPrint(screen, a.statsText())
	}
}

func (a *App) statsText() string {
	if a.engine == nil {
		return fmt.Sprintf("FPS %.1f\nparticle field disabled", ebiten.ActualFPS())
	}
	ctx := a.engine.Context()
	st := a.engine.Stats()
	pageVisible, inView := a.engine.Visibility()
	return fmt.Sprintf("FPS %.1f  TPS %.1f\nstate %s  focus %v  in view %v\ntier %d (density x%.2f)  mobile %v\nparticles %d  lines %d  glows %d\nscroll %.0f  dpr %.2f",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		a.engine.State(), pageVisible, inView,
		ctx.Tier, a.engine.Density(), ctx.Mobile,
		st.Particles, st.Lines, st.Glows,
		ctx.ScrollY, ctx.DPR)
}

// Layout 以设备像素布局屏幕，视口逻辑尺寸为窗口尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := 1.0
	if m := ebiten.Monitor(); m != nil {
		scale = m.DeviceScaleFactor()
	}
	if scale <= 0 {
		scale = 1
	}
	a.screenScale = scale

	if a.page.SetViewport(float64(outsideWidth), float64(outsideHeight), scale) {
		a.viewportDirty = true
	}
	return int(math.Ceil(float64(outsideWidth) * scale)), int(math.Ceil(float64(outsideHeight) * scale))
}

// Close 销毁粒子场并保存设置，重复调用无副作用
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true

	a.events.Emit(lifecycle.Event{Kind: lifecycle.EventPageHide})
	a.engine.Cleanup()
	a.timers.CancelAll()

	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

// Engine 返回粒子场实例（初始化前或被禁用时为 nil）
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// IsTermination 判断 RunGame 返回的错误是否为正常退出
func IsTermination(err error) bool {
	return errors.Is(err, ebiten.Termination)
}
