// Package engine 把模型、网格、渲染、自适应画质与生命周期组装成一个粒子场实例
//
// 宿主（Ebitengine 窗口或终端）只需提供画布、宿主区域、帧调度器与事件源，
// 然后在退出时调用 Cleanup。
package engine

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/decker502/herofx/pkg/config"
	"github.com/decker502/herofx/pkg/field"
	"github.com/decker502/herofx/pkg/lifecycle"
	"github.com/decker502/herofx/pkg/quality"
	"github.com/decker502/herofx/pkg/render"
	"github.com/decker502/herofx/pkg/utils"
)

// ErrMissingDependency 初始化所需的画布或宿主区域缺失
//
// 粒子场是纯装饰效果，宿主收到该错误时应当静默放弃，而不是终止程序。
var ErrMissingDependency = errors.New("particle field: missing canvas or host")

// Options 粒子场初始化参数
type Options struct {
	Config *config.FieldConfig

	Canvas    Canvas
	Host      Host
	Scheduler lifecycle.FrameScheduler
	Timers    *lifecycle.Timers
	Events    *lifecycle.Events
	// Observer 宿主区域相交通知，nil 时认为始终在视口内
	Observer lifecycle.HostObserver

	// PageVisible 初始化时页面是否可见
	PageVisible bool
	// ScrollY 初始化时的滚动偏移
	ScrollY float64
	// ForceMobile 平台本身是移动端（与视口宽度无关）
	ForceMobile bool
	// InitialTier 恢复的画质档位，仅移动端生效
	InitialTier int
	// OnTierChange 档位变化回调（持久化用）
	OnTierChange func(tier int)

	Rand *rand.Rand
}

// Engine 一个粒子场实例
type Engine struct {
	cfg    *config.FieldConfig
	canvas Canvas
	host   Host
	sched  lifecycle.FrameScheduler

	ctx       *field.SimContext
	layers    field.Layers
	spawner   *field.Spawner
	renderer  *render.Renderer
	quality   *quality.Controller
	particles []field.Particle
	blobs     []field.Blob

	loop        *lifecycle.Loop
	coordinator *lifecycle.Coordinator
	teardown    lifecycle.Teardown

	resizeDebounce *lifecycle.Debouncer
	pointerIdle    *lifecycle.Debouncer

	hostRect        Rect
	rectRefresh     lifecycle.FrameHandle
	rectRefreshWait bool

	forceMobile  bool
	onTierChange func(tier int)
	stats        render.FrameStats
}

// New 初始化粒子场
//
// 画布或宿主区域缺失时返回 ErrMissingDependency；配置非法时返回包装后的错误。
// 调度器、定时器、事件源缺省时自动创建（此时需由调用方通过对应访问器驱动）。
func New(opts Options) (*Engine, error) {
	if opts.Canvas == nil || opts.Host == nil {
		return nil, ErrMissingDependency
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultFieldConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid field config: %w", err)
	}
	accent, err := utils.ParseAccent(cfg.Accent)
	if err != nil {
		return nil, fmt.Errorf("invalid field config: %w", err)
	}

	if opts.Scheduler == nil {
		opts.Scheduler = lifecycle.NewTickScheduler()
	}
	if opts.Timers == nil {
		opts.Timers = lifecycle.NewTimers()
	}
	if opts.Events == nil {
		opts.Events = lifecycle.NewEvents()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	layers := field.NewLayers(cfg.Layers)
	e := &Engine{
		cfg:          cfg,
		canvas:       opts.Canvas,
		host:         opts.Host,
		sched:        opts.Scheduler,
		ctx:          field.NewSimContext(),
		layers:       layers,
		spawner:      field.NewSpawner(layers, cfg.Quality.Tiers, cfg.MobileDensity, rng),
		renderer:     render.NewRenderer(cfg, accent, layers, field.NewStepper(cfg, rng), field.NewGrid()),
		quality:      quality.NewController(cfg.Quality),
		forceMobile:  opts.ForceMobile,
		onTierChange: opts.OnTierChange,
	}

	e.ctx.ScrollY = opts.ScrollY
	e.ctx.LastScrollY = opts.ScrollY

	e.resize()
	if e.ctx.Mobile && opts.InitialTier > 0 {
		e.quality.SetTier(opts.InitialTier)
		e.ctx.Tier = e.quality.Tier()
	}
	e.spawnParticles()
	e.blobs = field.NewBlobs(cfg.BlobCount, cfg.Render.BlobAlpha, rng)

	e.loop = lifecycle.NewLoop(e.sched, e.frame)
	e.loop.OnStart = e.quality.ResetWindow
	e.loop.HalfRate = func() bool { return e.ctx.Mobile }
	e.coordinator = lifecycle.NewCoordinator(e.loop)

	e.bindEvents(opts.Timers, opts.Events)
	e.coordinator.Attach(opts.Observer)
	e.teardown.Add(e.coordinator.Detach)

	e.coordinator.SetPageVisible(opts.PageVisible)

	log.Printf("[Engine] Initialized: %d particles, %d blobs, mobile=%v, dpr=%.2f, accent %s",
		len(e.particles), len(e.blobs), e.ctx.Mobile, e.ctx.DPR, accent.CSS(1))
	return e, nil
}

// resize 重新测量宿主区域并重新分配画布
func (e *Engine) resize() {
	dpr := e.host.DevicePixelRatio()
	if dpr <= 0 {
		dpr = 1
	}
	e.ctx.DPR = math.Min(dpr, e.cfg.DPRCap)

	rect := e.host.Rect()
	vw, vh := e.host.Viewport()
	e.hostRect = rect
	e.ctx.Bounds = field.Bounds{W: rect.Width, H: rect.Height}
	e.ctx.Viewport = field.Bounds{W: vw, H: vh}

	e.canvas.Resize(int(math.Round(rect.Width*e.ctx.DPR)), int(math.Round(rect.Height*e.ctx.DPR)))
	e.canvas.SetScale(e.ctx.DPR)

	e.ctx.Mobile = e.forceMobile || vw < e.cfg.MobileBreakpoint
	if e.quality.SetMobile(e.ctx.Mobile) {
		log.Printf("[Quality] Switched to desktop, quality reset to full density")
	}
	e.ctx.Tier = e.quality.Tier()
}

// spawnParticles 按当前设备类型与档位整体替换粒子集合
func (e *Engine) spawnParticles() {
	e.particles = e.spawner.Spawn(e.ctx.Bounds, e.ctx.Mobile, e.ctx.Tier)
}

// frame 渲染循环的每帧回调
func (e *Engine) frame(now time.Duration) {
	if d := e.quality.Observe(now); d.Changed {
		e.ctx.Tier = d.Tier
		e.spawnParticles()
		log.Printf("[Quality] Tier -> %d (%.1f fps), %d particles", d.Tier, d.FPS, len(e.particles))
		if e.onTierChange != nil {
			e.onTierChange(d.Tier)
		}
	}

	e.stats = e.renderer.Frame(e.canvas, e.ctx, e.particles, e.blobs, now)
}

// Cleanup 销毁粒子场
//
// 取消渲染循环与全部定时器，移除所有监听，断开相交通知并清空所有集合。
// 可以重复调用，也可以在 nil 或未完成初始化的实例上调用。
func (e *Engine) Cleanup() {
	if e == nil {
		return
	}
	e.teardown.Run()
}

// Done 是否已经销毁
func (e *Engine) Done() bool {
	return e != nil && e.teardown.Done()
}

// Particles 当前粒子集合（只读）
func (e *Engine) Particles() []field.Particle {
	return e.particles
}

// Blobs 背景光斑
func (e *Engine) Blobs() []field.Blob {
	return e.blobs
}

// Grid 空间网格
func (e *Engine) Grid() *field.Grid {
	return e.renderer.Grid()
}

// Context 模拟上下文（只读访问）
func (e *Engine) Context() *field.SimContext {
	return e.ctx
}

// Tier 当前画质档位
func (e *Engine) Tier() int {
	return e.ctx.Tier
}

// Density 当前档位的粒子密度系数（桌面端恒为满档）
func (e *Engine) Density() float64 {
	return e.quality.Factor()
}

// Visibility 返回页面可见性与宿主区域是否在视口内
func (e *Engine) Visibility() (pageVisible, hostInView bool) {
	return e.coordinator.PageVisible(), e.coordinator.HostInView()
}

// State 渲染循环状态
func (e *Engine) State() lifecycle.State {
	return e.coordinator.State()
}

// Loop 渲染循环
func (e *Engine) Loop() *lifecycle.Loop {
	return e.loop
}

// Stats 最近一帧的绘制统计
func (e *Engine) Stats() render.FrameStats {
	return e.stats
}

// HostRect 最近一次测量的宿主区域
func (e *Engine) HostRect() Rect {
	return e.hostRect
}
