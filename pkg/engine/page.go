package engine

// Page 模拟的可滚动页面，同时实现 Host 与 lifecycle.HostObserver
//
// 视口即宿主窗口（Ebitengine 窗口或终端），hero 宿主区域占据页面顶部一屏，
// 页面总高度为 screens 屏。宿主把滚轮、拖动换算成 ScrollBy。
type Page struct {
	vw, vh  float64
	dpr     float64
	scrollY float64
	screens float64

	cb     func(inView bool)
	inView bool
}

// NewPage 创建页面，初始未滚动
func NewPage(screens float64) *Page {
	return &Page{dpr: 1, screens: screens, inView: true}
}

// Rect 宿主区域在视口中的位置
func (p *Page) Rect() Rect {
	return Rect{Top: -p.scrollY, Width: p.vw, Height: p.vh}
}

// ScrollY 当前滚动偏移
func (p *Page) ScrollY() float64 {
	return p.scrollY
}

func (p *Page) Viewport() (float64, float64) {
	return p.vw, p.vh
}

func (p *Page) DevicePixelRatio() float64 {
	return p.dpr
}

// Observe 对应 IntersectionObserver.observe，注册后立即回报一次当前状态
func (p *Page) Observe(cb func(inView bool)) {
	p.cb = cb
	p.inView = p.hostInView()
	cb(p.inView)
}

func (p *Page) Disconnect() {
	p.cb = nil
}

// maxScroll 页面可滚动的最大偏移
func (p *Page) maxScroll() float64 {
	return max(p.vh*(p.screens-1), 0)
}

// ScrollBy 滚动页面，返回滚动偏移是否变化
func (p *Page) ScrollBy(dy float64) bool {
	next := min(max(p.scrollY+dy, 0), p.maxScroll())
	if next == p.scrollY {
		return false
	}
	p.scrollY = next
	p.notify()
	return true
}

// SetViewport 更新视口，返回尺寸或像素比是否变化
func (p *Page) SetViewport(w, h, dpr float64) bool {
	if w == p.vw && h == p.vh && dpr == p.dpr {
		return false
	}
	p.vw, p.vh, p.dpr = w, h, dpr
	p.scrollY = min(p.scrollY, p.maxScroll())
	p.notify()
	return true
}

// hostInView 宿主区域与视口是否相交（阈值 0）
func (p *Page) hostInView() bool {
	rect := p.Rect()
	return rect.Height > 0 && rect.Top+rect.Height > 0 && rect.Top < p.vh
}

func (p *Page) notify() {
	in := p.hostInView()
	if in == p.inView {
		return
	}
	p.inView = in
	if p.cb != nil {
		p.cb(in)
	}
}
