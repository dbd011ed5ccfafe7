package lifecycle

import "log"

// State 循环状态
type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// HostObserver 宿主区域与视口相交的通知来源
//
// 对应浏览器的 IntersectionObserver。不可用时传 nil，
// 协调器退化为“始终在视口内”。
type HostObserver interface {
	Observe(cb func(inView bool))
	Disconnect()
}

// Coordinator 根据页面可见性与宿主区域可见性启停循环
//
// 只有两个条件同时满足时才运行，任一条件变为 false 立即停止。
type Coordinator struct {
	loop *Loop

	pageVisible bool
	hostInView  bool

	observer HostObserver
}

// NewCoordinator 创建协调器，初始认为页面可见、宿主在视口内
func NewCoordinator(loop *Loop) *Coordinator {
	return &Coordinator{
		loop:        loop,
		pageVisible: true,
		hostInView:  true,
	}
}

// Attach 接入相交通知；observer 为 nil 时保持“始终在视口内”
func (c *Coordinator) Attach(observer HostObserver) {
	if observer == nil {
		log.Printf("[Lifecycle] Intersection observation unavailable, assuming host in view")
		c.hostInView = true
		return
	}
	c.observer = observer
	observer.Observe(c.SetHostInView)
}

// Detach 断开相交通知，重复调用无副作用
func (c *Coordinator) Detach() {
	if c.observer != nil {
		c.observer.Disconnect()
		c.observer = nil
	}
}

// SetPageVisible 页面可见性变化
func (c *Coordinator) SetPageVisible(visible bool) {
	c.pageVisible = visible
	c.Sync()
}

// SetHostInView 宿主区域相交状态变化
func (c *Coordinator) SetHostInView(inView bool) {
	c.hostInView = inView
	c.Sync()
}

// Sync 按当前条件启动或停止循环
func (c *Coordinator) Sync() {
	if c.pageVisible && c.hostInView {
		c.loop.Start()
	} else {
		c.loop.Stop()
	}
}

// State 当前状态
func (c *Coordinator) State() State {
	if c.loop.IsRunning() {
		return Running
	}
	return Stopped
}

// PageVisible 页面是否可见
func (c *Coordinator) PageVisible() bool {
	return c.pageVisible
}

// HostInView 宿主区域是否在视口内
func (c *Coordinator) HostInView() bool {
	return c.hostInView
}
