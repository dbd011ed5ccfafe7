package lifecycle

import "time"

// Loop 自我重排的渲染循环
//
// 每次执行时先重新登记下一帧，再决定是否渲染，因此停止后不会留下过期回调。
// 停止是协作式的：正在执行的帧会完整结束，只是不再登记下一帧。
type Loop struct {
	sched FrameScheduler
	frame FrameCallback

	// OnStart 每次启动时调用（重置性能统计窗口等）
	OnStart func()
	// HalfRate 返回 true 时每两次调度只渲染一次（移动端约半帧率）
	HalfRate func() bool

	running    bool
	armed      bool
	handle     FrameHandle
	frameCount int
	rendered   int
}

// NewLoop 创建循环，frame 为每个渲染帧执行的回调
func NewLoop(sched FrameScheduler, frame FrameCallback) *Loop {
	return &Loop{sched: sched, frame: frame}
}

// Start 启动循环，已运行时无操作
func (l *Loop) Start() {
	if l.running {
		return
	}
	l.running = true
	l.frameCount = 0
	if l.OnStart != nil {
		l.OnStart()
	}
	l.arm()
}

// Stop 停止循环并取消已登记的下一帧
func (l *Loop) Stop() {
	l.running = false
	if l.armed {
		l.sched.Cancel(l.handle)
		l.armed = false
	}
}

// IsRunning 循环是否在运行
func (l *Loop) IsRunning() bool {
	return l.running
}

// FrameCount 本次启动以来的调度次数（含跳过的帧）
func (l *Loop) FrameCount() int {
	return l.frameCount
}

// Rendered 累计实际渲染的帧数
func (l *Loop) Rendered() int {
	return l.rendered
}

func (l *Loop) arm() {
	l.handle = l.sched.Request(l.tick)
	l.armed = true
}

func (l *Loop) tick(now time.Duration) {
	l.armed = false
	if !l.running {
		return
	}

	l.arm()
	l.frameCount++

	if l.HalfRate != nil && l.HalfRate() && l.frameCount%2 != 0 {
		return
	}

	l.rendered++
	l.frame(now)
}
