package lifecycle

import "time"

// FrameCallback 帧回调，参数为本帧时间戳
type FrameCallback func(now time.Duration)

// FrameHandle 已登记回调的句柄，用于取消
type FrameHandle uint64

// FrameScheduler 显示同步的回调调度器（request/cancel 一对操作）
//
// 与浏览器的 requestAnimationFrame 语义一致：每次 Request 只在下一帧
// 触发一次，回调内部再次 Request 的回调会留到再下一帧。
type FrameScheduler interface {
	Request(cb FrameCallback) FrameHandle
	Cancel(h FrameHandle)
}

type pendingFrame struct {
	handle FrameHandle
	cb     FrameCallback
}

// TickScheduler 由宿主逐帧驱动的调度器
//
// 宿主每个显示帧调用一次 Tick；测试中可以用任意合成时间戳调用。
type TickScheduler struct {
	next    FrameHandle
	pending []pendingFrame
	// running 正在执行的批次，Cancel 会把其中的回调置空
	running []pendingFrame
}

// NewTickScheduler 创建调度器
func NewTickScheduler() *TickScheduler {
	return &TickScheduler{}
}

// Request 登记一个下一帧执行的回调
func (s *TickScheduler) Request(cb FrameCallback) FrameHandle {
	s.next++
	s.pending = append(s.pending, pendingFrame{handle: s.next, cb: cb})
	return s.next
}

// Cancel 取消尚未执行的回调，对已执行或未知句柄无影响
func (s *TickScheduler) Cancel(h FrameHandle) {
	for i, p := range s.pending {
		if p.handle == h {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
	for i := range s.running {
		if s.running[i].handle == h {
			s.running[i].cb = nil
			return
		}
	}
}

// Tick 执行本帧之前登记的全部回调
func (s *TickScheduler) Tick(now time.Duration) {
	if len(s.pending) == 0 {
		return
	}
	s.running = s.pending
	s.pending = nil
	for i := 0; i < len(s.running); i++ {
		if cb := s.running[i].cb; cb != nil {
			s.running[i].cb = nil
			cb(now)
		}
	}
	s.running = nil
}

// Pending 待执行回调数
func (s *TickScheduler) Pending() int {
	return len(s.pending)
}

// Clear 丢弃全部待执行回调
func (s *TickScheduler) Clear() {
	s.pending = nil
	for i := range s.running {
		s.running[i].cb = nil
	}
}
