// Package lifecycle 提供渲染循环的调度与生命周期管理
//
// 所有组件都是单线程的：宿主（Ebitengine 的 Update 或终端主循环）在同一个
// goroutine 中按显示帧推进时钟、驱动帧回调与定时器。测试时注入手动时钟即可
// 完全确定地重放任意帧序列。
package lifecycle

import "time"

// Clock 单调时钟，返回相对于起点的时长
type Clock interface {
	Now() time.Duration
}

// MonotonicClock 基于系统单调时钟的实现
type MonotonicClock struct {
	start time.Time
}

// NewMonotonicClock 以当前时刻为起点创建时钟
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

// Now 返回自创建以来经过的时长
func (c *MonotonicClock) Now() time.Duration {
	return time.Since(c.start)
}

// ManualClock 可手动推进的时钟（测试用）
type ManualClock struct {
	now time.Duration
}

// NewManualClock 创建从 start 开始的手动时钟
func NewManualClock(start time.Duration) *ManualClock {
	return &ManualClock{now: start}
}

// Now 返回当前时刻
func (c *ManualClock) Now() time.Duration {
	return c.now
}

// Advance 推进时钟
func (c *ManualClock) Advance(d time.Duration) {
	c.now += d
}
