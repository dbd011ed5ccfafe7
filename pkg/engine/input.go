package engine

import (
	"log"
	"time"

	"github.com/decker502/herofx/pkg/lifecycle"
)

// bindEvents 注册全部宿主事件监听，并把对应的清理登记到 teardown
func (e *Engine) bindEvents(timers *lifecycle.Timers, events *lifecycle.Events) {
	// 最先登记的最后执行：集合清空放在所有取消操作之后
	e.teardown.Add(func() {
		e.particles = nil
		e.blobs = nil
		e.renderer.Grid().Reset()
		e.ctx.Pointer.Active = false
		log.Printf("[Engine] Cleaned up")
	})

	e.resizeDebounce = lifecycle.NewDebouncer(timers, e.cfg.ResizeDebounce(), e.Resize)
	e.pointerIdle = lifecycle.NewDebouncer(timers, e.cfg.PointerIdle(), e.PointerLeave)
	e.teardown.Add(e.resizeDebounce.Cancel)
	e.teardown.Add(e.pointerIdle.Cancel)
	e.teardown.Add(e.cancelRectRefresh)

	subs := []*lifecycle.Subscription{
		events.On(lifecycle.EventResize, func(lifecycle.Event) { e.resizeDebounce.Trigger() }),
		events.On(lifecycle.EventPointerMove, func(ev lifecycle.Event) { e.PointerMove(ev.ClientX, ev.ClientY) }),
		events.On(lifecycle.EventTouchMove, func(ev lifecycle.Event) { e.PointerMove(ev.ClientX, ev.ClientY) }),
		events.On(lifecycle.EventPointerLeave, func(lifecycle.Event) { e.PointerLeave() }),
		events.On(lifecycle.EventTouchEnd, func(lifecycle.Event) { e.PointerLeave() }),
		events.On(lifecycle.EventScroll, func(ev lifecycle.Event) { e.Scroll(ev.ScrollY) }),
		events.On(lifecycle.EventVisibilityChange, func(ev lifecycle.Event) { e.SetPageVisible(ev.Visible) }),
		events.On(lifecycle.EventPageHide, func(lifecycle.Event) { e.Cleanup() }),
	}
	e.teardown.Add(func() {
		for _, s := range subs {
			s.Remove()
		}
	})

	// 最后登记的最先执行：先停循环
	e.teardown.Add(func() {
		if e.loop != nil {
			e.loop.Stop()
		}
	})
}

// PointerMove 指针或触摸移动，坐标为视口坐标
//
// 按最近一次测量的宿主区域换算成局部坐标，并重新计时空闲超时。
func (e *Engine) PointerMove(clientX, clientY float64) {
	if e.Done() {
		return
	}
	e.ctx.Pointer.X = clientX - e.hostRect.Left
	e.ctx.Pointer.Y = clientY - e.hostRect.Top
	e.ctx.Pointer.Active = true
	e.pointerIdle.Trigger()
}

// PointerLeave 指针离开、触摸结束或空闲超时
func (e *Engine) PointerLeave() {
	e.ctx.Pointer.Active = false
}

// Scroll 页面滚动
//
// 记录新的滚动偏移，并在下一帧重新测量宿主区域（同一帧内多次滚动只测量一次）。
func (e *Engine) Scroll(offset float64) {
	if e.Done() {
		return
	}
	e.ctx.ScrollY = offset
	if e.rectRefreshWait {
		return
	}
	e.rectRefreshWait = true
	e.rectRefresh = e.sched.Request(func(time.Duration) {
		e.rectRefreshWait = false
		e.hostRect = e.host.Rect()
	})
}

func (e *Engine) cancelRectRefresh() {
	if e.rectRefreshWait {
		e.sched.Cancel(e.rectRefresh)
		e.rectRefreshWait = false
	}
}

// Resize 重新测量宿主区域并按新的设备类型与档位重建粒子
//
// 通常由防抖后的尺寸变化事件触发。
func (e *Engine) Resize() {
	if e.Done() {
		return
	}
	e.resize()
	e.spawnParticles()
	log.Printf("[Engine] Resized to %.0fx%.0f (dpr %.2f, mobile=%v), %d particles",
		e.ctx.Bounds.W, e.ctx.Bounds.H, e.ctx.DPR, e.ctx.Mobile, len(e.particles))
}

// SetPageVisible 页面可见性变化
func (e *Engine) SetPageVisible(visible bool) {
	if e.Done() {
		return
	}
	e.coordinator.SetPageVisible(visible)
}
