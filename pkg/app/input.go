package app

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/herofx/pkg/lifecycle"
)

// pollInput 轮询设备状态，转换成宿主事件
//
// Ebitengine 是轮询模型，这里把状态差异翻译成页面事件流：
// 光标移动/离开、触摸移动/结束、滚轮滚动、窗口焦点与尺寸变化。
func (a *App) pollInput() {
	if a.viewportDirty {
		a.viewportDirty = false
		vw, vh := a.page.Viewport()
		a.events.Emit(lifecycle.Event{Kind: lifecycle.EventResize, Width: vw, Height: vh})
	}

	if focused := ebiten.IsFocused(); focused != a.focused {
		a.focused = focused
		a.events.Emit(lifecycle.Event{Kind: lifecycle.EventVisibilityChange, Visible: focused})
	}

	a.pollCursor()
	a.pollTouches()

	if _, wy := ebiten.Wheel(); wy != 0 {
		a.scroll(-wy * wheelStep)
	}
}

func (a *App) pollCursor() {
	x, y := ebiten.CursorPosition()
	cx, cy := a.toViewport(x, y)
	vw, vh := a.page.Viewport()
	inside := cx >= 0 && cy >= 0 && cx < vw && cy < vh

	switch {
	case inside && (!a.cursorInside || x != a.cursorX || y != a.cursorY):
		a.events.Emit(lifecycle.Event{Kind: lifecycle.EventPointerMove, ClientX: cx, ClientY: cy})
	case !inside && a.cursorInside:
		a.events.Emit(lifecycle.Event{Kind: lifecycle.EventPointerLeave})
	}
	a.cursorInside = inside
	a.cursorX, a.cursorY = x, y
}

// pollTouches 只跟踪第一个触点：移动驱动指针，纵向拖动滚动页面
func (a *App) pollTouches() {
	a.touchIDs = ebiten.AppendTouchIDs(a.touchIDs[:0])
	if len(a.touchIDs) == 0 {
		if a.touching {
			a.touching = false
			a.events.Emit(lifecycle.Event{Kind: lifecycle.EventTouchEnd})
		}
		return
	}

	x, y := ebiten.TouchPosition(a.touchIDs[0])
	if a.touching && x == a.touchX && y == a.touchY {
		return
	}
	if a.touching {
		_, dy := a.toViewport(0, a.touchY-y)
		a.scroll(dy)
	}
	a.touching = true
	a.touchX, a.touchY = x, y

	cx, cy := a.toViewport(x, y)
	a.events.Emit(lifecycle.Event{Kind: lifecycle.EventTouchMove, ClientX: cx, ClientY: cy})
}

func (a *App) scroll(dy float64) {
	if a.page.ScrollBy(dy) {
		a.events.Emit(lifecycle.Event{Kind: lifecycle.EventScroll, ScrollY: a.page.ScrollY()})
	}
}

// toViewport 屏幕像素坐标转换为视口逻辑坐标
func (a *App) toViewport(x, y int) (float64, float64) {
	return float64(x) / a.screenScale, float64(y) / a.screenScale
}
