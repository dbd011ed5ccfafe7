package engine

import "github.com/decker502/herofx/pkg/render"

// Rect 宿主区域在视口中的位置与逻辑尺寸
type Rect struct {
	Left, Top     float64
	Width, Height float64
}

// Host 宿主环境
//
// 对应页面中的 hero 区域元素与浏览器窗口：提供宿主区域边界、
// 视口尺寸与设备像素比。
type Host interface {
	// Rect 宿主区域当前边界（视口坐标）
	Rect() Rect
	// Viewport 视口逻辑尺寸
	Viewport() (w, h float64)
	// DevicePixelRatio 设备像素比（未截断）
	DevicePixelRatio() float64
}

// Canvas 可按设备像素重新分配的绘制表面
type Canvas interface {
	render.Surface
	// Resize 重新分配画布，尺寸单位为设备像素
	Resize(pixelW, pixelH int)
}
