// Package render 绘制粒子场
//
// Renderer 只依赖 Surface 接口，具体的绘制后端（Ebitengine 图像、终端单元格、
// 测试用的记录器）由宿主提供。
package render

import "image/color"

// Surface 立即模式 2D 绘制表面
//
// 坐标均为宿主区域逻辑坐标，实现负责乘以 SetScale 设置的设备像素比。
type Surface interface {
	// Clear 清空整个表面
	Clear()
	// SetScale 设置逻辑坐标到设备像素的缩放
	SetScale(scale float64)
	// FillCircle 填充实心圆
	FillCircle(x, y, r float64, c color.Color)
	// StrokeLine 绘制线段
	StrokeLine(x0, y0, x1, y1, width float64, c color.Color)
	// FillRadial 径向渐变圆：圆心为 c，线性过渡到边缘完全透明
	FillRadial(x, y, r float64, c color.Color)
}
