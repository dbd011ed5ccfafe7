// Package termsurface 把粒子场绘制到终端字符格上
//
// 每个字符格用上半块字符 '▀' 表示上下两个“像素”：前景色为上像素，
// 背景色为下像素。绘制调用在浮点缓冲区中按 alpha 合成，Present 时
// 叠加到背景色上写入 tcell 屏幕。
package termsurface

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// pixel 预乘 RGBA，分量范围 [0, 1]
type pixel struct {
	r, g, b, a float64
}

// over 把预乘颜色 src 按 coverage 合成到 p 上
func (p *pixel) over(src pixel, coverage float64) {
	if coverage <= 0 {
		return
	}
	k := 1 - src.a*coverage
	p.r = src.r*coverage + p.r*k
	p.g = src.g*coverage + p.g*k
	p.b = src.b*coverage + p.b*k
	p.a = src.a*coverage + p.a*k
}

func premultiplied(c color.Color) pixel {
	r, g, b, a := c.RGBA()
	return pixel{
		r: float64(r) / 0xffff,
		g: float64(g) / 0xffff,
		b: float64(b) / 0xffff,
		a: float64(a) / 0xffff,
	}
}

// Surface 终端像素缓冲区，宽 cols、高 rows*2 像素
type Surface struct {
	w, h  int
	scale float64
	pix   []pixel

	// Background 合成的底色
	Background colorful.Color
}

// New 创建空缓冲区，尺寸在 Resize 时分配
func New(background color.Color) *Surface {
	bg, _ := colorful.MakeColor(background)
	return &Surface{scale: 1, Background: bg}
}

// Size 像素尺寸
func (s *Surface) Size() (int, int) {
	return s.w, s.h
}

// Resize 重新分配缓冲区，尺寸单位为像素（每格两个像素）
func (s *Surface) Resize(pixelW, pixelH int) {
	pixelW = max(pixelW, 0)
	pixelH = max(pixelH, 0)
	if pixelW == s.w && pixelH == s.h {
		return
	}
	s.w, s.h = pixelW, pixelH
	s.pix = make([]pixel, pixelW*pixelH)
}

func (s *Surface) Clear() {
	clear(s.pix)
}

func (s *Surface) SetScale(scale float64) {
	s.scale = scale
}

// Pixel 读取某像素的预乘颜色，越界时返回全透明
func (s *Surface) Pixel(x, y int) (r, g, b, a float64) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return 0, 0, 0, 0
	}
	p := s.pix[y*s.w+x]
	return p.r, p.g, p.b, p.a
}

func (s *Surface) blend(x, y int, src pixel, coverage float64) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	s.pix[y*s.w+x].over(src, coverage)
}

// FillCircle 覆盖像素中心落在圆内的像素；小于一个像素的圆按面积衰减
func (s *Surface) FillCircle(x, y, r float64, c color.Color) {
	src := premultiplied(c)
	cx, cy, rr := x*s.scale, y*s.scale, r*s.scale

	if rr < 0.5 {
		// 亚像素圆：面积比例作为覆盖率
		s.blend(int(math.Floor(cx)), int(math.Floor(cy)), src, math.Pi*rr*rr)
		return
	}
	s.eachInRadius(cx, cy, rr, func(px, py int, _ float64) {
		s.blend(px, py, src, 1)
	})
}

// StrokeLine 沿线段逐像素采样，宽度不足一个像素时按宽度衰减
func (s *Surface) StrokeLine(x0, y0, x1, y1, width float64, c color.Color) {
	src := premultiplied(c)
	k := s.scale
	ax, ay, bx, by := x0*k, y0*k, x1*k, y1*k
	coverage := math.Min(width*k, 1)

	steps := int(math.Ceil(math.Max(math.Abs(bx-ax), math.Abs(by-ay))))
	if steps == 0 {
		s.blend(int(math.Floor(ax)), int(math.Floor(ay)), src, coverage)
		return
	}
	lastX, lastY := math.MinInt, math.MinInt
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		px := int(math.Floor(ax + (bx-ax)*t))
		py := int(math.Floor(ay + (by-ay)*t))
		if px == lastX && py == lastY {
			continue
		}
		lastX, lastY = px, py
		s.blend(px, py, src, coverage)
	}
}

// FillRadial 中心为 c、边缘透明的线性径向渐变
func (s *Surface) FillRadial(x, y, r float64, c color.Color) {
	if r <= 0 {
		return
	}
	src := premultiplied(c)
	rr := r * s.scale
	s.eachInRadius(x*s.scale, y*s.scale, rr, func(px, py int, d float64) {
		s.blend(px, py, src, 1-d/rr)
	})
}

// eachInRadius 遍历像素中心到 (cx, cy) 距离小于 r 的像素
func (s *Surface) eachInRadius(cx, cy, r float64, fn func(px, py int, d float64)) {
	x0 := max(int(math.Floor(cx-r)), 0)
	x1 := min(int(math.Ceil(cx+r)), s.w-1)
	y0 := max(int(math.Floor(cy-r)), 0)
	y1 := min(int(math.Ceil(cy+r)), s.h-1)
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			dx := float64(px) + 0.5 - cx
			dy := float64(py) + 0.5 - cy
			d := math.Sqrt(dx*dx + dy*dy)
			if d < r {
				fn(px, py, d)
			}
		}
	}
}

// composite 把像素叠加到背景色上
func (s *Surface) composite(p pixel) tcell.Color {
	bg := s.Background
	c := colorful.Color{
		R: p.r + bg.R*(1-p.a),
		G: p.g + bg.G*(1-p.a),
		B: p.b + bg.B*(1-p.a),
	}.Clamped()
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// Present 把缓冲区写入屏幕，缓冲区左上角对应屏幕格 (col, row)
//
// 超出屏幕的部分被裁剪，row 可以为负（宿主区域部分滚出视口）。
func (s *Surface) Present(screen tcell.Screen, col, row int) {
	sw, sh := screen.Size()
	rows := (s.h + 1) / 2
	for cy := 0; cy < rows; cy++ {
		sy := row + cy
		if sy < 0 || sy >= sh {
			continue
		}
		for cx := 0; cx < s.w; cx++ {
			sx := col + cx
			if sx < 0 || sx >= sw {
				continue
			}
			top := s.pix[(2*cy)*s.w+cx]
			var bottom pixel
			if 2*cy+1 < s.h {
				bottom = s.pix[(2*cy+1)*s.w+cx]
			}
			style := tcell.StyleDefault.Foreground(s.composite(top)).Background(s.composite(bottom))
			screen.SetContent(sx, sy, '▀', nil, style)
		}
	}
}
