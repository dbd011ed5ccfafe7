package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// radialSpriteSize 径向渐变贴图边长（像素）
const radialSpriteSize = 256

// EbitenSurface 基于 *ebiten.Image 的绘制表面
//
// 实心圆与线段使用 vector 包绘制；Ebitengine 没有渐变原语，
// 径向渐变使用一张预先生成的白色衰减圆贴图，缩放到目标半径后按颜色染色。
type EbitenSurface struct {
	dst   *ebiten.Image
	scale float64

	radial *ebiten.Image
	op     ebiten.DrawImageOptions
}

// NewEbitenSurface 创建绘制表面，dst 为画布（尺寸已乘以设备像素比）
func NewEbitenSurface(dst *ebiten.Image) *EbitenSurface {
	return &EbitenSurface{dst: dst, scale: 1}
}

// Image 返回画布
func (s *EbitenSurface) Image() *ebiten.Image {
	return s.dst
}

// Resize 按设备像素重新分配画布，尺寸不变时保留原画布
func (s *EbitenSurface) Resize(pixelW, pixelH int) {
	pixelW = max(pixelW, 1)
	pixelH = max(pixelH, 1)
	if s.dst != nil {
		b := s.dst.Bounds()
		if b.Dx() == pixelW && b.Dy() == pixelH {
			return
		}
		s.dst.Deallocate()
	}
	s.dst = ebiten.NewImage(pixelW, pixelH)
}

func (s *EbitenSurface) Clear() {
	s.dst.Clear()
}

func (s *EbitenSurface) SetScale(scale float64) {
	s.scale = scale
}

func (s *EbitenSurface) FillCircle(x, y, r float64, c color.Color) {
	k := s.scale
	vector.DrawFilledCircle(s.dst, float32(x*k), float32(y*k), float32(r*k), c, true)
}

func (s *EbitenSurface) StrokeLine(x0, y0, x1, y1, width float64, c color.Color) {
	k := s.scale
	vector.StrokeLine(s.dst, float32(x0*k), float32(y0*k), float32(x1*k), float32(y1*k), float32(width*k), c, true)
}

func (s *EbitenSurface) FillRadial(x, y, r float64, c color.Color) {
	if r <= 0 {
		return
	}
	if s.radial == nil {
		s.radial = ebiten.NewImage(radialSpriteSize, radialSpriteSize)
		s.radial.WritePixels(RadialSpritePixels(radialSpriteSize))
	}

	k := s.scale
	scale := 2 * r * k / radialSpriteSize

	s.op.GeoM.Reset()
	s.op.GeoM.Translate(-radialSpriteSize/2, -radialSpriteSize/2)
	s.op.GeoM.Scale(scale, scale)
	s.op.GeoM.Translate(x*k, y*k)
	s.op.ColorScale.Reset()
	s.op.ColorScale.ScaleWithColor(c)
	s.op.Filter = ebiten.FilterLinear
	s.dst.DrawImage(s.radial, &s.op)
}

// RadialSpritePixels 生成边长为 size 的径向衰减贴图（预乘 RGBA）
//
// 中心 alpha 为 1，沿半径线性衰减到边缘为 0，对应 canvas 上
// 两个色标 (0: c, 1: transparent) 的径向渐变。
func RadialSpritePixels(size int) []byte {
	pix := make([]byte, size*size*4)
	center := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - center
			dy := float64(y) + 0.5 - center
			a := 1 - math.Sqrt(dx*dx+dy*dy)/center
			if a < 0 {
				a = 0
			}
			v := byte(a*255 + 0.5)
			i := (y*size + x) * 4
			pix[i] = v
			pix[i+1] = v
			pix[i+2] = v
			pix[i+3] = v
		}
	}
	return pix
}
