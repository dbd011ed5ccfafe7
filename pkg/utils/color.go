package utils

import (
	"fmt"
	"image/color"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Accent 强调色
//
// 粒子、连线、光晕、背景光斑共用同一组 RGB，只有透明度不同。
type Accent struct {
	R, G, B uint8
}

// DefaultAccent 默认强调色 (88, 166, 255)
var DefaultAccent = Accent{R: 88, G: 166, B: 255}

// ParseAccent 解析十六进制颜色（如 "#58a6ff"）
func ParseAccent(hex string) (Accent, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Accent{}, fmt.Errorf("invalid accent color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return Accent{R: r, G: g, B: b}, nil
}

// WithAlpha 返回带透明度的颜色（非预乘），alpha 会被限制在 [0, 1]
func (a Accent) WithAlpha(alpha float64) color.Color {
	alpha = Clamp01(alpha)
	// 16 位精度，避免 0.03 这类很淡的透明度出现色带
	return color.NRGBA64{
		R: uint16(a.R) * 0x101,
		G: uint16(a.G) * 0x101,
		B: uint16(a.B) * 0x101,
		A: uint16(alpha*0xffff + 0.5),
	}
}

// Hex 返回 "#rrggbb" 形式
func (a Accent) Hex() string {
	return colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}.Hex()
}

// CSS 返回 "rgba(r,g,b,a)" 形式，用于日志与调试输出
func (a Accent) CSS(alpha float64) string {
	return "rgba(" + strconv.Itoa(int(a.R)) + "," + strconv.Itoa(int(a.G)) + "," +
		strconv.Itoa(int(a.B)) + "," + strconv.FormatFloat(alpha, 'f', -1, 64) + ")"
}

// Clamp01 将值限制在 [0, 1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
