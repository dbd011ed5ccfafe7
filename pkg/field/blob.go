package field

import (
	"math"
	"math/rand"
	"time"

	"github.com/decker502/herofx/pkg/utils"
)

// Blob 背景环境光斑
//
// 与粒子无关，没有物理状态，位置只是时间的函数，
// 始终落在视口比例 [0.2, 0.8] 范围内。
type Blob struct {
	Radius       float64
	FreqX, FreqY float64 // 每毫秒弧度
	PhaseX       float64
	PhaseY       float64
	Alpha        float64
}

// NewBlobs 创建 n 个随机光斑
func NewBlobs(n int, alpha float64, rng *rand.Rand) []Blob {
	blobs := make([]Blob, 0, n)
	for i := 0; i < n; i++ {
		blobs = append(blobs, Blob{
			Radius: utils.RandRange(rng, 200, 400),
			FreqX:  utils.RandRange(rng, 0.0003, 0.0008),
			FreqY:  utils.RandRange(rng, 0.0004, 0.001),
			PhaseX: utils.RandRange(rng, 0, math.Pi*2),
			PhaseY: utils.RandRange(rng, 0, math.Pi*2),
			Alpha:  alpha,
		})
	}
	return blobs
}

// Position 返回光斑在时刻 t 的中心位置
//
// 中心在视口 [0.2, 0.8] 范围内做正弦摆动：
//
//	x = (0.5 + 0.3·sin(t·fx + px))·W
//	y = (0.5 + 0.3·cos(t·fy + py))·H
func (b Blob) Position(t time.Duration, bounds Bounds) (float64, float64) {
	ms := float64(t) / float64(time.Millisecond)
	x := (0.5 + 0.3*math.Sin(ms*b.FreqX+b.PhaseX)) * bounds.W
	y := (0.5 + 0.3*math.Cos(ms*b.FreqY+b.PhaseY)) * bounds.H
	return x, y
}
