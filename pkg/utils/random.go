package utils

import "math/rand"

// RandRange 返回 [min, max) 区间内的均匀随机数
//
// rng 由调用方持有，测试中可传入固定种子的 *rand.Rand 获得确定性结果。
func RandRange(rng *rand.Rand, min, max float64) float64 {
	return rng.Float64()*(max-min) + min
}

// Jitter 返回 (rand - 0.5) * strength，用于每帧的随机游走扰动
func Jitter(rng *rand.Rand, strength float64) float64 {
	return (rng.Float64() - 0.5) * strength
}
