package utils

import (
	"math/rand/v2"
)

// RandomSource 生成算法需要的最小随机能力
// 选行、采样等纯函数依赖这个接口，测试可以注入固定序列
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

// RandomStream 确定性伪随机流
//
// 同一个种子总是产生相同的序列（PCG，不依赖全局随机状态），
// 障碍物和星星各自持有独立的流，关闭其中一个不会扰动另一个。
type RandomStream struct {
	seed  int64
	r     *rand.Rand
	draws int
}

// NewRandomStream 用种子创建随机流
func NewRandomStream(seed int64) *RandomStream {
	return &RandomStream{
		seed: seed,
		r:    rand.New(rand.NewPCG(uint64(seed), seedStream(seed))),
	}
}

// seedStream 由种子派生 PCG 的第二个状态字（splitmix64）
func seedStream(seed int64) uint64 {
	z := uint64(seed) + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Seed 返回创建时的种子
func (s *RandomStream) Seed() int64 {
	return s.seed
}

// Draws 返回已消耗的随机数个数（调试用）
func (s *RandomStream) Draws() int {
	return s.draws
}

// Float64 返回 [0, 1) 均匀分布
func (s *RandomStream) Float64() float64 {
	s.draws++
	return s.r.Float64()
}

// IntN 返回 [0, n) 均匀整数，n ≤ 0 时返回 0
func (s *RandomStream) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	s.draws++
	return s.r.IntN(n)
}

// Range 返回 [lo, hi] 均匀分布；hi ≤ lo 时直接返回 lo（仍消耗一次随机数以保持序列稳定）
func (s *RandomStream) Range(lo, hi float64) float64 {
	u := s.Float64()
	if hi <= lo {
		return lo
	}
	return lo + u*(hi-lo)
}

// Chance 以概率 p 返回 true
func (s *RandomStream) Chance(p float64) bool {
	return s.Float64() < p
}
