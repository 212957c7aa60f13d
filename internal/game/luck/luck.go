// Package luck 把任意字符串映射成 [0,1) 上可复现的伪随机数。
package luck

import "github.com/cespare/xxhash/v2"

// Func 是可替换的种子函数，测试里用来钉住某个格子的掷骰结果。
type Func func(seed string) float64

// Luck 取 xxhash64 的高 53 位作为尾数，结果严格小于 1。
func Luck(seed string) float64 {
	return float64(xxhash.Sum64String(seed)>>11) / (1 << 53)
}
