package luck

import (
	"strconv"
	"testing"
)

func TestLuck_同一种子结果稳定(t *testing.T) {
	for _, seed := range []string{"", "0:0", "-3:17", "36.99,-122.05"} {
		a, b := Luck(seed), Luck(seed)
		if a != b {
			t.Fatalf("seed=%q 两次结果不同: %v vs %v", seed, a, b)
		}
		if a < 0 || a >= 1 {
			t.Fatalf("seed=%q 超出 [0,1): %v", seed, a)
		}
	}
}

func TestLuck_分布大致均匀(t *testing.T) {
	const n = 20000
	var buckets [10]int
	for i := 0; i < n; i++ {
		buckets[int(Luck(strconv.Itoa(i))*10)]++
	}
	for b, c := range buckets {
		if c < n/10*8/10 || c > n/10*12/10 {
			t.Fatalf("第 %d 个桶计数异常: %d", b, c)
		}
	}
}
