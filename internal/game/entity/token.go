package entity

import "strconv"

// Token 只有面值，面值相同的两枚代币可互换。
type Token int

// Slot 是一个最多装一枚代币的槽位：背包和每个缓存点各一个。
// 零值为空槽。
type Slot struct {
	token   Token
	holding bool
}

func Empty() Slot {
	return Slot{}
}

func Holding(t Token) Slot {
	return Slot{token: t, holding: true}
}

func (s Slot) IsEmpty() bool {
	return !s.holding
}

// Token 返回槽内代币，空槽返回 (0, false)。
func (s Slot) Token() (Token, bool) {
	return s.token, s.holding
}

// Value 空槽为 0，便于求和与序列化。
func (s Slot) Value() int {
	if !s.holding {
		return 0
	}
	return int(s.token)
}

func (s Slot) String() string {
	if !s.holding {
		return "empty"
	}
	return strconv.Itoa(int(s.token))
}
