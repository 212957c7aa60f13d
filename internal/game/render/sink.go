// Package render 定义核心向外推送显示状态的边界，以及几个通用实现。
package render

import (
	"strconv"

	"Geocache/internal/game/entity"
	"Geocache/internal/game/grid"
)

// Sink 接收背包和格子显示文本的变化，自身不含业务逻辑。
type Sink interface {
	OnInventoryChanged(text string)
	OnCacheChanged(cell grid.Cell, text string)
}

// Factory 为会话构造绑定到该会话的 Sink。
type Factory func(sid entity.SessionID) Sink

const emptyInventoryText = "No held tokens."

// InventoryText 背包显示文本。
func InventoryText(s entity.Slot) string {
	v, ok := s.Token()
	if !ok {
		return emptyInventoryText
	}
	return "Held token: " + strconv.Itoa(int(v))
}

// CacheText 格子图标文本，空槽为空串。
func CacheText(s entity.Slot) string {
	v, ok := s.Token()
	if !ok {
		return ""
	}
	return strconv.Itoa(int(v))
}

// Publish 把一次交换的结果推给 sink。被拒绝的交换不推送。
func Publish(s Sink, o entity.Outcome) {
	if s == nil || o.Rejected {
		return
	}
	s.OnInventoryChanged(InventoryText(o.InventoryAfter))
	s.OnCacheChanged(o.Cell, CacheText(o.CacheAfter))
}

type nop struct{}

func (nop) OnInventoryChanged(string)        {}
func (nop) OnCacheChanged(grid.Cell, string) {}

func Nop() Sink { return nop{} }

// NopFactory 给每个会话都返回 Nop。
func NopFactory(entity.SessionID) Sink { return nop{} }

type multi []Sink

func (m multi) OnInventoryChanged(text string) {
	for _, s := range m {
		s.OnInventoryChanged(text)
	}
}

func (m multi) OnCacheChanged(cell grid.Cell, text string) {
	for _, s := range m {
		s.OnCacheChanged(cell, text)
	}
}

// Multi 依次转发给每个非 nil 的 sink。
func Multi(sinks ...Sink) Sink {
	out := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// MultiFactory 组合多个 Factory。
func MultiFactory(factories ...Factory) Factory {
	return func(sid entity.SessionID) Sink {
		sinks := make([]Sink, 0, len(factories))
		for _, f := range factories {
			if f != nil {
				sinks = append(sinks, f(sid))
			}
		}
		return Multi(sinks...)
	}
}
