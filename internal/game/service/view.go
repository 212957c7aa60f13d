package service

import (
	"github.com/paulmach/orb"

	"Geocache/internal/game/entity"
	"Geocache/internal/game/grid"
	"Geocache/internal/game/render"
)

// CellView 是对外展示的单个格子。
type CellView struct {
	I       int        `json:"i"`
	J       int        `json:"j"`
	Bounds  [4]float64 `json:"bounds"` // south, west, north, east
	Center  [2]float64 `json:"center"` // lat, lng
	Value   int        `json:"value"`
	Text    string     `json:"text"`
	Spawned bool       `json:"spawned"`
	Visible bool       `json:"visible"`
}

type View struct {
	Viewport  grid.Viewport `json:"viewport"`
	Cells     []CellView    `json:"cells"`
	Inventory InventoryView `json:"inventory"`
}

type InventoryView struct {
	Value int    `json:"value"`
	Text  string `json:"text"`
}

type ExchangeView struct {
	Cell      CellView      `json:"cell"`
	Inventory InventoryView `json:"inventory"`
	Rejected  bool          `json:"rejected"`
}

type LocateView struct {
	Lat  float64  `json:"lat"`
	Lng  float64  `json:"lng"`
	Cell CellView `json:"cell"`
}

func boundsArray(b orb.Bound) [4]float64 {
	return [4]float64{b.Min.Lat(), b.Min.Lon(), b.Max.Lat(), b.Max.Lon()}
}

func toInventoryView(s entity.Slot) InventoryView {
	return InventoryView{Value: s.Value(), Text: render.InventoryText(s)}
}

func (s *GameService) cellView(cell grid.Cell, slot entity.Slot, spawned bool) CellView {
	b := s.indexer.BoundsOf(cell)
	c := b.Center()
	return CellView{
		I:       cell.I,
		J:       cell.J,
		Bounds:  boundsArray(b),
		Center:  [2]float64{c.Lat(), c.Lon()},
		Value:   slot.Value(),
		Text:    render.CacheText(slot),
		Spawned: spawned,
		Visible: spawned || !slot.IsEmpty(),
	}
}

func (s *GameService) cacheView(c *entity.Cache) CellView {
	return s.cellView(c.Cell(), c.Slot(), c.Spawned())
}
