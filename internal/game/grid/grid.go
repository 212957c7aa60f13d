// Package grid 把经纬度平面切成固定大小的格子。
//
// 格子坐标 (I, J) 相对固定原点：I 为行（由南向北），J 为列（由西向东）。
// 只做平面经纬度算术，不处理日期变更线和投影。
package grid

import (
	"math"
	"strconv"

	"github.com/paulmach/orb"
)

// snapEpsilon 以格子为单位：距离网格线小于它的边直接吸附到网格线上，
// 避免 BoundsOf 算出来的边界再算回去时因浮点误差多出一行/一列。
const snapEpsilon = 1e-9

// 超出 int32 的下标视为非法视口，避免 float -> int 溢出。
const maxIndex = math.MaxInt32

// MaxEnumerate 是 CellsInView 一次最多列出的格子数，超过时返回 nil 而不是去分配。
const MaxEnumerate = 1 << 22

type Cell struct {
	I int `json:"i"`
	J int `json:"j"`
}

// Less 按 (I, J) 字典序比较。
func (c Cell) Less(o Cell) bool {
	if c.I != o.I {
		return c.I < o.I
	}
	return c.J < o.J
}

func (c Cell) String() string {
	return strconv.Itoa(c.I) + ":" + strconv.Itoa(c.J)
}

// Viewport 是地图当前可见范围（度）。
type Viewport struct {
	South float64 `json:"south"`
	North float64 `json:"north"`
	West  float64 `json:"west"`
	East  float64 `json:"east"`
}

// Valid 要求四个值有限且面积为正。
func (v Viewport) Valid() bool {
	for _, f := range []float64{v.South, v.North, v.West, v.East} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return v.North > v.South && v.East > v.West
}

// InRange 判断四条边是否都落在纬度 [-90, 90]、经度 [-180, 180] 内。
func (v Viewport) InRange() bool {
	return InRange(v.South, v.West) && InRange(v.North, v.East)
}

// InRange 判断一个点是否是合法经纬度，NaN/Inf 都不合法。
func InRange(lat, lng float64) bool {
	return math.Abs(lat) <= 90 && math.Abs(lng) <= 180
}

func (v Viewport) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{v.West, v.South},
		Max: orb.Point{v.East, v.North},
	}
}

// ViewportFromBound 是 Bound 的逆操作。
func ViewportFromBound(b orb.Bound) Viewport {
	return Viewport{South: b.Min.Lat(), North: b.Max.Lat(), West: b.Min.Lon(), East: b.Max.Lon()}
}

type Indexer struct {
	originLat float64
	originLng float64
	tile      float64
}

// NewIndexer tile 必须为正，由配置校验保证。
func NewIndexer(originLat, originLng, tileDegrees float64) *Indexer {
	return &Indexer{
		originLat: originLat,
		originLng: originLng,
		tile:      tileDegrees,
	}
}

func (x *Indexer) TileDegrees() float64 {
	return x.tile
}

// BoundsOf 返回格子的经纬度矩形：Min={west,south}，Max={east,north}。
func (x *Indexer) BoundsOf(c Cell) orb.Bound {
	return orb.Bound{
		Min: orb.Point{x.originLng + float64(c.J)*x.tile, x.originLat + float64(c.I)*x.tile},
		Max: orb.Point{x.originLng + float64(c.J+1)*x.tile, x.originLat + float64(c.I+1)*x.tile},
	}
}

// CellAt 返回包含该点的格子，落在网格线上的点归北/东侧的格子。
func (x *Indexer) CellAt(lat, lng float64) Cell {
	return Cell{
		I: int(math.Floor(x.index(lat, x.originLat))),
		J: int(math.Floor(x.index(lng, x.originLng))),
	}
}

// Span 返回与视口有正面积交集的下标闭区间；非法或零面积视口 ok=false。
func (x *Indexer) Span(v Viewport) (iMin, iMax, jMin, jMax int, ok bool) {
	if !v.Valid() {
		return 0, 0, 0, 0, false
	}
	fiMin := math.Floor(x.index(v.South, x.originLat))
	fiMax := math.Ceil(x.index(v.North, x.originLat)) - 1
	fjMin := math.Floor(x.index(v.West, x.originLng))
	fjMax := math.Ceil(x.index(v.East, x.originLng)) - 1
	for _, f := range []float64{fiMin, fiMax, fjMin, fjMax} {
		if math.Abs(f) > maxIndex {
			return 0, 0, 0, 0, false
		}
	}
	if fiMax < fiMin || fjMax < fjMin {
		return 0, 0, 0, 0, false
	}
	return int(fiMin), int(fiMax), int(fjMin), int(fjMax), true
}

// CountInView 不分配内存地算出视口覆盖的格子数，用于限流。
// 用 float64 相乘，超过 int 能表示的范围时饱和为 math.MaxInt。
func (x *Indexer) CountInView(v Viewport) int {
	iMin, iMax, jMin, jMax, ok := x.Span(v)
	if !ok {
		return 0
	}
	rows := float64(iMax) - float64(iMin) + 1
	cols := float64(jMax) - float64(jMin) + 1
	if n := rows * cols; n < float64(math.MaxInt) {
		return int(n)
	}
	return math.MaxInt
}

// CellsInView 按行优先（先南后北、先西后东）列出视口覆盖的全部格子，每个只出现一次。
// 格子数超过 MaxEnumerate 时返回 nil，调用方应先用 CountInView 限流。
func (x *Indexer) CellsInView(v Viewport) []Cell {
	n := x.CountInView(v)
	if n == 0 || n > MaxEnumerate {
		return nil
	}
	iMin, iMax, jMin, jMax, _ := x.Span(v)
	out := make([]Cell, 0, n)
	for i := iMin; i <= iMax; i++ {
		for j := jMin; j <= jMax; j++ {
			out = append(out, Cell{I: i, J: j})
		}
	}
	return out
}

func (x *Indexer) index(v, origin float64) float64 {
	q := (v - origin) / x.tile
	if r := math.Round(q); math.Abs(q-r) < snapEpsilon {
		return r
	}
	return q
}
