package service

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeoJSON 把视图里需要画出来的格子（生成过或当前有代币）转成 FeatureCollection。
func (s *GameService) GeoJSON(v *View) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if v == nil {
		return fc
	}
	for _, c := range v.Cells {
		if !c.Visible {
			continue
		}
		b := orb.Bound{
			Min: orb.Point{c.Bounds[1], c.Bounds[0]},
			Max: orb.Point{c.Bounds[3], c.Bounds[2]},
		}
		f := geojson.NewFeature(b.ToPolygon())
		f.Properties["i"] = c.I
		f.Properties["j"] = c.J
		f.Properties["value"] = c.Value
		f.Properties["label"] = c.Text
		fc.Append(f)
	}
	return fc
}
