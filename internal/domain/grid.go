// Package domain holds the core value types and pure numeric routines of the
// validation pipelines: grids, fields, time indexing, masking, climatology,
// weighted reductions and skill statistics.
//
// Missing data is represented as NaN throughout. Ingestion converts whatever
// sentinel an input file declares into NaN, and every routine in this package
// treats NaN as "no data" rather than a number.
package domain

import (
	"fmt"
	"math"
)

// IsMissing reports whether v is the missing-data marker.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Missing returns the missing-data marker.
func Missing() float64 {
	return math.NaN()
}

// Grid is a rectilinear latitude/longitude grid with an optional per-cell
// area array. Curvilinear model grids are reduced to rectilinear axes during
// coordinate normalization before a Grid is built.
type Grid struct {
	Lat []float64 // Ascending latitudes, degrees north.
	Lon []float64 // Ascending longitudes, degrees east in [0, 360).

	// Area holds grid-cell areas indexed [lat][lon]. Nil means no area
	// field was provided; CellWeights falls back to cosine-latitude weights.
	Area [][]float64
}

// NewGrid validates the axes and builds a Grid. Latitudes must be finite and
// monotonically non-decreasing; longitudes finite and strictly increasing
// (callers normalize the convention first). Area, when present, must be
// shaped [len(lat)][len(lon)].
func NewGrid(lat, lon []float64, area [][]float64) (*Grid, error) {
	if len(lat) < 2 {
		return nil, fmt.Errorf("grid must have at least 2 latitudes, got %d", len(lat))
	}
	if len(lon) < 2 {
		return nil, fmt.Errorf("grid must have at least 2 longitudes, got %d", len(lon))
	}
	for i, v := range lat {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("latitude[%d] is not finite", i)
		}
		if i > 0 && v < lat[i-1] {
			return nil, fmt.Errorf("latitudes must be non-decreasing: lat[%d]=%.4f < lat[%d]=%.4f", i, v, i-1, lat[i-1])
		}
	}
	for i, v := range lon {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("longitude[%d] is not finite", i)
		}
		if i > 0 && v <= lon[i-1] {
			return nil, fmt.Errorf("longitudes must be strictly increasing at index %d", i)
		}
	}
	if area != nil {
		if len(area) != len(lat) {
			return nil, fmt.Errorf("area has %d rows, expected %d", len(area), len(lat))
		}
		for i, row := range area {
			if len(row) != len(lon) {
				return nil, fmt.Errorf("area row %d has %d cells, expected %d", i, len(row), len(lon))
			}
		}
	}
	return &Grid{Lat: lat, Lon: lon, Area: area}, nil
}

// NLat returns the number of latitude rows.
func (g *Grid) NLat() int { return len(g.Lat) }

// NLon returns the number of longitude columns.
func (g *Grid) NLon() int { return len(g.Lon) }

// CellWeights returns the spatial weight array for reductions on this grid:
// the cell areas when present, otherwise cosine-latitude weights broadcast
// across the longitude axis.
func (g *Grid) CellWeights() [][]float64 {
	if g.Area != nil {
		return g.Area
	}
	return CosLatWeights(g.Lat, len(g.Lon))
}

// Field is a time-indexed stack of 2-D maps bound to one Grid.
// Data is indexed [time][lat][lon].
type Field struct {
	Grid *Grid
	Time TimeIndex
	Data [][][]float64
	Unit string
}

// NewField validates shape compatibility between data, grid and time index.
func NewField(g *Grid, ti TimeIndex, data [][][]float64, unit string) (*Field, error) {
	if g == nil {
		return nil, fmt.Errorf("field requires a grid")
	}
	if len(data) != len(ti) {
		return nil, fmt.Errorf("field has %d time slices but time index has %d entries", len(data), len(ti))
	}
	for t, slice := range data {
		if len(slice) != g.NLat() {
			return nil, fmt.Errorf("slice %d has %d rows, expected %d", t, len(slice), g.NLat())
		}
		for i, row := range slice {
			if len(row) != g.NLon() {
				return nil, fmt.Errorf("slice %d row %d has %d cells, expected %d", t, i, len(row), g.NLon())
			}
		}
	}
	return &Field{Grid: g, Time: ti, Data: data, Unit: unit}, nil
}

// Slice returns the map at time step t.
func (f *Field) Slice(t int) [][]float64 { return f.Data[t] }

// LevelSet describes the vertical geometry of a 3-D ocean field: layer
// center depths and the face (interface) depths bounding each layer.
type LevelSet struct {
	Centers []float64 // Layer center depths, meters, surface to bottom.
	Faces   []float64 // Interface depths; len(Faces) == len(Centers)+1.
}

// NewLevelSet validates that face depths strictly increase from surface to
// bottom and bound every layer center.
func NewLevelSet(centers, faces []float64) (*LevelSet, error) {
	if len(faces) != len(centers)+1 {
		return nil, fmt.Errorf("level set needs %d faces for %d centers, got %d", len(centers)+1, len(centers), len(faces))
	}
	for i := 1; i < len(faces); i++ {
		if faces[i] <= faces[i-1] {
			return nil, fmt.Errorf("face depths must strictly increase: face[%d]=%.2f <= face[%d]=%.2f", i, faces[i], i-1, faces[i-1])
		}
	}
	return &LevelSet{Centers: centers, Faces: faces}, nil
}

// NLevels returns the number of layers.
func (ls *LevelSet) NLevels() int { return len(ls.Centers) }

// Thickness returns the thickness of layer k in meters.
func (ls *LevelSet) Thickness(k int) float64 {
	return ls.Faces[k+1] - ls.Faces[k]
}

// NewSlice allocates an all-missing map of the given shape.
func NewSlice(nLat, nLon int) [][]float64 {
	s := make([][]float64, nLat)
	for i := range s {
		s[i] = make([]float64, nLon)
		for j := range s[i] {
			s[i][j] = Missing()
		}
	}
	return s
}

// CopySlice returns a deep copy of a map.
func CopySlice(src [][]float64) [][]float64 {
	out := make([][]float64, len(src))
	for i, row := range src {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}
