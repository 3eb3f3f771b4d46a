// Package nc reads model and observation fields from NetCDF files.
//
// All readers convert declared fill values to NaN, apply packed-data
// scale/offset attributes, and tolerate the usual zoo of coordinate
// variable names and dimension orders. Anything beyond that (validity
// masking, unit policy) belongs to the callers.
package nc

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/fhs/go-netcdf/netcdf"
)

// ErrInputUnavailable marks a missing required file or variable. It is
// fatal: validation against partial input silently skews every statistic
// downstream.
var ErrInputUnavailable = errors.New("required input unavailable")

// Common coordinate variable name fallbacks.
var (
	DefaultLatNames = []string{"lat", "latitude", "TLAT", "yt", "y"}
	DefaultLonNames = []string{"lon", "longitude", "TLON", "TLONG", "xt", "x"}
)

// GridSpec names the coordinate and area variables of a dataset.
type GridSpec struct {
	LatNames  []string
	LonNames  []string
	AreaNames []string // Optional; empty means no cell-area variable.
	AreaScale float64  // Multiplier applied to the area values (0 means 1).
}

// VarSpec names a data variable with its fallbacks and unit handling.
type VarSpec struct {
	Names  []string // Candidate variable names, tried in order.
	Plus   []string // Optional second variable added cell-wise (e.g. convective + large-scale precipitation).
	Scale  float64  // Multiplier applied after reading (0 means 1).
	Offset float64  // Added after scaling (e.g. -273.15 for K to degC).
	Unit   string   // Unit of the converted result, carried into the Field.
}

func (s VarSpec) scale() float64 {
	if s.Scale == 0 {
		return 1
	}
	return s.Scale
}

// convert applies the spec's unit conversion in place. Missing cells stay
// missing (NaN arithmetic preserves them).
func (s VarSpec) convert(data [][]float64) {
	sc := s.scale()
	if sc == 1 && s.Offset == 0 {
		return
	}
	for i := range data {
		for j := range data[i] {
			data[i][j] = data[i][j]*sc + s.Offset
		}
	}
}

func openFile(path string) (netcdf.Dataset, error) {
	var zero netcdf.Dataset
	if _, err := os.Stat(path); err != nil {
		return zero, fmt.Errorf("%w: %s", ErrInputUnavailable, path)
	}
	ds, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	return ds, nil
}

// findVar returns the first variable matching one of the candidate names.
func findVar(ds netcdf.Dataset, path string, names []string) (netcdf.Var, error) {
	for _, name := range names {
		if v, err := ds.Var(name); err == nil {
			return v, nil
		}
	}
	var zero netcdf.Var
	return zero, fmt.Errorf("%w: none of variables %v in %s", ErrInputUnavailable, names, path)
}

// getNumAttr reads a numeric attribute as float64 across the encodings
// NetCDF writers actually use.
func getNumAttr(v netcdf.Var, name string) (float64, bool) {
	a := v.Attr(name)
	if a == (netcdf.Attr{}) {
		return 0, false
	}
	n, err := a.Len()
	if err != nil || n == 0 {
		return 0, false
	}
	buf64 := make([]float64, 1)
	if err := a.ReadFloat64s(buf64); err == nil {
		return buf64[0], true
	}
	buf32 := make([]float32, 1)
	if err := a.ReadFloat32s(buf32); err == nil {
		return float64(buf32[0]), true
	}
	bufi := make([]int32, 1)
	if err := a.ReadInt32s(bufi); err == nil {
		return float64(bufi[0]), true
	}
	bufs := make([]int16, 1)
	if err := a.ReadInt16s(bufs); err == nil {
		return float64(bufs[0]), true
	}
	return 0, false
}

// getFillValue returns the _FillValue or missing_value attribute if present.
func getFillValue(v netcdf.Var) (float64, bool) {
	for _, name := range []string{"_FillValue", "missing_value"} {
		if fv, ok := getNumAttr(v, name); ok {
			return fv, true
		}
	}
	return 0, false
}

// varShape returns the dimension lengths of a variable.
func varShape(v netcdf.Var) ([]int, error) {
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions: %w", err)
	}
	shape := make([]int, len(dims))
	for i, d := range dims {
		n, err := d.Len()
		if err != nil {
			return nil, fmt.Errorf("failed to get dim %d length: %w", i, err)
		}
		shape[i] = int(n)
	}
	return shape, nil
}

// readFlat reads the whole variable as float64, whatever its storage type,
// then converts fill values to NaN and applies scale_factor/add_offset.
func readFlat(v netcdf.Var, total int) ([]float64, error) {
	t, err := v.Type()
	if err != nil {
		return nil, fmt.Errorf("failed to get var type: %w", err)
	}
	var flat []float64
	switch t {
	case netcdf.DOUBLE:
		flat = make([]float64, total)
		if err := v.ReadFloat64s(flat); err != nil {
			return nil, err
		}
	case netcdf.FLOAT:
		tmp := make([]float32, total)
		if err := v.ReadFloat32s(tmp); err != nil {
			return nil, err
		}
		flat = make([]float64, total)
		for i, val := range tmp {
			flat[i] = float64(val)
		}
	case netcdf.INT:
		tmp := make([]int32, total)
		if err := v.ReadInt32s(tmp); err != nil {
			return nil, err
		}
		flat = make([]float64, total)
		for i, val := range tmp {
			flat[i] = float64(val)
		}
	case netcdf.SHORT:
		tmp := make([]int16, total)
		if err := v.ReadInt16s(tmp); err != nil {
			return nil, err
		}
		flat = make([]float64, total)
		for i, val := range tmp {
			flat[i] = float64(val)
		}
	default:
		return nil, fmt.Errorf("unsupported var type: %v", t)
	}

	fv, hasFill := getFillValue(v)
	scale, hasScale := getNumAttr(v, "scale_factor")
	offset, hasOffset := getNumAttr(v, "add_offset")
	for i, val := range flat {
		if hasFill && val == fv {
			flat[i] = math.NaN()
			continue
		}
		if hasScale {
			val = val * scale
		}
		if hasOffset {
			val += offset
		}
		flat[i] = val
	}
	return flat, nil
}

// read1D reads a 1-D float64 array.
func read1D(v netcdf.Var) ([]float64, error) {
	shape, err := varShape(v)
	if err != nil {
		return nil, err
	}
	if len(shape) != 1 {
		return nil, fmt.Errorf("expected 1D variable, got %dD", len(shape))
	}
	return readFlat(v, shape[0])
}

// read2D reads a 2-D array, transposing when the on-disk order is
// [lon, lat] instead of the expected [lat, lon].
func read2D(v netcdf.Var, nLat, nLon int) ([][]float64, error) {
	shape, err := varShape(v)
	if err != nil {
		return nil, err
	}
	// A leading length-1 time dimension is common in single-slice files.
	if len(shape) == 3 && shape[0] == 1 {
		shape = shape[1:]
	}
	if len(shape) != 2 {
		return nil, fmt.Errorf("expected 2D data, got %dD", len(shape))
	}
	switch {
	case shape[0] == nLat && shape[1] == nLon:
		flat, err := readFlat(v, nLat*nLon)
		if err != nil {
			return nil, err
		}
		return unflatten(flat, nLat, nLon), nil
	case shape[0] == nLon && shape[1] == nLat:
		flat, err := readFlat(v, nLat*nLon)
		if err != nil {
			return nil, err
		}
		return transpose2D(unflatten(flat, nLon, nLat)), nil
	default:
		return nil, fmt.Errorf("dimension mismatch: data is [%d, %d], expected [%d, %d] or [%d, %d]",
			shape[0], shape[1], nLat, nLon, nLon, nLat)
	}
}

// read3D reads a [n0][nLat][nLon] stack (time or depth leading).
func read3D(v netcdf.Var, nLat, nLon int) ([][][]float64, error) {
	shape, err := varShape(v)
	if err != nil {
		return nil, err
	}
	// Tolerate a length-1 extra leading dimension ([time=1, depth, lat, lon]).
	if len(shape) == 4 && shape[0] == 1 {
		shape = shape[1:]
	}
	if len(shape) != 3 {
		return nil, fmt.Errorf("expected 3D data, got %dD", len(shape))
	}
	n0 := shape[0]
	if shape[1] != nLat || shape[2] != nLon {
		return nil, fmt.Errorf("dimension mismatch: data is [%d, %d, %d], expected [*, %d, %d]",
			shape[0], shape[1], shape[2], nLat, nLon)
	}
	flat, err := readFlat(v, n0*nLat*nLon)
	if err != nil {
		return nil, err
	}
	out := make([][][]float64, n0)
	for k := 0; k < n0; k++ {
		out[k] = unflatten(flat[k*nLat*nLon:(k+1)*nLat*nLon], nLat, nLon)
	}
	return out, nil
}

func unflatten(flat []float64, nRows, nCols int) [][]float64 {
	values := make([][]float64, nRows)
	for i := 0; i < nRows; i++ {
		values[i] = flat[i*nCols : (i+1)*nCols]
	}
	return values
}

// transpose2D transposes a 2D array.
func transpose2D(data [][]float64) [][]float64 {
	if len(data) == 0 {
		return data
	}
	nRows := len(data)
	nCols := len(data[0])
	transposed := make([][]float64, nCols)
	for i := 0; i < nCols; i++ {
		transposed[i] = make([]float64, nRows)
		for j := 0; j < nRows; j++ {
			transposed[i][j] = data[j][i]
		}
	}
	return transposed
}
