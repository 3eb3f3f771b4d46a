package domain

import "math"

// PoleHoleFill fills the satellite coverage gap around a pole. Cells
// poleward of LatThreshold (by absolute latitude) that are missing after
// range masking are set to Value, conventionally the physical maximum of
// the variable (100 for concentration). This is a climatological
// assumption, not a measurement.
type PoleHoleFill struct {
	LatThreshold float64
	Value        float64
}

// MaskOptions configures the validity rules applied to one field slice.
// Rules are per call, not global: each variable type builds its own options.
type MaskOptions struct {
	// ValidMin/ValidMax bound the physically plausible range, inclusive.
	// Values outside become missing.
	ValidMin, ValidMax float64

	// MaskNonPositive marks values <= 0 as missing before the range check.
	// Concentration products encode land this way.
	MaskNonPositive bool

	// LandEpsilon, when positive, marks |v| < LandEpsilon as missing.
	// Ocean temperature products use exact zero as a land/ice sentinel.
	LandEpsilon float64

	// PoleHole, when set, fills polar-gap cells after range masking.
	PoleHole *PoleHoleFill

	// FillMissingWith, when set, replaces every cell still missing after
	// all other rules with the given value.
	//
	// WARNING: for ice concentration this is the open-water policy — it
	// deliberately converts "no data" into "0% ice". It is a scientific
	// assumption carried over from the observational processing chain, not
	// a neutral default. Leave nil for variables where missing must stay
	// missing (temperature).
	FillMissingWith *float64
}

// ConcentrationMask returns the masking rules for sea-ice concentration on
// the 0-100 scale: land and unphysical values removed, pole hole filled
// with 100, all remaining gaps treated as open water.
func ConcentrationMask(poleHoleLat float64) MaskOptions {
	zero := 0.0
	return MaskOptions{
		ValidMin:        0,
		ValidMax:        100,
		MaskNonPositive: true,
		PoleHole:        &PoleHoleFill{LatThreshold: poleHoleLat, Value: 100},
		FillMissingWith: &zero,
	}
}

// TemperatureMask returns the masking rules for temperature in degrees
// Celsius. Missing cells stay missing; downstream reductions skip them.
func TemperatureMask() MaskOptions {
	return MaskOptions{
		ValidMin:    -5,
		ValidMax:    50,
		LandEpsilon: 1e-4,
	}
}

// ApplyMask returns a new slice with the masking rules applied. lat supplies
// the row latitudes for the pole-hole rule; it may be nil when PoleHole is
// unset. The input is never modified.
func ApplyMask(data [][]float64, lat []float64, opts MaskOptions) [][]float64 {
	out := CopySlice(data)
	for i := range out {
		for j, v := range out[i] {
			if IsMissing(v) {
				continue
			}
			if opts.MaskNonPositive && v <= 0 {
				out[i][j] = Missing()
				continue
			}
			if opts.LandEpsilon > 0 && math.Abs(v) < opts.LandEpsilon {
				out[i][j] = Missing()
				continue
			}
			if v < opts.ValidMin || v > opts.ValidMax {
				out[i][j] = Missing()
			}
		}
	}
	if opts.PoleHole != nil && lat != nil {
		for i := range out {
			if math.Abs(lat[i]) <= opts.PoleHole.LatThreshold {
				continue
			}
			for j := range out[i] {
				if IsMissing(out[i][j]) {
					out[i][j] = opts.PoleHole.Value
				}
			}
		}
	}
	if opts.FillMissingWith != nil {
		for i := range out {
			for j := range out[i] {
				if IsMissing(out[i][j]) {
					out[i][j] = *opts.FillMissingWith
				}
			}
		}
	}
	return out
}

// MaskField applies the same rules to every time slice of a field.
func MaskField(f *Field, opts MaskOptions) *Field {
	data := make([][][]float64, len(f.Data))
	for t, slice := range f.Data {
		data[t] = ApplyMask(slice, f.Grid.Lat, opts)
	}
	return &Field{Grid: f.Grid, Time: f.Time, Data: data, Unit: f.Unit}
}
