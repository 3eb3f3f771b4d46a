package domain

import (
	"math"
	"testing"
)

func TestSkill_PerfectSeries(t *testing.T) {
	model := []float64{1, 2, 3, 4, 5}
	obs := []float64{1, 2, 3, 4, 5}
	s := Skill(model, obs)
	if math.Abs(s.Bias) > 1e-9 {
		t.Errorf("bias: expected 0, got %v", s.Bias)
	}
	if math.Abs(s.RMSE) > 1e-9 {
		t.Errorf("rmse: expected 0, got %v", s.RMSE)
	}
	if math.Abs(s.Corr-1.0) > 1e-9 {
		t.Errorf("correlation: expected 1.0, got %v", s.Corr)
	}
	if s.N != 5 {
		t.Errorf("n: expected 5, got %d", s.N)
	}
}

func TestSkill_ConstantOffset(t *testing.T) {
	model := []float64{3, 4, 5}
	obs := []float64{1, 2, 3}
	s := Skill(model, obs)
	if math.Abs(s.Bias-2.0) > 1e-9 {
		t.Errorf("bias: expected 2.0, got %v", s.Bias)
	}
	if math.Abs(s.RMSE-2.0) > 1e-9 {
		t.Errorf("rmse: expected 2.0, got %v", s.RMSE)
	}
}

func TestSkill_MissingPairsExcluded(t *testing.T) {
	nan := math.NaN()
	model := []float64{1, nan, 3, 4}
	obs := []float64{1, 2, nan, 4}
	s := Skill(model, obs)
	if s.N != 2 {
		t.Errorf("n: expected 2 co-valid samples, got %d", s.N)
	}
	if math.Abs(s.Bias) > 1e-9 {
		t.Errorf("bias over co-valid samples: expected 0, got %v", s.Bias)
	}
}

func TestSkill_ZeroVarianceCorrelationMissing(t *testing.T) {
	model := []float64{2, 2, 2}
	obs := []float64{1, 2, 3}
	s := Skill(model, obs)
	if !IsMissing(s.Corr) {
		t.Errorf("zero-variance correlation: expected missing, got %v", s.Corr)
	}
}

func TestTrend_PerfectLine(t *testing.T) {
	times := []float64{2000, 2001, 2002, 2003, 2004}
	values := []float64{1, 2, 3, 4, 5}
	r := Trend(times, values)
	if math.Abs(r.SlopePerDecade-10.0) > 1e-9 {
		t.Errorf("slope per decade: expected 10.0, got %v", r.SlopePerDecade)
	}
	if r.PValue > 1e-9 {
		t.Errorf("p-value of exact line: expected ~0, got %v", r.PValue)
	}
	if r.N != 5 {
		t.Errorf("n: expected 5, got %d", r.N)
	}
}

func TestTrend_TooFewSamples(t *testing.T) {
	r := Trend([]float64{2000, 2001}, []float64{1, 2})
	if !IsMissing(r.SlopePerDecade) || !IsMissing(r.PValue) {
		t.Errorf("n<3: expected missing slope and p-value, got %v p=%v", r.SlopePerDecade, r.PValue)
	}
}

func TestTrend_NoisySlopeSignificance(t *testing.T) {
	// Strong trend with small noise: significant at any sensible alpha.
	times := make([]float64, 20)
	values := make([]float64, 20)
	for i := range times {
		times[i] = float64(2000 + i)
		noise := 0.1 * math.Sin(float64(i))
		values[i] = 2*float64(i) + noise
	}
	r := Trend(times, values)
	if math.Abs(r.SlopePerDecade-20) > 1.0 {
		t.Errorf("slope per decade: expected ~20, got %v", r.SlopePerDecade)
	}
	if !(r.PValue < 0.01) {
		t.Errorf("expected significant trend, p=%v", r.PValue)
	}
}

func TestTrend_MissingValuesSkipped(t *testing.T) {
	nan := math.NaN()
	times := []float64{2000, 2001, 2002, 2003}
	values := []float64{1, nan, 3, 4}
	r := Trend(times, values)
	if r.N != 3 {
		t.Errorf("n: expected 3, got %d", r.N)
	}
	if math.Abs(r.SlopePerDecade-10) > 1e-9 {
		t.Errorf("slope per decade: expected 10, got %v", r.SlopePerDecade)
	}
}

func TestSpatialCorrelation(t *testing.T) {
	a := [][]float64{{1, 2}, {3, 4}}
	b := [][]float64{{2, 4}, {6, 8}}
	w := [][]float64{{1, 1}, {1, 1}}
	got := SpatialCorrelation(a, b, w)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("proportional maps: expected correlation 1.0, got %v", got)
	}
}

func TestSpatialCorrelation_Degenerate(t *testing.T) {
	flat := [][]float64{{5, 5}, {5, 5}}
	vary := [][]float64{{1, 2}, {3, 4}}
	w := [][]float64{{1, 1}, {1, 1}}
	if got := SpatialCorrelation(flat, vary, w); !IsMissing(got) {
		t.Errorf("zero-variance map: expected missing, got %v", got)
	}

	nan := math.NaN()
	sparse := [][]float64{{1, nan}, {nan, nan}}
	if got := SpatialCorrelation(sparse, vary, w); !IsMissing(got) {
		t.Errorf("single valid cell: expected missing, got %v", got)
	}
}
