package domain

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SkillScores compares a model series against observations over the indices
// valid in both.
type SkillScores struct {
	MeanModel float64
	MeanObs   float64
	Bias      float64
	RMSE      float64
	Corr      float64
	N         int
}

// TrendResult is an ordinary-least-squares trend with its significance.
type TrendResult struct {
	SlopePerDecade float64 // Slope in units per decade (per-year slope x 10).
	PValue         float64 // Two-sided t-test p-value, n-2 degrees of freedom.
	Intercept      float64
	N              int
}

// validPairs extracts the co-valid samples of two equal-length series.
func validPairs(model, obs []float64) (m, o []float64) {
	for i := range model {
		if IsMissing(model[i]) || IsMissing(obs[i]) {
			continue
		}
		m = append(m, model[i])
		o = append(o, obs[i])
	}
	return m, o
}

// Skill computes bias, RMSE and Pearson correlation over the co-valid
// samples of the two series. Correlation is missing when fewer than two
// valid pairs exist or either series has zero variance.
func Skill(model, obs []float64) SkillScores {
	m, o := validPairs(model, obs)
	s := SkillScores{N: len(m), Bias: Missing(), RMSE: Missing(), Corr: Missing(), MeanModel: Missing(), MeanObs: Missing()}
	if len(m) == 0 {
		return s
	}
	s.MeanModel = stat.Mean(m, nil)
	s.MeanObs = stat.Mean(o, nil)
	var sumDiff, sumSq float64
	for i := range m {
		d := m[i] - o[i]
		sumDiff += d
		sumSq += d * d
	}
	s.Bias = sumDiff / float64(len(m))
	s.RMSE = math.Sqrt(sumSq / float64(len(m)))
	if len(m) >= 2 && stat.Variance(m, nil) > 0 && stat.Variance(o, nil) > 0 {
		s.Corr = stat.Correlation(m, o, nil)
	}
	return s
}

// SpatialCorrelation computes the Pearson correlation of two maps over
// their co-valid cells, weighted by the given spatial weights. Missing when
// fewer than two valid cells or either map has zero weighted variance.
func SpatialCorrelation(a, b, weights [][]float64) float64 {
	var xs, ys, ws []float64
	for i := range a {
		for j := range a[i] {
			va, vb, w := a[i][j], b[i][j], weights[i][j]
			if IsMissing(va) || IsMissing(vb) || IsMissing(w) || w <= 0 {
				continue
			}
			xs = append(xs, va)
			ys = append(ys, vb)
			ws = append(ws, w)
		}
	}
	if len(xs) < 2 {
		return Missing()
	}
	if stat.Variance(xs, ws) == 0 || stat.Variance(ys, ws) == 0 {
		return Missing()
	}
	return stat.Correlation(xs, ys, ws)
}

// Trend fits value = intercept + slope*time by ordinary least squares over
// the valid samples and reports the slope per decade with a two-sided
// t-test p-value on n-2 degrees of freedom. times are in years (fractional
// allowed). Fewer than three valid samples yields NaN results.
func Trend(times, values []float64) TrendResult {
	var xs, ys []float64
	for i := range values {
		if IsMissing(values[i]) || IsMissing(times[i]) {
			continue
		}
		xs = append(xs, times[i])
		ys = append(ys, values[i])
	}
	r := TrendResult{SlopePerDecade: Missing(), PValue: Missing(), Intercept: Missing(), N: len(xs)}
	if len(xs) < 3 {
		return r
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	n := float64(len(xs))
	xMean := stat.Mean(xs, nil)
	var sse, sxx float64
	for i := range xs {
		resid := ys[i] - (alpha + beta*xs[i])
		sse += resid * resid
		dx := xs[i] - xMean
		sxx += dx * dx
	}
	if sxx == 0 {
		return r
	}
	r.Intercept = alpha
	r.SlopePerDecade = beta * 10

	se := math.Sqrt(sse / (n - 2) / sxx)
	if se == 0 {
		// Perfect fit: the slope is exactly determined.
		r.PValue = 0
		return r
	}
	t := beta / se
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: n - 2}
	r.PValue = 2 * dist.CDF(-math.Abs(t))
	return r
}

// StatisticsReport is the flat record handed to the report emitter.
type StatisticsReport struct {
	Variable string
	Unit     string
	Period   string

	Scores    SkillScores
	TrendMod  TrendResult
	TrendObs  TrendResult
	SpatCorr  float64
	YearsList []int
	Model     []float64
	Obs       []float64
}
