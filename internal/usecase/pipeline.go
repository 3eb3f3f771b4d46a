// Package usecase wires the four validation pipelines: sea-ice
// concentration, precipitation, surface air temperature and 3-D ocean
// temperature. Each pipeline is a linear batch run: load, normalize, mask,
// align grids, reduce, estimate, report.
package usecase

import (
	"fmt"
	"log"

	"github.com/polarmet/climval/internal/domain"
)

// YearRange is an inclusive calendar year range.
type YearRange struct {
	Start, End int
}

func (r YearRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Valid reports whether the range is non-empty.
func (r YearRange) Valid() bool {
	return r.Start > 0 && r.End >= r.Start
}

// monthlySeries reduces every time slice of a field to one scalar.
func monthlySeries(f *domain.Field, reduce func(slice [][]float64) float64) []float64 {
	out := make([]float64, len(f.Data))
	for t, slice := range f.Data {
		out[t] = reduce(slice)
	}
	return out
}

// alignMonthly intersects two monthly series on their common months.
func alignMonthly(tiA domain.TimeIndex, a []float64, tiB domain.TimeIndex, b []float64) (domain.TimeIndex, []float64, []float64) {
	pos := make(map[domain.YearMonth]int, len(tiB))
	for i, ym := range tiB {
		pos[ym] = i
	}
	var ti domain.TimeIndex
	var outA, outB []float64
	for i, ym := range tiA {
		j, ok := pos[ym]
		if !ok {
			continue
		}
		ti = append(ti, ym)
		outA = append(outA, a[i])
		outB = append(outB, b[j])
	}
	return ti, outA, outB
}

// hemisphereOnly returns a copy of the slice with the opposite hemisphere
// masked out. region is "north", "south" or "global".
func hemisphereOnly(slice [][]float64, lat []float64, region string) [][]float64 {
	if region == "" || region == "global" {
		return slice
	}
	out := domain.CopySlice(slice)
	for i, la := range lat {
		drop := (region == "north" && la < 0) || (region == "south" && la > 0)
		if !drop {
			continue
		}
		for j := range out[i] {
			out[i][j] = domain.Missing()
		}
	}
	return out
}

// annualReport assembles the statistics record shared by all pipelines:
// annual means of both monthly series, skill scores and trends.
func annualReport(variable, unit string, analysis YearRange, ti domain.TimeIndex,
	model, obs []float64, completeYears bool) domain.StatisticsReport {

	years, annModel := domain.AnnualMeans(ti, model, completeYears)
	_, annObs := domain.AnnualMeans(ti, obs, completeYears)

	times := make([]float64, len(years))
	for i, y := range years {
		times[i] = float64(y)
	}

	rep := domain.StatisticsReport{
		Variable:  variable,
		Unit:      unit,
		Period:    analysis.String(),
		Scores:    domain.Skill(annModel, annObs),
		TrendMod:  domain.Trend(times, annModel),
		TrendObs:  domain.Trend(times, annObs),
		SpatCorr:  domain.Missing(),
		YearsList: years,
		Model:     annModel,
		Obs:       annObs,
	}
	return rep
}

// timeMeanMap averages all time slices per cell, ignoring missing values.
func timeMeanMap(f *domain.Field) [][]float64 {
	nLat, nLon := f.Grid.NLat(), f.Grid.NLon()
	sum := make([][]float64, nLat)
	cnt := make([][]int, nLat)
	for i := 0; i < nLat; i++ {
		sum[i] = make([]float64, nLon)
		cnt[i] = make([]int, nLon)
	}
	for _, slice := range f.Data {
		for i := 0; i < nLat; i++ {
			for j := 0; j < nLon; j++ {
				if v := slice[i][j]; !domain.IsMissing(v) {
					sum[i][j] += v
					cnt[i][j]++
				}
			}
		}
	}
	out := domain.NewSlice(nLat, nLon)
	for i := 0; i < nLat; i++ {
		for j := 0; j < nLon; j++ {
			if cnt[i][j] > 0 {
				out[i][j] = sum[i][j] / float64(cnt[i][j])
			}
		}
	}
	return out
}

// subsetYears restricts a field to the analysis year range.
func subsetYears(f *domain.Field, r YearRange) (*domain.Field, error) {
	idx := f.Time.Subset(r.Start, r.End)
	if len(idx) == 0 {
		return nil, fmt.Errorf("no time slices within %s", r)
	}
	ti := make(domain.TimeIndex, len(idx))
	data := make([][][]float64, len(idx))
	for k, i := range idx {
		ti[k] = f.Time[i]
		data[k] = f.Data[i]
	}
	return domain.NewField(f.Grid, ti, data, f.Unit)
}

// warnEmptyMonths logs calendar months with no baseline support; their
// climatology maps stay all-missing and anomalies there are undefined.
func warnEmptyMonths(variable string, ct *domain.ClimatologyTable) {
	for _, m := range ct.EmptyMonths() {
		log.Printf("warning: %s has no baseline slices for month %02d; anomalies for that month are undefined", variable, m)
	}
}
