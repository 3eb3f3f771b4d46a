package usecase

import (
	"log"

	"github.com/pkg/errors"

	"github.com/polarmet/climval/internal/adapter/interp"
	"github.com/polarmet/climval/internal/adapter/nc"
	"github.com/polarmet/climval/internal/adapter/report"
	"github.com/polarmet/climval/internal/domain"
)

// AirTempConfig configures a surface air temperature validation run.
// The comparison is anomaly-based: both sides are decomposed against
// monthly climatologies over the shared baseline before reduction.
type AirTempConfig struct {
	Model     nc.FileLayout
	ModelVar  nc.VarSpec
	ModelGrid nc.GridSpec

	ObsPath string
	ObsVar  nc.VarSpec
	ObsGrid nc.GridSpec
	ObsTime nc.TimeSpec

	OutDir        string
	Analysis      YearRange
	Baseline      YearRange
	CompleteYears bool
}

// RunAirTemp validates modeled reference-height temperature anomalies
// against a gridded surface temperature analysis.
func RunAirTemp(cfg AirTempConfig) (*domain.StatisticsReport, error) {
	if !cfg.Baseline.Valid() {
		return nil, errors.Errorf("invalid baseline %s", cfg.Baseline)
	}

	log.Printf("air temp: loading model temperature %s", cfg.Analysis)
	model, err := nc.LoadMonthlyField(cfg.Model, cfg.ModelVar, cfg.ModelGrid, "", cfg.Analysis.Start, cfg.Analysis.End)
	if err != nil {
		return nil, errors.Wrap(err, "load model temperature")
	}

	log.Printf("air temp: loading observations from %s", cfg.ObsPath)
	obs, err := nc.LoadObsSeries(cfg.ObsPath, cfg.ObsVar, cfg.ObsGrid, cfg.ObsTime)
	if err != nil {
		return nil, errors.Wrap(err, "load observed temperature")
	}
	obs, err = subsetYears(obs, cfg.Analysis)
	if err != nil {
		return nil, errors.Wrap(err, "subset observations")
	}

	opts := domain.TemperatureMask()
	model = domain.MaskField(model, opts)
	obs = domain.MaskField(obs, opts)

	// Anomaly decomposition happens on each side's native grid; regridding
	// anomalies avoids interpolating across the sharp land/sea contrast in
	// absolute temperature.
	modelClim, err := domain.MonthlyClimatology(model, cfg.Baseline.Start, cfg.Baseline.End)
	if err != nil {
		return nil, errors.Wrap(err, "model climatology")
	}
	warnEmptyMonths("model temperature", modelClim)
	obsClim, err := domain.MonthlyClimatology(obs, cfg.Baseline.Start, cfg.Baseline.End)
	if err != nil {
		return nil, errors.Wrap(err, "observation climatology")
	}
	warnEmptyMonths("observed temperature", obsClim)

	modelAnom := domain.Anomalies(model, modelClim)
	obsAnom := domain.Anomalies(obs, obsClim)

	modelAnom, err = interp.RegridField(modelAnom, obs.Grid)
	if err != nil {
		return nil, errors.Wrap(err, "regrid model anomalies onto observation grid")
	}

	weights := obs.Grid.CellWeights()
	globalMean := func(f *domain.Field) []float64 {
		return monthlySeries(f, func(slice [][]float64) float64 {
			return domain.WeightedMean(slice, weights)
		})
	}
	modelSeries := globalMean(modelAnom)
	obsSeries := globalMean(obsAnom)

	ti, m, o := alignMonthly(modelAnom.Time, modelSeries, obsAnom.Time, obsSeries)
	if len(ti) == 0 {
		return nil, errors.New("model and observations share no months")
	}
	log.Printf("air temp: %d common months", len(ti))

	rep := annualReport("surface_air_temperature_anomaly", cfg.ModelVar.Unit, cfg.Analysis, ti, m, o, cfg.CompleteYears)
	rep.SpatCorr = domain.SpatialCorrelation(timeMeanMap(modelAnom), timeMeanMap(obsAnom), weights)

	if cfg.OutDir != "" {
		path, err := report.Save(cfg.OutDir, rep.Variable, rep)
		if err != nil {
			return nil, errors.Wrap(err, "write report")
		}
		log.Printf("air temp: report written to %s", path)
		plotPath, err := report.PlotAnnualSeries(cfg.OutDir, rep.Variable,
			"Surface air temperature anomaly (baseline "+cfg.Baseline.String()+")", cfg.ModelVar.Unit, rep)
		if err != nil {
			return nil, errors.Wrap(err, "write plot")
		}
		log.Printf("air temp: plot written to %s", plotPath)
	}
	return &rep, nil
}
