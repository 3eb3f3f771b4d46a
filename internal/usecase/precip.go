package usecase

import (
	"log"

	"github.com/pkg/errors"

	"github.com/polarmet/climval/internal/adapter/interp"
	"github.com/polarmet/climval/internal/adapter/nc"
	"github.com/polarmet/climval/internal/adapter/report"
	"github.com/polarmet/climval/internal/domain"
)

// PrecipConfig configures a precipitation validation run. The model
// variable spec conventionally sums convective and large-scale rates
// (VarSpec.Plus) and converts to mm/day.
type PrecipConfig struct {
	Model     nc.FileLayout
	ModelVar  nc.VarSpec
	ModelGrid nc.GridSpec

	ObsPath string
	ObsVar  nc.VarSpec
	ObsGrid nc.GridSpec
	ObsTime nc.TimeSpec

	OutDir        string
	Analysis      YearRange
	CompleteYears bool
}

// RunPrecip validates modeled total precipitation against a merged
// satellite/gauge product, comparing global means, annual series and the
// spatial pattern of the period mean.
func RunPrecip(cfg PrecipConfig) (*domain.StatisticsReport, error) {
	log.Printf("precip: loading model precipitation %s", cfg.Analysis)
	model, err := nc.LoadMonthlyField(cfg.Model, cfg.ModelVar, cfg.ModelGrid, "", cfg.Analysis.Start, cfg.Analysis.End)
	if err != nil {
		return nil, errors.Wrap(err, "load model precipitation")
	}

	log.Printf("precip: loading observations from %s", cfg.ObsPath)
	obs, err := nc.LoadObsSeries(cfg.ObsPath, cfg.ObsVar, cfg.ObsGrid, cfg.ObsTime)
	if err != nil {
		return nil, errors.Wrap(err, "load observed precipitation")
	}
	obs, err = subsetYears(obs, cfg.Analysis)
	if err != nil {
		return nil, errors.Wrap(err, "subset observations")
	}

	// The observation grid is the coarser one; the model moves onto it.
	model, err = interp.RegridField(model, obs.Grid)
	if err != nil {
		return nil, errors.Wrap(err, "regrid model onto observation grid")
	}

	weights := obs.Grid.CellWeights()
	globalMean := func(f *domain.Field) []float64 {
		return monthlySeries(f, func(slice [][]float64) float64 {
			return domain.WeightedMean(slice, weights)
		})
	}
	modelSeries := globalMean(model)
	obsSeries := globalMean(obs)

	ti, m, o := alignMonthly(model.Time, modelSeries, obs.Time, obsSeries)
	if len(ti) == 0 {
		return nil, errors.New("model and observations share no months")
	}
	log.Printf("precip: %d common months", len(ti))

	rep := annualReport("precipitation_global", cfg.ModelVar.Unit, cfg.Analysis, ti, m, o, cfg.CompleteYears)
	rep.SpatCorr = domain.SpatialCorrelation(timeMeanMap(model), timeMeanMap(obs), weights)

	if cfg.OutDir != "" {
		path, err := report.Save(cfg.OutDir, rep.Variable, rep)
		if err != nil {
			return nil, errors.Wrap(err, "write report")
		}
		log.Printf("precip: report written to %s", path)
		plotPath, err := report.PlotAnnualSeries(cfg.OutDir, rep.Variable,
			"Global mean precipitation", cfg.ModelVar.Unit, rep)
		if err != nil {
			return nil, errors.Wrap(err, "write plot")
		}
		log.Printf("precip: plot written to %s", plotPath)
	}
	return &rep, nil
}
