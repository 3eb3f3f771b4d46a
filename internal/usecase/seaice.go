package usecase

import (
	"log"

	"github.com/pkg/errors"

	"github.com/polarmet/climval/internal/adapter/interp"
	"github.com/polarmet/climval/internal/adapter/nc"
	"github.com/polarmet/climval/internal/adapter/report"
	"github.com/polarmet/climval/internal/domain"
)

// SeaIceConfig holds every option a sea-ice validation run needs. Nothing
// here is ambient: the pipeline is a pure function of this value.
type SeaIceConfig struct {
	Model     nc.FileLayout
	ModelVar  nc.VarSpec
	ModelGrid nc.GridSpec
	GridFile  string // Optional separate geometry file; empty uses the first data file.

	ObsPath string
	ObsVar  nc.VarSpec
	ObsGrid nc.GridSpec
	ObsTime nc.TimeSpec

	OutDir   string
	Analysis YearRange

	// Region selects the hemisphere: "north", "south" or "global".
	Region string

	// PoleHoleLat is the latitude above which missing observation cells are
	// treated as fully ice covered (satellite pole hole).
	PoleHoleLat float64

	// ExtentThreshold is the concentration (percent) above which a cell
	// counts toward area and extent, conventionally 15.
	ExtentThreshold float64

	CompleteYears bool
}

// RunSeaIce validates modeled sea-ice area against a passive-microwave
// concentration product and writes the report and plot artifacts.
func RunSeaIce(cfg SeaIceConfig) (*domain.StatisticsReport, error) {
	log.Printf("sea ice: loading model concentration %s", cfg.Analysis)
	model, err := nc.LoadMonthlyField(cfg.Model, cfg.ModelVar, cfg.ModelGrid, cfg.GridFile, cfg.Analysis.Start, cfg.Analysis.End)
	if err != nil {
		return nil, errors.Wrap(err, "load model concentration")
	}

	log.Printf("sea ice: loading observations from %s", cfg.ObsPath)
	obs, err := nc.LoadObsSeries(cfg.ObsPath, cfg.ObsVar, cfg.ObsGrid, cfg.ObsTime)
	if err != nil {
		return nil, errors.Wrap(err, "load observed concentration")
	}
	obs, err = subsetYears(obs, cfg.Analysis)
	if err != nil {
		return nil, errors.Wrap(err, "subset observations")
	}

	// Observations move onto the model grid so the model's cell-area field
	// weights both series identically.
	obsOpts := domain.ConcentrationMask(cfg.PoleHoleLat)
	obs = domain.MaskField(obs, obsOpts)
	obs, err = interp.RegridField(obs, model.Grid)
	if err != nil {
		return nil, errors.Wrap(err, "regrid observations onto model grid")
	}

	// The model has no satellite pole hole; only the validity rules apply.
	modelOpts := domain.ConcentrationMask(cfg.PoleHoleLat)
	modelOpts.PoleHole = nil
	model = domain.MaskField(model, modelOpts)

	area := model.Grid.CellWeights()
	iceArea := func(f *domain.Field) []float64 {
		return monthlySeries(f, func(slice [][]float64) float64 {
			slice = hemisphereOnly(slice, f.Grid.Lat, cfg.Region)
			return domain.IceArea(slice, area, cfg.ExtentThreshold)
		})
	}
	modelSeries := iceArea(model)
	obsSeries := iceArea(obs)

	ti, m, o := alignMonthly(model.Time, modelSeries, obs.Time, obsSeries)
	if len(ti) == 0 {
		return nil, errors.New("model and observations share no months")
	}
	log.Printf("sea ice: %d common months", len(ti))

	rep := annualReport("sea_ice_area_"+cfg.Region, cfg.ModelVar.Unit, cfg.Analysis, ti, m, o, cfg.CompleteYears)
	rep.SpatCorr = domain.SpatialCorrelation(timeMeanMap(model), timeMeanMap(obs), area)

	if cfg.OutDir != "" {
		path, err := report.Save(cfg.OutDir, rep.Variable, rep)
		if err != nil {
			return nil, errors.Wrap(err, "write report")
		}
		log.Printf("sea ice: report written to %s", path)
		plotPath, err := report.PlotAnnualSeries(cfg.OutDir, rep.Variable,
			"Sea ice area ("+cfg.Region+")", cfg.ModelVar.Unit, rep)
		if err != nil {
			return nil, errors.Wrap(err, "write plot")
		}
		log.Printf("sea ice: plot written to %s", plotPath)
	}
	return &rep, nil
}
