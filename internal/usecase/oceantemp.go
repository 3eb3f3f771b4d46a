package usecase

import (
	"log"

	"github.com/pkg/errors"

	"github.com/polarmet/climval/internal/adapter/nc"
	"github.com/polarmet/climval/internal/adapter/report"
	"github.com/polarmet/climval/internal/domain"
)

// OceanTempConfig configures a volume-mean ocean temperature validation
// run. The model side is full-depth 3-D output streamed one month at a
// time; the observation side is a pre-reduced volume-mean series.
type OceanTempConfig struct {
	Model    nc.FileLayout
	ModelVar nc.VarSpec

	// GridFile holds the horizontal geometry (2-D coordinates, cell areas)
	// and the vertical level geometry of the ocean grid.
	GridFile   string
	ModelGrid  nc.GridSpec
	LevelNames []string // Layer center depth variable candidates.
	FaceNames  []string // Interface depth variable candidates (optional).

	ObsPath string
	ObsVar  nc.VarSpec
	ObsTime nc.TimeSpec

	OutDir        string
	Analysis      YearRange
	CompleteYears bool
}

// RunOceanTemp validates modeled volume-averaged ocean temperature against
// an observational ocean-temperature series. A century of full-depth 3-D
// fields does not fit in memory, so the model is reduced one month at a
// time and only the scalar series is retained.
func RunOceanTemp(cfg OceanTempConfig) (*domain.StatisticsReport, error) {
	log.Printf("ocean temp: reading grid geometry from %s", cfg.GridFile)
	raw, err := nc.ReadGrid(cfg.GridFile, cfg.ModelGrid)
	if err != nil {
		return nil, errors.Wrap(err, "read ocean grid geometry")
	}
	levels, err := nc.ReadLevelSet(cfg.GridFile, cfg.LevelNames, cfg.FaceNames)
	if err != nil {
		return nil, errors.Wrap(err, "read level geometry")
	}
	grid, _, err := raw.Normalize(nil)
	if err != nil {
		return nil, errors.Wrap(err, "normalize ocean grid")
	}
	area := grid.CellWeights()
	log.Printf("ocean temp: grid %dx%d, %d levels", grid.NLat(), grid.NLon(), levels.NLevels())

	opts := domain.TemperatureMask()
	var modelTI domain.TimeIndex
	var modelSeries []float64
	err = nc.EachMonth3D(cfg.Model, cfg.ModelVar, raw, cfg.Analysis.Start, cfg.Analysis.End,
		func(ym domain.YearMonth, slice [][][]float64) error {
			if len(slice) != levels.NLevels() {
				return errors.Errorf("%s has %d levels, grid geometry has %d", ym, len(slice), levels.NLevels())
			}
			for k := range slice {
				slice[k] = domain.ApplyMask(slice[k], grid.Lat, opts)
			}
			modelTI = append(modelTI, ym)
			modelSeries = append(modelSeries, domain.VolumeWeightedMean(slice, area, levels))
			return nil
		})
	if err != nil {
		return nil, errors.Wrap(err, "reduce model ocean temperature")
	}

	log.Printf("ocean temp: loading observed series from %s", cfg.ObsPath)
	obsTI, obsSeries, err := nc.LoadObsScalarSeries(cfg.ObsPath, cfg.ObsVar, cfg.ObsTime)
	if err != nil {
		return nil, errors.Wrap(err, "load observed series")
	}

	ti, m, o := alignMonthly(modelTI, modelSeries, obsTI, obsSeries)
	if len(ti) == 0 {
		return nil, errors.New("model and observations share no months")
	}
	log.Printf("ocean temp: %d common months", len(ti))

	rep := annualReport("ocean_volume_mean_temperature", cfg.ModelVar.Unit, cfg.Analysis, ti, m, o, cfg.CompleteYears)

	if cfg.OutDir != "" {
		path, err := report.Save(cfg.OutDir, rep.Variable, rep)
		if err != nil {
			return nil, errors.Wrap(err, "write report")
		}
		log.Printf("ocean temp: report written to %s", path)
		plotPath, err := report.PlotAnnualSeries(cfg.OutDir, rep.Variable,
			"Volume-averaged ocean temperature", cfg.ModelVar.Unit, rep)
		if err != nil {
			return nil, errors.Wrap(err, "write plot")
		}
		log.Printf("ocean temp: plot written to %s", plotPath)
	}
	return &rep, nil
}
