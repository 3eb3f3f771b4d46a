// Command airtemp-validate compares modeled reference-height air
// temperature anomalies against a gridded surface temperature analysis.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/polarmet/climval/internal/adapter/nc"
	"github.com/polarmet/climval/internal/usecase"
)

func main() {
	modelDir := flag.String("model-dir", getEnv("MODEL_DIR", "./model"), "Directory of monthly model files")
	pattern := flag.String("pattern", "atm.h0.%04d-%02d.nc", "Model file pattern (%04d year, %02d month)")
	yearOffset := flag.Int("year-offset", 0, "Calendar year minus model file year")
	obsPath := flag.String("obs", getEnv("OBS_PATH", "./obs/airtemp.nc"), "Observation NetCDF file")
	obsUnits := flag.String("obs-time-units", "", "CF units of the obs time axis (empty: auto-detect YYYYMM)")
	outDir := flag.String("out", getEnv("OUT_DIR", "./out"), "Output directory")
	startYear := flag.Int("start", 1950, "First analysis year")
	endYear := flag.Int("end", 2005, "Last analysis year")
	baseStart := flag.Int("baseline-start", 1961, "First baseline year for the climatology")
	baseEnd := flag.Int("baseline-end", 1990, "Last baseline year for the climatology")
	complete := flag.Bool("complete-years", false, "Drop years with missing months from annual means")
	flag.Parse()

	cfg := usecase.AirTempConfig{
		Model: nc.FileLayout{Dir: *modelDir, Pattern: *pattern, YearOffset: *yearOffset},
		ModelVar: nc.VarSpec{
			Names:  []string{"TREFHT", "tas", "t2m"},
			Offset: -273.15, // K -> degC.
			Unit:   "degC",
		},
		ModelGrid: nc.GridSpec{},
		ObsPath:   *obsPath,
		ObsVar: nc.VarSpec{
			Names: []string{"air", "temperature", "tas", "temp"},
			Unit:  "degC",
		},
		ObsGrid:       nc.GridSpec{},
		ObsTime:       nc.TimeSpec{Units: *obsUnits},
		OutDir:        *outDir,
		Analysis:      usecase.YearRange{Start: *startYear, End: *endYear},
		Baseline:      usecase.YearRange{Start: *baseStart, End: *baseEnd},
		CompleteYears: *complete,
	}

	log.Printf("air temperature validation %d-%d (baseline %d-%d)", *startYear, *endYear, *baseStart, *baseEnd)
	rep, err := usecase.RunAirTemp(cfg)
	if err != nil {
		log.Fatalf("air temperature validation failed: %v", err)
	}
	log.Printf("done: bias=%.4f rmse=%.4f r=%.4f", rep.Scores.Bias, rep.Scores.RMSE, rep.Scores.Corr)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
