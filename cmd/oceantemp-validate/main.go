// Command oceantemp-validate compares modeled volume-averaged ocean
// temperature against an observational ocean temperature series. The
// full-depth model output is reduced one month at a time.
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
	pattern := flag.String("pattern", "ocn.h.%04d-%02d.nc", "Model file pattern (%04d year, %02d month)")
	yearOffset := flag.Int("year-offset", 0, "Calendar year minus model file year")
	gridFile := flag.String("grid-file", getEnv("GRID_FILE", "./model/ocn_grid.nc"), "Ocean grid and level geometry file")
	obsPath := flag.String("obs", getEnv("OBS_PATH", "./obs/oceantemp.nc"), "Observed volume-mean temperature series")
	obsUnits := flag.String("obs-time-units", "", "CF units of the obs time axis (empty: auto-detect YYYYMM)")
	outDir := flag.String("out", getEnv("OUT_DIR", "./out"), "Output directory")
	startYear := flag.Int("start", 1955, "First analysis year")
	endYear := flag.Int("end", 2005, "Last analysis year")
	complete := flag.Bool("complete-years", false, "Drop years with missing months from annual means")
	flag.Parse()

	cfg := usecase.OceanTempConfig{
		Model: nc.FileLayout{Dir: *modelDir, Pattern: *pattern, YearOffset: *yearOffset},
		ModelVar: nc.VarSpec{
			Names: []string{"TEMP", "thetao", "votemper"},
			Unit:  "degC",
		},
		GridFile: *gridFile,
		ModelGrid: nc.GridSpec{
			LatNames:  []string{"TLAT", "lat", "latitude"},
			LonNames:  []string{"TLONG", "TLON", "lon", "longitude"},
			AreaNames: []string{"TAREA", "tarea", "areacello"},
		},
		LevelNames: []string{"z_t", "depth", "lev"},
		FaceNames:  []string{"z_w", "depth_bnds", "lev_bnds"},
		ObsPath:    *obsPath,
		ObsVar: nc.VarSpec{
			Names: []string{"volume_mean_temperature", "t_vmean", "temp"},
			Unit:  "degC",
		},
		ObsTime:       nc.TimeSpec{Units: *obsUnits},
		OutDir:        *outDir,
		Analysis:      usecase.YearRange{Start: *startYear, End: *endYear},
		CompleteYears: *complete,
	}

	log.Printf("ocean temperature validation %d-%d", *startYear, *endYear)
	rep, err := usecase.RunOceanTemp(cfg)
	if err != nil {
		log.Fatalf("ocean temperature validation failed: %v", err)
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
