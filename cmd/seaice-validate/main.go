// Command seaice-validate compares modeled sea-ice area against a
// passive-microwave concentration product and writes a statistics report
// and time-series plot.
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
	pattern := flag.String("pattern", "ice.h.%04d-%02d.nc", "Model file pattern (%04d year, %02d month)")
	yearOffset := flag.Int("year-offset", 0, "Calendar year minus model file year")
	gridFile := flag.String("grid-file", "", "Separate grid geometry file (default: first data file)")
	obsPath := flag.String("obs", getEnv("OBS_PATH", "./obs/seaice.nc"), "Observation NetCDF file")
	outDir := flag.String("out", getEnv("OUT_DIR", "./out"), "Output directory")
	startYear := flag.Int("start", 1979, "First analysis year")
	endYear := flag.Int("end", 2005, "Last analysis year")
	region := flag.String("region", "north", "Hemisphere: north, south or global")
	poleHole := flag.Float64("pole-hole-lat", 84, "Latitude above which missing obs cells count as fully ice covered")
	threshold := flag.Float64("threshold", 15, "Concentration threshold (percent) for area and extent")
	complete := flag.Bool("complete-years", false, "Drop years with missing months from annual means")
	flag.Parse()

	cfg := usecase.SeaIceConfig{
		Model: nc.FileLayout{Dir: *modelDir, Pattern: *pattern, YearOffset: *yearOffset},
		ModelVar: nc.VarSpec{
			Names: []string{"aice", "ICEFRAC", "sic"},
			Scale: 1, // Model output already on the 0-100 scale; use 100 for fraction output.
			Unit:  "km^2",
		},
		ModelGrid: nc.GridSpec{
			LatNames:  []string{"TLAT", "lat", "latitude"},
			LonNames:  []string{"TLON", "TLONG", "lon", "longitude"},
			AreaNames: []string{"tarea", "areacello", "cell_area"},
			AreaScale: 1e-6, // m^2 -> km^2.
		},
		GridFile: *gridFile,
		ObsPath:  *obsPath,
		ObsVar: nc.VarSpec{
			Names: []string{"goddard_merged_seaice_conc_monthly", "seaice_conc_monthly_cdr", "concentration", "sic"},
			Unit:  "km^2",
		},
		ObsGrid:         nc.GridSpec{},
		ObsTime:         nc.TimeSpec{},
		OutDir:          *outDir,
		Analysis:        usecase.YearRange{Start: *startYear, End: *endYear},
		Region:          *region,
		PoleHoleLat:     *poleHole,
		ExtentThreshold: *threshold,
		CompleteYears:   *complete,
	}

	log.Printf("sea ice validation %d-%d (%s)", *startYear, *endYear, *region)
	rep, err := usecase.RunSeaIce(cfg)
	if err != nil {
		log.Fatalf("sea ice validation failed: %v", err)
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
