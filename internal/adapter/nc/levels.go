package nc

import (
	"fmt"

	"github.com/polarmet/climval/internal/domain"
)

// ReadLevelSet reads the vertical geometry of an ocean grid from a
// grid-geometry file: layer center depths plus the bounding face depths.
// When no face variable exists, faces are reconstructed midway between
// centers, with the top face at the surface and the bottom face mirrored
// from the last center spacing.
func ReadLevelSet(path string, centerNames, faceNames []string) (*domain.LevelSet, error) {
	ds, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ds.Close() }()

	cv, err := findVar(ds, path, centerNames)
	if err != nil {
		return nil, err
	}
	centers, err := read1D(cv)
	if err != nil {
		return nil, fmt.Errorf("read level centers from %s: %w", path, err)
	}

	var faces []float64
	if len(faceNames) > 0 {
		if fv, ferr := findVar(ds, path, faceNames); ferr == nil {
			faces, err = read1D(fv)
			if err != nil {
				return nil, fmt.Errorf("read level faces from %s: %w", path, err)
			}
		}
	}
	if faces == nil {
		faces = facesFromCenters(centers)
	}
	ls, err := domain.NewLevelSet(centers, faces)
	if err != nil {
		return nil, fmt.Errorf("level geometry in %s: %w", path, err)
	}
	return ls, nil
}

func facesFromCenters(centers []float64) []float64 {
	faces := make([]float64, len(centers)+1)
	faces[0] = 0
	for i := 1; i < len(centers); i++ {
		faces[i] = (centers[i-1] + centers[i]) / 2
	}
	if n := len(centers); n > 0 {
		faces[n] = centers[n-1] + (centers[n-1] - faces[n-1])
	}
	return faces
}
