// Package files reads the two datasets from CSV files on disk, or from the
// copies bundled into the binary when no path is configured.
package files

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"desmatamento/assets"
	"desmatamento/internal/dataset"
	"desmatamento/internal/sources"
)

type Source struct {
	deforestationPath string
	economicPath      string
	bundled           fs.FS
}

var _ dataset.Source = (*Source)(nil)

// New returns a Source reading the given paths. An empty path selects the
// bundled file for that dataset.
func New(deforestationPath, economicPath string) *Source {
	return &Source{
		deforestationPath: deforestationPath,
		economicPath:      economicPath,
		bundled:           assets.DataFS,
	}
}

// Name is "bundled" when both datasets come from the binary.
func (s *Source) Name() string {
	if s.deforestationPath == "" && s.economicPath == "" {
		return sources.NameBundled
	}
	return sources.NameFiles
}

func (s *Source) Deforestation(ctx context.Context) ([]dataset.RawRow, error) {
	return s.read(ctx, s.deforestationPath, assets.DeforestationFile)
}

func (s *Source) Economic(ctx context.Context) ([]dataset.RawRow, error) {
	return s.read(ctx, s.economicPath, assets.EconomicFile)
}

func (s *Source) read(ctx context.Context, path, bundledName string) ([]dataset.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		f   fs.File
		err error
	)
	if path == "" {
		path = bundledName
		f, err = s.bundled.Open(bundledName)
	} else {
		f, err = os.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := dataset.Normalize(f)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", path, err)
	}
	return rows, nil
}
