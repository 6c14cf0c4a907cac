// Package stashservice coordinates save file decoding, filtering, and
// image rendering.
package stashservice

import (
	"fmt"
	"log/slog"

	"stashview/internal/apperr"
	"stashview/internal/backpack"
	"stashview/internal/container"
	"stashview/internal/models"
	"stashview/internal/query"
	"stashview/internal/render"
	"stashview/internal/savefile"
)

// Service coordinates the decode/filter/render pipeline.
type Service struct {
	keys     backpack.Keys
	renderer *render.Renderer
	logger   *slog.Logger
}

// New creates a stash service. renderer may be nil when only scanning;
// render calls then fail with an error instead of panicking.
func New(keys backpack.Keys, renderer *render.Renderer, logger *slog.Logger) *Service {
	return &Service{keys: keys, renderer: renderer, logger: logger}
}

// ScanResult holds the records decoded from one save file.
type ScanResult struct {
	Source     string
	Mode       string
	Backpacks  []models.BackpackRecord
	Containers []models.ContainerRecord
}

// Len returns the total record count.
func (r *ScanResult) Len() int {
	return len(r.Backpacks) + len(r.Containers)
}

// Filter applies f and returns a new result with only matching records,
// in the original order.
func (r *ScanResult) Filter(f query.Filter) *ScanResult {
	return &ScanResult{
		Source:     r.Source,
		Mode:       r.Mode,
		Backpacks:  query.Backpacks(r.Backpacks, f),
		Containers: query.Containers(r.Containers, f),
	}
}

// Scan decodes the save file at path into records. mode is "backpack",
// "container", or empty to detect from the file extension.
func (s *Service) Scan(path, mode string) (*ScanResult, error) {
	if mode == "" {
		detected, err := savefile.DetectMode(path)
		if err != nil {
			return nil, err
		}
		mode = detected
	}

	res := &ScanResult{Source: path, Mode: mode}
	switch mode {
	case models.KindBackpack:
		root, err := savefile.Load(path)
		if err != nil {
			return nil, err
		}
		recs, err := backpack.Extract(root, s.keys, s.logger)
		if err != nil {
			return nil, err
		}
		res.Backpacks = recs

	case models.KindContainer:
		recs, err := container.LoadFile(path, s.logger)
		if err != nil {
			return nil, err
		}
		res.Containers = recs

	default:
		return nil, fmt.Errorf("%w: %q", apperr.ErrUnknownMode, mode)
	}

	s.logger.Info("scanned save file",
		slog.String("path", path),
		slog.String("mode", mode),
		slog.Int("records", res.Len()))
	return res, nil
}

// RenderAll renders every record in res to a PNG under outDir and
// returns the written paths. Records that fail to render are logged
// and skipped.
func (s *Service) RenderAll(res *ScanResult, outDir string) ([]string, error) {
	if s.renderer == nil {
		return nil, fmt.Errorf("stashservice: renderer not configured")
	}

	var paths []string
	for _, rec := range res.Backpacks {
		p, err := render.Save(s.renderer.Backpack(rec), outDir, rec.Key())
		if err != nil {
			s.logger.Warn("render backpack failed",
				slog.String("key", rec.Key()), slog.String("error", err.Error()))
			continue
		}
		paths = append(paths, p)
	}
	for _, rec := range res.Containers {
		p, err := render.Save(s.renderer.Container(rec), outDir, rec.Key())
		if err != nil {
			s.logger.Warn("render container failed",
				slog.String("key", rec.Key()), slog.String("error", err.Error()))
			continue
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// RenderBackpack returns the PNG encoding of one backpack image.
func (s *Service) RenderBackpack(rec models.BackpackRecord) ([]byte, error) {
	if s.renderer == nil {
		return nil, fmt.Errorf("stashservice: renderer not configured")
	}
	return render.Encode(s.renderer.Backpack(rec))
}

// RenderContainer returns the PNG encoding of one container image.
func (s *Service) RenderContainer(rec models.ContainerRecord) ([]byte, error) {
	if s.renderer == nil {
		return nil, fmt.Errorf("stashservice: renderer not configured")
	}
	return render.Encode(s.renderer.Container(rec))
}
