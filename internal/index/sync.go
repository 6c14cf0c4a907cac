package index

import (
	"log/slog"
	"os"

	"stashview/internal/checksum"
	"stashview/internal/stashservice"
)

// Sync brings the index up to date with the configured source files:
//   - new/changed files are scanned and their rows replaced
//   - sources no longer configured (or gone from disk) are removed
//
// sources maps save file paths to their mode ("backpack" or
// "container").
func Sync(db *DB, svc *stashservice.Service, sources map[string]string, logger *slog.Logger) error {
	stored, err := db.AllSourceChecksums()
	if err != nil {
		return err
	}

	for path, mode := range sources {
		if err := syncSource(db, svc, path, mode, logger); err != nil {
			logger.Warn("sync: source failed",
				slog.String("path", path), slog.String("error", err.Error()))
		}
	}

	// Remove stale sources.
	for path := range stored {
		if _, ok := sources[path]; !ok {
			if err := db.DeleteSource(path); err != nil {
				logger.Warn("sync: delete failed",
					slog.String("path", path), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale source", slog.String("path", path))
			}
		}
	}

	return nil
}

// syncSource re-indexes one source file unless its checksum is
// unchanged. A missing file removes its rows.
func syncSource(db *DB, svc *stashservice.Service, path, mode string, logger *slog.Logger) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return db.DeleteSource(path)
	}

	cs, err := checksum.SumFile(path)
	if err != nil {
		return err
	}
	stored, err := db.SourceChecksum(path)
	if err != nil {
		return err
	}
	if stored == cs {
		return nil
	}

	res, err := svc.Scan(path, mode)
	if err != nil {
		return err
	}
	if err := db.ReplaceSource(path, mode, cs, RowsFromResult(res)); err != nil {
		return err
	}
	logger.Debug("sync: indexed",
		slog.String("path", path), slog.Int("records", res.Len()))
	return nil
}
