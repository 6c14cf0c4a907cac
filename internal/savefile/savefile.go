// Package savefile opens a binary save file, transparently decompresses
// it, and decodes the tag tree.
package savefile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"stashview/internal/apperr"
	"stashview/internal/models"
	"stashview/internal/nbt"
)

// Load reads and decodes the save file at path. Gzip and zlib wrapped
// files are detected by magic bytes; anything else is decoded raw. The
// file handle is released before returning on every path.
func Load(path string) (*nbt.Compound, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("savefile: open %s: %w", path, err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("savefile: read %s: %w", path, err)
	}

	data, err := decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("savefile: decompress %s: %w", path, err)
	}

	_, root, err := nbt.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("savefile: decode %s: %w", path, err)
	}
	return root, nil
}

func decompress(raw []byte) ([]byte, error) {
	switch {
	case len(raw) >= 2 && raw[0] == 0x1f && raw[1] == 0x8b:
		r, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)

	case len(raw) >= 2 && raw[0] == 0x78:
		r, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	}
	return raw, nil
}

// DetectMode maps a file extension to a processing mode: .json means
// container dump, .dat and .nbt mean binary backpack save.
func DetectMode(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return models.KindContainer, nil
	case ".dat", ".nbt":
		return models.KindBackpack, nil
	}
	return "", fmt.Errorf("savefile: cannot detect mode for %s: %w", path, apperr.ErrUnknownMode)
}
