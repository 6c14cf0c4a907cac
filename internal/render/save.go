package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// Encode returns the PNG encoding of img.
func Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("render: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes img to <dir>/<name>.png atomically: temp file, fsync,
// rename. The directory is created when missing. Returns the final path.
func Save(img image.Image, dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("render: mkdir %s: %w", dir, err)
	}

	data, err := Encode(img)
	if err != nil {
		return "", err
	}

	final := filepath.Join(dir, name+".png")
	tmp, err := os.CreateTemp(dir, ".stashview-tmp-*")
	if err != nil {
		return "", fmt.Errorf("render: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return "", fmt.Errorf("render: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("render: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("render: close temp: %w", err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		return "", fmt.Errorf("render: rename: %w", err)
	}
	success = true
	return final, nil
}
