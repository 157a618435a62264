// Package archive packages a split output tree into a single zip file.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Zip writes the entire tree under outputRoot into a zip at archivePath.
// Entry names are relative to outputRoot's parent, so the tree's root
// directory appears as the top-level entry in the archive. The uncompressed
// tree is left in place.
func Zip(outputRoot, archivePath string) error {
	base := filepath.Dir(outputRoot)

	f, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	err = filepath.WalkDir(outputRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		// Zip entry names always use forward slashes.
		name := strings.ReplaceAll(rel, string(filepath.Separator), "/")

		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		_, err = io.Copy(w, src)
		return err
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("failed to archive %s: %w", outputRoot, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}
