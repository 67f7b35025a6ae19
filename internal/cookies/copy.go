package cookies

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// SafeCopy copies a SQLite cookie file (and its -wal and -shm companions if
// they exist) out of fsys into a temporary directory on the OS filesystem.
// SQLite can only open real files, and the copy avoids locking conflicts with
// the browser that owns the database.
//
// The caller MUST call cleanup when done.
func SafeCopy(fsys afero.Fs, srcPath string) (tempDir string, cleanup func(), err error) {
	if err := checkSource(fsys, srcPath); err != nil {
		return "", nil, err
	}

	tempDir, err = os.MkdirTemp("", "warpjar-cookies-*")
	if err != nil {
		return "", nil, fmt.Errorf("error: cannot create temp directory: %w", err)
	}
	cleanup = func() {
		os.RemoveAll(tempDir)
	}

	baseName := filepath.Base(srcPath)
	if err := copyFile(fsys, srcPath, filepath.Join(tempDir, baseName)); err != nil {
		cleanup()
		return "", nil, err
	}

	// companions are best-effort
	for _, suffix := range []string{"-wal", "-shm"} {
		companion := srcPath + suffix
		if ok, _ := afero.Exists(fsys, companion); ok {
			_ = copyFile(fsys, companion, filepath.Join(tempDir, baseName+suffix))
		}
	}

	return tempDir, cleanup, nil
}

// copyFile copies src from fsys to dst on the OS filesystem.
func copyFile(fsys afero.Fs, src, dst string) error {
	in, err := fsys.Open(src)
	if err != nil {
		return fmt.Errorf("error: cannot open source file %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("error: cannot create destination file %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("error: cannot copy file: %w", err)
	}
	return nil
}
