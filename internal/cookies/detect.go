package cookies

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	_ "modernc.org/sqlite"
)

// sqliteMagic is the first 16 bytes of any SQLite database file.
var sqliteMagic = []byte("SQLite format 3\x00")

// storeKind is the container type found by sniffing a file header.
type storeKind int

const (
	kindText storeKind = iota
	kindSQLite
)

// DetectFormat determines the cookie store format of the file at path in fsys.
// SQLite stores are copied to a temporary directory before their schema is
// inspected.
func DetectFormat(fsys afero.Fs, path string) (CookieFormat, error) {
	kind, err := sniff(fsys, path)
	if err != nil {
		return FormatUnknown, err
	}
	if kind == kindText {
		return FormatNetscape, nil
	}
	tempDir, cleanup, err := SafeCopy(fsys, path)
	if err != nil {
		return FormatUnknown, err
	}
	defer cleanup()
	return detectSQLiteFormat(filepath.Join(tempDir, filepath.Base(path)))
}

// sniff validates the file at path and classifies it as SQLite or Netscape
// text from its first bytes.
func sniff(fsys afero.Fs, path string) (storeKind, error) {
	if err := checkSource(fsys, path); err != nil {
		return kindText, err
	}
	f, err := fsys.Open(path)
	if err != nil {
		return kindText, fmt.Errorf("error: cannot open cookie file: %w", err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return kindText, fmt.Errorf("error: cannot read cookie file: %w", err)
	}
	buf = buf[:n]

	if bytes.HasPrefix(buf, sqliteMagic) {
		return kindSQLite, nil
	}

	firstLine := string(buf)
	if idx := strings.IndexByte(firstLine, '\n'); idx >= 0 {
		firstLine = firstLine[:idx]
	}
	firstLine = strings.TrimRight(firstLine, "\r")
	if firstLine == netscapeHeader || firstLine == "# HTTP Cookie File" {
		return kindText, nil
	}
	return kindText, fmt.Errorf("%w at %s", ErrUnsupportedFormat, path)
}

// checkSource rejects missing, directory and empty sources.
func checkSource(fsys afero.Fs, path string) error {
	info, err := fsys.Stat(path)
	if err != nil {
		return fmt.Errorf("error: cookie file not found: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("error: %s is a directory, expected a cookie file path or 'auto'", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("error: cookie file at %s is empty or corrupted", path)
	}
	return nil
}

// detectSQLiteFormat opens the SQLite file on the OS filesystem and checks
// which cookie table exists.
func detectSQLiteFormat(osPath string) (CookieFormat, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", osPath))
	if err != nil {
		return FormatUnknown, fmt.Errorf("error: cannot open SQLite database: %w", err)
	}
	defer db.Close()

	var tableName string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='moz_cookies'`).Scan(&tableName)
	if err == nil {
		return FormatFirefox, nil
	}

	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='cookies'`).Scan(&tableName)
	if err == nil {
		return FormatChrome, nil
	}

	return FormatUnknown, fmt.Errorf("%w at %s", ErrUnsupportedFormat, filepath.Base(osPath))
}
