// Package archive bundles rendered cards into a flat ZIP.
package archive

import (
	"fmt"
	"io"
	"path"
	"time"

	"github.com/klauspost/compress/zip"
)

// Entry is one named file held in memory.
type Entry struct {
	Name string
	Data []byte
}

// WriteZip writes one deflated entry per Entry, named by its base name, and
// returns the number of entries written.
func WriteZip(w io.Writer, entries []Entry) (int, error) {
	zw := zip.NewWriter(w)
	now := time.Now()
	for _, e := range entries {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     path.Base(e.Name),
			Method:   zip.Deflate,
			Modified: now,
		})
		if err != nil {
			return 0, fmt.Errorf("create %s: %w", e.Name, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return 0, fmt.Errorf("write %s: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("finish archive: %w", err)
	}
	return len(entries), nil
}

// ReadNames lists the entry names of a ZIP in stored order.
func ReadNames(r io.ReaderAt, size int64) ([]string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names, nil
}
