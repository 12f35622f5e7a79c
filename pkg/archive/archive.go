package archive

import (
	"archive/zip"
	"bytes"
)

type Entry struct {
	Filename string
	Data     []byte
}

// Bundle packs the entries into a zip archive held in memory. Used for
// document exports where the bundle is small enough to buffer.
func Bundle(entries []Entry) []byte {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, entry := range entries {
		w, err := zw.Create(entry.Filename)
		if err != nil {
			continue
		}
		if _, err := w.Write(entry.Data); err != nil {
			return nil
		}
	}
	_ = zw.Close()
	return buf.Bytes()
}
