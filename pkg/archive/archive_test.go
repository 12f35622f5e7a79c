package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestBundle(t *testing.T) {
	data := Bundle([]Entry{
		{Filename: "document.txt", Data: []byte("hello")},
		{Filename: "analyses/summary.md", Data: []byte("# Resumo")},
	})
	if len(data) == 0 {
		t.Fatal("empty archive")
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("file count = %d", len(zr.File))
	}
	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	if string(content) != "hello" {
		t.Errorf("content = %q", content)
	}
}

func TestBundleEmpty(t *testing.T) {
	data := Bundle(nil)
	if _, err := zip.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
		t.Fatalf("empty bundle is not a valid archive: %v", err)
	}
}
