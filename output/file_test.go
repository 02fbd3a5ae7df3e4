package output

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nojima/urlfetch-go/urlval"
)

func TestMakeNonOverlappingFilename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")

	// Nothing exists yet; the name is kept.
	if actual := makeNonOverlappingFilename(path); actual != path {
		t.Errorf("unexpected filename: expected=%q, actual=%q", path, actual)
	}

	// An existing file pushes the name to a .1 suffix, then .2, and so on.
	if err := ioutil.WriteFile(path, nil, 0600); err != nil {
		t.Fatalf("failed to create file: err=%v", err)
	}
	if expected := path + ".1"; makeNonOverlappingFilename(path) != expected {
		t.Errorf("unexpected filename: expected=%q, actual=%q",
			expected, makeNonOverlappingFilename(path))
	}
	if err := ioutil.WriteFile(path+".1", nil, 0600); err != nil {
		t.Fatalf("failed to create file: err=%v", err)
	}
	if expected := path + ".2"; makeNonOverlappingFilename(path) != expected {
		t.Errorf("unexpected filename: expected=%q, actual=%q",
			expected, makeNonOverlappingFilename(path))
	}
}

func TestFileWriter_Download(t *testing.T) {
	// Setup
	path := filepath.Join(t.TempDir(), "body.txt")
	writer := &FileWriter{fullPath: path}
	body := strings.NewReader("fresh fish")

	// Exercise
	err := writer.Download(body, int64(body.Len()))
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	// Verify
	content, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read downloaded file: err=%v", err)
	}
	if string(content) != "fresh fish" {
		t.Errorf("unexpected content: expected=%q, actual=%q", "fresh fish", string(content))
	}
}

func TestNewFileWriter_OutputFileOverridesURL(t *testing.T) {
	target := filepath.Join(t.TempDir(), "override.bin")
	writer := NewFileWriter(urlval.New("http://example.com/fish/catalog.xml"),
		&Options{OutputFile: target, Overwrite: true})
	if writer.fullPath != target {
		t.Errorf("unexpected path: expected=%q, actual=%q", target, writer.fullPath)
	}
	if writer.Filename() != "override.bin" {
		t.Errorf("unexpected filename: expected=%q, actual=%q", "override.bin", writer.Filename())
	}

	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Errorf("expected no file to be created before Download")
	}
}
