package fetch

import (
	"io/ioutil"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nojima/urlfetch-go/urlval"
	"github.com/pkg/errors"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := ioutil.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write temp file: err=%v", err)
	}
	return path
}

func TestBuildBody_GET(t *testing.T) {
	u := urlval.New("http://example.com/foo").WithParameter("a", "1")

	target, tuple, err := buildBody(u, false)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	if expected := "http://example.com/foo?a=1"; target != expected {
		t.Errorf("unexpected target: expected=%q, actual=%q", expected, target)
	}
	if tuple.body != nil {
		t.Errorf("expected no body for GET")
	}
}

func TestBuildBody_POSTKeepsParametersOutOfURL(t *testing.T) {
	u := urlval.New("http://example.com/foo").WithParameter("a", "1")

	target, tuple, err := buildBody(u, true)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	if expected := "http://example.com/foo"; target != expected {
		t.Errorf("unexpected target: expected=%q, actual=%q", expected, target)
	}
	body, _ := ioutil.ReadAll(tuple.body)
	if expected := "a=1"; string(body) != expected {
		t.Errorf("unexpected body: expected=%q, actual=%q", expected, string(body))
	}
}

func TestBuildFormBody_CombinesParametersAndPostData(t *testing.T) {
	// Setting both is a caller mistake; they get thrown in together rather
	// than one silently winning.
	u := urlval.New("http://example.com").
		WithParameter("a", "1").
		WithPOSTData("raw=data")

	tuple := buildFormBody(u)
	body, _ := ioutil.ReadAll(tuple.body)
	if expected := "a=1&raw=data"; string(body) != expected {
		t.Errorf("unexpected body: expected=%q, actual=%q", expected, string(body))
	}
}

func TestCreateStream_MultipartUpload(t *testing.T) {
	// Setup
	path := writeTempFile(t, "notes.xml", "<notes>hello</notes>")

	type filePart struct {
		fileName    string
		contentType string
		content     string
	}
	var gotFields map[string][]string
	gotFiles := map[string]filePart{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			t.Errorf("unexpected content type: %q", r.Header.Get("Content-Type"))
			return
		}
		reader := multipart.NewReader(r.Body, params["boundary"])
		form, err := reader.ReadForm(1 << 20)
		if err != nil {
			t.Errorf("failed to parse multipart form: err=%v", err)
			return
		}
		gotFields = form.Value
		for name, headers := range form.File {
			fh := headers[0]
			f, _ := fh.Open()
			content, _ := ioutil.ReadAll(f)
			f.Close()
			gotFiles[name] = filePart{
				fileName:    fh.Filename,
				contentType: fh.Header.Get("Content-Type"),
				content:     string(content),
			}
		}
	}))
	defer server.Close()

	u := urlval.New(server.URL).
		WithParameter("description", "some notes").
		WithFileToUpload("notes", path, "text/xml")

	// Exercise
	stream, err := New(u, nil).CreateStream(true)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	stream.Close()

	// Verify
	if len(gotFields["description"]) != 1 || gotFields["description"][0] != "some notes" {
		t.Errorf("unexpected form fields: %v", gotFields)
	}
	part, ok := gotFiles["notes"]
	if !ok {
		t.Fatalf("file part 'notes' missing: %v", gotFiles)
	}
	if part.fileName != "notes.xml" {
		t.Errorf("unexpected filename: expected=%q, actual=%q", "notes.xml", part.fileName)
	}
	if part.contentType != "text/xml" {
		t.Errorf("unexpected part content type: expected=%q, actual=%q", "text/xml", part.contentType)
	}
	if part.content != "<notes>hello</notes>" {
		t.Errorf("unexpected part content: expected=%q, actual=%q", "<notes>hello</notes>", part.content)
	}
}

func TestCreateStream_MissingUploadFileFailsAtSendTime(t *testing.T) {
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
	}))
	defer server.Close()

	// Recording the missing file succeeds; only sending fails.
	u := urlval.New(server.URL).
		WithFileToUpload("data", filepath.Join(t.TempDir(), "does-not-exist.bin"), "application/octet-stream")

	stream, err := New(u, nil).CreateStream(true)
	if err == nil {
		stream.Close()
		t.Fatalf("expected an error for a missing upload file")
	}
	if !strings.Contains(err.Error(), "data") {
		t.Errorf("expected the error to name the parameter: err=%v", err)
	}
	if !os.IsNotExist(errors.Cause(err)) {
		t.Errorf("expected a not-exist cause: err=%v", err)
	}
	if requestCount != 0 {
		t.Errorf("expected no request to reach the server, got %d", requestCount)
	}
}
