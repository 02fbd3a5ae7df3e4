package fetch

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/nojima/urlfetch-go/urlval"
	"github.com/pkg/errors"
)

type bodyTuple struct {
	body          io.ReadCloser
	contentLength int64
	contentType   string
}

// buildBody decides where the accumulated parameters go and returns the
// target URL together with the request body, if any.
func buildBody(u urlval.URL, usePost bool) (string, bodyTuple, error) {
	if !usePost {
		// GET: parameters ride in the query string, POST data is unused.
		return u.ToString(true), bodyTuple{}, nil
	}

	if len(u.FilesToUpload()) > 0 {
		tuple, err := buildMultipartBody(u)
		return u.ToString(false), tuple, err
	}

	return u.ToString(false), buildFormBody(u), nil
}

// buildFormBody serializes the parameters (and any POST data blob) as an
// application/x-www-form-urlencoded body. Setting both parameters and POST
// data throws them in together, separated by '&'; that combination is a
// caller mistake and is passed on as typed.
func buildFormBody(u urlval.URL) bodyTuple {
	var parts []string
	if qs := u.QueryString(); qs != "" {
		parts = append(parts, qs)
	}
	if data := u.PostData(); data != "" {
		parts = append(parts, data)
	}
	if len(parts) == 0 {
		return bodyTuple{}
	}

	body := strings.Join(parts, "&")
	return bodyTuple{
		body:          ioutil.NopCloser(strings.NewReader(body)),
		contentLength: int64(len(body)),
		contentType:   "application/x-www-form-urlencoded; charset=utf-8",
	}
}

// buildMultipartBody encodes parameters and upload files as a
// multipart/form-data body. Upload files are opened only here, so an
// unreadable file surfaces as a send-time failure.
func buildMultipartBody(u urlval.URL) (bodyTuple, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, f := range u.Parameters() {
		if err := writer.WriteField(f.Name, f.Value); err != nil {
			return bodyTuple{}, errors.Wrapf(err, "writing form field '%s'", f.Name)
		}
	}
	for _, upload := range u.FilesToUpload() {
		if err := writeFilePart(writer, upload); err != nil {
			return bodyTuple{}, err
		}
	}
	if err := writer.Close(); err != nil {
		return bodyTuple{}, errors.Wrap(err, "finishing multipart body")
	}

	return bodyTuple{
		body:          ioutil.NopCloser(bytes.NewReader(buf.Bytes())),
		contentLength: int64(buf.Len()),
		contentType:   writer.FormDataContentType(),
	}, nil
}

func writeFilePart(writer *multipart.Writer, upload urlval.FileUpload) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, upload.Name, filepath.Base(upload.Path)))
	if upload.MimeType != "" {
		header.Set("Content-Type", upload.MimeType)
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		return errors.Wrapf(err, "creating form part for '%s'", upload.Name)
	}

	file, err := os.Open(upload.Path)
	if err != nil {
		return errors.Wrapf(err, "opening upload file for '%s'", upload.Name)
	}
	_, err = io.Copy(part, file)
	// The handle is held only while its bytes are written.
	file.Close()
	if err != nil {
		return errors.Wrapf(err, "reading upload file for '%s'", upload.Name)
	}
	return nil
}
