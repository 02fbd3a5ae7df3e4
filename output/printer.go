// Package output prints responses fetched by the executor, either to the
// terminal (plain or colorized) or into a downloaded file.
package output

import (
	"io"
	"net/http"
)

type Printer interface {
	PrintStatusLine(resp *http.Response) error
	PrintHeader(header http.Header) error
	PrintBody(body io.Reader, contentType string) error
}
