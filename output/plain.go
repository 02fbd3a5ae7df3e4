package output

import (
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// PlainPrinter writes the response exactly as received, with no coloring
// and no reformatting. It is the printer of choice when output is piped.
type PlainPrinter struct {
	writer io.Writer
}

func NewPlainPrinter(writer io.Writer) Printer {
	return &PlainPrinter{writer: writer}
}

func (p *PlainPrinter) PrintStatusLine(resp *http.Response) error {
	_, err := fmt.Fprintf(p.writer, "%s %s\n", resp.Proto, resp.Status)
	return err
}

func (p *PlainPrinter) PrintHeader(header http.Header) error {
	for name, values := range header {
		for _, value := range values {
			if _, err := fmt.Fprintf(p.writer, "%s: %s\n", name, value); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(p.writer)
	return err
}

// PrintBody copies the body through untouched; contentType is ignored.
func (p *PlainPrinter) PrintBody(body io.Reader, contentType string) error {
	if _, err := io.Copy(p.writer, body); err != nil {
		return errors.Wrap(err, "printing response body")
	}
	return nil
}
