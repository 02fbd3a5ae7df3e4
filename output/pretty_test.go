package output

import (
	"net/http"
	"strings"
	"testing"
)

func TestPrettyPrinter_PrintStatusLine(t *testing.T) {
	// Setup
	var buffer strings.Builder
	printer := NewPrettyPrinter(PrettyPrinterConfig{
		Writer:      &buffer,
		EnableColor: false,
	})
	response := &http.Response{
		Status:     "200 OK",
		StatusCode: 200,
		Proto:      "HTTP/1.1",
	}

	// Exercise
	err := printer.PrintStatusLine(response)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	// Verify
	expected := "HTTP/1.1 200 OK\n"
	if buffer.String() != expected {
		t.Errorf("unexpected output: expected=%q, actual=%q", expected, buffer.String())
	}
}

func TestPrettyPrinter_PrintHeader(t *testing.T) {
	// Setup
	var buffer strings.Builder
	printer := NewPrettyPrinter(PrettyPrinterConfig{
		Writer:      &buffer,
		EnableColor: false,
	})
	header := http.Header{
		"Content-Type": []string{"text/xml"},
		"X-Foo":        []string{"bar"},
	}

	// Exercise
	err := printer.PrintHeader(header)
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	// Verify: names print sorted, one per line, with a trailing blank line.
	expected := "Content-Type: text/xml\nX-Foo: bar\n\n"
	if buffer.String() != expected {
		t.Errorf("unexpected output: expected=%q, actual=%q", expected, buffer.String())
	}
}

func TestPrettyPrinter_PrintBody_XML(t *testing.T) {
	// Setup
	var buffer strings.Builder
	printer := NewPrettyPrinter(PrettyPrinterConfig{
		Writer:      &buffer,
		EnableColor: false,
	})
	body := strings.NewReader(`<catalog kind="fish"><item>haddock</item></catalog>`)

	// Exercise
	err := printer.PrintBody(body, "text/xml")
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}

	// Verify
	expected := `<catalog kind="fish">
    <item>
        haddock
    </item>
</catalog>
`
	if buffer.String() != expected {
		t.Errorf("unexpected output: expected=%q, actual=%q", expected, buffer.String())
	}
}

func TestPrettyPrinter_PrintBody_MalformedXMLFallsBackToPlain(t *testing.T) {
	var buffer strings.Builder
	printer := NewPrettyPrinter(PrettyPrinterConfig{
		Writer:      &buffer,
		EnableColor: false,
	})
	body := strings.NewReader("<broken")

	err := printer.PrintBody(body, "text/xml")
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	if buffer.String() != "<broken" {
		t.Errorf("unexpected output: expected=%q, actual=%q", "<broken", buffer.String())
	}
}

func TestPrettyPrinter_PrintBody_NonXMLIsCopiedVerbatim(t *testing.T) {
	var buffer strings.Builder
	printer := NewPrettyPrinter(PrettyPrinterConfig{
		Writer:      &buffer,
		EnableColor: false,
	})
	body := strings.NewReader("plain text body")

	err := printer.PrintBody(body, "text/plain")
	if err != nil {
		t.Fatalf("unexpected error: err=%+v", err)
	}
	if buffer.String() != "plain text body" {
		t.Errorf("unexpected output: expected=%q, actual=%q", "plain text body", buffer.String())
	}
}

func TestIsXML(t *testing.T) {
	testCases := []struct {
		contentType string
		expected    bool
	}{
		{"text/xml", true},
		{"application/xml", true},
		{"text/xml; charset=utf-8", true},
		{"application/rss+xml", true},
		{"application/json", false},
		{"text/html", false},
		{"", false},
	}
	for _, tt := range testCases {
		t.Run(tt.contentType, func(t *testing.T) {
			if actual := isXML(tt.contentType); actual != tt.expected {
				t.Errorf("unexpected result: contentType=%q, expected=%v, actual=%v",
					tt.contentType, tt.expected, actual)
			}
		})
	}
}
