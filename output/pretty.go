package output

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"sort"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
)

type PrettyPrinter struct {
	writer        io.Writer
	plain         Printer
	aurora        aurora.Aurora
	headerPalette *HeaderPalette
	xmlPalette    *XMLPalette
	indentWidth   int
}

type PrettyPrinterConfig struct {
	Writer      io.Writer
	EnableColor bool
}

type HeaderPalette struct {
	Proto          aurora.Color
	Status         aurora.Color
	FieldName      aurora.Color
	FieldValue     aurora.Color
	FieldSeparator aurora.Color
}

var defaultHeaderPalette = HeaderPalette{
	Proto:          aurora.BlueFg,
	Status:         aurora.BrownFg | aurora.BoldFm,
	FieldName:      aurora.GrayFg,
	FieldValue:     aurora.CyanFg,
	FieldSeparator: aurora.GrayFg,
}

type XMLPalette struct {
	TagName        aurora.Color
	AttributeName  aurora.Color
	AttributeValue aurora.Color
	Text           aurora.Color
	Symbol         aurora.Color
	Comment        aurora.Color
}

var defaultXMLPalette = XMLPalette{
	TagName:        aurora.BlueFg,
	AttributeName:  aurora.GrayFg,
	AttributeValue: aurora.MagentaFg,
	Text:           aurora.CyanFg,
	Symbol:         aurora.GrayFg,
	Comment:        aurora.GrayFg,
}

func NewPrettyPrinter(config PrettyPrinterConfig) Printer {
	return &PrettyPrinter{
		writer:        config.Writer,
		plain:         NewPlainPrinter(config.Writer),
		aurora:        aurora.NewAurora(config.EnableColor),
		headerPalette: &defaultHeaderPalette,
		xmlPalette:    &defaultXMLPalette,
		indentWidth:   4,
	}
}

func (p *PrettyPrinter) PrintStatusLine(resp *http.Response) error {
	fmt.Fprintf(p.writer, "%s %s\n",
		p.aurora.Colorize(resp.Proto, p.headerPalette.Proto),
		p.aurora.Colorize(resp.Status, p.headerPalette.Status))
	return nil
}

func (p *PrettyPrinter) PrintHeader(header http.Header) error {
	var names []string
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, value := range header[name] {
			fmt.Fprintf(p.writer, "%s%s %s\n",
				p.aurora.Colorize(name, p.headerPalette.FieldName),
				p.aurora.Colorize(":", p.headerPalette.FieldSeparator),
				p.aurora.Colorize(value, p.headerPalette.FieldValue))
		}
	}

	fmt.Fprintln(p.writer)
	return nil
}

func isXML(contentType string) bool {
	contentType = strings.TrimSpace(contentType)

	semicolon := strings.Index(contentType, ";")
	if semicolon != -1 {
		contentType = contentType[:semicolon]
	}

	return contentType == "text/xml" ||
		contentType == "application/xml" ||
		strings.HasSuffix(contentType, "+xml")
}

func (p *PrettyPrinter) PrintBody(body io.Reader, contentType string) error {
	// Fallback to PlainPrinter when the body is not XML
	if !isXML(contentType) {
		return p.plain.PrintBody(body, contentType)
	}

	data, err := ioutil.ReadAll(body)
	if err != nil {
		return errors.Wrap(err, "reading response body")
	}

	if err := p.printXML(data); err != nil {
		// Not well-formed after all; print it as-is.
		return p.plain.PrintBody(bytes.NewReader(data), contentType)
	}
	return nil
}

func (p *PrettyPrinter) printXML(data []byte) error {
	var out bytes.Buffer
	decoder := xml.NewDecoder(bytes.NewReader(data))
	depth := 0

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "parsing response body as XML")
		}

		switch t := token.(type) {
		case xml.StartElement:
			p.printStartElement(&out, t, depth)
			depth++
		case xml.EndElement:
			depth--
			fmt.Fprintf(&out, "%s%s%s%s\n",
				p.indent(depth),
				p.aurora.Colorize("</", p.xmlPalette.Symbol),
				p.aurora.Colorize(t.Name.Local, p.xmlPalette.TagName),
				p.aurora.Colorize(">", p.xmlPalette.Symbol))
		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text != "" {
				fmt.Fprintf(&out, "%s%s\n",
					p.indent(depth),
					p.aurora.Colorize(text, p.xmlPalette.Text))
			}
		case xml.Comment:
			fmt.Fprintf(&out, "%s%s\n",
				p.indent(depth),
				p.aurora.Colorize("<!--"+string(t)+"-->", p.xmlPalette.Comment))
		case xml.ProcInst:
			fmt.Fprintf(&out, "%s%s\n",
				p.indent(depth),
				p.aurora.Colorize("<?"+t.Target+" "+string(t.Inst)+"?>", p.xmlPalette.Comment))
		}
	}

	_, err := p.writer.Write(out.Bytes())
	return err
}

func (p *PrettyPrinter) printStartElement(out io.Writer, element xml.StartElement, depth int) {
	fmt.Fprintf(out, "%s%s%s",
		p.indent(depth),
		p.aurora.Colorize("<", p.xmlPalette.Symbol),
		p.aurora.Colorize(element.Name.Local, p.xmlPalette.TagName))
	for _, attr := range element.Attr {
		fmt.Fprintf(out, " %s%s%s",
			p.aurora.Colorize(attr.Name.Local, p.xmlPalette.AttributeName),
			p.aurora.Colorize("=", p.xmlPalette.Symbol),
			p.aurora.Colorize(`"`+attr.Value+`"`, p.xmlPalette.AttributeValue))
	}
	fmt.Fprintf(out, "%s\n", p.aurora.Colorize(">", p.xmlPalette.Symbol))
}

func (p *PrettyPrinter) indent(depth int) string {
	if depth < 0 {
		depth = 0
	}
	return strings.Repeat(" ", depth*p.indentWidth)
}
