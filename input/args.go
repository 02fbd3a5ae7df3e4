// Package input turns command line arguments into a URL value plus request
// options, following the item grammar "name=value" (parameter),
// "name:value" (header) and "name@path" (file upload).
package input

import (
	"mime"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nojima/urlfetch-go/urlval"
	"github.com/pkg/errors"
)

var (
	reMethod          = regexp.MustCompile(`^[a-zA-Z]+$`)
	reHeaderFieldName = regexp.MustCompile("^[-!#$%&'*+.^_|~a-zA-Z0-9]+$")
	reScheme          = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+-.]*://`)
)

type itemType int

const (
	unknownItem itemType = iota
	httpHeaderItem
	parameterItem
	fileUploadItem
)

type UsageError string

func (e *UsageError) Error() string {
	return string(*e)
}

func newUsageError(message string) error {
	u := UsageError(message)
	return errors.WithStack(&u)
}

// Options adjust how arguments are interpreted.
type Options struct {
	// Post forces a POST even when nothing else would require one.
	Post bool
	// PostData is a raw POST body to send verbatim.
	PostData string
}

// Request is the parsed outcome: the URL value with everything accumulated
// on it, whether to POST, and extra header lines for the executor.
type Request struct {
	UsePost      bool
	URL          urlval.URL
	ExtraHeaders string
}

// ParseArgs parses "[METHOD] URL [ITEM ...]". METHOD may only be GET or
// POST; without it, POST is used when a body (upload files, POST data, or
// --post) calls for one.
func ParseArgs(args []string, options *Options) (*Request, error) {
	var argMethod string
	var argURL string
	var argItems []string
	switch len(args) {
	case 0:
		return nil, newUsageError("URL is required")
	case 1:
		argURL = args[0]
	default:
		if reMethod.MatchString(args[0]) {
			argMethod = args[0]
			argURL = args[1]
			argItems = args[2:]
		} else {
			argURL = args[0]
			argItems = args[1:]
		}
	}

	req := Request{
		URL: urlval.New(normalizeURL(argURL)),
	}

	var headerLines strings.Builder
	for _, arg := range argItems {
		if err := parseItem(arg, &req, &headerLines); err != nil {
			return nil, err
		}
	}
	req.ExtraHeaders = headerLines.String()

	if options.PostData != "" {
		req.URL = req.URL.WithPOSTData(options.PostData)
	}

	if argMethod != "" {
		usePost, err := parseMethod(argMethod)
		if err != nil {
			return nil, err
		}
		req.UsePost = usePost
	} else {
		req.UsePost = options.Post ||
			options.PostData != "" ||
			len(req.URL.FilesToUpload()) > 0
	}

	return &req, nil
}

func parseMethod(s string) (bool, error) {
	switch strings.ToUpper(s) {
	case "GET":
		return false, nil
	case "POST":
		return true, nil
	}
	return false, newUsageError("METHOD must be GET or POST: " + s)
}

// normalizeURL fills in the pieces people leave out on a command line.
func normalizeURL(s string) string {
	defaultScheme := "http"
	defaultHost := "localhost"

	// ex) :8080/hello or /hello
	if strings.HasPrefix(s, ":") || strings.HasPrefix(s, "/") {
		s = defaultHost + s
	}

	// ex) example.com/hello
	if !reScheme.MatchString(s) {
		s = defaultScheme + "://" + s
	}

	return s
}

func parseItem(s string, req *Request, headerLines *strings.Builder) error {
	itemType, name, value := splitItem(s)
	switch itemType {
	case parameterItem:
		req.URL = req.URL.WithParameter(name, value)
	case httpHeaderItem:
		if !reHeaderFieldName.MatchString(name) {
			return errors.Errorf("invalid header field name: %s", name)
		}
		headerLines.WriteString(name)
		headerLines.WriteString(": ")
		headerLines.WriteString(value)
		headerLines.WriteString("\n")
	case fileUploadItem:
		path, mimeType := splitUploadValue(value)
		req.URL = req.URL.WithFileToUpload(name, path, mimeType)
	default:
		return errors.Errorf("unknown request item: %s", s)
	}
	return nil
}

func splitItem(s string) (itemType, string, string) {
	for i, c := range s {
		switch c {
		case ':':
			return httpHeaderItem, s[:i], s[i+1:]
		case '=':
			return parameterItem, s[:i], s[i+1:]
		case '@':
			return fileUploadItem, s[:i], s[i+1:]
		}
	}
	return unknownItem, "", ""
}

// splitUploadValue separates "path;type=MIME"; without an explicit type the
// MIME type is guessed from the file extension.
func splitUploadValue(value string) (path, mimeType string) {
	if i := strings.LastIndex(value, ";type="); i >= 0 {
		return value[:i], value[i+len(";type="):]
	}
	mimeType = mime.TypeByExtension(filepath.Ext(value))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return value, mimeType
}
