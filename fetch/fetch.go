// Package fetch turns a urlval.URL into an HTTP request and drives it
// against a remote endpoint, yielding either an open byte stream or a
// fully-buffered result.
//
// All socket and TLS detail lives in the transport collaborator
// (http.RoundTripper); the executor only builds the request, encodes
// parameters and upload files into the right body format, and reports
// upload progress to the caller.
package fetch

import (
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/nojima/urlfetch-go/urlval"
	"github.com/nojima/urlfetch-go/version"
	"github.com/pkg/errors"
)

const defaultTimeout = 30 * time.Second

// ErrCancelled is reported when the progress callback aborts an upload.
// It surfaces through the same error path as a dropped connection.
var ErrCancelled = errors.New("request cancelled by progress callback")

// ProgressFunc is called periodically while the request body is being
// sent. The context value is passed through opaque and untouched.
// Returning false aborts the request.
type ProgressFunc func(context interface{}, bytesSent, totalBytes int64) bool

// Options control how a request is executed. The zero value is usable.
type Options struct {
	// Timeout bounds the whole exchange. Zero selects the default of 30
	// seconds; a negative value disables the timeout entirely.
	Timeout time.Duration

	// Transport performs the actual exchange. Nil selects a clone of
	// http.DefaultTransport.
	Transport http.RoundTripper

	// FollowRedirects makes the executor follow HTTP redirects. The
	// default is to return the redirect response itself.
	FollowRedirects bool

	// ExtraHeaders holds additional "Name: Value" lines, separated by
	// newlines, appended to the request header block. It is the caller's
	// responsibility to keep them well-formed; lines without a colon are
	// ignored.
	ExtraHeaders string

	// Progress, when non-nil, receives upload progress reports together
	// with ProgressContext.
	Progress        ProgressFunc
	ProgressContext interface{}

	// ParseXML converts a response body into an XML element tree for
	// ReadEntireXML. Nil selects ParseXML from this package.
	ParseXML func(data []byte) (*Element, error)
}

// Executor drives requests for a single URL value. It is cheap to create
// and is not reused across URLs.
type Executor struct {
	url     urlval.URL
	options Options
}

// New creates an Executor for u. A nil options pointer selects defaults.
func New(u urlval.URL, options *Options) *Executor {
	e := &Executor{url: u}
	if options != nil {
		e.options = *options
	}
	return e
}

// Do executes the request and returns the raw HTTP response. Most callers
// want CreateStream or one of the ReadEntire helpers instead; Do exists for
// callers that need the status line and headers.
func (e *Executor) Do(usePost bool) (*http.Response, error) {
	req, err := e.buildRequest(usePost)
	if err != nil {
		return nil, err
	}
	resp, err := e.buildClient().Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "sending HTTP request")
	}
	return resp, nil
}

// CreateStream executes the request and returns a readable stream
// positioned at the start of the response body.
//
// With usePost false, or when no upload files have been recorded,
// parameters are carried in the URL's query string (GET) or as an
// application/x-www-form-urlencoded body (POST). With usePost true and
// upload files present, the body is multipart/form-data: each parameter
// becomes a field part and each file is opened now and written as a file
// part with its recorded MIME type. A missing or unreadable file fails
// here, not when it was recorded.
//
// The caller must close the returned stream; closing it releases the
// underlying connection.
func (e *Executor) CreateStream(usePost bool) (io.ReadCloser, error) {
	resp, err := e.Do(usePost)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// ReadEntireBinary drains the response stream into a byte slice.
func (e *Executor) ReadEntireBinary(usePost bool) ([]byte, error) {
	stream, err := e.CreateStream(usePost)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	data, err := ioutil.ReadAll(stream)
	if err != nil {
		return nil, errors.Wrap(err, "reading response body")
	}
	return data, nil
}

// ReadEntireText drains the response stream and returns it as a string.
// It returns an empty string both on failure and on a genuinely empty
// successful response; callers that need to tell these apart must use
// ReadEntireBinary.
func (e *Executor) ReadEntireText(usePost bool) string {
	data, err := e.ReadEntireBinary(usePost)
	if err != nil {
		return ""
	}
	return string(data)
}

// ReadEntireXML drains the response stream and hands it to the XML parser
// collaborator. Both a failed fetch and a failed parse yield a nil element.
func (e *Executor) ReadEntireXML(usePost bool) (*Element, error) {
	data, err := e.ReadEntireBinary(usePost)
	if err != nil {
		return nil, err
	}
	parse := e.options.ParseXML
	if parse == nil {
		parse = ParseXML
	}
	return parse(data)
}

func (e *Executor) buildRequest(usePost bool) (*http.Request, error) {
	target, tuple, err := buildBody(e.url, usePost)
	if err != nil {
		return nil, err
	}

	method := "GET"
	if usePost {
		method = "POST"
	}

	req, err := http.NewRequest(method, target, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building HTTP request")
	}

	if tuple.body != nil {
		body := tuple.body
		if e.options.Progress != nil {
			body = newProgressReader(body, e.options.Progress, e.options.ProgressContext, tuple.contentLength)
		}
		req.Body = body
		req.ContentLength = tuple.contentLength
		req.Header.Set("Content-Type", tuple.contentType)
	}

	req.Header.Set("User-Agent", fmt.Sprintf("urlfetch-go/%s", version.Current()))
	applyExtraHeaders(req.Header, e.options.ExtraHeaders)
	if host := req.Header.Get("Host"); host != "" {
		req.Host = host
	}

	return req, nil
}

func (e *Executor) buildClient() *http.Client {
	timeout := e.options.Timeout
	switch {
	case timeout == 0:
		timeout = defaultTimeout
	case timeout < 0:
		timeout = 0 // no timeout at all
	}

	var transport http.RoundTripper
	if e.options.Transport == nil {
		transport = http.DefaultTransport.(*http.Transport).Clone()
	} else {
		transport = e.options.Transport
	}

	checkRedirect := func(req *http.Request, via []*http.Request) error {
		// Do not follow redirects
		return http.ErrUseLastResponse
	}
	if e.options.FollowRedirects {
		checkRedirect = nil
	}

	return &http.Client{
		Transport:     transport,
		Timeout:       timeout,
		CheckRedirect: checkRedirect,
	}
}

func applyExtraHeaders(header http.Header, extra string) {
	for _, line := range strings.Split(extra, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		i := strings.IndexByte(line, ':')
		if i < 0 {
			continue
		}
		header.Add(strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]))
	}
}
