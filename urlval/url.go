// Package urlval provides an immutable URL value type together with the
// ordered parameter and file-upload store that backs it.
//
// A URL is a plain value: every With* operation returns a new value and
// leaves the receiver untouched, so values can be freely shared between
// goroutines. The raw URL string is stored verbatim and only lazily picked
// apart by the accessors; it is never normalized.
package urlval

import (
	"regexp"
	"strings"
)

var reScheme = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+-.]*://`)

// URL represents a URL plus any GET/POST parameters, file-upload references
// and POST data that have been accumulated on it.
//
// Setting both POST data and parameters is a caller mistake: when the
// request is later sent as a POST, the two get serialized together, which
// is rarely what you want. Neither is rejected here.
type URL struct {
	raw      string
	postData string
	store    Store
}

// New creates a URL from a string. The string is stored as given.
func New(rawURL string) URL {
	return URL{raw: rawURL}
}

// ToString reconstructs the textual form of the URL. When includeParameters
// is true and parameters have been added with WithParameter, they are
// appended as an encoded query string, using '&' instead of '?' if the raw
// URL already carries one.
func (u URL) ToString(includeParameters bool) string {
	if !includeParameters || len(u.store.fields) == 0 {
		return u.raw
	}
	sep := "?"
	if strings.Contains(u.raw, "?") {
		sep = "&"
	}
	return u.raw + sep + u.store.QueryString()
}

// String implements fmt.Stringer; it is ToString with parameters included.
func (u URL) String() string {
	return u.ToString(true)
}

// IsWellFormed reports whether the URL looks valid: a scheme followed by a
// non-empty host with no unescaped spaces or control characters. This is a
// syntactic sanity check, not an RFC validator.
func (u URL) IsWellFormed() bool {
	m := reScheme.FindString(u.raw)
	if m == "" {
		return false
	}
	host := u.raw[len(m):]
	if i := strings.IndexAny(host, "/?"); i >= 0 {
		host = host[:i]
	}
	if host == "" {
		return false
	}
	for i := 0; i < len(host); i++ {
		if c := host[i]; c <= ' ' || c == 0x7f {
			return false
		}
	}
	return true
}

// Scheme returns the part of the URL before "://", e.g. "http" for
// "http://www.xyz.com/foobar". It is empty when the URL has no scheme.
func (u URL) Scheme() string {
	if i := strings.Index(u.raw, "://"); i >= 0 {
		return u.raw[:i]
	}
	return ""
}

// Domain returns the host segment of the URL, e.g. "www.xyz.com" for
// "http://www.xyz.com/foobar". A port suffix is kept as typed; the domain
// is the authority exactly as written. URLs without a scheme are treated as
// starting with the host.
func (u URL) Domain() string {
	rest := u.afterScheme()
	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// SubPath returns everything between the domain and any query string, with
// the leading '/' stripped, e.g. "foo/bar" for
// "http://www.xyz.com/foo/bar?x=1".
func (u URL) SubPath() string {
	rest := u.afterScheme()
	slash := strings.IndexByte(rest, '/')
	question := strings.IndexByte(rest, '?')
	if slash < 0 || (question >= 0 && question < slash) {
		return ""
	}
	path := rest[slash+1:]
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}

func (u URL) afterScheme() string {
	if m := reScheme.FindString(u.raw); m != "" {
		return u.raw[len(m):]
	}
	return u.raw
}

// WithNewSubPath returns a URL whose path is replaced by newPath while the
// scheme, domain and any existing query string are preserved. E.g. calling
// it with "bar" on "http://www.xyz.com/foo?x=1" yields
// "http://www.xyz.com/bar?x=1".
func (u URL) WithNewSubPath(newPath string) URL {
	var b strings.Builder
	if scheme := reScheme.FindString(u.raw); scheme != "" {
		b.WriteString(scheme)
	}
	b.WriteString(u.Domain())
	b.WriteByte('/')
	b.WriteString(strings.TrimPrefix(newPath, "/"))
	if i := strings.IndexByte(u.raw, '?'); i >= 0 {
		b.WriteString(u.raw[i:])
	}
	c := u.copy()
	c.raw = b.String()
	return c
}

// WithParameter returns a copy of the URL with a GET/POST parameter
// appended. Values may contain arbitrary characters; they are escaped when
// the URL is serialized or sent.
func (u URL) WithParameter(name, value string) URL {
	c := u.copy()
	c.store.AddParameter(name, value)
	return c
}

// WithFileToUpload returns a copy of the URL with a file-upload parameter
// recorded. The path and MIME type are stored, but the file is not read
// until the URL is later used to create a request stream.
func (u URL) WithFileToUpload(name, path, mimeType string) URL {
	c := u.copy()
	c.store.AddFileUpload(name, path, mimeType)
	return c
}

// WithPOSTData returns a copy of the URL whose POST body is replaced (not
// appended to) with data. The data is only used when the URL is sent with a
// POST command.
func (u URL) WithPOSTData(data string) URL {
	c := u.copy()
	c.postData = data
	return c
}

// Parameters returns the accumulated parameters in insertion order.
// Duplicate names are preserved.
func (u URL) Parameters() []Field {
	return u.store.Fields()
}

// FilesToUpload returns the recorded file uploads in insertion order.
func (u URL) FilesToUpload() []FileUpload {
	return u.store.Files()
}

// MimeTypesOfUploadFiles returns the MIME type recorded for each
// upload-file parameter name.
func (u URL) MimeTypesOfUploadFiles() map[string]string {
	return u.store.MimeTypes()
}

// QueryString serializes the accumulated parameters as an encoded
// name=value query string, without a leading '?'.
func (u URL) QueryString() string {
	return u.store.QueryString()
}

// PostData returns the data set with WithPOSTData.
func (u URL) PostData() string {
	return u.postData
}

// HasParameters reports whether any parameters or upload files have been
// accumulated.
func (u URL) HasParameters() bool {
	return !u.store.IsEmpty()
}

func (u URL) copy() URL {
	u.store = u.store.clone()
	return u
}
