package urlval

import (
	"strings"

	"github.com/nojima/urlfetch-go/escape"
)

// Field is a single name/value parameter. Names are not unique: repeated
// form fields are legal and their order is preserved.
type Field struct {
	Name  string
	Value string
}

// FileUpload references a file to be sent as part of a POST operation.
// Only the path is recorded; the file itself is not read until the request
// is sent. The MIME type travels with the entry so the upload list and the
// MIME type mapping cannot drift apart.
type FileUpload struct {
	Name     string
	Path     string
	MimeType string
}

// Store accumulates GET/POST parameters and file-upload references in
// insertion order. The zero value is an empty store.
//
// Names and values are held in their plain, unescaped form; escaping is
// applied when the store is serialized with QueryString.
type Store struct {
	fields []Field
	files  []FileUpload
}

// AddParameter appends a name/value pair. Existing entries with the same
// name are kept; nothing is overwritten or dropped.
func (s *Store) AddParameter(name, value string) {
	s.fields = append(s.fields, Field{Name: name, Value: value})
}

// AddFileUpload appends a file-upload reference together with its MIME
// type. The file is not touched.
func (s *Store) AddFileUpload(name, path, mimeType string) {
	s.files = append(s.files, FileUpload{Name: name, Path: path, MimeType: mimeType})
}

// IsEmpty reports whether the store holds no parameters and no uploads.
func (s *Store) IsEmpty() bool {
	return len(s.fields) == 0 && len(s.files) == 0
}

// QueryString serializes the parameters as "name=value" pairs joined with
// '&'. Both names and values are escape-encoded for the parameter context,
// so reserved characters cannot corrupt the encoding. Duplicate names all
// serialize. File uploads do not appear in the query string.
func (s *Store) QueryString() string {
	var b strings.Builder
	for i, f := range s.fields {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escape.AddEscapeChars(f.Name, true))
		b.WriteByte('=')
		b.WriteString(escape.AddEscapeChars(f.Value, true))
	}
	return b.String()
}

// Fields returns a copy of the parameter list in insertion order.
func (s *Store) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Files returns a copy of the file-upload list in insertion order.
func (s *Store) Files() []FileUpload {
	return append([]FileUpload(nil), s.files...)
}

// MimeTypes returns the MIME type recorded for each upload-file parameter
// name.
func (s *Store) MimeTypes() map[string]string {
	if len(s.files) == 0 {
		return nil
	}
	m := make(map[string]string, len(s.files))
	for _, f := range s.files {
		m[f.Name] = f.MimeType
	}
	return m
}

// clone deep-copies the store so that a derived URL value never shares
// backing arrays with its origin.
func (s Store) clone() Store {
	return Store{
		fields: append([]Field(nil), s.fields...),
		files:  append([]FileUpload(nil), s.files...),
	}
}
