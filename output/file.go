package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"code.cloudfoundry.org/bytefmt"
	"github.com/nojima/urlfetch-go/urlval"
	"github.com/pkg/errors"
)

// FileWriter saves a response body to a local file, reporting transferred
// byte counts on stderr while it runs.
type FileWriter struct {
	fullPath string
}

func NewFileWriter(u urlval.URL, options *Options) *FileWriter {
	var fullPath string

	if options.OutputFile == "" {
		base := filepath.Base(u.SubPath())
		if base == "." || base == "/" || base == "" {
			base = "index"
		}
		fullPath = fmt.Sprintf("./%s", base)
	} else {
		fullPath = options.OutputFile
	}

	if !options.Overwrite {
		fullPath = makeNonOverlappingFilename(fullPath)
	}

	return &FileWriter{
		fullPath: fullPath,
	}
}

func makeNonOverlappingFilename(path string) string {
	_, err := os.Stat(path)
	if err == nil {
		re := regexp.MustCompile(`\.(\d+)$`)
		newPath := re.ReplaceAllStringFunc(path, func(index string) string {
			i, err := strconv.Atoi(strings.TrimPrefix(index, "."))
			if err != nil {
				panic(err)
			}
			i++
			return fmt.Sprintf(".%d", i)
		})
		if path == newPath {
			path = fmt.Sprintf("%s.%d", path, 1)
		} else {
			path = newPath
		}
		path = makeNonOverlappingFilename(path)
	}
	return path
}

// Download drains body into the target file. contentLength may be -1 when
// the server did not announce one; progress then shows only the running
// byte count.
func (f *FileWriter) Download(body io.Reader, contentLength int64) error {
	file, err := os.Create(f.fullPath)
	if err != nil {
		return errors.Wrapf(err, "creating '%s'", f.fullPath)
	}
	defer file.Close()

	buf := make([]byte, 32*1024)
	var totalRead int64

	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, err := file.Write(buf[:n]); err != nil {
				return errors.Wrapf(err, "writing '%s'", f.fullPath)
			}
			totalRead += int64(n)
			f.printProgress(totalRead, contentLength)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return errors.Wrap(readErr, "reading response body")
		}
	}

	fmt.Fprintf(os.Stderr, "\rDownloaded %s to %s\n",
		bytefmt.ByteSize(uint64(totalRead)), f.fullPath)
	return nil
}

func (f *FileWriter) printProgress(totalRead, contentLength int64) {
	if contentLength > 0 {
		fmt.Fprintf(os.Stderr, "\rDownloading... %s / %s (%d%%)",
			bytefmt.ByteSize(uint64(totalRead)),
			bytefmt.ByteSize(uint64(contentLength)),
			totalRead*100/contentLength)
	} else {
		fmt.Fprintf(os.Stderr, "\rDownloading... %s", bytefmt.ByteSize(uint64(totalRead)))
	}
}

func (f *FileWriter) Filename() string {
	return filepath.Base(f.fullPath)
}
