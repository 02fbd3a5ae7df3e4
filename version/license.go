package version

import (
	"fmt"
	"io"
)

type license struct {
	module  string
	license string
	url     string
}

var licenses = []license{
	{"urlfetch-go", "MIT License", "https://github.com/nojima/urlfetch-go/blob/master/LICENSE"},
	{"Go", "BSD License", "https://golang.org/LICENSE"},
	{"aurora", "WTFPL", "https://github.com/logrusorgru/aurora/blob/master/LICENSE"},
	{"go-isatty", "MIT License", "https://github.com/mattn/go-isatty/blob/master/LICENSE"},
	{"getopt", "BSD License", "https://github.com/pborman/getopt/blob/master/LICENSE"},
	{"errors", "BSD License", "https://github.com/pkg/errors/blob/master/LICENSE"},
	{"bytefmt", "Apache License", "https://github.com/cloudfoundry/bytefmt/blob/master/LICENSE"},
	{"androiddnsfix", "MIT License", "https://github.com/mtibben/androiddnsfix/blob/master/LICENSE"},
}

// PrintLicenses writes the licenses of this tool and its dependencies.
func PrintLicenses(w io.Writer) {
	for _, l := range licenses {
		fmt.Fprintf(w, "%s:\n  %s\n  %s\n\n", l.module, l.license, l.url)
	}
}
