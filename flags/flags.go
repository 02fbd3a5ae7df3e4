// Package flags parses the command line of the uf tool into option sets
// for the input, fetch and output packages.
package flags

import (
	"encoding/base64"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/nojima/urlfetch-go/fetch"
	"github.com/nojima/urlfetch-go/input"
	"github.com/nojima/urlfetch-go/output"
	"github.com/pborman/getopt"
	"github.com/pkg/errors"
)

var reNumber = regexp.MustCompile(`^-?[0-9.]+$`)

type FlagSet interface {
	Args() []string
	PrintUsage(w io.Writer)
}

type OptionSet struct {
	InputOptions  input.Options
	FetchOptions  fetch.Options
	OutputOptions output.Options

	PrintVersion  bool
	PrintLicenses bool
}

func Parse(args []string) (FlagSet, *OptionSet, error) {
	return parse(args, terminalInfo{
		stdoutIsTerminal: isatty.IsTerminal(os.Stdout.Fd()),
	}, askPassword)
}

type terminalInfo struct {
	stdoutIsTerminal bool
}

func parse(args []string, terminal terminalInfo, readPassword func() (string, error)) (FlagSet, *OptionSet, error) {
	inputOptions := input.Options{}
	outputOptions := output.Options{}
	fetchOptions := fetch.Options{}
	timeout := "30s"
	var auth string
	var headersOnly bool
	var verbose bool
	var printVersion bool
	var printLicenses bool

	flagSet := getopt.New()
	flagSet.SetParameters("[METHOD] URL [REQUEST_ITEM [REQUEST_ITEM ...]]")
	flagSet.BoolVarLong(&inputOptions.Post, "post", 'p', "send parameters as an application/x-www-form-urlencoded POST body")
	flagSet.StringVarLong(&inputOptions.PostData, "data", 'd', "raw data to send verbatim as the POST body")
	flagSet.StringVarLong(&timeout, "timeout", 't', "time that you allow the whole operation to take (seconds or duration; negative disables)")
	flagSet.StringVarLong(&auth, "auth", 'a', "basic authentication (USER or USER:PASSWORD; prompts when the password is omitted)")
	flagSet.BoolVarLong(&fetchOptions.FollowRedirects, "follow", 'F', "follow HTTP redirects")
	flagSet.BoolVarLong(&verbose, "verbose", 'v', "always print the response status line and headers")
	flagSet.BoolVarLong(&headersOnly, "headers", 'h', "print only the response status line and headers")
	flagSet.BoolVarLong(&outputOptions.Download, "download", 'D', "save the response body to a file instead of printing it")
	flagSet.StringVarLong(&outputOptions.OutputFile, "output", 'o', "file to save the response body to (implies --download)")
	flagSet.BoolVarLong(&outputOptions.Overwrite, "overwrite", 0, "overwrite an existing download target")
	flagSet.BoolVarLong(&printVersion, "version", 0, "print the version and exit")
	flagSet.BoolVarLong(&printLicenses, "license", 0, "print license information and exit")
	flagSet.Parse(args)

	// Parse --timeout
	d, err := parseDurationOrSeconds(timeout)
	if err != nil {
		return nil, nil, err
	}
	fetchOptions.Timeout = d

	// Parse --auth
	if auth != "" {
		header, err := basicAuthHeader(auth, readPassword)
		if err != nil {
			return nil, nil, err
		}
		fetchOptions.ExtraHeaders = header
	}

	if outputOptions.OutputFile != "" {
		outputOptions.Download = true
	}

	// Output defaults depend on where stdout goes.
	outputOptions.PrintResponseHeader = terminal.stdoutIsTerminal
	outputOptions.PrintResponseBody = true
	if verbose {
		outputOptions.PrintResponseHeader = true
	}
	if headersOnly {
		outputOptions.PrintResponseHeader = true
		outputOptions.PrintResponseBody = false
	}
	outputOptions.EnableFormat = terminal.stdoutIsTerminal
	outputOptions.EnableColor = terminal.stdoutIsTerminal

	optionSet := &OptionSet{
		InputOptions:  inputOptions,
		FetchOptions:  fetchOptions,
		OutputOptions: outputOptions,
		PrintVersion:  printVersion,
		PrintLicenses: printLicenses,
	}
	return flagSet, optionSet, nil
}

func parseDurationOrSeconds(timeout string) (time.Duration, error) {
	if reNumber.MatchString(timeout) {
		seconds, err := strconv.ParseFloat(timeout, 64)
		if err != nil {
			return 0, errors.Errorf("invalid timeout: %s", timeout)
		}
		if seconds < 0 {
			return -1, nil
		}
		return time.Duration(seconds * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return 0, errors.Errorf("invalid timeout: %s", timeout)
	}
	return d, nil
}

func basicAuthHeader(auth string, readPassword func() (string, error)) (string, error) {
	userName := auth
	var password string
	if i := strings.IndexByte(auth, ':'); i >= 0 {
		userName = auth[:i]
		password = auth[i+1:]
	} else {
		p, err := readPassword()
		if err != nil {
			return "", err
		}
		password = p
	}
	credentials := base64.StdEncoding.EncodeToString([]byte(userName + ":" + password))
	return "Authorization: Basic " + credentials + "\n", nil
}
