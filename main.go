package urlfetch

import (
	"bufio"
	"fmt"
	"os"

	"github.com/nojima/urlfetch-go/fetch"
	"github.com/nojima/urlfetch-go/flags"
	"github.com/nojima/urlfetch-go/input"
	"github.com/nojima/urlfetch-go/output"
	"github.com/nojima/urlfetch-go/version"
	"github.com/pkg/errors"
)

func Main() error {
	// Parse flags
	flagSet, optionSet, err := flags.Parse(os.Args)
	if err != nil {
		return err
	}

	if optionSet.PrintVersion {
		fmt.Println(version.Current())
		return nil
	}
	if optionSet.PrintLicenses {
		version.PrintLicenses(os.Stdout)
		return nil
	}

	// Parse positional arguments
	req, err := input.ParseArgs(flagSet.Args(), &optionSet.InputOptions)
	if _, ok := errors.Cause(err).(*input.UsageError); ok {
		flagSet.PrintUsage(os.Stderr)
		return err
	}
	if err != nil {
		return err
	}

	// Execute the request
	fetchOptions := optionSet.FetchOptions
	fetchOptions.ExtraHeaders += req.ExtraHeaders
	executor := fetch.New(req.URL, &fetchOptions)

	resp, err := executor.Do(req.UsePost)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Print or save the response
	if optionSet.OutputOptions.Download {
		fileWriter := output.NewFileWriter(req.URL, &optionSet.OutputOptions)
		return fileWriter.Download(resp.Body, resp.ContentLength)
	}

	writer := bufio.NewWriter(os.Stdout)
	defer writer.Flush()

	var printer output.Printer
	if optionSet.OutputOptions.EnableFormat {
		printer = output.NewPrettyPrinter(output.PrettyPrinterConfig{
			Writer:      writer,
			EnableColor: optionSet.OutputOptions.EnableColor,
		})
	} else {
		printer = output.NewPlainPrinter(writer)
	}

	if optionSet.OutputOptions.PrintResponseHeader {
		if err := printer.PrintStatusLine(resp); err != nil {
			return err
		}
		if err := printer.PrintHeader(resp.Header); err != nil {
			return err
		}
		writer.Flush()
	}
	if optionSet.OutputOptions.PrintResponseBody {
		if err := printer.PrintBody(resp.Body, resp.Header.Get("Content-Type")); err != nil {
			return err
		}
	}

	return nil
}
