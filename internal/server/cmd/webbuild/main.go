// Command webbuild bundles the terminal client into web/client.js.
package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/sirupsen/logrus"
)

func main() {
	minify := flag.Bool("minify", false, "minify the bundle")
	sourcemap := flag.Bool("sourcemap", true, "inline a source map")
	flag.Parse()

	wd, err := os.Getwd()
	if err != nil {
		logrus.WithError(err).Fatal("getwd")
	}

	entry := filepath.Join(wd, "web", "src", "main.ts")
	out := filepath.Join(wd, "web", "client.js")
	if _, err := os.Stat(entry); err != nil {
		logrus.WithError(err).WithField("entry", entry).Fatal("missing client entry point")
	}

	maps := api.SourceMapNone
	if *sourcemap {
		maps = api.SourceMapInline
	}
	result := api.Build(api.BuildOptions{
		EntryPoints:       []string{entry},
		Outfile:           out,
		AbsWorkingDir:     wd,
		Bundle:            true,
		Format:            api.FormatIIFE,
		Target:            api.ES2018,
		Platform:          api.PlatformBrowser,
		LogLevel:          api.LogLevelInfo,
		Sourcemap:         maps,
		MinifyWhitespace:  *minify,
		MinifyIdentifiers: *minify,
		MinifySyntax:      *minify,
		Charset:           api.CharsetUTF8,
		Write:             true,
		Loader: map[string]api.Loader{
			".ts": api.LoaderTS,
		},
	})
	for _, message := range result.Warnings {
		logrus.WithField("file", locationFile(message)).Warn(message.Text)
	}
	if len(result.Errors) > 0 {
		for _, message := range result.Errors {
			logrus.WithField("file", locationFile(message)).Error(message.Text)
		}
		logrus.Fatalf("esbuild failed with %d error(s)", len(result.Errors))
	}
	for _, f := range result.OutputFiles {
		logrus.WithFields(logrus.Fields{"path": f.Path, "bytes": len(f.Contents)}).Info("bundle written")
	}
}

func locationFile(m api.Message) string {
	if m.Location == nil {
		return ""
	}
	return m.Location.File
}
