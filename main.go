// symbolmap regenerates a linker version script from Doxygen XML.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/phobologic/symbolmap/internal/classify"
	"github.com/phobologic/symbolmap/internal/config"
	"github.com/phobologic/symbolmap/internal/diff"
	"github.com/phobologic/symbolmap/internal/discover"
	"github.com/phobologic/symbolmap/internal/header"
	"github.com/phobologic/symbolmap/internal/model"
	"github.com/phobologic/symbolmap/internal/report"
	"github.com/phobologic/symbolmap/internal/toon"
)

var version = "dev"

const usageText = `Usage: symbolmap [flags] <xml file or dir>...
       symbolmap init [flags] [path]

Classify the entities in Doxygen XML output as public or private ABI and
print the version script with a stanza holding the symbols that are not yet
published.

Flags:
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 && args[0] == "init" {
		return runInit(args[1:], stdout, stderr)
	}

	fs := flag.NewFlagSet("symbolmap", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usageText)
		fs.PrintDefaults()
	}

	var (
		configPath  string
		baseline    string
		namespace   string
		stanza      string
		extends     string
		match       string
		sourceRoot  string
		outPath     string
		format      string
		cachePath   string
		workers     int
		showDiff    bool
		verbose     bool
		showVersion bool
	)

	fs.StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath+" if present)")
	fs.StringVar(&baseline, "baseline", "", "published version script")
	fs.StringVar(&namespace, "namespace", "", "library namespace")
	fs.StringVar(&stanza, "stanza", "", "version stanza to open if the baseline has none open")
	fs.StringVar(&extends, "extends", "", "version the new stanza extends (detected when empty)")
	fs.StringVar(&match, "match", "", "baseline match mode: text or lines")
	fs.StringVar(&sourceRoot, "source-root", "", "source tree for detecting in-class definitions")
	fs.StringVar(&outPath, "o", "", "write output to file instead of stdout")
	fs.StringVar(&format, "format", "map", "output format: map or toon")
	fs.StringVar(&cachePath, "cache", "", "cache file path")
	fs.IntVar(&workers, "j", 0, "documents classified concurrently (default GOMAXPROCS)")
	fs.BoolVar(&showDiff, "diff", false, "print a unified diff against the baseline")
	fs.BoolVar(&verbose, "v", false, "log classification decisions")
	fs.BoolVar(&showVersion, "V", false, "show version and exit")
	fs.BoolVar(&showVersion, "version", false, "show version and exit")

	if err := fs.Parse(reorderArgs(args)); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if showVersion {
		_, _ = fmt.Fprintf(stdout, "symbolmap %s\n", version)
		return nil
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return nil
	}

	if format != "map" && format != "toon" {
		return fmt.Errorf("unknown format %q", format)
	}
	if showDiff && format != "map" {
		return errors.New("-diff requires -format map")
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	optional := configPath == ""
	if optional {
		configPath = config.DefaultPath
	}
	cfg, err := config.Load(configPath, optional)
	if err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "baseline":
			cfg.Baseline = baseline
		case "namespace":
			cfg.Namespace = namespace
		case "stanza":
			cfg.Version = stanza
		case "extends":
			cfg.Extends = extends
		case "match":
			cfg.Match = match
		case "source-root":
			cfg.SourceRoot = sourceRoot
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}
	mode, _ := report.ParseMatch(cfg.Match)

	files, err := discover.Files(fs.Args())
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return errors.New("no XML documents found")
	}

	// Check cache freshness
	deps := append([]string{cfg.Baseline}, files...)
	if !optional || fileExists(configPath) {
		deps = append(deps, configPath)
	}
	if cachePath != "" && cacheIsFresh(cachePath, deps) {
		data, err := os.ReadFile(cachePath)
		if err == nil {
			return writeOutput(outPath, stdout, data)
		}
	}

	baselineText, err := os.ReadFile(cfg.Baseline)
	if err != nil {
		return fmt.Errorf("reading baseline: %w", err)
	}

	opts := []classify.Option{classify.WithLogger(logger)}
	if cfg.SourceRoot != "" {
		opts = append(opts, classify.WithOracle(header.NewIndex(cfg.SourceRoot, logger)))
	}
	if workers > 0 {
		opts = append(opts, classify.WithWorkers(workers))
	}
	c := classify.New(cfg.Rules(), opts...)

	res := c.Files(context.Background(), files)
	for _, e := range res.Errors {
		logger.Warn("Error", "path", e.Path, "err", e.Err)
	}

	b := report.NewBaseline(string(baselineText))
	rep, err := report.Build(b, res.Registry.Public(), report.Options{
		Namespace: cfg.Namespace,
		Version:   cfg.Version,
		Extends:   cfg.Extends,
		Match:     mode,
	})
	if err != nil {
		return err
	}

	var output string
	switch {
	case format == "toon":
		output = toon.Encode(symbolMap(cfg.Namespace, res, rep)) + "\n"
	case showDiff:
		output, err = diff.Unified(cfg.Baseline, "regenerated", b.Text(), rep.String(), diff.DefaultContext)
		if err != nil {
			return fmt.Errorf("diffing baseline: %w", err)
		}
	default:
		output = rep.String()
	}

	if err := writeOutput(outPath, stdout, []byte(output)); err != nil {
		return err
	}

	if res.Parsed == 0 {
		logger.Warn("no documents could be classified", "documents", len(files))
		return fmt.Errorf("all %d documents failed", len(files))
	}

	// Write cache
	if cachePath != "" {
		_ = os.WriteFile(cachePath, []byte(output), 0o644)
	}
	return nil
}

// symbolMap flattens the run into public symbols, then private ones.
func symbolMap(namespace string, res *classify.Result, rep *report.Report) *model.SymbolMap {
	added := make(map[string]bool, len(rep.Added))
	for _, sym := range rep.Added {
		added[sym] = true
	}

	sm := &model.SymbolMap{
		Namespace: namespace,
		Extends:   rep.Extends,
		Documents: res.Parsed,
		Failed:    len(res.Errors),
	}
	for _, sym := range res.Registry.Public() {
		sm.Symbols = append(sm.Symbols, model.SymbolEntry{Symbol: sym, Visibility: model.Published, New: added[sym]})
	}
	for _, sym := range res.Registry.Private() {
		sm.Symbols = append(sm.Symbols, model.SymbolEntry{Symbol: sym, Visibility: model.Suppressed})
	}
	return sm
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// cacheIsFresh reports whether the cache is newer than every file it was
// built from.
func cacheIsFresh(cachePath string, deps []string) bool {
	cacheInfo, err := os.Stat(cachePath)
	if err != nil {
		return false
	}
	cacheMtime := cacheInfo.ModTime()

	for _, path := range deps {
		fi, err := os.Stat(path)
		if err != nil {
			return false
		}
		if !fi.ModTime().Before(cacheMtime) {
			return false
		}
	}
	return true
}

// flagsWithValue lists flags that take a value argument.
var flagsWithValue = map[string]bool{
	"-config": true, "--config": true,
	"-baseline": true, "--baseline": true,
	"-namespace": true, "--namespace": true,
	"-stanza": true, "--stanza": true,
	"-extends": true, "--extends": true,
	"-match": true, "--match": true,
	"-source-root": true, "--source-root": true,
	"-o": true, "--o": true,
	"-format": true, "--format": true,
	"-cache": true, "--cache": true,
	"-j": true, "--j": true,
}

// reorderArgs moves positional arguments after all flags so Go's flag package
// can parse them correctly (it stops at the first non-flag arg). Arguments
// after "--" stay positional.
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			flags = append(flags, "--")
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(args[i]) > 0 && args[i][0] == '-' {
			flags = append(flags, args[i])
			if flagsWithValue[args[i]] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}
