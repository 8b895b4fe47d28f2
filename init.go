package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phobologic/symbolmap/internal/config"
)

const configHeader = "# symbolmap configuration. Command-line flags override these values.\n"

// runInit implements the `symbolmap init` subcommand, which writes the
// default configuration file.
func runInit(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("symbolmap init", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var dryRun, force bool
	fs.BoolVar(&dryRun, "dry-run", false, "print the configuration without writing it")
	fs.BoolVar(&force, "force", false, "overwrite an existing file")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: symbolmap init [flags] [path]

Write the default symbolmap configuration. path defaults to ./%s.

Flags:
`, config.DefaultPath)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	content, err := generateConfig()
	if err != nil {
		return err
	}

	if dryRun {
		_, _ = fmt.Fprint(stdout, content)
		return nil
	}

	path := config.DefaultPath
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	if !force && fileExists(path) {
		return fmt.Errorf("%s already exists (use -force to overwrite)", path)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(stderr, "wrote symbolmap configuration to %s\n", path)
	return nil
}

// generateConfig returns the default configuration as commented YAML.
func generateConfig() (string, error) {
	data, err := config.Default().Marshal()
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	return configHeader + string(data), nil
}
