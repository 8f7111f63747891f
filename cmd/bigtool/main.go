// Command bigtool inspects and edits .big archives.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/meigma/big"
)

const usage = `usage: bigtool [global flags] <command> [args]

commands:
  info    <archive>                     print the header
  list    [-digest] <archive>           list entries with sizes
  dump    [-regex] [-i] [-invert] <archive> [filter]
                                        print entry names, optionally filtered
  cat     <archive> <name>              write an entry to stdout
  extract [-workers n] [-keep] <archive> <dir>
  pack    <dir> <archive>               build an archive from a directory
  add     <archive> <name> <file>       add or replace an entry
  rm      <archive> <name>...           remove entries
  mv      <archive> <old> <new>         rename an entry
  search  [-regex] <archive> <pattern>  search entry contents
  encodings                             list supported name encodings

global flags:
`

// app holds the resolved global settings for one invocation.
type app struct {
	stdout  io.Writer
	mode    big.Mode
	workers int
	archive []big.Option
	search  []big.SearchOption
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bigtool", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "config file (default: user config dir/bigtool/config.yaml)")
	large := fs.Bool("large", false, "open archives file-backed instead of in memory")
	encoding := fs.String("encoding", "", "name and search encoding (overrides config)")
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	a, err := newApp(stdout, stderr, *configPath, *large, *encoding, *verbose)
	if err != nil {
		fmt.Fprintf(stderr, "bigtool: %v\n", err)
		return 1
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	handler, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(stderr, "bigtool: unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}
	if err := handler(a, rest); err != nil {
		fmt.Fprintf(stderr, "bigtool %s: %v\n", cmd, err)
		var ue usageError
		if errors.As(err, &ue) {
			return 2
		}
		return 1
	}
	return 0
}

func newApp(stdout, stderr io.Writer, configPath string, large bool, encoding string, verbose bool) (*app, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = defaultConfigPath()
	}
	cfg, err := loadConfig(configPath, explicit)
	if err != nil {
		return nil, err
	}
	if encoding != "" {
		cfg.Encoding = encoding
	}

	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	enc, err := lookupEncoding(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	magic, err := parseMagic(cfg.Magic)
	if err != nil {
		return nil, err
	}

	mode := big.ModeAuto
	if large || cfg.LargeArchive {
		mode = big.ModeBacked
	}

	return &app{
		stdout:  stdout,
		mode:    mode,
		workers: cfg.Workers,
		archive: []big.Option{
			big.WithLogger(logger),
			big.WithNameEncoding(enc),
			big.WithMagic(magic),
		},
		search: []big.SearchOption{big.SearchWithEncoding(enc)},
	}, nil
}

// usageError marks errors caused by wrong arguments.
type usageError string

func (e usageError) Error() string { return string(e) }

func needArgs(args []string, n int, form string) error {
	if len(args) < n {
		return usageError("usage: " + form)
	}
	return nil
}

func (a *app) open(path string) (*big.Archive, error) {
	return big.Open(path, a.mode, a.archive...)
}

// save writes the archive back to path. Backed archives are rewritten in
// place.
func (a *app) save(ar *big.Archive, path string) error {
	if ar.IsBacked() {
		return ar.Save("")
	}
	return ar.Save(path)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.stdout, format, args...)
}
