package main

import (
	"flag"
	"io"
	"os"
	"strings"

	"github.com/meigma/big"
)

var commands map[string]func(*app, []string) error

func init() {
	commands = map[string]func(*app, []string) error{
		"info":      cmdInfo,
		"list":      cmdList,
		"dump":      cmdDump,
		"cat":       cmdCat,
		"extract":   cmdExtract,
		"pack":      cmdPack,
		"add":       cmdAdd,
		"rm":        cmdRemove,
		"mv":        cmdMove,
		"search":    cmdSearch,
		"encodings": cmdEncodings,
	}
}

// subFlags returns a flag set for a command that reports errors instead of
// exiting.
func subFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func cmdInfo(a *app, args []string) error {
	if err := needArgs(args, 1, "info <archive>"); err != nil {
		return err
	}
	ar, err := a.open(args[0])
	if err != nil {
		return err
	}
	h := ar.Header()
	a.printf("magic:       %s\n", h.Magic)
	a.printf("size:        %d\n", h.ArchiveSize)
	a.printf("entries:     %d\n", h.EntryCount)
	a.printf("data offset: %d\n", h.DataOffset)
	a.printf("backed:      %t\n", ar.IsBacked())
	return nil
}

func cmdList(a *app, args []string) error {
	fs := subFlags("list")
	withDigest := fs.Bool("digest", false, "print sha256 digests")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if err := needArgs(fs.Args(), 1, "list [-digest] <archive>"); err != nil {
		return err
	}
	ar, err := a.open(fs.Arg(0))
	if err != nil {
		return err
	}
	for info := range ar.Entries() {
		if !*withDigest {
			a.printf("%10d  %s\n", info.Size, info.Name)
			continue
		}
		d, err := ar.Digest(info.Name)
		if err != nil {
			return err
		}
		a.printf("%10d  %s  %s\n", info.Size, d, info.Name)
	}
	return nil
}

func cmdDump(a *app, args []string) error {
	fs := subFlags("dump")
	regex := fs.Bool("regex", false, "treat the filter as a regular expression")
	ignoreCase := fs.Bool("i", false, "case-insensitive filter")
	invert := fs.Bool("invert", false, "print names that do not match the filter")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if err := needArgs(fs.Args(), 1, "dump [-regex] [-i] [-invert] <archive> [filter]"); err != nil {
		return err
	}
	ar, err := a.open(fs.Arg(0))
	if err != nil {
		return err
	}
	names := ar.Names()
	if fs.NArg() > 1 {
		names, err = ar.Glob(fs.Arg(1),
			big.GlobWithRegex(*regex),
			big.GlobWithIgnoreCase(*ignoreCase),
			big.GlobWithInvert(*invert),
		)
		if err != nil {
			return err
		}
	}
	for _, name := range names {
		a.printf("%s\n", name)
	}
	return nil
}

func cmdCat(a *app, args []string) error {
	if err := needArgs(args, 2, "cat <archive> <name>"); err != nil {
		return err
	}
	ar, err := a.open(args[0])
	if err != nil {
		return err
	}
	data, err := ar.ReadFile(args[1])
	if err != nil {
		return err
	}
	_, err = a.stdout.Write(data)
	return err
}

func cmdExtract(a *app, args []string) error {
	fs := subFlags("extract")
	workers := fs.Int("workers", a.workers, "concurrent file writers")
	keep := fs.Bool("keep", false, "keep existing files")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if err := needArgs(fs.Args(), 2, "extract [-workers n] [-keep] <archive> <dir>"); err != nil {
		return err
	}
	ar, err := a.open(fs.Arg(0))
	if err != nil {
		return err
	}
	stats, err := ar.Extract(fs.Arg(1),
		big.ExtractWithWorkers(*workers),
		big.ExtractWithOverwrite(!*keep),
	)
	if err != nil {
		return err
	}
	a.printf("extracted %d files (%d bytes), skipped %d\n", stats.Files, stats.Bytes, stats.Skipped)
	return nil
}

func cmdPack(a *app, args []string) error {
	if err := needArgs(args, 2, "pack <dir> <archive>"); err != nil {
		return err
	}
	ar, err := big.FromDirectory(args[0], a.archive...)
	if err != nil {
		return err
	}
	if err := ar.Save(args[1]); err != nil {
		return err
	}
	a.printf("packed %d files into %s\n", ar.Len(), args[1])
	return nil
}

func cmdAdd(a *app, args []string) error {
	if err := needArgs(args, 3, "add <archive> <name> <file>"); err != nil {
		return err
	}
	data, err := os.ReadFile(args[2])
	if err != nil {
		return err
	}
	ar, err := a.open(args[0])
	if err != nil {
		return err
	}
	if err := ar.AddFile(big.NormalizeName(args[1]), data); err != nil {
		return err
	}
	return a.save(ar, args[0])
}

func cmdRemove(a *app, args []string) error {
	if err := needArgs(args, 2, "rm <archive> <name>..."); err != nil {
		return err
	}
	ar, err := a.open(args[0])
	if err != nil {
		return err
	}
	for _, name := range args[1:] {
		if err := ar.RemoveFile(name); err != nil {
			return err
		}
	}
	return a.save(ar, args[0])
}

func cmdMove(a *app, args []string) error {
	if err := needArgs(args, 3, "mv <archive> <old> <new>"); err != nil {
		return err
	}
	ar, err := a.open(args[0])
	if err != nil {
		return err
	}
	if err := ar.RenameFile(args[1], big.NormalizeName(args[2])); err != nil {
		return err
	}
	return a.save(ar, args[0])
}

func cmdSearch(a *app, args []string) error {
	fs := subFlags("search")
	regex := fs.Bool("regex", false, "treat the pattern as a regular expression")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if err := needArgs(fs.Args(), 2, "search [-regex] <archive> <pattern>"); err != nil {
		return err
	}
	ar, err := a.open(fs.Arg(0))
	if err != nil {
		return err
	}
	opts := append([]big.SearchOption{big.SearchWithRegex(*regex)}, a.search...)
	res, err := ar.Search(fs.Arg(1), opts...)
	if err != nil {
		return err
	}
	for _, name := range res.Names {
		a.printf("%s\n", name)
	}
	a.printf("%d matches in %d files\n", res.Matches, len(res.Names))
	return nil
}

func cmdEncodings(a *app, _ []string) error {
	a.printf("%s\n", strings.Join(listEncodings(), "\n"))
	return nil
}

