package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/OCharnyshevich/mcregion/cmd/regiontool/internal/config"
	"github.com/OCharnyshevich/mcregion/pkg/nbt"
	"github.com/OCharnyshevich/mcregion/pkg/region"
)

var configPath = flag.String("config", "", "directory to look for config.yaml in")

type cmd struct {
	fn func(ctx context.Context, log *slog.Logger, cfg *config.Config, args []string) error
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := newLogger(cfg)

	verbs := map[string]cmd{
		"list":        {cmdList},
		"read":        {cmdRead},
		"write":       {cmdWrite},
		"delete":      {cmdDelete},
		"rebuild":     {cmdRebuild},
		"rebuild-dir": {cmdRebuildDir},
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	verb, rest := args[0], args[1:]

	c, ok := verbs[verb]
	if !ok {
		fmt.Fprintf(os.Stderr, "regiontool: unknown command %q\n", verb)
		usage()
		os.Exit(2)
	}

	if err := c.fn(context.Background(), log, cfg, rest); err != nil {
		log.Error("command failed", "command", verb, "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "regiontool [-config dir] <command> [-flags] <args>\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "\tlist        - list present chunk coordinates in a region file\n")
	fmt.Fprintf(os.Stderr, "\tread        - print a chunk's NBT structure\n")
	fmt.Fprintf(os.Stderr, "\twrite       - write a placeholder chunk holding only a Name tag\n")
	fmt.Fprintf(os.Stderr, "\tdelete      - remove a chunk\n")
	fmt.Fprintf(os.Stderr, "\trebuild     - repack a region file, dropping dead space\n")
	fmt.Fprintf(os.Stderr, "\trebuild-dir - rebuild every *.mca file in a directory, in parallel\n")
}

// newLogger builds the slog logger regiontool uses throughout: always
// to stdout, plus a rotating file sink when logging.enabled is set.
func newLogger(cfg *config.Config) *slog.Logger {
	w := io.Writer(os.Stdout)
	if cfg.Logging.Enabled && cfg.Logging.FilePath != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.Logging.FilePath,
			MaxSize:    cfg.Logging.MaxSize,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAge:     cfg.Logging.MaxAge,
			Compress:   cfg.Logging.Compress,
		})
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func parseCoord(s string) (region.Coord, error) {
	var x, z int
	if _, err := fmt.Sscanf(s, "%d,%d", &x, &z); err != nil {
		return 0, fmt.Errorf("coordinate must be \"x,z\": %w", err)
	}
	return region.NewCoord(x, z), nil
}

func cmdList(ctx context.Context, log *slog.Logger, cfg *config.Config, args []string) error {
	fset := flag.NewFlagSet("list", flag.ExitOnError)
	fset.Parse(args)
	if fset.NArg() != 1 {
		return fmt.Errorf("usage: regiontool list <region-file>")
	}

	f, err := region.Open(fset.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	for i := 0; i < 1024; i++ {
		c := region.Coord(i)
		if !f.Has(c) {
			continue
		}
		ts, _ := f.Timestamp(c)
		fmt.Printf("%d,%d\tmodified=%s\n", c.X(), c.Z(), ts.Format("2006-01-02T15:04:05Z"))
	}
	return nil
}

func cmdRead(ctx context.Context, log *slog.Logger, cfg *config.Config, args []string) error {
	fset := flag.NewFlagSet("read", flag.ExitOnError)
	fset.Parse(args)
	if fset.NArg() != 2 {
		return fmt.Errorf("usage: regiontool read <region-file> <x,z>")
	}

	c, err := parseCoord(fset.Arg(1))
	if err != nil {
		return err
	}

	f, err := region.Open(fset.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	tag, ok, err := f.Read(c)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("no chunk at %s\n", fset.Arg(1))
		return nil
	}
	printTag(tag.Tag, 0)
	return nil
}

func printTag(t nbt.Tag, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	switch v := t.(type) {
	case nbt.Compound:
		fmt.Printf("%scompound {\n", indent)
		for _, e := range v.Entries {
			fmt.Printf("%s  %s: ", indent, e.Name)
			printTag(e.Tag, depth+1)
		}
		fmt.Printf("%s}\n", indent)
	case nbt.List:
		fmt.Printf("%slist[%s] (%d)\n", indent, v.ElemID, len(v.Items))
	default:
		fmt.Printf("%v\n", v)
	}
}

func cmdWrite(ctx context.Context, log *slog.Logger, cfg *config.Config, args []string) error {
	fset := flag.NewFlagSet("write", flag.ExitOnError)
	name := fset.String("name", "unnamed", "value to store under the chunk's Name tag")
	fset.Parse(args)
	if fset.NArg() != 2 {
		return fmt.Errorf("usage: regiontool write [-name v] <region-file> <x,z>")
	}

	c, err := parseCoord(fset.Arg(1))
	if err != nil {
		return err
	}

	f, err := region.Open(fset.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()
	f.SetCompressionLevel(region.CompressionLevel(cfg.CompressionLevel))

	tag := nbt.NamedTag{Tag: nbt.Compound{}.Append("Name", nbt.String(*name))}
	if err := f.Write(c, tag, time.Now()); err != nil {
		return err
	}
	log.Info("wrote chunk", "file", fset.Arg(0), "coord", fset.Arg(1))
	return nil
}

func cmdDelete(ctx context.Context, log *slog.Logger, cfg *config.Config, args []string) error {
	fset := flag.NewFlagSet("delete", flag.ExitOnError)
	fset.Parse(args)
	if fset.NArg() != 2 {
		return fmt.Errorf("usage: regiontool delete <region-file> <x,z>")
	}

	c, err := parseCoord(fset.Arg(1))
	if err != nil {
		return err
	}

	f, err := region.Open(fset.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Delete(c); err != nil {
		return err
	}
	log.Info("deleted chunk", "file", fset.Arg(0), "coord", fset.Arg(1))
	return nil
}

func cmdRebuild(ctx context.Context, log *slog.Logger, cfg *config.Config, args []string) error {
	fset := flag.NewFlagSet("rebuild", flag.ExitOnError)
	fset.Parse(args)
	if fset.NArg() != 1 && fset.NArg() != 2 {
		return fmt.Errorf("usage: regiontool rebuild <region-file> [output-file]")
	}
	src := fset.Arg(0)
	dst := src
	if fset.NArg() == 2 {
		dst = fset.Arg(1)
	}
	if err := region.Rebuild(src, dst); err != nil {
		return err
	}
	log.Info("rebuilt region file", "src", src, "dst", dst)
	return nil
}

// cmdRebuildDir rebuilds every *.mca file in a world's region
// directory concurrently, one goroutine per file, the way a caller
// wanting parallelism is expected to drive one handle per goroutine.
func cmdRebuildDir(ctx context.Context, log *slog.Logger, cfg *config.Config, args []string) error {
	fset := flag.NewFlagSet("rebuild-dir", flag.ExitOnError)
	concurrency := fset.Int("j", 4, "maximum region files rebuilt concurrently")
	fset.Parse(args)
	if fset.NArg() != 1 {
		return fmt.Errorf("usage: regiontool rebuild-dir [-j n] <region-dir>")
	}
	dir := fset.Arg(0)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(*concurrency)

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".mca" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		g.Go(func() error {
			if err := region.Rebuild(path, path); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			log.Info("rebuilt region file", "path", path)
			return nil
		})
	}
	return g.Wait()
}
