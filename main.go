package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"heapstore/pkg/config"
	"heapstore/pkg/debug/heapreader"
	dberror "heapstore/pkg/error"
	"heapstore/pkg/logging"
	"heapstore/pkg/memory"
	"heapstore/pkg/primitives"
	"heapstore/pkg/storage/heap"
	"heapstore/pkg/tuple"
	"heapstore/pkg/types"
)

type Configuration struct {
	ConfigPath  string
	Schema      string
	Interactive bool
	Files       []string
}

func main() {
	opts := parseArguments()

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, heapreader.RenderError(err))
		logging.Close()
		os.Exit(1)
	}
	logging.Close()
}

// parseArguments processes command-line flags
func parseArguments() Configuration {
	var opts Configuration

	flag.StringVar(&opts.ConfigPath, "config", "", "TOML or INI configuration file")
	flag.StringVar(&opts.Schema, "schema", "int", "Comma-separated column types of the heap files (int,string,float)")
	flag.BoolVar(&opts.Interactive, "interactive", false, "Browse pages interactively")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <heap-file>...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}

	flag.Parse()
	opts.Files = flag.Args()

	return opts
}

func run(opts Configuration) error {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := cfg.Apply(); err != nil {
		return err
	}

	if len(opts.Files) == 0 {
		flag.Usage()
		return dberror.InvalidArgument("no heap files given")
	}

	td, err := parseSchema(opts.Schema)
	if err != nil {
		return err
	}

	tm := memory.NewTableManager()
	defer tm.Clear()

	store, err := memory.NewPageStore(tm, cfg.BufferPool.Pages, cfg.BufferPool.ImageCacheBytes)
	if err != nil {
		return err
	}
	defer store.Close()

	files, err := openHeapFiles(tm, store, cfg.Storage.DataDir, opts.Files, td)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summaries, err := heapreader.Summarize(ctx, store, files)
	if err != nil {
		return err
	}

	if opts.Interactive {
		return heapreader.Browse(ctx, summaries)
	}
	fmt.Print(heapreader.RenderSummary(summaries))
	return nil
}

// openHeapFiles opens each existing file and registers it with tm. The
// inspector never creates files.
func openHeapFiles(tm *memory.TableManager, store *memory.PageStore, dataDir string, names []string, td *tuple.TupleDescription) ([]*heap.HeapFile, error) {
	files := make([]*heap.HeapFile, 0, len(names))
	for _, name := range names {
		hf, err := heap.OpenHeapFile(resolvePath(dataDir, name), td, store)
		if err != nil {
			return nil, err
		}
		if err := tm.AddFile(hf); err != nil {
			_ = hf.Close()
			return nil, err
		}
		files = append(files, hf)
	}
	return files, nil
}

// parseSchema turns "int,string,float" into a tuple description.
func parseSchema(schema string) (*tuple.TupleDescription, error) {
	parts := strings.Split(schema, ",")
	fieldTypes := make([]types.Type, 0, len(parts))
	for _, part := range parts {
		t, ok := types.ParseType(strings.TrimSpace(part))
		if !ok {
			return nil, dberror.InvalidArgument("unknown column type %q in schema %q", part, schema)
		}
		fieldTypes = append(fieldTypes, t)
	}
	return tuple.NewTupleDesc(fieldTypes, nil)
}

// resolvePath places relative names that do not exist under dataDir.
func resolvePath(dataDir, name string) primitives.Filepath {
	if filepath.IsAbs(name) || dataDir == "" {
		return primitives.Filepath(name)
	}
	if _, err := os.Stat(name); err == nil {
		return primitives.Filepath(name)
	}
	return primitives.Filepath(filepath.Join(dataDir, name))
}
