// linkbackgen generates typed relationship accessors from a schema file.
// Run: linkbackgen -schema schema.json -out ./gen -pkg model
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/linkback/linkback/compiler/gen"
	"github.com/linkback/linkback/compiler/load"
)

func main() {
	var (
		schemaPath = flag.String("schema", "schema.json", "path to the schema JSON file")
		outDir     = flag.String("out", ".", "output directory for generated files")
		pkg        = flag.String("pkg", "model", "package name of the generated files")
		header     = flag.String("header", "", "extra header comment for generated files")
		workers    = flag.Int("workers", 0, "number of concurrent generation workers (0 = GOMAXPROCS)")
		watch      = flag.Bool("watch", false, "regenerate whenever the schema file changes")
	)
	flag.Parse()

	opts := []gen.Option{
		gen.WithPackage(*pkg),
		gen.WithOutDir(*outDir),
	}
	if *header != "" {
		opts = append(opts, gen.WithHeader(*header))
	}
	if *workers > 0 {
		opts = append(opts, gen.WithWorkers(*workers))
	}
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "linkbackgen: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *schemaPath); err != nil {
		fmt.Fprintf(os.Stderr, "linkbackgen: %v\n", err)
		os.Exit(1)
	}

	if !*watch {
		return
	}
	if err := watchSchema(cfg, *schemaPath); err != nil {
		fmt.Fprintf(os.Stderr, "linkbackgen: %v\n", err)
		os.Exit(1)
	}
}

// run loads the schema file and regenerates all accessor files.
func run(cfg *gen.Config, schemaPath string) error {
	buf, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", schemaPath, err)
	}
	schemas, err := load.UnmarshalSchemas(buf)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", schemaPath, err)
	}
	if err := gen.NewGenerator(cfg, schemas).Generate(context.Background()); err != nil {
		return err
	}
	fmt.Printf("generated %d schema(s) into %s\n", len(schemas), cfg.OutDir)
	return nil
}

// watchSchema blocks and regenerates on every write to the schema file.
// Generation failures are reported but do not stop the watcher.
func watchSchema(cfg *gen.Config, schemaPath string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(schemaPath); err != nil {
		return err
	}
	fmt.Printf("watching %s\n", schemaPath)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := run(cfg, schemaPath); err != nil {
				fmt.Fprintf(os.Stderr, "linkbackgen: %v\n", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "linkbackgen: watch: %v\n", err)
		}
	}
}
