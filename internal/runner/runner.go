// Package runner wires the two rewrite passes, the minijs parser/printer,
// the dependency graph, and source-map emission into the operation the CLI
// exposes: read each input file, run AMD-to-CJS then CJS-to-Namespaced over
// it, and write the result back out.
package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/modnorm/modnorm/internal/amd"
	"github.com/modnorm/modnorm/internal/cjs"
	"github.com/modnorm/modnorm/internal/depgraph"
	"github.com/modnorm/modnorm/internal/logger"
	"github.com/modnorm/modnorm/internal/minijs"
	"github.com/modnorm/modnorm/internal/printer"
	"github.com/modnorm/modnorm/internal/sourcemap"
)

// Options mirrors the CLI flags in cmd/modnorm.
type Options struct {
	Inputs     []string
	BaseDir    string
	ReportDeps bool
	SourceMap  bool
	Watch      bool
}

// Run processes every input file once and, when opts.Watch is set, then
// keeps re-processing them via watch. Each file is independent (its own
// AST, scope, and reporter), so files run concurrently; only the shared
// dependency graph and error flag need a lock.
func Run(opts *Options) error {
	if err := runOnce(opts); err != nil {
		return err
	}
	if !opts.Watch {
		return nil
	}
	return watch(opts)
}

func runOnce(opts *Options) error {
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	var mu sync.Mutex
	var graph depgraph.Graph
	var anyErrors bool

	for _, input := range opts.Inputs {
		input := input
		g.Go(func() error {
			changed, hasErrors, provides, requires, err := processFile(input, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			mu.Lock()
			defer mu.Unlock()
			if opts.ReportDeps {
				graph.Add(input, provides, requires)
			}
			if hasErrors {
				anyErrors = true
			}
			_ = changed
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if opts.ReportDeps {
		printDepReport(&graph)
	}
	if anyErrors {
		return fmt.Errorf("one or more files failed to rewrite cleanly")
	}
	return nil
}

// processFile runs both passes over one file and writes the rewritten
// source (plus an optional source map) next to it. It returns the
// provide/require ids recorded for the dependency graph.
func processFile(path string, opts *Options) (changed bool, hasErrors bool, provides []string, requires []string, err error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return false, false, nil, nil, err
	}

	script, err := minijs.Parse(path, string(contents))
	if err != nil {
		return false, false, nil, nil, err
	}

	source := logger.Source{PrettyPath: path, Contents: string(contents)}
	log := logger.NewDeferredLog()

	amdResult := amd.Rewrite(script, source, log)
	cjsResult := cjs.Rewrite(script, cjs.Options{BaseDir: opts.BaseDir, ReportDependencies: opts.ReportDeps}, source, log)

	msgs := log.Done()
	for _, msg := range msgs {
		fmt.Fprint(os.Stderr, msg.String(false))
	}

	outPath := rewrittenPath(path)
	text, mappings := printer.PrintWithMappings(script.Stmts, printer.Options{})

	if opts.SourceMap {
		mapBytes, mapErr := sourcemap.Generate(source, filepath.Base(outPath), toSourceMapMappings(mappings))
		if mapErr != nil {
			return false, log.HasErrors(), nil, nil, mapErr
		}
		if werr := os.WriteFile(outPath+".map", mapBytes, 0o644); werr != nil {
			return false, log.HasErrors(), nil, nil, werr
		}
		text += "\n//# sourceMappingURL=" + filepath.Base(outPath) + ".map\n"
	}

	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		return false, log.HasErrors(), nil, nil, err
	}

	return amdResult.Changed || cjsResult.Changed, log.HasErrors(), cjsResult.Provides, cjsResult.Requires, nil
}

func toSourceMapMappings(stmtMappings []printer.StmtMapping) []sourcemap.Mapping {
	out := make([]sourcemap.Mapping, len(stmtMappings))
	for i, m := range stmtMappings {
		out[i] = sourcemap.Mapping{GeneratedLine: m.GeneratedLine, OriginalLoc: m.Loc}
	}
	return out
}

func rewrittenPath(path string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + ".norm" + ext
}

func printDepReport(graph *depgraph.Graph) {
	unresolved := graph.UnresolvedRequires()
	if len(unresolved) == 0 {
		fmt.Println("dependency graph: no unresolved requires")
	} else {
		fmt.Println("dependency graph: unresolved requires:")
		for _, u := range unresolved {
			fmt.Printf("  %s requires %s, which is not provided by any input\n", u.ModuleID, u.RequiredID)
		}
	}
	cycles := graph.Cycles()
	if len(cycles) == 0 {
		fmt.Println("dependency graph: no cycles detected")
		return
	}
	fmt.Println("dependency graph: possible cycles (detection only, not authoritative):")
	for _, cycle := range cycles {
		fmt.Printf("  %v\n", cycle)
	}
}

// watch re-runs runOnce over the input files whenever a file in one of their
// containing directories is written or created, until the process is
// interrupted.
func watch(opts *Options) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dirs := map[string]bool{}
	for _, input := range opts.Inputs {
		dirs[filepath.Dir(input)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return err
		}
	}

	watchOnce := *opts
	watchOnce.Watch = false

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := runOnce(&watchOnce); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
