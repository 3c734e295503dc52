// Package driver orchestrates semantic checking of AST bundles. Each bundle
// gets its own Program; bundles are independent, so CheckAll fans out one
// goroutine per bundle with no shared mutable state.
package driver

import (
	"context"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"basalt/internal/astcodec"
	"basalt/internal/diag"
	"basalt/internal/project"
	"basalt/internal/sema"
	"basalt/internal/source"
)

// Result carries everything a caller needs after checking one bundle.
type Result struct {
	Path    string
	FileSet *source.FileSet
	Program *sema.Program
	Bag     *diag.Bag
}

// HasErrors reports whether the bundle failed semantic checking.
func (r *Result) HasErrors() bool { return r.Bag.HasErrors() }

// Check loads one bundle, builds a program and runs initialization.
func Check(bundlePath string, manifest project.Manifest) (*Result, error) {
	f, err := os.Open(bundlePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	fileSet := source.NewFileSet()
	sources, err := astcodec.Decode(f, fileSet)
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(manifest.MaxDiagnostics)
	program := sema.NewProgram(diag.BagReporter{Bag: bag})
	for _, src := range sources {
		program.AddSource(src)
	}
	program.Initialize(manifest.Options())

	bag.Sort()
	bag.Dedup()
	return &Result{
		Path:    bundlePath,
		FileSet: fileSet,
		Program: program,
		Bag:     bag,
	}, nil
}

// CheckAll checks several bundles concurrently, one Program per goroutine.
// Results are positionally aligned with paths; the first I/O or codec error
// cancels the rest.
func CheckAll(ctx context.Context, paths []string, manifest project.Manifest, jobs int) ([]*Result, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]*Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(paths), 1)))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			result, err := Check(path, manifest)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
