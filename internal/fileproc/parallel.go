// Package fileproc provides concurrent file processing utilities.
package fileproc

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/panbanda/functextobj/pkg/parser"
	"github.com/sourcegraph/conc/pool"
)

// ProcessingError represents an error that occurred while processing a file.
type ProcessingError struct {
	Path string
	Err  error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e ProcessingError) Unwrap() error {
	return e.Err
}

// ProcessingErrors collects multiple file processing errors.
type ProcessingErrors struct {
	Errors []ProcessingError
	mu     sync.Mutex
}

// Add appends an error to the collection (thread-safe).
func (e *ProcessingErrors) Add(path string, err error) {
	e.mu.Lock()
	e.Errors = append(e.Errors, ProcessingError{Path: path, Err: err})
	e.mu.Unlock()
}

// HasErrors returns true if any errors were collected.
func (e *ProcessingErrors) HasErrors() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errors) > 0
}

// Error implements the error interface.
func (e *ProcessingErrors) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d files failed to process (first: %v)", len(e.Errors), e.Errors[0])
}

// sorted orders the collected errors by path.
func (e *ProcessingErrors) sorted() {
	sort.SliceStable(e.Errors, func(i, j int) bool {
		return e.Errors[i].Path < e.Errors[j].Path
	})
}

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for worker count.
// Parsing is CGO bound, reading is I/O bound.
const DefaultWorkerMultiplier = 2

// ProgressFunc is called after each file is processed.
type ProgressFunc func()

// MapFiles processes files in parallel with 2x NumCPU workers. See MapFilesN.
func MapFiles[T any](ctx context.Context, files []string, fn func(*parser.Parser, string) (T, error)) ([]T, *ProcessingErrors) {
	return MapFilesN(ctx, files, 0, fn, nil)
}

// MapFilesN processes files in parallel, handing fn a parser owned by the
// worker that runs it. Results come back in the order of files; files whose
// fn failed, or that were not reached before ctx was cancelled, are left out
// and reported in the returned errors, which are nil when every file succeeded.
// If maxWorkers is <= 0, defaults to 2x NumCPU.
func MapFilesN[T any](
	ctx context.Context,
	files []string,
	maxWorkers int,
	fn func(*parser.Parser, string) (T, error),
	onProgress ProgressFunc,
) ([]T, *ProcessingErrors) {
	if len(files) == 0 {
		return nil, nil
	}

	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() * DefaultWorkerMultiplier
	}
	maxWorkers = min(maxWorkers, len(files))

	// Parsers are not safe for concurrent use, so each running task borrows
	// one from this pool and returns it when done.
	parsers := make(chan *parser.Parser, maxWorkers)
	for range maxWorkers {
		parsers <- parser.New()
	}
	defer func() {
		close(parsers)
		for psr := range parsers {
			psr.Close()
		}
	}()

	slots := make([]T, len(files))
	ok := make([]bool, len(files))
	errs := &ProcessingErrors{}

	p := pool.New().WithMaxGoroutines(maxWorkers).WithContext(ctx)
	for i, path := range files {
		p.Go(func(ctx context.Context) error {
			if onProgress != nil {
				defer onProgress()
			}

			select {
			case <-ctx.Done():
				errs.Add(path, ctx.Err())
				return nil
			default:
			}

			psr := <-parsers
			defer func() { parsers <- psr }()

			result, err := fn(psr, path)
			if err != nil {
				errs.Add(path, err)
				return nil
			}
			slots[i] = result
			ok[i] = true
			return nil
		})
	}
	_ = p.Wait()

	results := make([]T, 0, len(files))
	for i, done := range ok {
		if done {
			results = append(results, slots[i])
		}
	}

	if !errs.HasErrors() {
		return results, nil
	}
	errs.sorted()
	return results, errs
}
