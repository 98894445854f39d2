// Package tree walks two directory trees side by side and classifies every
// entry name present in both.
//
// Shared names are visited in lexicographic byte order, depth first: the
// results of a shared subdirectory are emitted before its next sibling, and
// the directory pair itself yields no result. Names that exist on only one
// side are ignored and never descended into.
package tree

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"sort"

	"github.com/sdejongh/treediff/pkg/compare"
	"github.com/sdejongh/treediff/pkg/logging"
	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/storage"
)

// EmitFunc receives each classification result as soon as it is known.
// Returning an error stops the walk with that error.
type EmitFunc func(models.Result) error

// entryKind is the coarse type a classification decision is based on
type entryKind int

const (
	kindOther entryKind = iota
	kindFile
	kindDir
)

// Comparator walks two trees and classifies their shared entries
type Comparator struct {
	content compare.Comparator
	logger  logging.Logger
	exclude []string

	dirsCompared int
}

// New creates a tree comparator. A nil logger discards log output.
func New(content compare.Comparator, logger logging.Logger, exclude []string) *Comparator {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Comparator{
		content: content,
		logger:  logger,
		exclude: exclude,
	}
}

// frame is a directory pair whose shared names are still being visited
type frame struct {
	dir   string
	names []string
	next  int
}

// Compare walks the roots of left and right and emits one result per shared entry.
// Any filesystem failure stops the walk with a *models.FilesystemError.
func (c *Comparator) Compare(ctx context.Context, left, right storage.Backend, emit EmitFunc) error {
	c.dirsCompared = 0

	root, err := c.open(ctx, left, right, "")
	if err != nil {
		return err
	}

	// Explicit stack instead of recursion; pushing a child frame before
	// continuing the parent keeps the recursive pre-order.
	stack := []*frame{root}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		top := stack[len(stack)-1]
		if top.next == len(top.names) {
			stack = stack[:len(stack)-1]
			continue
		}

		name := top.names[top.next]
		top.next++
		rel := path.Join(top.dir, name)

		leftInfo, leftKind, err := classify(ctx, left, rel)
		if err != nil {
			return err
		}
		rightInfo, rightKind, err := classify(ctx, right, rel)
		if err != nil {
			return err
		}

		switch {
		case leftKind == kindDir && rightKind == kindDir:
			child, err := c.open(ctx, left, right, rel)
			if err != nil {
				return err
			}
			stack = append(stack, child)

		case leftKind == kindFile && rightKind == kindFile:
			result, err := c.compareFiles(ctx, left, right, rel)
			if err != nil {
				return err
			}
			if err := emit(result); err != nil {
				return err
			}

		default:
			result := models.Result{
				Kind:         models.TypeMismatch,
				Name:         name,
				RelativePath: rel,
				Reason:       describe(leftInfo, leftKind) + " vs " + describe(rightInfo, rightKind),
			}
			if err := emit(result); err != nil {
				return err
			}
		}
	}

	return nil
}

// Collect runs Compare and returns the results in emission order
func (c *Comparator) Collect(ctx context.Context, left, right storage.Backend) ([]models.Result, error) {
	var results []models.Result
	err := c.Compare(ctx, left, right, func(r models.Result) error {
		results = append(results, r)
		return nil
	})
	return results, err
}

// DirsCompared returns the number of directory pairs listed by the last Compare, roots included
func (c *Comparator) DirsCompared() int {
	return c.dirsCompared
}

// CompareDirs compares two local directories with a byte-by-byte content comparator.
// A root that is missing or not a directory yields a *models.FilesystemError.
func CompareDirs(ctx context.Context, pathA, pathB string, emit EmitFunc) error {
	left, err := storage.NewLocal(pathA)
	if err != nil {
		return err
	}
	defer left.Close()

	right, err := storage.NewLocal(pathB)
	if err != nil {
		return err
	}
	defer right.Close()

	return New(compare.NewBinaryComparator(compare.DefaultBufferSize), nil, nil).Compare(ctx, left, right, emit)
}

// open lists a directory pair and returns a frame over its sorted shared names
func (c *Comparator) open(ctx context.Context, left, right storage.Backend, dir string) (*frame, error) {
	leftNames, err := left.ReadDir(ctx, dir)
	if err != nil {
		return nil, storage.WrapError(left, "list", dir, err)
	}
	rightNames, err := right.ReadDir(ctx, dir)
	if err != nil {
		return nil, storage.WrapError(right, "list", dir, err)
	}

	onRight := make(map[string]struct{}, len(rightNames))
	for _, name := range rightNames {
		onRight[name] = struct{}{}
	}

	shared := make([]string, 0, min(len(leftNames), len(rightNames)))
	skipped := 0
	for _, name := range leftNames {
		if _, ok := onRight[name]; !ok {
			continue
		}
		if excluded(path.Join(dir, name), c.exclude) {
			skipped++
			continue
		}
		shared = append(shared, name)
	}
	sort.Strings(shared)

	c.dirsCompared++
	c.logger.Debug(ctx, "directory pair listed", logging.Fields{
		"dir":      displayDir(dir),
		"left":     len(leftNames),
		"right":    len(rightNames),
		"shared":   len(shared),
		"excluded": skipped,
	})

	return &frame{dir: dir, names: shared}, nil
}

func (c *Comparator) compareFiles(ctx context.Context, left, right storage.Backend, rel string) (models.Result, error) {
	comparison, err := c.content.Compare(ctx, left, right, rel)
	if err != nil {
		return models.Result{}, err
	}

	result := models.Result{
		Kind:         models.DifferingFiles,
		Name:         path.Base(rel),
		RelativePath: rel,
		Size:         comparison.Size,
	}
	if comparison.Equal {
		result.Kind = models.IdenticalFiles
		result.Digest = comparison.Digest
	} else {
		result.Reason = comparison.Reason
	}
	return result, nil
}

// classify stats an entry on one side. A name that was listed but no longer
// resolves (e.g. a dangling symlink) is neither a file nor a directory.
func classify(ctx context.Context, b storage.Backend, rel string) (*storage.FileInfo, entryKind, error) {
	info, err := b.Stat(ctx, rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, kindOther, nil
		}
		return nil, kindOther, storage.WrapError(b, "stat", rel, err)
	}

	switch {
	case info.IsRegular():
		return info, kindFile, nil
	case info.IsDir():
		return info, kindDir, nil
	default:
		return info, kindOther, nil
	}
}

func describe(info *storage.FileInfo, kind entryKind) string {
	switch {
	case kind == kindFile:
		return "file"
	case kind == kindDir:
		return "directory"
	case info == nil:
		return "unresolvable entry"
	default:
		return "special file (" + info.Mode.Type().String() + ")"
	}
}

func displayDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
