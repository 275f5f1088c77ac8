package finder

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"image-finder/internal/logger"
)

// Match is a file whose name contains a serial
type Match struct {
	Root string
	Name string
	Size int64
}

// Path returns the full source path.
func (m Match) Path() string {
	return filepath.Join(m.Root, m.Name)
}

// Options control a single Find call
type Options struct {
	// Limit caps the number of matches; zero or less means unlimited.
	Limit int
	// CaseInsensitive enables Unicode case folding.
	CaseInsensitive bool
	// Exclude lists directories that are not descended into.
	Exclude []string
	Logger  logger.Logger
}

// errLimit stops the walk once enough matches were collected.
var errLimit = errors.New("match limit reached")

// Find walks root top-down and returns files whose names contain serial.
// Within a directory, files are examined in lexical order before any
// subdirectory is entered. Symlinked directories are not followed.
// Unreadable subdirectories are logged and skipped.
func Find(ctx context.Context, root, serial string, opts Options) ([]Match, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop{}
	}

	w := &walker{
		matcher: NewMatcher(serial, opts.CaseInsensitive),
		limit:   opts.Limit,
		exclude: make(map[string]struct{}, len(opts.Exclude)),
		log:     log,
		matches: make([]Match, 0),
	}
	for _, dir := range opts.Exclude {
		if abs, err := filepath.Abs(dir); err == nil {
			w.exclude[abs] = struct{}{}
		}
	}

	if w.matcher.Serial() == "" {
		return w.matches, nil
	}

	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	err := w.walk(ctx, root, true)
	if err != nil && !errors.Is(err, errLimit) {
		return w.matches, err
	}
	return w.matches, nil
}

type walker struct {
	matcher *Matcher
	limit   int
	exclude map[string]struct{}
	log     logger.Logger
	matches []Match
}

func (w *walker) walk(ctx context.Context, dir string, isRoot bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if isRoot {
			return err
		}
		w.log.Warning("Finder", "skipping unreadable directory", map[string]interface{}{
			"dir":   dir,
			"error": err.Error(),
		})
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	subdirs := make([]string, 0)
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		isDir, size := classify(full, entry)
		if isDir {
			if entry.Type()&fs.ModeSymlink == 0 {
				subdirs = append(subdirs, full)
			}
			continue
		}

		if !w.matcher.Match(entry.Name()) {
			continue
		}
		w.matches = append(w.matches, Match{Root: dir, Name: entry.Name(), Size: size})
		if w.limit > 0 && len(w.matches) >= w.limit {
			return errLimit
		}
	}

	for _, sub := range subdirs {
		if w.excluded(sub) {
			w.log.Debug("Finder", "skipping excluded directory", map[string]interface{}{"dir": sub})
			continue
		}
		if err := w.walk(ctx, sub, false); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) excluded(dir string) bool {
	if len(w.exclude) == 0 {
		return false
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	_, ok := w.exclude[abs]
	return ok
}

// classify resolves symlinks so that a link to a directory is treated as a
// directory and a link to a file as a file.
func classify(full string, entry fs.DirEntry) (isDir bool, size int64) {
	if entry.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(full)
		if err != nil {
			return false, 0
		}
		return info.IsDir(), info.Size()
	}
	if entry.IsDir() {
		return true, 0
	}
	info, err := entry.Info()
	if err != nil {
		return false, 0
	}
	return false, info.Size()
}
