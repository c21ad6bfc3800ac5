package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// source turns raw fsnotify events into FileEvents. fsnotify reports a move
// as a Rename of the old path followed by a Create of the new one; source
// holds the rename back so the two can be paired into a single Moved event.
type source struct {
	fsw    *fsnotify.Watcher
	root   string
	ignore []string

	// dirs is the set of directories registered with fsw.
	dirs map[string]struct{}

	pending    string
	pendingDir bool

	// movedDir is the old path of the last paired directory move. inotify
	// reports the move a second time from the directory's own watch.
	movedDir string
}

func newSource(fsw *fsnotify.Watcher, root string, ignore []string) *source {
	return &source{
		fsw:    fsw,
		root:   root,
		ignore: ignore,
		dirs:   make(map[string]struct{}),
	}
}

// addRecursive walks path and registers every directory that is neither
// hidden nor ignored.
func (s *source) addRecursive(path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if p != s.root && s.skip(p, d.Name()) {
			return filepath.SkipDir
		}

		if err := s.fsw.Add(p); err != nil {
			return err
		}

		s.dirs[p] = struct{}{}

		return nil
	})
}

// skip filters hidden directories (e.g. .git) and those matching an ignore
// glob relative to the root.
func (s *source) skip(path, name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}

	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return false
	}

	normalized := filepath.ToSlash(rel)
	for _, pat := range s.ignore {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}

	return false
}

// forget drops path and everything below it from the directory set.
func (s *source) forget(path string) bool {
	_, was := s.dirs[path]
	if !was {
		return false
	}

	prefix := path + string(filepath.Separator)
	for dir := range s.dirs {
		if dir == path || strings.HasPrefix(dir, prefix) {
			delete(s.dirs, dir)
			_ = s.fsw.Remove(dir)
		}
	}

	return true
}

func (s *source) hasPending() bool { return s.pending != "" }

// flush releases a held rename as a deletion.
func (s *source) flush() []FileEvent {
	if !s.hasPending() {
		return nil
	}

	ev := FileEvent{Kind: Deleted, SourcePath: s.pending, IsDirectory: s.pendingDir}
	s.pending, s.pendingDir = "", false

	return []FileEvent{ev}
}

// translate converts one fsnotify event. It reports whether the event left
// a new rename pending, in which case the caller starts the move window.
func (s *source) translate(ev fsnotify.Event) ([]FileEvent, bool) {
	if !isRelevant(ev) {
		return nil, false
	}

	if s.movedDir != "" {
		dup := ev.Has(fsnotify.Rename) && ev.Name == s.movedDir
		s.movedDir = ""

		if dup {
			return nil, false
		}
	}

	var out []FileEvent

	if s.hasPending() {
		if ev.Has(fsnotify.Create) {
			return s.pairMove(ev.Name), false
		}

		out = s.flush()
	}

	switch {
	case ev.Has(fsnotify.Rename):
		s.pending = ev.Name
		s.pendingDir = s.forget(ev.Name)

		return out, true

	case ev.Has(fsnotify.Create):
		isDir, files := s.registerIfDir(ev.Name)
		out = append(out, FileEvent{Kind: Created, SourcePath: ev.Name, IsDirectory: isDir})

		for _, f := range files {
			out = append(out, FileEvent{Kind: Created, SourcePath: f})
		}

	case ev.Has(fsnotify.Remove):
		out = append(out, FileEvent{Kind: Deleted, SourcePath: ev.Name, IsDirectory: s.forget(ev.Name)})

	case ev.Has(fsnotify.Write):
		out = append(out, FileEvent{Kind: Modified, SourcePath: ev.Name})
	}

	return out, false
}

// pairMove completes the pending rename with its destination. A moved
// directory also yields one Moved event per file below it, mapped from the
// old location.
func (s *source) pairMove(dest string) []FileEvent {
	from := s.pending
	isDir, files := s.registerIfDir(dest)
	isDir = isDir || s.pendingDir
	s.pending, s.pendingDir = "", false

	out := []FileEvent{{Kind: Moved, SourcePath: from, DestPath: dest, IsDirectory: isDir}}
	if !isDir {
		return out
	}

	s.movedDir = from

	for _, f := range files {
		rel, err := filepath.Rel(dest, f)
		if err != nil {
			continue
		}

		out = append(out, FileEvent{Kind: Moved, SourcePath: filepath.Join(from, rel), DestPath: f})
	}

	return out
}

// registerIfDir starts watching path when it is a new directory and returns
// the files already inside it. Nothing below a hidden or ignored directory
// is registered or returned.
func (s *source) registerIfDir(path string) (bool, []string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false, nil
	}

	if s.skip(path, filepath.Base(path)) {
		return true, nil
	}

	_ = s.addRecursive(path)

	return true, s.filesUnder(path)
}

// filesUnder lists the regular files below dir in walk order, skipping the
// same directories addRecursive does.
func (s *source) filesUnder(dir string) []string {
	var files []string

	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if p != dir && s.skip(p, d.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		files = append(files, p)

		return nil
	})

	return files
}

// isRelevant drops events that carry no content change.
func isRelevant(event fsnotify.Event) bool {
	if event.Op == 0 {
		return false
	}

	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
