// Package classpath opens directories and jars of compiled classes and
// loads class files from them for the duration of one generation run.
package classpath

import (
	"archive/zip"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dhamidi/kt2ts/classfile"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tliron/commonlog"
)

var (
	// ErrClasspath marks a root that is missing or cannot be read.
	ErrClasspath = errors.New("classpath root cannot be read")

	ErrNotFound = errors.New("class not found")
)

const DefaultCacheSize = 4096

var log = commonlog.GetLogger("kt2ts.classpath")

// Root is one directory or jar. Only classes below roots with Scan set are
// reported by Entries; all roots take part in Load.
type Root struct {
	Path string
	Scan bool
}

// Entry is a class found below a scanned root. Name is the internal name.
type Entry struct {
	Name string
	Root string
}

type location struct {
	root string
	path string
	file *zip.File
}

// Loader is the class-loading scope of one run. It is not shared between
// runs; each Open builds its own index and cache.
type Loader struct {
	ID uuid.UUID

	roots   []Root
	entries []Entry
	index   map[string]location
	jars    []*zip.ReadCloser
	cache   *lru.Cache[string, *classfile.ClassFile]
	closed  bool
}

type options struct {
	cacheSize int
}

type Option func(*options)

// WithCacheSize bounds the number of parsed classes kept by the loader.
// Sizes below one fall back to DefaultCacheSize.
func WithCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

// Open indexes every root. Earlier roots shadow later ones for the same
// class name. The returned loader must be closed.
func Open(roots []Root, opts ...Option) (*Loader, error) {
	o := options{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cacheSize < 1 {
		o.cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *classfile.ClassFile](o.cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create class cache")
	}

	l := &Loader{
		ID:    uuid.New(),
		roots: roots,
		index: make(map[string]location),
		cache: cache,
	}
	for _, root := range roots {
		if err := l.addRoot(root); err != nil {
			l.Close()
			return nil, errors.WithHint(
				errors.Mark(errors.Wrapf(err, "classpath root %s", root.Path), ErrClasspath),
				"check that the build output exists and that every dependency jar was resolved",
			)
		}
	}
	log.Debugf("loader %s opened %d roots, %d classes, %d scannable", l.ID, len(roots), len(l.index), len(l.entries))
	return l, nil
}

func (l *Loader) addRoot(root Root) error {
	info, err := os.Stat(root.Path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return l.addDir(root)
	}
	switch strings.ToLower(filepath.Ext(root.Path)) {
	case ".jar", ".zip":
		return l.addJar(root)
	}
	return errors.Newf("unsupported classpath entry %s (expected a directory or a jar)", root.Path)
}

func (l *Loader) addDir(root Root) error {
	return filepath.WalkDir(root.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".class") {
			return nil
		}
		rel, err := filepath.Rel(root.Path, path)
		if err != nil {
			return err
		}
		l.add(root, strings.TrimSuffix(filepath.ToSlash(rel), ".class"), location{root: root.Path, path: path})
		return nil
	})
}

func (l *Loader) addJar(root Root) error {
	r, err := zip.OpenReader(root.Path)
	if err != nil {
		return err
	}
	l.jars = append(l.jars, r)

	files := make([]*zip.File, 0, len(r.File))
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && strings.HasSuffix(f.Name, ".class") {
			files = append(files, f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	for _, f := range files {
		l.add(root, strings.TrimSuffix(f.Name, ".class"), location{root: root.Path, file: f})
	}
	return nil
}

func (l *Loader) add(root Root, name string, loc location) {
	if strings.HasPrefix(name, "META-INF/") {
		return
	}
	if _, ok := l.index[name]; ok {
		return
	}
	l.index[name] = loc
	if root.Scan {
		l.entries = append(l.entries, Entry{Name: name, Root: root.Path})
	}
}

// Entries lists classes of scanned roots in root order, lexical within a root.
func (l *Loader) Entries() []Entry {
	return l.entries
}

// Roots returns the roots in lookup order.
func (l *Loader) Roots() []Root {
	return l.roots
}

func (l *Loader) Contains(internalName string) bool {
	_, ok := l.index[internalName]
	return ok
}

// Load parses the class with the given internal name. Parsed classes are
// cached for the lifetime of the loader.
func (l *Loader) Load(internalName string) (*classfile.ClassFile, error) {
	if l.closed {
		return nil, errors.Newf("loader %s is closed", l.ID)
	}
	if cf, ok := l.cache.Get(internalName); ok {
		return cf, nil
	}
	loc, ok := l.index[internalName]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%s", classfile.InternalToSourceName(internalName))
	}

	cf, err := loc.parse()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s from %s", internalName, loc.root)
	}
	l.cache.Add(internalName, cf)
	return cf, nil
}

func (loc location) parse() (*classfile.ClassFile, error) {
	if loc.file == nil {
		return classfile.ParseFile(loc.path)
	}
	rc, err := loc.file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return classfile.Parse(rc)
}

// Close releases open jars. It is safe to call more than once.
func (l *Loader) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	l.cache.Purge()
	var errs error
	for _, j := range l.jars {
		if err := j.Close(); err != nil {
			errs = errors.CombineErrors(errs, err)
		}
	}
	l.jars = nil
	log.Debugf("loader %s closed", l.ID)
	return errs
}
