package introspect

import (
	"github.com/cockroachdb/errors"
	"github.com/dhamidi/kt2ts/classfile"
)

// ErrUnknownClass is returned when a class is neither on the classpath nor
// a well-known library type.
var ErrUnknownClass = errors.New("unknown class")

// Loader supplies parsed class files by internal name.
type Loader interface {
	Load(internalName string) (*classfile.ClassFile, error)
}

// Introspector resolves classes by dotted binary name.
type Introspector interface {
	Class(name string) (*Class, error)
}

type entry struct {
	class *Class
	err   error
}

// ClassFiles introspects parsed class files, falling back to the builtin
// library table for java.* and kotlin.* types. Results, including failures,
// are memoized.
type ClassFiles struct {
	loader Loader
	known  map[string]entry
}

func New(loader Loader) *ClassFiles {
	return &ClassFiles{loader: loader, known: make(map[string]entry)}
}

func (in *ClassFiles) Class(name string) (*Class, error) {
	if e, ok := in.known[name]; ok {
		return e.class, e.err
	}
	c, err := in.lookup(name)
	in.known[name] = entry{class: c, err: err}
	return c, err
}

func (in *ClassFiles) lookup(name string) (*Class, error) {
	if c, ok := builtinClass(name); ok {
		return c, nil
	}
	if in.loader == nil {
		return nil, errors.Wrapf(ErrUnknownClass, "%s", name)
	}
	cf, err := in.loader.Load(classfile.SourceToInternalName(name))
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "%s", name), ErrUnknownClass)
	}
	return FromClassFile(cf)
}
