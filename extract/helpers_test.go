package extract

import (
	"github.com/cockroachdb/errors"
	"github.com/dhamidi/kt2ts/classfile"
	"github.com/dhamidi/kt2ts/classfile/classfiletest"
	"github.com/dhamidi/kt2ts/classpath"
)

// memClasspath serves builders in the order given. Classes in deps are
// loadable but not scanned.
type memClasspath struct {
	scanned []*classfiletest.Builder
	deps    []*classfiletest.Builder
}

func (m *memClasspath) Entries() []classpath.Entry {
	var out []classpath.Entry
	for _, b := range m.scanned {
		out = append(out, classpath.Entry{Name: b.Name(), Root: "mem"})
	}
	return out
}

func (m *memClasspath) Load(name string) (*classfile.ClassFile, error) {
	for _, group := range [][]*classfiletest.Builder{m.scanned, m.deps} {
		for _, b := range group {
			if b.Name() == name {
				return classfile.ParseBytes(b.Bytes())
			}
		}
	}
	return nil, errors.Wrapf(classpath.ErrNotFound, "%s", name)
}

func scanned(builders ...*classfiletest.Builder) *memClasspath {
	return &memClasspath{scanned: builders}
}
