// Package model holds the extracted type model: namespaces of data types
// whose properties, supertypes and interfaces are resolved type references.
// Relationships between data types are by fullName, never by pointer.
package model

import (
	"github.com/cockroachdb/errors"
)

// ErrInvalidModel marks a model that violates its own invariants.
var ErrInvalidModel = errors.New("invalid model")

type Model struct {
	Namespaces []*Namespace

	index map[string]*DataType
}

type Namespace struct {
	Name      string
	DataTypes []*DataType
}

type DataType struct {
	Name        string
	FullName    string
	Package     string
	IsInterface bool
	IsAbstract  bool
	IsEnum      bool
	SuperType   *TypeRef
	Interfaces  []*TypeRef
	Properties  []*Property
	// Constants lists enum constants in declaration order.
	Constants []string
}

type Property struct {
	Name string
	Type *TypeRef
}

// TypeRef is a resolved reference. FullName is the identity used for
// lookups and substitution; Name may have been substituted.
type TypeRef struct {
	Name          string
	FullName      string
	IsCollection  bool
	IsOrdered     bool
	ElementType   *TypeRef
	IsEnum        bool
	IsReference   bool
	IsSamePackage bool
}

// New groups data types into namespaces by package, in order of first
// appearance, and indexes them by fullName.
func New(dataTypes []*DataType) *Model {
	m := &Model{index: make(map[string]*DataType, len(dataTypes))}
	byName := map[string]*Namespace{}
	for _, dt := range dataTypes {
		ns, ok := byName[dt.Package]
		if !ok {
			ns = &Namespace{Name: dt.Package}
			byName[dt.Package] = ns
			m.Namespaces = append(m.Namespaces, ns)
		}
		ns.DataTypes = append(ns.DataTypes, dt)
		if _, dup := m.index[dt.FullName]; !dup {
			m.index[dt.FullName] = dt
		}
	}
	return m
}

// Lookup finds a data type by fullName.
func (m *Model) Lookup(fullName string) (*DataType, bool) {
	dt, ok := m.index[fullName]
	return dt, ok
}

// Contains reports whether a reference points at a data type of this model.
// References that do not are opaque external types.
func (m *Model) Contains(ref *TypeRef) bool {
	if ref == nil {
		return false
	}
	_, ok := m.index[ref.FullName]
	return ok
}

func (m *Model) DataTypes() []*DataType {
	var out []*DataType
	for _, ns := range m.Namespaces {
		out = append(out, ns.DataTypes...)
	}
	return out
}

// Validate checks fullName uniqueness and that every reachable reference
// carries an element type exactly when it is a collection.
func (m *Model) Validate() error {
	seen := map[string]bool{}
	for _, dt := range m.DataTypes() {
		if dt.FullName == "" {
			return errors.Mark(errors.Newf("data type %q has no fullName", dt.Name), ErrInvalidModel)
		}
		if seen[dt.FullName] {
			return errors.Mark(errors.Newf("duplicate data type %s", dt.FullName), ErrInvalidModel)
		}
		seen[dt.FullName] = true

		if err := dt.SuperType.validate(); err != nil {
			return errors.Wrapf(err, "%s extends", dt.FullName)
		}
		for _, ref := range dt.Interfaces {
			if err := ref.validate(); err != nil {
				return errors.Wrapf(err, "%s implements", dt.FullName)
			}
		}
		for _, p := range dt.Properties {
			if p.Type == nil {
				return errors.Mark(errors.Newf("%s.%s has no type", dt.FullName, p.Name), ErrInvalidModel)
			}
			if err := p.Type.validate(); err != nil {
				return errors.Wrapf(err, "%s.%s", dt.FullName, p.Name)
			}
		}
	}
	return nil
}

func (r *TypeRef) validate() error {
	for ref := r; ref != nil; ref = ref.ElementType {
		if ref.FullName == "" {
			return errors.Mark(errors.Newf("type reference %q has no fullName", ref.Name), ErrInvalidModel)
		}
		if ref.IsCollection != (ref.ElementType != nil) {
			return errors.Mark(errors.Newf("type reference %s: collection without element type or element type without collection", ref.FullName), ErrInvalidModel)
		}
	}
	return nil
}
