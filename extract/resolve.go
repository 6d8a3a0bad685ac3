package extract

import (
	"fmt"

	"github.com/dhamidi/kt2ts/classfile"
	"github.com/dhamidi/kt2ts/introspect"
	"github.com/dhamidi/kt2ts/model"
)

const (
	objectClass     = "java.lang.Object"
	collectionClass = "java.util.Collection"
	listClass       = "java.util.List"
	arrayName       = "array"
)

// UnresolvedTypeReference is the diagnostic kind for references to classes
// that cannot be introspected.
const UnresolvedTypeReference = "UnresolvedTypeReference"

type Diagnostic struct {
	Kind   string
	Type   string
	Owner  string
	Reason string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s referenced from %s (%s)", d.Kind, d.Type, d.Owner, d.Reason)
}

type kind struct {
	collection bool
	ordered    bool
	enum       bool
	err        error
}

// resolverState is shared by all scoped resolvers of one run.
type resolverState struct {
	in          introspect.Introspector
	mapping     TypeMapping
	kinds       map[string]kind
	reported    map[[2]string]bool
	diagnostics []Diagnostic
	expanding   map[string]bool
}

// Resolver turns type signatures into model references. It is scoped to an
// owning data type and the type variables visible from it.
type Resolver struct {
	state    *resolverState
	owner    string
	typeVars map[string]classfile.TypeSignature
}

func NewResolver(in introspect.Introspector, mapping TypeMapping) *Resolver {
	return &Resolver{state: &resolverState{
		in:        in,
		mapping:   mapping,
		kinds:     map[string]kind{},
		reported:  map[[2]string]bool{},
		expanding: map[string]bool{},
	}}
}

// Scoped returns a resolver for owner that also sees params. Type variables
// already in scope stay visible unless shadowed.
func (r *Resolver) Scoped(owner string, params []classfile.TypeParameter) *Resolver {
	vars := make(map[string]classfile.TypeSignature, len(r.typeVars)+len(params))
	for k, v := range r.typeVars {
		vars[k] = v
	}
	for _, p := range params {
		var bound classfile.TypeSignature = &classfile.ClassType{Name: objectClass}
		if len(p.Bounds) > 0 {
			bound = p.Bounds[0]
		}
		vars[p.Name] = bound
	}
	return &Resolver{state: r.state, owner: owner, typeVars: vars}
}

func (r *Resolver) Diagnostics() []Diagnostic {
	return r.state.diagnostics
}

// Resolve resolves a property type. Class references get IsReference.
func (r *Resolver) Resolve(sig classfile.TypeSignature, owningPackage string) *model.TypeRef {
	return r.resolve(sig, owningPackage, true)
}

// ResolveSupertype resolves an extends or implements reference.
func (r *Resolver) ResolveSupertype(ct *classfile.ClassType, owningPackage string) *model.TypeRef {
	return r.resolveClass(ct, owningPackage, false)
}

func (r *Resolver) resolve(sig classfile.TypeSignature, pkg string, reference bool) *model.TypeRef {
	switch t := sig.(type) {
	case *classfile.BaseType:
		return r.substitute(&model.TypeRef{Name: t.Name, FullName: t.Name})
	case *classfile.ArrayType:
		return r.substitute(&model.TypeRef{
			Name:         arrayName,
			FullName:     arrayName,
			IsCollection: true,
			IsOrdered:    true,
			ElementType:  r.resolve(t.Elem, pkg, reference),
		})
	case *classfile.TypeVariable:
		return r.resolveTypeVariable(t, pkg, reference)
	case *classfile.ClassType:
		return r.resolveClass(t, pkg, reference)
	}
	return r.resolveClass(&classfile.ClassType{Name: objectClass}, pkg, reference)
}

// resolveTypeVariable resolves a type variable to its first bound. A
// variable whose bound refers back to itself resolves to Object.
func (r *Resolver) resolveTypeVariable(tv *classfile.TypeVariable, pkg string, reference bool) *model.TypeRef {
	bound, ok := r.typeVars[tv.Name]
	if !ok || r.state.expanding[tv.Name] {
		return r.resolveClass(&classfile.ClassType{Name: objectClass}, pkg, reference)
	}
	r.state.expanding[tv.Name] = true
	defer delete(r.state.expanding, tv.Name)
	return r.resolve(bound, pkg, reference)
}

func (r *Resolver) resolveClass(ct *classfile.ClassType, pkg string, reference bool) *model.TypeRef {
	ref := &model.TypeRef{
		Name:     introspect.SimpleNameOf(ct.Name),
		FullName: ct.Name,
	}
	k := r.kind(ct.Name)
	if k.err != nil {
		r.report(ct.Name, k.err)
		return r.substitute(ref)
	}

	switch {
	case k.collection:
		ref.IsCollection = true
		ref.IsOrdered = k.ordered
		ref.ElementType = r.resolve(r.elementType(ct), pkg, reference)
	case k.enum:
		ref.IsEnum = true
	}
	ref.IsReference = reference
	ref.IsSamePackage = introspect.PackageOf(ct.Name) == pkg
	return r.substitute(ref)
}

// substitute replaces the name of ref when its fullName is mapped. The
// fullName itself is never changed.
func (r *Resolver) substitute(ref *model.TypeRef) *model.TypeRef {
	if mapped, ok := r.state.mapping[ref.FullName]; ok {
		log.Debugf("mapping %s to %s", ref.FullName, mapped)
		ref.Name = mapped
	}
	return ref
}

func (r *Resolver) report(name string, err error) {
	key := [2]string{r.owner, name}
	if r.state.reported[key] {
		return
	}
	r.state.reported[key] = true
	d := Diagnostic{Kind: UnresolvedTypeReference, Type: name, Owner: r.owner, Reason: err.Error()}
	r.state.diagnostics = append(r.state.diagnostics, d)
	log.Warningf("%s", d)
}

// kind determines the structural category of a class by walking its
// supertypes. Results are memoized for the run.
func (r *Resolver) kind(name string) kind {
	if k, ok := r.state.kinds[name]; ok {
		return k
	}
	// placeholder against malformed cyclic hierarchies
	r.state.kinds[name] = kind{}

	c, err := r.state.in.Class(name)
	if err != nil {
		k := kind{err: err}
		r.state.kinds[name] = k
		return k
	}
	k := kind{
		enum:       c.IsEnum(),
		collection: name == collectionClass,
		ordered:    name == listClass,
	}
	for _, st := range c.Supertypes() {
		sk := r.kind(st.Name)
		if sk.err != nil {
			continue
		}
		k.collection = k.collection || sk.collection
		k.ordered = k.ordered || sk.ordered
	}
	r.state.kinds[name] = k
	return k
}

// elementType finds the argument ct passes to java.util.Collection by
// following supertypes and substituting type arguments along the way.
// Raw types and unbounded wildcards yield Object.
func (r *Resolver) elementType(ct *classfile.ClassType) classfile.TypeSignature {
	object := &classfile.ClassType{Name: objectClass}
	current := ct
	for depth := 0; depth < 64; depth++ {
		if current.Name == collectionClass {
			if len(current.Args) == 0 {
				return object
			}
			return argumentType(current.Args[0])
		}
		c, err := r.state.in.Class(current.Name)
		if err != nil {
			return object
		}
		bindings := bind(c.TypeParams, current.Args)
		var next *classfile.ClassType
		for _, st := range c.Supertypes() {
			if k := r.kind(st.Name); k.err == nil && k.collection {
				next = substituteArgs(st, bindings)
				break
			}
		}
		if next == nil {
			return object
		}
		current = next
	}
	return object
}

func argumentType(arg classfile.TypeArgument) classfile.TypeSignature {
	if arg.Wildcard == classfile.WildcardAny || arg.Type == nil {
		return &classfile.ClassType{Name: objectClass}
	}
	return arg.Type
}

// bind maps type parameters to the supplied arguments. A raw reference
// binds every parameter to Object.
func bind(params []classfile.TypeParameter, args []classfile.TypeArgument) map[string]classfile.TypeSignature {
	out := make(map[string]classfile.TypeSignature, len(params))
	for i, p := range params {
		if i < len(args) {
			out[p.Name] = argumentType(args[i])
		} else {
			out[p.Name] = &classfile.ClassType{Name: objectClass}
		}
	}
	return out
}

func substituteArgs(ct *classfile.ClassType, bindings map[string]classfile.TypeSignature) *classfile.ClassType {
	out := &classfile.ClassType{Name: ct.Name}
	for _, a := range ct.Args {
		if a.Type != nil {
			a.Type = substituteSig(a.Type, bindings)
		}
		out.Args = append(out.Args, a)
	}
	return out
}

func substituteSig(sig classfile.TypeSignature, bindings map[string]classfile.TypeSignature) classfile.TypeSignature {
	switch t := sig.(type) {
	case *classfile.TypeVariable:
		if b, ok := bindings[t.Name]; ok {
			return b
		}
	case *classfile.ArrayType:
		return &classfile.ArrayType{Elem: substituteSig(t.Elem, bindings)}
	case *classfile.ClassType:
		return substituteArgs(t, bindings)
	}
	return sig
}
