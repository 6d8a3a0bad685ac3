package extract

import (
	"github.com/cockroachdb/errors"
	"github.com/dhamidi/kt2ts/classfile"
	"github.com/dhamidi/kt2ts/introspect"
	"github.com/dhamidi/kt2ts/model"
)

// implicitSupertypes are not recorded as extends references.
var implicitSupertypes = map[string]bool{
	"java.lang.Object": true,
	"java.lang.Enum":   true,
	"java.lang.Record": true,
}

// Result is a finished extraction: a validated model and the diagnostics
// collected while resolving references.
type Result struct {
	Model       *model.Model
	Classes     []*introspect.Class
	Diagnostics []Diagnostic
}

// Build creates one data type per class, in the given order, and groups
// them into namespaces. Classes are expected in supertype-first order.
func Build(classes []*introspect.Class, in introspect.Introspector, mapping TypeMapping) (*Result, error) {
	root := NewResolver(in, mapping)
	dataTypes := make([]*model.DataType, 0, len(classes))
	scanned := make(map[string]bool, len(classes))
	for _, c := range classes {
		scanned[c.Name] = true
	}

	for _, c := range classes {
		dt, err := buildDataType(c, root, in, scanned)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "failed to build %s", c.Name), ErrIntrospection)
		}
		log.Debugf("built %s with %d properties", dt.FullName, len(dt.Properties))
		dataTypes = append(dataTypes, dt)
	}

	m := model.New(dataTypes)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &Result{Model: m, Classes: classes, Diagnostics: root.Diagnostics()}, nil
}

func buildDataType(c *introspect.Class, root *Resolver, in introspect.Introspector, scanned map[string]bool) (*model.DataType, error) {
	pkg := c.Package()
	r := root.Scoped(c.Name, c.TypeParams)

	dt := &model.DataType{
		Name:        c.SimpleName(),
		FullName:    c.Name,
		Package:     pkg,
		IsInterface: c.IsInterface(),
		IsAbstract:  c.IsAbstract(),
		IsEnum:      c.IsEnum(),
		Constants:   c.EnumConstants(),
	}
	if c.Super != nil && !implicitSupertypes[c.Super.Name] {
		dt.SuperType = r.ResolveSupertype(c.Super, pkg)
	}
	for _, iface := range c.Interfaces {
		dt.Interfaces = append(dt.Interfaces, r.ResolveSupertype(iface, pkg))
	}

	props, err := c.Properties()
	if err != nil {
		return nil, err
	}
	inherited, err := inheritedProperties(c, in, scanned)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(props))
	for _, p := range props {
		seen[p.Name] = true
	}
	for _, p := range inherited {
		if !seen[p.Name] {
			seen[p.Name] = true
			props = append(props, p)
		}
	}
	for _, p := range props {
		pr := r
		if len(p.TypeParams) > 0 {
			pr = r.Scoped(c.Name, p.TypeParams)
		}
		dt.Properties = append(dt.Properties, &model.Property{
			Name: p.Name,
			Type: pr.Resolve(p.Type, pkg),
		})
	}
	return dt, nil
}

// inheritedProperties collects the properties of supertypes that have no data
// type of their own: classes outside the scanned roots. Their type variables
// are replaced by the arguments the subclass passes. Scanned supertypes are
// skipped since their data type carries the properties through extends.
func inheritedProperties(c *introspect.Class, in introspect.Introspector, scanned map[string]bool) ([]introspect.Property, error) {
	visited := map[string]bool{c.Name: true}
	var out []introspect.Property

	var walk func(supertypes []*classfile.ClassType, bindings map[string]classfile.TypeSignature) error
	walk = func(supertypes []*classfile.ClassType, bindings map[string]classfile.TypeSignature) error {
		for _, st := range supertypes {
			if visited[st.Name] || scanned[st.Name] || implicitSupertypes[st.Name] {
				continue
			}
			visited[st.Name] = true
			sc, err := in.Class(st.Name)
			if err != nil {
				// The resolver reports unresolvable supertypes.
				log.Debugf("no inherited properties from %s: %v", st.Name, err)
				continue
			}
			b := bind(sc.TypeParams, substituteArgs(st, bindings).Args)
			props, err := sc.Properties()
			if err != nil {
				return err
			}
			for _, p := range props {
				p.Type = substituteSig(p.Type, shadow(b, p.TypeParams))
				out = append(out, p)
			}
			if err := walk(sc.Supertypes(), b); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(c.Supertypes(), nil); err != nil {
		return nil, err
	}
	return out, nil
}

// shadow drops the bindings hidden by method type parameters.
func shadow(bindings map[string]classfile.TypeSignature, params []classfile.TypeParameter) map[string]classfile.TypeSignature {
	if len(params) == 0 {
		return bindings
	}
	out := make(map[string]classfile.TypeSignature, len(bindings))
	for name, sig := range bindings {
		out[name] = sig
	}
	for _, p := range params {
		delete(out, p.Name)
	}
	return out
}
