// Package introspect answers structural questions about classes: their
// category, supertypes, type parameters and exposed properties. It works
// from parsed class files and a table of well-known library types.
package introspect

import (
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/dhamidi/kt2ts/classfile"
)

// Class is the introspected view of one class, interface or enum.
type Class struct {
	// Name is the dotted binary name, e.g. pkg.Outer$Inner.
	Name       string
	Access     classfile.AccessFlags
	Super      *classfile.ClassType
	Interfaces []*classfile.ClassType
	TypeParams []classfile.TypeParameter

	file *classfile.ClassFile
}

// Property is an exposed member: a getter or a public instance field.
type Property struct {
	Name       string
	Type       classfile.TypeSignature
	TypeParams []classfile.TypeParameter
}

// FromClassFile builds a Class, preferring the generic Signature attribute
// over the erased super and interface names.
func FromClassFile(cf *classfile.ClassFile) (*Class, error) {
	c := &Class{
		Name:   classfile.InternalToSourceName(cf.Name),
		Access: cf.AccessFlags,
		file:   cf,
	}
	if sig := cf.Signature(); sig != "" {
		parsed, err := classfile.ParseClassSignature(sig)
		if err != nil {
			return nil, errors.Wrapf(err, "class %s", c.Name)
		}
		c.TypeParams = parsed.TypeParams
		c.Super = parsed.Super
		c.Interfaces = parsed.Interfaces
		if cf.SuperName == "" {
			c.Super = nil
		}
		return c, nil
	}
	if cf.SuperName != "" {
		c.Super = &classfile.ClassType{Name: classfile.InternalToSourceName(cf.SuperName)}
	}
	for _, name := range cf.InterfaceNames {
		c.Interfaces = append(c.Interfaces, &classfile.ClassType{Name: classfile.InternalToSourceName(name)})
	}
	return c, nil
}

func (c *Class) Package() string {
	return PackageOf(c.Name)
}

// SimpleName is the name after the package, nested classes keep their '$'.
func (c *Class) SimpleName() string {
	return SimpleNameOf(c.Name)
}

func (c *Class) IsInterface() bool {
	return c.Access.IsInterface() && !c.Access.IsAnnotation()
}

func (c *Class) IsAnnotation() bool { return c.Access.IsAnnotation() }
func (c *Class) IsAbstract() bool   { return c.Access.IsAbstract() }
func (c *Class) IsEnum() bool       { return c.Access.IsEnum() }

func (c *Class) IsSynthetic() bool {
	if c.file != nil {
		return c.file.IsSynthetic()
	}
	return c.Access.IsSynthetic()
}

// IsBuiltin reports whether the class comes from the well-known type table
// rather than a class file.
func (c *Class) IsBuiltin() bool {
	return c.file == nil
}

// Supertypes returns the superclass (if any) followed by the interfaces.
func (c *Class) Supertypes() []*classfile.ClassType {
	var out []*classfile.ClassType
	if c.Super != nil {
		out = append(out, c.Super)
	}
	return append(out, c.Interfaces...)
}

func (c *Class) EnumConstants() []string {
	if c.file == nil || !c.IsEnum() {
		return nil
	}
	var out []string
	for i := range c.file.Fields {
		f := &c.file.Fields[i]
		if f.IsEnum() && f.IsStatic() {
			out = append(out, f.Name)
		}
	}
	return out
}

// Properties lists getters in method order, then public instance fields
// not already covered by a getter.
func (c *Class) Properties() ([]Property, error) {
	if c.file == nil {
		return nil, nil
	}
	seen := map[string]bool{}
	fields := make(map[string]bool, len(c.file.Fields))
	for i := range c.file.Fields {
		fields[c.file.Fields[i].Name] = true
	}
	var props []Property

	for i := range c.file.Methods {
		m := &c.file.Methods[i]
		if !isGetterCandidate(m) {
			continue
		}
		name, ok := propertyName(m.Name, m.Descriptor, fields)
		if !ok || seen[name] {
			continue
		}
		sig := c.file.MemberSignature(m)
		if sig == "" {
			sig = m.Descriptor
		}
		ms, err := classfile.ParseMethodSignature(sig)
		if err != nil {
			return nil, errors.Wrapf(err, "method %s.%s", c.Name, m.Name)
		}
		if len(ms.Params) != 0 || ms.Result == nil {
			continue
		}
		seen[name] = true
		props = append(props, Property{Name: name, Type: ms.Result, TypeParams: ms.TypeParams})
	}

	for i := range c.file.Fields {
		f := &c.file.Fields[i]
		if !f.IsPublic() || f.IsStatic() || f.IsEnum() || f.IsSynthetic() || strings.Contains(f.Name, "$") || seen[f.Name] {
			continue
		}
		sig := c.file.MemberSignature(f)
		if sig == "" {
			sig = f.Descriptor
		}
		t, err := classfile.ParseTypeSignature(sig)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s.%s", c.Name, f.Name)
		}
		seen[f.Name] = true
		props = append(props, Property{Name: f.Name, Type: t})
	}
	return props, nil
}

func isGetterCandidate(m *classfile.Member) bool {
	return m.IsPublic() && !m.IsStatic() && !m.IsSynthetic() && !m.IsBridge() &&
		!m.IsConstructor() && !m.IsStaticInitializer() &&
		strings.HasPrefix(m.Descriptor, "()") && m.Descriptor != "()V"
}

// propertyName derives the property name of a getter. getFoo becomes foo,
// getURL stays URL, and isFoo returning boolean keeps its name.
// Everything from the first '$' is dropped (getCount$app is the getter of
// an internal property count), and a declared field decides the casing of
// the name when one matches, so getXPos backed by xPos yields xPos.
func propertyName(method, descriptor string, fields map[string]bool) (string, bool) {
	if i := strings.IndexByte(method, '$'); i > 0 {
		method = method[:i]
	}
	switch {
	case strings.HasPrefix(method, "get") && len(method) > 3 && !unicode.IsLower(rune(method[3])):
		suffix := method[3:]
		if lower := strings.ToLower(suffix[:1]) + suffix[1:]; fields[lower] {
			return lower, true
		}
		if fields[suffix] {
			return suffix, true
		}
		return decapitalize(suffix), true
	case strings.HasPrefix(method, "is") && len(method) > 2 && !unicode.IsLower(rune(method[2])) && descriptor == "()Z":
		return method, true
	}
	return "", false
}

func decapitalize(s string) string {
	if len(s) > 1 && unicode.IsUpper(rune(s[0])) && unicode.IsUpper(rune(s[1])) {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func PackageOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return ""
}

func SimpleNameOf(name string) string {
	return name[strings.LastIndexByte(name, '.')+1:]
}
