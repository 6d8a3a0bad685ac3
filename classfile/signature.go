package classfile

import (
	"fmt"
	"strings"
)

// TypeSignature is a parsed field type or generic type signature.
// Implementations are *BaseType, *ArrayType, *ClassType and *TypeVariable.
type TypeSignature interface {
	String() string
	isTypeSignature()
}

// BaseType is a primitive such as int or boolean.
type BaseType struct {
	Name string
}

type ArrayType struct {
	Elem TypeSignature
}

// ClassType is a reference to a class or interface. Name is the dotted
// binary name, nested classes joined with '$'. Args holds the type
// arguments of the innermost class.
type ClassType struct {
	Name string
	Args []TypeArgument
}

type TypeVariable struct {
	Name string
}

// Wildcard markers for TypeArgument.
const (
	WildcardNone    byte = 0
	WildcardAny     byte = '*'
	WildcardExtends byte = '+'
	WildcardSuper   byte = '-'
)

// TypeArgument is one actual type argument. Type is nil for the unbounded
// wildcard.
type TypeArgument struct {
	Wildcard byte
	Type     TypeSignature
}

type TypeParameter struct {
	Name   string
	Bounds []TypeSignature
}

type ClassSignature struct {
	TypeParams []TypeParameter
	Super      *ClassType
	Interfaces []*ClassType
}

// MethodSignature describes a method. Result is nil for void.
type MethodSignature struct {
	TypeParams []TypeParameter
	Params     []TypeSignature
	Result     TypeSignature
	Throws     []TypeSignature
}

func (*BaseType) isTypeSignature()     {}
func (*ArrayType) isTypeSignature()    {}
func (*ClassType) isTypeSignature()    {}
func (*TypeVariable) isTypeSignature() {}

func (t *BaseType) String() string     { return t.Name }
func (t *ArrayType) String() string    { return t.Elem.String() + "[]" }
func (t *TypeVariable) String() string { return t.Name }

func (t *ClassType) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return t.Name + "<" + strings.Join(args, ", ") + ">"
}

func (a TypeArgument) String() string {
	switch a.Wildcard {
	case WildcardAny:
		return "?"
	case WildcardExtends:
		return "? extends " + a.Type.String()
	case WildcardSuper:
		return "? super " + a.Type.String()
	}
	return a.Type.String()
}

var baseTypes = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// ParseTypeSignature parses a field descriptor or a field generic signature.
func ParseTypeSignature(s string) (TypeSignature, error) {
	p := &sigParser{s: s}
	t, err := p.typeSignature()
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return t, nil
}

func ParseClassSignature(s string) (*ClassSignature, error) {
	p := &sigParser{s: s}
	sig := &ClassSignature{}
	var err error
	if sig.TypeParams, err = p.typeParameters(); err != nil {
		return nil, err
	}
	if sig.Super, err = p.classType(); err != nil {
		return nil, err
	}
	for !p.done() {
		iface, err := p.classType()
		if err != nil {
			return nil, err
		}
		sig.Interfaces = append(sig.Interfaces, iface)
	}
	return sig, nil
}

// ParseMethodSignature parses a method descriptor or a method generic signature.
func ParseMethodSignature(s string) (*MethodSignature, error) {
	p := &sigParser{s: s}
	sig := &MethodSignature{}
	var err error
	if sig.TypeParams, err = p.typeParameters(); err != nil {
		return nil, err
	}
	if err := p.expect('('); err != nil {
		return nil, err
	}
	for p.peek() != ')' {
		if p.done() {
			return nil, p.errorf("unterminated parameter list")
		}
		param, err := p.typeSignature()
		if err != nil {
			return nil, err
		}
		sig.Params = append(sig.Params, param)
	}
	p.pos++

	if p.peek() == 'V' {
		p.pos++
	} else if sig.Result, err = p.typeSignature(); err != nil {
		return nil, err
	}

	for p.peek() == '^' {
		p.pos++
		t, err := p.typeSignature()
		if err != nil {
			return nil, err
		}
		sig.Throws = append(sig.Throws, t)
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return sig, nil
}

type sigParser struct {
	s   string
	pos int
}

func (p *sigParser) done() bool { return p.pos >= len(p.s) }

func (p *sigParser) peek() byte {
	if p.done() {
		return 0
	}
	return p.s[p.pos]
}

func (p *sigParser) errorf(format string, args ...any) error {
	return fmt.Errorf("invalid signature %q at %d: %s", p.s, p.pos, fmt.Sprintf(format, args...))
}

func (p *sigParser) expect(c byte) error {
	if p.peek() != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

func (p *sigParser) end() error {
	if !p.done() {
		return p.errorf("trailing characters")
	}
	return nil
}

func (p *sigParser) identifier(stop string) (string, error) {
	start := p.pos
	for !p.done() && !strings.ContainsRune(stop, rune(p.s[p.pos])) {
		p.pos++
	}
	if p.pos == start {
		return "", p.errorf("expected identifier")
	}
	return p.s[start:p.pos], nil
}

func (p *sigParser) typeSignature() (TypeSignature, error) {
	switch c := p.peek(); c {
	case 'L':
		return p.classType()
	case 'T':
		p.pos++
		name, err := p.identifier(";")
		if err != nil {
			return nil, err
		}
		if err := p.expect(';'); err != nil {
			return nil, err
		}
		return &TypeVariable{Name: name}, nil
	case '[':
		p.pos++
		elem, err := p.typeSignature()
		if err != nil {
			return nil, err
		}
		return &ArrayType{Elem: elem}, nil
	default:
		if name, ok := baseTypes[c]; ok {
			p.pos++
			return &BaseType{Name: name}, nil
		}
		if p.done() {
			return nil, p.errorf("unexpected end")
		}
		return nil, p.errorf("unexpected %q", c)
	}
}

func (p *sigParser) classType() (*ClassType, error) {
	if err := p.expect('L'); err != nil {
		return nil, err
	}
	name, err := p.identifier("<.;")
	if err != nil {
		return nil, err
	}
	ct := &ClassType{Name: InternalToSourceName(name)}
	for {
		if p.peek() == '<' {
			if ct.Args, err = p.typeArguments(); err != nil {
				return nil, err
			}
		}
		if p.peek() != '.' {
			break
		}
		p.pos++
		inner, err := p.identifier("<.;")
		if err != nil {
			return nil, err
		}
		ct.Name += "$" + inner
		ct.Args = nil
	}
	if err := p.expect(';'); err != nil {
		return nil, err
	}
	return ct, nil
}

func (p *sigParser) typeArguments() ([]TypeArgument, error) {
	p.pos++
	var args []TypeArgument
	for p.peek() != '>' {
		if p.done() {
			return nil, p.errorf("unterminated type arguments")
		}
		switch c := p.peek(); c {
		case WildcardAny:
			p.pos++
			args = append(args, TypeArgument{Wildcard: WildcardAny})
			continue
		case WildcardExtends, WildcardSuper:
			p.pos++
			t, err := p.typeSignature()
			if err != nil {
				return nil, err
			}
			args = append(args, TypeArgument{Wildcard: c, Type: t})
			continue
		}
		t, err := p.typeSignature()
		if err != nil {
			return nil, err
		}
		args = append(args, TypeArgument{Type: t})
	}
	p.pos++
	if len(args) == 0 {
		return nil, p.errorf("empty type arguments")
	}
	return args, nil
}

func (p *sigParser) typeParameters() ([]TypeParameter, error) {
	if p.peek() != '<' {
		return nil, nil
	}
	p.pos++
	var params []TypeParameter
	for p.peek() != '>' {
		if p.done() {
			return nil, p.errorf("unterminated type parameters")
		}
		name, err := p.identifier(":")
		if err != nil {
			return nil, err
		}
		tp := TypeParameter{Name: name}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		// the class bound may be empty when only interface bounds follow
		if c := p.peek(); c == 'L' || c == 'T' || c == '[' {
			bound, err := p.typeSignature()
			if err != nil {
				return nil, err
			}
			tp.Bounds = append(tp.Bounds, bound)
		}
		for p.peek() == ':' {
			p.pos++
			bound, err := p.typeSignature()
			if err != nil {
				return nil, err
			}
			tp.Bounds = append(tp.Bounds, bound)
		}
		params = append(params, tp)
	}
	p.pos++
	return params, nil
}
