package classfile

import "encoding/binary"

// ClassFile is a decoded class file. Class and member names are resolved
// against the constant pool while parsing and kept in internal form
// (slash separated, '$' for nested classes).
type ClassFile struct {
	MinorVersion   uint16
	MajorVersion   uint16
	ConstantPool   ConstantPool
	AccessFlags    AccessFlags
	Name           string
	SuperName      string
	InterfaceNames []string
	Fields         []Member
	Methods        []Member
	Attributes     []Attribute
}

// Member is a field or a method.
type Member struct {
	AccessFlags AccessFlags
	Name        string
	Descriptor  string
	Attributes  []Attribute
}

// Attribute keeps the raw payload; decoding happens on demand.
type Attribute struct {
	Name string
	Data []byte
}

func findAttribute(attrs []Attribute, name string) *Attribute {
	for i := range attrs {
		if attrs[i].Name == name {
			return &attrs[i]
		}
	}
	return nil
}

func signatureOf(attrs []Attribute, cp ConstantPool) string {
	attr := findAttribute(attrs, AttrSignature)
	if attr == nil || len(attr.Data) < 2 {
		return ""
	}
	return cp.Utf8(binary.BigEndian.Uint16(attr.Data))
}

func (cf *ClassFile) IsClass() bool {
	return !cf.AccessFlags.IsInterface() && !cf.AccessFlags.IsModule()
}

func (cf *ClassFile) IsInterface() bool {
	return cf.AccessFlags.IsInterface() && !cf.AccessFlags.IsAnnotation()
}

func (cf *ClassFile) IsAnnotation() bool { return cf.AccessFlags.IsAnnotation() }
func (cf *ClassFile) IsEnum() bool       { return cf.AccessFlags.IsEnum() }
func (cf *ClassFile) IsModule() bool     { return cf.AccessFlags.IsModule() }
func (cf *ClassFile) IsAbstract() bool   { return cf.AccessFlags.IsAbstract() }

// IsSynthetic honours both the access flag and the pre-Java 5 attribute.
func (cf *ClassFile) IsSynthetic() bool {
	return cf.AccessFlags.IsSynthetic() || findAttribute(cf.Attributes, AttrSynthetic) != nil
}

func (cf *ClassFile) Attribute(name string) *Attribute {
	return findAttribute(cf.Attributes, name)
}

// Signature returns the generic class signature, or "" when the class was
// compiled without one.
func (cf *ClassFile) Signature() string {
	return signatureOf(cf.Attributes, cf.ConstantPool)
}

func (cf *ClassFile) Field(name string) *Member {
	for i := range cf.Fields {
		if cf.Fields[i].Name == name {
			return &cf.Fields[i]
		}
	}
	return nil
}

// Method finds a method by name and, when descriptor is non-empty, by descriptor.
func (cf *ClassFile) Method(name, descriptor string) *Member {
	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.Name == name && (descriptor == "" || m.Descriptor == descriptor) {
			return m
		}
	}
	return nil
}

// MemberSignature returns the generic signature of a field or method.
func (cf *ClassFile) MemberSignature(m *Member) string {
	return signatureOf(m.Attributes, cf.ConstantPool)
}

func (m *Member) Attribute(name string) *Attribute {
	return findAttribute(m.Attributes, name)
}

func (m *Member) IsPublic() bool   { return m.AccessFlags.IsPublic() }
func (m *Member) IsStatic() bool   { return m.AccessFlags.IsStatic() }
func (m *Member) IsBridge() bool   { return m.AccessFlags.IsBridge() }
func (m *Member) IsEnum() bool     { return m.AccessFlags.IsEnum() }
func (m *Member) IsAbstract() bool { return m.AccessFlags.IsAbstract() }

func (m *Member) IsSynthetic() bool {
	return m.AccessFlags.IsSynthetic() || m.Attribute(AttrSynthetic) != nil
}

func (m *Member) IsConstructor() bool {
	return m.Name == "<init>"
}

func (m *Member) IsStaticInitializer() bool {
	return m.Name == "<clinit>"
}
