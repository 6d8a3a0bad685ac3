// Package classfiletest assembles class files in memory for tests.
package classfiletest

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/dhamidi/kt2ts/classfile"
)

type member struct {
	access    classfile.AccessFlags
	name      string
	desc      string
	signature string
	constant  *int64
}

// Builder describes one class. Zero configuration yields a public class
// extending java/lang/Object.
type Builder struct {
	name       string
	super      string
	interfaces []string
	access     classfile.AccessFlags
	signature  string
	fields     []member
	methods    []member
}

func NewClass(internalName string) *Builder {
	return &Builder{
		name:   internalName,
		super:  "java/lang/Object",
		access: classfile.AccPublic | classfile.AccSuper,
	}
}

func NewInterface(internalName string) *Builder {
	b := NewClass(internalName)
	b.access = classfile.AccPublic | classfile.AccInterface | classfile.AccAbstract
	return b
}

// NewEnum creates an enum class with one public static final field per constant.
func NewEnum(internalName string, constants ...string) *Builder {
	b := NewClass(internalName)
	b.access |= classfile.AccFinal | classfile.AccEnum
	b.super = "java/lang/Enum"
	b.signature = "Ljava/lang/Enum<L" + internalName + ";>;"
	for _, c := range constants {
		b.fields = append(b.fields, member{
			access: classfile.AccPublic | classfile.AccStatic | classfile.AccFinal | classfile.AccEnum,
			name:   c,
			desc:   "L" + internalName + ";",
		})
	}
	return b
}

func (b *Builder) Name() string { return b.name }

func (b *Builder) Access(flags classfile.AccessFlags) *Builder {
	b.access = flags
	return b
}

func (b *Builder) Super(internalName string) *Builder {
	b.super = internalName
	return b
}

func (b *Builder) Interface(internalNames ...string) *Builder {
	b.interfaces = append(b.interfaces, internalNames...)
	return b
}

func (b *Builder) Signature(sig string) *Builder {
	b.signature = sig
	return b
}

func (b *Builder) Field(access classfile.AccessFlags, name, desc, signature string) *Builder {
	b.fields = append(b.fields, member{access: access, name: name, desc: desc, signature: signature})
	return b
}

// LongConstant adds a static final long field with a ConstantValue attribute.
func (b *Builder) LongConstant(name string, value int64) *Builder {
	b.fields = append(b.fields, member{
		access:   classfile.AccPublic | classfile.AccStatic | classfile.AccFinal,
		name:     name,
		desc:     "J",
		constant: &value,
	})
	return b
}

func (b *Builder) Method(access classfile.AccessFlags, name, desc, signature string) *Builder {
	b.methods = append(b.methods, member{access: access, name: name, desc: desc, signature: signature})
	return b
}

// Getter adds a public no-arg method returning desc.
func (b *Builder) Getter(name, desc string) *Builder {
	return b.Method(classfile.AccPublic, name, "()"+desc, "")
}

// GenericGetter adds a public no-arg method with a Signature attribute.
func (b *Builder) GenericGetter(name, desc, signature string) *Builder {
	return b.Method(classfile.AccPublic, name, "()"+desc, "()"+signature)
}

type pool struct {
	buf   bytes.Buffer
	next  uint16
	utf8  map[string]uint16
	class map[string]uint16
}

func newPool() *pool {
	return &pool{next: 1, utf8: map[string]uint16{}, class: map[string]uint16{}}
}

func (p *pool) u2(v uint16) { binary.Write(&p.buf, binary.BigEndian, v) }

func (p *pool) Utf8(s string) uint16 {
	if idx, ok := p.utf8[s]; ok {
		return idx
	}
	p.buf.WriteByte(byte(classfile.ConstantUtf8))
	p.u2(uint16(len(s)))
	p.buf.WriteString(s)
	idx := p.next
	p.next++
	p.utf8[s] = idx
	return idx
}

func (p *pool) Class(internalName string) uint16 {
	if idx, ok := p.class[internalName]; ok {
		return idx
	}
	nameIdx := p.Utf8(internalName)
	p.buf.WriteByte(byte(classfile.ConstantClass))
	p.u2(nameIdx)
	idx := p.next
	p.next++
	p.class[internalName] = idx
	return idx
}

func (p *pool) Long(v int64) uint16 {
	p.buf.WriteByte(byte(classfile.ConstantLong))
	binary.Write(&p.buf, binary.BigEndian, v)
	idx := p.next
	p.next += 2
	return idx
}

type body struct{ bytes.Buffer }

func (w *body) u2(v uint16) { binary.Write(w, binary.BigEndian, v) }
func (w *body) u4(v uint32) { binary.Write(w, binary.BigEndian, v) }

func (w *body) attribute(nameIdx uint16, data []byte) {
	w.u2(nameIdx)
	w.u4(uint32(len(data)))
	w.Write(data)
}

func u2bytes(v uint16) []byte {
	return []byte{byte(v >> 8), byte(v)}
}

// Bytes assembles the class file.
func (b *Builder) Bytes() []byte {
	p := newPool()
	var w body

	w.u2(uint16(b.access))
	w.u2(p.Class(b.name))
	if b.super == "" {
		w.u2(0)
	} else {
		w.u2(p.Class(b.super))
	}
	w.u2(uint16(len(b.interfaces)))
	for _, iface := range b.interfaces {
		w.u2(p.Class(iface))
	}

	for _, group := range [][]member{b.fields, b.methods} {
		w.u2(uint16(len(group)))
		for _, m := range group {
			w.u2(uint16(m.access))
			w.u2(p.Utf8(m.name))
			w.u2(p.Utf8(m.desc))
			var count uint16
			if m.signature != "" {
				count++
			}
			if m.constant != nil {
				count++
			}
			w.u2(count)
			if m.signature != "" {
				w.attribute(p.Utf8(classfile.AttrSignature), u2bytes(p.Utf8(m.signature)))
			}
			if m.constant != nil {
				w.attribute(p.Utf8(classfile.AttrConstantValue), u2bytes(p.Long(*m.constant)))
			}
		}
	}

	if b.signature != "" {
		w.u2(1)
		w.attribute(p.Utf8(classfile.AttrSignature), u2bytes(p.Utf8(b.signature)))
	} else {
		w.u2(0)
	}

	var out body
	out.u4(classfile.Magic)
	out.u2(0)
	out.u2(61)
	out.u2(p.next)
	out.Write(p.buf.Bytes())
	out.Write(w.Bytes())
	return out.Bytes()
}

// WriteDir writes each class below dir as <internal name>.class.
func WriteDir(dir string, classes ...*Builder) error {
	for _, c := range classes {
		path := filepath.Join(dir, filepath.FromSlash(c.name)+".class")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, c.Bytes(), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// WriteJar writes the classes into a jar at path, with a manifest entry
// that loaders are expected to ignore.
func WriteJar(path string, classes ...*Builder) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	manifest, err := zw.Create("META-INF/MANIFEST.MF")
	if err != nil {
		return err
	}
	if _, err := manifest.Write([]byte("Manifest-Version: 1.0\n")); err != nil {
		return err
	}
	for _, c := range classes {
		w, err := zw.Create(c.name + ".class")
		if err != nil {
			return err
		}
		if _, err := w.Write(c.Bytes()); err != nil {
			return err
		}
	}
	return zw.Close()
}
