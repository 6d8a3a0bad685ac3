package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// decoder walks a class file held fully in memory. The first error sticks;
// later reads return zero values so callers can check once per section.
type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.off+n > len(d.buf) {
		d.err = fmt.Errorf("unexpected end of class file at offset %d (need %d bytes)", d.off, n)
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) u1() uint8 {
	b := d.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) u2() uint16 {
	b := d.take(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (d *decoder) u4() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func ParseFile(path string) (*ClassFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read class file: %w", err)
	}
	return ParseBytes(data)
}

func Parse(r io.Reader) (*ClassFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read class file: %w", err)
	}
	return ParseBytes(data)
}

func ParseBytes(data []byte) (*ClassFile, error) {
	d := &decoder{buf: data}

	if magic := d.u4(); d.err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", d.err)
	} else if magic != Magic {
		return nil, fmt.Errorf("invalid magic number: 0x%X (expected 0xCAFEBABE)", magic)
	}

	cf := &ClassFile{
		MinorVersion: d.u2(),
		MajorVersion: d.u2(),
	}

	pool, err := d.constantPool()
	if err != nil {
		return nil, err
	}
	cf.ConstantPool = pool

	cf.AccessFlags = AccessFlags(d.u2())
	thisClass := d.u2()
	superClass := d.u2()
	if d.err != nil {
		return nil, fmt.Errorf("failed to read class info: %w", d.err)
	}
	if cf.Name, err = pool.checkClass(thisClass, "this_class"); err != nil {
		return nil, err
	}
	if superClass != 0 {
		if cf.SuperName, err = pool.checkClass(superClass, "super_class"); err != nil {
			return nil, err
		}
	}

	count := d.u2()
	for i := 0; i < int(count); i++ {
		name, err := pool.checkClass(d.u2(), fmt.Sprintf("interface %d", i))
		if d.err != nil {
			return nil, fmt.Errorf("failed to read interfaces: %w", d.err)
		}
		if err != nil {
			return nil, err
		}
		cf.InterfaceNames = append(cf.InterfaceNames, name)
	}

	if cf.Fields, err = d.members(pool, "field"); err != nil {
		return nil, err
	}
	if cf.Methods, err = d.members(pool, "method"); err != nil {
		return nil, err
	}
	if cf.Attributes, err = d.attributes(pool); err != nil {
		return nil, fmt.Errorf("failed to read class attributes: %w", err)
	}
	return cf, nil
}

func (d *decoder) constantPool() (ConstantPool, error) {
	count := d.u2()
	if d.err != nil {
		return nil, fmt.Errorf("failed to read constant pool count: %w", d.err)
	}
	if count == 0 {
		return nil, fmt.Errorf("invalid constant pool count 0")
	}

	pool := make(ConstantPool, count)
	for i := 1; i < int(count); i++ {
		c, err := d.constant()
		if err != nil {
			return nil, fmt.Errorf("failed to read constant pool entry %d: %w", i, err)
		}
		pool[i] = c
		if c.Tag.wide() {
			i++
		}
	}
	return pool, nil
}

func (d *decoder) constant() (Constant, error) {
	tag := ConstantTag(d.u1())
	c := Constant{Tag: tag}

	switch tag {
	case ConstantUtf8:
		n := d.u2()
		c.Text = decodeModifiedUtf8(d.take(int(n)))
	case ConstantInteger, ConstantFloat:
		c.Bits = uint64(d.u4())
	case ConstantLong, ConstantDouble:
		hi := d.u4()
		lo := d.u4()
		c.Bits = uint64(hi)<<32 | uint64(lo)
	case ConstantClass, ConstantString, ConstantMethodType, ConstantModule, ConstantPackage:
		c.Ref1 = d.u2()
	case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref,
		ConstantNameAndType, ConstantDynamic, ConstantInvokeDynamic:
		c.Ref1 = d.u2()
		c.Ref2 = d.u2()
	case ConstantMethodHandle:
		c.Ref1 = uint16(d.u1())
		c.Ref2 = d.u2()
	default:
		if d.err == nil {
			return c, fmt.Errorf("unknown constant pool tag: %d", tag)
		}
	}
	return c, d.err
}

func (d *decoder) members(pool ConstantPool, kind string) ([]Member, error) {
	count := d.u2()
	if d.err != nil {
		return nil, fmt.Errorf("failed to read %s count: %w", kind, d.err)
	}

	members := make([]Member, 0, count)
	for i := 0; i < int(count); i++ {
		flags := AccessFlags(d.u2())
		nameIndex := d.u2()
		descIndex := d.u2()
		if d.err != nil {
			return nil, fmt.Errorf("failed to read %s %d: %w", kind, i, d.err)
		}
		name, err := pool.checkUtf8(nameIndex, kind+" name")
		if err != nil {
			return nil, err
		}
		desc, err := pool.checkUtf8(descIndex, kind+" descriptor")
		if err != nil {
			return nil, err
		}
		attrs, err := d.attributes(pool)
		if err != nil {
			return nil, fmt.Errorf("failed to read attributes of %s %s: %w", kind, name, err)
		}
		members = append(members, Member{
			AccessFlags: flags,
			Name:        name,
			Descriptor:  desc,
			Attributes:  attrs,
		})
	}
	return members, nil
}

func (d *decoder) attributes(pool ConstantPool) ([]Attribute, error) {
	count := d.u2()
	attrs := make([]Attribute, 0, count)
	for i := 0; i < int(count); i++ {
		nameIndex := d.u2()
		length := d.u4()
		data := d.take(int(length))
		if d.err != nil {
			return nil, d.err
		}
		name, err := pool.checkUtf8(nameIndex, "attribute name")
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, Attribute{Name: name, Data: data})
	}
	return attrs, d.err
}
