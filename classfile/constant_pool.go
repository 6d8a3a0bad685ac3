package classfile

import "fmt"

// Constant is one decoded constant pool slot. Only the fields relevant to the
// tag are set: Text for Utf8, Ref1/Ref2 for index-carrying entries, Bits for
// numeric payloads.
type Constant struct {
	Tag  ConstantTag
	Text string
	Ref1 uint16
	Ref2 uint16
	Bits uint64
}

// ConstantPool is indexed by the JVM constant pool index. Slot 0 and the
// second slot of long/double entries are zero values.
type ConstantPool []Constant

func (cp ConstantPool) entry(index uint16, tag ConstantTag) (Constant, bool) {
	if int(index) <= 0 || int(index) >= len(cp) {
		return Constant{}, false
	}
	c := cp[index]
	if c.Tag != tag {
		return Constant{}, false
	}
	return c, true
}

func (cp ConstantPool) Utf8(index uint16) string {
	c, ok := cp.entry(index, ConstantUtf8)
	if !ok {
		return ""
	}
	return c.Text
}

// ClassName returns the internal (slash separated) name of a CONSTANT_Class entry.
func (cp ConstantPool) ClassName(index uint16) string {
	c, ok := cp.entry(index, ConstantClass)
	if !ok {
		return ""
	}
	return cp.Utf8(c.Ref1)
}

func (cp ConstantPool) checkUtf8(index uint16, what string) (string, error) {
	c, ok := cp.entry(index, ConstantUtf8)
	if !ok {
		return "", fmt.Errorf("%s: constant %d is not a Utf8 entry", what, index)
	}
	return c.Text, nil
}

func (cp ConstantPool) checkClass(index uint16, what string) (string, error) {
	name := cp.ClassName(index)
	if name == "" {
		return "", fmt.Errorf("%s: constant %d is not a class entry", what, index)
	}
	return name, nil
}

func decodeModifiedUtf8(b []byte) string {
	runes := make([]rune, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			runes = append(runes, rune(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			runes = append(runes, rune(c&0x1F)<<6|rune(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			r := rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
			// surrogate pairs are encoded as two 3-byte sequences
			if r >= 0xD800 && r <= 0xDBFF && i+5 < len(b) && b[i+3] == 0xED {
				lo := rune(b[i+3]&0x0F)<<12 | rune(b[i+4]&0x3F)<<6 | rune(b[i+5]&0x3F)
				if lo >= 0xDC00 && lo <= 0xDFFF {
					runes = append(runes, 0x10000+((r-0xD800)<<10)+(lo-0xDC00))
					i += 6
					continue
				}
			}
			runes = append(runes, r)
			i += 3
		default:
			runes = append(runes, rune(c))
			i++
		}
	}
	return string(runes)
}
