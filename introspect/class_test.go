package introspect

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/dhamidi/kt2ts/classfile"
	"github.com/dhamidi/kt2ts/classfile/classfiletest"
)

type mapLoader map[string]*classfiletest.Builder

func (m mapLoader) Load(name string) (*classfile.ClassFile, error) {
	b, ok := m[name]
	if !ok {
		return nil, errors.Newf("no class %s", name)
	}
	return classfile.ParseBytes(b.Bytes())
}

func TestProperties(t *testing.T) {
	b := classfiletest.NewClass("pkg/Person").
		Field(classfile.AccPrivate|classfile.AccFinal, "name", "Ljava/lang/String;", "").
		Field(classfile.AccPublic, "nickname", "Ljava/lang/String;", "").
		Field(classfile.AccPublic|classfile.AccStatic, "INSTANCES", "I", "").
		Field(classfile.AccPublic, "name", "Ljava/lang/String;", "").
		Getter("getName", "Ljava/lang/String;").
		Getter("getAge", "I").
		Getter("isActive", "Z").
		Getter("isCount", "I").
		Getter("getURL", "Ljava/lang/String;").
		Getter("component1", "Ljava/lang/String;").
		GenericGetter("getTags", "Ljava/util/List;", "Ljava/util/List<Ljava/lang/String;>;").
		Method(classfile.AccPublic, "getWithArg", "(I)I", "").
		Method(classfile.AccPublic, "getNothing", "()V", "").
		Method(classfile.AccPublic|classfile.AccStatic, "getDefault", "()Lpkg/Person;", "").
		Method(classfile.AccPublic|classfile.AccSynthetic|classfile.AccBridge, "getBridge", "()Ljava/lang/Object;", "").
		Method(classfile.AccPrivate, "getSecret", "()I", "").
		Method(classfile.AccPublic, "getter", "()I", "")

	c, err := New(mapLoader{"pkg/Person": b}).Class("pkg.Person")
	if err != nil {
		t.Fatalf("Class() error = %v", err)
	}
	props, err := c.Properties()
	if err != nil {
		t.Fatalf("Properties() error = %v", err)
	}

	want := []struct{ name, typ string }{
		{"name", "java.lang.String"},
		{"age", "int"},
		{"isActive", "boolean"},
		{"URL", "java.lang.String"},
		{"tags", "java.util.List<java.lang.String>"},
		{"nickname", "java.lang.String"},
	}
	if len(props) != len(want) {
		t.Fatalf("Properties() = %v, want %d entries", props, len(want))
	}
	for i, w := range want {
		if props[i].Name != w.name {
			t.Errorf("props[%d].Name = %q, want %q", i, props[i].Name, w.name)
		}
		if got := props[i].Type.String(); got != w.typ {
			t.Errorf("props[%d].Type = %q, want %q", i, got, w.typ)
		}
	}
}

func TestKotlinPropertyNames(t *testing.T) {
	b := classfiletest.NewClass("pkg/Counter").
		Field(classfile.AccPrivate, "count", "I", "").
		Field(classfile.AccPrivate, "xPos", "I", "").
		Field(classfile.AccPrivate, "URL", "Ljava/lang/String;", "").
		Getter("getCount$mymodule", "I").
		Getter("getXPos", "I").
		Getter("getURL", "Ljava/lang/String;").
		Getter("getYPos", "I")

	c, err := New(mapLoader{"pkg/Counter": b}).Class("pkg.Counter")
	if err != nil {
		t.Fatalf("Class() error = %v", err)
	}
	props, err := c.Properties()
	if err != nil {
		t.Fatalf("Properties() error = %v", err)
	}

	want := []string{"count", "xPos", "URL", "YPos"}
	if len(props) != len(want) {
		t.Fatalf("Properties() = %v, want %v", props, want)
	}
	for i, name := range want {
		if props[i].Name != name {
			t.Errorf("props[%d].Name = %q, want %q", i, props[i].Name, name)
		}
	}
}

func TestClassStructure(t *testing.T) {
	loader := mapLoader{
		"pkg/Shape": classfiletest.NewClass("pkg/Shape").Access(classfile.AccPublic | classfile.AccAbstract),
		"pkg/Box": classfiletest.NewClass("pkg/Box").
			Super("pkg/Container").
			Interface("java/lang/Comparable").
			Signature("<T:Ljava/lang/Object;>Lpkg/Container<TT;>;Ljava/lang/Comparable<Lpkg/Box<TT;>;>;"),
		"pkg/Color": classfiletest.NewEnum("pkg/Color", "RED", "GREEN"),
		"pkg/Named": classfiletest.NewInterface("pkg/Named"),
	}
	in := New(loader)

	t.Run("abstract", func(t *testing.T) {
		c, err := in.Class("pkg.Shape")
		if err != nil {
			t.Fatal(err)
		}
		if !c.IsAbstract() || c.IsInterface() || c.IsEnum() {
			t.Errorf("Shape flags = %v", c.Access)
		}
		if c.Super == nil || c.Super.Name != "java.lang.Object" {
			t.Errorf("Super = %v, want java.lang.Object", c.Super)
		}
		if c.Package() != "pkg" || c.SimpleName() != "Shape" {
			t.Errorf("Package() = %q, SimpleName() = %q", c.Package(), c.SimpleName())
		}
	})

	t.Run("generic supertypes", func(t *testing.T) {
		c, err := in.Class("pkg.Box")
		if err != nil {
			t.Fatal(err)
		}
		if got, want := c.Super.String(), "pkg.Container<T>"; got != want {
			t.Errorf("Super = %q, want %q", got, want)
		}
		if len(c.Interfaces) != 1 || c.Interfaces[0].String() != "java.lang.Comparable<pkg.Box<T>>" {
			t.Errorf("Interfaces = %v", c.Interfaces)
		}
		if len(c.TypeParams) != 1 || c.TypeParams[0].Name != "T" {
			t.Errorf("TypeParams = %v", c.TypeParams)
		}
	})

	t.Run("enum", func(t *testing.T) {
		c, err := in.Class("pkg.Color")
		if err != nil {
			t.Fatal(err)
		}
		if !c.IsEnum() {
			t.Error("Expected IsEnum()")
		}
		got := c.EnumConstants()
		if len(got) != 2 || got[0] != "RED" || got[1] != "GREEN" {
			t.Errorf("EnumConstants() = %v", got)
		}
	})

	t.Run("interface", func(t *testing.T) {
		c, err := in.Class("pkg.Named")
		if err != nil {
			t.Fatal(err)
		}
		if !c.IsInterface() {
			t.Error("Expected IsInterface()")
		}
	})

	t.Run("builtin", func(t *testing.T) {
		c, err := in.Class("java.util.ArrayList")
		if err != nil {
			t.Fatal(err)
		}
		if !c.IsBuiltin() {
			t.Error("Expected a builtin class")
		}
		if got, want := c.Super.String(), "java.util.AbstractList<E>"; got != want {
			t.Errorf("Super = %q, want %q", got, want)
		}
		props, err := c.Properties()
		if err != nil || props != nil {
			t.Errorf("Properties() = %v, %v; want none", props, err)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := in.Class("other.Missing")
		if !errors.Is(err, ErrUnknownClass) {
			t.Errorf("Class() error = %v, want ErrUnknownClass", err)
		}
		if _, again := in.Class("other.Missing"); again == nil {
			t.Error("Expected the memoized failure to be returned again")
		}
	})
}

func TestBuiltinSignaturesParse(t *testing.T) {
	for name := range builtins {
		t.Run(name, func(t *testing.T) {
			if _, ok := builtinClass(name); !ok {
				t.Errorf("builtinClass(%q) not found", name)
			}
		})
	}
}

func TestPropertyName(t *testing.T) {
	tests := []struct {
		method, desc string
		fields       []string
		want         string
		ok           bool
	}{
		{"getName", "()Ljava/lang/String;", nil, "name", true},
		{"getX", "()I", nil, "x", true},
		{"getURL", "()Ljava/lang/String;", nil, "URL", true},
		{"getURL", "()Ljava/lang/String;", []string{"URL"}, "URL", true},
		{"getXPos", "()I", nil, "XPos", true},
		{"getXPos", "()I", []string{"xPos"}, "xPos", true},
		{"getCount$mymodule", "()I", []string{"count"}, "count", true},
		{"getCount$mymodule", "()I", nil, "count", true},
		{"isOpen$mymodule", "()Z", nil, "isOpen", true},
		{"isOpen", "()Z", nil, "isOpen", true},
		{"isOpen", "()I", nil, "", false},
		{"get", "()I", nil, "", false},
		{"get$mymodule", "()I", nil, "", false},
		{"getaway", "()I", nil, "", false},
		{"size", "()I", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.method+tt.desc+strings.Join(tt.fields, ","), func(t *testing.T) {
			fields := map[string]bool{}
			for _, f := range tt.fields {
				fields[f] = true
			}
			got, ok := propertyName(tt.method, tt.desc, fields)
			if got != tt.want || ok != tt.ok {
				t.Errorf("propertyName(%q, %q, %v) = %q, %v; want %q, %v", tt.method, tt.desc, tt.fields, got, ok, tt.want, tt.ok)
			}
		})
	}
}
