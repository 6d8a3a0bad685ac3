package classfile_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dhamidi/kt2ts/classfile"
	"github.com/dhamidi/kt2ts/classfile/classfiletest"
)

func TestParseClassFile(t *testing.T) {
	data := classfiletest.NewClass("com/example/Person").
		Interface("java/io/Serializable", "java/lang/Comparable").
		Signature("Ljava/lang/Object;Ljava/io/Serializable;Ljava/lang/Comparable<Lcom/example/Person;>;").
		Field(classfile.AccPrivate, "name", "Ljava/lang/String;", "").
		LongConstant("serialVersionUID", 42).
		Getter("getName", "Ljava/lang/String;").
		GenericGetter("getTags", "Ljava/util/List;", "Ljava/util/List<Ljava/lang/String;>;").
		Method(classfile.AccPublic, "<init>", "()V", "").
		Bytes()

	cf, err := classfile.Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Failed to parse class file: %v", err)
	}

	t.Run("class name", func(t *testing.T) {
		if got, want := cf.Name, "com/example/Person"; got != want {
			t.Errorf("Name = %q, want %q", got, want)
		}
	})

	t.Run("super class", func(t *testing.T) {
		if got, want := cf.SuperName, "java/lang/Object"; got != want {
			t.Errorf("SuperName = %q, want %q", got, want)
		}
	})

	t.Run("interfaces", func(t *testing.T) {
		if len(cf.InterfaceNames) != 2 {
			t.Fatalf("Expected 2 interfaces, got %d", len(cf.InterfaceNames))
		}
		if got, want := cf.InterfaceNames[1], "java/lang/Comparable"; got != want {
			t.Errorf("InterfaceNames[1] = %q, want %q", got, want)
		}
	})

	t.Run("is class", func(t *testing.T) {
		if !cf.IsClass() {
			t.Error("Expected IsClass() to be true")
		}
		if cf.IsInterface() || cf.IsEnum() || cf.IsSynthetic() {
			t.Error("Expected a plain class")
		}
	})

	t.Run("fields", func(t *testing.T) {
		if len(cf.Fields) != 2 {
			t.Fatalf("Expected 2 fields, got %d", len(cf.Fields))
		}
		uid := cf.Field("serialVersionUID")
		if uid == nil {
			t.Fatal("Expected to find serialVersionUID")
		}
		if !uid.IsStatic() || uid.Descriptor != "J" {
			t.Errorf("serialVersionUID = %+v, want static long", uid)
		}
		if uid.Attribute(classfile.AttrConstantValue) == nil {
			t.Error("Expected ConstantValue attribute")
		}
	})

	t.Run("methods", func(t *testing.T) {
		if len(cf.Methods) != 3 {
			t.Fatalf("Expected 3 methods, got %d", len(cf.Methods))
		}
		tags := cf.Method("getTags", "")
		if tags == nil {
			t.Fatal("Expected to find getTags")
		}
		if got, want := cf.MemberSignature(tags), "()Ljava/util/List<Ljava/lang/String;>;"; got != want {
			t.Errorf("MemberSignature(getTags) = %q, want %q", got, want)
		}
		if !cf.Method("<init>", "()V").IsConstructor() {
			t.Error("Expected <init> to be a constructor")
		}
		if cf.Method("getName", "()I") != nil {
			t.Error("Expected no getName with descriptor ()I")
		}
	})

	t.Run("class signature", func(t *testing.T) {
		if !strings.HasSuffix(cf.Signature(), "<Lcom/example/Person;>;") {
			t.Errorf("Signature() = %q", cf.Signature())
		}
	})
}

func TestParseKinds(t *testing.T) {
	tests := []struct {
		name      string
		builder   *classfiletest.Builder
		iface     bool
		enum      bool
		abstract  bool
		synthetic bool
	}{
		{"interface", classfiletest.NewInterface("a/Shape"), true, false, true, false},
		{"enum", classfiletest.NewEnum("a/Color", "RED", "GREEN"), false, true, false, false},
		{"abstract", classfiletest.NewClass("a/Base").Access(classfile.AccPublic | classfile.AccAbstract), false, false, true, false},
		{"synthetic", classfiletest.NewClass("a/Gen").Access(classfile.AccSynthetic), false, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf, err := classfile.ParseBytes(tt.builder.Bytes())
			if err != nil {
				t.Fatalf("ParseBytes() error = %v", err)
			}
			if cf.IsInterface() != tt.iface {
				t.Errorf("IsInterface() = %v, want %v", cf.IsInterface(), tt.iface)
			}
			if cf.IsEnum() != tt.enum {
				t.Errorf("IsEnum() = %v, want %v", cf.IsEnum(), tt.enum)
			}
			if cf.IsAbstract() != tt.abstract {
				t.Errorf("IsAbstract() = %v, want %v", cf.IsAbstract(), tt.abstract)
			}
			if cf.IsSynthetic() != tt.synthetic {
				t.Errorf("IsSynthetic() = %v, want %v", cf.IsSynthetic(), tt.synthetic)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	valid := classfiletest.NewClass("a/B").Getter("getX", "I").Bytes()

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"empty", nil, "magic"},
		{"bad magic", []byte{0xCA, 0xFE, 0xBA, 0xBF, 0, 0, 0, 61}, "invalid magic"},
		{"truncated", valid[:len(valid)-3], "unexpected end"},
		{"unknown tag", append(append([]byte{}, valid[:10]...), 99), "unknown constant pool tag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := classfile.ParseBytes(tt.data)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}
