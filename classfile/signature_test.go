package classfile

import "testing"

func TestParseTypeSignature(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"I", "int"},
		{"Z", "boolean"},
		{"[J", "long[]"},
		{"Ljava/lang/String;", "java.lang.String"},
		{"[[Ljava/lang/Object;", "java.lang.Object[][]"},
		{"TT;", "T"},
		{"Ljava/util/List<Ljava/lang/String;>;", "java.util.List<java.lang.String>"},
		{"Ljava/util/Map<TK;+Ljava/lang/Number;>;", "java.util.Map<K, ? extends java.lang.Number>"},
		{"Ljava/util/List<*>;", "java.util.List<?>"},
		{"Ljava/util/Set<-Ljava/lang/Integer;>;", "java.util.Set<? super java.lang.Integer>"},
		{"La/Outer<TT;>.Inner<Ljava/lang/String;>;", "a.Outer$Inner<java.lang.String>"},
		{"La/Outer$Nested;", "a.Outer$Nested"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sig, err := ParseTypeSignature(tt.input)
			if err != nil {
				t.Fatalf("ParseTypeSignature(%q) error = %v", tt.input, err)
			}
			if got := sig.String(); got != tt.want {
				t.Errorf("ParseTypeSignature(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTypeSignatureErrors(t *testing.T) {
	for _, input := range []string{"", "Q", "Ljava/lang/String", "Ljava/util/List<>;", "II", "T;", "Ljava/util/List<Ljava/lang/String;"} {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseTypeSignature(input); err == nil {
				t.Errorf("ParseTypeSignature(%q) expected error", input)
			}
		})
	}
}

func TestParseClassSignature(t *testing.T) {
	sig, err := ParseClassSignature("<K::Ljava/lang/Comparable<TK;>;V:Ljava/lang/Object;>La/Base<TV;>;Ljava/io/Serializable;")
	if err != nil {
		t.Fatalf("ParseClassSignature() error = %v", err)
	}
	if len(sig.TypeParams) != 2 {
		t.Fatalf("Expected 2 type params, got %d", len(sig.TypeParams))
	}
	if got := sig.TypeParams[0]; got.Name != "K" || len(got.Bounds) != 1 || got.Bounds[0].String() != "java.lang.Comparable<K>" {
		t.Errorf("TypeParams[0] = %+v", got)
	}
	if got := sig.TypeParams[1]; got.Name != "V" || got.Bounds[0].String() != "java.lang.Object" {
		t.Errorf("TypeParams[1] = %+v", got)
	}
	if got, want := sig.Super.String(), "a.Base<V>"; got != want {
		t.Errorf("Super = %q, want %q", got, want)
	}
	if len(sig.Interfaces) != 1 || sig.Interfaces[0].Name != "java.io.Serializable" {
		t.Errorf("Interfaces = %v", sig.Interfaces)
	}
}

func TestParseMethodSignature(t *testing.T) {
	t.Run("descriptor", func(t *testing.T) {
		sig, err := ParseMethodSignature("(I[Ljava/lang/String;)V")
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if len(sig.Params) != 2 || sig.Params[1].String() != "java.lang.String[]" {
			t.Errorf("Params = %v", sig.Params)
		}
		if sig.Result != nil {
			t.Errorf("Result = %v, want void", sig.Result)
		}
	})

	t.Run("generic", func(t *testing.T) {
		sig, err := ParseMethodSignature("<T:Ljava/lang/Object;>()Ljava/util/List<TT;>;^Ljava/io/IOException;")
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if len(sig.TypeParams) != 1 || sig.TypeParams[0].Name != "T" {
			t.Errorf("TypeParams = %+v", sig.TypeParams)
		}
		if got, want := sig.Result.String(), "java.util.List<T>"; got != want {
			t.Errorf("Result = %q, want %q", got, want)
		}
		if len(sig.Throws) != 1 {
			t.Errorf("Throws = %v", sig.Throws)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := ParseMethodSignature("(I"); err == nil {
			t.Error("expected error for unterminated parameters")
		}
	})
}

func TestDecodeModifiedUtf8(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"ascii", []byte("getName"), "getName"},
		{"nul", []byte{0xC0, 0x80}, "\x00"},
		{"two byte", []byte{0xC3, 0xA9}, "é"},
		{"supplementary", []byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80}, "\U0001F600"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeModifiedUtf8(tt.input); got != tt.want {
				t.Errorf("decodeModifiedUtf8() = %q, want %q", got, tt.want)
			}
		})
	}
}
