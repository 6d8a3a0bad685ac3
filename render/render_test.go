package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/dhamidi/kt2ts/model"
)

func sampleModel() *model.Model {
	number := func() *model.TypeRef { return &model.TypeRef{Name: "number", FullName: "int"} }
	return model.New([]*model.DataType{
		{
			Name: "Shape", FullName: "pkg.Shape", Package: "pkg", IsAbstract: true,
			Properties: []*model.Property{{Name: "area", Type: &model.TypeRef{Name: "number", FullName: "double"}}},
		},
		{
			Name: "Point", FullName: "pkg.Point", Package: "pkg",
			Properties: []*model.Property{{Name: "x", Type: number()}, {Name: "y", Type: number()}},
		},
		{
			Name: "Polygon", FullName: "pkg.Polygon", Package: "pkg",
			SuperType:  &model.TypeRef{Name: "Shape", FullName: "pkg.Shape", IsSamePackage: true},
			Interfaces: []*model.TypeRef{{Name: "Serializable", FullName: "java.io.Serializable"}},
			Properties: []*model.Property{
				{Name: "points", Type: &model.TypeRef{
					Name: "List", FullName: "java.util.List", IsCollection: true, IsOrdered: true,
					ElementType: &model.TypeRef{Name: "Point", FullName: "pkg.Point", IsSamePackage: true, IsReference: true},
				}},
				{Name: "tags", Type: &model.TypeRef{
					Name: "Set", FullName: "java.util.Set", IsCollection: true,
					ElementType: &model.TypeRef{Name: "string", FullName: "java.lang.String"},
				}},
				{Name: "style", Type: &model.TypeRef{Name: "Style", FullName: "pkg.draw.Style", IsReference: true}},
				{Name: "owner", Type: &model.TypeRef{Name: "Owner", FullName: "other.Owner"}},
				{Name: "id", Type: &model.TypeRef{Name: "long", FullName: "long"}},
			},
		},
		{Name: "Color", FullName: "pkg.draw.Color", Package: "pkg.draw", IsEnum: true, Constants: []string{"RED", "GREEN"}},
		{Name: "Style", FullName: "pkg.draw.Style", Package: "pkg.draw", IsInterface: true, IsAbstract: true},
	})
}

func TestRenderDefault(t *testing.T) {
	out, err := Default().Render(sampleModel())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := `// Generated by kt2ts. Do not edit.

declare namespace pkg {
    interface Shape {
        area: number;
    }
    interface Point {
        x: number;
        y: number;
    }
    interface Polygon extends Shape {
        points: Point[];
        tags: Set<string>;
        style: pkg.draw.Style;
        owner: any;
        id: number;
    }
}

declare namespace pkg.draw {
    type Color = "RED" | "GREEN";
    interface Style {
    }
}
`
	if out != want {
		t.Errorf("Render() =\n%s\nwant\n%s", out, want)
	}
}

func TestRenderWithoutPackage(t *testing.T) {
	m := model.New([]*model.DataType{{Name: "Loose", FullName: "Loose"}})
	out, err := Default().Render(m)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "\ndeclare interface Loose {\n}") {
		t.Errorf("Render() = %q, want a top-level declaration", out)
	}
}

func TestRenderDataType(t *testing.T) {
	m := sampleModel()
	dt, _ := m.Lookup("pkg.Point")
	out, err := Default().RenderDataType(m, dt)
	if err != nil {
		t.Fatalf("RenderDataType() error = %v", err)
	}
	want := "interface Point {\n    x: number;\n    y: number;\n}"
	if out != want {
		t.Errorf("RenderDataType() = %q, want %q", out, want)
	}
}

func TestTsType(t *testing.T) {
	tf := &typeFormatter{m: sampleModel()}
	tests := []struct {
		name string
		ref  *model.TypeRef
		want string
	}{
		{"substituted", &model.TypeRef{Name: "string", FullName: "java.lang.String"}, "string"},
		{"unknown", &model.TypeRef{Name: "Thing", FullName: "x.Thing"}, "any"},
		{"char", &model.TypeRef{Name: "char", FullName: "char"}, "string"},
		{"nested list", &model.TypeRef{
			Name: "array", FullName: "array", IsCollection: true, IsOrdered: true,
			ElementType: &model.TypeRef{Name: "array", FullName: "array", IsCollection: true, IsOrdered: true,
				ElementType: &model.TypeRef{Name: "number", FullName: "double"}},
		}, "number[][]"},
		{"list of sets", &model.TypeRef{
			Name: "List", FullName: "java.util.List", IsCollection: true, IsOrdered: true,
			ElementType: &model.TypeRef{Name: "Set", FullName: "java.util.Set", IsCollection: true,
				ElementType: &model.TypeRef{Name: "Point", FullName: "pkg.Point", IsSamePackage: true}},
		}, "Set<Point>[]"},
		{"nested class", &model.TypeRef{Name: "Outer$Inner", FullName: "a.Outer$Inner"}, "any"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tf.tsType(tt.ref.ToMap()); got != tt.want {
				t.Errorf("tsType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtendsClause(t *testing.T) {
	tf := &typeFormatter{m: sampleModel()}
	dt := (&model.DataType{
		Name: "Items", FullName: "pkg.Items",
		SuperType: &model.TypeRef{
			Name: "ArrayList", FullName: "java.util.ArrayList", IsCollection: true, IsOrdered: true,
			ElementType: &model.TypeRef{Name: "Point", FullName: "pkg.Point", IsSamePackage: true},
		},
		Interfaces: []*model.TypeRef{
			{Name: "Style", FullName: "pkg.draw.Style"},
			{Name: "Comparable", FullName: "java.lang.Comparable"},
		},
	}).ToMap()
	if got, want := tf.extendsClause(dt), " extends Array<Point>, pkg.draw.Style"; got != want {
		t.Errorf("extendsClause() = %q, want %q", got, want)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	custom := `{{range .namespace}}{{.name}}:{{range .datatype}} {{camelCase .name}}{{end}}{{end}}`
	if err := os.WriteFile(filepath.Join(dir, "names.tmpl"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}
	m := model.New([]*model.DataType{{Name: "PointValue", FullName: "a.PointValue", Package: "a"}})

	t.Run("without extension", func(t *testing.T) {
		r, err := Load(dir, "names")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		out, err := r.Render(m)
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if out != "a: pointValue" {
			t.Errorf("Render() = %q, want %q", out, "a: pointValue")
		}
	})

	t.Run("custom template has no datatype block", func(t *testing.T) {
		r, _ := Load(dir, "names.tmpl")
		if _, err := r.RenderDataType(m, m.DataTypes()[0]); err == nil {
			t.Error("Expected an error for a template without a datatype block")
		}
	})

	t.Run("missing template", func(t *testing.T) {
		if _, err := Load(dir, "missing"); !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("Load() error = %v, want ErrTemplateNotFound", err)
		}
	})

	t.Run("no dir uses the default", func(t *testing.T) {
		r, err := Load("", "missing")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if r.Name() != DefaultTemplateName {
			t.Errorf("Name() = %q, want %q", r.Name(), DefaultTemplateName)
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "bad.tmpl"), []byte("{{range}"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(dir, "bad"); err == nil {
			t.Error("Expected a parse error")
		}
	})
}
