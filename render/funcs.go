package render

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"github.com/dhamidi/kt2ts/model"
	"github.com/iancoleman/strcase"
)

// primitives covers JVM base types left unmapped by the type mapping.
var primitives = map[string]string{
	"byte":    "number",
	"short":   "number",
	"int":     "number",
	"long":    "number",
	"float":   "number",
	"double":  "number",
	"char":    "string",
	"boolean": "boolean",
}

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// baseFuncs are available to every template, including user templates.
func baseFuncs() template.FuncMap {
	return template.FuncMap{
		"camelCase":  strcase.ToLowerCamel,
		"pascalCase": strcase.ToCamel,
		"snakeCase":  strcase.ToSnake,
		"kebabCase":  strcase.ToKebab,
		"lower":      strings.ToLower,
		"upper":      strings.ToUpper,
		"replace":    strings.ReplaceAll,
		"hasPrefix":  strings.HasPrefix,
		"hasSuffix":  strings.HasSuffix,
		"join":       joinAny,
		"quote":      strconv.Quote,
		"indent":     indent,
		"enumUnion":  enumUnion,

		"propertyName": propertyName,

		// rebound per render
		"include":       func(string, any) (string, error) { return "", nil },
		"tsType":        func(map[string]any) string { return "" },
		"extendsClause": func(map[string]any) string { return "" },
		"isKnown":       func(map[string]any) bool { return false },
	}
}

// modelFuncs binds the helpers that need to know which types the model
// declares. References to other types render as any.
func modelFuncs(t *template.Template, m *model.Model) template.FuncMap {
	tf := &typeFormatter{m: m}
	return template.FuncMap{
		"include": func(name string, data any) (string, error) {
			var buf bytes.Buffer
			if err := t.ExecuteTemplate(&buf, name, data); err != nil {
				return "", err
			}
			return buf.String(), nil
		},
		"tsType":        tf.tsType,
		"extendsClause": tf.extendsClause,
		"isKnown":       tf.known,
	}
}

type typeFormatter struct {
	m *model.Model
}

func (tf *typeFormatter) known(ref map[string]any) bool {
	if ref == nil || tf.m == nil {
		return false
	}
	_, ok := tf.m.Lookup(str(ref, "fullName"))
	return ok
}

func (tf *typeFormatter) tsType(ref map[string]any) string {
	if ref == nil {
		return "any"
	}
	if flag(ref, "isCollection") {
		elem := tf.tsType(sub(ref, "elementType"))
		if !flag(ref, "isOrdered") {
			return "Set<" + elem + ">"
		}
		if strings.ContainsAny(elem, " |") {
			return "(" + elem + ")[]"
		}
		return elem + "[]"
	}

	name, fullName := str(ref, "name"), str(ref, "fullName")
	switch {
	case substituted(name, fullName):
		return name
	case tf.known(ref):
		if flag(ref, "isSamePackage") {
			return name
		}
		return qualify(fullName)
	}
	if ts, ok := primitives[fullName]; ok {
		return ts
	}
	return "any"
}

// extendsClause lists supertypes that have a declaration to point at.
func (tf *typeFormatter) extendsClause(dt map[string]any) string {
	var names []string
	for _, key := range []string{"extends", "implements"} {
		refs, _ := dt[key].([]any)
		for _, r := range refs {
			ref, _ := r.(map[string]any)
			if name := tf.supertype(ref); name != "" {
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		return ""
	}
	return " extends " + strings.Join(names, ", ")
}

func (tf *typeFormatter) supertype(ref map[string]any) string {
	if ref == nil {
		return ""
	}
	if flag(ref, "isCollection") {
		elem := tf.tsType(sub(ref, "elementType"))
		if flag(ref, "isOrdered") {
			return "Array<" + elem + ">"
		}
		return "Set<" + elem + ">"
	}
	name, fullName := str(ref, "name"), str(ref, "fullName")
	switch {
	case substituted(name, fullName):
		if name == "any" {
			return ""
		}
		return name
	case tf.known(ref):
		if flag(ref, "isSamePackage") {
			return name
		}
		return qualify(fullName)
	}
	return ""
}

func substituted(name, fullName string) bool {
	return name != fullName[strings.LastIndexByte(fullName, '.')+1:]
}

func qualify(fullName string) string {
	return strings.ReplaceAll(fullName, "$", ".")
}

func propertyName(name string) string {
	if identifier.MatchString(name) {
		return name
	}
	return strconv.Quote(name)
}

func enumUnion(constants []any) string {
	if len(constants) == 0 {
		return "never"
	}
	parts := make([]string, len(constants))
	for i, c := range constants {
		s, _ := c.(string)
		parts[i] = strconv.Quote(s)
	}
	return strings.Join(parts, " | ")
}

func indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

func joinAny(sep string, items []any) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case string:
			parts = append(parts, v)
		case map[string]any:
			parts = append(parts, str(v, "name"))
		}
	}
	return strings.Join(parts, sep)
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func flag(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func sub(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}
