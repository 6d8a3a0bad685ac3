package extract

import (
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/cockroachdb/errors"
)

// TypeMapping substitutes target names for source fullNames.
type TypeMapping map[string]string

// DefaultTypeMapping covers the Kotlin names of the minimal primitive set
// and the JVM names they compile to.
func DefaultTypeMapping() TypeMapping {
	return TypeMapping{
		"kotlin.Any":     "any",
		"kotlin.String":  "string",
		"kotlin.Int":     "number",
		"kotlin.Float":   "number",
		"kotlin.Double":  "number",
		"kotlin.Boolean": "boolean",

		"java.lang.Object":  "any",
		"java.lang.String":  "string",
		"int":               "number",
		"float":             "number",
		"double":            "number",
		"java.lang.Integer": "number",
		"java.lang.Float":   "number",
		"java.lang.Double":  "number",
		"boolean":           "boolean",
		"java.lang.Boolean": "boolean",
	}
}

// Merge returns a new mapping with overrides applied on top of m.
func (m TypeMapping) Merge(overrides TypeMapping) TypeMapping {
	out := make(TypeMapping, len(m)+len(overrides))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Options is the immutable input of one extraction run.
type Options struct {
	Patterns    []string
	TypeMapping TypeMapping
	// CacheSize bounds the parsed classes Run keeps in memory. Zero uses
	// classpath.DefaultCacheSize.
	CacheSize int
}

func (o Options) mapping() TypeMapping {
	if o.TypeMapping == nil {
		return DefaultTypeMapping()
	}
	return o.TypeMapping
}

// Patterns selects classes by dotted name. A plain pattern such as
// "com.example" selects that package, its subpackages, or the class of
// that name. A pattern with glob characters is matched with doublestar
// against the slash separated name, so "com.example.*" selects the
// classes of one package and "com.example.**" the whole tree.
type Patterns struct {
	raw     []string
	entries []pattern
}

type pattern struct {
	text string
	glob string
}

func NewPatterns(patterns []string) *Patterns {
	p := &Patterns{raw: patterns}
	for _, pat := range patterns {
		pat = strings.TrimSpace(pat)
		if pat == "" {
			continue
		}
		if !isGlob(pat) {
			p.entries = append(p.entries, pattern{text: pat})
			continue
		}
		p.entries = append(p.entries, pattern{text: pat, glob: strings.ReplaceAll(pat, ".", "/")})
	}
	return p
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

func (p *Patterns) String() string {
	if len(p.entries) == 0 {
		return "<all>"
	}
	return strings.Join(p.raw, ", ")
}

// Match reports whether the class with the given internal name is selected.
// No patterns select everything. A malformed glob is an error.
func (p *Patterns) Match(internalName string) (bool, error) {
	if len(p.entries) == 0 {
		return true, nil
	}
	dotted := strings.ReplaceAll(internalName, "/", ".")
	for _, e := range p.entries {
		if e.glob != "" {
			ok, err := doublestar.Match(e.glob, internalName)
			if err != nil {
				return false, errors.Wrapf(err, "invalid class pattern %q", e.text)
			}
			if ok {
				return true, nil
			}
			continue
		}
		if dotted == e.text || strings.HasPrefix(dotted, e.text+".") {
			return true, nil
		}
	}
	return false, nil
}
