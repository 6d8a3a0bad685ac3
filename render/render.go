// Package render turns a model into declaration text with text/template.
// Templates receive the plain map form of the model.
package render

import (
	"bytes"
	"embed"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
	"github.com/dhamidi/kt2ts/model"
	"github.com/tliron/commonlog"
)

const (
	DefaultTemplateName = "declarations.d.ts.tmpl"
	templateExt         = ".tmpl"

	// DataTypeTemplate is the named template used for a single declaration.
	DataTypeTemplate = "datatype"
)

//go:embed templates/*.tmpl
var embedded embed.FS

var log = commonlog.GetLogger("kt2ts.render")

// ErrTemplateNotFound marks a configured template directory that lacks the
// requested template.
var ErrTemplateNotFound = errors.New("template not found")

type Renderer struct {
	name string
	tmpl *template.Template
}

// Default returns the renderer for the embedded declaration template.
func Default() *Renderer {
	data, err := embedded.ReadFile("templates/" + DefaultTemplateName)
	if err != nil {
		panic("render: embedded template missing: " + err.Error())
	}
	r, err := Parse(DefaultTemplateName, string(data))
	if err != nil {
		panic("render: embedded template invalid: " + err.Error())
	}
	return r
}

func Parse(name, text string) (*Renderer, error) {
	tmpl, err := template.New(name).Funcs(baseFuncs()).Parse(text)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse template %s", name)
	}
	return &Renderer{name: name, tmpl: tmpl}, nil
}

// Load reads name from dir, with or without its .tmpl extension. An empty
// dir selects the embedded default; a dir without the template is an error.
func Load(dir, name string) (*Renderer, error) {
	if name == "" {
		name = DefaultTemplateName
	}
	if dir == "" {
		return Default(), nil
	}
	candidates := []string{name}
	if !strings.HasSuffix(name, templateExt) {
		candidates = append(candidates, name+templateExt)
	}
	for _, c := range candidates {
		path := filepath.Join(dir, c)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read template %s", path)
		}
		log.Infof("using template %s", path)
		return Parse(c, string(data))
	}
	return nil, errors.WithHint(
		errors.Mark(errors.Newf("template %s not found in %s", name, dir), ErrTemplateNotFound),
		"check templateDir and templateFileName, or leave templateDir empty to use the built-in template",
	)
}

func (r *Renderer) Name() string {
	return r.name
}

func (r *Renderer) bind(m *model.Model) (*template.Template, error) {
	t, err := r.tmpl.Clone()
	if err != nil {
		return nil, errors.Wrap(err, "failed to clone template")
	}
	return t.Funcs(modelFuncs(t, m)), nil
}

// Render executes the template against the whole model.
func (r *Renderer) Render(m *model.Model) (string, error) {
	t, err := r.bind(m)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, m.ToMap()); err != nil {
		return "", errors.Wrapf(err, "failed to render %s", r.name)
	}
	return buf.String(), nil
}

// RenderDataType renders one declaration with the "datatype" template.
func (r *Renderer) RenderDataType(m *model.Model, dt *model.DataType) (string, error) {
	t, err := r.bind(m)
	if err != nil {
		return "", err
	}
	if t.Lookup(DataTypeTemplate) == nil {
		return "", errors.Newf("template %s does not define %q", r.name, DataTypeTemplate)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, DataTypeTemplate, dt.ToMap()); err != nil {
		return "", errors.Wrapf(err, "failed to render %s", dt.FullName)
	}
	return buf.String(), nil
}
