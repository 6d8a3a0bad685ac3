// Package generate runs the whole pipeline for one configuration:
// extraction, rendering and writing the output file.
package generate

import (
	"github.com/cockroachdb/errors"
	"github.com/dhamidi/kt2ts/config"
	"github.com/dhamidi/kt2ts/extract"
	"github.com/dhamidi/kt2ts/render"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("kt2ts.generate")

type Generator struct {
	config *config.Config
}

// Outcome describes a finished run. Path is empty when the configuration
// names no output file; the caller then decides where Text goes.
type Outcome struct {
	Result  *extract.Result
	Text    string
	Path    string
	Written bool
}

func New(c *config.Config) *Generator {
	return &Generator{config: c}
}

func (g *Generator) Config() *config.Config {
	return g.config
}

// Extract builds the model without rendering it.
func (g *Generator) Extract() (*extract.Result, error) {
	if err := g.config.Validate(); err != nil {
		return nil, err
	}
	return extract.Run(g.config.Roots(), g.config.ExtractOptions())
}

// Renderer loads the configured template, falling back to the embedded one.
func (g *Generator) Renderer() (*render.Renderer, error) {
	return render.Load(g.config.TemplateDir, g.config.TemplateFileName)
}

// Run extracts, renders and writes. Nothing is written unless every
// earlier step succeeded.
func (g *Generator) Run() (*Outcome, error) {
	result, err := g.Extract()
	if err != nil {
		return nil, err
	}
	r, err := g.Renderer()
	if err != nil {
		return nil, err
	}
	text, err := r.Render(result.Model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render declarations")
	}

	out := &Outcome{Result: result, Text: text, Path: g.config.OutputFile}
	if out.Path == "" {
		return out, nil
	}
	out.Written, err = render.Write(text, out.Path, g.config.Overwrite)
	if err != nil {
		return nil, err
	}
	if out.Written {
		log.Noticef("generated %d declarations into %s", len(result.Model.DataTypes()), out.Path)
	} else {
		log.Noticef("%s already exists, not overwritten", out.Path)
	}
	return out, nil
}
