// Package extract builds the type model from compiled classes: it scans a
// classpath for classes selected by patterns, orders them supertypes first,
// and resolves their supertypes and properties into model references.
package extract

import (
	"github.com/dhamidi/kt2ts/classpath"
	"github.com/dhamidi/kt2ts/introspect"
	"github.com/tliron/commonlog"
)

// Extract scans cp and builds the model. Nothing is returned on failure.
func Extract(cp Classpath, opts Options) (*Result, error) {
	in := introspect.New(cp)
	classes, err := Scan(cp, in, NewPatterns(opts.Patterns))
	if err != nil {
		return nil, err
	}
	return Build(classes, in, opts.mapping())
}

// Run opens a class-loading scope over roots for the duration of one
// extraction and releases it on every exit path.
func Run(roots []classpath.Root, opts Options) (*Result, error) {
	loader, err := classpath.Open(roots, classpath.WithCacheSize(opts.CacheSize))
	if err != nil {
		return nil, err
	}
	defer commonlog.CallAndLogWarning(loader.Close, "close classpath", log)

	log.Infof("extraction run %s over %d roots", loader.ID, len(loader.Roots()))
	return Extract(loader, opts)
}
