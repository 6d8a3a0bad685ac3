package extract

import (
	"path"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dhamidi/kt2ts/classfile"
	"github.com/dhamidi/kt2ts/classpath"
	"github.com/dhamidi/kt2ts/introspect"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("kt2ts.extract")

// Classpath is the class-loading scope the scanner enumerates.
type Classpath interface {
	Entries() []classpath.Entry
	Load(internalName string) (*classfile.ClassFile, error)
}

// Scan lists the classes selected by patterns, ordered so that every class
// comes after its supertypes. Unrelated classes keep classpath order.
func Scan(cp Classpath, in introspect.Introspector, patterns *Patterns) ([]*introspect.Class, error) {
	var matched []*introspect.Class
	for _, e := range cp.Entries() {
		if skipName(e.Name) {
			continue
		}
		ok, err := patterns.Match(e.Name)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		name := classfile.InternalToSourceName(e.Name)
		cf, err := cp.Load(e.Name)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "failed to read %s", name), ErrIntrospection)
		}
		c, err := introspect.FromClassFile(cf)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "failed to introspect %s", name), ErrIntrospection)
		}
		if c.IsSynthetic() || c.IsAnnotation() || cf.IsModule() {
			log.Debugf("skipping %s", name)
			continue
		}
		matched = append(matched, c)
	}

	if len(matched) == 0 {
		return nil, errors.WithHint(
			errors.Wrapf(ErrScan, "patterns: %s", patterns),
			"check the class patterns and that the classpath contains compiled classes",
		)
	}
	log.Infof("matched %d classes for patterns %s", len(matched), patterns)
	return order(matched, in), nil
}

// skipName filters nested, anonymous and local classes as well as
// module-info and package-info.
func skipName(internalName string) bool {
	if strings.Contains(internalName, "$") {
		return true
	}
	base := path.Base(internalName)
	return base == "module-info" || base == "package-info"
}

// order emits supertypes first with a depth-first walk in scan order.
// Supertypes outside the matched set are walked through the introspector
// so that a matched ancestor behind an unmatched one still comes first.
func order(classes []*introspect.Class, in introspect.Introspector) []*introspect.Class {
	byName := make(map[string]*introspect.Class, len(classes))
	for _, c := range classes {
		byName[c.Name] = c
	}

	const (
		visiting = 1
		done     = 2
	)
	state := map[string]int{}
	out := make([]*introspect.Class, 0, len(classes))

	var visit func(name string)
	visit = func(name string) {
		if state[name] != 0 {
			return
		}
		state[name] = visiting
		c, ok := byName[name]
		if !ok {
			var err error
			if c, err = in.Class(name); err != nil {
				state[name] = done
				return
			}
		}
		for _, st := range c.Supertypes() {
			visit(st.Name)
		}
		state[name] = done
		if ok {
			out = append(out, c)
		}
	}
	for _, c := range classes {
		visit(c.Name)
	}
	return out
}
