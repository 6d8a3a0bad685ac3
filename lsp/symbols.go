package lsp

import (
	"strings"

	"github.com/dhamidi/kt2ts/model"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// indexDeclarations finds where each declaration and property sits in
// rendered output. Keys are data type fullNames, and fullName + "." +
// property for properties. Text produced by a custom template that does not
// follow the default layout simply yields fewer entries.
func indexDeclarations(text string) map[string]protocol.Range {
	index := map[string]protocol.Range{}
	namespace, current := "", ""
	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		indent := len(line) - len(strings.TrimLeft(line, " \t"))

		if rest, ok := strings.CutPrefix(trimmed, "declare namespace "); ok {
			namespace = strings.TrimSpace(strings.TrimSuffix(rest, "{"))
			current = ""
			continue
		}
		if line == "}" {
			namespace, current = "", ""
			continue
		}

		decl := strings.TrimPrefix(trimmed, "declare ")
		for _, keyword := range []string{"interface ", "type "} {
			rest, ok := strings.CutPrefix(decl, keyword)
			if !ok {
				continue
			}
			name := leadingIdentifier(rest)
			if name == "" {
				break
			}
			current = name
			if namespace != "" {
				current = namespace + "." + name
			}
			col := indent + len(trimmed) - len(decl) + len(keyword)
			index[current] = lineRange(i, col, len(name))
			break
		}
		if current == "" || !strings.HasSuffix(trimmed, ";") {
			continue
		}
		prop, _, ok := strings.Cut(trimmed, ":")
		if !ok || strings.ContainsAny(prop, " =") {
			continue
		}
		name := strings.Trim(prop, `"`)
		col := indent + strings.Index(trimmed, name)
		index[current+"."+name] = lineRange(i, col, len(name))
	}
	return index
}

func leadingIdentifier(s string) string {
	end := 0
	for end < len(s) && isIdentifierByte(s[end]) && s[end] != '.' {
		end++
	}
	return s[:end]
}

func lineRange(line, col, length int) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)},
		End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col + length)},
	}
}

func (s *Server) workspaceSymbol(ctx *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	st := s.current()
	if st == nil {
		return nil, nil
	}
	return st.symbols(params.Query), nil
}

// symbols matches query case-insensitively against simple and full names.
// An empty query lists everything.
func (st *state) symbols(query string) []protocol.SymbolInformation {
	query = strings.ToLower(query)
	matches := func(names ...string) bool {
		for _, n := range names {
			if strings.Contains(strings.ToLower(n), query) {
				return true
			}
		}
		return false
	}

	var out []protocol.SymbolInformation
	for _, dt := range st.model.DataTypes() {
		if matches(dt.Name, dt.FullName) {
			var container *string
			if dt.Package != "" {
				pkg := dt.Package
				container = &pkg
			}
			out = append(out, protocol.SymbolInformation{
				Name:          dt.Name,
				Kind:          symbolKind(dt),
				Location:      st.location(dt.FullName),
				ContainerName: container,
			})
		}
		for _, p := range dt.Properties {
			if !matches(p.Name) {
				continue
			}
			owner := dt.FullName
			out = append(out, protocol.SymbolInformation{
				Name:          p.Name,
				Kind:          protocol.SymbolKindProperty,
				Location:      st.location(dt.FullName + "." + p.Name),
				ContainerName: &owner,
			})
		}
	}
	return out
}

func (st *state) location(key string) protocol.Location {
	return protocol.Location{URI: st.outputURI, Range: st.index[key]}
}

func symbolKind(dt *model.DataType) protocol.SymbolKind {
	switch {
	case dt.IsEnum:
		return protocol.SymbolKindEnum
	case dt.IsInterface:
		return protocol.SymbolKindInterface
	default:
		return protocol.SymbolKindClass
	}
}
