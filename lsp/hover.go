package lsp

import (
	"strings"

	"github.com/dhamidi/kt2ts/model"
	"github.com/dhamidi/kt2ts/render"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	st := s.current()
	if st == nil {
		return nil, nil
	}
	text, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	offset := params.Position.IndexIn(text)
	start, end := wordAt(text, offset)
	if start == end {
		return nil, nil
	}
	dt := st.lookup(text[start:end])
	if dt == nil {
		return nil, nil
	}

	decl, err := st.renderer.RenderDataType(st.model, dt)
	if err != nil {
		// custom templates need not define a datatype block
		if decl, err = render.Default().RenderDataType(st.model, dt); err != nil {
			log.Warningf("hover on %s: %s", dt.FullName, err)
			return nil, nil
		}
	}

	line := params.Position.Line
	col := params.Position.Character - protocol.UInteger(offset-start)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: "**" + dt.FullName + "**\n\n```typescript\n" + decl + "\n```",
		},
		Range: &protocol.Range{
			Start: protocol.Position{Line: line, Character: col},
			End:   protocol.Position{Line: line, Character: col + protocol.UInteger(end-start)},
		},
	}, nil
}

// lookup resolves a possibly qualified identifier to a data type. Qualified
// names may use '.' for nesting as rendered declarations do.
func (st *state) lookup(word string) *model.DataType {
	word = strings.Trim(word, ".")
	if word == "" {
		return nil
	}
	if dt, ok := st.model.Lookup(word); ok {
		return dt
	}
	for _, dt := range st.model.DataTypes() {
		if strings.ReplaceAll(dt.FullName, "$", ".") == word {
			return dt
		}
	}
	simple := word[strings.LastIndex(word, ".")+1:]
	for _, dt := range st.model.DataTypes() {
		if dt.Name == simple {
			return dt
		}
	}
	return nil
}

// wordAt returns the bounds of the dotted identifier around offset.
func wordAt(text string, offset int) (int, int) {
	if offset < 0 || offset > len(text) {
		return 0, 0
	}
	start, end := offset, offset
	for start > 0 && isIdentifierByte(text[start-1]) {
		start--
	}
	for end < len(text) && isIdentifierByte(text[end]) {
		end++
	}
	return start, end
}

func isIdentifierByte(c byte) bool {
	return c == '_' || c == '$' || c == '.' ||
		c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
