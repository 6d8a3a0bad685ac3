// Package lsp serves the extracted model to editors: workspace symbols for
// every data type and property, and hover with the rendered declaration.
package lsp

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/dhamidi/kt2ts/config"
	"github.com/dhamidi/kt2ts/generate"
	"github.com/dhamidi/kt2ts/model"
	"github.com/dhamidi/kt2ts/render"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const lsName = "kt2ts"

var log = commonlog.GetLogger("kt2ts.lsp")

type Server struct {
	handler    protocol.Handler
	server     *server.Server
	version    string
	configFile string

	mu      sync.RWMutex
	rootDir string
	state   *state
	docs    map[string]string
}

// state is one successful build. It is replaced whole, never mutated.
type state struct {
	config    *config.Config
	model     *model.Model
	renderer  *render.Renderer
	outputURI string
	index     map[string]protocol.Range
}

// NewServer creates a server. configFile may be empty, in which case the
// workspace root is searched for kt2ts.yaml and friends.
func NewServer(version, configFile string) *Server {
	s := &Server{
		version:    version,
		configFile: configFile,
		rootDir:    ".",
		docs:       map[string]string{},
	}

	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		WorkspaceSymbol:       s.workspaceSymbol,
		TextDocumentHover:     s.textDocumentHover,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
		TextDocumentDidSave:   s.textDocumentDidSave,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.mu.Lock()
	if params.RootPath != nil && *params.RootPath != "" {
		s.rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			s.rootDir = path
		}
	}
	s.mu.Unlock()

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(false),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := s.build(); err != nil {
		s.showError(ctx, err)
	}
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// build loads the configuration and extracts the model. The previous state
// stays in place when anything fails.
func (s *Server) build() error {
	s.mu.RLock()
	root := s.rootDir
	s.mu.RUnlock()

	path := s.configFile
	if path == "" {
		path = config.Find(root)
	}
	if path == "" {
		return errors.WithHint(
			errors.Mark(errors.Newf("no kt2ts configuration in %s", root), config.ErrInvalidConfig),
			"add a kt2ts.yaml with a classpath to the workspace root",
		)
	}
	v, err := config.NewViper(path)
	if err != nil {
		return err
	}
	c, err := config.LoadRelative(v, filepath.Dir(path))
	if err != nil {
		return err
	}

	gen := generate.New(c)
	result, err := gen.Extract()
	if err != nil {
		return err
	}
	r, err := gen.Renderer()
	if err != nil {
		return err
	}
	text, err := r.Render(result.Model)
	if err != nil {
		return errors.Wrap(err, "failed to render declarations")
	}

	target := c.OutputFile
	if target == "" {
		target = path
	}
	st := &state{
		config:    c,
		model:     result.Model,
		renderer:  r,
		outputURI: pathToURI(target),
		index:     indexDeclarations(text),
	}

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	log.Infof("model built from %s: %d data types", path, len(result.Model.DataTypes()))
	return nil
}

func (s *Server) current() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Server) showError(ctx *glsp.Context, err error) {
	log.Errorf("%s", err)
	if ctx == nil || ctx.Notify == nil {
		return
	}
	ctx.Notify(protocol.ServerWindowShowMessage, protocol.ShowMessageParams{
		Type:    protocol.MessageTypeError,
		Message: "kt2ts: " + err.Error(),
	})
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.mu.Lock()
	s.docs[params.TextDocument.URI] = params.TextDocument.Text
	s.mu.Unlock()
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		s.mu.Lock()
		s.docs[params.TextDocument.URI] = whole.Text
		s.mu.Unlock()
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	delete(s.docs, params.TextDocument.URI)
	s.mu.Unlock()
	return nil
}

// textDocumentDidSave rebuilds when a file the build depends on is saved.
func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if !s.affectsBuild(path) {
		return nil
	}
	log.Infof("%s saved, rebuilding", path)
	if err := s.build(); err != nil {
		s.showError(ctx, err)
	}
	return nil
}

func (s *Server) affectsBuild(path string) bool {
	base := filepath.Base(path)
	if strings.TrimSuffix(base, filepath.Ext(base)) == config.FileName {
		return true
	}
	st := s.current()
	if st == nil {
		return false
	}
	clean := filepath.Clean(path)
	if st.config.MappingFile != "" && filepath.Clean(st.config.MappingFile) == clean {
		return true
	}
	return st.config.TemplateDir != "" && filepath.Dir(clean) == filepath.Clean(st.config.TemplateDir)
}

// document returns the open text of uri, or its content on disk.
func (s *Server) document(uri string) (string, bool) {
	s.mu.RLock()
	text, ok := s.docs[uri]
	s.mu.RUnlock()
	if ok {
		return text, true
	}
	path, err := uriToPath(uri)
	if err != nil {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
