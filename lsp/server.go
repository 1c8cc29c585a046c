// Package lsp is a language server for any language parsnip has a grammar
// for. It reparses a document on every change, publishes the parse errors
// as diagnostics and answers hover requests with the rules matched at the
// cursor.
package lsp

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/peg"
	"github.com/dhamidi/parsnip/tree"
)

const lsName = "parsnip"

var log = commonlog.GetLogger("parsnip.lsp")

// Grammar supplies the rules documents are parsed with. *config.Config is
// a Grammar.
type Grammar interface {
	Matcher() (peg.Matcher, error)
	Handler() (peg.Handler, error)
}

// Document is the outcome of the last parse of an open text document.
type Document struct {
	URI    string
	Input  *input.Buffer
	Result *peg.Result
	// Err is set if the parse was aborted.
	Err error
}

type Server struct {
	grammar Grammar
	matcher peg.Matcher
	version string

	mu   sync.Mutex
	docs map[string]*Document

	handler protocol.Handler
	server  *server.Server
}

// NewServer compiles the grammar once and prepares a server for it.
func NewServer(g Grammar, version string) (*Server, error) {
	m, err := g.Matcher()
	if err != nil {
		return nil, err
	}
	ls := &Server{
		grammar: g,
		matcher: m,
		version: version,
		docs:    map[string]*Document{},
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
		TextDocumentHover:     ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls, nil
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

// Update parses text as the new content of the document at uri.
func (ls *Server) Update(uri, text string) *Document {
	filename, err := uriToPath(uri)
	if err != nil {
		filename = uri
	}
	doc := &Document{URI: uri, Input: input.NewFileBuffer(filename, text)}

	h, err := ls.grammar.Handler()
	if err != nil {
		doc.Err = err
	} else {
		doc.Result, doc.Err = peg.Run(ls.matcher, doc.Input, peg.WithHandler(h))
	}
	if doc.Err != nil {
		log.Errorf("parse %s: %s", uri, doc.Err)
	} else if log.AllowLevel(commonlog.Debug) {
		log.Debugf("parsed %s: matched=%t errors=%d", uri, doc.Result.Matched, len(doc.Result.Errors))
	}

	ls.mu.Lock()
	ls.docs[uri] = doc
	ls.mu.Unlock()
	return doc
}

// Document returns the last parse of uri, or nil if it is not open.
func (ls *Server) Document(uri string) *Document {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.docs[uri]
}

func (ls *Server) close(uri string) {
	ls.mu.Lock()
	delete(ls.docs, uri)
	ls.mu.Unlock()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.HoverProvider = true

	log.Infof("initialized for %s", ls.matcher.Label())

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.publish(ctx, ls.Update(params.TextDocument.URI, params.TextDocument.Text))
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		ls.publish(ctx, ls.Update(params.TextDocument.URI, textChange.Text))
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.close(params.TextDocument.URI)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text == nil {
		return nil
	}
	ls.publish(ctx, ls.Update(params.TextDocument.URI, *params.Text))
	return nil
}

func (ls *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := ls.Document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return Hover(doc, params.Position), nil
}

func (ls *Server) publish(ctx *glsp.Context, doc *Document) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: Diagnostics(doc),
	})
}

// Diagnostics converts the errors of a parse into zero-width diagnostics.
// A document that fails to match without any recorded error gets one
// diagnostic where the parse stopped.
func Diagnostics(doc *Document) []protocol.Diagnostic {
	diags := []protocol.Diagnostic{}
	if doc.Err != nil {
		var rerr *peg.RuntimeError
		loc := input.At(0)
		if errors.As(doc.Err, &rerr) {
			loc = rerr.Location
		}
		return append(diags, diagnostic(doc.Input, loc, doc.Err.Error()))
	}
	if doc.Result == nil {
		return diags
	}
	for _, err := range doc.Result.Errors {
		diags = append(diags, diagnostic(doc.Input, err.Start, err.Message))
	}
	if !doc.Result.Matched && len(doc.Result.Errors) == 0 {
		diags = append(diags, diagnostic(doc.Input, doc.Result.End, "Input does not match"))
	}
	return diags
}

func diagnostic(buf *input.Buffer, loc input.Location, message string) protocol.Diagnostic {
	pos := position(buf, loc.Index)
	severity := protocol.DiagnosticSeverityError
	source := lsName
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: pos, End: pos},
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}
}

// Hover describes the rules that matched the character at pos, outermost
// first, for example "Expr/Term/number". It returns nil if no node covers
// pos.
func Hover(doc *Document, pos protocol.Position) *protocol.Hover {
	if doc.Result == nil || doc.Result.Root == nil {
		return nil
	}
	index := doc.Input.Index(int(pos.Line)+1, int(pos.Character)+1)
	chain := tree.At(doc.Result.Root, index)
	if len(chain) == 0 {
		return nil
	}

	labels := make([]string, len(chain))
	for i, n := range chain {
		labels[i] = n.Label()
	}
	text := strings.Join(labels, "/")
	inner := chain[len(chain)-1]
	if v := inner.Value(); v != nil {
		text += fmt.Sprintf(" = %v", v)
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindPlainText,
			Value: text,
		},
		Range: &protocol.Range{
			Start: position(doc.Input, inner.Start().Index),
			End:   position(doc.Input, inner.End().Index),
		},
	}
}

// position converts a character index into the zero-based line and
// character of the protocol. Characters are counted in runes.
func position(buf *input.Buffer, index int) protocol.Position {
	p := buf.Position(index)
	return protocol.Position{
		Line:      protocol.UInteger(p.Line - 1),
		Character: protocol.UInteger(p.Column - 1),
	}
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

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
