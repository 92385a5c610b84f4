// Package highlight renders source code into standalone, syntax-highlighted
// HTML documents using chroma.
//
// The set of languages and styles a snippet may use is discovered from
// chroma's registries once per process (see Default) and kept as two sorted,
// read-only tables. Everything else in the application validates against
// those tables, so a Render call only fails on an unknown identifier when a
// caller skipped validation.
package highlight

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"sort"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	DefaultLanguage = "python"
	DefaultStyle    = "friendly"
)

var (
	ErrUnknownLanguage = errors.New("highlight: unknown language")
	ErrUnknownStyle    = errors.New("highlight: unknown style")
)

// Choice is one selectable value: ID is what gets stored, Name is what gets shown.
type Choice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Options describes one render.
type Options struct {
	Code        string
	Language    string
	Style       string
	Title       string // omitted from the document when empty
	LineNumbers bool   // line numbers laid out in a table
}

// Registry holds the language and style tables plus the lexer for each
// language id. It is immutable after construction and safe for concurrent use.
type Registry struct {
	languages []Choice
	styles    []Choice
	lexers    map[string]chroma.Lexer
	styleSet  map[string]*chroma.Style
}

var defaultRegistry = sync.OnceValue(NewRegistry)

// Default returns the process-wide registry, building it on first use.
func Default() *Registry {
	return defaultRegistry()
}

// NewRegistry scans chroma's lexer and style registries.
//
// Each lexer contributes one language keyed by its first alias; lexers with
// no aliases cannot be selected by name and are skipped, as are later lexers
// whose first alias is already taken. Languages are ordered by display name,
// styles alphabetically.
func NewRegistry() *Registry {
	r := &Registry{
		lexers:   make(map[string]chroma.Lexer),
		styleSet: make(map[string]*chroma.Style),
	}

	for _, lexer := range lexers.GlobalLexerRegistry.Lexers {
		cfg := lexer.Config()
		if cfg == nil || len(cfg.Aliases) == 0 {
			continue
		}
		id := cfg.Aliases[0]
		if _, dup := r.lexers[id]; dup {
			continue
		}
		r.lexers[id] = lexer
		r.languages = append(r.languages, Choice{ID: id, Name: cfg.Name})
	}
	sort.Slice(r.languages, func(i, j int) bool {
		a, b := r.languages[i], r.languages[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})

	for name, style := range styles.Registry {
		r.styleSet[name] = style
		r.styles = append(r.styles, Choice{ID: name, Name: name})
	}
	sort.Slice(r.styles, func(i, j int) bool { return r.styles[i].ID < r.styles[j].ID })

	return r
}

// Languages returns a copy of the language table.
func (r *Registry) Languages() []Choice {
	return append([]Choice(nil), r.languages...)
}

// Styles returns a copy of the style table.
func (r *Registry) Styles() []Choice {
	return append([]Choice(nil), r.styles...)
}

func (r *Registry) HasLanguage(id string) bool {
	_, ok := r.lexers[id]
	return ok
}

func (r *Registry) HasStyle(id string) bool {
	_, ok := r.styleSet[id]
	return ok
}

// Render tokenises opts.Code with the language's lexer and returns a full
// HTML document: doctype, a <style> block for the chosen theme, an optional
// title, and the highlighted code.
func (r *Registry) Render(opts Options) (string, error) {
	lexer, ok := r.lexers[opts.Language]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, opts.Language)
	}
	style, ok := r.styleSet[opts.Style]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, opts.Style)
	}

	formatter := html.New(
		html.WithClasses(true),
		html.WithLineNumbers(opts.LineNumbers),
		html.LineNumbersInTable(opts.LineNumbers),
		html.TabWidth(4),
	)

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, opts.Code)
	if err != nil {
		return "", fmt.Errorf("highlight: tokenising %s: %w", opts.Language, err)
	}

	var body, css bytes.Buffer
	if err := formatter.Format(&body, style, iterator); err != nil {
		return "", fmt.Errorf("highlight: formatting: %w", err)
	}
	if err := formatter.WriteCSS(&css, style); err != nil {
		return "", fmt.Errorf("highlight: writing css: %w", err)
	}

	var doc bytes.Buffer
	err = documentTemplate.Execute(&doc, documentData{
		Title: opts.Title,
		CSS:   template.CSS(css.String()),
		Body:  template.HTML(body.String()),
	})
	if err != nil {
		return "", fmt.Errorf("highlight: building document: %w", err)
	}
	return doc.String(), nil
}

type documentData struct {
	Title string
	CSS   template.CSS
	Body  template.HTML
}

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
{{- if .Title}}
<title>{{.Title}}</title>
{{- end}}
<meta http-equiv="content-type" content="text/html; charset=utf-8">
<style type="text/css">
{{.CSS}}
</style>
</head>
<body>
{{- if .Title}}
<h2>{{.Title}}</h2>
{{- end}}
{{.Body}}
</body>
</html>
`))
