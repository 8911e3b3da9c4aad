package handlers

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// pageTemplates is the parsed set of all page templates (layout, index, result, stories, story).
var pageTemplates = mustParseTemplates()

var templateFuncs = template.FuncMap{
	"toJSON": toJSON,
}

func mustParseTemplates() *template.Template {
	t, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		panic("parse templates: " + err.Error())
	}
	return t
}

// executeTemplateToBytes renders the named template into memory so a failed
// render never leaves a half-written page.
func executeTemplateToBytes(name string, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPage(w http.ResponseWriter, name string, data interface{}) {
	body, err := executeTemplateToBytes(name, data)
	if err != nil {
		log.Error().Err(err).Str("template", name).Msg("Failed to render page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// toJSON encodes v for a hidden form field; lists are never encoded as null.
func toJSON(v interface{}) (string, error) {
	if s, ok := v.([]string); ok && s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
