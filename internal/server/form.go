package server

import (
	"bytes"
	_ "embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/sozercan/impact-analyzer/internal/analyzer"
)

//go:embed templates/index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

type formPage struct {
	Title       string
	Description string
	Situation   string
	Output      string
	Failed      bool
	Examples    []string
}

func newFormPage(situation string) formPage {
	return formPage{
		Title:       "Business Impact Analyzer",
		Description: "Analyze business situations for their causes and impacts.",
		Situation:   situation,
		Examples:    Examples,
	}
}

// handleForm renders the empty form. ?situation= prefills the input, which is
// how the example links work.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	renderForm(w, http.StatusOK, newFormPage(r.URL.Query().Get("situation")))
}

func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	page := newFormPage(r.PostForm.Get("situation"))
	result, err := s.analyzer.Analyze(r.Context(), analyzer.Request{Situation: page.Situation})
	if err != nil {
		slog.Error("Form analysis failed", "error", err)
		page.Output = analyzer.DisplayMessage(err)
		page.Failed = true
		renderForm(w, statusFor(err), page)
		return
	}

	page.Output = result.Text()
	renderForm(w, http.StatusOK, page)
}

func renderForm(w http.ResponseWriter, status int, page formPage) {
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, page); err != nil {
		slog.Error("Failed to render form", "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
