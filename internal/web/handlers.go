package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"StartupPredictor/internal/domain"
	"StartupPredictor/internal/features"
	"StartupPredictor/internal/infrastructure/export"
	"StartupPredictor/internal/render"
	"StartupPredictor/internal/usecase"
)

const (
	fieldSelect = "select"
	fieldAction = "action"
	fieldFile   = "file"
	actionReset = "reset"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "index.html", nil)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) handleManualForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "manual.html", newManualPage(features.NewForm()))
}

func (s *Server) handleManualSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		page := newManualPage(features.NewForm())
		page.Result, page.IsError = render.Error(err), true
		s.render(w, http.StatusBadRequest, "manual.html", page)
		return
	}

	form := features.FormFromInput(manualInputFromRequest(r))

	if sel := r.PostForm.Get(fieldSelect); sel != "" {
		group, choice, _ := strings.Cut(sel, ":")
		err := form.SelectExclusive(group, choice)
		page := newManualPage(form)
		if err != nil {
			page.Result, page.IsError = render.Error(err), true
			s.render(w, http.StatusBadRequest, "manual.html", page)
			return
		}
		s.render(w, http.StatusOK, "manual.html", page)
		return
	}

	if r.PostForm.Get(fieldAction) == actionReset {
		form.Reset()
		s.render(w, http.StatusOK, "manual.html", newManualPage(form))
		return
	}

	page := newManualPage(form)
	outcome, err := s.session(r).SubmitManual(r.Context(), form.Input())
	if err != nil {
		page.Result, page.IsError = render.Error(err), true
		s.render(w, statusFor(err), "manual.html", page)
		return
	}
	page.Result = render.Prediction(outcome.Result)
	s.render(w, http.StatusOK, "manual.html", page)
}

func (s *Server) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "upload.html", uploadPage{Formats: s.exporters.Formats()})
}

func (s *Server) handleUploadSubmit(w http.ResponseWriter, r *http.Request) {
	page := uploadPage{Formats: s.exporters.Formats()}

	if r.ContentLength > s.opts.MaxUploadBytes {
		page.Error = render.Error(fmt.Errorf("upload exceeds %d bytes", s.opts.MaxUploadBytes))
		s.render(w, http.StatusRequestEntityTooLarge, "upload.html", page)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		page.Error = render.Error(err)
		s.render(w, status, "upload.html", page)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	var (
		reader   io.Reader
		fileName string
	)
	file, header, err := r.FormFile(fieldFile)
	switch {
	case err == nil:
		defer file.Close()
		reader, fileName = file, header.Filename
	case !errors.Is(err, http.ErrMissingFile):
		page.Error = render.Error(err)
		s.render(w, http.StatusBadRequest, "upload.html", page)
		return
	}

	batch, err := s.session(r).SubmitBatch(r.Context(), fileName, reader)
	if err != nil {
		page.Error = render.Error(err)
		s.render(w, statusFor(err), "upload.html", page)
		return
	}

	page.FileName = batch.FileName
	page.Table = render.BatchTable(batch)
	page.Summary = render.Summarize(batch).String()
	page.BatchID = batch.ID
	s.render(w, http.StatusOK, "upload.html", page)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	exporter, err := s.exporters.Resolve(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := s.session(r).ExportBatch(&buf, chi.URLParam(r, "id"), exporter); err != nil {
		if errors.Is(err, domain.ErrNoBatch) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.logger.Error("export batch", "format", exporter.Format(), "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": export.FileName(exporter.Format()),
	}))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	page := historyPage{Enabled: s.service.HistoryEnabled()}
	records, err := s.service.History(r.Context(), s.opts.HistoryLimit)
	if err != nil {
		s.logger.Error("load history", "error", err)
		page.Error = render.Error(err)
		s.render(w, http.StatusInternalServerError, "history.html", page)
		return
	}
	page.Records = records
	s.render(w, http.StatusOK, "history.html", page)
}

// session returns the submission state of the requesting client.
func (s *Server) session(r *http.Request) *usecase.Session {
	return s.service.Session(sessionKey(r.Context()))
}

func manualInputFromRequest(r *http.Request) domain.ManualInput {
	input := domain.ManualInput{
		Numeric:    make(map[string]string, len(domain.NumericFeatures)),
		Selections: make(map[string]string, len(domain.Groups)),
	}
	for _, name := range domain.NumericFeatures {
		input.Numeric[name] = r.PostForm.Get(name)
	}
	for _, g := range domain.Groups {
		if v := r.PostForm.Get(g.Name); v != "" {
			input.Selections[g.Name] = v
		}
	}
	return input
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSubmissionInFlight):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoFileSelected):
		return http.StatusBadRequest
	case render.IsRequestFailure(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
