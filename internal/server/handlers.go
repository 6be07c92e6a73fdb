package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/takeaways/internal/llm"
	"github.com/jonathan/takeaways/internal/pipeline"
	"github.com/jonathan/takeaways/internal/prompts"
	"github.com/jonathan/takeaways/internal/server/middleware"
	"github.com/jonathan/takeaways/internal/session"
	"github.com/jonathan/takeaways/internal/types"
)

// handleCatalog lists the tasks, languages and models of the active profile
func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	p := s.profile
	resp := types.CatalogResponse{
		Profile:             p.Name,
		DefaultTask:         p.DefaultTask,
		AllowCustomPrompt:   p.AllowCustomPrompt,
		DefaultLanguage:     p.DefaultLanguage,
		AllowCustomLanguage: p.AllowCustomLanguage,
		DefaultModel:        p.DefaultModel,
		ChunkSizeSource:     p.ChunkSizeSource,
		RequiresAPIKey:      p.RequiresCredential(),
	}

	tasks, err := prompts.Tasks()
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	for _, t := range tasks {
		if p.AllowsTask(t.Key) {
			resp.Tasks = append(resp.Tasks, types.CatalogTask{Key: t.Key, Label: t.Label, Template: t.Template.String()})
		}
	}

	if len(p.Languages) > 0 {
		resp.Languages = append(resp.Languages, p.Languages...)
		if p.AllowCustomLanguage {
			resp.Languages = append(resp.Languages, prompts.CustomLanguage)
		}
	}

	for _, name := range p.Models {
		m, err := llm.LookupModel(name)
		if err != nil {
			continue
		}
		resp.Models = append(resp.Models, types.CatalogModel{
			Name:      m.Name,
			Label:     m.Label,
			Provider:  string(m.Provider),
			MaxTokens: m.MaxTokens,
		})
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleStartSession stores an API key for the caller's session
func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		s.jsonResponse(w, http.StatusNotFound, types.ErrorResponse{Error: "not_found", Message: "Sessions are disabled."})
		return
	}

	var req types.SessionRequest
	if err := decodeJSON(http.MaxBytesReader(w, r.Body, 4096), &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, validationError(err))
		return
	}

	creds := llm.Credentials{APIKey: req.APIKey}
	token, expiresAt, err := s.sessions.Start(creds)
	if err != nil {
		if errors.Is(err, session.ErrEmptyKey) {
			s.errorResponse(w, &RequestError{Field: "api_key", Message: "is empty"})
			return
		}
		s.errorResponse(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Info("session started", zap.String("key", creds.Redacted()))
	s.jsonResponse(w, http.StatusCreated, types.SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Key:       creds.Redacted(),
	})
}

// handleEndSession forgets the caller's API key
func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if s.sessions != nil {
		if token := middleware.Token(r, s.cfg.Session.CookieName); token != "" {
			s.sessions.End(token)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

// handleGenerate runs a generation and returns the combined output
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, upload, err := s.decodeGenerate(w, r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	result, err := s.runner.Run(r.Context(), pipelineRequest(req, upload), credentials(r, req))
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.results.Add(result.RunID, result)
	s.jsonResponse(w, http.StatusOK, generateResponse(result))
}

// handleGenerateStream runs a generation and streams progress via SSE
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	req, upload, err := s.decodeGenerate(w, r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	preq := pipelineRequest(req, upload)
	preq.OnProgress = func(ev pipeline.ProgressEvent) {
		if err := sse.WriteEvent("progress", ev); err != nil {
			// client went away; stop calling the model
			cancel()
		}
	}

	result, err := s.runner.Run(ctx, preq, credentials(r, req))
	if err != nil {
		s.logger.Info("streamed generation failed", zap.Error(err))
		sse.WriteError(errorBody(err))
		return
	}

	s.results.Add(result.RunID, result)
	sse.WriteComplete(generateResponse(result))
}

// handleResult returns a retained result
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	result, ok := s.results.Get(r.PathValue("id"))
	if !ok {
		s.jsonResponse(w, http.StatusNotFound, types.ErrorResponse{Error: "not_found", Message: "Result not found or expired."})
		return
	}
	s.jsonResponse(w, http.StatusOK, generateResponse(result))
}

// handleDownload serves a retained output as a plain text attachment
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	result, ok := s.results.Get(r.PathValue("id"))
	if !ok {
		s.jsonResponse(w, http.StatusNotFound, types.ErrorResponse{Error: "not_found", Message: "Result not found or expired."})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="output.txt"`)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(result.Output)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(result.Output)); err != nil {
		s.logger.Warn("failed to write download", zap.Error(err))
	}
}

func generateResponse(result *pipeline.Result) types.GenerateResponse {
	return types.GenerateResponse{
		RunID:       result.RunID,
		Output:      result.Output,
		Chunks:      result.Chunks,
		ChunkSize:   result.ChunkSize,
		Model:       result.Model,
		Task:        result.Task,
		Language:    result.Language,
		Metadata:    result.Metadata,
		DurationMS:  result.Duration.Milliseconds(),
		DownloadURL: "/results/" + result.RunID + "/output.txt",
	}
}
