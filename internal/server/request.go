package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/takeaways/internal/ingestion"
	"github.com/jonathan/takeaways/internal/llm"
	"github.com/jonathan/takeaways/internal/pipeline"
	"github.com/jonathan/takeaways/internal/server/middleware"
	"github.com/jonathan/takeaways/internal/types"
)

const fileField = "file"

// decodeGenerate reads a JSON or multipart generation request.
func (s *Server) decodeGenerate(w http.ResponseWriter, r *http.Request) (*types.GenerateRequest, *ingestion.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var (
		req    types.GenerateRequest
		upload *ingestion.Upload
		err    error
	)
	switch mediaType {
	case "multipart/form-data":
		upload, err = s.decodeMultipart(r, &req)
	default:
		err = decodeJSON(r.Body, &req)
	}
	if err != nil {
		return nil, nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, nil, validationError(err)
	}
	if upload == nil && req.FileName != "" {
		upload = &ingestion.Upload{Name: req.FileName, Data: []byte(req.FileContent)}
	}
	return &req, upload, nil
}

func decodeJSON(body io.Reader, v any) error {
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return &RequestError{Message: "request body is too large"}
		}
		return &RequestError{Message: "invalid request body: " + err.Error()}
	}
	return nil
}

func (s *Server) decodeMultipart(r *http.Request, req *types.GenerateRequest) (*ingestion.Upload, error) {
	if err := r.ParseMultipartForm(s.cfg.Server.MaxUploadBytes); err != nil {
		return nil, &RequestError{Message: "invalid multipart form: " + err.Error()}
	}

	req.URL = r.FormValue("url")
	req.Task = r.FormValue("task")
	req.CustomPrompt = r.FormValue("custom_prompt")
	req.Language = r.FormValue("language")
	req.CustomLanguage = r.FormValue("custom_language")
	req.Model = r.FormValue("model")
	req.APIKey = r.FormValue("api_key")
	if v := strings.TrimSpace(r.FormValue("chunk_size")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, &RequestError{Field: "chunk_size", Message: "must be an integer"}
		}
		req.ChunkSize = n
	}

	file, header, err := r.FormFile(fileField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, &RequestError{Field: fileField, Message: err.Error()}
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &RequestError{Field: fileField, Message: "could not be read"}
	}
	return &ingestion.Upload{Name: header.Filename, Data: data}, nil
}

func validationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &RequestError{Field: ve.Field(), Message: fmt.Sprintf("failed %s validation", ve.Tag())}
	}
	return &RequestError{Message: err.Error()}
}

// pipelineRequest maps the API request onto a run.
func pipelineRequest(req *types.GenerateRequest, upload *ingestion.Upload) pipeline.Request {
	return pipeline.Request{
		Source:         ingestion.Source{URL: req.URL, File: upload},
		Task:           req.Task,
		CustomPrompt:   req.CustomPrompt,
		Language:       req.Language,
		CustomLanguage: req.CustomLanguage,
		Model:          req.Model,
		ChunkSize:      req.ChunkSize,
	}
}

// credentials prefers a key sent with the request over the session's key.
func credentials(r *http.Request, req *types.GenerateRequest) llm.Credentials {
	if key := strings.TrimSpace(req.APIKey); key != "" {
		return llm.Credentials{APIKey: key}
	}
	creds, _ := middleware.Credentials(r)
	return creds
}
