package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Priyanshu9898/MetaDoctorGeminiServices/internal/relay"
)

// maxFormMemory is how much of a multipart body is held in memory; the rest
// spills to disk and is removed by net/http when the request ends.
const maxFormMemory = 10 << 20

const (
	noImageMessage  = "No image file provided"
	tooLargeMessage = "Image exceeds the upload size limit"
)

type generateResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	var up relay.Upload
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: tooLargeMessage}, s.logger)
			return
		}
		// Anything else that is not a readable multipart form carries no image.
		s.logger.Debug("parse multipart form failed", "error", err)
	} else {
		up.MimeType = r.PostFormValue("mimeType")
		file, header, err := r.FormFile("image")
		if err == nil {
			defer closeWithLog(file, "upload file", s.logger)
			up.Image = file
			up.Filename = header.Filename
		}
	}

	text, err := s.relay.Generate(r.Context(), up)
	if errors.Is(err, relay.ErrNoImage) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: noImageMessage}, s.logger)
		return
	}
	if err != nil {
		s.logger.Error("generate failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{Response: text}, s.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.Error("write json response failed", "error", err)
	}
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
