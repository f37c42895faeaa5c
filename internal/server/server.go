// Package server exposes the scoring engine over HTTP. The surface is one
// batch endpoint mirroring the upload-and-grade flow plus a health probe;
// everything interesting happens in the engine.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"grade_desk/internal/engine"
	"grade_desk/internal/ingest"
	"grade_desk/internal/prompts"
)

// maxUploadBytes caps one request's multipart payload.
const maxUploadBytes = 16 << 20

type Server struct {
	Engine *engine.Engine

	// Defaults applied when the request doesn't override them.
	PlagiarismThreshold float64
	GroupThreshold      float64
	MaxScore            int
	AssignmentTopic     string
	Difficulty          string
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/process_assignments", s.handleProcess).Methods("POST")
	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	return router
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("parsing upload: %v", err))
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "No files uploaded")
		return
	}

	batchID := uuid.NewString()
	documents := make(map[string]string, len(files))
	for _, fh := range files {
		if !ingest.Allowed(fh.Filename) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid file type: %s", fh.Filename))
			return
		}
		raw, err := readUpload(fh)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("reading %s: %v", fh.Filename, err))
			return
		}
		text, err := ingest.ExtractText(fh.Filename, raw)
		if err != nil {
			// Extraction failure is not fatal: the document enters the
			// batch with empty text and scores as low-information.
			log.Printf("batch=%s extract failed file=%s err=%v", batchID, fh.Filename, err)
			text = ""
		}
		documents[fh.Filename] = text
	}

	supplement := ""
	if ctxFiles := r.MultipartForm.File["context_pdf"]; len(ctxFiles) > 0 {
		fh := ctxFiles[0]
		if raw, err := readUpload(fh); err == nil {
			supplement = ingest.Extract(fh.Filename, raw)
		}
		if supplement == "" {
			log.Printf("batch=%s context extraction yielded no text file=%s", batchID, fh.Filename)
		}
	}

	description := r.FormValue("description")
	if description == "" {
		description = prompts.Description(s.AssignmentTopic, s.Difficulty)
	}

	batch := engine.Batch{
		Documents:            documents,
		PlagiarismThreshold:  formFloat(r, "plagiarism_threshold", s.PlagiarismThreshold),
		GroupThreshold:       formFloat(r, "group_threshold", s.GroupThreshold),
		Description:          description,
		SupplementaryContext: supplement,
		MaxScore:             formInt(r, "max_score", s.MaxScore),
	}

	log.Printf("batch=%s processing documents=%d", batchID, len(documents))
	report, err := s.Engine.Process(r.Context(), batch)
	if err != nil {
		log.Printf("batch=%s failed: %v", batchID, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	log.Printf("batch=%s done avg_plagiarism=%.2f", batchID, report.AveragePlagiarism)

	writeJSON(w, http.StatusOK, map[string]any{
		"overall_avg_plagiarism": report.AveragePlagiarism,
		"grading_results":        report.Results,
	})
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func formFloat(r *http.Request, key string, fallback float64) float64 {
	if v := r.FormValue(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func formInt(r *http.Request, key string, fallback int) int {
	if v := r.FormValue(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
