package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"grade_desk/internal/cache"
	"grade_desk/internal/cluster"
	"grade_desk/internal/engine"
	"grade_desk/internal/grading"
	"grade_desk/internal/oracle"
)

type stubOracle struct {
	response string
}

func (s *stubOracle) Grade(context.Context, oracle.Payload) (string, error) {
	return s.response, nil
}

func testServer(response string) *Server {
	return &Server{
		Engine: &engine.Engine{
			Coordinator: &grading.Coordinator{
				Oracle:  &stubOracle{response: response},
				Cache:   cache.NewMemory(),
				Timeout: time.Second,
			},
			Permutations: 128,
			GroupMode:    cluster.ModeSeedLink,
		},
		PlagiarismThreshold: 30,
		GroupThreshold:      0.8,
		MaxScore:            100,
		AssignmentTopic:     "Fraud Detection and AI",
		Difficulty:          "hard",
	}
}

type processResponse struct {
	OverallAvgPlagiarism float64                  `json:"overall_avg_plagiarism"`
	GradingResults       map[string]engine.Result `json:"grading_results"`
}

func multipartBody(t *testing.T, files map[string]string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestProcessAssignmentsEndToEnd(t *testing.T) {
	srv := testServer("Overall Grade: 80/100\nClear and relevant.")
	body, contentType := multipartBody(t, map[string]string{
		"one.txt": strings.Repeat("a study of tidal power generation along northern estuaries and its costs ", 10),
		"two.txt": strings.Repeat("an unrelated review of sourdough fermentation timing under varying room temperatures ", 10),
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/process_assignments", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp processResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.GradingResults) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.GradingResults))
	}
	for name, r := range resp.GradingResults {
		if r.Grade != 80 {
			t.Fatalf("expected grade 80 for %s, got %d", name, r.Grade)
		}
	}
}

func TestProcessAssignmentsNoFiles(t *testing.T) {
	srv := testServer("irrelevant")
	body, contentType := multipartBody(t, nil, map[string]string{"description": "x"})

	req := httptest.NewRequest(http.MethodPost, "/process_assignments", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No files uploaded") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestProcessAssignmentsRejectsBadExtension(t *testing.T) {
	srv := testServer("irrelevant")
	body, contentType := multipartBody(t, map[string]string{"malware.exe": "binary"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/process_assignments", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid file type") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestProcessAssignmentsThresholdOverride(t *testing.T) {
	srv := testServer("Overall Grade: 70/100\nFine.")
	text := strings.Repeat("every submission in this pair is weighed against the batch threshold ", 10)
	body, contentType := multipartBody(t, map[string]string{
		"a.txt": text,
		"b.txt": text,
	}, map[string]string{"plagiarism_threshold": "101"})

	req := httptest.NewRequest(http.MethodPost, "/process_assignments", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp processResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// With the threshold above 100 the identical pair stays clean and is
	// graded as a single group.
	for name, r := range resp.GradingResults {
		if r.Grade != 70 {
			t.Fatalf("expected oracle grade for %s, got %+v", name, r)
		}
	}
	if resp.OverallAvgPlagiarism < 99 {
		t.Fatalf("expected near-100 average for an identical pair, got %f", resp.OverallAvgPlagiarism)
	}
}

func TestHealth(t *testing.T) {
	srv := testServer("")
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
