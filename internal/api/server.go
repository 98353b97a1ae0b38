// Package api exposes the analysis and coaching pipeline over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jylim/leadership-coach/internal/analysis"
	"github.com/jylim/leadership-coach/internal/coach"
	"github.com/jylim/leadership-coach/internal/export"
	"github.com/jylim/leadership-coach/internal/ingestion"
	"github.com/jylim/leadership-coach/internal/models"
	"github.com/jylim/leadership-coach/internal/survey"
	"go.uber.org/zap"
)

// Server handles HTTP requests.
type Server struct {
	analyzer  *analysis.Analyzer
	files     *ingestion.FileHandler
	streamer  coach.Streamer
	logger    *zap.Logger
	gmailCred string

	mu      sync.Mutex
	session *coach.Session
}

// NewServer creates a new API server. streamer may be nil; the coaching
// endpoint then reports 503 while analysis keeps working.
func NewServer(analyzer *analysis.Analyzer, files *ingestion.FileHandler, streamer coach.Streamer, gmailCredentials string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		analyzer:  analyzer,
		files:     files,
		streamer:  streamer,
		logger:    logger,
		gmailCred: gmailCredentials,
	}
}

// Router returns the HTTP router.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /analyze/gmail", s.handleAnalyzeGmail)
	mux.HandleFunc("GET /report", s.handleReport)
	mux.HandleFunc("POST /coach", s.handleCoach)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /", s.handleRoot)

	return s.loggingMiddleware(mux)
}

// handleRoot provides API information
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"service": "Leadership Coach",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"POST /analyze":       "Upload diagnostic reports or a survey workbook",
			"POST /analyze/gmail": "Fetch report attachments from Gmail and analyze",
			"GET /report":         "Get the analyzed report",
			"POST /coach":         "One coaching chat turn",
			"POST /reset":         "Discard session state and uploads",
			"GET /export":         "Download the report as an Excel workbook",
			"GET /health":         "Health check",
		},
	})
}

// handleHealth provides a health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	})
}

// handleAnalyze accepts the diagnostic files as a multipart upload and runs
// the analysis. PDF/TXT pairs go through the document pipeline; an .xlsx
// survey workbook goes through the multi-year pipeline and needs the
// leader form value.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32 MB max
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.respondError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	var workbookPath string
	for _, fileHeader := range files {
		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if ext != ".pdf" && ext != ".txt" && ext != ".xlsx" {
			s.logger.Info("skipping unsupported file type", zap.String("filename", fileHeader.Filename))
			continue
		}

		file, err := fileHeader.Open()
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to open uploaded file: %v", err))
			return
		}

		path, err := s.files.SaveUploadedFile(fileHeader.Filename, file)
		file.Close()
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to save file %s: %v", fileHeader.Filename, err))
			return
		}
		if ext == ".xlsx" {
			workbookPath = path
		}
	}

	var report *models.Report
	var err error
	if workbookPath != "" {
		leaderName := r.FormValue("leader")
		if leaderName == "" {
			s.respondError(w, http.StatusBadRequest, "leader is required for workbook analysis")
			return
		}
		leaderColumn := r.FormValue("leader_column")
		if leaderColumn == "" {
			leaderColumn = "리더명"
		}

		table, loadErr := survey.LoadWorkbook(workbookPath)
		if loadErr != nil {
			s.respondError(w, http.StatusBadRequest, loadErr.Error())
			return
		}
		report, err = s.analyzer.AnalyzeWorkbook(r.Context(), table, leaderColumn, leaderName)
	} else {
		report, err = s.analyzeUploadedReports(r)
	}
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.resetSession()
	s.respondJSON(w, http.StatusOK, models.AnalyzeResponse{
		Status:   "success",
		Fallback: report.Fallback,
		Message:  analyzeMessage(report),
	})
}

// analyzeUploadedReports runs the document pipeline over the saved report
// pair. The optional leader form value selects among several uploaded pairs.
func (s *Server) analyzeUploadedReports(r *http.Request) (*models.Report, error) {
	docs, err := s.files.LoadReports()
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no report documents found; expected <Leader>_leadership.pdf and <Leader>_oei.pdf")
	}

	doc := docs[0]
	if leader := r.FormValue("leader"); leader != "" {
		found := false
		for _, d := range docs {
			if d.LeaderName == leader {
				doc, found = d, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("no reports found for leader %q", leader)
		}
	}

	report, err := s.analyzer.AnalyzeDocuments(r.Context(), doc.LeadershipText, doc.OEIText)
	if err != nil {
		return nil, err
	}
	report.LeaderName = doc.LeaderName
	return report, nil
}

// handleAnalyzeGmail fetches report attachments by mail subject, then runs
// the document pipeline.
func (s *Server) handleAnalyzeGmail(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
		return
	}

	subject := r.FormValue("subject")
	if subject == "" {
		s.respondError(w, http.StatusBadRequest, "subject is required")
		return
	}

	gmail, err := ingestion.NewGmailHandler(r.Context(), s.gmailCred, s.files.UploadsDir(), s.logger)
	if err != nil {
		s.respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err := gmail.FetchAttachments(subject); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	report, err := s.analyzeUploadedReports(r)
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.resetSession()
	s.respondJSON(w, http.StatusOK, models.AnalyzeResponse{
		Status:   "success",
		Fallback: report.Fallback,
		Message:  analyzeMessage(report),
	})
}

// handleReport returns the analyzed report.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.analyzer.Report()
	if !ok {
		s.respondError(w, http.StatusNotFound, "no analysis has run yet")
		return
	}

	s.respondJSON(w, http.StatusOK, report)
}

// handleCoach runs one coaching chat turn against the session report.
func (s *Server) handleCoach(w http.ResponseWriter, r *http.Request) {
	if s.streamer == nil {
		s.respondError(w, http.StatusServiceUnavailable, "coaching is not configured; set google_cloud_project")
		return
	}

	report, ok := s.analyzer.Report()
	if !ok {
		s.respondError(w, http.StatusConflict, "run an analysis before starting the coaching chat")
		return
	}

	var req models.CoachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	session := s.coachSession(report)
	reply, err := session.Send(r.Context(), req.Message, nil)
	if err != nil {
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, models.CoachResponse{Reply: reply})
}

// coachSession returns the running session, creating it on the first turn.
func (s *Server) coachSession(report *models.Report) *coach.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		s.session = coach.NewSession(s.streamer, report, s.logger)
	}
	return s.session
}

func (s *Server) resetSession() {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
}

// handleReset discards the analysis, the coaching session, and the uploads.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.analyzer.Reset()
	s.resetSession()

	if err := s.files.ClearUploads(); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// handleExport streams the report as an Excel workbook.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.analyzer.Report()
	if !ok {
		s.respondError(w, http.StatusNotFound, "no analysis has run yet")
		return
	}

	outputPath := filepath.Join(os.TempDir(), "leadership_report.xlsx")
	if err := export.ExportToExcel(report, outputPath); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer os.Remove(outputPath)

	w.Header().Set("Content-Disposition", `attachment; filename="leadership_report.xlsx"`)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, outputPath)
}

func analyzeMessage(report *models.Report) string {
	if report.Fallback {
		return "점수를 추출하지 못해 데모 데이터가 표시됩니다"
	}
	return "분석이 완료되었습니다"
}

// respondJSON sends a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
		)
		next.ServeHTTP(w, r)
	})
}
