package ingestion

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jylim/leadership-coach/internal/models"
)

// FileHandler manages file operations for report and survey ingestion.
//
// Naming convention inside the uploads directory:
//
//	<Leader>_leadership.pdf  — leadership diagnostic report
//	<Leader>_oei.pdf         — organizational effectiveness (OEI) report
//	*.xlsx                   — multi-year survey workbook
type FileHandler struct {
	uploadsDir string
}

// NewFileHandler creates a new file handler.
func NewFileHandler(uploadsDir string) *FileHandler {
	return &FileHandler{
		uploadsDir: uploadsDir,
	}
}

// UploadsDir returns the directory the handler manages.
func (fh *FileHandler) UploadsDir() string {
	return fh.uploadsDir
}

// SaveUploadedFile saves an uploaded file to the uploads directory.
func (fh *FileHandler) SaveUploadedFile(filename string, content io.Reader) (string, error) {
	if err := os.MkdirAll(fh.uploadsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	filePath := filepath.Join(fh.uploadsDir, filepath.Base(filename))
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return filePath, nil
}

// LoadReports loads all report pairs from the uploads directory, grouped by
// leader name. Leaders with neither report resolved to text are dropped.
func (fh *FileHandler) LoadReports() ([]models.ReportDocument, error) {
	files, err := os.ReadDir(fh.uploadsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.ReportDocument{}, nil
		}
		return nil, fmt.Errorf("failed to read uploads directory: %w", err)
	}

	byLeader := make(map[string]*models.ReportDocument)

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		filename := file.Name()
		ext := strings.ToLower(filepath.Ext(filename))
		if ext != ".pdf" && ext != ".txt" {
			continue
		}

		// Convention: "<Leader>_leadership.pdf" or "<Leader>_oei.pdf".
		baseName := strings.TrimSuffix(filename, ext)
		parts := strings.Split(baseName, "_")
		if len(parts) < 2 {
			continue
		}

		leaderName := parts[0]
		docType := strings.ToLower(strings.Join(parts[1:], "_"))

		if byLeader[leaderName] == nil {
			byLeader[leaderName] = &models.ReportDocument{
				LeaderName: leaderName,
			}
		}

		filePath := filepath.Join(fh.uploadsDir, filename)
		text, err := ReadDocumentText(filePath)
		if err != nil {
			return nil, err
		}

		switch {
		case strings.Contains(docType, "leadership") || strings.Contains(docType, "리더십"):
			byLeader[leaderName].LeadershipText = text
			byLeader[leaderName].LeadershipPath = filePath
		case strings.Contains(docType, "oei") || strings.Contains(docType, "조직"):
			byLeader[leaderName].OEIText = text
			byLeader[leaderName].OEIPath = filePath
		}
	}

	documents := make([]models.ReportDocument, 0, len(byLeader))
	for _, doc := range byLeader {
		if doc.LeadershipText != "" || doc.OEIText != "" {
			documents = append(documents, *doc)
		}
	}
	sort.Slice(documents, func(i, j int) bool {
		return documents[i].LeaderName < documents[j].LeaderName
	})

	return documents, nil
}

// Workbooks lists the survey workbook files in the uploads directory.
func (fh *FileHandler) Workbooks() ([]string, error) {
	files, err := os.ReadDir(fh.uploadsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read uploads directory: %w", err)
	}

	var paths []string
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if strings.ToLower(filepath.Ext(file.Name())) == ".xlsx" {
			paths = append(paths, filepath.Join(fh.uploadsDir, file.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// ClearUploads removes all files from the uploads directory.
func (fh *FileHandler) ClearUploads() error {
	if err := os.RemoveAll(fh.uploadsDir); err != nil {
		return fmt.Errorf("failed to clear uploads directory: %w", err)
	}
	return os.MkdirAll(fh.uploadsDir, 0755)
}
