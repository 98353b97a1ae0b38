// Package ingestion brings the diagnostic source files into the app: uploads
// on disk, PDF text extraction, and Gmail attachment fetching.
package ingestion

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	// MinExtractedTextLength is the minimum text length required for successful extraction
	MinExtractedTextLength = 50
	// BinarySampleSize is the number of bytes to sample for binary detection
	BinarySampleSize = 1000
	// BinaryThreshold is the proportion of non-printable characters that indicates binary data
	BinaryThreshold = 0.3
)

// ExtractText extracts text from PDF or TXT report files.
func ExtractText(filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".txt":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}
		return string(data), nil
	case ".pdf":
		return extractPDF(filePath)
	default:
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}
}

// extractPDF extracts text from PDF using pdftotext (if available) or returns error
func extractPDF(filePath string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", filePath, "-")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("PDF extraction requires 'pdftotext' (install poppler-utils): %w\nFile appears to be binary PDF: %s", err, filePath)
	}

	text := string(output)
	if len(text) < MinExtractedTextLength {
		return "", fmt.Errorf("extracted text is too short (likely failed extraction) from: %s", filePath)
	}

	return text, nil
}

// ReadDocumentText loads one report file as analyzable text. Plain-text
// content is returned as-is; binary content goes through the PDF extractor.
func ReadDocumentText(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	content := string(data)
	if IsBinaryData(content) {
		return ExtractText(filePath)
	}
	return content, nil
}

// IsBinaryData checks if content appears to be binary (PDF/ZIP markers)
func IsBinaryData(content string) bool {
	if len(content) == 0 {
		return false
	}

	// Check for PDF magic number
	if strings.HasPrefix(content, "%PDF-") {
		return true
	}

	// Check for ZIP magic number (XLSX files)
	if len(content) >= 2 && content[:2] == "PK" {
		return true
	}

	// Check for high proportion of non-printable characters
	sampleSize := min(BinarySampleSize, len(content))
	nonPrintable := 0
	for i := 0; i < sampleSize; i++ {
		ch := content[i]
		if ch < 32 && ch != '\n' && ch != '\r' && ch != '\t' {
			nonPrintable++
		}
	}

	return float64(nonPrintable)/float64(sampleSize) > BinaryThreshold
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
