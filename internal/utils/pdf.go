package utils

import (
	"bytes"
	"fmt"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// MaxPDFPages limits the number of pages accepted in an upload.
const MaxPDFPages = 100

// PDFInfo contains lightweight information about an uploaded PDF.
type PDFInfo struct {
	PageCount int
	WordCount int
}

// HasPDFHeader reports whether data starts with the %PDF magic bytes.
// This is the cheap check used when gathering already-stored files; full
// structural validation happens once at upload time.
func HasPDFHeader(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF"))
}

// ValidatePDF checks if a file is a valid PDF by attempting to open it
func ValidatePDF(data []byte) error {
	reader := bytes.NewReader(data)
	r, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return fmt.Errorf("invalid PDF: %w", err)
	}
	if r.NumPage() == 0 {
		return fmt.Errorf("invalid PDF: no pages")
	}
	if r.NumPage() > MaxPDFPages {
		return fmt.Errorf("PDF has too many pages (%d), max allowed is %d", r.NumPage(), MaxPDFPages)
	}
	return nil
}

// InspectPDF returns page and word counts for an uploaded PDF. Pages whose
// text cannot be extracted are skipped rather than failing the whole file.
func InspectPDF(data []byte) (*PDFInfo, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	totalPages := pdfReader.NumPage()
	if totalPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	wordCount := 0
	for pageNum := 1; pageNum <= totalPages && pageNum <= MaxPDFPages; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		wordCount += countWords(text)
	}

	return &PDFInfo{
		PageCount: totalPages,
		WordCount: wordCount,
	}, nil
}

// countWords counts the number of words in text
func countWords(text string) int {
	count := 0
	inWord := false

	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			if inWord {
				count++
				inWord = false
			}
		} else {
			inWord = true
		}
	}

	if inWord {
		count++
	}

	return count
}
