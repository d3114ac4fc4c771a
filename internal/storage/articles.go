package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"reframer/internal/models"
)

const previewLength = 50

// NextInputNumber returns the next sequential input number for a user root.
// It scans for input<N>.txt / input<N>.pdf and returns max(N)+1, or 1 when
// the directory holds no inputs. Numbers are never reused after deletion.
// Filenames with a non-numeric remainder are ignored.
func NextInputNumber(root string) int {
	entries, err := os.ReadDir(root)
	if err != nil {
		return 1
	}

	max := 0
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "input") {
			continue
		}
		ext := filepath.Ext(name)
		if ext != ".txt" && ext != ".pdf" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "input"), ext))
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}

	return max + 1
}

// SaveTextArticle writes article text to input<n>.txt and returns its
// metadata. Nothing is recorded on write failure.
func SaveTextArticle(content, root string, n int) (*models.Article, error) {
	filename := fmt.Sprintf("input%d.txt", n)
	filePath := filepath.Join(root, filename)

	if err := os.WriteFile(filePath, []byte(content), 0600); err != nil {
		return nil, fmt.Errorf("failed to save text file: %w", err)
	}

	// Preview length counts characters, not bytes.
	preview := content
	if runes := []rune(content); len(runes) > previewLength {
		preview = string(runes[:previewLength]) + "..."
	}

	return &models.Article{
		ID:       uuid.New().String(),
		Type:     models.ArticleTypeText,
		FilePath: filePath,
		Filename: filename,
		Source:   "Text Input",
		Preview:  preview,
	}, nil
}

// SavePDFArticle writes uploaded PDF bytes to input<n>.pdf and returns its
// metadata. The caller is expected to have validated the PDF structure.
func SavePDFArticle(data []byte, root string, n int) (*models.Article, error) {
	filename := fmt.Sprintf("input%d.pdf", n)
	filePath := filepath.Join(root, filename)

	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to save PDF file: %w", err)
	}

	return &models.Article{
		ID:       uuid.New().String(),
		Type:     models.ArticleTypePDF,
		FilePath: filePath,
		Filename: filename,
		Source:   "PDF Upload",
		Preview:  fmt.Sprintf("PDF file: %s", filename),
	}, nil
}

// DeleteArticleFile removes an article's backing file. Deletion is
// best-effort: a missing file or a failed remove is logged and reported via
// the return value but is never an error for the caller's logical operation.
func DeleteArticleFile(filePath string) bool {
	if _, err := os.Stat(filePath); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️  Failed to stat article file %s: %v", filePath, err)
		}
		return false
	}
	if err := os.Remove(filePath); err != nil {
		log.Printf("⚠️  Failed to delete article file %s: %v", filePath, err)
		return false
	}
	return true
}
