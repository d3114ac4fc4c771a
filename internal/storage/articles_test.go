package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"reframer/internal/models"
)

// TestNextInputNumberEmpty tests numbering in a fresh user root
func TestNextInputNumberEmpty(t *testing.T) {
	root := t.TempDir()

	if n := NextInputNumber(root); n != 1 {
		t.Errorf("Expected first input number 1, got %d", n)
	}
}

// TestNextInputNumberGaps tests that gaps are not reused after deletion
func TestNextInputNumberGaps(t *testing.T) {
	root := t.TempDir()

	for _, name := range []string{"input1.txt", "input3.pdf"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0600); err != nil {
			t.Fatalf("Failed to seed %s: %v", name, err)
		}
	}

	if n := NextInputNumber(root); n != 4 {
		t.Errorf("Expected next input number 4, got %d", n)
	}
}

// TestNextInputNumberIgnoresMalformed tests that non-numeric remainders are skipped
func TestNextInputNumberIgnoresMalformed(t *testing.T) {
	root := t.TempDir()

	for _, name := range []string{"inputabc.txt", "input2x.pdf", "instruction.txt", "input2.txt"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0600); err != nil {
			t.Fatalf("Failed to seed %s: %v", name, err)
		}
	}

	if n := NextInputNumber(root); n != 3 {
		t.Errorf("Expected next input number 3, got %d", n)
	}
}

// TestSaveTextArticle tests text persistence and metadata
func TestSaveTextArticle(t *testing.T) {
	root := t.TempDir()
	content := "The vote concluded late last night after a long count of mail-in ballots"

	article, err := SaveTextArticle(content, root, 1)
	if err != nil {
		t.Fatalf("SaveTextArticle failed: %v", err)
	}

	if article.ID == "" {
		t.Error("Article ID should not be empty")
	}
	if article.Type != models.ArticleTypeText {
		t.Errorf("Expected type %q, got %q", models.ArticleTypeText, article.Type)
	}
	if article.Filename != "input1.txt" {
		t.Errorf("Expected filename input1.txt, got %s", article.Filename)
	}
	if article.Source != "Text Input" {
		t.Errorf("Expected source 'Text Input', got %q", article.Source)
	}

	data, err := os.ReadFile(article.FilePath)
	if err != nil {
		t.Fatalf("Failed to read stored file: %v", err)
	}
	if string(data) != content {
		t.Error("Stored content does not match input")
	}
}

// TestSaveTextArticlePreviewTruncation tests the 50-char preview rule
func TestSaveTextArticlePreviewTruncation(t *testing.T) {
	root := t.TempDir()
	long := strings.Repeat("abcdefgh", 10) // 80 chars

	article, err := SaveTextArticle(long, root, 1)
	if err != nil {
		t.Fatalf("SaveTextArticle failed: %v", err)
	}
	if article.Preview != long[:50]+"..." {
		t.Errorf("Expected truncated preview, got %q", article.Preview)
	}

	short := "brief note"
	article, err = SaveTextArticle(short, root, 2)
	if err != nil {
		t.Fatalf("SaveTextArticle failed: %v", err)
	}
	if article.Preview != short {
		t.Errorf("Expected full content as preview, got %q", article.Preview)
	}

	// 30 characters but 60 bytes; must not be truncated
	cyrillic := strings.Repeat("д", 30)
	article, err = SaveTextArticle(cyrillic, root, 3)
	if err != nil {
		t.Fatalf("SaveTextArticle failed: %v", err)
	}
	if article.Preview != cyrillic {
		t.Errorf("Expected full 30-char content as preview, got %q", article.Preview)
	}

	// Truncation counts characters, never splits a rune
	longCyrillic := strings.Repeat("д", 80)
	article, err = SaveTextArticle(longCyrillic, root, 4)
	if err != nil {
		t.Fatalf("SaveTextArticle failed: %v", err)
	}
	if article.Preview != strings.Repeat("д", 50)+"..." {
		t.Errorf("Expected 50-char truncated preview, got %q", article.Preview)
	}
	if !utf8.ValidString(article.Preview) {
		t.Errorf("Preview contains invalid UTF-8: %q", article.Preview)
	}
}

// TestSavePDFArticle tests PDF persistence and metadata
func TestSavePDFArticle(t *testing.T) {
	root := t.TempDir()
	data := []byte("%PDF-1.4 fake body")

	article, err := SavePDFArticle(data, root, 2)
	if err != nil {
		t.Fatalf("SavePDFArticle failed: %v", err)
	}

	if article.Type != models.ArticleTypePDF {
		t.Errorf("Expected type %q, got %q", models.ArticleTypePDF, article.Type)
	}
	if article.Filename != "input2.pdf" {
		t.Errorf("Expected filename input2.pdf, got %s", article.Filename)
	}
	if article.Source != "PDF Upload" {
		t.Errorf("Expected source 'PDF Upload', got %q", article.Source)
	}
	if article.Preview != "PDF file: input2.pdf" {
		t.Errorf("Expected filename-reference preview, got %q", article.Preview)
	}

	if _, err := os.Stat(article.FilePath); err != nil {
		t.Errorf("Stored PDF missing: %v", err)
	}
}

// TestDeleteArticleFile tests best-effort deletion
func TestDeleteArticleFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "input1.txt")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}

	if !DeleteArticleFile(path) {
		t.Error("Expected deletion of existing file to report true")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("File should be gone after deletion")
	}

	// A missing file is not an error condition
	if DeleteArticleFile(path) {
		t.Error("Expected deletion of missing file to report false")
	}
}
