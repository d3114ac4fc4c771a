package rewrite

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"reframer/internal/models"
	"reframer/internal/prompts"
	"reframer/internal/storage"
	"reframer/internal/utils"
)

// ErrNoArticles is returned when a task has no valid article content left
// after gathering. Such a task cannot be processed even though it reached
// the ledger.
var ErrNoArticles = errors.New("no valid articles found to process")

// Input is one gathered article ready for request composition.
type Input struct {
	Filename string
	Type     models.ArticleType
	Text     string // populated for text inputs
	Data     []byte // populated for PDF inputs
}

// GatherInputs collects all stored input files from a user root in sequence
// order. Unreadable text files and files without a PDF header are skipped
// with a warning rather than aborting the task.
func GatherInputs(root string) []Input {
	entries, err := os.ReadDir(root)
	if err != nil {
		log.Printf("⚠️  Failed to list user root %s: %v", root, err)
		return nil
	}

	type candidate struct {
		name string
		seq  int
	}
	var candidates []candidate
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "input") {
			continue
		}
		ext := filepath.Ext(name)
		if ext != ".txt" && ext != ".pdf" {
			continue
		}
		seq, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "input"), ext))
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{name: name, seq: seq})
	}

	// Directory enumeration order is filesystem-dependent; the sequence
	// number in the filename is the authoritative order.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].seq < candidates[j].seq
	})

	var inputs []Input
	for _, c := range candidates {
		path := filepath.Join(root, c.name)
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("⚠️  Could not read article %s: %v", path, err)
			continue
		}

		if filepath.Ext(c.name) == ".pdf" {
			if !utils.HasPDFHeader(data) {
				log.Printf("⚠️  %s does not appear to be a valid PDF file, skipping", path)
				continue
			}
			inputs = append(inputs, Input{Filename: c.name, Type: models.ArticleTypePDF, Data: data})
			continue
		}

		text := strings.TrimSpace(string(data))
		if text == "" {
			log.Printf("⚠️  %s is empty, skipping", path)
			continue
		}
		if !utf8.ValidString(text) {
			log.Printf("⚠️  %s is not valid UTF-8, skipping", path)
			continue
		}
		inputs = append(inputs, Input{Filename: c.name, Type: models.ArticleTypeText, Text: text})
	}

	return inputs
}

// ResolveInstruction returns the instruction text for a task: the preset
// content when a preset reference is set (falling back to empty with a
// warning when the preset is unknown), otherwise the persisted instruction
// file's content, otherwise the empty string. Never an error.
func ResolveInstruction(root, presetRef string, catalog *prompts.Catalog) string {
	if presetRef != "" {
		content, ok := catalog.Content(presetRef)
		if !ok {
			log.Printf("⚠️  Preset %q not found, proceeding without instruction", presetRef)
			return ""
		}
		return content
	}
	return strings.TrimSpace(storage.ReadInstruction(root))
}

// ComposeRequest builds the ordered request parts: prompt template first,
// then the instruction when non-empty, then every text article, then every
// PDF article as a binary part.
func ComposeRequest(template string, inputs []Input, instruction string) ([]Part, error) {
	if len(inputs) == 0 {
		return nil, ErrNoArticles
	}

	parts := []Part{TextPart(template)}
	if instruction != "" {
		parts = append(parts, TextPart(instruction))
	}
	for _, in := range inputs {
		if in.Type == models.ArticleTypeText {
			parts = append(parts, TextPart(in.Text))
		}
	}
	for _, in := range inputs {
		if in.Type == models.ArticleTypePDF {
			parts = append(parts, PDFPart(in.Data))
		}
	}

	return parts, nil
}
