package prompts

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const (
	templateFilename = "prompt.txt"
	presetPrefix     = "preset_"
)

// presetInfo carries the display metadata for the known presets. Presets
// found on disk without an entry here get a generic derived title.
var presetInfo = map[string]struct{ title, description string }{
	"news": {
		title:       "News/Journalism Style",
		description: "Professional news writing with objective reporting, inverted pyramid structure, and journalistic standards",
	},
	"academic": {
		title:       "Academic Writing Style",
		description: "Formal scholarly tone with citations, complex structure, and analytical approach",
	},
	"casual": {
		title:       "Casual/Conversational Style",
		description: "Friendly, approachable writing with simple language and personal tone",
	},
}

// presetOrder is the display priority. Presets not listed here come after,
// in discovery order.
var presetOrder = []string{"news", "academic", "casual"}

// Preset is a bundled, read-only named instruction template.
type Preset struct {
	Name        string `json:"name"`
	Filename    string `json:"filename"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"-"`
}

// Catalog holds the prompt template and the preset instructions loaded from
// the prompts directory. It is read-only to users; Reload refreshes it when
// the operator edits the files on disk.
type Catalog struct {
	mu       sync.RWMutex
	dir      string
	template string
	presets  []Preset
	byName   map[string]Preset
}

// LoadCatalog reads the prompt template and all preset_<name>.txt files
// from dir.
func LoadCatalog(dir string) (*Catalog, error) {
	c := &Catalog{dir: dir}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads the catalog from disk, replacing the in-memory set
// atomically. Unreadable preset files are skipped with a warning.
func (c *Catalog) Reload() error {
	data, err := os.ReadFile(filepath.Join(c.dir, templateFilename))
	if err != nil {
		return fmt.Errorf("failed to load prompt template: %w", err)
	}
	template := strings.TrimSpace(string(data))

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("failed to read prompts directory: %w", err)
	}

	var presets []Preset
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, presetPrefix) || !strings.HasSuffix(name, ".txt") {
			continue
		}
		presetName := strings.TrimSuffix(strings.TrimPrefix(name, presetPrefix), ".txt")

		content, err := os.ReadFile(filepath.Join(c.dir, name))
		if err != nil {
			log.Printf("⚠️  Failed to read preset %s: %v", name, err)
			continue
		}

		title, description := presetMetadata(presetName)
		presets = append(presets, Preset{
			Name:        presetName,
			Filename:    name,
			Title:       title,
			Description: description,
			Content:     strings.TrimSpace(string(content)),
		})
	}

	sortPresets(presets)

	byName := make(map[string]Preset, len(presets))
	for _, p := range presets {
		byName[p.Name] = p
	}

	c.mu.Lock()
	c.template = template
	c.presets = presets
	c.byName = byName
	c.mu.Unlock()

	return nil
}

// presetMetadata returns the display title and description for a preset
// name, deriving a generic one for names without a known entry.
func presetMetadata(name string) (string, string) {
	if info, ok := presetInfo[name]; ok {
		return info.title, info.description
	}
	words := strings.Split(name, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return fmt.Sprintf("Preset %s", strings.Join(words, " ")),
		fmt.Sprintf("Rewriting style preset %s", name)
}

// sortPresets orders presets by the priority list, everything else after in
// discovery order.
func sortPresets(presets []Preset) {
	rank := func(name string) int {
		for i, n := range presetOrder {
			if n == name {
				return i
			}
		}
		return len(presetOrder)
	}
	sort.SliceStable(presets, func(i, j int) bool {
		return rank(presets[i].Name) < rank(presets[j].Name)
	})
}

// PromptTemplate returns the rewrite prompt template.
func (c *Catalog) PromptTemplate() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.template
}

// Presets returns all presets in display order.
func (c *Catalog) Presets() []Preset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Preset(nil), c.presets...)
}

// Content returns the instruction content of a named preset.
func (c *Catalog) Content(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byName[name]
	if !ok {
		return "", false
	}
	return p.Content, true
}
