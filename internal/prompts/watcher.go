package prompts

import (
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the catalog whenever a prompt or preset file in the
// catalog directory is written or created. It blocks until the watcher
// fails; run it in a goroutine.
func (c *Catalog) Watch() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("⚠️  Failed to create prompts watcher: %v", err)
		return
	}
	defer watcher.Close()

	absDir, err := filepath.Abs(c.dir)
	if err != nil {
		log.Printf("⚠️  Failed to resolve prompts directory %s: %v", c.dir, err)
		return
	}

	if err := watcher.Add(absDir); err != nil {
		log.Printf("⚠️  Failed to watch prompts directory %s: %v", absDir, err)
		return
	}

	log.Printf("👁️  Watching %s for prompt changes (hot-reload enabled)", c.dir)

	// Debounce to avoid reloading once per file during a multi-file edit.
	var debounceTimer *time.Timer
	debounceDuration := 500 * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			name := filepath.Base(event.Name)
			if name != templateFilename && !strings.HasPrefix(name, presetPrefix) {
				continue
			}

			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDuration, func() {
					if err := c.Reload(); err != nil {
						log.Printf("❌ Failed to reload prompt catalog: %v", err)
					} else {
						log.Printf("✅ Prompt catalog reloaded from %s", c.dir)
					}
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("⚠️  Prompts watcher error: %v", err)
		}
	}
}
