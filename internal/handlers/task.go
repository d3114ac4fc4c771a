package handlers

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"reframer/internal/prompts"
	"reframer/internal/session"
	"reframer/internal/storage"
	"reframer/internal/utils"
)

// TaskHandler handles the task-builder endpoints: the session draft, its
// articles and its instruction.
type TaskHandler struct {
	sessions *session.Manager
	drafts   *session.DraftStore
	catalog  *prompts.Catalog
	baseDir  string
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(sessions *session.Manager, drafts *session.DraftStore, catalog *prompts.Catalog, baseDir string) *TaskHandler {
	return &TaskHandler{
		sessions: sessions,
		drafts:   drafts,
		catalog:  catalog,
		baseDir:  baseDir,
	}
}

// userRoot resolves the session identity and its storage root.
func (h *TaskHandler) userRoot(c *fiber.Ctx) (string, string, error) {
	userID, err := h.sessions.UserID(c)
	if err != nil {
		return "", "", err
	}
	root, err := storage.UserRoot(h.baseDir, userID)
	if err != nil {
		return "", "", err
	}
	return userID, root, nil
}

// GetDraft returns the session's current draft and its summary.
func (h *TaskHandler) GetDraft(c *fiber.Ctx) error {
	userID, err := h.sessions.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve session",
		})
	}

	draft := h.drafts.Get(userID)
	return c.JSON(fiber.Map{
		"draft":   draft,
		"summary": draft.Summary(),
	})
}

// SetTitle sets the draft title.
func (h *TaskHandler) SetTitle(c *fiber.Ctx) error {
	userID, err := h.sessions.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve session",
		})
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Please enter a title.",
		})
	}

	h.drafts.SetTitle(userID, title)
	return c.JSON(fiber.Map{
		"message": "Title saved successfully!",
	})
}

// AddArticle adds one article to the draft: typed text via the article_text
// form field, or an uploaded file via pdf_file. Accepted extensions are
// .txt and .pdf.
func (h *TaskHandler) AddArticle(c *fiber.Ctx) error {
	userID, root, err := h.userRoot(c)
	if err != nil {
		log.Printf("❌ [TASK] Failed to resolve user storage: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve user storage",
		})
	}

	inputType := c.FormValue("input_type")
	switch inputType {
	case "text":
		return h.addTextArticle(c, userID, root)
	case "pdf":
		return h.addFileArticle(c, userID, root)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown input type",
		})
	}
}

func (h *TaskHandler) addTextArticle(c *fiber.Ctx, userID, root string) error {
	content := strings.TrimSpace(c.FormValue("article_text"))
	if content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Please enter article text.",
		})
	}

	article, err := storage.SaveTextArticle(content, root, storage.NextInputNumber(root))
	if err != nil {
		log.Printf("❌ [TASK] Failed to save text article: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Error saving text file: %v", err),
		})
	}

	h.drafts.AddArticle(userID, *article)
	log.Printf("✅ [TASK] Text article added: %s (user: %s)", article.Filename, userID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"article": article,
		"message": fmt.Sprintf("Article added successfully as %s!", article.Filename),
	})
}

func (h *TaskHandler) addFileArticle(c *fiber.Ctx, userID, root string) error {
	fileHeader, err := c.FormFile("pdf_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No PDF file selected.",
		})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".pdf" && ext != ".txt" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Please upload a valid PDF file.",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("❌ [TASK] Failed to open upload: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("❌ [TASK] Failed to read upload: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read file",
		})
	}

	// A .txt upload is stored the same way as typed text.
	if ext == ".txt" {
		content := strings.TrimSpace(string(data))
		if content == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Uploaded text file is empty.",
			})
		}
		article, err := storage.SaveTextArticle(content, root, storage.NextInputNumber(root))
		if err != nil {
			log.Printf("❌ [TASK] Failed to save text upload: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("Error saving text file: %v", err),
			})
		}
		h.drafts.AddArticle(userID, *article)
		log.Printf("✅ [TASK] Text upload added: %s (user: %s)", article.Filename, userID)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"article": article,
			"message": fmt.Sprintf("Article added successfully as %s!", article.Filename),
		})
	}

	if err := utils.ValidatePDF(data); err != nil {
		log.Printf("⚠️  [TASK] Invalid PDF upload %s: %v", fileHeader.Filename, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or corrupted PDF file",
		})
	}

	article, err := storage.SavePDFArticle(data, root, storage.NextInputNumber(root))
	if err != nil {
		log.Printf("❌ [TASK] Failed to save PDF article: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Error saving PDF file: %v", err),
		})
	}

	h.drafts.AddArticle(userID, *article)

	info, err := utils.InspectPDF(data)
	if err != nil {
		log.Printf("⚠️  [TASK] Could not inspect PDF %s: %v", article.Filename, err)
	}
	log.Printf("✅ [TASK] PDF article added: %s (user: %s, size: %d bytes)", article.Filename, userID, len(data))

	resp := fiber.Map{
		"article": article,
		"message": fmt.Sprintf("Article added successfully as %s!", article.Filename),
	}
	if info != nil {
		resp["page_count"] = info.PageCount
		resp["word_count"] = info.WordCount
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// RemoveArticle removes an article from the draft by id and best-effort
// deletes its backing file. The draft is the authoritative state: a file
// that is already gone does not fail the removal.
func (h *TaskHandler) RemoveArticle(c *fiber.Ctx) error {
	userID, err := h.sessions.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve session",
		})
	}

	articleID := c.Params("id")
	removed, ok := h.drafts.RemoveArticle(userID, articleID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Error removing article.",
		})
	}

	if removed.FilePath != "" {
		storage.DeleteArticleFile(removed.FilePath)
	}
	log.Printf("🗑️  [TASK] Article removed: %s (user: %s)", removed.Filename, userID)

	return c.JSON(fiber.Map{
		"message": "Article removed successfully!",
	})
}

// SetInstruction sets the draft's instruction. A preset_selection wins over
// instruction_text when both are sent; sending neither clears the
// instruction entirely and deletes the persisted instruction file.
func (h *TaskHandler) SetInstruction(c *fiber.Ctx) error {
	userID, root, err := h.userRoot(c)
	if err != nil {
		log.Printf("❌ [TASK] Failed to resolve user storage: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve user storage",
		})
	}

	var req struct {
		PresetSelection string `json:"preset_selection" form:"preset_selection"`
		InstructionText string `json:"instruction_text" form:"instruction_text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	preset := strings.TrimSpace(req.PresetSelection)
	text := strings.TrimSpace(req.InstructionText)

	if preset != "" {
		if _, ok := h.catalog.Content(preset); !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Preset not found.",
			})
		}
		// The custom instruction file is superseded by the preset.
		storage.DeleteInstruction(root)
		h.drafts.SetPreset(userID, preset)
		return c.JSON(fiber.Map{
			"message": "Preset instruction applied successfully!",
		})
	}

	if text != "" {
		if _, err := storage.SaveInstruction(text, root); err != nil {
			log.Printf("❌ [TASK] Failed to save instruction: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("Error saving instruction file: %v", err),
			})
		}
		h.drafts.SetInstruction(userID, text)
		return c.JSON(fiber.Map{
			"message": "Instruction saved successfully!",
		})
	}

	storage.DeleteInstruction(root)
	h.drafts.ClearInstruction(userID)
	return c.JSON(fiber.Map{
		"message": "Instruction cleared.",
	})
}

// ListPresets returns the preset catalog in display order.
func (h *TaskHandler) ListPresets(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"presets": h.catalog.Presets(),
	})
}

// Finalize snapshots a ready draft into the task ledger and clears it. An
// optional title in the body is applied before the readiness check.
func (h *TaskHandler) Finalize(c *fiber.Ctx) error {
	userID, root, err := h.userRoot(c)
	if err != nil {
		log.Printf("❌ [TASK] Failed to resolve user storage: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve user storage",
		})
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&req); err == nil {
		if title := strings.TrimSpace(req.Title); title != "" {
			h.drafts.SetTitle(userID, title)
		}
	}

	draft := h.drafts.Get(userID)
	if !draft.IsReady() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Please provide a title and at least one article.",
		})
	}

	taskID, ok := h.drafts.Finalize(userID, root)
	if !ok {
		log.Printf("❌ [TASK] Failed to persist task for user %s", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error creating task. Please try again.",
		})
	}

	log.Printf("✅ [TASK] Task created: %s (user: %s)", taskID, userID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"task_id": taskID,
		"message": "Task created successfully!",
	})
}
