package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"reframer/internal/logging"
	"reframer/internal/rewrite"
	"reframer/internal/session"
	"reframer/internal/storage"
)

// ProcessHandler handles finalized-task endpoints: viewing, listing and
// triggering the rewrite pipeline.
type ProcessHandler struct {
	sessions  *session.Manager
	processor *rewrite.Processor
	baseDir   string
}

// NewProcessHandler creates a new process handler
func NewProcessHandler(sessions *session.Manager, processor *rewrite.Processor, baseDir string) *ProcessHandler {
	return &ProcessHandler{
		sessions:  sessions,
		processor: processor,
		baseDir:   baseDir,
	}
}

func (h *ProcessHandler) userRoot(c *fiber.Ctx) (string, error) {
	userID, err := h.sessions.UserID(c)
	if err != nil {
		return "", err
	}
	return storage.UserRoot(h.baseDir, userID)
}

// GetTask returns one finalized task from the session's ledger.
func (h *ProcessHandler) GetTask(c *fiber.Ctx) error {
	root, err := h.userRoot(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve user storage",
		})
	}

	task, ok := storage.FindTask(root, c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found.",
		})
	}

	return c.JSON(fiber.Map{
		"task": task,
	})
}

// ListTasks returns every finalized task in the session's ledger.
func (h *ProcessHandler) ListTasks(c *fiber.Ctx) error {
	root, err := h.userRoot(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve user storage",
		})
	}

	tasks := storage.ListTasks(root)
	return c.JSON(fiber.Map{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// ProcessTask triggers the rewrite pipeline for one task. Re-triggering a
// task that is currently processing is an informational outcome, not an
// error; a failed run can always be re-triggered.
func (h *ProcessHandler) ProcessTask(c *fiber.Ctx) error {
	userID, err := h.sessions.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve user storage",
		})
	}
	root, err := storage.UserRoot(h.baseDir, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve user storage",
		})
	}

	taskID := c.Params("id")
	logging.WithTask(taskID, userID).Info("rewrite triggered")
	result, err := h.processor.Process(c.Context(), root, taskID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrTaskNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Task not found.",
			})
		case errors.Is(err, rewrite.ErrAlreadyProcessing):
			return c.JSON(fiber.Map{
				"message": "Task is already being processed.",
			})
		default:
			log.Printf("❌ [PROCESS] Task %s failed: %v", taskID, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": fmt.Sprintf("Error processing task: %v", err),
			})
		}
	}

	return c.JSON(fiber.Map{
		"result":  result,
		"message": "Task processed successfully!",
	})
}
