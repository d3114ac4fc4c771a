package rewrite

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"reframer/internal/models"
	"reframer/internal/prompts"
	"reframer/internal/storage"
)

// ErrAlreadyProcessing is returned when a task is re-triggered while a
// previous run still holds the processing status. It is informational, not
// a failure: the task's result is left untouched.
var ErrAlreadyProcessing = errors.New("task is already being processed")

// defaultTimeout bounds a single generation call when the caller's context
// carries no deadline.
const defaultTimeout = 5 * time.Minute

// Processor drives a finalized task through its lifecycle:
// pending -> processing -> completed | failed.
type Processor struct {
	generator Generator
	catalog   *prompts.Catalog
	model     string
	timeout   time.Duration
	logger    *logrus.Logger
}

// NewProcessor creates a task processor using the given generation backend.
func NewProcessor(generator Generator, catalog *prompts.Catalog, model string) *Processor {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	return &Processor{
		generator: generator,
		catalog:   catalog,
		model:     model,
		timeout:   defaultTimeout,
		logger:    logger,
	}
}

// Process runs the rewrite pipeline for one ledger task. The processing
// status doubles as a guard: a task already in processing is rejected with
// ErrAlreadyProcessing and its result is not altered. Any failure marks the
// task failed with the error message as its result; there is no automatic
// retry, and a failed task may be re-triggered.
func (p *Processor) Process(ctx context.Context, root, taskID string) (string, error) {
	task, ok := storage.FindTask(root, taskID)
	if !ok {
		return "", storage.ErrTaskNotFound
	}

	if task.Status == models.TaskStatusProcessing {
		p.logger.WithFields(logrus.Fields{
			"task_id": taskID,
			"status":  task.Status,
		}).Info("rejecting re-trigger of task in processing")
		return "", ErrAlreadyProcessing
	}

	if err := storage.UpdateTaskStatus(root, taskID, models.TaskStatusProcessing, nil); err != nil {
		return "", err
	}

	start := time.Now()
	p.logger.WithFields(logrus.Fields{
		"task_id": taskID,
		"title":   task.Title,
		"model":   p.model,
	}).Info("processing task")

	result, err := p.run(ctx, root, task)
	if err != nil {
		msg := err.Error()
		if updateErr := storage.UpdateTaskStatus(root, taskID, models.TaskStatusFailed, &msg); updateErr != nil {
			p.logger.WithFields(logrus.Fields{
				"task_id": taskID,
				"error":   updateErr.Error(),
			}).Error("failed to record task failure")
		}
		p.logger.WithFields(logrus.Fields{
			"task_id":  taskID,
			"duration": time.Since(start).String(),
			"error":    msg,
		}).Error("task failed")
		return "", err
	}

	if err := storage.UpdateTaskStatus(root, taskID, models.TaskStatusCompleted, &result); err != nil {
		return "", err
	}

	p.logger.WithFields(logrus.Fields{
		"task_id":    taskID,
		"duration":   time.Since(start).String(),
		"result_len": len(result),
	}).Info("task completed")
	return result, nil
}

// run gathers the task's inputs, composes the request and invokes the
// generation backend.
func (p *Processor) run(ctx context.Context, root string, task *models.TaskRecord) (string, error) {
	inputs := GatherInputs(root)
	instruction := ResolveInstruction(root, task.PresetInstruction, p.catalog)

	parts, err := ComposeRequest(p.catalog.PromptTemplate(), inputs, instruction)
	if err != nil {
		return "", err
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	return p.generator.Generate(ctx, p.model, parts)
}
