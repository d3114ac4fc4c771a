package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"reframer/internal/models"
)

// LedgerFilename is the per-user task ledger file.
const LedgerFilename = "tasks.json"

// ErrTaskNotFound is returned when a task id is absent from the ledger.
var ErrTaskNotFound = errors.New("task not found")

// readLedger loads the ledger, treating an absent or unparseable file as an
// empty ledger. Availability wins over strict validation here: a corrupt
// ledger should not lock the user out of creating new tasks.
func readLedger(root string) []models.TaskRecord {
	data, err := os.ReadFile(filepath.Join(root, LedgerFilename))
	if err != nil {
		return nil
	}

	var tasks []models.TaskRecord
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil
	}
	return tasks
}

// writeLedger rewrites the whole ledger atomically: marshal, write to a
// temp file in the same directory, then rename over the live file. A crash
// mid-write leaves the previous ledger intact.
func writeLedger(root string, tasks []models.TaskRecord) error {
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal task ledger: %w", err)
	}

	ledgerPath := filepath.Join(root, LedgerFilename)
	tmp, err := os.CreateTemp(root, LedgerFilename+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create ledger temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write ledger temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close ledger temp file: %w", err)
	}

	if err := os.Rename(tmpPath, ledgerPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace ledger file: %w", err)
	}
	return nil
}

// AppendTask appends a finalized task record to the user's ledger.
func AppendTask(root string, rec models.TaskRecord) error {
	tasks := readLedger(root)
	tasks = append(tasks, rec)
	return writeLedger(root, tasks)
}

// FindTask returns the ledger record with the given task id.
func FindTask(root, taskID string) (*models.TaskRecord, bool) {
	for _, task := range readLedger(root) {
		if task.TaskID == taskID {
			t := task
			return &t, true
		}
	}
	return nil, false
}

// ListTasks returns all ledger records for a user root in creation order.
func ListTasks(root string) []models.TaskRecord {
	return readLedger(root)
}

// UpdateTaskStatus sets the status (and, when result is non-nil, the
// result) of one ledger record and rewrites the ledger. When the task id is
// absent the ledger file is left untouched and ErrTaskNotFound is returned.
func UpdateTaskStatus(root, taskID string, status models.TaskStatus, result *string) error {
	tasks := readLedger(root)

	found := false
	for i := range tasks {
		if tasks[i].TaskID == taskID {
			tasks[i].Status = status
			if result != nil {
				tasks[i].Result = *result
			}
			found = true
			break
		}
	}
	if !found {
		return ErrTaskNotFound
	}

	return writeLedger(root, tasks)
}
