package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// InstructionFilename is the fixed name of the custom instruction file
// inside a user root. At most one instruction exists per draft.
const InstructionFilename = "instruction.txt"

// SaveInstruction writes instruction text to instruction.txt, overwriting
// any previous content.
func SaveInstruction(content, root string) (string, error) {
	filePath := filepath.Join(root, InstructionFilename)
	if err := os.WriteFile(filePath, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("failed to save instruction file: %w", err)
	}
	return filePath, nil
}

// DeleteInstruction removes the instruction file if present. Absence is not
// an error; a failed remove is logged and swallowed.
func DeleteInstruction(root string) bool {
	filePath := filepath.Join(root, InstructionFilename)
	if _, err := os.Stat(filePath); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️  Failed to stat instruction file %s: %v", filePath, err)
		}
		return false
	}
	if err := os.Remove(filePath); err != nil {
		log.Printf("⚠️  Failed to delete instruction file %s: %v", filePath, err)
		return false
	}
	return true
}

// ReadInstruction returns the persisted instruction text, or the empty
// string when no instruction file exists. Never an error.
func ReadInstruction(root string) string {
	data, err := os.ReadFile(filepath.Join(root, InstructionFilename))
	if err != nil {
		return ""
	}
	return string(data)
}
