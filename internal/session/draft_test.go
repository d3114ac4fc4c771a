package session

import (
	"strings"
	"testing"
	"time"

	"reframer/internal/models"
	"reframer/internal/storage"
)

const testTTL = time.Hour

func article(id string) models.Article {
	return models.Article{
		ID:       id,
		Type:     models.ArticleTypeText,
		Filename: "input1.txt",
		Source:   "Text Input",
		Preview:  "preview",
	}
}

// TestDraftInitializedOnFirstTouch tests lazy draft creation
func TestDraftInitializedOnFirstTouch(t *testing.T) {
	store := NewDraftStore(testTTL)

	draft := store.Get("u1")
	if draft.Title != "" || len(draft.Articles) != 0 || draft.Instruction != "" {
		t.Errorf("Fresh draft should be empty, got %+v", draft)
	}
}

// TestAddRemovePreservesInsertionOrder tests the order property
func TestAddRemovePreservesInsertionOrder(t *testing.T) {
	store := NewDraftStore(testTTL)

	for _, id := range []string{"a", "b", "c", "d"} {
		store.AddArticle("u1", article(id))
	}

	removed, ok := store.RemoveArticle("u1", "b")
	if !ok {
		t.Fatal("RemoveArticle should find article b")
	}
	if removed.ID != "b" {
		t.Errorf("Expected removed article b, got %s", removed.ID)
	}

	draft := store.Get("u1")
	want := []string{"a", "c", "d"}
	if len(draft.Articles) != len(want) {
		t.Fatalf("Expected %d articles, got %d", len(want), len(draft.Articles))
	}
	for i, id := range want {
		if draft.Articles[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, draft.Articles[i].ID)
		}
	}
}

// TestRemoveArticleUnknown tests removal of an id not in the draft
func TestRemoveArticleUnknown(t *testing.T) {
	store := NewDraftStore(testTTL)
	store.AddArticle("u1", article("a"))

	if _, ok := store.RemoveArticle("u1", "nope"); ok {
		t.Error("RemoveArticle should report false for an unknown id")
	}
	if len(store.Get("u1").Articles) != 1 {
		t.Error("Draft should be unchanged after a failed removal")
	}
}

// TestInstructionPresetMutualExclusion tests that setting one clears the other
func TestInstructionPresetMutualExclusion(t *testing.T) {
	store := NewDraftStore(testTTL)

	store.SetPreset("u1", "news")
	store.SetInstruction("u1", "make it rhyme")

	draft := store.Get("u1")
	if draft.Instruction != "make it rhyme" {
		t.Errorf("Expected custom instruction active, got %q", draft.Instruction)
	}
	if draft.PresetInstruction != "" {
		t.Errorf("Preset reference should be cleared, got %q", draft.PresetInstruction)
	}

	store.SetPreset("u1", "academic")
	draft = store.Get("u1")
	if draft.PresetInstruction != "academic" {
		t.Errorf("Expected preset active, got %q", draft.PresetInstruction)
	}
	if draft.Instruction != "" {
		t.Errorf("Custom instruction should be cleared, got %q", draft.Instruction)
	}

	store.ClearInstruction("u1")
	draft = store.Get("u1")
	if draft.Instruction != "" || draft.PresetInstruction != "" {
		t.Error("ClearInstruction should drop both fields")
	}
}

// TestIsReady tests the finalization gate
func TestIsReady(t *testing.T) {
	store := NewDraftStore(testTTL)

	d := store.Get("u1")
	if d.IsReady() {
		t.Error("Empty draft should not be ready")
	}

	store.SetTitle("u1", "Election Coverage")
	d = store.Get("u1")
	if d.IsReady() {
		t.Error("Title without articles should not be ready")
	}

	store.AddArticle("u1", article("a"))
	d = store.Get("u1")
	if !d.IsReady() {
		t.Error("Title plus one article should be ready")
	}

	// Instruction is optional throughout
	summary := d.Summary()
	if !summary.IsReady || summary.ArticleCount != 1 || summary.HasInstruction {
		t.Errorf("Unexpected summary: %+v", summary)
	}
}

// TestFinalizeNotReadyIsNoOp tests that an unready draft is untouched
func TestFinalizeNotReadyIsNoOp(t *testing.T) {
	store := NewDraftStore(testTTL)
	root := t.TempDir()

	store.SetTitle("u1", "only a title")

	if _, ok := store.Finalize("u1", root); ok {
		t.Fatal("Finalize should refuse an unready draft")
	}

	if len(storage.ListTasks(root)) != 0 {
		t.Error("No ledger entry should be written for an unready draft")
	}
	if store.Get("u1").Title != "only a title" {
		t.Error("Draft should be unchanged after refused finalize")
	}
}

// TestFinalizeSnapshotsAndClears tests the full finalize flow
func TestFinalizeSnapshotsAndClears(t *testing.T) {
	store := NewDraftStore(testTTL)
	root := t.TempDir()

	content := strings.Repeat("The vote concluded...", 4) // > 50 chars
	art, err := storage.SaveTextArticle(content, root, 1)
	if err != nil {
		t.Fatalf("SaveTextArticle failed: %v", err)
	}
	if art.Preview != content[:50]+"..." {
		t.Errorf("Expected 50-char preview, got %q", art.Preview)
	}

	store.SetTitle("u1", "Election Coverage")
	store.AddArticle("u1", *art)
	store.SetInstruction("u1", "neutral tone")

	taskID, ok := store.Finalize("u1", root)
	if !ok || taskID == "" {
		t.Fatal("Finalize should succeed for a ready draft")
	}

	rec, found := storage.FindTask(root, taskID)
	if !found {
		t.Fatal("Finalized task should be in the ledger")
	}
	if rec.Status != models.TaskStatusPending {
		t.Errorf("Expected status pending, got %s", rec.Status)
	}
	if rec.Title != "Election Coverage" {
		t.Errorf("Expected snapshot title, got %q", rec.Title)
	}
	if len(rec.Articles) != 1 || rec.Articles[0].ID != art.ID {
		t.Errorf("Expected article snapshot, got %+v", rec.Articles)
	}
	if rec.Instruction != "neutral tone" {
		t.Errorf("Expected snapshot instruction, got %q", rec.Instruction)
	}
	if rec.UserFolder != root {
		t.Errorf("Expected user folder %s, got %s", root, rec.UserFolder)
	}
	if rec.CreatedAt == "" {
		t.Error("CreatedAt should be set")
	}

	// Draft cleared only after successful persistence
	draft := store.Get("u1")
	if draft.Title != "" || len(draft.Articles) != 0 {
		t.Error("Draft should be cleared after finalize")
	}
}

// TestFinalizeFailedWriteKeepsDraft tests that persistence failure retains the draft
func TestFinalizeFailedWriteKeepsDraft(t *testing.T) {
	store := NewDraftStore(testTTL)

	store.SetTitle("u1", "Election Coverage")
	store.AddArticle("u1", article("a"))

	// A non-existent root makes the ledger write fail
	if _, ok := store.Finalize("u1", "/nonexistent/path/for/sure"); ok {
		t.Fatal("Finalize should fail when the ledger cannot be written")
	}

	draft := store.Get("u1")
	if draft.Title != "Election Coverage" || len(draft.Articles) != 1 {
		t.Error("Draft must survive a failed ledger write")
	}
}
