package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"reframer/internal/models"
	"reframer/internal/storage"
)

// DraftStore holds the in-progress task draft for each session. Drafts are
// created on first touch and evicted after the session TTL passes without
// activity; the files they reference stay in the user's storage root.
type DraftStore struct {
	mu     sync.Mutex
	drafts *gocache.Cache
}

// NewDraftStore creates a draft store with the given idle TTL.
func NewDraftStore(ttl time.Duration) *DraftStore {
	return &DraftStore{
		drafts: gocache.New(ttl, 10*time.Minute),
	}
}

// ensure returns the user's draft, creating an empty one if none exists.
// Callers must hold s.mu.
func (s *DraftStore) ensure(userID string) *models.TaskDraft {
	if v, ok := s.drafts.Get(userID); ok {
		draft := v.(*models.TaskDraft)
		s.drafts.SetDefault(userID, draft) // refresh TTL
		return draft
	}
	draft := &models.TaskDraft{Articles: []models.Article{}}
	s.drafts.SetDefault(userID, draft)
	return draft
}

// Get returns a copy of the user's current draft, initializing an empty one
// on first touch.
func (s *DraftStore) Get(userID string) models.TaskDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.ensure(userID)
}

// SetTitle overwrites the draft title.
func (s *DraftStore) SetTitle(userID, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(userID).Title = title
}

// AddArticle appends an article to the draft in insertion order.
func (s *DraftStore) AddArticle(userID string, article models.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := s.ensure(userID)
	draft.Articles = append(draft.Articles, article)
}

// RemoveArticle removes the first article matching id and returns its
// metadata so the caller can clean up the backing file. The second return
// is false when no article with that id is in the draft.
func (s *DraftStore) RemoveArticle(userID, articleID string) (*models.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := s.ensure(userID)

	for i, article := range draft.Articles {
		if article.ID == articleID {
			removed := article
			draft.Articles = append(draft.Articles[:i], draft.Articles[i+1:]...)
			return &removed, true
		}
	}
	return nil, false
}

// SetInstruction sets the free-text instruction and clears any preset
// reference. Instruction and preset are mutually exclusive; enforcing the
// exclusion here keeps every caller consistent.
func (s *DraftStore) SetInstruction(userID, instruction string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := s.ensure(userID)
	draft.Instruction = instruction
	if instruction != "" {
		draft.PresetInstruction = ""
	}
}

// SetPreset sets the preset reference and clears any free-text instruction.
func (s *DraftStore) SetPreset(userID, presetName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := s.ensure(userID)
	draft.PresetInstruction = presetName
	if presetName != "" {
		draft.Instruction = ""
	}
}

// ClearInstruction clears both the free-text instruction and the preset
// reference.
func (s *DraftStore) ClearInstruction(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := s.ensure(userID)
	draft.Instruction = ""
	draft.PresetInstruction = ""
}

// Clear drops the user's draft entirely.
func (s *DraftStore) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts.Delete(userID)
}

// Finalize snapshots a ready draft into the user's task ledger with status
// pending and clears the draft. The draft is only cleared when the ledger
// write succeeds, so a failed write can be retried without data loss.
// Returns the new task id, or "" and false when the draft is not ready or
// persistence failed.
func (s *DraftStore) Finalize(userID, root string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := s.ensure(userID)

	if !draft.IsReady() {
		return "", false
	}

	rec := models.TaskRecord{
		TaskID:            uuid.New().String(),
		Title:             draft.Title,
		Articles:          append([]models.Article(nil), draft.Articles...),
		Instruction:       draft.Instruction,
		PresetInstruction: draft.PresetInstruction,
		Status:            models.TaskStatusPending,
		Result:            "",
		CreatedAt:         time.Now().UTC().Format(time.RFC3339),
		UserFolder:        root,
	}

	if err := storage.AppendTask(root, rec); err != nil {
		return "", false
	}

	s.drafts.Delete(userID)
	return rec.TaskID, true
}
