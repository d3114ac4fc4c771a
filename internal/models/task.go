package models

// ArticleType discriminates how an article's bytes are stored and how they
// are handed to the generation backend. It is assigned at creation and never
// re-derived from filenames.
type ArticleType string

const (
	ArticleTypeText ArticleType = "text"
	ArticleTypePDF  ArticleType = "pdf"
)

// Article is one unit of source content contributed to a task.
type Article struct {
	ID       string      `json:"id"`
	Type     ArticleType `json:"type"`
	FilePath string      `json:"file_path"`
	Filename string      `json:"filename"`
	Source   string      `json:"source"`
	Preview  string      `json:"preview"`
}

// TaskStatus is the lifecycle state of a finalized task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// TaskDraft is the in-progress, session-scoped task. Exactly one exists per
// session; it is created on first touch and cleared on finalize.
type TaskDraft struct {
	Title             string    `json:"title"`
	Articles          []Article `json:"articles"`
	Instruction       string    `json:"instruction"`
	PresetInstruction string    `json:"preset_instruction"`
}

// DraftSummary is a lightweight view of a draft for the task-builder UI.
type DraftSummary struct {
	Title          string `json:"title"`
	ArticleCount   int    `json:"article_count"`
	HasInstruction bool   `json:"has_instruction"`
	IsReady        bool   `json:"is_ready"`
}

// IsReady reports whether the draft can be finalized: a non-empty title and
// at least one article. The instruction is optional.
func (d *TaskDraft) IsReady() bool {
	return d.Title != "" && len(d.Articles) > 0
}

// Summary returns the draft's summary view.
func (d *TaskDraft) Summary() DraftSummary {
	return DraftSummary{
		Title:          d.Title,
		ArticleCount:   len(d.Articles),
		HasInstruction: d.Instruction != "" || d.PresetInstruction != "",
		IsReady:        d.IsReady(),
	}
}

// TaskRecord is an immutable snapshot of a finalized task persisted in the
// per-user ledger. Only Status and Result change after creation.
type TaskRecord struct {
	TaskID            string     `json:"task_id"`
	Title             string     `json:"title"`
	Articles          []Article  `json:"articles"`
	Instruction       string     `json:"instruction"`
	PresetInstruction string     `json:"preset_instruction,omitempty"`
	Status            TaskStatus `json:"status"`
	Result            string     `json:"result"`
	CreatedAt         string     `json:"created_at"`
	UserFolder        string     `json:"user_folder"`
}
