package tasks

import (
	"context"
	"time"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Task struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Status       Status    `json:"status"`
	Priority     Priority  `json:"priority"`
	AssigneeName string    `json:"assignee_name"`
	AuthorID     string    `json:"author_id"`
	DueDate      *string   `json:"due_date"`
	ProjectID    *string   `json:"project_id"`
	ProjectName  *string   `json:"project_name"` // joined from the owning project
	CreatedAt    time.Time `json:"created_at"`
}

// Patch lists the fields of a task update. Nil leaves a field unchanged.
// An empty DueDate or ProjectID clears the value.
type Patch struct {
	Title        *string
	Description  *string
	Status       *Status
	Priority     *Priority
	AssigneeName *string
	DueDate      *string
	ProjectID    *string
}

type Repo interface {
	List(ctx context.Context, limit int) ([]*Task, error)
	Get(ctx context.Context, id string) (*Task, error)
	Create(ctx context.Context, task *Task) (*Task, error)
	Update(ctx context.Context, id string, patch Patch) (*Task, error)
	Delete(ctx context.Context, id string) error
}
