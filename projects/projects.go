package projects

import (
	"context"
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusOnHold    Status = "on-hold"
)

type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type Repo interface {
	// List returns the newest projects first
	List(ctx context.Context, limit int) ([]*Project, error)
	Create(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id string) error
}
