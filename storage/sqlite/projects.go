package sqlite

import (
	"context"

	"github.com/google/uuid"

	"github.com/vintegcorp/vintegcorp/projects"
)

var _ projects.Repo = (*ProjectRepo)(nil)

type ProjectRepo struct {
	store *Store
}

func (r *ProjectRepo) List(ctx context.Context, limit int) ([]*projects.Project, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, name, description, status, owner_id, created_at
		 FROM projects ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, mapError(err, "list projects")
	}
	defer rows.Close()

	out := []*projects.Project{}
	for rows.Next() {
		var p projects.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.OwnerID, &p.CreatedAt); err != nil {
			return nil, mapError(err, "scan project")
		}
		out = append(out, &p)
	}
	return out, mapError(rows.Err(), "list projects")
}

func (r *ProjectRepo) Create(ctx context.Context, p *projects.Project) error {
	p.ID = uuid.New().String()
	p.CreatedAt = r.store.timestamp()
	if p.Status == "" {
		p.Status = projects.StatusActive
	}
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, description, status, owner_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, string(p.Status), p.OwnerID, p.CreatedAt)
	return mapError(err, "create project")
}

// Delete removes the project. Its tasks keep existing without a project.
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.store.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return mapError(err, "delete project")
	}
	return requireAffected(res, "delete project")
}
