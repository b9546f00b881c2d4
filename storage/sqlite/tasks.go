package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/vintegcorp/vintegcorp/internal/utils"
	"github.com/vintegcorp/vintegcorp/tasks"
)

var _ tasks.Repo = (*TaskRepo)(nil)

const taskSelect = `SELECT t.id, t.title, t.description, t.status, t.priority, t.assignee_name, t.author_id,
	t.due_date, t.project_id, p.name, t.created_at
	FROM tasks t LEFT JOIN projects p ON p.id = t.project_id`

type TaskRepo struct {
	store *Store
}

func scanTask(row scanner) (*tasks.Task, error) {
	var t tasks.Task
	var due, projectID, projectName sql.NullString
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.AssigneeName,
		&t.AuthorID, &due, &projectID, &projectName, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.DueDate = stringPtr(due)
	t.ProjectID = stringPtr(projectID)
	t.ProjectName = stringPtr(projectName)
	return &t, nil
}

// List returns the newest tasks first with their project names
func (r *TaskRepo) List(ctx context.Context, limit int) ([]*tasks.Task, error) {
	rows, err := r.store.db.QueryContext(ctx, taskSelect+` ORDER BY t.created_at DESC, t.rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, mapError(err, "list tasks")
	}
	defer rows.Close()

	out := []*tasks.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, mapError(err, "scan task")
		}
		out = append(out, t)
	}
	return out, mapError(rows.Err(), "list tasks")
}

func (r *TaskRepo) Get(ctx context.Context, id string) (*tasks.Task, error) {
	t, err := scanTask(r.store.db.QueryRowContext(ctx, taskSelect+` WHERE t.id = ?`, id))
	if err != nil {
		return nil, mapError(err, "get task")
	}
	return t, nil
}

// Create stores task and returns it as read back, project name included
func (r *TaskRepo) Create(ctx context.Context, task *tasks.Task) (*tasks.Task, error) {
	task.ID = uuid.New().String()
	task.CreatedAt = r.store.timestamp()
	if task.Status == "" {
		task.Status = tasks.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = tasks.PriorityMedium
	}

	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, status, priority, assignee_name, author_id, due_date, project_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.Description, string(task.Status), string(task.Priority), task.AssigneeName,
		task.AuthorID, nullable(utils.NilIfZero(task.DueDate)), nullable(utils.NilIfZero(task.ProjectID)), task.CreatedAt)
	if err != nil {
		return nil, mapError(err, "create task")
	}
	return r.Get(ctx, task.ID)
}

func (r *TaskRepo) Update(ctx context.Context, id string, patch tasks.Patch) (*tasks.Task, error) {
	var set updateSet
	if patch.Title != nil {
		set.add("title", *patch.Title)
	}
	if patch.Description != nil {
		set.add("description", *patch.Description)
	}
	if patch.Status != nil {
		set.add("status", string(*patch.Status))
	}
	if patch.Priority != nil {
		set.add("priority", string(*patch.Priority))
	}
	if patch.AssigneeName != nil {
		set.add("assignee_name", *patch.AssigneeName)
	}
	if patch.DueDate != nil {
		set.add("due_date", nullable(utils.NilIfZero(patch.DueDate)))
	}
	if patch.ProjectID != nil {
		set.add("project_id", nullable(utils.NilIfZero(patch.ProjectID)))
	}
	if set.empty() {
		return r.Get(ctx, id)
	}

	res, err := r.store.db.ExecContext(ctx, `UPDATE tasks SET `+set.clause()+` WHERE id = ?`, append(set.args, id)...)
	if err != nil {
		return nil, mapError(err, "update task")
	}
	if err := requireAffected(res, "update task"); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.store.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return mapError(err, "delete task")
	}
	return requireAffected(res, "delete task")
}
