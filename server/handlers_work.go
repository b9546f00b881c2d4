package server

import (
	"net/http"

	"github.com/pkg/errors"

	apperrors "github.com/vintegcorp/vintegcorp/internal/errors"
	"github.com/vintegcorp/vintegcorp/internal/utils"
	"github.com/vintegcorp/vintegcorp/projects"
	"github.com/vintegcorp/vintegcorp/tasks"
	"github.com/vintegcorp/vintegcorp/validation"
)

const (
	msgForbidden    = "Forbidden"
	msgTaskNotFound = "Task not found"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request, _ []string) error {
	list, err := s.repos.Projects.List(r.Context(), limitProjects)
	if err != nil {
		return errors.Wrap(err, "[Server handleListProjects] failed to list projects")
	}
	return s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request, _ []string) error {
	body := validation.Body[validation.ProjectBody](r.Context())
	project := &projects.Project{
		Name:        body.Name,
		Description: body.Description,
		Status:      projects.Status(body.Status),
		OwnerID:     ClaimsFrom(r.Context()).UserID,
	}
	if err := s.repos.Projects.Create(r.Context(), project); err != nil {
		return errors.Wrap(err, "[Server handleCreateProject] failed to create project")
	}
	return s.writeJSON(w, http.StatusCreated, project)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request, params []string) error {
	if err := requireAdmin(r, msgForbidden); err != nil {
		return err
	}
	if err := s.repos.Projects.Delete(r.Context(), params[0]); err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return errors.Wrap(err, "[Server handleDeleteProject] failed to delete project")
	}
	return writeNoContent(w)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request, _ []string) error {
	list, err := s.repos.Tasks.List(r.Context(), limitTasks)
	if err != nil {
		return errors.Wrap(err, "[Server handleListTasks] failed to list tasks")
	}
	return s.writeJSON(w, http.StatusOK, list)
}

// handleCreateTask always starts a task in todo
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request, _ []string) error {
	body := validation.Body[validation.TaskBody](r.Context())
	created, err := s.repos.Tasks.Create(r.Context(), &tasks.Task{
		Title:        body.Title,
		Description:  body.Description,
		Status:       tasks.StatusTodo,
		Priority:     tasks.Priority(body.Priority),
		AssigneeName: body.AssigneeName,
		AuthorID:     ClaimsFrom(r.Context()).UserID,
		DueDate:      body.DueDate,
		ProjectID:    body.ProjectID,
	})
	if err != nil {
		return storeError(err, msgTaskNotFound)
	}
	return s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request, params []string) error {
	body := validation.Body[validation.TaskPatchBody](r.Context())
	patch := tasks.Patch{
		Title:        body.Title,
		Description:  body.Description,
		AssigneeName: body.AssigneeName,
		DueDate:      clearable(body.DueDate),
		ProjectID:    clearable(body.ProjectID),
		Status:       utils.Convert(body.Status, func(v string) tasks.Status { return tasks.Status(v) }),
		Priority:     utils.Convert(body.Priority, func(v string) tasks.Priority { return tasks.Priority(v) }),
	}

	updated, err := s.repos.Tasks.Update(r.Context(), params[0], patch)
	if err != nil {
		return storeError(err, msgTaskNotFound)
	}
	return s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request, params []string) error {
	if err := s.repos.Tasks.Delete(r.Context(), params[0]); err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return errors.Wrap(err, "[Server handleDeleteTask] failed to delete task")
	}
	return writeNoContent(w)
}

// clearable maps an optional member to a patch value: absent is nil, null or "" clears
func clearable(o validation.Optional[string]) *string {
	if !o.Present {
		return nil
	}
	if o.Null {
		return utils.Ptr("")
	}
	return utils.Ptr(o.Value)
}
