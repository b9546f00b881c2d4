package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vintegcorp/vintegcorp/auth"
	"github.com/vintegcorp/vintegcorp/client"
	"github.com/vintegcorp/vintegcorp/internal/config"
	"github.com/vintegcorp/vintegcorp/server"
	"github.com/vintegcorp/vintegcorp/storage/sqlite"
)

const (
	adminEmail    = "admin@corp.com"
	adminPassword = "admin-password"
)

// startAPI runs the real server on a fresh database
func startAPI(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "intranet.db")
	t.Setenv("ENV", "TEST")
	t.Setenv("JWT_SECRET", "integration-secret")
	t.Setenv("DATABASE_URL", "sqlite://"+dbPath)
	t.Setenv("ADMIN_EMAIL", adminEmail)
	t.Setenv("ADMIN_PASSWORD", adminPassword)
	t.Setenv("RATE_LIMIT_DISABLED", "1")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	store, err := sqlite.Open(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	srv, err := server.New(config.New(), server.ReposFromStore(store), server.WithHasher(auth.NewHasher(bcrypt.MinCost)), server.WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts.URL
}

func TestAgainstServer(t *testing.T) {
	baseURL := startAPI(t)
	ctx := context.Background()
	admin := client.New(baseURL, newTiers().options()...)

	me, err := admin.Login(ctx, adminEmail, adminPassword, false)
	require.NoError(t, err)
	require.Equal(t, "ADMIN", me.Role)
	require.NotEmpty(t, me.AvatarURL)

	_, err = admin.AddUser(ctx, client.NewUser{
		Name: "Jane Doe", Email: "jane@corp.com", Role: "EMPLOYEE", Position: "Engineer", Department: "R&D",
	})
	require.NoError(t, err)
	users, err := admin.GetUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	employee := client.New(baseURL, newTiers().options()...)
	jane, err := employee.Login(ctx, "jane@corp.com", "123456", false)
	require.NoError(t, err)

	t.Run("admin only actions", func(t *testing.T) {
		_, err := employee.AddUser(ctx, client.NewUser{Name: "Mallory", Email: "m@corp.com", Role: "ADMIN", Position: "Boss", Department: "X"})
		var apiErr *client.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
		require.Equal(t, "Access denied", apiErr.Message)
	})

	t.Run("projects and tasks", func(t *testing.T) {
		project, err := admin.AddProject(ctx, client.NewProject{Name: "Apollo"})
		require.NoError(t, err)
		require.Equal(t, "active", project.Status)

		task, err := employee.AddTask(ctx, client.NewTask{Title: "Write report", Priority: "medium", ProjectID: &project.ID})
		require.NoError(t, err)
		require.Equal(t, "todo", task.Status)
		require.Equal(t, "Apollo", *task.ProjectName)

		task, err = employee.UpdateTaskStatus(ctx, task.ID, "done")
		require.NoError(t, err)
		require.Equal(t, "done", task.Status)

		task, err = employee.UpdateTask(ctx, task.ID, map[string]any{"projectId": nil, "assigneeName": "Jane"})
		require.NoError(t, err)
		require.Nil(t, task.ProjectID)
		require.Equal(t, "Jane", task.AssigneeName)

		tasks, err := employee.GetTasks(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		require.NoError(t, employee.DeleteTask(ctx, task.ID))
		require.NoError(t, admin.DeleteProject(ctx, project.ID))
	})

	t.Run("articles", func(t *testing.T) {
		article, err := employee.AddArticle(ctx, client.NewArticle{
			Title: "Onboarding guide", Content: "Everything a new hire needs", Category: "HR", Tags: []string{"hr"},
		})
		require.NoError(t, err)
		require.Equal(t, jane.ID, article.AuthorID)

		title := "Onboarding guide v2"
		article, err = admin.UpdateArticle(ctx, article.ID, client.ArticlePatch{Title: &title})
		require.NoError(t, err)
		require.Equal(t, title, article.Title)
		require.NotNil(t, article.LastEditorID)
		require.Equal(t, me.ID, *article.LastEditorID)

		require.NoError(t, admin.DeleteArticle(ctx, article.ID))
		list, err := employee.GetArticles(ctx)
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("announcements", func(t *testing.T) {
		a, err := admin.AddAnnouncement(ctx, client.NewAnnouncement{Title: "Office move", Content: "Monday", Priority: "high", IsPinned: true})
		require.NoError(t, err)

		a, err = employee.ToggleAnnouncementLike(ctx, a.ID)
		require.NoError(t, err)
		require.Equal(t, []string{jane.ID}, a.LikedBy)

		a, err = employee.AddAnnouncementComment(ctx, a.ID, "See you there", []string{me.ID})
		require.NoError(t, err)
		require.Len(t, a.Comments, 1)
		require.Equal(t, "Jane Doe", a.Comments[0].AuthorName)
		require.Equal(t, []string{me.ID}, a.Comments[0].Mentions)

		require.NoError(t, employee.MarkAnnouncementAsRead(ctx, a.ID, jane.ID))
		list, err := employee.GetAnnouncements(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, []string{jane.ID}, list[0].ReadBy)
		require.True(t, list[0].IsPinned)

		require.NoError(t, admin.DeleteAnnouncement(ctx, a.ID))
	})

	t.Run("feed", func(t *testing.T) {
		post, err := employee.AddEmployeeUpdate(ctx, "Shipped it")
		require.NoError(t, err)
		require.Equal(t, "Jane Doe", post.AuthorName)

		post, err = admin.ToggleFeedLike(ctx, post.ID)
		require.NoError(t, err)
		require.Equal(t, 1, post.LikesCount)

		post, err = admin.AddFeedComment(ctx, post.ID, "Congrats", nil)
		require.NoError(t, err)
		require.Len(t, post.Comments, 1)

		feed, err := employee.GetEmployeeUpdates(ctx)
		require.NoError(t, err)
		require.Len(t, feed, 1)
	})

	t.Run("documents", func(t *testing.T) {
		doc, err := employee.AddDocument(ctx, client.NewDocument{Filename: "policy.txt", MimeType: "text/plain", FileSizeBytes: 5, Data: "aGVsbG8="})
		require.NoError(t, err)
		require.Empty(t, doc.Data)
		require.Equal(t, "EMPLOYEE", doc.AccessRole)

		full, err := employee.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		require.Equal(t, "aGVsbG8=", full.Data)

		list, err := employee.GetDocuments(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Empty(t, list[0].Data)

		var apiErr *client.APIError
		err = employee.DeleteDocument(ctx, doc.ID)
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
		require.NoError(t, admin.DeleteDocument(ctx, doc.ID))
	})

	t.Run("profile and password", func(t *testing.T) {
		position := "Senior Engineer"
		u, err := employee.UpdateCurrentUser(ctx, client.ProfilePatch{Position: &position})
		require.NoError(t, err)
		require.Equal(t, position, u.Position)

		require.NoError(t, employee.ChangePassword(ctx, "jane@corp.com", "123456", "new-password"))
		again := client.New(baseURL, newTiers().options()...)
		_, err = again.Login(ctx, "jane@corp.com", "new-password", false)
		require.NoError(t, err)
	})

	t.Run("deleting a user", func(t *testing.T) {
		require.NoError(t, admin.DeleteUser(ctx, jane.ID))
		users, err := admin.GetUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
	})
}
