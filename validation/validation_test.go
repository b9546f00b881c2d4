package validation_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vintegcorp/vintegcorp/internal/errors"
	"github.com/vintegcorp/vintegcorp/validation"
)

func requireValidationError(t *testing.T, err error) string {
	t.Helper()
	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	require.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	require.Contains(t, appErr.Message, "Validation Error: ")
	return appErr.Message
}

func TestArticleErrorsAreAggregated(t *testing.T) {
	_, err := validation.Article.Bind([]byte(`{"title":"","content":"short"}`))
	msg := requireValidationError(t, err)

	require.Contains(t, msg, "title: ")
	require.Contains(t, msg, "content: ")
	require.Contains(t, msg, "category: Required")
	require.Less(t, strings.Index(msg, "category: "), strings.Index(msg, "content: "), "issues are sorted by path")
	require.Less(t, strings.Index(msg, "content: "), strings.Index(msg, "title: "))
}

func TestNestedPathsAreDotted(t *testing.T) {
	_, err := validation.Article.Bind([]byte(`{
		"title": "Onboarding guide",
		"content": "Everything a new starter needs.",
		"category": "HR",
		"attachments": [{"name": "policy.pdf"}, {"type": "pdf"}]
	}`))
	msg := requireValidationError(t, err)
	require.Contains(t, msg, "attachments.1.name: Required")
}

func TestLoginBinds(t *testing.T) {
	v, err := validation.Login.Bind([]byte(`{"email":"ann@corp.com","password":"pw","extra":true}`))
	require.NoError(t, err)
	body := v.(*validation.LoginBody)
	require.Equal(t, "ann@corp.com", body.Email)
	require.Equal(t, "pw", body.Password)

	t.Run("bad email and empty password", func(t *testing.T) {
		_, err := validation.Login.Bind([]byte(`{"email":"not-an-email","password":""}`))
		msg := requireValidationError(t, err)
		require.Contains(t, msg, "email: ")
		require.Contains(t, msg, "password: ")
	})

	t.Run("empty body lists every required field", func(t *testing.T) {
		_, err := validation.Login.Bind(nil)
		msg := requireValidationError(t, err)
		require.Equal(t, "Validation Error: email: Required, password: Required", msg)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := validation.Login.Bind([]byte(`{"email":`))
		msg := requireValidationError(t, err)
		require.Equal(t, "Validation Error: body: invalid JSON", msg)
	})
}

func TestUserDefaults(t *testing.T) {
	v, err := validation.User.Bind([]byte(`{
		"name": "Ann Lee", "email": "ann@corp.com", "role": "EMPLOYEE",
		"position": "Engineer", "department": "IT"
	}`))
	require.NoError(t, err)
	body := v.(*validation.UserBody)
	require.Equal(t, "123456", body.Password)
	require.Equal(t, "https://ui-avatars.com/api/?name=Ann+Lee&background=random", body.AvatarURL)

	_, err = validation.User.Bind([]byte(`{
		"name": "A", "email": "ann@corp.com", "role": "BOSS",
		"position": "Engineer", "department": "IT", "password": "123"
	}`))
	msg := requireValidationError(t, err)
	require.Contains(t, msg, "name: ")
	require.Contains(t, msg, "role: ")
	require.Contains(t, msg, "password: ")
}

func TestTaskBodies(t *testing.T) {
	t.Run("empty project id becomes null", func(t *testing.T) {
		v, err := validation.Task.Bind([]byte(`{"title":"Ship it","priority":"high","project_id":"","due_date":""}`))
		require.NoError(t, err)
		body := v.(*validation.TaskBody)
		require.Nil(t, body.ProjectID)
		require.Nil(t, body.DueDate)
	})

	t.Run("project id must be a uuid", func(t *testing.T) {
		_, err := validation.Task.Bind([]byte(`{"title":"Ship it","priority":"high","project_id":"p-1"}`))
		msg := requireValidationError(t, err)
		require.Contains(t, msg, "project_id: ")
	})

	t.Run("patch accepts camelCase keys", func(t *testing.T) {
		v, err := validation.TaskPatch.Bind([]byte(`{"assigneeName":"Bob","projectId":null,"status":"done"}`))
		require.NoError(t, err)
		body := v.(*validation.TaskPatchBody)
		require.Equal(t, "Bob", *body.AssigneeName)
		require.Equal(t, "done", *body.Status)
		require.True(t, body.ProjectID.Present)
		require.True(t, body.ProjectID.Null)
		require.False(t, body.DueDate.Present)
		require.Nil(t, body.Title)
	})

	t.Run("patch rejects unknown status", func(t *testing.T) {
		_, err := validation.TaskPatch.Bind([]byte(`{"status":"blocked"}`))
		msg := requireValidationError(t, err)
		require.Contains(t, msg, "status: ")
	})
}

func TestDocumentDefaults(t *testing.T) {
	v, err := validation.Document.Bind([]byte(`{"filename":"a.txt","file_size_bytes":12,"data":"aGVsbG8="}`))
	require.NoError(t, err)
	body := v.(*validation.DocumentBody)
	require.Equal(t, "EMPLOYEE", body.AccessRole)
	require.Equal(t, int64(12), body.FileSizeBytes)

	_, err = validation.Document.Bind([]byte(`{"filename":"a.txt","file_size_bytes":1.5}`))
	requireValidationError(t, err)
}

func TestBodyContext(t *testing.T) {
	ctx := validation.WithBody(context.Background(), &validation.FeedPostBody{Content: "hi"})
	require.Equal(t, "hi", validation.Body[validation.FeedPostBody](ctx).Content)
	require.Nil(t, validation.Body[validation.LoginBody](ctx))
}

func TestCompileRejectsBrokenSchema(t *testing.T) {
	_, err := validation.Compile("broken.json", `{"type": 12}`)
	require.Error(t, err)
}

func TestTypedBindersSatisfyBinder(t *testing.T) {
	binders := []validation.Binder{
		validation.Login, validation.ChangePassword, validation.User, validation.UserPatch,
		validation.Project, validation.Task, validation.TaskPatch, validation.Article,
		validation.ArticlePatch, validation.Announcement, validation.Comment, validation.ReadReceipt,
		validation.FeedPost, validation.Document,
	}
	for _, b := range binders {
		require.NotEmpty(t, b.Name())
	}

	type label struct {
		Text string `json:"text"`
	}
	schema := validation.MustCompile("label.json", `{"type":"object","required":["text"],"properties":{"text":{"type":"string","minLength":1}}}`)
	var custom validation.Binder = validation.NewBinder[label](schema)
	require.Equal(t, "label.json", custom.Name())

	v, err := custom.Bind([]byte(`{"text":"hi"}`))
	require.NoError(t, err)
	require.Equal(t, "hi", v.(*label).Text)

	_, err = custom.Bind([]byte(`{"text":""}`))
	require.Contains(t, requireValidationError(t, err), "text")
}
