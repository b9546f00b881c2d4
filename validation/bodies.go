package validation

import (
	"embed"
	"encoding/json"

	"github.com/vintegcorp/vintegcorp/articles"
	"github.com/vintegcorp/vintegcorp/users"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

func mustLoad(name string) *Schema {
	src, err := schemaFiles.ReadFile("schemas/" + name)
	if err != nil {
		panic(err)
	}
	return MustCompile(name, string(src))
}

// Request bodies accepted by the API
var (
	Login          = NewBinder[LoginBody](mustLoad("login.json"))
	ChangePassword = NewBinder[ChangePasswordBody](mustLoad("change_password.json"))
	User           = NewBinder[UserBody](mustLoad("user.json"))
	UserPatch      = NewBinder[UserPatchBody](mustLoad("user_patch.json"))
	Project        = NewBinder[ProjectBody](mustLoad("project.json"))
	Task           = NewBinder[TaskBody](mustLoad("task.json"))
	TaskPatch      = NewBinder[TaskPatchBody](mustLoad("task_patch.json"), WithSnakeKeys())
	Article        = NewBinder[ArticleBody](mustLoad("article.json"))
	ArticlePatch   = NewBinder[ArticlePatchBody](mustLoad("article_patch.json"))
	Announcement   = NewBinder[AnnouncementBody](mustLoad("announcement.json"))
	Comment        = NewBinder[CommentBody](mustLoad("comment.json"))
	ReadReceipt    = NewBinder[ReadReceiptBody](mustLoad("read_receipt.json"))
	FeedPost       = NewBinder[FeedPostBody](mustLoad("feed_post.json"))
	Document       = NewBinder[DocumentBody](mustLoad("document.json"))
)

// Optional records whether a JSON member was present and whether it was null
type Optional[T any] struct {
	Present bool
	Null    bool
	Value   T
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Present = true
	if string(b) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

type LoginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordBody struct {
	Email   string `json:"email"`
	OldPass string `json:"oldPass"`
	NewPass string `json:"newPass"`
}

type UserBody struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Position   string `json:"position"`
	Department string `json:"department"`
	AvatarURL  string `json:"avatarUrl"`
	Password   string `json:"password"`
}

func (b *UserBody) Normalize() {
	if b.Password == "" {
		b.Password = users.DefaultPassword
	}
	if b.AvatarURL == "" {
		b.AvatarURL = users.DefaultAvatarURL(b.Name)
	}
}

type UserPatchBody struct {
	Name       *string `json:"name"`
	Role       *string `json:"role"`
	Position   *string `json:"position"`
	Department *string `json:"department"`
	AvatarURL  *string `json:"avatarUrl"`
}

type ProjectBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (b *ProjectBody) Normalize() {
	if b.Status == "" {
		b.Status = "active"
	}
}

type TaskBody struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Priority     string  `json:"priority"`
	Status       string  `json:"status"`
	AssigneeName string  `json:"assignee_name"`
	DueDate      *string `json:"due_date"`
	ProjectID    *string `json:"project_id"`
}

// Normalize maps empty due dates and project ids to null
func (b *TaskBody) Normalize() {
	if b.DueDate != nil && *b.DueDate == "" {
		b.DueDate = nil
	}
	if b.ProjectID != nil && *b.ProjectID == "" {
		b.ProjectID = nil
	}
}

type TaskPatchBody struct {
	Title        *string          `json:"title"`
	Description  *string          `json:"description"`
	Priority     *string          `json:"priority"`
	Status       *string          `json:"status"`
	AssigneeName *string          `json:"assignee_name"`
	DueDate      Optional[string] `json:"due_date"`
	ProjectID    Optional[string] `json:"project_id"`
}

type ArticleBody struct {
	Title       string                `json:"title"`
	Content     string                `json:"content"`
	Category    string                `json:"category"`
	Folder      string                `json:"folder"`
	Tags        []string              `json:"tags"`
	Attachments []articles.Attachment `json:"attachments"`
}

func (b *ArticleBody) Normalize() {
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if b.Attachments == nil {
		b.Attachments = []articles.Attachment{}
	}
}

type ArticlePatchBody struct {
	Title       *string                `json:"title"`
	Content     *string                `json:"content"`
	Category    *string                `json:"category"`
	Folder      *string                `json:"folder"`
	Tags        *[]string              `json:"tags"`
	Attachments *[]articles.Attachment `json:"attachments"`
}

type AnnouncementBody struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Priority string `json:"priority"`
	IsPinned bool   `json:"isPinned"`
}

type CommentBody struct {
	Content      string   `json:"content"`
	AuthorName   string   `json:"authorName"`
	AuthorAvatar string   `json:"authorAvatar"`
	Mentions     []string `json:"mentions"`
}

type ReadReceiptBody struct {
	UserID string `json:"userId"`
}

type FeedPostBody struct {
	Content string `json:"content"`
}

type DocumentBody struct {
	Filename      string `json:"filename"`
	MimeType      string `json:"mime_type"`
	FileSizeBytes int64  `json:"file_size_bytes"`
	AccessRole    string `json:"access_role"`
	Data          string `json:"data"`
}

func (b *DocumentBody) Normalize() {
	if b.AccessRole == "" {
		b.AccessRole = string(users.RoleEmployee)
	}
	if b.MimeType == "" {
		b.MimeType = "application/octet-stream"
	}
}
