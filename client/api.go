package client

import (
	"context"
	"net/http"
)

// ArticlePatch changes the fields that are set
type ArticlePatch struct {
	Title       *string       `json:"title,omitempty"`
	Content     *string       `json:"content,omitempty"`
	Category    *string       `json:"category,omitempty"`
	Folder      *string       `json:"folder,omitempty"`
	Tags        *[]string     `json:"tags,omitempty"`
	Attachments *[]Attachment `json:"attachments,omitempty"`
}

func (c *Client) ChangePassword(ctx context.Context, email, oldPass, newPass string) error {
	_, err := c.Request(ctx, "/api/auth/change-password", http.MethodPost,
		map[string]string{"email": email, "oldPass": oldPass, "newPass": newPass}, false)
	return err
}

// Users

func (c *Client) GetUsers(ctx context.Context) ([]User, error) {
	return call[[]User](ctx, c, "/api/users", http.MethodGet, nil, true)
}

func (c *Client) AddUser(ctx context.Context, u NewUser) (*User, error) {
	return callPtr[User](ctx, c, "/api/users", http.MethodPost, u)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, err := c.Request(ctx, "/api/users/"+id, http.MethodDelete, nil, false)
	return err
}

// Projects

func (c *Client) GetProjects(ctx context.Context) ([]Project, error) {
	return call[[]Project](ctx, c, "/api/projects", http.MethodGet, nil, true)
}

func (c *Client) AddProject(ctx context.Context, p NewProject) (*Project, error) {
	return callPtr[Project](ctx, c, "/api/projects", http.MethodPost, p)
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	_, err := c.Request(ctx, "/api/projects/"+id, http.MethodDelete, nil, false)
	return err
}

// Tasks

func (c *Client) GetTasks(ctx context.Context) ([]Task, error) {
	return call[[]Task](ctx, c, "/api/tasks", http.MethodGet, nil, false)
}

func (c *Client) AddTask(ctx context.Context, t NewTask) (*Task, error) {
	return callPtr[Task](ctx, c, "/api/tasks", http.MethodPost, t)
}

// UpdateTask sends fields as given. Keys may be camelCase or snake_case and a
// nil due date or project id clears it.
func (c *Client) UpdateTask(ctx context.Context, id string, fields map[string]any) (*Task, error) {
	return callPtr[Task](ctx, c, "/api/tasks/"+id, http.MethodPatch, fields)
}

func (c *Client) UpdateTaskStatus(ctx context.Context, id, status string) (*Task, error) {
	return c.UpdateTask(ctx, id, map[string]any{"status": status})
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.Request(ctx, "/api/tasks/"+id, http.MethodDelete, nil, false)
	return err
}

// Articles

func (c *Client) GetArticles(ctx context.Context) ([]Article, error) {
	return call[[]Article](ctx, c, "/api/articles", http.MethodGet, nil, true)
}

func (c *Client) AddArticle(ctx context.Context, a NewArticle) (*Article, error) {
	return callPtr[Article](ctx, c, "/api/articles", http.MethodPost, a)
}

func (c *Client) UpdateArticle(ctx context.Context, id string, patch ArticlePatch) (*Article, error) {
	return callPtr[Article](ctx, c, "/api/articles/"+id, http.MethodPatch, patch)
}

func (c *Client) DeleteArticle(ctx context.Context, id string) error {
	_, err := c.Request(ctx, "/api/articles/"+id, http.MethodDelete, nil, false)
	return err
}

// Announcements

func (c *Client) GetAnnouncements(ctx context.Context) ([]Announcement, error) {
	return call[[]Announcement](ctx, c, "/api/announcements", http.MethodGet, nil, false)
}

func (c *Client) AddAnnouncement(ctx context.Context, a NewAnnouncement) (*Announcement, error) {
	return callPtr[Announcement](ctx, c, "/api/announcements", http.MethodPost, a)
}

func (c *Client) DeleteAnnouncement(ctx context.Context, id string) error {
	_, err := c.Request(ctx, "/api/announcements/"+id, http.MethodDelete, nil, false)
	return err
}

// ToggleAnnouncementLike likes or unlikes as the logged in user
func (c *Client) ToggleAnnouncementLike(ctx context.Context, id string) (*Announcement, error) {
	return callPtr[Announcement](ctx, c, "/api/announcements/"+id+"/like", http.MethodPost, nil)
}

func (c *Client) AddAnnouncementComment(ctx context.Context, id, content string, mentions []string) (*Announcement, error) {
	body, err := c.commentBody(content, mentions)
	if err != nil {
		return nil, err
	}
	return callPtr[Announcement](ctx, c, "/api/announcements/"+id+"/comments", http.MethodPost, body)
}

func (c *Client) MarkAnnouncementAsRead(ctx context.Context, id, userID string) error {
	_, err := c.Request(ctx, "/api/announcements/"+id+"/read", http.MethodPost, map[string]string{"userId": userID}, false)
	return err
}

// Feed

func (c *Client) GetEmployeeUpdates(ctx context.Context) ([]FeedUpdate, error) {
	return call[[]FeedUpdate](ctx, c, "/api/feed", http.MethodGet, nil, false)
}

func (c *Client) AddEmployeeUpdate(ctx context.Context, content string) (*FeedUpdate, error) {
	return callPtr[FeedUpdate](ctx, c, "/api/feed", http.MethodPost, map[string]string{"content": content})
}

func (c *Client) ToggleFeedLike(ctx context.Context, id string) (*FeedUpdate, error) {
	return callPtr[FeedUpdate](ctx, c, "/api/feed/"+id+"/like", http.MethodPost, nil)
}

func (c *Client) AddFeedComment(ctx context.Context, id, content string, mentions []string) (*FeedUpdate, error) {
	body, err := c.commentBody(content, mentions)
	if err != nil {
		return nil, err
	}
	return callPtr[FeedUpdate](ctx, c, "/api/feed/"+id+"/comments", http.MethodPost, body)
}

// Documents

func (c *Client) GetDocuments(ctx context.Context) ([]Document, error) {
	return call[[]Document](ctx, c, "/api/documents", http.MethodGet, nil, false)
}

// GetDocument also returns the base64 content
func (c *Client) GetDocument(ctx context.Context, id string) (*Document, error) {
	return callPtr[Document](ctx, c, "/api/documents/"+id, http.MethodGet, nil)
}

func (c *Client) AddDocument(ctx context.Context, d NewDocument) (*Document, error) {
	return callPtr[Document](ctx, c, "/api/documents", http.MethodPost, d)
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	_, err := c.Request(ctx, "/api/documents/"+id, http.MethodDelete, nil, false)
	return err
}

// commentBody signs a comment with the logged in user's name and avatar
func (c *Client) commentBody(content string, mentions []string) (map[string]any, error) {
	u := c.CurrentUser()
	if u == nil {
		return nil, ErrNoSession
	}
	body := map[string]any{
		"content":      content,
		"authorName":   u.Name,
		"authorAvatar": u.AvatarURL,
	}
	if len(mentions) > 0 {
		body["mentions"] = mentions
	}
	return body, nil
}

func callPtr[T any](ctx context.Context, c *Client, path, method string, body any) (*T, error) {
	out, err := call[T](ctx, c, path, method, body, false)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
