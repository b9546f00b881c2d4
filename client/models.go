package client

import "time"

// Payloads as the client sees them, after key conversion to camelCase

type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Position   string    `json:"position"`
	Department string    `json:"department"`
	AvatarURL  string    `json:"avatarUrl"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

type loginResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Task struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	Priority     string    `json:"priority"`
	AssigneeName string    `json:"assigneeName"`
	AuthorID     string    `json:"authorId"`
	DueDate      *string   `json:"dueDate"`
	ProjectID    *string   `json:"projectId"`
	ProjectName  *string   `json:"projectName"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Size string `json:"size"`
	URL  string `json:"url,omitempty"`
	Data string `json:"data,omitempty"`
}

type Article struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	Category     string       `json:"category"`
	Folder       string       `json:"folder"`
	AuthorID     string       `json:"authorId"`
	LastEditorID *string      `json:"lastEditorId"`
	Tags         []string     `json:"tags"`
	Attachments  []Attachment `json:"attachments"`
	Views        int          `json:"views"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type Comment struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"authorId"`
	AuthorName   string    `json:"authorName"`
	AuthorAvatar string    `json:"authorAvatar"`
	Content      string    `json:"content"`
	Mentions     []string  `json:"mentions"`
	Date         time.Time `json:"date"`
}

type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Priority  string    `json:"priority"`
	IsPinned  bool      `json:"isPinned"`
	LikedBy   []string  `json:"likedBy"`
	Comments  []Comment `json:"comments"`
	ReadBy    []string  `json:"readBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeedUpdate is a post on the employee feed
type FeedUpdate struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	AuthorID     string    `json:"authorId"`
	AuthorName   string    `json:"authorName"`
	AuthorAvatar string    `json:"authorAvatar"`
	LikedBy      []string  `json:"likedBy"`
	LikesCount   int       `json:"likesCount"`
	Comments     []Comment `json:"comments"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Document struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	MimeType      string    `json:"mimeType"`
	FileSizeBytes int64     `json:"fileSizeBytes"`
	AccessRole    string    `json:"accessRole"`
	UploadedBy    string    `json:"uploadedBy"`
	StoragePath   string    `json:"storagePath"`
	Data          string    `json:"data,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Request bodies. Keys follow what each endpoint accepts.

type NewUser struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Position   string `json:"position"`
	Department string `json:"department"`
	AvatarURL  string `json:"avatarUrl,omitempty"`
	Password   string `json:"password,omitempty"`
}

// ProfilePatch changes the fields that are set
type ProfilePatch struct {
	Name       *string `json:"name,omitempty"`
	Position   *string `json:"position,omitempty"`
	Department *string `json:"department,omitempty"`
	AvatarURL  *string `json:"avatarUrl,omitempty"`
	Role       *string `json:"role,omitempty"`
}

type NewProject struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

type NewTask struct {
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	Priority     string  `json:"priority"`
	AssigneeName string  `json:"assignee_name,omitempty"`
	DueDate      *string `json:"due_date,omitempty"`
	ProjectID    *string `json:"project_id,omitempty"`
}

type NewArticle struct {
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	Category    string       `json:"category"`
	Folder      string       `json:"folder,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type NewAnnouncement struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Priority string `json:"priority"`
	IsPinned bool   `json:"isPinned"`
}

type NewDocument struct {
	Filename      string `json:"filename"`
	MimeType      string `json:"mime_type,omitempty"`
	FileSizeBytes int64  `json:"file_size_bytes"`
	AccessRole    string `json:"access_role,omitempty"`
	Data          string `json:"data"`
}
