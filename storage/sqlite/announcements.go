package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/vintegcorp/vintegcorp/announcements"
	"github.com/vintegcorp/vintegcorp/social"
)

var _ announcements.Repo = (*AnnouncementRepo)(nil)

const announcementColumns = `id, title, content, priority, is_pinned, liked_by, comments, read_by, created_at`

type AnnouncementRepo struct {
	store *Store
}

func scanAnnouncement(row scanner) (*announcements.Announcement, error) {
	var a announcements.Announcement
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Priority, &a.IsPinned,
		asJSON(&a.LikedBy), asJSON(&a.Comments), asJSON(&a.ReadBy), &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func getAnnouncement(ctx context.Context, q querier, id string) (*announcements.Announcement, error) {
	a, err := scanAnnouncement(q.QueryRowContext(ctx,
		`SELECT `+announcementColumns+` FROM announcements WHERE id = ?`, id))
	if err != nil {
		return nil, mapError(err, "get announcement")
	}
	return a, nil
}

// List returns the newest announcements first
func (r *AnnouncementRepo) List(ctx context.Context, limit int) ([]*announcements.Announcement, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT `+announcementColumns+` FROM announcements
		 ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, mapError(err, "list announcements")
	}
	defer rows.Close()

	out := []*announcements.Announcement{}
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, mapError(err, "scan announcement")
		}
		out = append(out, a)
	}
	return out, mapError(rows.Err(), "list announcements")
}

func (r *AnnouncementRepo) Create(ctx context.Context, a *announcements.Announcement) error {
	a.ID = uuid.New().String()
	a.CreatedAt = r.store.timestamp()
	if a.Priority == "" {
		a.Priority = announcements.PriorityMedium
	}
	a.LikedBy = []string{}
	a.Comments = []social.Comment{}
	a.ReadBy = []string{}

	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO announcements (id, title, content, priority, is_pinned, liked_by, comments, read_by, created_at)
		 VALUES (?, ?, ?, ?, ?, '[]', '[]', '[]', ?)`,
		a.ID, a.Title, a.Content, string(a.Priority), a.IsPinned, a.CreatedAt)
	return mapError(err, "create announcement")
}

func (r *AnnouncementRepo) Delete(ctx context.Context, id string) error {
	res, err := r.store.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = ?`, id)
	if err != nil {
		return mapError(err, "delete announcement")
	}
	return requireAffected(res, "delete announcement")
}

func (r *AnnouncementRepo) ToggleLike(ctx context.Context, id, userID string) (*announcements.Announcement, error) {
	var out *announcements.Announcement
	err := r.store.inTx(ctx, func(tx *sql.Tx) error {
		a, err := getAnnouncement(ctx, tx, id)
		if err != nil {
			return err
		}
		a.LikedBy = social.ToggleMember(a.LikedBy, userID)
		if _, err := tx.ExecContext(ctx, `UPDATE announcements SET liked_by = ? WHERE id = ?`, asJSON(&a.LikedBy), id); err != nil {
			return mapError(err, "like announcement")
		}
		out = a
		return nil
	})
	return out, err
}

func (r *AnnouncementRepo) AddComment(ctx context.Context, id string, comment social.Comment) (*announcements.Announcement, error) {
	var out *announcements.Announcement
	err := r.store.inTx(ctx, func(tx *sql.Tx) error {
		a, err := getAnnouncement(ctx, tx, id)
		if err != nil {
			return err
		}
		a.Comments = append(a.Comments, comment)
		if _, err := tx.ExecContext(ctx, `UPDATE announcements SET comments = ? WHERE id = ?`, asJSON(&a.Comments), id); err != nil {
			return mapError(err, "comment on announcement")
		}
		out = a
		return nil
	})
	return out, err
}

func (r *AnnouncementRepo) MarkRead(ctx context.Context, id, userID string) error {
	return r.store.inTx(ctx, func(tx *sql.Tx) error {
		a, err := getAnnouncement(ctx, tx, id)
		if err != nil {
			return err
		}
		readBy, changed := social.AddMember(a.ReadBy, userID)
		if !changed {
			return nil
		}
		_, err = tx.ExecContext(ctx, `UPDATE announcements SET read_by = ? WHERE id = ?`, asJSON(&readBy), id)
		return mapError(err, "mark announcement read")
	})
}
