package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/vintegcorp/vintegcorp/feed"
	"github.com/vintegcorp/vintegcorp/social"
)

var _ feed.Repo = (*FeedRepo)(nil)

const feedSelect = `SELECT e.id, e.content, e.author_id, COALESCE(u.name, ''), COALESCE(u.avatar_url, ''),
	e.liked_by, e.likes_count, e.comments, e.created_at
	FROM employee_updates e LEFT JOIN users u ON u.id = e.author_id`

// FeedRepo stores employee_updates. Author name and avatar are joined from users.
type FeedRepo struct {
	store *Store
}

func scanUpdate(row scanner) (*feed.Update, error) {
	var u feed.Update
	err := row.Scan(&u.ID, &u.Content, &u.AuthorID, &u.AuthorName, &u.AuthorAvatar,
		asJSON(&u.LikedBy), &u.LikesCount, asJSON(&u.Comments), &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func getUpdate(ctx context.Context, q querier, id string) (*feed.Update, error) {
	u, err := scanUpdate(q.QueryRowContext(ctx, feedSelect+` WHERE e.id = ?`, id))
	if err != nil {
		return nil, mapError(err, "get feed update")
	}
	return u, nil
}

func (r *FeedRepo) List(ctx context.Context, limit int) ([]*feed.Update, error) {
	rows, err := r.store.db.QueryContext(ctx, feedSelect+` ORDER BY e.created_at DESC, e.rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, mapError(err, "list feed")
	}
	defer rows.Close()

	out := []*feed.Update{}
	for rows.Next() {
		u, err := scanUpdate(rows)
		if err != nil {
			return nil, mapError(err, "scan feed update")
		}
		out = append(out, u)
	}
	return out, mapError(rows.Err(), "list feed")
}

func (r *FeedRepo) Get(ctx context.Context, id string) (*feed.Update, error) {
	return getUpdate(ctx, r.store.db, id)
}

func (r *FeedRepo) Create(ctx context.Context, authorID, content string) (*feed.Update, error) {
	id := uuid.New().String()
	_, err := r.store.db.ExecContext(ctx,
		`INSERT INTO employee_updates (id, content, author_id, liked_by, likes_count, comments, created_at)
		 VALUES (?, ?, ?, '[]', 0, '[]', ?)`,
		id, content, authorID, r.store.timestamp())
	if err != nil {
		return nil, mapError(err, "create feed update")
	}
	return r.Get(ctx, id)
}

func (r *FeedRepo) ToggleLike(ctx context.Context, id, userID string) (*feed.Update, error) {
	var out *feed.Update
	err := r.store.inTx(ctx, func(tx *sql.Tx) error {
		u, err := getUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		u.LikedBy = social.ToggleMember(u.LikedBy, userID)
		u.LikesCount = len(u.LikedBy)
		_, err = tx.ExecContext(ctx, `UPDATE employee_updates SET liked_by = ?, likes_count = ? WHERE id = ?`,
			asJSON(&u.LikedBy), u.LikesCount, id)
		if err != nil {
			return mapError(err, "like feed update")
		}
		out = u
		return nil
	})
	return out, err
}

func (r *FeedRepo) AddComment(ctx context.Context, id string, comment social.Comment) (*feed.Update, error) {
	var out *feed.Update
	err := r.store.inTx(ctx, func(tx *sql.Tx) error {
		u, err := getUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		u.Comments = append(u.Comments, comment)
		if _, err := tx.ExecContext(ctx, `UPDATE employee_updates SET comments = ? WHERE id = ?`, asJSON(&u.Comments), id); err != nil {
			return mapError(err, "comment on feed update")
		}
		out = u
		return nil
	})
	return out, err
}
