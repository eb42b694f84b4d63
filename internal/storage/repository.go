package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/glabrego/postshelf/internal/blog"
)

// Repository keeps the last enriched post set so it can be listed offline.
type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS posts (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  date TEXT NOT NULL,
  read_time TEXT NOT NULL,
  tags TEXT NOT NULL,
  filename TEXT NOT NULL,
  summary TEXT NOT NULL,
  full_content TEXT NOT NULL,
  position INTEGER NOT NULL,
  fetched_at TEXT NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SavePosts replaces the snapshot with posts, keeping their manifest order.
// A repeated id keeps the last record.
func (r *Repository) SavePosts(ctx context.Context, posts []blog.Post) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO posts (id, title, date, read_time, tags, filename, summary, full_content, position, fetched_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  title=excluded.title,
  date=excluded.date,
  read_time=excluded.read_time,
  tags=excluded.tags,
  filename=excluded.filename,
  summary=excluded.summary,
  full_content=excluded.full_content,
  position=excluded.position,
  fetched_at=excluded.fetched_at
`)
	if err != nil {
		return fmt.Errorf("prepare save statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for i, post := range posts {
		tags, err := json.Marshal(post.Tags)
		if err != nil {
			return fmt.Errorf("encode tags of post %s: %w", post.ID, err)
		}
		_, err = stmt.ExecContext(
			ctx,
			string(post.ID),
			post.Title,
			post.Date,
			post.ReadTime,
			string(tags),
			post.Filename,
			post.Summary,
			post.FullContent,
			i,
			now,
		)
		if err != nil {
			return fmt.Errorf("save post %s: %w", post.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListPosts returns the snapshot in manifest order. Listed posts are marked
// loaded since their content was settled when saved.
func (r *Repository) ListPosts(ctx context.Context) ([]blog.Post, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, date, read_time, tags, filename, summary, full_content
FROM posts
ORDER BY position ASC
`)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]blog.Post, 0, 32)
	for rows.Next() {
		var post blog.Post
		var id, tags string
		if err := rows.Scan(
			&id,
			&post.Title,
			&post.Date,
			&post.ReadTime,
			&tags,
			&post.Filename,
			&post.Summary,
			&post.FullContent,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		post.ID = blog.PostID(id)
		if err := json.Unmarshal([]byte(tags), &post.Tags); err != nil {
			return nil, fmt.Errorf("decode tags of post %s: %w", id, err)
		}
		post.Loaded = true
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return posts, nil
}
