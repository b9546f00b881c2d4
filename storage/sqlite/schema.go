package sqlite

// JSON arrays (tags, attachments, likes, comments, read receipts) are kept as TEXT.
// Timestamps are written in UTC so created_at orders lexically.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'EMPLOYEE' CHECK (role IN ('ADMIN', 'EMPLOYEE')),
	position      TEXT NOT NULL DEFAULT '',
	department    TEXT NOT NULL DEFAULT '',
	avatar_url    TEXT NOT NULL DEFAULT '',
	is_active     INTEGER NOT NULL DEFAULT 1,
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL,
	deleted_at    DATETIME
);

CREATE TABLE IF NOT EXISTS projects (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'active',
	owner_id    TEXT NOT NULL,
	created_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'todo',
	priority      TEXT NOT NULL DEFAULT 'medium',
	assignee_name TEXT NOT NULL DEFAULT '',
	author_id     TEXT NOT NULL,
	due_date      TEXT,
	project_id    TEXT REFERENCES projects(id) ON DELETE SET NULL,
	created_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS articles (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	content        TEXT NOT NULL,
	category       TEXT NOT NULL,
	folder         TEXT NOT NULL DEFAULT '',
	author_id      TEXT NOT NULL,
	last_editor_id TEXT,
	type           TEXT NOT NULL DEFAULT 'knowledge',
	status         TEXT NOT NULL DEFAULT 'published',
	tags           TEXT NOT NULL DEFAULT '[]',
	attachments    TEXT NOT NULL DEFAULT '[]',
	views          INTEGER NOT NULL DEFAULT 0,
	created_at     DATETIME NOT NULL,
	updated_at     DATETIME NOT NULL,
	deleted_at     DATETIME
);

CREATE TABLE IF NOT EXISTS announcements (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL,
	priority   TEXT NOT NULL DEFAULT 'medium',
	is_pinned  INTEGER NOT NULL DEFAULT 0,
	liked_by   TEXT NOT NULL DEFAULT '[]',
	comments   TEXT NOT NULL DEFAULT '[]',
	read_by    TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS employee_updates (
	id          TEXT PRIMARY KEY,
	content     TEXT NOT NULL,
	author_id   TEXT NOT NULL REFERENCES users(id),
	liked_by    TEXT NOT NULL DEFAULT '[]',
	likes_count INTEGER NOT NULL DEFAULT 0,
	comments    TEXT NOT NULL DEFAULT '[]',
	created_at  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
	id              TEXT PRIMARY KEY,
	filename        TEXT NOT NULL,
	mime_type       TEXT NOT NULL,
	file_size_bytes INTEGER NOT NULL,
	access_role     TEXT NOT NULL DEFAULT 'EMPLOYEE',
	uploaded_by     TEXT NOT NULL,
	storage_path    TEXT NOT NULL,
	data            TEXT NOT NULL DEFAULT '',
	created_at      DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_created ON tasks(created_at);
CREATE INDEX IF NOT EXISTS idx_articles_created ON articles(created_at);
CREATE INDEX IF NOT EXISTS idx_announcements_created ON announcements(created_at);
CREATE INDEX IF NOT EXISTS idx_employee_updates_created ON employee_updates(created_at);
`
