package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS user_documents (
	user_id    TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`
