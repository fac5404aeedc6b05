package users

const (
	querySchema = `
		CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			avatar_url    TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	queryFindByEmail = `
		SELECT id, name, email, avatar_url, password_hash, created_at
		FROM users
		WHERE email = $1
	`

	queryFindByID = `
		SELECT id, name, email, avatar_url, password_hash, created_at
		FROM users
		WHERE id = $1
	`

	queryCreate = `
		INSERT INTO users (id, name, email, avatar_url, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, email, avatar_url, password_hash, created_at
	`
)

// postgres unique_violation
const pgUniqueViolation = "23505"
