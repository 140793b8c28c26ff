package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
create extension if not exists pgcrypto;

create table if not exists users (
    id            uuid primary key default gen_random_uuid(),
    email         text not null unique,
    password_hash text not null,
    created_at    timestamptz not null default now()
);

create table if not exists projects (
    id              uuid primary key,
    user_id         uuid not null references users(id) on delete cascade,
    name            text not null,
    original_image  text,
    processed_image text,
    ai_title        text,
    ai_description  text,
    created_at      timestamptz not null default now(),
    updated_at      timestamptz not null default now()
);

create index if not exists projects_user_id_idx on projects (user_id);
`

// EnsureSchema creates the tables on startup, mirroring how the service has
// always been deployed. Statements are idempotent.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
