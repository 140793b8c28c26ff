package projects

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const projectCols = `id::text, user_id::text, name, original_image, processed_image, ai_title, ai_description, created_at, updated_at`

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.OriginalImage, &p.ProcessedImage,
		&p.AITitle, &p.AIDescription, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Create(ctx context.Context, userID, name string) (*Project, error) {
	if name == "" {
		return nil, fmt.Errorf("name required")
	}

	const q = `
insert into projects (id, user_id, name)
values ($1::uuid, $2::uuid, $3)
returning ` + projectCols + `;
`
	return scanProject(r.db.QueryRow(ctx, q, uuid.New().String(), userID, name))
}

func (r *Repo) List(ctx context.Context, userID string) ([]Project, error) {
	const q = `
select ` + projectCols + `
from projects
where user_id = $1::uuid
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0, 16)
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.OriginalImage, &p.ProcessedImage,
			&p.AITitle, &p.AIDescription, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, userID, id string) (*Project, error) {
	const q = `
select ` + projectCols + `
from projects
where user_id = $1::uuid and id = $2::uuid;
`
	return scanProject(r.db.QueryRow(ctx, q, userID, id))
}

func (r *Repo) Update(ctx context.Context, userID, id string, upd UpdateParams) (*Project, error) {
	const q = `
update projects
set name = coalesce($3, name),
    ai_title = coalesce($4, ai_title),
    ai_description = coalesce($5, ai_description),
    updated_at = now()
where user_id = $1::uuid and id = $2::uuid
returning ` + projectCols + `;
`
	return scanProject(r.db.QueryRow(ctx, q, userID, id, upd.Name, upd.AITitle, upd.AIDescription))
}

// Delete removes the row and returns it so the caller can clean up stored
// image files.
func (r *Repo) Delete(ctx context.Context, userID, id string) (*Project, error) {
	const q = `
delete from projects
where user_id = $1::uuid and id = $2::uuid
returning ` + projectCols + `;
`
	return scanProject(r.db.QueryRow(ctx, q, userID, id))
}

// SetOriginalImage records a fresh upload. The processed reference is reset
// to the original until the pipeline produces a derivative.
func (r *Repo) SetOriginalImage(ctx context.Context, userID, id, path string) (*Project, error) {
	const q = `
update projects
set original_image = $3, processed_image = $3, updated_at = now()
where user_id = $1::uuid and id = $2::uuid
returning ` + projectCols + `;
`
	return scanProject(r.db.QueryRow(ctx, q, userID, id, path))
}

// SetProcessedImage is called by the pipeline worker when a derivative is
// ready. updated_at only moves forward.
func (r *Repo) SetProcessedImage(ctx context.Context, userID, id, path string) (*Project, error) {
	const q = `
update projects
set processed_image = $3, updated_at = now()
where user_id = $1::uuid and id = $2::uuid
returning ` + projectCols + `;
`
	return scanProject(r.db.QueryRow(ctx, q, userID, id, path))
}
