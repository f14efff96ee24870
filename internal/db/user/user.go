package user

import (
	c "accounts/internal/core/domain/common"
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/user"
	"accounts/internal/db"
	"context"
	"errors"
	"time"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

const EMAIL_CONSTRAINT_NAME = "user_email_idx"

const userColumns = `id, name, email, password_hash, photo, phone, bio, created_at, updated_at`

type PgxUserRepository struct {
	db db.DBTX
}

func NewPgxRepository(dbtx db.DBTX) *PgxUserRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxUserRepository{db: dbtx}
}

func (r *PgxUserRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO "user" (id, name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING `+userColumns,
		string(input.ID),
		input.Name,
		string(input.Email),
		string(input.PasswordHash),
		input.CreatedAt,
	)
	u, err = scanUser(row)
	if db.IsUniqueViolation(err, EMAIL_CONSTRAINT_NAME) {
		return u, user.ErrEmailAlreadyExists
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM "user" WHERE id = $1`, string(id))
	return r.get(row)
}

func (r *PgxUserRepository) GetByEmail(ctx context.Context, email c.Email) (u user.User, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM "user" WHERE email = $1`, string(email))
	return r.get(row)
}

func (r *PgxUserRepository) get(row pgx.Row) (u user.User, err error) {
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	return u, u.Validate()
}

func (r *PgxUserRepository) Lock(ctx context.Context, id user.ID) error {
	var lockedID string
	err := r.db.QueryRow(ctx, `SELECT id FROM "user" WHERE id = $1 FOR UPDATE`, string(id)).Scan(&lockedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return user.ErrUserDoesNotExist
	}
	return err
}

func (r *PgxUserRepository) SetPassword(
	ctx context.Context,
	id user.ID,
	password user.PasswordHash,
	at time.Time,
) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE "user" SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		string(id),
		string(password),
		at,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *PgxUserRepository) Update(ctx context.Context, input user.UpdateUserInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`UPDATE "user" SET
			name = COALESCE($2, name),
			photo = COALESCE($3, photo),
			phone = COALESCE($4, phone),
			bio = COALESCE($5, bio),
			updated_at = $6
		WHERE id = $1
		RETURNING `+userColumns,
		string(input.ID),
		encodeText(input.Name),
		encodeText(input.Photo),
		encodeText(input.Phone),
		encodeText(input.Bio),
		input.UpdatedAt,
	)
	return r.get(row)
}

func encodeText(value c.Optional[string]) pgtype.Text {
	if !value.IsPresent {
		return pgtype.Text{Status: pgtype.Null}
	}
	return pgtype.Text{String: value.Value, Status: pgtype.Present}
}

func decodeText(value pgtype.Text) c.Optional[string] {
	return c.NewOptional(value.String, value.Status == pgtype.Present)
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var (
		id, name, email, passwordHash string
		photo, phone, bio             pgtype.Text
		createdAt, updatedAt          time.Time
	)
	err = row.Scan(&id, &name, &email, &passwordHash, &photo, &phone, &bio, &createdAt, &updatedAt)
	if err != nil {
		return u, err
	}
	return user.User{
		ID:           user.ID(id),
		Name:         name,
		Email:        c.Email(email),
		PasswordHash: user.PasswordHash(passwordHash),
		Photo:        decodeText(photo),
		Phone:        decodeText(phone),
		Bio:          decodeText(bio),
		CreatedAt:    createdAt.UTC(),
		UpdatedAt:    updatedAt.UTC(),
	}, nil
}
