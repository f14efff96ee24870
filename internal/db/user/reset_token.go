package user

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/user"
	"accounts/internal/db"
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
)

const resetTokenColumns = `user_id, token_hash, created_at, expires_at`

type PgxResetTokenRepository struct {
	db db.DBTX
}

func NewPgxResetTokenRepository(dbtx db.DBTX) *PgxResetTokenRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxResetTokenRepository{db: dbtx}
}

func (r *PgxResetTokenRepository) GetByUserID(ctx context.Context, userID user.ID) (t user.ResetToken, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+resetTokenColumns+` FROM password_reset_token WHERE user_id = $1`,
		string(userID),
	)
	t, err = scanResetToken(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, user.ErrResetTokenDoesNotExist
	}
	return t, err
}

func (r *PgxResetTokenRepository) DeleteForUser(ctx context.Context, userID user.ID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM password_reset_token WHERE user_id = $1`, string(userID))
	return err
}

func (r *PgxResetTokenRepository) Create(
	ctx context.Context,
	input user.CreateResetTokenInput,
) (t user.ResetToken, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO password_reset_token (user_id, token_hash, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING `+resetTokenColumns,
		string(input.UserID),
		string(input.TokenHash),
		input.CreatedAt,
		input.ExpiresAt,
	)
	return scanResetToken(row)
}

func (r *PgxResetTokenRepository) Consume(
	ctx context.Context,
	hash user.PasswordResetTokenHash,
	at time.Time,
) (t user.ResetToken, err error) {
	row := r.db.QueryRow(
		ctx,
		`DELETE FROM password_reset_token
		WHERE token_hash = $1 AND expires_at > $2
		RETURNING `+resetTokenColumns,
		string(hash),
		at,
	)
	t, err = scanResetToken(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, user.ErrInvalidPasswordResetToken
	}
	return t, err
}

func (r *PgxResetTokenRepository) DeleteExpired(ctx context.Context, at time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM password_reset_token WHERE expires_at <= $1`, at)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanResetToken(row pgx.Row) (t user.ResetToken, err error) {
	var userID, tokenHash string
	var createdAt, expiresAt time.Time
	if err := row.Scan(&userID, &tokenHash, &createdAt, &expiresAt); err != nil {
		return t, err
	}
	return user.ResetToken{
		UserID:    user.ID(userID),
		TokenHash: user.PasswordResetTokenHash(tokenHash),
		CreatedAt: createdAt.UTC(),
		ExpiresAt: expiresAt.UTC(),
	}, nil
}
