package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/kaffeekasse/internal/common"
	"github.com/dmitrijs2005/kaffeekasse/internal/dbx"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, accountID string, token string, validity time.Duration) error {

	query :=
		`INSERT INTO refresh_tokens (token, account_id, expires_at)
		 VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, token, accountID, time.Now().Add(validity))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}

	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {

	query :=
		`SELECT token, account_id, expires_at FROM refresh_tokens
		 WHERE token = $1
		 `

	result := &models.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(&result.Token, &result.AccountID, &result.Expires)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) error {

	query := `DELETE FROM refresh_tokens WHERE token = $1`

	_, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}

	return nil
}

var _ Repository = (*PostgresRepository)(nil)
