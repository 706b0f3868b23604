package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/kaffeekasse/internal/common"
	"github.com/dmitrijs2005/kaffeekasse/internal/dbx"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/models"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {

	query :=
		`INSERT INTO accounts (id, username, password_hash, email, balance, is_admin)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.ID, account.Username, account.PasswordHash, account.Email,
		account.Balance, account.IsAdmin).Scan(&account.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query :=
		`SELECT id, username, password_hash, email, balance, is_admin, created_at
		 FROM accounts
		 WHERE id = $1
		 `
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query :=
		`SELECT id, username, password_hash, email, balance, is_admin, created_at
		 FROM accounts
		 WHERE username = $1
		 `
	return r.getOne(ctx, query, username)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT id, username, password_hash, email, balance, is_admin, created_at
		 FROM accounts
		 WHERE email = $1
		 `
	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID, &account.Username, &account.PasswordHash, &account.Email,
		&account.Balance, &account.IsAdmin, &account.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}

	return account, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Account, error) {
	query :=
		`SELECT id, username, password_hash, email, balance, is_admin, created_at
		 FROM accounts
		 ORDER BY username
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	defer rows.Close()

	var result []*models.Account
	for rows.Next() {
		account := &models.Account{}
		if err := rows.Scan(
			&account.ID, &account.Username, &account.PasswordHash, &account.Email,
			&account.Balance, &account.IsAdmin, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
		}
		result = append(result, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	query :=
		`UPDATE accounts SET balance = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, balance)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

var _ Repository = (*PostgresRepository)(nil)
