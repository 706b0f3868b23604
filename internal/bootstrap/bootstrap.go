// Package bootstrap creates the first administrator account on a fresh
// installation.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/kaffeekasse/internal/common"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/models"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const minCredentialLength = 4

// CreateAdmin creates an administrator account with a zero balance. The
// username must be free.
func CreateAdmin(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager, username, email string, password []byte) (*models.Account, error) {

	if len(username) < minCredentialLength || len(password) < minCredentialLength {
		return nil, common.ErrCredentialsTooShort
	}

	repo := rm.Accounts(db)

	if _, err := repo.GetByUsername(ctx, username); err == nil {
		return nil, common.ErrUsernameTaken
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("checking username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	account := &models.Account{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Balance:      decimal.Zero,
		IsAdmin:      true,
	}

	return repo.Create(ctx, account)
}
