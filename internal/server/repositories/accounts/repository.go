package accounts

import (
	"context"

	"github.com/dmitrijs2005/kaffeekasse/internal/server/models"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
	UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error
}
