// Package httpapi exposes the ledger, the action catalog and account
// management over a JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/kaffeekasse/internal/logging"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/models"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// UserOperations is the account-facing surface of the user service.
type UserOperations interface {
	Register(ctx context.Context, username, password, email string) (*models.Account, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]*models.Account, error)
}

// ActionOperations is the closed set of balance-changing operations.
type ActionOperations interface {
	TakeCoffee(ctx context.Context, accountID string) (decimal.Decimal, error)
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error)
	FoamSystem(ctx context.Context, accountID string) (decimal.Decimal, error)
	DeepCleaning(ctx context.Context, accountID string) (decimal.Decimal, error)
	AdminAdjust(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error)
}

// LedgerQueries is the read side of the ledger.
type LedgerQueries interface {
	ListEntries(ctx context.Context, accountID string) ([]*models.LedgerEntry, error)
}

type Server struct {
	address   string
	logger    logging.Logger
	users     UserOperations
	actions   ActionOperations
	ledger    LedgerQueries
	jwtSecret []byte
}

func NewServer(a string, l logging.Logger, us UserOperations, ac ActionOperations, le LedgerQueries, secretKey string) *Server {
	return &Server{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		actions:   ac,
		ledger:    le,
		jwtSecret: []byte(secretKey),
	}
}

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/health", s.health)
	api.POST("/register", s.register)
	api.POST("/login", s.login)
	api.POST("/refresh", s.refresh)

	authorized := api.Group("/")
	authorized.Use(s.accessTokenMiddleware())
	{
		authorized.GET("/balance", s.balance)
		authorized.GET("/entries", s.entries)
		authorized.POST("/coffee", s.coffee)
		authorized.POST("/deposit", s.deposit)
		authorized.POST("/clean/foam-system", s.foamSystem)
		authorized.POST("/clean/deep-cleaning", s.deepCleaning)
	}

	admin := authorized.Group("/admin")
	admin.Use(s.adminOnlyMiddleware())
	{
		admin.GET("/accounts", s.listAccounts)
		admin.POST("/accounts/:id/adjust", s.adminAdjust)
	}

	return r
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{Addr: s.address, Handler: s.router()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
