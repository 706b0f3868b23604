package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/kaffeekasse/internal/common"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type balanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

type entryResponse struct {
	ID        int64           `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
	CreatedAt time.Time       `json:"created_at"`
}

type accountResponse struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Balance  decimal.Decimal `json:"balance"`
	IsAdmin  bool            `json:"is_admin"`
}

// writeError translates service sentinels into HTTP statuses. Anything not
// recognized is a 500 with the detail kept out of the response body.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrCooldownActive):
		c.JSON(http.StatusConflict, gin.H{"error": "cooldown active"})
	case errors.Is(err, common.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
	case errors.Is(err, common.ErrCredentialsTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password must be at least 4 characters"})
	case errors.Is(err, common.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
	case errors.Is(err, common.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "email already taken"})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		s.logger.Error(c.Request.Context(), err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := s.users.Register(c.Request.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "username", account.Username)
	c.JSON(http.StatusCreated, toAccountResponse(account))
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *Server) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := s.users.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *Server) balance(c *gin.Context) {
	account, err := s.users.GetAccount(c.Request.Context(), c.GetString(accountIDKey))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, balanceResponse{Balance: account.Balance})
}

func (s *Server) entries(c *gin.Context) {
	entries, err := s.ledger.ListEntries(c.Request.Context(), c.GetString(accountIDKey))
	if err != nil {
		s.writeError(c, err)
		return
	}

	result := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, entryResponse{
			ID:        e.ID,
			Amount:    e.Amount,
			Reason:    string(e.Reason),
			CreatedAt: e.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) coffee(c *gin.Context) {
	s.applyAction(c, s.actions.TakeCoffee)
}

func (s *Server) foamSystem(c *gin.Context) {
	s.applyAction(c, s.actions.FoamSystem)
}

func (s *Server) deepCleaning(c *gin.Context) {
	s.applyAction(c, s.actions.DeepCleaning)
}

func (s *Server) applyAction(c *gin.Context, action func(ctx context.Context, accountID string) (decimal.Decimal, error)) {
	balance, err := action(c.Request.Context(), c.GetString(accountIDKey))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, balanceResponse{Balance: balance})
}

func (s *Server) deposit(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	balance, err := s.actions.Deposit(c.Request.Context(), c.GetString(accountIDKey), req.Amount)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, balanceResponse{Balance: balance})
}

func (s *Server) listAccounts(c *gin.Context) {
	accounts, err := s.users.ListAccounts(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	result := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, toAccountResponse(a))
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) adminAdjust(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	balance, err := s.actions.AdminAdjust(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "Balance adjusted", "account", c.Param("id"), "amount", req.Amount.String())
	c.JSON(http.StatusOK, balanceResponse{Balance: balance})
}

func toAccountResponse(a *models.Account) accountResponse {
	return accountResponse{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		Balance:  a.Balance,
		IsAdmin:  a.IsAdmin,
	}
}
