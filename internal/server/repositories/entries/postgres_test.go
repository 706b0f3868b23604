package entries

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/kaffeekasse/internal/common"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/models"
	"github.com/shopspring/decimal"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func entryColumns() []string {
	return []string{"id", "account_id", "amount", "reason", "created_at"}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+ledger_entries\s*\(account_id,\s*amount,\s*reason,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id\s*$`

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(7))
	mock.ExpectQuery(q).
		WithArgs("a-1", decimal.RequireFromString("-1.50"), "coffee", now).
		WillReturnRows(rows)

	e := &models.LedgerEntry{AccountID: "a-1", Amount: decimal.RequireFromString("-1.50"), Reason: models.ReasonCoffee, CreatedAt: now}
	got, err := repo.Create(context.Background(), e)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 7 {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+ledger_entries`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.LedgerEntry{AccountID: "a-1", Reason: models.ReasonCoffee})
	if !errors.Is(err, common.ErrPersistence) {
		t.Fatalf("want ErrPersistence, got %v", err)
	}
}

func TestListByAccount_CreationOrder(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*account_id,\s*amount,\s*reason,\s*created_at\s+FROM\s+ledger_entries\s+WHERE\s+account_id\s*=\s*\$1\s+ORDER\s+BY\s+id\s*$`

	rows := sqlmock.NewRows(entryColumns()).
		AddRow(int64(1), "a-1", "10.00", "add money", time.Now()).
		AddRow(int64(2), "a-1", "-1.50", "coffee", time.Now())
	mock.ExpectQuery(q).
		WithArgs("a-1").
		WillReturnRows(rows)

	got, err := repo.ListByAccount(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("ListByAccount error: %v", err)
	}
	if len(got) != 2 || got[0].Reason != models.ReasonDeposit || got[1].Reason != models.ReasonCoffee {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestMostRecentByReason_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*account_id,\s*amount,\s*reason,\s*created_at\s+FROM\s+ledger_entries\s+WHERE\s+reason\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s+DESC\s+LIMIT\s+1\s*$`

	last := time.Date(2026, 3, 1, 7, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows(entryColumns()).
		AddRow(int64(42), "a-2", "0.50", "foam system", last)
	mock.ExpectQuery(q).
		WithArgs("foam system").
		WillReturnRows(rows)

	got, err := repo.MostRecentByReason(context.Background(), models.ReasonFoamSystem)
	if err != nil {
		t.Fatalf("MostRecentByReason error: %v", err)
	}
	if got.ID != 42 || !got.CreatedAt.Equal(last) {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestMostRecentByReason_NoneYet(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,.*FROM\s+ledger_entries\s+WHERE\s+reason`).
		WithArgs("deep cleaning").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.MostRecentByReason(context.Background(), models.ReasonDeepCleaning)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestMostRecentByReason_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,.*FROM\s+ledger_entries\s+WHERE\s+reason`).
		WithArgs("coffee").
		WillReturnError(errors.New("db err"))

	_, err := repo.MostRecentByReason(context.Background(), models.ReasonCoffee)
	if !errors.Is(err, common.ErrPersistence) {
		t.Fatalf("want ErrPersistence, got %v", err)
	}
}
