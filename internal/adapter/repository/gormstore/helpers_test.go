package gormstore

import (
	"context"
	"testing"
	"time"

	"savings-group-backend/internal/domain/group"
	"savings-group-backend/internal/domain/loan"
	"savings-group-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates an in-memory sqlite DB with the full schema. A single
// connection keeps every query on the same in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedGroup(t *testing.T, db *gorm.DB, members int, savings string) *group.Group {
	t.Helper()
	g := &group.Group{
		GroupID:               id.NewID32(),
		Name:                  "Tanah Abang Savers",
		PresidentID:           "pres",
		MemberCount:           members,
		TotalSavings:          dec(savings),
		TotalOutstandingLoans: decimal.Zero,
	}
	if err := NewGroupRepository(db).Create(context.Background(), g); err != nil {
		t.Fatalf("seed group: %v", err)
	}
	return g
}

func makeRequest(groupID, requester string, createdAt time.Time) *loan.LoanRequest {
	return &loan.LoanRequest{
		LoanID:        id.NewID32(),
		GroupID:       groupID,
		RequesterID:   requester,
		RequesterName: "Requester " + requester,
		Principal:     dec("1000"),
		Installments:  12,
		Rate:          dec("5"),
		Reason:        "stock for the stall",
		AmountPaid:    decimal.Zero,
		State:         loan.StatePending,
		CreatedAt:     createdAt.UTC(),
	}
}

func seedRequest(t *testing.T, db *gorm.DB, groupID, requester string, createdAt time.Time) *loan.LoanRequest {
	t.Helper()
	l := makeRequest(groupID, requester, createdAt)
	if err := NewLoanRepository(db).Create(context.Background(), l); err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return l
}
