package loan

import (
	"context"
	"sync"
	"testing"
	"time"

	"savings-group-backend/internal/adapter/repository/gormstore"
	"savings-group-backend/internal/domain/identity"
	groupuc "savings-group-backend/internal/usecase/group"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	store  *gormstore.GormUoW
	clock  *fakeClock
	loans  *Usecase
	groups *groupuc.Usecase
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newFixture(t *testing.T) *fixture {
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
	if err := gormstore.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store := gormstore.NewGormUoW(db)
	clock := &fakeClock{now: time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)}
	return &fixture{
		store:  store,
		clock:  clock,
		loans:  NewUsecase(store.Repos(), store, identity.ContextProvider{}, WithClock(clock.Now)),
		groups: groupuc.NewUsecase(store.Repos(), store, 3),
	}
}

// seedGroup creates a group presided by "pres" and deposits the opening savings.
func (f *fixture) seedGroup(t *testing.T, members int, savings string) string {
	t.Helper()
	ctx := context.Background()
	g, err := f.groups.Create(ctx, groupuc.CreateGroupInput{Name: "Mercado Norte", PresidentID: "pres", MemberCount: members})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if s := dec(savings); s.IsPositive() {
		if _, err := f.groups.Deposit(ctx, groupuc.MovementInput{GroupID: g.GroupID, MemberID: "pres", Amount: s}); err != nil {
			t.Fatalf("deposit: %v", err)
		}
	}
	return g.GroupID
}

// scenarioRequest is the 1000 / 12 installments / 5% loan requested by "x".
func (f *fixture) scenarioRequest(t *testing.T, groupID string) *LoanDTO {
	t.Helper()
	dto, err := f.loans.CreateRequest(context.Background(), CreateRequestInput{
		GroupID:       groupID,
		RequesterID:   "x",
		RequesterName: "Xiomara",
		Principal:     dec("1000"),
		Installments:  12,
		Rate:          dec("5"),
		Reason:        "sewing machine",
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	return dto
}

func (f *fixture) vote(loanID, voter string, approve bool, members int) (*VoteResultDTO, error) {
	return f.loans.CastVote(context.Background(), CastVoteInput{
		LoanID:       loanID,
		VoterID:      voter,
		VoterName:    "Member " + voter,
		Approve:      approve,
		TotalMembers: members,
	})
}

// approved takes a five-member request through a 3-1 vote.
func (f *fixture) approved(t *testing.T) (groupID, loanID string) {
	t.Helper()
	groupID = f.seedGroup(t, 5, "5000")
	loanID = f.scenarioRequest(t, groupID).LoanID
	for i, v := range []struct {
		id      string
		approve bool
	}{{"v1", true}, {"v2", true}, {"v3", false}, {"v4", true}} {
		f.clock.Advance(time.Minute)
		if _, err := f.vote(loanID, v.id, v.approve, 5); err != nil {
			t.Fatalf("vote %d: %v", i, err)
		}
	}
	return groupID, loanID
}

// assertConserved checks Σ ledger entries == TotalSavings for the group.
func (f *fixture) assertConserved(t *testing.T, groupID string) {
	t.Helper()
	ctx := context.Background()
	repos := f.store.Repos()
	sum, err := repos.Ledger.SumByGroup(ctx, groupID)
	if err != nil {
		t.Fatalf("sum ledger: %v", err)
	}
	g, err := repos.Groups.GetByGroupID(ctx, groupID)
	if err != nil {
		t.Fatalf("get group: %v", err)
	}
	if !sum.Equal(g.TotalSavings) {
		t.Fatalf("ledger sum %s != total savings %s", sum, g.TotalSavings)
	}
}
