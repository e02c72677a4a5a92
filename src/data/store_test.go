package data

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gossipbox/gossipbox/src/types"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// One connection so every query sees the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&types.Submission{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewStore(db), db
}

func mustInsert(t *testing.T, s *Store, text string) types.Submission {
	t.Helper()
	sub, err := s.Insert(context.Background(), InsertParams{
		Text: text,
		Lang: "en",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	return sub
}

func TestInsertDefaults(t *testing.T) {
	s, _ := newTestStore(t)

	sub, err := s.Insert(context.Background(), InsertParams{
		Text:            "something worth moderating",
		Lang:            "ru",
		Fingerprint:     "deadbeefdeadbeef",
		ClientSignature: "Mozilla/5.0",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if sub.ID == 0 {
		t.Error("id was not assigned")
	}
	if len(sub.PublicID) != 36 {
		t.Errorf("public id = %q, want a uuid", sub.PublicID)
	}
	if sub.Status != types.StatusPending {
		t.Errorf("status = %q, want pending", sub.Status)
	}
	if sub.CreatedAt.IsZero() {
		t.Error("created_at was not set")
	}

	got, err := s.FindByID(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != types.StatusPending || got.Text != sub.Text {
		t.Errorf("stored record mismatch: %+v", got)
	}
}

func TestFindByIDNotFound(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.FindByID(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSetStatusConditional(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	sub := mustInsert(t, s, "something worth moderating")

	if err := s.SetStatus(ctx, sub.ID, types.StatusPending, types.StatusApproved); err != nil {
		t.Fatalf("pending->approved: %v", err)
	}

	// Repeating the same transition must conflict, not overwrite.
	err := s.SetStatus(ctx, sub.ID, types.StatusPending, types.StatusApproved)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("second approve err = %v, want ErrConflict", err)
	}

	// A reject of an already-approved record must conflict too.
	err = s.SetStatus(ctx, sub.ID, types.StatusPending, types.StatusRejected)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("reject after approve err = %v, want ErrConflict", err)
	}

	if err := s.SetStatus(ctx, sub.ID, types.StatusApproved, types.StatusPublished); err != nil {
		t.Fatalf("approved->published: %v", err)
	}

	got, err := s.FindByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != types.StatusPublished {
		t.Errorf("status = %q, want published", got.Status)
	}

	err = s.SetStatus(ctx, 9999, types.StatusPending, types.StatusApproved)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing record err = %v, want ErrNotFound", err)
	}
}

func TestListOrdering(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()

	first := mustInsert(t, s, "first submission text")
	second := mustInsert(t, s, "second submission text")
	third := mustInsert(t, s, "third submission text")

	// Force identical timestamps so ordering falls back to the id tie-break.
	stamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := db.Model(&types.Submission{}).
		Where("1 = 1").
		Update("created_at", stamp).Error; err != nil {
		t.Fatalf("rewrite created_at: %v", err)
	}

	newest, err := s.ListByStatus(ctx, types.StatusPending, 10, false)
	if err != nil {
		t.Fatalf("list newest: %v", err)
	}
	if len(newest) != 3 || newest[0].ID != third.ID || newest[2].ID != first.ID {
		t.Errorf("newest-first order wrong: %v", ids(newest))
	}

	oldest, err := s.ListByStatus(ctx, types.StatusPending, 10, true)
	if err != nil {
		t.Fatalf("list oldest: %v", err)
	}
	if len(oldest) != 3 || oldest[0].ID != first.ID || oldest[2].ID != third.ID {
		t.Errorf("oldest-first order wrong: %v", ids(oldest))
	}

	limited, err := s.ListByStatus(ctx, types.StatusPending, 2, true)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 || limited[0].ID != first.ID || limited[1].ID != second.ID {
		t.Errorf("limited order wrong: %v", ids(limited))
	}
}

func TestListByStatusFilters(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a := mustInsert(t, s, "stays in the queue!!")
	b := mustInsert(t, s, "gets approved today!!")
	if err := s.SetStatus(ctx, b.ID, types.StatusPending, types.StatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}

	pending, err := s.ListByStatus(ctx, types.StatusPending, 10, false)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != a.ID {
		t.Errorf("pending = %v, want [%d]", ids(pending), a.ID)
	}

	latest, err := s.ListLatest(ctx, 10)
	if err != nil {
		t.Fatalf("list latest: %v", err)
	}
	if len(latest) != 2 {
		t.Errorf("latest = %v, want both records", ids(latest))
	}
}

func ids(subs []types.Submission) []uint64 {
	out := make([]uint64, len(subs))
	for i, s := range subs {
		out[i] = s.ID
	}
	return out
}
