package moderation_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gossipbox/gossipbox/src/data"
	"github.com/gossipbox/gossipbox/src/moderation"
	"github.com/gossipbox/gossipbox/src/publisher"
	"github.com/gossipbox/gossipbox/src/types"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (s *recordingSender) Send(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, text)
	return nil
}

// TestSubmissionLifecycle walks one submission through the whole pipeline:
// accepted as pending, approved by a moderator command, posted to the
// channel by a publisher tick, and idempotent against repeated commands.
func TestSubmissionLifecycle(t *testing.T) {
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
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&types.Submission{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	store := data.NewStore(db)
	handler := moderation.NewHandler(store, moderation.NewAllowlist([]string{"mod-1"}))
	sender := &recordingSender{}
	pub := publisher.New(store, sender, time.Second, 5)

	sub, err := store.Insert(ctx, data.InsertParams{
		Text: "Saw something odd downtown today",
		Lang: "en",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if sub.Status != types.StatusPending {
		t.Fatalf("initial status = %q, want pending", sub.Status)
	}

	// A publisher tick before approval must publish nothing.
	pub.Tick(ctx)
	if len(sender.sent) != 0 {
		t.Fatal("pending submission was sent to the channel")
	}

	reply := handler.Handle(ctx, "mod-1", "publish", "1")
	if !strings.Contains(reply, "Approved submission #1") {
		t.Fatalf("publish reply = %q", reply)
	}

	pub.Tick(ctx)
	if len(sender.sent) != 1 || sender.sent[0] != "Saw something odd downtown today" {
		t.Fatalf("channel got %v", sender.sent)
	}

	got, err := store.FindByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != types.StatusPublished {
		t.Fatalf("status = %q, want published", got.Status)
	}

	// Re-running the command reports the terminal state, no second send.
	reply = handler.Handle(ctx, "mod-1", "publish", "1")
	if !strings.Contains(reply, "already published") {
		t.Errorf("second publish reply = %q", reply)
	}
	pub.Tick(ctx)
	if len(sender.sent) != 1 {
		t.Errorf("channel got %d sends, want 1", len(sender.sent))
	}
}
