package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gossipbox/gossipbox/src/types"
)

var (
	// ErrNotFound means the referenced submission does not exist.
	ErrNotFound = errors.New("submission not found")
	// ErrConflict means a conditional status update lost: the record's
	// current status no longer matches the expected one.
	ErrConflict = errors.New("submission status changed concurrently")
)

// InsertParams is an accepted submission draft. Validation happens before
// the store is ever touched; the store never holds an invalid record.
type InsertParams struct {
	Text            string
	Lang            string
	Fingerprint     string
	ClientSignature string
}

// Store is the long-lived persistence handle shared by the intake API, the
// moderation handler and the publisher. All cross-activity coordination goes
// through SetStatus, so no in-process locking is needed anywhere above it.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Insert persists a draft as a new pending submission and returns the stored
// record with its identifiers assigned.
func (s *Store) Insert(ctx context.Context, p InsertParams) (types.Submission, error) {
	sub := types.Submission{
		PublicID:        uuid.NewString(),
		Text:            p.Text,
		Lang:            p.Lang,
		Status:          types.StatusPending,
		Fingerprint:     p.Fingerprint,
		ClientSignature: p.ClientSignature,
	}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		return types.Submission{}, fmt.Errorf("insert submission: %w", err)
	}
	return sub, nil
}

func (s *Store) FindByID(ctx context.Context, id uint64) (types.Submission, error) {
	var sub types.Submission
	err := s.db.WithContext(ctx).First(&sub, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.Submission{}, ErrNotFound
	}
	if err != nil {
		return types.Submission{}, fmt.Errorf("find submission %d: %w", id, err)
	}
	return sub, nil
}

// ListByStatus returns up to limit submissions in the given status, ordered
// by creation time with ties broken by id. oldestFirst selects FIFO order
// (publisher fairness); otherwise newest first (moderator review).
func (s *Store) ListByStatus(ctx context.Context, status string, limit int, oldestFirst bool) ([]types.Submission, error) {
	order := "created_at DESC, id DESC"
	if oldestFirst {
		order = "created_at ASC, id ASC"
	}
	var subs []types.Submission
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order(order).
		Limit(limit).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("list %s submissions: %w", status, err)
	}
	return subs, nil
}

// ListLatest returns the newest submissions across all statuses.
func (s *Store) ListLatest(ctx context.Context, limit int) ([]types.Submission, error) {
	var subs []types.Submission
	err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("list latest submissions: %w", err)
	}
	return subs, nil
}

// SetStatus performs the conditional transition expected -> next. The update
// only lands when the record still holds the expected status at write time;
// a lost race or an already-decided record yields ErrConflict, a missing
// record ErrNotFound. This single conditional write is what makes every
// transition at-most-once under concurrent moderators and publisher ticks.
func (s *Store) SetStatus(ctx context.Context, id uint64, expected, next string) error {
	res := s.db.WithContext(ctx).
		Model(&types.Submission{}).
		Where("id = ? AND status = ?", id, expected).
		Update("status", next)
	if res.Error != nil {
		return fmt.Errorf("set status %d %s->%s: %w", id, expected, next, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.FindByID(ctx, id); errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return ErrConflict
	}
	return nil
}
