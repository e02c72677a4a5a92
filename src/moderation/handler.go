package moderation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gossipbox/gossipbox/src/data"
	"github.com/gossipbox/gossipbox/src/types"
)

const (
	defaultListLimit = 10
	maxListLimit     = 50
	previewRunes     = 200

	replyDenied = "⛔ Access denied."
	replyHelp   = "Commands: pending [n], latest [n], approve <id>, publish <id>, reject <id>.\n" +
		"Approved submissions are posted to the channel by the publisher on its schedule."
)

// Store is the persistence surface the handler needs. *data.Store satisfies
// it; tests substitute an in-memory fake.
type Store interface {
	FindByID(ctx context.Context, id uint64) (types.Submission, error)
	ListByStatus(ctx context.Context, status string, limit int, oldestFirst bool) ([]types.Submission, error)
	ListLatest(ctx context.Context, limit int) ([]types.Submission, error)
	SetStatus(ctx context.Context, id uint64, expected, next string) error
}

// Handler executes moderator commands against the store and renders plain
// text replies. It is transport-agnostic: the Discord (or any other) layer
// parses the incoming message into command and args and sends the reply back.
type Handler struct {
	store Store
	mods  Allowlist
}

func NewHandler(store Store, mods Allowlist) *Handler {
	return &Handler{store: store, mods: mods}
}

// Handle authorizes callerID and runs one command. Every reply is safe to
// repeat: re-running a command that already succeeded reports the current
// state instead of failing.
func (h *Handler) Handle(ctx context.Context, callerID, command, args string) string {
	if !h.mods.Authorized(callerID) {
		return replyDenied
	}

	switch strings.ToLower(command) {
	case "start", "help":
		return replyHelp
	case "pending":
		return h.list(ctx, types.StatusPending, args)
	case "latest":
		return h.list(ctx, "", args)
	case "approve", "publish":
		return h.transition(ctx, command, args, types.StatusApproved, "Approved")
	case "reject":
		return h.transition(ctx, command, args, types.StatusRejected, "Rejected")
	default:
		return replyHelp
	}
}

func (h *Handler) list(ctx context.Context, status, args string) string {
	limit := defaultListLimit
	if args != "" {
		n, err := strconv.Atoi(strings.Fields(args)[0])
		if err != nil || n < 1 {
			return "Usage: pending [n] / latest [n]"
		}
		limit = n
		if limit > maxListLimit {
			limit = maxListLimit
		}
	}

	var (
		subs []types.Submission
		err  error
	)
	if status == "" {
		subs, err = h.store.ListLatest(ctx, limit)
	} else {
		subs, err = h.store.ListByStatus(ctx, status, limit, false)
	}
	if err != nil {
		log.Printf("moderation: list %q: %v", status, err)
		return "Store is unavailable, try again later."
	}
	if len(subs) == 0 {
		if status == types.StatusPending {
			return "Queue is empty ✅"
		}
		return "No submissions yet."
	}

	parts := make([]string, len(subs))
	for i, sub := range subs {
		parts[i] = formatSubmission(sub)
	}
	return strings.Join(parts, "\n\n")
}

func (h *Handler) transition(ctx context.Context, command, args, next, verb string) string {
	id, err := parseID(args)
	if err != nil {
		return fmt.Sprintf("Usage: %s <id>", command)
	}

	err = h.store.SetStatus(ctx, id, types.StatusPending, next)
	switch {
	case err == nil:
		return fmt.Sprintf("%s submission #%d ✅", verb, id)
	case errors.Is(err, data.ErrNotFound):
		return fmt.Sprintf("Submission #%d not found.", id)
	case errors.Is(err, data.ErrConflict):
		sub, ferr := h.store.FindByID(ctx, id)
		if ferr != nil {
			return fmt.Sprintf("Submission #%d was already decided.", id)
		}
		return fmt.Sprintf("Submission #%d is already %s.", id, sub.Status)
	default:
		log.Printf("moderation: %s %d: %v", command, id, err)
		return "Store is unavailable, try again later."
	}
}

func parseID(args string) (uint64, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return 0, errors.New("missing id")
	}
	return strconv.ParseUint(strings.TrimPrefix(fields[0], "#"), 10, 64)
}

func formatSubmission(sub types.Submission) string {
	text := sub.Text
	if runes := []rune(text); len(runes) > previewRunes {
		text = string(runes[:previewRunes]) + "…"
	}
	return fmt.Sprintf("#%d [%s] %s\n%s\n%s",
		sub.ID, sub.Lang, sub.Status, text,
		sub.CreatedAt.UTC().Format("2006-01-02 15:04 UTC"))
}
