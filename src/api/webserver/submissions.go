package webserver

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/gossipbox/gossipbox/src/data"
	"github.com/gossipbox/gossipbox/src/intake"
)

// digestTTL is how long an accepted text blocks identical resubmissions.
const digestTTL = 24 * time.Hour

type Submissions struct {
	store    *data.Store
	rdb      *redis.Client
	detector intake.Detector
}

func NewSubmissions(store *data.Store, rdb *redis.Client, detector intake.Detector) Submissions {
	return Submissions{store: store, rdb: rdb, detector: detector}
}

// Create accepts an anonymous submission. The reply carries only the opaque
// receipt id; the caller identity (IP, User-Agent) is reduced to the stored
// fingerprint and signature and never echoed back.
func (h Submissions) Create(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
		Lang string `json:"lang"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad request"})
		return
	}

	text, lang, err := intake.Validate(req.Text, req.Lang)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"err": "invalid_length"})
		return
	}

	if h.detector.LooksLikePII(text) {
		// The text itself is discarded, not stored and not logged.
		c.JSON(http.StatusUnprocessableEntity, gin.H{"err": "pii_detected"})
		return
	}

	if h.rdb != nil {
		ok, err := data.ReserveDigest(c.Request.Context(), h.rdb, intake.TextDigest(text), digestTTL)
		if err != nil {
			// Degrade to accepting: the guard is opportunistic.
			log.Printf("submissions: duplicate guard: %v", err)
		} else if !ok {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"err": "duplicate"})
			return
		}
	}

	sub, err := h.store.Insert(c.Request.Context(), data.InsertParams{
		Text:            text,
		Lang:            lang,
		Fingerprint:     intake.Fingerprint(c.ClientIP()),
		ClientSignature: intake.ClientSignature(c.Request.UserAgent()),
	})
	if err != nil {
		log.Printf("submissions: insert: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "server error"})
		return
	}

	if h.rdb != nil {
		if err := data.NotifySubmission(c.Request.Context(), h.rdb, sub.ID, sub.Lang, sub.CreatedAt); err != nil {
			log.Printf("submissions: notify: %v", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"id": sub.PublicID})
}
