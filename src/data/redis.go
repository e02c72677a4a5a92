package data

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	digestPrefix = "dup:"

	// StreamSubmissions carries "new submission pending" notifications from
	// the intake API to the moderation bot. Entries never include the
	// submission body; moderators pull it with the pending command.
	StreamSubmissions = "gossipbox.submissions"
)

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// ReserveDigest claims a submission-text digest for ttl. It returns false
// when the digest is already reserved, meaning an identical text was
// accepted recently.
func ReserveDigest(ctx context.Context, rdb *redis.Client, digest string, ttl time.Duration) (bool, error) {
	return rdb.SetNX(ctx, digestPrefix+digest, "1", ttl).Result()
}

// NotifySubmission appends a new-submission event to the notification stream.
func NotifySubmission(ctx context.Context, rdb *redis.Client, id uint64, lang string, created time.Time) error {
	_, err := rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamSubmissions,
		Values: map[string]interface{}{
			"id":      id,
			"lang":    lang,
			"created": created.Unix(),
		},
	}).Result()
	return err
}
