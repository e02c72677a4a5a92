package discord

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"

	"github.com/gossipbox/gossipbox/src/data"
)

// StreamMonitor watches the intake notification stream and pings the
// moderator channel whenever a new submission lands in the queue.
type StreamMonitor struct {
	session      *discordgo.Session
	rdb          *redis.Client
	modChannelID string
}

func NewStreamMonitor(session *discordgo.Session, rdb *redis.Client, modChannelID string) *StreamMonitor {
	return &StreamMonitor{session: session, rdb: rdb, modChannelID: modChannelID}
}

// Start blocks until ctx is cancelled. New stream entries only carry the
// submission id and language; the body stays in the store until a moderator
// asks for it.
func (m *StreamMonitor) Start(ctx context.Context) {
	lastID := "$"
	for {
		if ctx.Err() != nil {
			return
		}

		res, err := m.rdb.XRead(ctx, &redis.XReadArgs{
			Streams: []string{data.StreamSubmissions, lastID},
			Block:   5 * time.Second,
		}).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("monitor: read stream: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				m.notify(msg.Values)
			}
		}
	}
}

func (m *StreamMonitor) notify(values map[string]interface{}) {
	id, _ := values["id"].(string)
	lang, _ := values["lang"].(string)
	text := fmt.Sprintf("📨 New submission #%s (%s) is pending review. Use !pending to list the queue.", id, lang)
	if _, err := m.session.ChannelMessageSend(m.modChannelID, text); err != nil {
		log.Printf("monitor: notify: %v", err)
	}
}
