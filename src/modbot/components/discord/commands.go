package discord

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/gossipbox/gossipbox/src/moderation"
)

const handleTimeout = 15 * time.Second

// CommandRouter turns Discord messages into moderation commands and sends
// the handler's reply back to the channel the command came from.
type CommandRouter struct {
	handler *moderation.Handler
	prefix  string
}

func NewCommandRouter(handler *moderation.Handler, prefix string) *CommandRouter {
	return &CommandRouter{handler: handler, prefix: prefix}
}

func (r *CommandRouter) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}
	if !strings.HasPrefix(m.Content, r.prefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(m.Content, r.prefix))
	if len(fields) == 0 {
		return
	}
	command := fields[0]
	args := strings.Join(fields[1:], " ")

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	reply := r.handler.Handle(ctx, m.Author.ID, command, args)
	s.ChannelMessageSend(m.ChannelID, reply)
}
