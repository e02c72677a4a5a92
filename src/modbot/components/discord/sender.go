package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// ChannelSender posts approved submissions to the public channel. It
// implements publisher.Sender.
type ChannelSender struct {
	session   *discordgo.Session
	channelID string
}

func NewChannelSender(session *discordgo.Session, channelID string) *ChannelSender {
	return &ChannelSender{session: session, channelID: channelID}
}

func (cs *ChannelSender) Send(ctx context.Context, text string) error {
	msg := fmt.Sprintf("📝 **Anonymous submission**\n%s", text)
	_, err := cs.session.ChannelMessageSendComplex(cs.channelID, &discordgo.MessageSend{
		Content: msg,
		Flags:   discordgo.MessageFlagsSuppressEmbeds,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			// Submitted text must never ping anyone.
			Parse: []discordgo.AllowedMentionType{},
		},
	}, discordgo.WithContext(ctx))
	return err
}
