package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"

	botdiscord "github.com/gossipbox/gossipbox/src/modbot/components/discord"
	"github.com/gossipbox/gossipbox/src/modbot/config"

	"github.com/gossipbox/gossipbox/src/data"
	"github.com/gossipbox/gossipbox/src/moderation"
	"github.com/gossipbox/gossipbox/src/publisher"
)

// Bot owns the Discord session and the background activities that share the
// store with it: the publisher and the new-submission monitor.
type Bot struct {
	session *discordgo.Session
	store   *data.Store
	rdb     *redis.Client
	cfg     config.Config
	router  *botdiscord.CommandRouter
	pub     *publisher.Publisher
	monitor *botdiscord.StreamMonitor
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started sync.Once
}

func NewBot(cfg config.Config, store *data.Store, rdb *redis.Client) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	b := &Bot{
		session: dg,
		store:   store,
		rdb:     rdb,
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
	}

	handler := moderation.NewHandler(store, moderation.NewAllowlist(cfg.Moderators))
	b.router = botdiscord.NewCommandRouter(handler, cfg.CommandPrefix)

	if cfg.PollInterval > 0 && cfg.PublishChannelID != "" {
		sender := botdiscord.NewChannelSender(dg, cfg.PublishChannelID)
		b.pub = publisher.New(store, sender,
			time.Duration(cfg.PollInterval)*time.Second, cfg.BatchLimit)
	} else {
		log.Println("publisher disabled: set POLL_INTERVAL and PUBLISH_CHANNEL_ID to enable")
	}

	if rdb != nil && cfg.ModChannelID != "" {
		b.monitor = botdiscord.NewStreamMonitor(dg, rdb, cfg.ModChannelID)
	}

	dg.AddHandler(b.handleReady)
	dg.AddHandler(b.router.HandleMessage)
	dg.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsGuilds

	return b, nil
}

func (b *Bot) Start() error {
	return b.session.Open()
}

func (b *Bot) Stop() {
	b.cancel()
	b.wg.Wait()
	b.session.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Printf("Moderation bot logged in as %s (moderators=%d)",
		event.User.Username, len(b.cfg.Moderators))

	// Ready fires again on gateway reconnects; the publisher must stay
	// single-flight, so the background work starts exactly once.
	b.started.Do(func() {
		if b.pub != nil {
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.pub.Run(b.ctx)
			}()
		}

		if b.monitor != nil {
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.monitor.Start(b.ctx)
			}()
		}
	})
}

func main() {
	cfg := config.Load()

	db := data.MustMySQL(cfg.MySQLDSN)
	store := data.NewStore(db)

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb = data.MustRedis(cfg.RedisURL)
	}

	bot, err := NewBot(cfg, store, rdb)
	if err != nil {
		log.Fatalf("create bot: %v", err)
	}
	if err := bot.Start(); err != nil {
		log.Fatalf("start bot: %v", err)
	}
	log.Println("Moderation bot is running. Press CTRL-C to exit.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	<-sc

	bot.Stop()
	log.Println("Moderation bot stopped gracefully")
}
