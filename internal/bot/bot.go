package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Gateway intents requested by the bot.
const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

// messageCacheSize is the number of messages per channel kept in state so
// that edits and deletes carry the previous version.
const messageCacheSize = 1000

// Bot manages the Discord bot lifecycle and module coordination.
type Bot struct {
	config  *Config
	logger  *slog.Logger
	session *discordgo.Session

	registry   *Registry
	gateway    *Gateway
	dispatcher *Dispatcher
	syncer     *Syncer
	modules    []Module

	done chan struct{}
}

// NewBot creates a new Bot instance with the given configuration.
func NewBot(cfg *Config, logger *slog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	session.Identify.Intents = intents
	session.StateEnabled = true
	session.State.MaxMessageCount = messageCacheSize
	session.SyncEvents = true

	b := &Bot{
		config:   cfg,
		logger:   logger,
		session:  session,
		registry: NewRegistry(cfg.CaseInsensitive),
		gateway:  NewGateway(DefaultEventBufferSize, logger.With("component", "gateway")),
	}

	b.dispatcher = NewDispatcher(DispatcherOptions{
		Registry:    b.registry,
		Parser:      NewParser(b.registry, cfg.CommandPrefix, cfg.MentionTrigger),
		Responders:  SessionResponders{Session: session},
		Permissions: session,
		SelfID:      b.SelfID,
		Logger:      logger.With("component", "dispatcher"),
	})
	b.syncer = NewSyncer(session, 0, logger.With("component", "sync"))
	b.gateway.Attach(session)

	return b, nil
}

// Registry returns the bot's handler registry.
func (b *Bot) Registry() *Registry {
	return b.registry
}

// SelfID returns the bot's user ID, or "" before the gateway is ready.
func (b *Bot) SelfID() string {
	if id := b.gateway.SelfID(); id != "" {
		return id
	}
	if b.session.State != nil && b.session.State.User != nil {
		return b.session.State.User.ID
	}
	return ""
}

// LoadModules discovers modules from catalog and registers them.
func (b *Bot) LoadModules(catalog *Catalog) {
	b.modules = LoadModules(catalog, b.registry, ModuleDependencies{
		Config:   b.config,
		Logger:   b.logger,
		Registry: b.registry,
		Session:  b.session,
		Latency:  b.session.HeartbeatLatency,
		SelfID:   b.SelfID,
	})
}

// Start begins dispatching, connects to Discord, syncs structured commands
// when enabled and sets the presence.
func (b *Bot) Start(ctx context.Context) error {
	b.done = make(chan struct{})
	go func() {
		defer close(b.done)
		if err := b.dispatcher.Run(context.WithoutCancel(ctx), b.gateway.Events()); err != nil {
			b.logger.Error("stopped dispatching events", "error", err)
		}
	}()

	if err := b.Open(); err != nil {
		return err
	}

	if b.config.SyncCommands {
		if _, err := b.SyncCommands(ctx); err != nil {
			b.logger.Error("failed to sync commands", "error", err)
		}
	}

	status := b.config.CommandPrefix + "help"
	if err := b.session.UpdateListeningStatus(status); err != nil {
		b.logger.Warn("failed to update presence", "error", err)
	}

	b.logger.Info("started bot",
		"user_id", b.session.State.User.ID,
		"username", b.session.State.User.Username,
		"guilds", len(b.session.State.Guilds),
	)

	return nil
}

// Open connects to the Discord gateway.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	return nil
}

// SyncCommands publishes the registered structured commands, to the
// configured guild or globally. The session must be open.
func (b *Bot) SyncCommands(ctx context.Context) (SyncResult, error) {
	appID := b.SelfID()
	if appID == "" {
		return SyncResult{}, errors.New("failed to sync commands: session is not ready")
	}

	slash := b.registry.SlashCommands()
	defs := make([]*discordgo.ApplicationCommand, len(slash))
	for i, c := range slash {
		defs[i] = c.Definition
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	return b.syncer.Sync(ctx, appID, b.config.GuildID, defs)
}

// Stop gracefully shuts down the bot.
func (b *Bot) Stop() error {
	err := b.session.Close()

	b.gateway.Close()
	if b.done != nil {
		<-b.done
	}

	// Shutdown modules
	for _, mod := range b.modules {
		sm, ok := mod.(ShutdownModule)
		if !ok {
			continue
		}
		if err := sm.Shutdown(); err != nil {
			b.logger.Warn("failed to shutdown module", "module", mod.Name(), "error", err)
		}
	}

	return err
}
