package bot

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// CommandStore is the subset of the Discord REST API used to sync
// structured commands. *discordgo.Session implements it.
type CommandStore interface {
	ApplicationCommands(
		appID, guildID string,
		options ...discordgo.RequestOption,
	) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommandCreate(
		appID, guildID string,
		cmd *discordgo.ApplicationCommand,
		options ...discordgo.RequestOption,
	) (*discordgo.ApplicationCommand, error)
	ApplicationCommandEdit(
		appID, guildID, cmdID string,
		cmd *discordgo.ApplicationCommand,
		options ...discordgo.RequestOption,
	) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

// SyncResult lists the command names touched by a sync.
type SyncResult struct {
	Created   []string
	Updated   []string
	Deleted   []string
	Unchanged []string
}

// Writes returns the number of write calls the sync performed.
func (r SyncResult) Writes() int {
	return len(r.Created) + len(r.Updated) + len(r.Deleted)
}

// defaultSyncInterval keeps write bursts well under Discord's rate limit.
const defaultSyncInterval = 25 * time.Millisecond

// Syncer publishes structured command definitions to Discord.
type Syncer struct {
	store   CommandStore
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewSyncer creates a Syncer that paces write calls one per interval.
// A non-positive interval selects the default.
func NewSyncer(store CommandStore, interval time.Duration, logger *slog.Logger) *Syncer {
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	return &Syncer{
		store:   store,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger,
	}
}

// Sync makes the remote command set for appID equal to defs. An empty
// guildID syncs global commands. Definitions that already match remotely
// are left untouched, so a repeated sync performs no writes.
func (s *Syncer) Sync(
	ctx context.Context,
	appID, guildID string,
	defs []*discordgo.ApplicationCommand,
) (SyncResult, error) {
	var result SyncResult

	remote, err := s.store.ApplicationCommands(appID, guildID, discordgo.WithContext(ctx))
	if err != nil {
		return result, fmt.Errorf("failed to list commands: %w", err)
	}

	remoteByName := make(map[string]*discordgo.ApplicationCommand, len(remote))
	for _, c := range remote {
		remoteByName[c.Name] = c
	}

	local := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		local[def.Name] = struct{}{}

		existing, ok := remoteByName[def.Name]
		switch {
		case !ok:
			if err := s.wait(ctx); err != nil {
				return result, err
			}
			if _, err := s.store.ApplicationCommandCreate(appID, guildID, def, discordgo.WithContext(ctx)); err != nil {
				return result, fmt.Errorf("failed to create command %s: %w", def.Name, err)
			}
			s.logger.Debug("registered command", "command", def.Name, "guild_id", guildID)
			result.Created = append(result.Created, def.Name)
		case hashCommand(existing) != hashCommand(def):
			if err := s.wait(ctx); err != nil {
				return result, err
			}
			if _, err := s.store.ApplicationCommandEdit(
				appID, guildID, existing.ID, def, discordgo.WithContext(ctx),
			); err != nil {
				return result, fmt.Errorf("failed to update command %s: %w", def.Name, err)
			}
			s.logger.Debug("updated command", "command", def.Name, "guild_id", guildID)
			result.Updated = append(result.Updated, def.Name)
		default:
			result.Unchanged = append(result.Unchanged, def.Name)
		}
	}

	for _, c := range remote {
		if _, ok := local[c.Name]; ok {
			continue
		}
		if err := s.wait(ctx); err != nil {
			return result, err
		}
		if err := s.store.ApplicationCommandDelete(appID, guildID, c.ID, discordgo.WithContext(ctx)); err != nil {
			return result, fmt.Errorf("failed to delete command %s: %w", c.Name, err)
		}
		s.logger.Debug("deleted obsolete command", "command", c.Name, "guild_id", guildID)
		result.Deleted = append(result.Deleted, c.Name)
	}

	s.logger.Info("synced commands",
		"guild_id", guildID,
		"created", len(result.Created),
		"updated", len(result.Updated),
		"deleted", len(result.Deleted),
		"unchanged", len(result.Unchanged),
	)

	return result, nil
}

func (s *Syncer) wait(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for rate limiter: %w", err)
	}
	return nil
}

// hashCommand returns a deterministic SHA-1 of a command's stable fields.
func hashCommand(c *discordgo.ApplicationCommand) string {
	kind := c.Type
	if kind == 0 {
		kind = discordgo.ChatApplicationCommand
	}
	stable := map[string]any{
		"name":        c.Name,
		"description": c.Description,
		"type":        kind,
	}
	if c.DefaultMemberPermissions != nil {
		stable["default_member_permissions"] = *c.DefaultMemberPermissions
	}
	if c.NSFW != nil && *c.NSFW {
		stable["nsfw"] = true
	}
	if len(c.Options) > 0 {
		stable["options"] = normalizeOptions(c.Options)
	}
	data, _ := json.Marshal(stable)
	sum := sha1.Sum(data)
	return fmt.Sprintf("%x", sum)
}

func normalizeOptions(opts []*discordgo.ApplicationCommandOption) []map[string]any {
	out := make([]map[string]any, len(opts))
	for i, o := range opts {
		entry := map[string]any{
			"name":        o.Name,
			"description": o.Description,
			"type":        o.Type,
			"required":    o.Required,
		}
		if o.Autocomplete {
			entry["autocomplete"] = true
		}
		if len(o.ChannelTypes) > 0 {
			entry["channel_types"] = o.ChannelTypes
		}
		if o.MinValue != nil {
			entry["min_value"] = *o.MinValue
		}
		if o.MaxValue != 0 {
			entry["max_value"] = o.MaxValue
		}
		if o.MinLength != nil {
			entry["min_length"] = *o.MinLength
		}
		if o.MaxLength != 0 {
			entry["max_length"] = o.MaxLength
		}
		if len(o.Choices) > 0 {
			choices := make([]map[string]any, len(o.Choices))
			for j, ch := range o.Choices {
				choices[j] = map[string]any{"name": ch.Name, "value": ch.Value}
			}
			entry["choices"] = choices
		}
		if len(o.Options) > 0 {
			entry["options"] = normalizeOptions(o.Options)
		}
		out[i] = entry
	}
	return out
}
