package bot

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// Embed colors for responses.
const (
	colorYellow = 0xFFFF00
)

// SubcommandArg is the Args key holding the invoked subcommand path,
// e.g. "queue add".
const SubcommandArg = "subcommand"

// Router dispatches structured commands by exact name.
type Router struct {
	registry    *Registry
	containment *Containment
	logger      *slog.Logger
}

// NewRouter creates a structured-command router.
func NewRouter(reg *Registry, containment *Containment, logger *slog.Logger) *Router {
	return &Router{
		registry:    reg,
		containment: containment,
		logger:      logger,
	}
}

// Invoke runs the structured command name for inv inside the containment
// layer. An unknown name is answered with an "Unknown Command" embed and
// reported as *CommandNotFoundError.
func (r *Router) Invoke(ctx context.Context, name string, inv *Invocation) error {
	cmd, ok := r.registry.SlashCommand(name)
	if !ok {
		r.logger.Warn("found no handler for command", "command", name)
		r.respondUnknown(ctx, inv)
		return &CommandNotFoundError{Name: name}
	}
	inv.Slash = cmd

	r.logger.Debug("invoking slash command",
		"command", name,
		"invocation_id", inv.ID,
		"guild_id", inv.GuildID(),
	)
	return r.containment.RunCommand(ctx, inv, cmd.Handler)
}

// HandleInteraction routes an application command interaction. Other
// interaction types are ignored and yield a nil Invocation.
func (r *Router) HandleInteraction(
	ctx context.Context,
	i *discordgo.Interaction,
	responder Responder,
) (*Invocation, error) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil, nil
	}

	data := i.ApplicationCommandData()
	inv := newInvocation()
	inv.Prefix = "/"
	inv.InvokedWith = data.Name
	inv.Interaction = i
	inv.Responder = responder
	flattenOptions(inv.Args, nil, data.Options)

	return inv, r.Invoke(ctx, data.Name, inv)
}

func (r *Router) respondUnknown(ctx context.Context, inv *Invocation) {
	if inv.Responder == nil {
		return
	}
	err := inv.ReplyEmbed(ctx, &discordgo.MessageEmbed{
		Title:       "Unknown Command",
		Description: "This command is not recognized.",
		Color:       colorYellow,
	})
	if err != nil {
		r.logger.Error("failed to send embed response", "error", err)
	}
}

// flattenOptions copies option values into args keyed by option name.
// Subcommand names are collected under SubcommandArg.
func flattenOptions(args Args, path []string, options []*discordgo.ApplicationCommandInteractionDataOption) {
	for _, o := range options {
		switch o.Type {
		case discordgo.ApplicationCommandOptionSubCommandGroup,
			discordgo.ApplicationCommandOptionSubCommand:
			sub := append(slices.Clone(path), o.Name)
			args[SubcommandArg] = strings.Join(sub, " ")
			flattenOptions(args, sub, o.Options)
		case discordgo.ApplicationCommandOptionString:
			args[o.Name] = o.StringValue()
		case discordgo.ApplicationCommandOptionInteger:
			args[o.Name] = o.IntValue()
		case discordgo.ApplicationCommandOptionNumber:
			args[o.Name] = o.FloatValue()
		case discordgo.ApplicationCommandOptionBoolean:
			args[o.Name] = o.BoolValue()
		case discordgo.ApplicationCommandOptionUser,
			discordgo.ApplicationCommandOptionChannel,
			discordgo.ApplicationCommandOptionRole,
			discordgo.ApplicationCommandOptionMentionable:
			raw, _ := o.Value.(string)
			if id, err := snowflake.Parse(raw); err == nil {
				args[o.Name] = id
			}
		default:
			args[o.Name] = o.Value
		}
	}
}
