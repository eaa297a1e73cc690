package presentation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/cogbot/internal/bot"
	"github.com/sglre6355/cogbot/internal/modules/basic/commands/application"
	"github.com/sglre6355/cogbot/internal/modules/basic/commands/domain"
)

// Embed colors for responses.
const (
	colorGreen = 0x2ECC71
	colorBlue  = 0x3498DB
)

// CommandNameArg is the parameter of the help command.
const CommandNameArg = "command_name"

// PingHandler handles the ping commands.
type PingHandler struct {
	interactor *application.PingInteractor
	logger     *slog.Logger
}

// NewPingHandler creates a new PingHandler.
func NewPingHandler(interactor *application.PingInteractor, logger *slog.Logger) *PingHandler {
	return &PingHandler{
		interactor: interactor,
		logger:     logger,
	}
}

// HandleText answers "Pinging..." and edits the reply into the latency report.
func (h *PingHandler) HandleText(ctx context.Context, inv *bot.Invocation) error {
	start := time.Now()
	msg, err := inv.Responder.Send(ctx, &discordgo.MessageSend{Content: "Pinging..."})
	if err != nil {
		return fmt.Errorf("failed to send ping message: %w", err)
	}
	report := h.interactor.Execute(time.Since(start))

	h.logger.Info("ping command used",
		"user", inv.AuthorName(),
		"latency_ms", report.BotMillis(),
	)

	_, err = inv.Responder.Edit(ctx, msg, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{pongEmbed(report)},
	})
	return err
}

// HandleSlash defers the interaction and follows up with the latency report.
func (h *PingHandler) HandleSlash(ctx context.Context, inv *bot.Invocation) error {
	start := time.Now()
	if err := inv.Responder.Defer(ctx); err != nil {
		return fmt.Errorf("failed to defer ping response: %w", err)
	}
	report := h.interactor.Execute(time.Since(start))

	h.logger.Info("slash ping command used",
		"user", inv.AuthorName(),
		"latency_ms", report.BotMillis(),
	)

	_, err := inv.Responder.Followup(ctx, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{pongEmbed(report)},
	})
	return err
}

func pongEmbed(report *domain.LatencyReport) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Pong! 🏓",
		Color: colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Bot Latency", Value: fmt.Sprintf("%dms", report.BotMillis()), Inline: true},
			{Name: "API Latency", Value: fmt.Sprintf("%dms", report.APIMillis()), Inline: true},
		},
	}
}

// HelpHandler handles the help commands.
type HelpHandler struct {
	interactor *application.HelpInteractor
	logger     *slog.Logger
}

// NewHelpHandler creates a new HelpHandler.
func NewHelpHandler(interactor *application.HelpInteractor, logger *slog.Logger) *HelpHandler {
	return &HelpHandler{
		interactor: interactor,
		logger:     logger,
	}
}

// HandleText shows the general help menu, or the usage of one command.
func (h *HelpHandler) HandleText(ctx context.Context, inv *bot.Invocation) error {
	name := inv.Args.String(CommandNameArg)
	if name == "" {
		h.logger.Info("general help command used", "user", inv.AuthorName())
		return inv.ReplyEmbed(ctx, menuEmbed(inv.Prefix, h.interactor.Menu()))
	}

	help, err := h.interactor.Describe(inv.Prefix, name)
	if errors.Is(err, application.ErrCommandNotFound) {
		return inv.Reply(ctx, fmt.Sprintf("Command `%s` not found.", name))
	}
	if err != nil {
		return err
	}

	h.logger.Info("help command used", "user", inv.AuthorName(), "command", name)

	embed := &discordgo.MessageEmbed{
		Title:       "Help: " + help.Name,
		Description: help.Description,
		Color:       colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Usage", Value: "`" + help.Usage + "`"},
		},
	}
	if len(help.Aliases) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Aliases",
			Value: "`" + strings.Join(help.Aliases, "`, `") + "`",
		})
	}
	return inv.ReplyEmbed(ctx, embed)
}

// HandleSlash lists the regular and slash commands.
func (h *HelpHandler) HandleSlash(ctx context.Context, inv *bot.Invocation) error {
	h.logger.Info("slash help command used", "user", inv.AuthorName())

	menu := h.interactor.SlashMenu()
	embed := &discordgo.MessageEmbed{
		Title:       "Bot Help Menu",
		Description: "Below are the available commands:",
		Color:       colorBlue,
	}
	for _, section := range menu.Sections {
		prefix := ""
		if section.Title == application.SlashCommandsTitle {
			prefix = "/"
		}
		pages := section.Pages(prefix)
		if len(pages) == 0 {
			pages = []string{"No commands available"}
		}
		embed.Fields = append(embed.Fields, sectionFields(section.Title, pages)...)
	}
	return inv.ReplyEmbed(ctx, embed)
}

func menuEmbed(prefix string, menu *domain.HelpMenu) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "Bot Help Menu",
		Description: fmt.Sprintf("Use `%shelp <command>` for more information on a command.", prefix),
		Color:       colorBlue,
	}
	for _, section := range menu.Sections {
		embed.Fields = append(embed.Fields, sectionFields(section.Title, section.Pages(""))...)
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Slash Commands",
		Value: "Type `/` to see available slash commands.",
	})
	return embed
}

// sectionFields spreads a section over as many fields as its pages need.
func sectionFields(title string, pages []string) []*discordgo.MessageEmbedField {
	fields := make([]*discordgo.MessageEmbedField, len(pages))
	for i, page := range pages {
		name := title
		if i > 0 {
			name = fmt.Sprintf("%s (cont. %d)", title, i+1)
		}
		fields[i] = &discordgo.MessageEmbedField{Name: name, Value: page}
	}
	return fields
}
