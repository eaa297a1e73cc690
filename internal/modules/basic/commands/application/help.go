package application

import (
	"fmt"

	"github.com/sglre6355/cogbot/internal/bot"
	"github.com/sglre6355/cogbot/internal/modules/basic/commands/domain"
)

// Section titles of the slash help listing.
const (
	RegularCommandsTitle = "Regular Commands"
	SlashCommandsTitle   = "Slash Commands"
)

// CommandSource exposes the registered commands. *bot.Registry implements it.
type CommandSource interface {
	Cogs() []*bot.Cog
	Command(name string) (*bot.Command, bool)
	SlashCommands() []*bot.SlashCommand
}

// HelpInteractor handles the help use cases.
type HelpInteractor struct {
	source CommandSource
}

// NewHelpInteractor creates a new HelpInteractor.
func NewHelpInteractor(source CommandSource) *HelpInteractor {
	return &HelpInteractor{source: source}
}

// Menu lists the visible text commands grouped by module.
func (h *HelpInteractor) Menu() *domain.HelpMenu {
	menu := &domain.HelpMenu{}
	for _, cog := range h.source.Cogs() {
		summaries := visible(cog.Commands)
		if len(summaries) == 0 {
			continue
		}
		menu.Sections = append(menu.Sections, domain.HelpSection{
			Title:    cog.Name,
			Commands: summaries,
		})
	}
	return menu
}

// SlashMenu lists all visible text commands and all slash commands.
func (h *HelpInteractor) SlashMenu() *domain.HelpMenu {
	var regular []domain.CommandSummary
	for _, cog := range h.source.Cogs() {
		regular = append(regular, visible(cog.Commands)...)
	}

	var slash []domain.CommandSummary
	for _, c := range h.source.SlashCommands() {
		slash = append(slash, domain.CommandSummary{
			Name:        c.Name(),
			Description: c.Definition.Description,
		})
	}

	return &domain.HelpMenu{Sections: []domain.HelpSection{
		{Title: RegularCommandsTitle, Commands: regular},
		{Title: SlashCommandsTitle, Commands: slash},
	}}
}

// Describe returns the help for one command, looked up by name or alias.
func (h *HelpInteractor) Describe(prefix, name string) (*domain.CommandHelp, error) {
	cmd, ok := h.source.Command(name)
	if !ok {
		return nil, fmt.Errorf("failed to describe %s: %w", name, ErrCommandNotFound)
	}
	return domain.NewCommandHelp(prefix, cmd.Name, cmd.Signature(), cmd.Description, cmd.Aliases), nil
}

func visible(commands []*bot.Command) []domain.CommandSummary {
	var out []domain.CommandSummary
	for _, c := range commands {
		if c.Hidden {
			continue
		}
		out = append(out, domain.CommandSummary{Name: c.Name, Description: c.Description})
	}
	return out
}
