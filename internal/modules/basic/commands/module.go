package commands

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sglre6355/cogbot/internal/bot"
	"github.com/sglre6355/cogbot/internal/modules/basic/commands/application"
	"github.com/sglre6355/cogbot/internal/modules/basic/commands/presentation"
)

func init() {
	bot.Provide("basic/commands", &Module{})
}

// Module provides the ping and help commands in text and slash form.
type Module struct {
	pingHandler *presentation.PingHandler
	helpHandler *presentation.HelpHandler
}

// Name returns the module name.
func (m *Module) Name() string {
	return "basic_commands"
}

// Setup declares the module's commands.
func (m *Module) Setup(b *bot.Builder) error {
	deps := b.Deps()
	logger := deps.Logger.With("module", m.Name())

	m.pingHandler = presentation.NewPingHandler(application.NewPingInteractor(deps.Latency), logger)
	m.helpHandler = presentation.NewHelpHandler(application.NewHelpInteractor(deps.Registry), logger)

	b.Command(&bot.Command{
		Name:        "ping",
		Description: "Check the bot's latency",
		Handler:     m.pingHandler.HandleText,
	})
	b.Command(&bot.Command{
		Name:        "help",
		Description: "Shows the help menu",
		Params: []bot.Param{
			{Name: presentation.CommandNameArg, Type: bot.ParamString},
		},
		Handler: m.helpHandler.HandleText,
	})

	b.SlashCommand(&bot.SlashCommand{
		Definition: &discordgo.ApplicationCommand{
			Name:        "ping",
			Description: "Check the bot's latency",
		},
		Handler: m.pingHandler.HandleSlash,
	})
	b.SlashCommand(&bot.SlashCommand{
		Definition: &discordgo.ApplicationCommand{
			Name:        "help",
			Description: "Shows the help menu",
		},
		Handler: m.helpHandler.HandleSlash,
	})

	return nil
}
