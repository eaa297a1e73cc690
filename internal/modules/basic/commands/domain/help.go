package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	noDescription       = "No description"
	noDescriptionDetail = "No description available."
)

// MaxFieldValue is Discord's limit on the characters of an embed field value.
const MaxFieldValue = 1024

// CommandSummary is one line of a help listing.
type CommandSummary struct {
	Name        string
	Description string
}

// Line renders the summary, e.g. "`/ping` - Check the bot's latency".
// Slash commands pass "/" as prefix.
func (c CommandSummary) Line(prefix string) string {
	desc := c.Description
	if desc == "" {
		desc = noDescription
	}
	return fmt.Sprintf("`%s%s` - %s", prefix, c.Name, desc)
}

// HelpSection groups the commands of one module.
type HelpSection struct {
	Title    string
	Commands []CommandSummary
}

// Text renders the section body one command per line.
func (s HelpSection) Text(prefix string) string {
	lines := make([]string, len(s.Commands))
	for i, c := range s.Commands {
		lines[i] = c.Line(prefix)
	}
	return strings.Join(lines, "\n")
}

// Pages renders the section like Text, split on line boundaries into chunks
// of at most MaxFieldValue characters. A single line longer than the limit
// is truncated.
func (s HelpSection) Pages(prefix string) []string {
	var (
		pages []string
		cur   strings.Builder
		size  int
	)
	for _, c := range s.Commands {
		line := truncate(c.Line(prefix), MaxFieldValue)
		n := utf8.RuneCountInString(line)
		if size > 0 && size+1+n > MaxFieldValue {
			pages = append(pages, cur.String())
			cur.Reset()
			size = 0
		}
		if size > 0 {
			cur.WriteByte('\n')
			size++
		}
		cur.WriteString(line)
		size += n
	}
	if size > 0 {
		pages = append(pages, cur.String())
	}
	return pages
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

// HelpMenu is the general help listing.
type HelpMenu struct {
	Sections []HelpSection
}

// CommandHelp describes a single command.
type CommandHelp struct {
	Name        string
	Description string
	Usage       string
	Aliases     []string
}

// NewCommandHelp creates a CommandHelp whose usage line is built from the
// invocation prefix and the command signature.
func NewCommandHelp(prefix, name, signature, description string, aliases []string) *CommandHelp {
	if description == "" {
		description = noDescriptionDetail
	}
	return &CommandHelp{
		Name:        name,
		Description: description,
		Usage:       strings.TrimSpace(prefix + name + " " + signature),
		Aliases:     aliases,
	}
}
