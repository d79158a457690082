package handlers

import (
	"strings"

	"github.com/cory-johannsen/encounter/internal/frontend/telnet"
	"github.com/cory-johannsen/encounter/internal/game/combat"
)

const meterWidth = 20

// ActionPrompt is written whenever the player's turn begins.
var ActionPrompt = telnet.Colorize(telnet.BrightCyan, "[a]ttack [d]efend [e]lement [i]tem > ")

// RenderBackdrop formats a backdrop id as a scene heading.
func RenderBackdrop(id string) string {
	title := strings.ReplaceAll(id, "_", " ")
	if title == "" {
		title = "darkness"
	}
	return telnet.Colorf(telnet.BrightYellow, "~ %s ~", strings.ToUpper(title[:1])+title[1:])
}

// RenderStats formats the player and ally status lines with HP gauges
// scaled against playerMax and allyMax.
func RenderStats(player, ally *combat.Combatant, playerMax, allyMax int) string {
	return renderCombatant(player, playerMax) + "\r\n" + renderCombatant(ally, allyMax)
}

// RenderEnemies formats one line per enemy, dead ones dimmed.
func RenderEnemies(enemies []*combat.Combatant) string {
	lines := make([]string, len(enemies))
	for i, e := range enemies {
		if !e.Alive {
			lines[i] = telnet.Colorf(telnet.BrightBlack, "  %d. %s (fallen)", i+1, e.DisplayName())
			continue
		}
		lines[i] = telnet.Colorf(telnet.Red, "  %d. %-12s HP %3d", i+1, e.DisplayName(), e.HP)
	}
	return strings.Join(lines, "\r\n")
}

// RenderLog colors a combat log line by what it reports.
func RenderLog(text string) string {
	switch {
	case strings.HasPrefix(text, "Victory"):
		return telnet.Colorize(telnet.Bold+telnet.BrightGreen, text)
	case strings.HasPrefix(text, "Defeat"):
		return telnet.Colorize(telnet.Bold+telnet.BrightRed, text)
	case strings.HasPrefix(text, "Round "):
		return telnet.Colorize(telnet.BrightMagenta, text)
	case strings.HasPrefix(text, "The "):
		return telnet.Colorize(telnet.Yellow, text)
	default:
		return telnet.Colorize(telnet.White, text)
	}
}

func renderCombatant(c *combat.Combatant, maxHP int) string {
	color := telnet.Green
	if !c.Alive {
		color = telnet.BrightBlack
	}
	return telnet.Colorf(color, "%-12s HP %3d %s  Sanity %3d",
		c.DisplayName(), c.HP, telnet.Meter(c.HP, maxHP, meterWidth), c.Sanity)
}
