package main

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/jwebster45206/ether-engine/pkg/state"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// titleize turns a snake_case id into a display name.
func titleize(id string) string {
	return titleCaser.String(strings.ReplaceAll(id, "_", " "))
}

// writeScene describes whatever the player is currently facing.
func writeScene(v state.View, eligible []string, width int) string {
	var b strings.Builder
	wrap := func(s string) string { return wordwrap.String(s, max(width, 20)) }

	switch v.Phase() {
	case "over":
		b.WriteString(errorStyle.Render("The run is over.") + "\n")
		b.WriteString("Type /new to start again.\n")

	case "battle":
		ab := v.ActiveBattle()
		b.WriteString(titleStyle.Render("BATTLE") + "\n\n")
		fmt.Fprintf(&b, "A fight breaks out at %s (%s).\n", ab.NodeID, ab.Source)
		fmt.Fprintf(&b, "Rewards: %s\n\n", formatResources(ab.Rewards.Gold, ab.Rewards.Loot, ab.Rewards.EtherPts))
		b.WriteString(promptStyle.Render("Report the result with /win <hp> or /lose <hp>, or /flee.") + "\n")

	case "event":
		ev := v.ActiveEvent()
		def := ev.Definition
		b.WriteString(titleStyle.Render(strings.ToUpper(cmp.Or(def.Title, titleize(def.ID)))) + "\n\n")
		text := def.Text
		if ev.CurrentStage != "" {
			text = def.Stages[ev.CurrentStage].Text
		}
		b.WriteString(narratorStyle.Render(wrap(text)) + "\n\n")
		for _, c := range def.ChoicesAt(ev.CurrentStage) {
			line := fmt.Sprintf("• %s: %s", c.ID, c.Label)
			if slices.Contains(eligible, c.ID) {
				b.WriteString(userStyle.Render(line) + "\n")
			} else {
				b.WriteString(promptStyle.Render(line+" (unavailable)") + "\n")
			}
		}
		b.WriteString("\n" + promptStyle.Render("/choose <choice>") + "\n")

	case "shop":
		shop := v.ActiveShop()
		b.WriteString(titleStyle.Render(strings.ToUpper(titleize(shop.MerchantType))) + "\n\n")
		for i, e := range shop.Entries {
			line := fmt.Sprintf("%d. %-8s %-20s %4dg", i, e.Kind, titleize(e.ID), e.Price)
			if e.Sold {
				b.WriteString(promptStyle.Render(line+"  sold") + "\n")
				continue
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n" + promptStyle.Render("/buy <index>, /sell <slot>, /close") + "\n")

	case "rest":
		b.WriteString(titleStyle.Render("REST SITE") + "\n\n")
		b.WriteString("• /heal to recover 30% of max HP\n")
		b.WriteString("• /awaken <brave|sturdy|cool|thorough|passionate|lively|random> for 100 memory\n")
		b.WriteString("• /close to move on\n")

	case "dungeon":
		d := v.ActiveDungeon()
		b.WriteString(titleStyle.Render("DUNGEON") + "\n\n")
		switch {
		case !d.Revealed:
			b.WriteString("An entrance hides here. /reveal it or /skip.\n")
		case !d.Confirmed:
			b.WriteString("The way down is open. /confirm to descend, /bypass or /skip.\n")
		default:
			room, _ := d.Data.Current()
			status := "uncleared"
			if room.Cleared {
				status = "cleared"
			}
			fmt.Fprintf(&b, "Room %s: %s (%s)\n", room.ID, room.Type, status)
			fmt.Fprintf(&b, "Time elapsed: %d\n", d.Data.TimeElapsed)
			fmt.Fprintf(&b, "Exits: %s\n\n", strings.Join(v.RoomExits(), ", "))
			b.WriteString(promptStyle.Render("/enter, /move <room>, /complete") + "\n")
		}

	default:
		b.WriteString(titleStyle.Render("MAP") + "\n\n")
		for _, id := range v.SelectableNodes() {
			n, _ := v.Node(id)
			fmt.Fprintf(&b, "• %s (%s)\n", id, n.Type)
		}
		b.WriteString("\n" + promptStyle.Render("/go <node>") + "\n")
	}
	return b.String()
}

func formatResources(gold, loot, ether int) string {
	return fmt.Sprintf("%dg, %d loot, %d ether", gold, loot, ether)
}

// writeMetadata builds the side panel.
func writeMetadata(v state.View) string {
	var b strings.Builder
	p := v.Player()
	r := v.Resources()

	b.WriteString(titleStyle.Render("RUN") + "\n\n")
	fmt.Fprintf(&b, "Phase: %s\n", v.Phase())
	fmt.Fprintf(&b, "Node: %s\n", cmp.Or(v.CurrentNodeID(), "-"))
	fmt.Fprintf(&b, "Risk: %d\n\n", v.MapRisk())

	fmt.Fprintf(&b, "HP %d/%d\n", p.HP, p.MaxHP)
	fmt.Fprintf(&b, "STR %d  AGI %d  INS %d\n\n", p.Strength, p.Agility, p.Insight)

	fmt.Fprintf(&b, "Gold %d  Intel %d\n", r.Gold, r.Intel)
	fmt.Fprintf(&b, "Loot %d  Mat %d\n", r.Loot, r.Material)
	fmt.Fprintf(&b, "Ether %d  Memory %d\n\n", r.EtherPts, r.Memory)

	b.WriteString("Items:\n")
	for i, it := range v.Items() {
		fmt.Fprintf(&b, " %d %s\n", i, cmp.Or(it, "-"))
	}
	if relics := v.Relics(); len(relics) > 0 {
		b.WriteString("\nRelics:\n")
		for _, id := range relics {
			b.WriteString(" • " + titleize(id) + "\n")
		}
	}
	if len(p.Traits) > 0 {
		b.WriteString("\nTraits: " + strings.Join(p.Traits, " ") + "\n")
	}
	g := v.Growth()
	fmt.Fprintf(&b, "\nPyramid L%d (%d sp)\n", g.Level, g.SkillPoints)

	s := v.Stats()
	fmt.Fprintf(&b, "\nWon %d  Lost %d\nEvents %d  Dungeons %d\n", s.BattlesWon, s.BattlesLost, s.EventsResolved, s.DungeonsCompleted)
	return b.String()
}

func helpText() string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)

	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, name := range names {
		c := commands[name]
		fmt.Fprintf(&b, "• %-30s %s\n", c.usage, c.help)
	}
	b.WriteString("• /new                           start a new run\n")
	b.WriteString("• /save                          save the run\n")
	b.WriteString("• /copy                          copy the run JSON to the clipboard\n")
	b.WriteString("• /help                          show this help\n")
	return b.String()
}
