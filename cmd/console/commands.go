package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jwebster45206/ether-engine/pkg/battle"
	"github.com/jwebster45206/ether-engine/pkg/state"
)

// errNotAction marks console-only commands such as /help.
var errNotAction = errors.New("not an action")

// command describes one slash command that maps to an engine action.
type command struct {
	usage string
	help  string
	args  int // minimum argument count
	build func(args []string, phase string) (state.Action, error)
}

func atoi(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return n, nil
}

func intArg(fn func(int) state.Action) func([]string, string) (state.Action, error) {
	return func(args []string, _ string) (state.Action, error) {
		n, err := atoi(args[0])
		if err != nil {
			return nil, err
		}
		return fn(n), nil
	}
}

func strArg(fn func(string) state.Action) func([]string, string) (state.Action, error) {
	return func(args []string, _ string) (state.Action, error) {
		return fn(args[0]), nil
	}
}

func noArg(a state.Action) func([]string, string) (state.Action, error) {
	return func([]string, string) (state.Action, error) { return a, nil }
}

func battleResult(result battle.Result) func([]string, string) (state.Action, error) {
	return func(args []string, _ string) (state.Action, error) {
		hp, err := atoi(args[0])
		if err != nil {
			return nil, err
		}
		return state.ResolveBattle{Outcome: battle.Outcome{Result: result, FinalHP: hp}}, nil
	}
}

var commands = map[string]command{
	"/go":       {"/go <node>", "travel to a map node", 1, strArg(func(s string) state.Action { return state.SelectNode{NodeID: s} })},
	"/risk":     {"/risk <0-100>", "set the map risk", 1, intArg(func(n int) state.Action { return state.SetMapRisk{Value: n} })},
	"/reveal":   {"/reveal", "reveal the dungeon entrance", 0, noArg(state.RevealDungeon{})},
	"/confirm":  {"/confirm", "commit to the dungeon", 0, noArg(state.ConfirmDungeon{})},
	"/enter":    {"/enter", "resolve the current room", 0, noArg(state.EnterDungeon{})},
	"/move":     {"/move <room>", "walk to a connected room", 1, strArg(func(s string) state.Action { return state.NavigateDungeonNode{Target: s} })},
	"/wait":     {"/wait <decay>", "spend time in the dungeon", 1, intArg(func(n int) state.Action { return state.ApplyDungeonTimePenalty{Decay: n} })},
	"/complete": {"/complete", "finish the dungeon", 0, noArg(state.CompleteDungeon{})},
	"/bypass":   {"/bypass", "leave the dungeon early", 0, noArg(state.BypassDungeon{})},
	"/skip":     {"/skip", "skip the dungeon", 0, noArg(state.SkipDungeon{})},
	"/choose":   {"/choose <choice>", "take an event choice", 1, strArg(func(s string) state.Action { return state.ChooseEvent{ChoiceID: s} })},
	"/pray":     {"/pray <ether>", "trade ether for intel", 1, intArg(func(n int) state.Action { return state.InvokePrayer{Cost: n} })},
	"/close": {"/close", "dismiss the current event, rest or shop", 0, func(_ []string, phase string) (state.Action, error) {
		switch phase {
		case "shop":
			return state.CloseShop{}, nil
		case "rest":
			return state.CloseRest{}, nil
		default:
			return state.CloseEvent{}, nil
		}
	}},
	"/enhance": {"/enhance <card>", "enhance a card", 1, strArg(func(s string) state.Action { return state.EnhanceCard{CardID: s} })},
	"/specialize": {"/specialize <card> <trait...>", "specialize a card", 2, func(args []string, _ string) (state.Action, error) {
		return state.SpecializeCard{CardID: args[0], Traits: args[1:]}, nil
	}},
	"/awaken": {"/awaken <choice|random>", "awaken a trait at rest", 1, strArg(func(s string) state.Action { return state.AwakenAtRest{ChoiceID: s} })},
	"/heal":   {"/heal", "heal at rest", 0, noArg(state.HealAtRest{})},
	"/ego": {"/ego <trait x5>", "fold five traits into an ego", 5, func(args []string, _ string) (state.Action, error) {
		return state.FormEgo{Traits: args}, nil
	}},
	"/unlock":   {"/unlock <node>", "unlock a pyramid node", 1, strArg(func(s string) state.Action { return state.UnlockGrowthNode{NodeID: s} })},
	"/pick":     {"/pick <choice>", "resolve a pending pyramid choice", 1, strArg(func(s string) state.Action { return state.SelectNodeChoice{ChoiceID: s} })},
	"/identity": {"/identity <id>", "take an identity", 1, strArg(func(s string) state.Action { return state.SelectIdentity{ID: s} })},
	"/logos":    {"/logos <id>", "upgrade a logos", 1, strArg(func(s string) state.Action { return state.UpgradeLogos{ID: s} })},
	"/equip":    {"/equip <pathos>", "equip a pathos", 1, strArg(func(s string) state.Action { return state.EquipPathos{ID: s} })},
	"/unequip":  {"/unequip <pathos>", "unequip a pathos", 1, strArg(func(s string) state.Action { return state.UnequipPathos{ID: s} })},
	"/shop":     {"/shop <merchant>", "open a merchant", 1, strArg(func(s string) state.Action { return state.OpenShop{MerchantType: s} })},
	"/buy":      {"/buy <index>", "buy a shop entry", 1, intArg(func(n int) state.Action { return state.BuyShopEntry{Index: n} })},
	"/sell":     {"/sell <slot>", "sell an item", 1, intArg(func(n int) state.Action { return state.SellItem{Slot: n} })},
	"/use":      {"/use <slot>", "use an item", 1, intArg(func(n int) state.Action { return state.UseItem{Slot: n} })},
	"/drop":     {"/drop <slot>", "discard an item", 1, intArg(func(n int) state.Action { return state.RemoveItem{Slot: n} })},
	"/win":      {"/win <hp>", "report a won battle", 1, battleResult(battle.Victory)},
	"/lose":     {"/lose <hp>", "report a lost battle", 1, battleResult(battle.Defeat)},
	"/flee":     {"/flee", "abandon the battle", 0, noArg(state.ClearBattle{})},
}

// parseAction turns a slash command into an action. phase disambiguates
// /close.
func parseAction(input, phase string) (state.Action, error) {
	fields := strings.Fields(strings.TrimSpace(input))
	if len(fields) == 0 {
		return nil, errNotAction
	}
	name := strings.ToLower(fields[0])
	cmd, ok := commands[name]
	if !ok {
		return nil, errNotAction
	}
	args := fields[1:]
	if len(args) < cmd.args {
		return nil, fmt.Errorf("usage: %s", cmd.usage)
	}
	return cmd.build(args, phase)
}
