package state

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"

	"github.com/jwebster45206/ether-engine/pkg/battle"
	"github.com/jwebster45206/ether-engine/pkg/resources"
)

// ActionType tags an action on the wire.
type ActionType string

const (
	ActionSelectNode              ActionType = "selectNode"
	ActionSetMapRisk              ActionType = "setMapRisk"
	ActionRevealDungeon           ActionType = "revealDungeon"
	ActionConfirmDungeon          ActionType = "confirmDungeon"
	ActionEnterDungeon            ActionType = "enterDungeon"
	ActionNavigateDungeonNode     ActionType = "navigateDungeonNode"
	ActionApplyDungeonTimePenalty ActionType = "applyDungeonTimePenalty"
	ActionCompleteDungeon         ActionType = "completeDungeon"
	ActionBypassDungeon           ActionType = "bypassDungeon"
	ActionSkipDungeon             ActionType = "skipDungeon"
	ActionChooseEvent             ActionType = "chooseEvent"
	ActionInvokePrayer            ActionType = "invokePrayer"
	ActionCloseEvent              ActionType = "closeEvent"
	ActionEnhanceCard             ActionType = "enhanceCard"
	ActionSpecializeCard          ActionType = "specializeCard"
	ActionAwakenAtRest            ActionType = "awakenAtRest"
	ActionHealAtRest              ActionType = "healAtRest"
	ActionCloseRest               ActionType = "closeRest"
	ActionFormEgo                 ActionType = "formEgo"
	ActionUnlockGrowthNode        ActionType = "unlockGrowthNode"
	ActionSelectNodeChoice        ActionType = "selectNodeChoice"
	ActionSelectIdentity          ActionType = "selectIdentity"
	ActionUpgradeLogos            ActionType = "upgradeLogos"
	ActionEquipPathos             ActionType = "equipPathos"
	ActionUnequipPathos           ActionType = "unequipPathos"
	ActionOpenShop                ActionType = "openShop"
	ActionBuyShopEntry            ActionType = "buyShopEntry"
	ActionSellItem                ActionType = "sellItem"
	ActionCloseShop               ActionType = "closeShop"
	ActionAddItem                 ActionType = "addItem"
	ActionUseItem                 ActionType = "useItem"
	ActionRemoveItem              ActionType = "removeItem"
	ActionAddRelic                ActionType = "addRelic"
	ActionRemoveRelic             ActionType = "removeRelic"
	ActionResolveBattle           ActionType = "resolveBattle"
	ActionClearBattle             ActionType = "clearBattle"
	ActionAddResources            ActionType = "addResources"
	ActionApplyEtherDelta         ActionType = "applyEtherDelta"
)

// Action is a named, serialisable request to change the run.
type Action interface {
	Type() ActionType
}

type SelectNode struct {
	NodeID string `json:"nodeId"`
}

type SetMapRisk struct {
	Value int `json:"value"`
}

type RevealDungeon struct{}

type ConfirmDungeon struct{}

// EnterDungeon resolves the encounter of the room the player stands in.
type EnterDungeon struct{}

type NavigateDungeonNode struct {
	Target string `json:"target"`
}

type ApplyDungeonTimePenalty struct {
	Decay int `json:"decay"`
}

type CompleteDungeon struct{}

type BypassDungeon struct{}

type SkipDungeon struct{}

type ChooseEvent struct {
	ChoiceID string `json:"choiceId"`
}

type InvokePrayer struct {
	Cost int `json:"cost"`
}

// CloseEvent dismisses a resolved event and starts any queued follow-up.
type CloseEvent struct{}

type EnhanceCard struct {
	CardID string `json:"cardId"`
}

type SpecializeCard struct {
	CardID string   `json:"cardId"`
	Traits []string `json:"traits"`
}

type AwakenAtRest struct {
	ChoiceID string `json:"choiceId"`
}

type HealAtRest struct{}

type CloseRest struct{}

type FormEgo struct {
	Traits []string `json:"traits"`
}

type UnlockGrowthNode struct {
	NodeID string `json:"nodeId"`
}

type SelectNodeChoice struct {
	ChoiceID string `json:"choiceId"`
}

type SelectIdentity struct {
	ID string `json:"id"`
}

type UpgradeLogos struct {
	ID string `json:"id"`
}

type EquipPathos struct {
	ID string `json:"id"`
}

type UnequipPathos struct {
	ID string `json:"id"`
}

type OpenShop struct {
	MerchantType string `json:"merchantType"`
}

type BuyShopEntry struct {
	Index int `json:"index"`
}

type SellItem struct {
	Slot int `json:"slot"`
}

type CloseShop struct{}

type AddItem struct {
	ItemID string `json:"itemId"`
}

type UseItem struct {
	Slot int `json:"slot"`
}

type RemoveItem struct {
	Slot int `json:"slot"`
}

type AddRelic struct {
	RelicID string `json:"relicId"`
}

type RemoveRelic struct {
	RelicID string `json:"relicId"`
}

type ResolveBattle struct {
	Outcome battle.Outcome `json:"outcome"`
}

type ClearBattle struct{}

type AddResources struct {
	Deltas resources.Resources `json:"deltas"`
}

type ApplyEtherDelta struct {
	Delta int `json:"delta"`
}

func (SelectNode) Type() ActionType              { return ActionSelectNode }
func (SetMapRisk) Type() ActionType              { return ActionSetMapRisk }
func (RevealDungeon) Type() ActionType           { return ActionRevealDungeon }
func (ConfirmDungeon) Type() ActionType          { return ActionConfirmDungeon }
func (EnterDungeon) Type() ActionType            { return ActionEnterDungeon }
func (NavigateDungeonNode) Type() ActionType     { return ActionNavigateDungeonNode }
func (ApplyDungeonTimePenalty) Type() ActionType { return ActionApplyDungeonTimePenalty }
func (CompleteDungeon) Type() ActionType         { return ActionCompleteDungeon }
func (BypassDungeon) Type() ActionType           { return ActionBypassDungeon }
func (SkipDungeon) Type() ActionType             { return ActionSkipDungeon }
func (ChooseEvent) Type() ActionType             { return ActionChooseEvent }
func (InvokePrayer) Type() ActionType            { return ActionInvokePrayer }
func (CloseEvent) Type() ActionType              { return ActionCloseEvent }
func (EnhanceCard) Type() ActionType             { return ActionEnhanceCard }
func (SpecializeCard) Type() ActionType          { return ActionSpecializeCard }
func (AwakenAtRest) Type() ActionType            { return ActionAwakenAtRest }
func (HealAtRest) Type() ActionType              { return ActionHealAtRest }
func (CloseRest) Type() ActionType               { return ActionCloseRest }
func (FormEgo) Type() ActionType                 { return ActionFormEgo }
func (UnlockGrowthNode) Type() ActionType        { return ActionUnlockGrowthNode }
func (SelectNodeChoice) Type() ActionType        { return ActionSelectNodeChoice }
func (SelectIdentity) Type() ActionType          { return ActionSelectIdentity }
func (UpgradeLogos) Type() ActionType            { return ActionUpgradeLogos }
func (EquipPathos) Type() ActionType             { return ActionEquipPathos }
func (UnequipPathos) Type() ActionType           { return ActionUnequipPathos }
func (OpenShop) Type() ActionType                { return ActionOpenShop }
func (BuyShopEntry) Type() ActionType            { return ActionBuyShopEntry }
func (SellItem) Type() ActionType                { return ActionSellItem }
func (CloseShop) Type() ActionType               { return ActionCloseShop }
func (AddItem) Type() ActionType                 { return ActionAddItem }
func (UseItem) Type() ActionType                 { return ActionUseItem }
func (RemoveItem) Type() ActionType              { return ActionRemoveItem }
func (AddRelic) Type() ActionType                { return ActionAddRelic }
func (RemoveRelic) Type() ActionType             { return ActionRemoveRelic }
func (ResolveBattle) Type() ActionType           { return ActionResolveBattle }
func (ClearBattle) Type() ActionType             { return ActionClearBattle }
func (AddResources) Type() ActionType            { return ActionAddResources }
func (ApplyEtherDelta) Type() ActionType         { return ActionApplyEtherDelta }

var actionFactories = map[ActionType]func() Action{
	ActionSelectNode:              func() Action { return &SelectNode{} },
	ActionSetMapRisk:              func() Action { return &SetMapRisk{} },
	ActionRevealDungeon:           func() Action { return &RevealDungeon{} },
	ActionConfirmDungeon:          func() Action { return &ConfirmDungeon{} },
	ActionEnterDungeon:            func() Action { return &EnterDungeon{} },
	ActionNavigateDungeonNode:     func() Action { return &NavigateDungeonNode{} },
	ActionApplyDungeonTimePenalty: func() Action { return &ApplyDungeonTimePenalty{} },
	ActionCompleteDungeon:         func() Action { return &CompleteDungeon{} },
	ActionBypassDungeon:           func() Action { return &BypassDungeon{} },
	ActionSkipDungeon:             func() Action { return &SkipDungeon{} },
	ActionChooseEvent:             func() Action { return &ChooseEvent{} },
	ActionInvokePrayer:            func() Action { return &InvokePrayer{} },
	ActionCloseEvent:              func() Action { return &CloseEvent{} },
	ActionEnhanceCard:             func() Action { return &EnhanceCard{} },
	ActionSpecializeCard:          func() Action { return &SpecializeCard{} },
	ActionAwakenAtRest:            func() Action { return &AwakenAtRest{} },
	ActionHealAtRest:              func() Action { return &HealAtRest{} },
	ActionCloseRest:               func() Action { return &CloseRest{} },
	ActionFormEgo:                 func() Action { return &FormEgo{} },
	ActionUnlockGrowthNode:        func() Action { return &UnlockGrowthNode{} },
	ActionSelectNodeChoice:        func() Action { return &SelectNodeChoice{} },
	ActionSelectIdentity:          func() Action { return &SelectIdentity{} },
	ActionUpgradeLogos:            func() Action { return &UpgradeLogos{} },
	ActionEquipPathos:             func() Action { return &EquipPathos{} },
	ActionUnequipPathos:           func() Action { return &UnequipPathos{} },
	ActionOpenShop:                func() Action { return &OpenShop{} },
	ActionBuyShopEntry:            func() Action { return &BuyShopEntry{} },
	ActionSellItem:                func() Action { return &SellItem{} },
	ActionCloseShop:               func() Action { return &CloseShop{} },
	ActionAddItem:                 func() Action { return &AddItem{} },
	ActionUseItem:                 func() Action { return &UseItem{} },
	ActionRemoveItem:              func() Action { return &RemoveItem{} },
	ActionAddRelic:                func() Action { return &AddRelic{} },
	ActionRemoveRelic:             func() Action { return &RemoveRelic{} },
	ActionResolveBattle:           func() Action { return &ResolveBattle{} },
	ActionClearBattle:             func() Action { return &ClearBattle{} },
	ActionAddResources:            func() Action { return &AddResources{} },
	ActionApplyEtherDelta:         func() Action { return &ApplyEtherDelta{} },
}

// Envelope is the wire form of an action.
type Envelope struct {
	Type    ActionType      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// EncodeAction wraps a in an envelope.
func EncodeAction(a Action) ([]byte, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", a.Type(), err)
	}
	return json.Marshal(Envelope{Type: a.Type(), Payload: payload})
}

// DecodeAction parses an envelope into its concrete action value.
func DecodeAction(b []byte) (Action, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("failed to parse action envelope: %w", err)
	}
	return env.Action()
}

// Action decodes the envelope payload.
func (env Envelope) Action() (Action, error) {
	factory, ok := actionFactories[env.Type]
	if !ok {
		return nil, fmt.Errorf("unknown action type %q", env.Type)
	}
	a := factory()
	if len(env.Payload) > 0 && string(env.Payload) != "null" {
		if err := json.Unmarshal(env.Payload, a); err != nil {
			return nil, fmt.Errorf("failed to parse %s payload: %w", env.Type, err)
		}
	}
	return deref(a), nil
}

// deref turns the *T a factory built back into the T value Reduce matches on.
func deref(a Action) Action {
	v := reflect.ValueOf(a)
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		return v.Elem().Interface().(Action)
	}
	return a
}

// ActionTypes lists every registered action type, sorted.
func ActionTypes() []ActionType {
	out := make([]ActionType, 0, len(actionFactories))
	for t := range actionFactories {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}
