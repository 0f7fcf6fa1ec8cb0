package content

import (
	"github.com/jwebster45206/ether-engine/pkg/resources"
	"github.com/jwebster45206/ether-engine/pkg/traits"
)

// CardDef is a card that can be granted or sold.
type CardDef struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Price int    `json:"price,omitempty" yaml:"price"`
}

// ItemEffect is applied when an item is used. Buffs last until the next map
// move.
type ItemEffect struct {
	Heal      int                 `json:"heal,omitempty" yaml:"heal"`
	Resources resources.Resources `json:"resources,omitzero" yaml:"resources"`
	Buffs     map[traits.Stat]int `json:"buffs,omitempty" yaml:"buffs"`
}

// ItemDef is a consumable held in an item slot.
type ItemDef struct {
	ID     string     `json:"id" yaml:"id"`
	Name   string     `json:"name" yaml:"name"`
	Price  int        `json:"price" yaml:"price"`
	Effect ItemEffect `json:"effect" yaml:"effect"`
}

// RelicDef is a passive artifact. OnMoveEther is granted on every map move
// and RunStart once when a run is built.
type RelicDef struct {
	ID          string              `json:"id" yaml:"id"`
	Name        string              `json:"name" yaml:"name"`
	Price       int                 `json:"price,omitempty" yaml:"price"`
	OnMoveEther int                 `json:"onMoveEther,omitempty" yaml:"onMoveEther"`
	RunStart    resources.Resources `json:"runStart,omitzero" yaml:"runStart"`
}

// StockKind is what a merchant entry sells.
type StockKind string

const (
	StockItem  StockKind = "item"
	StockRelic StockKind = "relic"
	StockCard  StockKind = "card"
)

// MerchantEntry is one line of a merchant's stock. A zero price falls back to
// the catalog price.
type MerchantEntry struct {
	Kind  StockKind `json:"kind" yaml:"kind"`
	ID    string    `json:"id" yaml:"id"`
	Price int       `json:"price,omitempty" yaml:"price"`
}

// MerchantDef is a shop keeper's catalog.
type MerchantDef struct {
	ID    string          `json:"id" yaml:"id"`
	Name  string          `json:"name" yaml:"name"`
	Stock []MerchantEntry `json:"stock" yaml:"stock"`
}
