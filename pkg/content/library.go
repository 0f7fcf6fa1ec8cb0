// Package content holds the static game definitions a run draws from:
// events, items, relics, cards, merchants and the growth pyramid. Libraries
// are loaded from YAML with unknown keys rejected.
package content

import (
	"maps"
	"slices"

	"github.com/jwebster45206/ether-engine/pkg/growth"
)

// Library is an immutable, indexed set of definitions.
type Library struct {
	events       map[string]EventDefinition
	items        map[string]ItemDef
	relics       map[string]RelicDef
	cards        map[string]CardDef
	merchants    map[string]MerchantDef
	nodes        map[string]growth.NodeDef
	logos        map[string]growth.LogosDef
	identities   []string
	startingDeck []string
	mapEvents    []string
}

// Document is the shape of a single content file. Every section is optional
// so definitions can be split across files.
type Document struct {
	StartingDeck []string          `yaml:"startingDeck"`
	MapEvents    []string          `yaml:"mapEvents"`
	Events       []EventDefinition `yaml:"events"`
	Items        []ItemDef         `yaml:"items"`
	Relics       []RelicDef        `yaml:"relics"`
	Cards        []CardDef         `yaml:"cards"`
	Merchants    []MerchantDef     `yaml:"merchants"`
	Pyramid      []growth.NodeDef  `yaml:"pyramid"`
	Logos        []growth.LogosDef `yaml:"logos"`
	Identities   []string          `yaml:"identities"`
}

func newLibrary() *Library {
	return &Library{
		events:    map[string]EventDefinition{},
		items:     map[string]ItemDef{},
		relics:    map[string]RelicDef{},
		cards:     map[string]CardDef{},
		merchants: map[string]MerchantDef{},
		nodes:     map[string]growth.NodeDef{},
		logos:     map[string]growth.LogosDef{},
	}
}

// New builds a library from documents without validating it. Later
// documents override earlier definitions with the same id.
func New(docs ...Document) *Library {
	l := newLibrary()
	for _, d := range docs {
		l.merge(d)
	}
	return l
}

func (l *Library) merge(d Document) {
	for _, e := range d.Events {
		l.events[e.ID] = e
	}
	for _, it := range d.Items {
		l.items[it.ID] = it
	}
	for _, r := range d.Relics {
		l.relics[r.ID] = r
	}
	for _, c := range d.Cards {
		l.cards[c.ID] = c
	}
	for _, m := range d.Merchants {
		l.merchants[m.ID] = m
	}
	for _, n := range d.Pyramid {
		l.nodes[n.ID] = n
	}
	for _, lg := range d.Logos {
		l.logos[lg.ID] = lg
	}
	for _, id := range d.Identities {
		if !slices.Contains(l.identities, id) {
			l.identities = append(l.identities, id)
		}
	}
	if len(d.StartingDeck) > 0 {
		l.startingDeck = slices.Clone(d.StartingDeck)
	}
	for _, id := range d.MapEvents {
		if !slices.Contains(l.mapEvents, id) {
			l.mapEvents = append(l.mapEvents, id)
		}
	}
}

func (l *Library) Event(id string) (EventDefinition, bool) {
	e, ok := l.events[id]
	return e, ok
}

// HasEvent reports whether id names a known event.
func (l *Library) HasEvent(id string) bool {
	_, ok := l.events[id]
	return ok
}

// EventIDs returns every event id, sorted.
func (l *Library) EventIDs() []string {
	return slices.Sorted(maps.Keys(l.events))
}

// MapEvents returns the events eligible for map event nodes. When none are
// listed every event is eligible.
func (l *Library) MapEvents() []string {
	if len(l.mapEvents) == 0 {
		return l.EventIDs()
	}
	return slices.Clone(l.mapEvents)
}

func (l *Library) Item(id string) (ItemDef, bool) {
	it, ok := l.items[id]
	return it, ok
}

func (l *Library) Relic(id string) (RelicDef, bool) {
	r, ok := l.relics[id]
	return r, ok
}

func (l *Library) Card(id string) (CardDef, bool) {
	c, ok := l.cards[id]
	return c, ok
}

// CardIDs returns every card id, sorted.
func (l *Library) CardIDs() []string {
	return slices.Sorted(maps.Keys(l.cards))
}

func (l *Library) Merchant(id string) (MerchantDef, bool) {
	m, ok := l.merchants[id]
	return m, ok
}

// MerchantIDs returns every merchant id, sorted.
func (l *Library) MerchantIDs() []string {
	return slices.Sorted(maps.Keys(l.merchants))
}

func (l *Library) PyramidNode(id string) (growth.NodeDef, bool) {
	n, ok := l.nodes[id]
	return n, ok
}

func (l *Library) Logos(id string) (growth.LogosDef, bool) {
	lg, ok := l.logos[id]
	return lg, ok
}

// HasIdentity reports whether id is a selectable identity.
func (l *Library) HasIdentity(id string) bool {
	return slices.Contains(l.identities, id)
}

// StartingDeck returns a copy of the deck a fresh run begins with.
func (l *Library) StartingDeck() []string {
	return slices.Clone(l.startingDeck)
}

// Price returns the catalog price for a stock entry.
func (l *Library) Price(e MerchantEntry) int {
	if e.Price > 0 {
		return e.Price
	}
	switch e.Kind {
	case StockItem:
		return l.items[e.ID].Price
	case StockRelic:
		return l.relics[e.ID].Price
	case StockCard:
		return l.cards[e.ID].Price
	}
	return 0
}

// Counts summarises the library for logging and the validator.
func (l *Library) Counts() map[string]int {
	return map[string]int{
		"events":     len(l.events),
		"items":      len(l.items),
		"relics":     len(l.relics),
		"cards":      len(l.cards),
		"merchants":  len(l.merchants),
		"pyramid":    len(l.nodes),
		"logos":      len(l.logos),
		"identities": len(l.identities),
	}
}
