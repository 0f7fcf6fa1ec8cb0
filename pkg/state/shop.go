package state

import (
	"slices"

	"github.com/jwebster45206/ether-engine/pkg/content"
	"github.com/jwebster45206/ether-engine/pkg/resources"
)

// openMerchant installs merchant id's stock on gs, which must already be a
// fresh snapshot.
func (e *Engine) openMerchant(gs *GameState, id string) bool {
	m, ok := e.lib.Merchant(id)
	if !ok {
		e.logger.Warn("Unknown merchant", "merchant", id)
		return false
	}
	entries := make([]ShopEntry, 0, len(m.Stock))
	for _, s := range m.Stock {
		entries = append(entries, ShopEntry{Kind: s.Kind, ID: s.ID, Price: e.lib.Price(s)})
	}
	gs.ActiveShop = &ActiveShop{MerchantType: id, Entries: entries}
	return true
}

func (e *Engine) openShop(gs *GameState, a OpenShop) *GameState {
	if gs.Busy() {
		return e.reject(a.Type(), "battle in progress")
	}
	next := gs.next()
	if !e.openMerchant(next, a.MerchantType) {
		return nil
	}
	return next
}

func (e *Engine) buyShopEntry(gs *GameState, a BuyShopEntry) *GameState {
	shop := gs.ActiveShop
	if shop == nil || a.Index < 0 || a.Index >= len(shop.Entries) {
		return e.reject(a.Type(), "no such entry", "index", a.Index)
	}
	entry := shop.Entries[a.Index]
	price := resources.Resources{Gold: entry.Price}
	if entry.Sold || !gs.Resources.CanAfford(price) {
		return e.reject(a.Type(), "entry unavailable", "index", a.Index)
	}

	next := gs.next()
	switch entry.Kind {
	case content.StockItem:
		slot := slices.Index(gs.Items[:], "")
		if slot < 0 {
			return e.reject(a.Type(), "item slots full")
		}
		next.Items[slot] = entry.ID
	case content.StockRelic:
		if slices.Contains(gs.Relics, entry.ID) {
			return e.reject(a.Type(), "relic already owned", "relic_id", entry.ID)
		}
		next.Relics = append(slices.Clone(gs.Relics), entry.ID)
	case content.StockCard:
		if gs.Player.HasCard(entry.ID) {
			return e.reject(a.Type(), "card already owned", "card_id", entry.ID)
		}
		next.Player = gs.Player.Clone()
		next.Player.Cards = append(next.Player.Cards, entry.ID)
	default:
		e.logger.Warn("Unknown stock kind", "kind", entry.Kind)
		return nil
	}

	next.Resources = gs.Resources.Pay(price)
	s := *shop
	s.Entries = slices.Clone(shop.Entries)
	s.Entries[a.Index].Sold = true
	next.ActiveShop = &s
	return next
}

// sellItem sells the item in slot for half its catalog price.
func (e *Engine) sellItem(gs *GameState, a SellItem) *GameState {
	if gs.ActiveShop == nil {
		return e.reject(a.Type(), "no active shop")
	}
	id, ok := itemAt(gs, a.Slot)
	if !ok {
		return e.reject(a.Type(), "empty slot", "slot", a.Slot)
	}
	def, ok := e.lib.Item(id)
	if !ok {
		e.logger.Warn("Unknown item id", "item_id", id, "action", a.Type())
		return nil
	}
	next := gs.next()
	next.Items[a.Slot] = ""
	next.Resources = gs.Resources.Add(resources.Resources{Gold: def.Price / 2})
	return next
}

func (e *Engine) closeShop(gs *GameState) *GameState {
	if gs.ActiveShop == nil {
		return e.reject(ActionCloseShop, "no active shop")
	}
	next := gs.next()
	next.ActiveShop = nil
	return next
}
