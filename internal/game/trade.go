package game

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	ItemCompressedBiscuit = "compressed-biscuit"
	ItemBottledWater      = "bottled-water"
	ItemMatchBox          = "match-box"
	ItemMilitaryRation    = "military-ration"
	ItemMedkit            = "medkit"
	ItemWalkieTalkie      = "walkie-talkie"
	ItemSurvivalKit       = "ultimate-survival-kit"
	ItemAdrenaline        = "adrenaline"

	ItemSealedCan      = "sealed-can"
	ItemOldClothes     = "old-clothes"
	ItemEmptyBottle    = "empty-bottle"
	ItemBatteryPack    = "battery-pack-small"
	ItemFirstAidSupply = "first-aid-supply"
	ItemGoldBar        = "gold-bar"
	ItemArtCollection  = "art-collection"
)

// Item is a catalog entry. Price 0 marks found goods that no stall buys back.
type Item struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Price   int           `json:"price"`
	Effects map[Meter]int `json:"effects,omitempty"`
	Recover int           `json:"recover,omitempty"`
}

func (it Item) Sellable() bool {
	return it.Price > 0
}

func (it Item) usable() bool {
	return len(it.Effects) > 0 || it.Recover > 0
}

// Stall sells Goods from a finite opening Stock per item.
type Stall struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Tier  Tier           `json:"tier"`
	Goods []string       `json:"goods"`
	Stock map[string]int `json:"stock"`
}

// Loot is one entry of a scavenge table. A roll of 0 finds nothing.
type Loot struct {
	Item   string `json:"item"`
	QtyMin int    `json:"qty_min"`
	QtyMax int    `json:"qty_max"`
}

type ScavengeSite struct {
	Tier Tier   `json:"tier"`
	Name string `json:"name"`
	Loot []Loot `json:"loot"`
}

func BuiltInItems() []Item {
	return []Item{
		{ID: ItemCompressedBiscuit, Name: "Compressed biscuit", Price: 150, Effects: map[Meter]int{MeterSatiety: 15}},
		{ID: ItemBottledWater, Name: "Bottled water", Price: 160, Effects: map[Meter]int{MeterHydration: 20}},
		{ID: ItemMatchBox, Name: "Box of matches", Price: 150, Effects: map[Meter]int{MeterSanity: 3}},
		{ID: ItemMilitaryRation, Name: "Military ration", Price: 350, Effects: map[Meter]int{MeterSatiety: 30, MeterHydration: 10}},
		{ID: ItemMedkit, Name: "Medkit", Price: 450, Effects: map[Meter]int{MeterHealth: 25}},
		{ID: ItemWalkieTalkie, Name: "Walkie-talkie", Price: 480, Effects: map[Meter]int{MeterSocial: 5}},
		{ID: ItemSurvivalKit, Name: "Ultimate survival kit", Price: 800, Effects: map[Meter]int{MeterSatiety: 20, MeterHydration: 20, MeterHealth: 10}},
		{ID: ItemAdrenaline, Name: "Adrenaline shot", Price: 800, Recover: 30},
		{ID: ItemSealedCan, Name: "Sealed can", Effects: map[Meter]int{MeterSatiety: 10}},
		{ID: ItemOldClothes, Name: "Old clothes"},
		{ID: ItemEmptyBottle, Name: "Empty bottle"},
		{ID: ItemBatteryPack, Name: "Small battery pack"},
		{ID: ItemFirstAidSupply, Name: "First aid supplies", Effects: map[Meter]int{MeterHealth: 10}},
		{ID: ItemGoldBar, Name: "Gold bar"},
		{ID: ItemArtCollection, Name: "Art collection"},
	}
}

func BuiltInStalls() []Stall {
	return []Stall{
		{
			ID: "npc-suburb-1", Name: "Roadside stall", Tier: TierSuburb,
			Goods: []string{ItemCompressedBiscuit, ItemBottledWater, ItemMatchBox},
			Stock: map[string]int{ItemCompressedBiscuit: 8, ItemBottledWater: 6, ItemMatchBox: 12},
		},
		{
			ID: "npc-city-1", Name: "Travelling caravan", Tier: TierCity,
			Goods: []string{ItemMilitaryRation, ItemMedkit, ItemWalkieTalkie},
			Stock: map[string]int{ItemMilitaryRation: 4, ItemMedkit: 2, ItemWalkieTalkie: 1},
		},
		{
			ID: "npc-mall-1", Name: "Back-alley dealer", Tier: TierMall,
			Goods: []string{ItemSurvivalKit, ItemAdrenaline},
			Stock: map[string]int{ItemSurvivalKit: 1, ItemAdrenaline: 2},
		},
	}
}

// DefaultStock is the opening stock of every stall, keyed by item id.
func DefaultStock() Inventory {
	stock := Inventory{}
	for _, stall := range BuiltInStalls() {
		for id, n := range stall.Stock {
			stock[id] += n
		}
	}
	return stock
}

func BuiltInScavengeSites() []ScavengeSite {
	return []ScavengeSite{
		{Tier: TierSuburb, Name: "Abandoned farmhouse", Loot: []Loot{
			{Item: ItemSealedCan, QtyMin: 1, QtyMax: 3},
			{Item: ItemOldClothes, QtyMin: 1, QtyMax: 1},
			{Item: ItemEmptyBottle, QtyMin: 1, QtyMax: 2},
		}},
		{Tier: TierCity, Name: "Supermarket back store", Loot: []Loot{
			{Item: ItemSealedCan, QtyMin: 1, QtyMax: 4},
			{Item: ItemBatteryPack, QtyMin: 1, QtyMax: 2},
			{Item: ItemFirstAidSupply, QtyMin: 0, QtyMax: 1},
		}},
		{Tier: TierMall, Name: "Mall storeroom", Loot: []Loot{
			{Item: ItemGoldBar, QtyMin: 0, QtyMax: 1},
			{Item: ItemSealedCan, QtyMin: 2, QtyMax: 6},
			{Item: ItemArtCollection, QtyMin: 0, QtyMax: 1},
		}},
	}
}

func ItemByID(id string) (Item, bool) {
	id = normaliseItemID(id)
	for _, item := range BuiltInItems() {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

func normaliseItemID(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	return strings.NewReplacer(" ", "-", "_", "-").Replace(raw)
}

// Inventory maps item id to held quantity.
type Inventory map[string]int

func (inv Inventory) Count(id string) int {
	return inv[id]
}

func (inv Inventory) add(id string, qty int) {
	if qty > 0 {
		inv[id] += qty
	}
}

func (inv Inventory) remove(id string, qty int) bool {
	if qty <= 0 || inv[id] < qty {
		return false
	}
	inv[id] -= qty
	if inv[id] == 0 {
		delete(inv, id)
	}
	return true
}

func (inv Inventory) IDs() []string {
	out := make([]string, 0, len(inv))
	for id := range inv {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// stallOffer finds the item on any stall whose tier is open.
func (s *RunState) stallOffer(id string) (Item, bool) {
	for _, stall := range BuiltInStalls() {
		if !s.Unlocks.Open(stall.Tier) {
			continue
		}
		for _, good := range stall.Goods {
			if good == id {
				return ItemByID(id)
			}
		}
	}
	return Item{}, false
}

// stocked reports whether some stall carries id, so a sale can restock it.
func stocked(id string) bool {
	for _, stall := range BuiltInStalls() {
		if _, ok := stall.Stock[id]; ok {
			return true
		}
	}
	return false
}

func (s *RunState) Buy(id string, qty int) CommandResult {
	if !s.freeToAct() {
		return illegalPhase()
	}
	if qty <= 0 {
		qty = 1
	}
	id = normaliseItemID(id)
	item, ok := s.stallOffer(id)
	if !ok {
		return CommandResult{Reason: ReasonUnknown, Message: fmt.Sprintf("No open stall sells %s.", id)}
	}
	if left := s.Stock.Count(item.ID); left < qty {
		return CommandResult{Reason: ReasonInsufficient, Message: fmt.Sprintf("Only %d %s left in stock.", left, item.Name)}
	}
	if item.Price <= 0 || qty > math.MaxInt/item.Price {
		return CommandResult{Reason: ReasonInsufficient, Message: fmt.Sprintf("Not enough money for %d %s.", qty, item.Name)}
	}
	cost := item.Price * qty
	if !s.Ledger.Debit(cost) {
		return CommandResult{Reason: ReasonInsufficient, Message: fmt.Sprintf("Not enough money: %s x%d costs %d.", item.Name, qty, cost)}
	}
	s.Stock[item.ID] -= qty
	s.Inventory.add(item.ID, qty)
	s.Stats.TotalItemsBought += qty
	s.ThisWeek.Bought += qty
	return s.applied(fmt.Sprintf("Bought %s x%d for %d.", item.Name, qty, cost))
}

func (s *RunState) Sell(id string, qty int) CommandResult {
	if !s.freeToAct() {
		return illegalPhase()
	}
	if qty <= 0 {
		qty = 1
	}
	id = normaliseItemID(id)
	item, ok := ItemByID(id)
	if !ok {
		return CommandResult{Reason: ReasonUnknown, Message: fmt.Sprintf("Unknown item: %s.", id)}
	}
	if !item.Sellable() {
		return CommandResult{Reason: ReasonUnsellable, Message: fmt.Sprintf("Nobody buys %s.", item.Name)}
	}
	if s.Inventory.Count(item.ID) < qty || qty > math.MaxInt/item.Price {
		return CommandResult{Reason: ReasonInsufficient, Message: fmt.Sprintf("You do not have %d %s.", qty, item.Name)}
	}
	s.Inventory.remove(item.ID, qty)
	pay := item.Price * qty / 2
	s.Ledger.Credit(pay)
	if stocked(item.ID) {
		s.Stock[item.ID] += qty
	}
	s.Stats.TotalItemsSold += qty
	s.ThisWeek.Sold += qty
	return s.applied(fmt.Sprintf("Sold %s x%d for %d.", item.Name, qty, pay))
}

func (s *RunState) UseItem(id string) CommandResult {
	if !s.freeToAct() {
		return illegalPhase()
	}
	id = normaliseItemID(id)
	item, ok := ItemByID(id)
	if !ok {
		return CommandResult{Reason: ReasonUnknown, Message: fmt.Sprintf("Unknown item: %s.", id)}
	}
	if !item.usable() {
		return CommandResult{Reason: ReasonUnknown, Message: fmt.Sprintf("%s is no use to you right now.", item.Name)}
	}
	if !s.Inventory.remove(item.ID, 1) {
		return CommandResult{Reason: ReasonInsufficient, Message: fmt.Sprintf("You have no %s.", item.Name)}
	}
	s.Ledger.apply(item.Effects)
	if item.Recover > 0 {
		s.Ledger.Recover(item.Recover)
	}
	return s.applied(fmt.Sprintf("Used %s.", item.Name))
}

// Scavenge rolls one or two picks from the site table, each with its own
// quantity range.
func (s *RunState) Scavenge(tier Tier) CommandResult {
	if !s.freeToAct() {
		return illegalPhase()
	}
	var site ScavengeSite
	found := false
	for _, candidate := range BuiltInScavengeSites() {
		if candidate.Tier == tier {
			site, found = candidate, true
			break
		}
	}
	if !found {
		return CommandResult{Reason: ReasonUnknown, Message: fmt.Sprintf("Nowhere to scavenge in %s.", tier)}
	}
	if !s.Unlocks.Open(tier) {
		return CommandResult{Reason: ReasonLocked, Message: fmt.Sprintf("The %s is not reachable yet.", tier)}
	}
	if !s.Ledger.Consume(MeterStamina, s.Config.Balance.ScavengeCost[tier]) {
		return CommandResult{Reason: ReasonInsufficient, Message: "Too tired to scavenge."}
	}
	s.Stats.TotalExploreEvents++
	s.ThisWeek.Explore++
	s.Stats.Visited.mark(tier)

	var finds []string
	rolls := 1 + s.rng.IntN(StreamScavenge, 2)
	for i := 0; i < rolls; i++ {
		loot, ok := Draw(s.rng, StreamScavenge, site.Loot)
		if !ok {
			break
		}
		qty := loot.QtyMin
		if loot.QtyMax > loot.QtyMin {
			qty += s.rng.IntN(StreamScavenge, loot.QtyMax-loot.QtyMin+1)
		}
		if qty <= 0 {
			continue
		}
		s.Inventory.add(loot.Item, qty)
		name := loot.Item
		if item, ok := ItemByID(loot.Item); ok {
			name = item.Name
		}
		finds = append(finds, fmt.Sprintf("%s x%d", name, qty))
	}
	where := strings.ToLower(site.Name)
	if len(finds) == 0 {
		return s.applied(fmt.Sprintf("You search the %s and find nothing.", where))
	}
	return s.applied(fmt.Sprintf("You search the %s and find: %s.", where, strings.Join(finds, ", ")))
}

func (s *RunState) WorkDebt() CommandResult {
	if !s.freeToAct() {
		return illegalPhase()
	}
	debt := s.Config.Balance.Debt
	s.Ledger.Credit(debt.Pay)
	s.Ledger.Adjust(MeterHealth, -debt.Health)
	s.Stats.DebtWorkCount++
	return s.applied(fmt.Sprintf("A shift of debt labour pays %d. Your body pays the rest.", debt.Pay))
}
