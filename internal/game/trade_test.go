package game

import (
	"encoding/json"
	"math"
	"testing"
)

func newTradingRun(t *testing.T) RunState {
	t.Helper()
	run := newRunForTest(t)
	startActions(t, &run, "B")
	run.Unlocks.Suburb = true
	return run
}

func TestBuySellAndUse(t *testing.T) {
	run := newTradingRun(t)

	mustApply(t, run.Buy("compressed biscuit", 2))
	if got := run.Ledger.Get(MeterMoney); got != 200 {
		t.Fatalf("expected money 200 after buying, got %d", got)
	}
	if run.Inventory.Count(ItemCompressedBiscuit) != 2 || run.Stats.TotalItemsBought != 2 {
		t.Fatalf("expected two biscuits bought, got inv=%v stats=%+v", run.Inventory, run.Stats)
	}

	mustApply(t, run.Sell(ItemCompressedBiscuit, 1))
	if got := run.Ledger.Get(MeterMoney); got != 275 {
		t.Fatalf("expected half price back, got money %d", got)
	}
	if run.Stats.TotalItemsSold != 1 {
		t.Fatalf("expected one item sold, got %d", run.Stats.TotalItemsSold)
	}

	run.Ledger.Set(MeterSatiety, 50)
	mustApply(t, run.UseItem(ItemCompressedBiscuit))
	if got := run.Ledger.Get(MeterSatiety); got != 65 {
		t.Fatalf("expected satiety 65 after eating, got %d", got)
	}
	if run.Inventory.Count(ItemCompressedBiscuit) != 0 {
		t.Fatalf("expected biscuit consumed")
	}
	if res := run.UseItem(ItemCompressedBiscuit); res.Reason != ReasonInsufficient {
		t.Fatalf("expected nothing left to use, got %+v", res)
	}
}

func TestBuyAbortsWhenMoneyShort(t *testing.T) {
	run := newTradingRun(t)
	run.Ledger.Set(MeterMoney, 100)

	res := run.Buy(ItemBottledWater, 1)
	if res.Applied || res.Reason != ReasonInsufficient {
		t.Fatalf("expected insufficient money, got %+v", res)
	}
	if run.Inventory.Count(ItemBottledWater) != 0 || run.Stats.TotalItemsBought != 0 {
		t.Fatalf("expected no purchase recorded")
	}
	if got := run.Ledger.Get(MeterMoney); got != 100 {
		t.Fatalf("expected money untouched, got %d", got)
	}
}

func TestBuyRequiresOpenStall(t *testing.T) {
	run := newTradingRun(t)
	if res := run.Buy(ItemMedkit, 1); res.Reason != ReasonUnknown {
		t.Fatalf("expected city stall closed, got %+v", res)
	}
}

func TestSellRequiresHeldItems(t *testing.T) {
	run := newTradingRun(t)
	if res := run.Sell(ItemMedkit, 1); res.Reason != ReasonInsufficient {
		t.Fatalf("expected insufficient items, got %+v", res)
	}
}

func TestScavenge(t *testing.T) {
	run := newTradingRun(t)

	if res := run.Scavenge(TierMall); res.Reason != ReasonLocked {
		t.Fatalf("expected mall locked, got %+v", res)
	}
	mustApply(t, run.Scavenge(TierSuburb))
	if got := run.Ledger.Get(MeterStamina); got != 92 {
		t.Fatalf("expected stamina 92 after scavenging, got %d", got)
	}
	if run.Stats.TotalExploreEvents != 1 || len(run.Inventory) == 0 || len(run.Inventory) > 2 {
		t.Fatalf("expected one or two finds, got inv=%v", run.Inventory)
	}

	run.Ledger.Set(MeterStamina, 2)
	if res := run.Scavenge(TierSuburb); res.Reason != ReasonInsufficient {
		t.Fatalf("expected insufficient stamina, got %+v", res)
	}
}

func TestDebtWorkLeadsToDeathEnding(t *testing.T) {
	run := newQuietRun(t, 1)
	startActions(t, &run, "B")
	for i := 0; i < 3; i++ {
		mustApply(t, run.WorkDebt())
	}
	if got := run.Ledger.Get(MeterMoney); got != 950 {
		t.Fatalf("expected money 950, got %d", got)
	}
	if got := run.Ledger.Get(MeterHealth); got != 70 {
		t.Fatalf("expected health 70, got %d", got)
	}
	mustApply(t, run.EndWeek())
	mustApply(t, run.AdvanceWeek())
	if run.EndingID != "death-debt" {
		t.Fatalf("expected death-debt, got %s", run.EndingID)
	}
	if !run.HasAchievement(AchievementDeathWish) {
		t.Fatalf("expected death-wish achievement")
	}
}

func newScavengeRun(t *testing.T, ints ...int) RunState {
	t.Helper()
	run, err := NewRunState(RunConfig{
		Seed:     909,
		Resolver: NewResolverWithSources(909, map[Stream]Source{StreamScavenge: &fixedSource{ints: ints}}),
	})
	if err != nil {
		t.Fatalf("new run state: %v", err)
	}
	startActions(t, &run, "B")
	run.Unlocks.Suburb = true
	run.Unlocks.Mall = true
	return run
}

func TestScavengeRollsPicksAndQuantities(t *testing.T) {
	// two picks: sealed can rolled to 3, empty bottle rolled to 2
	run := newScavengeRun(t, 1, 0, 2, 2, 1)
	res := run.Scavenge(TierSuburb)
	mustApply(t, res)
	if run.Inventory.Count(ItemSealedCan) != 3 || run.Inventory.Count(ItemEmptyBottle) != 2 {
		t.Fatalf("expected 3 cans and 2 bottles, got %v (%s)", run.Inventory, res.Message)
	}
}

func TestScavengeZeroRollFindsNothing(t *testing.T) {
	run := newScavengeRun(t, 0, 0, 0)
	mustApply(t, run.Scavenge(TierMall))
	if len(run.Inventory) != 0 {
		t.Fatalf("expected an empty haul, got %v", run.Inventory)
	}
	if got := run.Ledger.Get(MeterStamina); got != 78 {
		t.Fatalf("expected stamina spent anyway, got %d", got)
	}
}

func TestFoundGoodsCannotBeSold(t *testing.T) {
	run := newTradingRun(t)
	run.Inventory.add(ItemSealedCan, 2)
	run.Inventory.add(ItemGoldBar, 1)

	for _, id := range []string{ItemSealedCan, ItemGoldBar} {
		res := run.Sell(id, 1)
		if res.Applied || res.Reason != ReasonUnsellable {
			t.Fatalf("expected %s unsellable, got %+v", id, res)
		}
	}
	if got := run.Ledger.Get(MeterMoney); got != 500 {
		t.Fatalf("expected money untouched, got %d", got)
	}
	if run.Inventory.Count(ItemSealedCan) != 2 || run.Stats.TotalItemsSold != 0 {
		t.Fatalf("expected nothing sold, got inv=%v sold=%d", run.Inventory, run.Stats.TotalItemsSold)
	}

	if res := run.UseItem(ItemGoldBar); res.Applied {
		t.Fatalf("expected gold bar to have no use, got %+v", res)
	}
	if run.Inventory.Count(ItemGoldBar) != 1 {
		t.Fatalf("expected gold bar kept after a refused use")
	}
}

func TestStallStockLimitsPurchases(t *testing.T) {
	run := newTradingRun(t)
	run.Ledger.Set(MeterMoney, 10000)

	if got := run.Stock.Count(ItemBottledWater); got != 6 {
		t.Fatalf("expected opening water stock 6, got %d", got)
	}
	res := run.Buy(ItemBottledWater, 7)
	if res.Applied || res.Reason != ReasonInsufficient {
		t.Fatalf("expected stock shortfall, got %+v", res)
	}
	if got := run.Ledger.Get(MeterMoney); got != 10000 {
		t.Fatalf("expected money untouched, got %d", got)
	}

	mustApply(t, run.Buy(ItemBottledWater, 6))
	if got := run.Stock.Count(ItemBottledWater); got != 0 {
		t.Fatalf("expected sold out, got %d", got)
	}
	if res := run.Buy(ItemBottledWater, 1); res.Reason != ReasonInsufficient {
		t.Fatalf("expected sold out stall to refuse, got %+v", res)
	}

	mustApply(t, run.Sell(ItemBottledWater, 2))
	if got := run.Stock.Count(ItemBottledWater); got != 2 {
		t.Fatalf("expected sale to restock 2, got %d", got)
	}
}

func TestHugeQuantitiesAreRefused(t *testing.T) {
	run := newTradingRun(t)

	for _, raw := range []string{
		"buy compressed-biscuit 122978293824730345",
		"buy compressed-biscuit 9223372036854775807",
	} {
		res := run.ExecuteRunCommand(raw)
		if res.Result.Applied {
			t.Fatalf("%s: expected refusal, got %+v", raw, res.Result)
		}
	}
	if got := run.Ledger.Get(MeterMoney); got != 500 {
		t.Fatalf("expected money untouched, got %d", got)
	}
	if run.Inventory.Count(ItemCompressedBiscuit) != 0 || run.Stats.TotalItemsBought != 0 {
		t.Fatalf("expected nothing bought, got inv=%v bought=%d", run.Inventory, run.Stats.TotalItemsBought)
	}

	run.Inventory.add(ItemCompressedBiscuit, 1)
	if res := run.Sell(ItemCompressedBiscuit, math.MaxInt); res.Applied {
		t.Fatalf("expected oversized sale refused, got %+v", res)
	}
	if got := run.Ledger.Get(MeterMoney); got != 500 {
		t.Fatalf("expected money untouched after sale, got %d", got)
	}
}

func TestStockSurvivesSnapshot(t *testing.T) {
	run := newTradingRun(t)
	mustApply(t, run.Buy(ItemBottledWater, 3))

	data, err := json.Marshal(run.Snapshot())
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	restored, err := Restore(snap, RunConfig{})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := restored.Stock.Count(ItemBottledWater); got != 3 {
		t.Fatalf("expected stock 3 after restore, got %d", got)
	}

	snap.Stock = nil
	legacy, err := Restore(snap, RunConfig{})
	if err != nil {
		t.Fatalf("restore without stock: %v", err)
	}
	if got := legacy.Stock.Count(ItemBottledWater); got != 6 {
		t.Fatalf("expected opening stock for saves without stock, got %d", got)
	}
}
