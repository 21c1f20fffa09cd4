package parser

import "github.com/appengine-ltd/under-the-shadow/internal/game"

// ContextFor collects what run currently offers: held items, stall goods in
// open areas, open areas and the current story options.
func ContextFor(run *game.RunState) ParseContext {
	ctx := ParseContext{Inventory: run.Inventory.IDs()}
	for _, tier := range game.AllTiers() {
		if run.Unlocks.Open(tier) {
			ctx.Areas = append(ctx.Areas, string(tier))
		}
	}
	for _, stall := range game.BuiltInStalls() {
		if run.Unlocks.Open(stall.Tier) {
			ctx.Market = append(ctx.Market, stall.Goods...)
		}
	}
	for _, opt := range run.CurrentStory().Options {
		ctx.Options = append(ctx.Options, opt.ID, opt.Alignment)
	}
	return ctx
}
