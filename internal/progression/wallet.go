package progression

// PurchaseOutcome says why a purchase did or didn't go through.
type PurchaseOutcome string

const (
	PurchaseOK           PurchaseOutcome = "ok"
	PurchaseAlreadyOwned PurchaseOutcome = "already_owned"
	PurchaseNotEnough    PurchaseOutcome = "insufficient_coins"
	PurchaseBadPrice     PurchaseOutcome = "invalid_price"
)

// PurchaseResult reports the outcome of a Purchase call.
type PurchaseResult struct {
	Success bool
	Outcome PurchaseOutcome
	Coins   int64
}

// Purchase spends coins to unlock a shop item. It succeeds only when the
// learner can afford the price and doesn't already own the item; a declined
// purchase leaves the snapshot untouched. Coins decrease and the item is
// added in the same update, so persisting the returned snapshot keeps the
// two consistent.
func (e *Engine) Purchase(p Progress, itemID string, price int64) (Progress, PurchaseResult) {
	if price < 0 {
		return p, PurchaseResult{Outcome: PurchaseBadPrice, Coins: p.Coins}
	}
	if p.Owns(itemID) {
		return p, PurchaseResult{Outcome: PurchaseAlreadyOwned, Coins: p.Coins}
	}
	if p.Coins < price {
		return p, PurchaseResult{Outcome: PurchaseNotEnough, Coins: p.Coins}
	}

	p.Coins -= price
	owned := p.cloneOwnedItems()
	owned[itemID] = true
	p.OwnedItems = owned

	return p, PurchaseResult{Success: true, Outcome: PurchaseOK, Coins: p.Coins}
}

// GrantCurrency adds reward currency from a discrete event such as an
// achievement or daily bonus. All deltas must be non-negative; any negative
// delta rejects the whole grant.
func (e *Engine) GrantCurrency(p Progress, stars, gems, coins int64) (Progress, bool) {
	if stars < 0 || gems < 0 || coins < 0 {
		return p, false
	}
	p.Stars += stars
	p.Gems += gems
	p.Coins += coins
	return p, true
}
