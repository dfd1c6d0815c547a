package progression

import "testing"

func TestPurchase(t *testing.T) {
	tests := []struct {
		name        string
		coins       int64
		owned       []string
		itemID      string
		price       int64
		wantSuccess bool
		wantOutcome PurchaseOutcome
		wantCoins   int64
	}{
		{
			name:        "insufficient coins",
			coins:       100,
			itemID:      "cape-red",
			price:       150,
			wantSuccess: false,
			wantOutcome: PurchaseNotEnough,
			wantCoins:   100,
		},
		{
			name:        "exact price succeeds",
			coins:       150,
			itemID:      "cape-red",
			price:       150,
			wantSuccess: true,
			wantOutcome: PurchaseOK,
			wantCoins:   0,
		},
		{
			name:        "already owned declines at any price",
			coins:       500,
			owned:       []string{"cape-red"},
			itemID:      "cape-red",
			price:       1,
			wantSuccess: false,
			wantOutcome: PurchaseAlreadyOwned,
			wantCoins:   500,
		},
		{
			name:        "free item succeeds",
			coins:       0,
			itemID:      "starter-hat",
			price:       0,
			wantSuccess: true,
			wantOutcome: PurchaseOK,
			wantCoins:   0,
		},
		{
			name:        "negative price rejected",
			coins:       100,
			itemID:      "cape-red",
			price:       -10,
			wantSuccess: false,
			wantOutcome: PurchaseBadPrice,
			wantCoins:   100,
		},
	}

	engine := NewEngine(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProgress()
			p.Coins = tt.coins
			for _, id := range tt.owned {
				p.OwnedItems[id] = true
			}

			updated, res := engine.Purchase(p, tt.itemID, tt.price)
			if res.Success != tt.wantSuccess {
				t.Errorf("Success = %v, want %v", res.Success, tt.wantSuccess)
			}
			if res.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %v, want %v", res.Outcome, tt.wantOutcome)
			}
			if updated.Coins != tt.wantCoins {
				t.Errorf("Coins = %d, want %d", updated.Coins, tt.wantCoins)
			}
			if tt.wantSuccess && !updated.Owns(tt.itemID) {
				t.Errorf("item %q not owned after purchase", tt.itemID)
			}
			if !tt.wantSuccess && updated.Owns(tt.itemID) != p.Owns(tt.itemID) {
				t.Errorf("declined purchase changed ownership of %q", tt.itemID)
			}
		})
	}
}

func TestPurchaseDoesNotAliasOwnedItems(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	p := NewProgress()
	p.Coins = 100

	updated, _ := engine.Purchase(p, "cape-red", 50)
	if p.Owns("cape-red") {
		t.Error("purchase mutated the input snapshot's owned set")
	}
	if !updated.Owns("cape-red") {
		t.Error("purchase did not record ownership on the result")
	}
}

func TestGrantCurrency(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	t.Run("adds all three balances", func(t *testing.T) {
		p := NewProgress()
		p.Stars, p.Gems, p.Coins = 1, 2, 3

		p, ok := engine.GrantCurrency(p, 10, 20, 30)
		if !ok {
			t.Fatal("grant rejected")
		}
		if p.Stars != 11 || p.Gems != 22 || p.Coins != 33 {
			t.Errorf("balances = %d/%d/%d, want 11/22/33", p.Stars, p.Gems, p.Coins)
		}
	})

	t.Run("any negative delta rejects the grant", func(t *testing.T) {
		p := NewProgress()
		p.Coins = 50

		p, ok := engine.GrantCurrency(p, 5, -1, 5)
		if ok {
			t.Fatal("grant with negative delta should be rejected")
		}
		if p.Stars != 0 || p.Gems != 0 || p.Coins != 50 {
			t.Errorf("rejected grant mutated balances: %d/%d/%d", p.Stars, p.Gems, p.Coins)
		}
	})
}
