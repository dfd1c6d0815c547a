package handlers

import (
	"errors"
	"log"
	"net/http"

	"brainblast/internal/repository"
	"brainblast/internal/service"
)

// ShopHandler serves the item catalog and handles purchases
type ShopHandler struct {
	shopRepo           *repository.ShopRepository
	progressRepo       *repository.ProgressRepository
	progressionService *service.ProgressionService
}

// NewShopHandler creates a new shop handler
func NewShopHandler(shopRepo *repository.ShopRepository, progressRepo *repository.ProgressRepository, progressionService *service.ProgressionService) *ShopHandler {
	return &ShopHandler{
		shopRepo:           shopRepo,
		progressRepo:       progressRepo,
		progressionService: progressionService,
	}
}

type shopItemView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	PriceCoin int64  `json:"priceCoin"`
	Owned     bool   `json:"owned"`
}

// ListItems returns the catalog with an owned flag per item for the
// signed-in learner
func (h *ShopHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())

	items, err := h.shopRepo.GetItems()
	if err != nil {
		log.Printf("Error loading shop items: %v", err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
		return
	}

	owned, err := h.progressRepo.GetOwnedItemIDs(h.progressRepo.DB(), learner.ID)
	if err != nil {
		log.Printf("Error loading owned items for learner %d: %v", learner.ID, err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
		return
	}

	views := make([]shopItemView, 0, len(items))
	for _, item := range items {
		views = append(views, shopItemView{
			ID:        item.ID,
			Name:      item.Name,
			Category:  item.Category,
			PriceCoin: item.PriceCoin,
			Owned:     owned[item.ID],
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"items": views})
}

// Purchase spends the learner's coins on an item. A declined purchase
// (already owned, not enough coins) is a 200 with success false.
func (h *ShopHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	learner := GetLearnerFromContext(r.Context())

	var req struct {
		ItemID string `json:"itemId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, ErrInvalidJSON)
		return
	}

	result, err := h.progressionService.PurchaseItem(learner.ID, req.ItemID)
	if err != nil {
		if errors.Is(err, service.ErrUnknownItem) {
			respondJSONError(w, http.StatusNotFound, "Unknown shop item")
			return
		}
		log.Printf("Error purchasing item %q for learner %d: %v", req.ItemID, learner.ID, err)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": result.Success,
		"outcome": result.Outcome,
		"coins":   result.Coins,
	})
}
