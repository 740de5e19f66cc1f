package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mivitrina/mivitrina-backend/internal/app/service"
	apperrors "github.com/mivitrina/mivitrina-backend/internal/errors"
	"github.com/mivitrina/mivitrina-backend/internal/middleware"
	"github.com/mivitrina/mivitrina-backend/pkg/pricing"
	"github.com/mivitrina/mivitrina-backend/pkg/redis"
)

const zonePriceCacheTTL = 10 * time.Minute

type PricingController struct {
	storeService service.StoreService
}

func NewPricingController(storeService service.StoreService) *PricingController {
	return &PricingController{
		storeService: storeService,
	}
}

type zonePriceEntry struct {
	ProductID uint               `json:"product_id"`
	Name      string             `json:"name"`
	BasePrice float64            `json:"base_price"`
	ByZone    map[string]float64 `json:"by_zone"`
}

// GetZonePrices suggests per-municipality prices for the store's active
// listings. Results are cached per store.
// GET /api/v1/stores/:slug/zone-prices
func (ctrl *PricingController) GetZonePrices(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	slug := c.Param("slug")

	if cached, err := redis.GetZonePrices(c.Request.Context(), slug); err == nil && cached != nil {
		c.Data(http.StatusOK, "application/json", cached)
		return
	}

	store, products, err := ctrl.storeService.ProjectStoreProducts(slug)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.NotFound(c, apperrors.StoreNotFound, "Tienda no encontrada")
			return
		}
		log.Error("Failed to project store for zone prices", err, map[string]interface{}{
			"slug": slug,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "tienda")
		return
	}

	zones := store.DeliveryZones
	if len(zones) == 0 {
		zones = pricing.Zones()
	}

	entries := make([]zonePriceEntry, 0, len(products))
	for _, view := range products {
		if !view.IsActive {
			continue
		}
		byZone := make(map[string]float64, len(zones))
		for _, zone := range zones {
			byZone[zone] = pricing.SuggestZonePrice(view.CustomPrice, zone)
		}
		entries = append(entries, zonePriceEntry{
			ProductID: view.Product.ID,
			Name:      view.Product.Name,
			BasePrice: view.CustomPrice,
			ByZone:    byZone,
		})
	}

	body, err := json.Marshal(gin.H{
		"store":  store.Slug,
		"zones":  zones,
		"prices": entries,
	})
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	if err := redis.CacheZonePrices(c.Request.Context(), slug, body, zonePriceCacheTTL); err != nil {
		log.Debug("Zone price cache write failed", map[string]interface{}{
			"slug":  slug,
			"error": err.Error(),
		})
	}

	c.Data(http.StatusOK, "application/json", body)
}
