package model

// PlanLimits are the hard ceilings and capabilities of a subscription tier.
// The table is immutable at runtime; services consult it before creating
// stores, products and orders, and the order service uses CommissionRate at
// submission time.
type PlanLimits struct {
	Tier             PlanTier `json:"tier"`
	MaxStores        int      `json:"max_stores"`
	MaxProducts      int      `json:"max_products"`
	MaxMonthlyOrders int      `json:"max_monthly_orders"` // -1 means unlimited
	CommissionRate   float64  `json:"commission_rate"`

	CustomDomain      bool `json:"custom_domain"`
	RemoveBranding    bool `json:"remove_branding"`
	AdvancedAnalytics bool `json:"advanced_analytics"`
	APIAccess         bool `json:"api_access"`
	AutomatedPricing  bool `json:"automated_pricing"`
	PrioritySupport   bool `json:"priority_support"`
	MultiSeller       bool `json:"multi_seller"`
}

var planTable = map[PlanTier]PlanLimits{
	TierFree: {
		Tier:             TierFree,
		MaxStores:        1,
		MaxProducts:      10,
		MaxMonthlyOrders: 20,
		CommissionRate:   0.10,
	},
	TierPro: {
		Tier:              TierPro,
		MaxStores:         3,
		MaxProducts:       100,
		MaxMonthlyOrders:  500,
		CommissionRate:    0.07,
		CustomDomain:      true,
		RemoveBranding:    true,
		AdvancedAnalytics: true,
		AutomatedPricing:  true,
	},
	TierUltra: {
		Tier:              TierUltra,
		MaxStores:         10,
		MaxProducts:       1000,
		MaxMonthlyOrders:  -1,
		CommissionRate:    0.05,
		CustomDomain:      true,
		RemoveBranding:    true,
		AdvancedAnalytics: true,
		APIAccess:         true,
		AutomatedPricing:  true,
		PrioritySupport:   true,
		MultiSeller:       true,
	},
}

// GetPlanLimits returns the limits for a tier. Unknown tiers fall back to
// FREE.
func GetPlanLimits(tier PlanTier) PlanLimits {
	if limits, ok := planTable[tier]; ok {
		return limits
	}
	return planTable[TierFree]
}
