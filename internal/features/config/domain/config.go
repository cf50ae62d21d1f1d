package domain

import (
	"errors"
	"fmt"

	advisory "krishi-sahayak/backend/internal/features/advisory/domain"
)

var ErrInvalidCatalog = errors.New("invalid advisory catalog")

// Catalog holds the keyword rules and marketplace prices served by the advisory endpoint.
// Rules are matched in slice order; the first match wins.
type Catalog struct {
	Rules  []advisory.KeywordRule            `json:"rules"`
	Prices map[string][]advisory.PriceQuote `json:"prices"`
}

// Validate checks that every rule can be served: triggers are non-empty, every
// product a rule names has at least one quote, prices are positive and ratings are 0-5.
func (c *Catalog) Validate() error {
	if len(c.Rules) == 0 {
		return fmt.Errorf("%w: no rules", ErrInvalidCatalog)
	}
	for i, rule := range c.Rules {
		if rule.Trigger == "" {
			return fmt.Errorf("%w: rule %d has an empty trigger", ErrInvalidCatalog, i)
		}
		if rule.Product != "" && len(c.Prices[rule.Product]) == 0 {
			return fmt.Errorf("%w: rule %q names product %q without prices", ErrInvalidCatalog, rule.Trigger, rule.Product)
		}
	}
	for product, quotes := range c.Prices {
		for _, q := range quotes {
			if q.Price <= 0 {
				return fmt.Errorf("%w: %s on %s has non-positive price %d", ErrInvalidCatalog, product, q.Platform, q.Price)
			}
			if q.Rating < 0 || q.Rating > 5 {
				return fmt.Errorf("%w: %s on %s has rating %.1f outside 0-5", ErrInvalidCatalog, product, q.Platform, q.Rating)
			}
		}
	}
	return nil
}

// DefaultCatalog returns the built-in rule and price tables.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Rules: []advisory.KeywordRule{
			{
				Trigger:   "पत्ते पीले",
				Diagnosis: "यह नाइट्रोजन की कमी हो सकती है",
				Solution:  "यूरिया खाद का उपयोग करें। प्रति एकड़ 50 किलो यूरिया डालें।",
				Product:   "यूरिया खाद",
			},
			{
				Trigger:   "कीड़े लगे",
				Diagnosis: "फसल में कीट का प्रकोप है",
				Solution:  "नीम का तेल या कीटनाशक का छिड़काव करें।",
				Product:   "नीम का तेल",
			},
			{
				Trigger:   "पानी कम",
				Diagnosis: "सिंचाई की कमी है",
				Solution:  "ड्रिप इरिगेशन सिस्टम लगाएं या नियमित सिंचाई करें।",
			},
		},
		Prices: map[string][]advisory.PriceQuote{
			"यूरिया खाद": {
				{Platform: "Amazon", Price: 280, Rating: 4.2, Delivery: "2 दिन"},
				{Platform: "Flipkart", Price: 265, Rating: 4.0, Delivery: "3 दिन"},
				{Platform: "BigBasket", Price: 290, Rating: 4.5, Delivery: "1 दिन"},
			},
			"नीम का तेल": {
				{Platform: "Amazon", Price: 150, Rating: 4.3, Delivery: "2 दिन"},
				{Platform: "Flipkart", Price: 145, Rating: 4.1, Delivery: "3 दिन"},
				{Platform: "BigBasket", Price: 160, Rating: 4.4, Delivery: "1 दिन"},
			},
		},
	}
}
