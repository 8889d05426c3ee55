package handlers

import (
	"net/http"

	"bluebay/internal/domain"
	"bluebay/internal/services"

	"github.com/gin-gonic/gin"
)

// QuoteRequest carries the seven price-table fields as the raw text the
// numeric inputs hold; parsing and clamping happen engine-side.
type QuoteRequest struct {
	AdultCount  string `json:"adultCount"`
	ChildCount  string `json:"childCount"`
	InfantCount string `json:"infantCount"`
	AdultPrice  string `json:"adultPrice"`
	ChildPrice  string `json:"childPrice"`
	InfantPrice string `json:"infantPrice"`
	TaxPerPax   string `json:"taxPerPerson"`
}

// Snapshot runs the request through a fresh engine and returns the full
// derived state.
func (q QuoteRequest) Snapshot() domain.PricingSnapshot {
	engine := services.NewPricingEngine(domain.PricingInputs{}, nil)
	engine.SetCount(domain.PaxAdult, q.AdultCount)
	engine.SetCount(domain.PaxChild, q.ChildCount)
	engine.SetCount(domain.PaxInfant, q.InfantCount)
	engine.SetPrice(domain.PaxAdult, q.AdultPrice)
	engine.SetPrice(domain.PaxChild, q.ChildPrice)
	engine.SetPrice(domain.PaxInfant, q.InfantPrice)
	engine.SetPrice(domain.PaxTax, q.TaxPerPax)
	return engine.Snapshot()
}

// GetPricingQuote derives the totals for a set of raw form inputs.
func GetPricingQuote(c *gin.Context) {
	var req QuoteRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": req.Snapshot()})
}
