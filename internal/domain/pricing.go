package domain

// PaxCategory identifies one passenger pricing bucket.
type PaxCategory string

const (
	PaxAdult  PaxCategory = "adult"
	PaxChild  PaxCategory = "child"
	PaxInfant PaxCategory = "infant"
	// PaxTax is accepted by price setters only; there is no tax headcount.
	PaxTax PaxCategory = "tax"
)

// PricingInputs are the seven user-editable fields of the price table.
type PricingInputs struct {
	AdultCount  int     `json:"adultCount"`
	ChildCount  int     `json:"childCount"`
	InfantCount int     `json:"infantCount"`
	AdultPrice  float64 `json:"adultPrice"`
	ChildPrice  float64 `json:"childPrice"`
	InfantPrice float64 `json:"infantPrice"`
	TaxPerPax   float64 `json:"taxPerPerson"`
}

// PricingSnapshot is the full derived-and-input state passed by value to
// consumers. Derived fields are never set directly; use ComputePricing.
type PricingSnapshot struct {
	PricingInputs

	AdultTotal      float64 `json:"adultTotal"`
	ChildTotal      float64 `json:"childTotal"`
	InfantTotal     float64 `json:"infantTotal"`
	TaxTotal        float64 `json:"taxTotal"`
	GrandTotal      float64 `json:"grandTotal"`
	TotalPassengers int     `json:"totalPassengers"`
}

// ComputePricing derives every total from the inputs. Infants are exempt
// from the per-person tax.
func ComputePricing(in PricingInputs) PricingSnapshot {
	adultTotal := in.AdultPrice * float64(in.AdultCount)
	childTotal := in.ChildPrice * float64(in.ChildCount)
	infantTotal := in.InfantPrice * float64(in.InfantCount)
	taxTotal := in.TaxPerPax * float64(in.AdultCount+in.ChildCount)

	return PricingSnapshot{
		PricingInputs:   in,
		AdultTotal:      adultTotal,
		ChildTotal:      childTotal,
		InfantTotal:     infantTotal,
		TaxTotal:        taxTotal,
		GrandTotal:      adultTotal + childTotal + infantTotal + taxTotal,
		TotalPassengers: in.AdultCount + in.ChildCount + in.InfantCount,
	}
}
