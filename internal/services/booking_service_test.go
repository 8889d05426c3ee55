package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bluebay/internal/domain"
)

func pricedForm() *BookingForm {
	form := &BookingForm{
		Name:        "John Smith",
		Telephone:   "01012874878",
		RoomNo:      "214",
		Receiver:    "Ahmed",
		TripDate:    "2025-06-20",
		TripTime:    "09:00",
		Hotel:       &domain.ReferenceRecord{Code: "101", Name: "Hilton Hurghada"},
		Nationality: &domain.ReferenceRecord{Code: "44", Name: "British"},
		Currency:    &domain.ReferenceRecord{Code: "USD", Name: "US Dollar"},
		Excursion:   &domain.ReferenceRecord{Code: "7", Name: "Dolphin House Snorkeling"},
	}
	form.ApplyPricing(domain.ComputePricing(domain.PricingInputs{
		AdultCount: 2, AdultPrice: 50,
		ChildCount: 1, ChildPrice: 25,
		TaxPerPax: 5,
	}))
	return form
}

func TestBookingFormBalance(t *testing.T) {
	form := pricedForm()
	if form.Pricing.GrandTotal != 140 {
		t.Fatalf("grand total = %v, want 140", form.Pricing.GrandTotal)
	}

	form.SetPaid("80")
	if form.Unpaid != 60 {
		t.Errorf("unpaid = %v, want 60", form.Unpaid)
	}

	// overpayment clamps to zero, never negative
	form.SetPaid("200")
	if form.Unpaid != 0 {
		t.Errorf("overpaid unpaid = %v, want 0", form.Unpaid)
	}

	form.SetPaid("")
	if form.Paid != 0 || form.Unpaid != 140 {
		t.Errorf("empty paid: paid=%v unpaid=%v", form.Paid, form.Unpaid)
	}
}

func TestBookingFormValidate(t *testing.T) {
	form := pricedForm()
	if err := form.Validate(); err != nil {
		t.Fatalf("complete form rejected: %v", err)
	}

	mutations := map[string]func(*BookingForm){
		"name":        func(f *BookingForm) { f.Name = "   " },
		"hotel":       func(f *BookingForm) { f.Hotel = nil },
		"nationality": func(f *BookingForm) { f.Nationality = nil },
		"currency":    func(f *BookingForm) { f.Currency = nil },
		"excursion":   func(f *BookingForm) { f.Excursion = nil },
	}
	for field, mutate := range mutations {
		f := pricedForm()
		mutate(f)
		err := f.Validate()
		if !domain.IsValidation(err) {
			t.Errorf("missing %s: want validation error, got %v", field, err)
		}
	}
}

func TestSubmitValidationSkipsNetwork(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	svc := BookingService{BaseURL: srv.URL}
	form := pricedForm()
	form.Name = ""

	if _, err := svc.Submit(context.Background(), form); !domain.IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
	if hits != 0 {
		t.Fatalf("invalid form reached the upstream API")
	}
}

func TestSubmitPostsWirePayload(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/excursions" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("payload not json: %v", err)
		}
		w.Write([]byte(`{"success":true,"id":42}`))
	}))
	defer srv.Close()

	svc := BookingService{
		BaseURL: srv.URL,
		Voucher: VoucherService{Now: func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) }},
		Now:     func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) },
	}
	form := pricedForm()
	form.SetPaid("80")

	result, err := svc.Submit(context.Background(), form)
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}

	if captured["customer"] != float64(999) {
		t.Errorf("customer = %v, want 999", captured["customer"])
	}
	if captured["ad"] != float64(2) || captured["child"] != float64(1) || captured["inf"] != float64(0) {
		t.Errorf("pax counts wrong: ad=%v child=%v inf=%v", captured["ad"], captured["child"], captured["inf"])
	}
	if captured["hotel"] != "Hilton Hurghada" {
		t.Errorf("hotel = %v, want display name", captured["hotel"])
	}
	if captured["price"] != float64(140) || captured["paid"] != float64(80) || captured["unpaid"] != float64(60) {
		t.Errorf("amounts wrong: price=%v paid=%v unpaid=%v", captured["price"], captured["paid"], captured["unpaid"])
	}
	if captured["voucherDate"] != "2025-06-15" {
		t.Errorf("voucherDate = %v", captured["voucherDate"])
	}
	for _, key := range []string{"name", "nationality", "telephone", "roomNo", "excursion", "tripDate", "tripTime", "currency", "receiver"} {
		if _, ok := captured[key]; !ok {
			t.Errorf("payload missing field %q", key)
		}
	}

	if string(result.Upstream) != `{"success":true,"id":42}` {
		t.Errorf("upstream response not preserved: %s", result.Upstream)
	}
	if len(result.Voucher.PDF) == 0 {
		t.Errorf("no voucher produced")
	}
	if !result.Dispatch.Success {
		t.Errorf("compose-only dispatch should succeed: %v", result.Dispatch.Err)
	}
	if result.Dispatch.Phone != "201012874878" {
		t.Errorf("dispatch phone = %q", result.Dispatch.Phone)
	}
}

func TestSubmitResetsFormAfterSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	form := pricedForm()
	if _, err := (BookingService{BaseURL: srv.URL}).Submit(context.Background(), form); err != nil {
		t.Fatalf("submit error: %v", err)
	}

	if form.Name != "" || form.Hotel != nil || form.Pricing.GrandTotal != 0 || form.Paid != 0 {
		t.Fatalf("form not reset after successful submit: %+v", form)
	}
}

func TestSubmitUpstreamFailureKeepsForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	form := pricedForm()
	_, err := (BookingService{BaseURL: srv.URL}).Submit(context.Background(), form)
	if !domain.IsUpstream(err) {
		t.Fatalf("want upstream error, got %v", err)
	}
	if form.Name != "John Smith" {
		t.Fatalf("failed submit must keep the form for retry")
	}
}

func TestSubmitDispatchFailureDoesNotFailBooking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	svc := BookingService{
		BaseURL: srv.URL,
		Messaging: MessagingService{
			Open: func(string) error { return errors.New("popup blocked") },
		},
	}

	result, err := svc.Submit(context.Background(), pricedForm())
	if err != nil {
		t.Fatalf("booking must stand when messaging fails: %v", err)
	}
	// Open failed and no Redirect is wired, so dispatch reports failure
	// while carrying the link the desk can still copy by hand.
	if result.Dispatch.Success {
		t.Fatalf("dispatch should have reported failure")
	}
	if result.Dispatch.URL == "" {
		t.Fatalf("failed dispatch lost the composed link")
	}
	if len(result.Voucher.PDF) == 0 {
		t.Fatalf("voucher missing despite successful booking")
	}
}
