package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bluebay/internal/domain"
	"bluebay/internal/utils"
)

// walkInCustomerCode is the fixed upstream customer id every form booking
// is filed under.
const walkInCustomerCode = 999

// BookingForm is the single shared form-state object for one booking
// session. The page owns one instance, child widgets write their selection
// into it, and Reset restores everything without reloading anything.
type BookingForm struct {
	Name      string
	Telephone string
	RoomNo    string
	Receiver  string
	TripDate  string
	TripTime  string

	Hotel       *domain.ReferenceRecord
	Nationality *domain.ReferenceRecord
	Currency    *domain.ReferenceRecord
	Excursion   *domain.ReferenceRecord

	Pricing domain.PricingSnapshot
	Paid    float64
	Unpaid  float64
}

// ApplyPricing installs a fresh snapshot from the pricing engine and keeps
// the balance consistent with it.
func (f *BookingForm) ApplyPricing(snap domain.PricingSnapshot) {
	f.Pricing = snap
	f.recalcUnpaid()
}

// SetPaid parses the user-entered paid amount (empty or invalid reads as
// zero) and recomputes the open balance.
func (f *BookingForm) SetPaid(raw string) {
	f.Paid = utils.ParseAmount(raw)
	f.recalcUnpaid()
}

// recalcUnpaid keeps unpaid = max(0, grandTotal-paid); overpayment never
// produces a negative balance.
func (f *BookingForm) recalcUnpaid() {
	unpaid := f.Pricing.GrandTotal - f.Paid
	if unpaid < 0 {
		unpaid = 0
	}
	f.Unpaid = unpaid
}

// Reset restores every field to its initial value, selections included.
func (f *BookingForm) Reset() {
	*f = BookingForm{}
}

// Validate enforces the required fields before any network call is made.
func (f *BookingForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return domain.ValidationError{Field: "name", Msg: "customer name is required"}
	}
	if f.Hotel == nil {
		return domain.ValidationError{Field: "hotel", Msg: "hotel selection is required"}
	}
	if f.Nationality == nil {
		return domain.ValidationError{Field: "nationality", Msg: "nationality selection is required"}
	}
	if f.Currency == nil {
		return domain.ValidationError{Field: "currency", Msg: "currency selection is required"}
	}
	if f.Excursion == nil {
		return domain.ValidationError{Field: "excursion", Msg: "excursion selection is required"}
	}
	return nil
}

// Record flattens the form into the booking record handed to the voucher
// assembler and the upstream API.
func (f *BookingForm) Record(now time.Time) domain.BookingRecord {
	rec := domain.BookingRecord{
		VoucherDate: utils.FormatDate(now),
		Name:        strings.TrimSpace(f.Name),
		Telephone:   strings.TrimSpace(f.Telephone),
		RoomNo:      strings.TrimSpace(f.RoomNo),
		Receiver:    strings.TrimSpace(f.Receiver),
		TripDate:    strings.TrimSpace(f.TripDate),
		TripTime:    strings.TrimSpace(f.TripTime),
		Pricing:     f.Pricing,
		Paid:        f.Paid,
		Unpaid:      f.Unpaid,
	}
	if f.Hotel != nil {
		rec.Hotel = f.Hotel.Name
	}
	if f.Nationality != nil {
		rec.Nationality = f.Nationality.Name
	}
	if f.Currency != nil {
		rec.Currency = f.Currency.Name
	}
	if f.Excursion != nil {
		rec.Excursion = f.Excursion.Name
	}
	return rec
}

// excursionPayload is the upstream wire shape of a booking submission.
type excursionPayload struct {
	VoucherDate string  `json:"voucherDate"`
	Name        string  `json:"name"`
	Nationality string  `json:"nationality"`
	Telephone   string  `json:"telephone"`
	Hotel       string  `json:"hotel"`
	RoomNo      string  `json:"roomNo"`
	Customer    int     `json:"customer"`
	Excursion   string  `json:"excursion"`
	Ad          int     `json:"ad"`
	Child       int     `json:"child"`
	Inf         int     `json:"inf"`
	TripDate    string  `json:"tripDate"`
	TripTime    string  `json:"tripTime"`
	Currency    string  `json:"currency"`
	Price       float64 `json:"price"`
	Paid        float64 `json:"paid"`
	Unpaid      float64 `json:"unpaid"`
	Receiver    string  `json:"receiver"`
}

func payloadFromRecord(rec domain.BookingRecord) excursionPayload {
	return excursionPayload{
		VoucherDate: rec.VoucherDate,
		Name:        rec.Name,
		Nationality: rec.Nationality,
		Telephone:   rec.Telephone,
		Hotel:       rec.Hotel,
		RoomNo:      rec.RoomNo,
		Customer:    walkInCustomerCode,
		Excursion:   rec.Excursion,
		Ad:          rec.Pricing.AdultCount,
		Child:       rec.Pricing.ChildCount,
		Inf:         rec.Pricing.InfantCount,
		TripDate:    rec.TripDate,
		TripTime:    rec.TripTime,
		Currency:    rec.Currency,
		Price:       rec.Pricing.GrandTotal,
		Paid:        rec.Paid,
		Unpaid:      rec.Unpaid,
		Receiver:    rec.Receiver,
	}
}

// BookingResult carries everything the page needs after a successful
// submission. Dispatch may report failure without failing the booking; the
// voucher has already been produced by then.
type BookingResult struct {
	Record   domain.BookingRecord
	Upstream json.RawMessage
	Voucher  domain.VoucherDocument
	Dispatch DispatchResult
}

// BookingService runs the submission flow: validate, POST upstream,
// assemble the voucher, dispatch the summary, reset the form.
type BookingService struct {
	BaseURL    string
	HTTPClient *http.Client
	RequestID  string

	Voucher   VoucherService
	Messaging MessagingService

	// Now is a test seam; nil means time.Now.
	Now func() time.Time
}

func (s BookingService) httpClient() *http.Client {
	if s.HTTPClient != nil {
		return s.HTTPClient
	}
	return &http.Client{Timeout: 20 * time.Second}
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Submit books the form. Validation and upstream failures halt the flow;
// a messaging-dispatch failure is recorded in the result but the booking
// stands (the voucher was already produced).
func (s BookingService) Submit(ctx context.Context, form *BookingForm) (BookingResult, error) {
	if err := form.Validate(); err != nil {
		return BookingResult{}, err
	}

	rec := form.Record(s.now())

	upstream, err := s.post(ctx, payloadFromRecord(rec))
	if err != nil {
		return BookingResult{}, err
	}
	utils.LogEvent(s.RequestID, "booking", "submitted", "name="+rec.Name)

	voucher := s.Voucher.Assemble(rec)
	dispatch := s.Messaging.Dispatch(rec.Telephone, voucher.Summary)
	if !dispatch.Success {
		utils.LogEvent(s.RequestID, "booking", "dispatch_failed", fmt.Sprintf("err=%v", dispatch.Err))
	}

	form.Reset()

	return BookingResult{
		Record:   rec,
		Upstream: upstream,
		Voucher:  voucher,
		Dispatch: dispatch,
	}, nil
}

func (s BookingService) post(ctx context.Context, payload excursionPayload) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, domain.InternalError{Msg: "encode booking", Err: err}
	}

	endpoint := strings.TrimRight(s.BaseURL, "/") + "/excursions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, domain.UpstreamError{Endpoint: "excursions", Msg: "invalid request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient().Do(req)
	if err != nil {
		return nil, domain.UpstreamError{Endpoint: "excursions", Msg: "submit failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.UpstreamError{Endpoint: "excursions", Msg: "read failed", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.UpstreamError{Endpoint: "excursions", Status: resp.StatusCode}
	}

	if !json.Valid(raw) {
		return nil, domain.UpstreamError{Endpoint: "excursions", Msg: "malformed response"}
	}
	return json.RawMessage(raw), nil
}
