package handlers

import (
	"net/http"
	"time"

	"bluebay/internal/config"
	"bluebay/internal/domain"
	"bluebay/internal/http/middleware"
	"bluebay/internal/services"

	"github.com/gin-gonic/gin"
)

// BookingRequest is the submit payload the form posts: personal fields,
// the selected reference records, the raw price-table inputs and the raw
// paid amount.
type BookingRequest struct {
	Name      string `json:"name"`
	Telephone string `json:"telephone"`
	RoomNo    string `json:"roomNo"`
	Receiver  string `json:"receiver"`
	TripDate  string `json:"tripDate"`
	TripTime  string `json:"tripTime"`

	Hotel       *domain.ReferenceRecord `json:"hotel"`
	Nationality *domain.ReferenceRecord `json:"nationality"`
	Currency    *domain.ReferenceRecord `json:"currency"`
	Excursion   *domain.ReferenceRecord `json:"excursion"`

	Pricing QuoteRequest `json:"pricing"`
	Paid    string       `json:"paid"`

	VoucherNo string `json:"voucherNo,omitempty"`
}

func (r BookingRequest) form() *services.BookingForm {
	form := &services.BookingForm{
		Name:        r.Name,
		Telephone:   r.Telephone,
		RoomNo:      r.RoomNo,
		Receiver:    r.Receiver,
		TripDate:    r.TripDate,
		TripTime:    r.TripTime,
		Hotel:       r.Hotel,
		Nationality: r.Nationality,
		Currency:    r.Currency,
		Excursion:   r.Excursion,
	}
	form.ApplyPricing(r.Pricing.Snapshot())
	form.SetPaid(r.Paid)
	return form
}

// BookingHandler wires the submission flow to the configured upstream API.
type BookingHandler struct {
	Env config.Env
}

func (h BookingHandler) bookingService(c *gin.Context) services.BookingService {
	reqID := middleware.GetRequestID(c)
	return services.BookingService{
		BaseURL:   h.Env.APIBaseURL,
		RequestID: reqID,
		Voucher:   services.VoucherService{RequestID: reqID},
		Messaging: services.MessagingService{RequestID: reqID, Host: h.Env.MessagingHost},
	}
}

// SubmitExcursion runs the full flow: validate, POST upstream, voucher,
// WhatsApp link. Validation and upstream failures halt; a dispatch failure
// only shows up in the response body.
func (h BookingHandler) SubmitExcursion(c *gin.Context) {
	var req BookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	result, err := h.bookingService(c).Submit(c.Request.Context(), req.form())
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"upstream": result.Upstream,
		"voucher": gin.H{
			"number":   result.Voucher.Number,
			"date":     result.Voucher.Date,
			"filename": result.Voucher.Filename,
			"dataUri":  result.Voucher.DataURI(),
			"abridged": result.Voucher.Abridged,
		},
		"whatsapp": result.Dispatch,
	})
}

// GetExcursionVoucher renders the voucher PDF for a posted record without
// submitting anything (inline preview/reprint).
func (h BookingHandler) GetExcursionVoucher(c *gin.Context) {
	var req BookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	form := req.form()
	rec := form.Record(time.Now())
	rec.VoucherNo = req.VoucherNo

	svc := services.VoucherService{RequestID: middleware.GetRequestID(c)}
	doc := svc.Assemble(rec)

	c.Header("Content-Disposition", `inline; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, "application/pdf", doc.PDF)
}
