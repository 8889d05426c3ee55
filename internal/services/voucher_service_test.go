package services

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"bluebay/internal/domain"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
}

func sampleRecord() domain.BookingRecord {
	return domain.BookingRecord{
		Name:        "John Smith",
		Telephone:   "01012874878",
		RoomNo:      "214",
		Receiver:    "Ahmed",
		TripDate:    "2025-06-20",
		TripTime:    "08:30",
		Hotel:       "Hilton Hurghada",
		Nationality: "British",
		Currency:    "US Dollar",
		Excursion:   "Dolphin House Snorkeling",
		Pricing: domain.ComputePricing(domain.PricingInputs{
			AdultCount: 2, ChildCount: 1,
			AdultPrice: 50, ChildPrice: 30, TaxPerPax: 5,
		}),
		Paid:   80,
		Unpaid: 65,
	}
}

func TestVoucherAssembleProducesDocument(t *testing.T) {
	svc := VoucherService{Now: fixedClock}
	doc := svc.Assemble(sampleRecord())

	if doc.Abridged {
		t.Fatalf("structured assembly fell back to abridged document")
	}
	if len(doc.PDF) == 0 {
		t.Fatalf("assembled document has no PDF bytes")
	}
	if !strings.HasPrefix(doc.Number, "BB-") || len(doc.Number) != len("BB-")+6 {
		t.Fatalf("voucher number %q does not match BB-XXXXXX", doc.Number)
	}
	if doc.Date != "2025-06-15" {
		t.Fatalf("voucher date = %q, want 2025-06-15", doc.Date)
	}
	if doc.Filename != "BlueBay_Voucher_John_Smith_2025-06-15.pdf" {
		t.Fatalf("filename = %q", doc.Filename)
	}
}

func TestVoucherSuppliedNumberIsKept(t *testing.T) {
	rec := sampleRecord()
	rec.VoucherNo = "BB-123456"
	rec.VoucherDate = "2025-01-01"

	doc := VoucherService{Now: fixedClock}.Assemble(rec)
	if doc.Number != "BB-123456" {
		t.Fatalf("supplied voucher number replaced: %q", doc.Number)
	}
	if doc.Date != "2025-01-01" {
		t.Fatalf("supplied voucher date replaced: %q", doc.Date)
	}
}

func TestVoucherEmptyRecordStillAssembles(t *testing.T) {
	doc := VoucherService{}.Assemble(domain.BookingRecord{})

	if len(doc.PDF) == 0 {
		t.Fatalf("empty record produced no document")
	}
	if len(doc.Fields) == 0 {
		t.Fatalf("empty record produced no layout metadata")
	}
	if doc.Summary == "" {
		t.Fatalf("empty record produced no summary")
	}
	if !strings.Contains(doc.Summary, businessLegal) {
		t.Fatalf("summary lost business identity:\n%s", doc.Summary)
	}
}

func TestVoucherFieldDirectionPerField(t *testing.T) {
	rec := sampleRecord()
	rec.Nationality = "القاهرة"
	rec.Hotel = "Cairo"

	doc := VoucherService{Now: fixedClock}.Assemble(rec)

	nat := fieldByLabel(doc.Fields, "Nationality")
	if !nat.RTL || nat.Align != domain.AlignRight {
		t.Fatalf("arabic field placement = align %q rtl %v, want right/rtl", nat.Align, nat.RTL)
	}

	hotel := fieldByLabel(doc.Fields, "Hotel")
	if hotel.RTL || hotel.Align != domain.AlignLeft {
		t.Fatalf("latin field placement = align %q rtl %v, want left/ltr", hotel.Align, hotel.RTL)
	}
}

func TestVoucherSummaryContents(t *testing.T) {
	doc := VoucherService{Now: fixedClock}.Assemble(sampleRecord())

	for _, want := range []string{
		"successfully confirmed",
		"• Name: John Smith",
		"• Hotel: Hilton Hurghada",
		"• Trip: Dolphin House Snorkeling",
		"• Date: 2025-06-20",
		"• Room Number: 214",
		"• Total Amount: 145.00",
		"• Amount Paid: 80.00",
		"• Balance Due: 65.00",
		businessPhone,
	} {
		if !strings.Contains(doc.Summary, want) {
			t.Errorf("summary missing %q:\n%s", want, doc.Summary)
		}
	}
}

func TestVoucherNumberFromClock(t *testing.T) {
	now := fixedClock()
	ms := strconv.FormatInt(now.UnixMilli(), 10)

	want := "BB-" + ms[len(ms)-6:]
	if got := generateVoucherNumber(now); got != want {
		t.Fatalf("voucher number = %q, want %q", got, want)
	}
}
