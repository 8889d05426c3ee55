package services

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bluebay/internal/domain"
	"bluebay/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// Fixed business identity printed on every voucher. Constant text, never
// derived from input.
const (
	businessName    = "BLUE BAY"
	businessTagline = "DIVING CENTER"
	businessPhone   = "+2 010 2287 4878"
	businessSite    = "www.bluebay-egypt.com"
	businessLegal   = "Blue Bay Diving Center"

	refundNotice = "Refunds available with 24h notice and ticket return. No show = No refund."
)

// VoucherService lays out the one-page printable voucher and the plain-text
// booking summary for a completed booking.
type VoucherService struct {
	RequestID string
	// Now is a test seam for the voucher number/date stamps; nil means time.Now.
	Now func() time.Time
}

// Assemble builds the voucher for rec. It always returns a usable document:
// when the structured layout fails the abridged single-column fallback is
// produced instead, and the failure never reaches the caller.
func (s VoucherService) Assemble(rec domain.BookingRecord) domain.VoucherDocument {
	now := s.now()

	number := strings.TrimSpace(rec.VoucherNo)
	if number == "" {
		number = generateVoucherNumber(now)
	}
	date := utils.Safe(rec.VoucherDate, utils.FormatDate(now))

	doc := domain.VoucherDocument{
		Number:   number,
		Date:     date,
		Filename: voucherFilename(rec.Name, now),
		Fields:   buildVoucherFields(rec),
		Summary:  buildBookingSummary(rec),
	}

	pdf, err := renderVoucherPDF(number, date, rec, now)
	if err != nil {
		utils.LogEvent(s.RequestID, "voucher", "assemble_fallback", fmt.Sprintf("voucher=%s err=%v", number, err))
		doc.Abridged = true
		doc.PDF = renderAbridgedPDF(rec)
		return doc
	}

	utils.LogEvent(s.RequestID, "voucher", "assemble", "voucher="+number)
	doc.PDF = pdf
	return doc
}

func (s VoucherService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// generateVoucherNumber derives a fresh number from the last six digits of
// the epoch-millisecond clock, as printed on the historical vouchers.
func generateVoucherNumber(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return "BB-" + ms
}

func voucherFilename(customerName string, now time.Time) string {
	name := utils.SafeFilenamePart(utils.Safe(customerName, "Customer"))
	return fmt.Sprintf("BlueBay_Voucher_%s_%s.pdf", name, utils.FormatDate(now))
}

// voucherField repairs the value and decides its placement. Alignment and
// direction are a per-field decision made from the string content, so a
// mixed-language record lays out each field independently.
func voucherField(label, value string) domain.VoucherField {
	value = utils.RepairMojibake(value)
	f := domain.VoucherField{Label: label, Value: value, Align: domain.AlignLeft}
	if utils.IsRightToLeftScript(value) {
		f.Align = domain.AlignRight
		f.RTL = true
	}
	return f
}

// numericField never carries Arabic text; it stays left-aligned.
func numericField(label, value string) domain.VoucherField {
	return domain.VoucherField{Label: label, Value: value, Align: domain.AlignLeft}
}

// buildVoucherFields produces the placement metadata in page order: left
// column, right column, payment row, receiver.
func buildVoucherFields(rec domain.BookingRecord) []domain.VoucherField {
	return []domain.VoucherField{
		voucherField("Name", rec.Name),
		voucherField("Nationality", rec.Nationality),
		voucherField("Hotel", rec.Hotel),
		voucherField("Excursion", rec.Excursion),
		numericField("Room No", rec.RoomNo),
		numericField("Trip Date", rec.TripDate),
		numericField("Time", rec.TripTime),
		numericField("Telephone", rec.Telephone),
		voucherField("Currency", rec.Currency),
		numericField("Adults", strconv.Itoa(rec.Pricing.AdultCount)),
		numericField("Children", strconv.Itoa(rec.Pricing.ChildCount)),
		numericField("Infants", strconv.Itoa(rec.Pricing.InfantCount)),
		numericField("Total Amount", utils.FormatMoney(rec.Pricing.GrandTotal)),
		numericField("Paid", utils.FormatMoney(rec.Paid)),
		numericField("Balance", utils.FormatMoney(rec.Unpaid)),
		voucherField("Receiver", rec.Receiver),
	}
}

func fieldByLabel(fields []domain.VoucherField, label string) domain.VoucherField {
	for _, f := range fields {
		if f.Label == label {
			return f
		}
	}
	return domain.VoucherField{Label: label}
}

// renderVoucherPDF draws the fixed A4 portrait layout. A panic anywhere in
// the drawing path is recovered into the returned error so the caller can
// switch to the abridged document.
func renderVoucherPDF(number, date string, rec domain.BookingRecord, now time.Time) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("voucher layout panic: %v", r)
		}
	}()

	fields := buildVoucherFields(rec)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Blue Bay Voucher - %s", utils.Safe(rec.Name, "Customer")), true)
	pdf.AddPage()

	// outer frame
	pdf.SetDrawColor(0, 128, 128)
	pdf.SetLineWidth(1)
	pdf.Rect(10, 10, 190, 277, "D")

	// business identity header
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(15, 25, "Tele : "+businessPhone)
	pdf.Text(15, 30, businessSite)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 114, 187)
	pdf.Text(85, 25, businessName)
	pdf.SetTextColor(242, 169, 59)
	pdf.Text(82, 32, businessTagline)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(10, 40, 200, 40)

	// voucher metadata row
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(15, 50, "Voucher No :")
	pdf.Text(55, 50, number)
	pdf.Text(130, 50, "Voucher Date :")
	pdf.Text(175, 50, date)
	pdf.Line(10, 55, 200, 55)

	// left column: name, nationality, hotel, excursion
	y := 65.0
	for _, label := range []string{"Name", "Nationality", "Hotel", "Excursion"} {
		writeVoucherRow(pdf, fieldByLabel(fields, label), 15, 45, y)
		y += 8
	}

	// right column: room, trip date, time, telephone
	y = 65.0
	writeVoucherRow(pdf, fieldByLabel(fields, "Room No"), 110, 140, y)
	y += 8
	writeVoucherRow(pdf, fieldByLabel(fields, "Trip Date"), 110, 140, y)
	y += 8
	writeVoucherRow(pdf, fieldByLabel(fields, "Time"), 110, 140, y)
	y += 8
	writeVoucherRow(pdf, fieldByLabel(fields, "Telephone"), 110, 155, y)

	pdf.Line(10, 100, 200, 100)

	// payment block
	y = 110
	writeVoucherRow(pdf, fieldByLabel(fields, "Currency"), 15, 45, y)
	pdf.Text(110, y, "Passengers :")
	y += 5
	pdf.Text(110, y, "Adults: "+fieldByLabel(fields, "Adults").Value)
	y += 5
	pdf.Text(110, y, "Children: "+fieldByLabel(fields, "Children").Value)
	y += 5
	pdf.Text(110, y, "Infants: "+fieldByLabel(fields, "Infants").Value)

	y += 10
	pdf.Text(15, y, "Total Amount :")
	pdf.Text(65, y, fieldByLabel(fields, "Total Amount").Value)
	pdf.Text(110, y, "Paid :")
	pdf.Text(130, y, fieldByLabel(fields, "Paid").Value)
	pdf.Text(155, y, "Balance :")
	pdf.Text(180, y, fieldByLabel(fields, "Balance").Value)

	y += 10
	writeVoucherRow(pdf, fieldByLabel(fields, "Receiver"), 15, 45, y)

	pdf.Line(10, y+5, 200, y+5)

	// fixed cancellation/refund notice
	pdf.SetFontSize(8)
	pdf.Text(15, y+15, refundNotice)

	// tear-off dashes
	dashY := y + 40
	pdf.SetLineWidth(0.5)
	for x := 15.0; x < 195; x += 5 {
		pdf.Line(x, dashY, x+2, dashY)
	}

	// footer: date stamp and page marker
	pdf.SetFontSize(10)
	pdf.Text(15, dashY+10, utils.FormatDate(now))
	pdf.Text(185, dashY+10, "Page 1")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeVoucherRow prints one labelled value. Right-to-left values hug the
// right frame edge with the RTL writing hint switched on for that field
// only.
func writeVoucherRow(pdf *gofpdf.Fpdf, f domain.VoucherField, labelX, valueX, y float64) {
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(labelX, y, f.Label+" :")
	if f.Value == "" {
		return
	}
	if f.RTL {
		pdf.RTL()
		pdf.Text(190-pdf.GetStringWidth(f.Value), y, f.Value)
		pdf.LTR()
		return
	}
	pdf.Text(valueX, y, f.Value)
}

// renderAbridgedPDF is the always-works fallback: business identity plus the
// handful of values the desk needs to honor the booking.
func renderAbridgedPDF(rec domain.BookingRecord) []byte {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, businessLegal)
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		"Voucher Details:",
		"Customer: " + utils.Safe(rec.Name, "N/A"),
		"Trip: " + utils.Safe(rec.Excursion, "N/A"),
		"Date: " + utils.Safe(rec.TripDate, "N/A"),
		"Amount: " + utils.FormatMoney(rec.Pricing.GrandTotal),
		"Phone: " + businessPhone,
	}
	for _, line := range lines {
		pdf.Cell(0, 8, line)
		pdf.Ln(8)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil
	}
	return buf.Bytes()
}

// buildBookingSummary is the plain-text confirmation forwarded over the
// messaging deep link. Distinct from the printed layout.
func buildBookingSummary(rec domain.BookingRecord) string {
	var b strings.Builder
	b.WriteString("Your trip booking has been successfully confirmed 🌊\n\n")
	b.WriteString("📋 Booking Details:\n")
	b.WriteString("• Name: " + rec.Name + "\n")
	b.WriteString("• Hotel: " + rec.Hotel + "\n")
	b.WriteString("• Trip: " + rec.Excursion + "\n")
	b.WriteString("• Date: " + rec.TripDate + "\n")
	b.WriteString("• Time: " + rec.TripTime + "\n")
	b.WriteString("• Room Number: " + rec.RoomNo + "\n\n")
	b.WriteString("💰 Payment Details:\n")
	b.WriteString("• Total Amount: " + utils.FormatMoney(rec.Pricing.GrandTotal) + "\n")
	b.WriteString("• Amount Paid: " + utils.FormatMoney(rec.Paid) + "\n")
	b.WriteString("• Balance Due: " + utils.FormatMoney(rec.Unpaid) + "\n\n")
	b.WriteString("📞 For inquiries: " + businessPhone + "\n")
	b.WriteString("🌐 Website: " + businessSite + "\n\n")
	b.WriteString("We look forward to serving you! 🐠\n")
	b.WriteString(businessLegal)
	return b.String()
}
