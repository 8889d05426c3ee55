package domain

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

// ReferenceKind distinguishes the five reference-data lists. The records are
// structurally identical but never interchangeable.
type ReferenceKind string

const (
	RefHotels        ReferenceKind = "hotels"
	RefCities        ReferenceKind = "cities"
	RefNationalities ReferenceKind = "nationalities"
	RefCurrencies    ReferenceKind = "currencies"
	RefRoads         ReferenceKind = "roads"
)

// RefCode tolerates both numeric and string codes in upstream payloads
// (hotel codes arrive as numbers, currency codes sometimes as strings).
type RefCode string

func (c *RefCode) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		*c = RefCode(strings.TrimSpace(v))
	case float64:
		*c = RefCode(strconv.FormatInt(int64(v), 10))
	case nil:
		*c = ""
	default:
		*c = RefCode(strings.TrimSpace(string(b)))
	}
	return nil
}

func (c RefCode) String() string { return string(c) }

// ReferenceRecord is one selectable code/name pair. Identity is the code;
// records are immutable once fetched.
type ReferenceRecord struct {
	Code RefCode `json:"code"`
	Name string  `json:"name"`
}

// BookingRecord is the flat record the page assembles at submission time.
// Reference selections are carried by display name, matching the upstream
// wire contract.
type BookingRecord struct {
	VoucherNo   string
	VoucherDate string

	Name      string
	Telephone string
	RoomNo    string
	Receiver  string
	TripDate  string
	TripTime  string

	Hotel       string
	Nationality string
	Currency    string
	Excursion   string

	Pricing PricingSnapshot
	Paid    float64
	Unpaid  float64
}

// VoucherAlign is the horizontal placement of one rendered voucher value.
type VoucherAlign string

const (
	AlignLeft  VoucherAlign = "L"
	AlignRight VoucherAlign = "R"
)

// VoucherField records how a single labelled value was placed on the page.
// Kept on the document so callers can verify layout without parsing the PDF.
type VoucherField struct {
	Label string
	Value string
	Align VoucherAlign
	RTL   bool
}

// VoucherDocument is the rendered one-page voucher plus its placement
// metadata and the plain-text booking summary. Immutable once assembled.
type VoucherDocument struct {
	Number   string
	Date     string
	Filename string
	PDF      []byte
	Fields   []VoucherField
	Summary  string
	// Abridged is set when structured assembly failed and the fallback
	// single-column document was produced instead.
	Abridged bool
}

// DataURI returns the document as a self-contained embeddable string.
func (d VoucherDocument) DataURI() string {
	return "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(d.PDF)
}

// WriteFile stores the document under filename, falling back to the plain
// default name when none is supplied.
func (d VoucherDocument) WriteFile(filename string) error {
	if strings.TrimSpace(filename) == "" {
		filename = "voucher.pdf"
	}
	return os.WriteFile(filename, d.PDF, 0o644)
}
