package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"bluebay/internal/domain"
	"bluebay/internal/utils"
)

// referenceEnvelope is the wire shape of every reference-data list:
// {"success": true, "data": [ ... ]}.
type referenceEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// referenceRow carries the per-kind field names of the upstream API. Only
// the pair matching the requested kind is populated.
type referenceRow struct {
	HotelCode       domain.RefCode `json:"HotelCode"`
	HotelName       string         `json:"HotelName"`
	CityCode        domain.RefCode `json:"CityCode"`
	CityName        string         `json:"CityName"`
	NationalityCode domain.RefCode `json:"NationalityCode"`
	NationalityName string         `json:"NationalityName"`
	CurrencyCode    domain.RefCode `json:"CurrencyCode"`
	CurrencyName    string         `json:"CurrencyName"`
	RoadCode        domain.RefCode `json:"RoadCode"`
	RoadName        string         `json:"RoadName"`
}

func (r referenceRow) record(kind domain.ReferenceKind) domain.ReferenceRecord {
	var rec domain.ReferenceRecord
	switch kind {
	case domain.RefHotels:
		rec = domain.ReferenceRecord{Code: r.HotelCode, Name: r.HotelName}
	case domain.RefCities:
		rec = domain.ReferenceRecord{Code: r.CityCode, Name: r.CityName}
	case domain.RefNationalities:
		rec = domain.ReferenceRecord{Code: r.NationalityCode, Name: r.NationalityName}
	case domain.RefCurrencies:
		rec = domain.ReferenceRecord{Code: r.CurrencyCode, Name: r.CurrencyName}
	case domain.RefRoads:
		rec = domain.ReferenceRecord{Code: r.RoadCode, Name: r.RoadName}
	}
	rec.Name = utils.Safe(rec.Name, defaultReferenceName(kind))
	return rec
}

// defaultReferenceName labels records the upstream stored without a name.
// Roads come back blank often enough that the desk sees a literal Arabic
// placeholder, matching the printed lists.
func defaultReferenceName(kind domain.ReferenceKind) string {
	if kind == domain.RefRoads {
		return "طريق بدون اسم"
	}
	return "Unnamed"
}

// ReferenceClient fetches one reference list from the external API. It
// never panics; a failed or malformed fetch yields an empty list plus an
// UpstreamError the page can show and dismiss.
type ReferenceClient struct {
	BaseURL    string
	HTTPClient *http.Client
	RequestID  string
}

func (c ReferenceClient) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}

// Fetch GETs {base}/{kind} and decodes the envelope. success=false and
// non-array data both degrade to an empty result with an error state.
func (c ReferenceClient) Fetch(ctx context.Context, kind domain.ReferenceKind) ([]domain.ReferenceRecord, error) {
	endpoint := strings.TrimRight(c.BaseURL, "/") + "/" + string(kind)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, domain.UpstreamError{Endpoint: string(kind), Msg: "invalid request", Err: err}
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		utils.LogEvent(c.RequestID, "reference", "fetch_failed", fmt.Sprintf("kind=%s err=%v", kind, err))
		return nil, domain.UpstreamError{Endpoint: string(kind), Msg: "fetch failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.UpstreamError{Endpoint: string(kind), Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.UpstreamError{Endpoint: string(kind), Msg: "read failed", Err: err}
	}

	var env referenceEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, domain.UpstreamError{Endpoint: string(kind), Msg: "malformed payload", Err: err}
	}
	if !env.Success {
		return nil, domain.UpstreamError{Endpoint: string(kind), Msg: "upstream reported failure"}
	}

	var rows []referenceRow
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		return nil, domain.UpstreamError{Endpoint: string(kind), Msg: "data is not a list", Err: err}
	}

	records := make([]domain.ReferenceRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record(kind))
	}
	utils.LogEvent(c.RequestID, "reference", "fetch", fmt.Sprintf("kind=%s count=%d", kind, len(records)))
	return records, nil
}

// codeMatches implements the historical filter asymmetry: hotels, cities
// and nationalities match typed input against the code prefix; currencies
// and roads match anywhere inside the code. Kept as-is pending product
// clarification.
func codeMatches(kind domain.ReferenceKind, code domain.RefCode, input string) bool {
	switch kind {
	case domain.RefCurrencies, domain.RefRoads:
		return strings.Contains(code.String(), input)
	default:
		return strings.HasPrefix(code.String(), input)
	}
}

// ReferenceCatalog is the fetch-and-filter core behind one dropdown: it
// holds the records of a single kind, filters them by typed code and tracks
// the current selection.
type ReferenceCatalog struct {
	Kind domain.ReferenceKind

	records  []domain.ReferenceRecord
	selected *domain.ReferenceRecord
}

func NewReferenceCatalog(kind domain.ReferenceKind, records []domain.ReferenceRecord) *ReferenceCatalog {
	return &ReferenceCatalog{Kind: kind, records: records}
}

func (c *ReferenceCatalog) Records() []domain.ReferenceRecord {
	return c.records
}

// FilterByCode narrows the visible list by the typed code and auto-selects
// when the input pins a record down: an exact code wins, otherwise the
// first record matching under the kind's rule. Empty input restores the
// full list without touching the selection.
func (c *ReferenceCatalog) FilterByCode(input string) []domain.ReferenceRecord {
	input = strings.TrimSpace(input)
	if input == "" {
		return c.records
	}

	var filtered []domain.ReferenceRecord
	for i := range c.records {
		if codeMatches(c.Kind, c.records[i].Code, input) {
			filtered = append(filtered, c.records[i])
		}
	}

	if found := c.findByCode(input); found != nil {
		c.selected = found
	} else if len(filtered) > 0 {
		sel := filtered[0]
		c.selected = &sel
	}
	return filtered
}

// SelectByCode picks the record with exactly this code, or clears the
// selection when value is empty or unknown. Returns the new selection.
func (c *ReferenceCatalog) SelectByCode(value string) *domain.ReferenceRecord {
	value = strings.TrimSpace(value)
	if value == "" {
		c.selected = nil
		return nil
	}
	c.selected = c.findByCode(value)
	return c.selected
}

func (c *ReferenceCatalog) Selected() *domain.ReferenceRecord {
	return c.selected
}

// Reset clears the selection, used by the form-wide reset.
func (c *ReferenceCatalog) Reset() {
	c.selected = nil
}

func (c *ReferenceCatalog) findByCode(value string) *domain.ReferenceRecord {
	for i := range c.records {
		if c.records[i].Code.String() == value {
			rec := c.records[i]
			return &rec
		}
	}
	return nil
}

const defaultReferenceTTL = 5 * time.Minute

type referenceCacheEntry struct {
	records   []domain.ReferenceRecord
	fetchedAt time.Time
}

// ReferenceService caches the five short reference lists so each form
// session does not refetch them. Errors are never cached.
type ReferenceService struct {
	Client ReferenceClient
	TTL    time.Duration

	mu    sync.Mutex
	cache map[domain.ReferenceKind]referenceCacheEntry
}

// List returns the cached list for kind, fetching on miss or expiry. On
// upstream failure it returns an empty list together with the error so the
// page can degrade instead of crash.
func (s *ReferenceService) List(ctx context.Context, kind domain.ReferenceKind) ([]domain.ReferenceRecord, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = defaultReferenceTTL
	}

	s.mu.Lock()
	if entry, ok := s.cache[kind]; ok && time.Since(entry.fetchedAt) < ttl {
		records := entry.records
		s.mu.Unlock()
		return records, nil
	}
	s.mu.Unlock()

	records, err := s.Client.Fetch(ctx, kind)
	if err != nil {
		return []domain.ReferenceRecord{}, err
	}

	s.mu.Lock()
	if s.cache == nil {
		s.cache = make(map[domain.ReferenceKind]referenceCacheEntry)
	}
	s.cache[kind] = referenceCacheEntry{records: records, fetchedAt: time.Now()}
	s.mu.Unlock()
	return records, nil
}

// Catalog builds the dropdown core for kind from the cached list.
func (s *ReferenceService) Catalog(ctx context.Context, kind domain.ReferenceKind) (*ReferenceCatalog, error) {
	records, err := s.List(ctx, kind)
	if err != nil {
		return NewReferenceCatalog(kind, nil), err
	}
	return NewReferenceCatalog(kind, records), nil
}
