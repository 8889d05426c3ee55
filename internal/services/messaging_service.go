package services

import (
	"fmt"
	"net/url"
	"strings"

	"bluebay/internal/utils"
)

// countryPrefix is prepended to destinations entered without it (Egyptian
// local numbers start with 0).
const countryPrefix = "2"

const defaultMessagingHost = "wa.me"

// DispatchResult reports how the outbound composer attempt went. The link
// is always populated once the destination normalizes; Success only turns
// false when every open strategy failed.
type DispatchResult struct {
	Success bool   `json:"success"`
	Phone   string `json:"phone"`
	URL     string `json:"url"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// MessagingService prepares a pre-filled WhatsApp composer link and tries
// to open it. It never sends anything itself; delivery belongs to the
// external messaging app. Open and Redirect are injected so the hosting
// surface decides what "opening" means (and tests fake it).
type MessagingService struct {
	RequestID string
	Host      string
	// Open is the primary attempt (new browsing context analogue).
	Open func(link string) error
	// Redirect is the fallback when Open is blocked or unavailable.
	Redirect func(link string) error
}

// NormalizeDestination strips every non-digit and guarantees the country
// prefix. Input already carrying the prefix is only cleaned.
func NormalizeDestination(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	phone := digits.String()
	if phone == "" {
		return ""
	}
	if !strings.HasPrefix(phone, countryPrefix) {
		phone = countryPrefix + phone
	}
	return phone
}

// ComposeLink builds the deep link with the summary percent-encoded the way
// messaging composers expect (space as %20, not +).
func (s MessagingService) ComposeLink(phone, summary string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(summary), "+", "%20")
	return fmt.Sprintf("https://%s/%s?text=%s", s.host(), phone, encoded)
}

// Dispatch normalizes the raw destination, composes the link and attempts
// to open it. Internal failures are captured into the result; this method
// never panics outward.
func (s MessagingService) Dispatch(rawDestination, summary string) (res DispatchResult) {
	defer func() {
		if r := recover(); r != nil {
			res = DispatchResult{
				Success: false,
				Message: fmt.Sprintf("messaging dispatch failed: %v", r),
				Err:     fmt.Errorf("messaging dispatch panic: %v", r),
			}
		}
	}()

	phone := NormalizeDestination(rawDestination)
	if phone == "" {
		return DispatchResult{
			Success: false,
			Message: "destination has no digits",
			Err:     fmt.Errorf("empty destination %q", rawDestination),
		}
	}

	link := s.ComposeLink(phone, summary)
	res = DispatchResult{Success: true, Phone: phone, URL: link, Message: "composer link ready"}

	if s.Open != nil {
		if err := s.Open(link); err == nil {
			res.Message = "composer opened"
			utils.LogEvent(s.RequestID, "messaging", "dispatch", "phone="+phone)
			return res
		} else if s.Redirect != nil {
			if rerr := s.Redirect(link); rerr == nil {
				res.Message = "composer redirect initiated"
				utils.LogEvent(s.RequestID, "messaging", "dispatch_redirect", "phone="+phone)
				return res
			}
			res.Success = false
			res.Message = "composer could not be opened"
			res.Err = err
			return res
		} else {
			res.Success = false
			res.Message = "composer could not be opened"
			res.Err = err
			return res
		}
	}

	utils.LogEvent(s.RequestID, "messaging", "compose", "phone="+phone)
	return res
}

func (s MessagingService) host() string {
	if h := strings.TrimSpace(s.Host); h != "" {
		return h
	}
	return defaultMessagingHost
}
