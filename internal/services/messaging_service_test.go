package services

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeDestination(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"01012874878", "201012874878"},
		{"2 010 1287-4878", "201012874878"},
		{"+20 101 287 4878", "201012874878"},
		{"(010) 12-87..48.78", "201012874878"},
		{"", ""},
		{"abc", ""},
	}
	for _, tc := range cases {
		if got := NormalizeDestination(tc.raw); got != tc.want {
			t.Errorf("NormalizeDestination(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestComposeLinkEncoding(t *testing.T) {
	svc := MessagingService{}
	link := svc.ComposeLink("201012874878", "Your trip booking has been confirmed\nName: John & Co")

	if !strings.HasPrefix(link, "https://wa.me/201012874878?text=") {
		t.Fatalf("unexpected link prefix: %s", link)
	}
	if strings.ContainsAny(link[len("https://"):], " \n") {
		t.Fatalf("link carries unencoded whitespace: %s", link)
	}
	if strings.Contains(link, "+") {
		t.Fatalf("spaces must be %%20-encoded, not '+': %s", link)
	}
	if !strings.Contains(link, "%20") || !strings.Contains(link, "%26") {
		t.Fatalf("expected percent-encoded space and ampersand: %s", link)
	}
}

func TestDispatchComposeOnly(t *testing.T) {
	res := MessagingService{}.Dispatch("01012874878", "hello")
	if !res.Success {
		t.Fatalf("compose-only dispatch failed: %+v", res)
	}
	if res.Phone != "201012874878" {
		t.Fatalf("phone = %q", res.Phone)
	}
	if res.URL == "" {
		t.Fatalf("no composer link in result")
	}
}

func TestDispatchOpenAndFallback(t *testing.T) {
	var opened, redirected []string

	svc := MessagingService{
		Open: func(link string) error {
			opened = append(opened, link)
			return errors.New("popup blocked")
		},
		Redirect: func(link string) error {
			redirected = append(redirected, link)
			return nil
		},
	}

	res := svc.Dispatch("01012874878", "hello")
	if !res.Success {
		t.Fatalf("fallback dispatch failed: %+v", res)
	}
	if len(opened) != 1 || len(redirected) != 1 {
		t.Fatalf("open/redirect calls = %d/%d, want 1/1", len(opened), len(redirected))
	}
	if opened[0] != redirected[0] {
		t.Fatalf("fallback targeted a different link")
	}
}

func TestDispatchBothStrategiesFail(t *testing.T) {
	boom := errors.New("no browser")
	svc := MessagingService{
		Open:     func(string) error { return boom },
		Redirect: func(string) error { return boom },
	}

	res := svc.Dispatch("01012874878", "hello")
	if res.Success {
		t.Fatalf("dispatch reported success with both strategies failing")
	}
	if res.Err == nil {
		t.Fatalf("failure result carries no error")
	}
	if res.URL == "" {
		t.Fatalf("failure result should still carry the composed link")
	}
}

func TestDispatchEmptyDestination(t *testing.T) {
	res := MessagingService{}.Dispatch("  -- ", "hello")
	if res.Success {
		t.Fatalf("empty destination reported success")
	}
	if res.Err == nil {
		t.Fatalf("empty destination carries no error")
	}
}

func TestDispatchNeverPanics(t *testing.T) {
	svc := MessagingService{
		Open: func(string) error { panic("injected") },
	}
	res := svc.Dispatch("01012874878", "hello")
	if res.Success {
		t.Fatalf("panicking opener reported success")
	}
	if res.Err == nil {
		t.Fatalf("panic was not captured into the result")
	}
}
