package config

import (
	"os"
	"strings"
)

type Env struct {
	AppAddr string
	GinMode string
	// APIBaseURL points at the external excursions reference/booking API.
	APIBaseURL string
	// MessagingHost is the composer host the WhatsApp deep links target.
	MessagingHost string
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	apiBase := strings.TrimSpace(os.Getenv("API_BASE_URL"))
	if apiBase == "" {
		apiBase = "https://excursions-api.vercel.app/api"
	}

	messagingHost := strings.TrimSpace(os.Getenv("MESSAGING_HOST"))
	if messagingHost == "" {
		messagingHost = "wa.me"
	}

	return Env{
		AppAddr:       appAddr,
		GinMode:       strings.TrimSpace(os.Getenv("GIN_MODE")),
		APIBaseURL:    strings.TrimRight(apiBase, "/"),
		MessagingHost: messagingHost,
	}
}
