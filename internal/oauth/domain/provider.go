package domain

import (
	"fmt"

	"golang.org/x/oauth2"
)

// Provider describes one OAuth mail provider: where to send the user, where
// to exchange tokens, and which IMAP endpoint the resulting tokens unlock.
type Provider struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Scopes      []string `json:"scopes"`
	IMAPHost    string   `json:"imap_host"`
	IMAPPort    int      `json:"imap_port"`
	// IMAPScope is the scope the granted token must carry for IMAP access.
	IMAPScope string          `json:"-"`
	Endpoint  oauth2.Endpoint `json:"-"`
}

var microsoft = &Provider{
	Name:        "microsoft",
	DisplayName: "Microsoft (Outlook / Office 365)",
	Scopes: []string{
		"openid",
		"profile",
		"email",
		"offline_access",
		"https://outlook.office.com/IMAP.AccessAsUser.All",
	},
	IMAPHost:  "outlook.office365.com",
	IMAPPort:  993,
	IMAPScope: "https://outlook.office.com/IMAP.AccessAsUser.All",
	Endpoint: oauth2.Endpoint{
		AuthURL:  "https://login.microsoftonline.com/common/oauth2/v2.0/authorize",
		TokenURL: "https://login.microsoftonline.com/common/oauth2/v2.0/token",
	},
}

var providers = map[string]*Provider{
	microsoft.Name: microsoft,
}

// ProviderByName looks up a registered provider.
func ProviderByName(name string) (*Provider, error) {
	p, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown oauth provider: %s", name)
	}
	return p, nil
}

// Providers returns every registered provider.
func Providers() []*Provider {
	out := make([]*Provider, 0, len(providers))
	for _, p := range providers {
		out = append(out, p)
	}
	return out
}
