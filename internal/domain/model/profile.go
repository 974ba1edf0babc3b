// Package model contains the domain records passed between the upstream
// client, the page scraper, the aggregator and the statistics engine.
package model

import "time"

// Profile is the identity and reputation snapshot resolved for an identifier.
type Profile struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	DisplayName         string    `json:"displayName"`
	Bio                 string    `json:"bio"`
	ImageURL            string    `json:"imageUrl"`
	Location            string    `json:"location"`
	Tags                []string  `json:"tags"`
	HumanCheckmark      bool      `json:"humanCheckmark"`
	VerifiedNationality bool      `json:"verifiedNationality"`
	CreatedAt           time.Time `json:"createdAt"`
	RefreshedAt         time.Time `json:"profileRefreshedAt"`
	TalentProtocolID    string    `json:"talentProtocolId,omitempty"`
	RelativePath        string    `json:"relativePath"`
	BuilderScore        *Score    `json:"builderScore"`
	Scores              []Score   `json:"scores"`
	Wallets             []string  `json:"wallets"`
	Socials             []string  `json:"socials"`
}

// Score is one reputation score as reported by the profile API.
type Score struct {
	Slug             string    `json:"slug"`
	Points           float64   `json:"points"`
	RankPosition     int       `json:"rankPosition,omitempty"`
	LastCalculatedAt time.Time `json:"lastCalculatedAt"`
}

// WithConnections returns a copy of p carrying the wallet addresses and social
// handles found in accounts and socials. p itself is left untouched.
func (p Profile) WithConnections(accounts []Account, socials []Social) Profile {
	out := p
	out.Tags = append([]string(nil), p.Tags...)
	out.Scores = append([]Score(nil), p.Scores...)
	out.Wallets = append([]string(nil), p.Wallets...)
	out.Socials = append([]string(nil), p.Socials...)

	seenWallet := make(map[string]struct{}, len(out.Wallets))
	for _, w := range out.Wallets {
		seenWallet[w] = struct{}{}
	}
	for _, a := range accounts {
		if a.Source != "wallet" || a.Identifier == "" {
			continue
		}
		if _, ok := seenWallet[a.Identifier]; ok {
			continue
		}
		seenWallet[a.Identifier] = struct{}{}
		out.Wallets = append(out.Wallets, a.Identifier)
	}

	seenSocial := make(map[string]struct{}, len(out.Socials))
	for _, s := range out.Socials {
		seenSocial[s] = struct{}{}
	}
	for _, s := range socials {
		handle := s.Handle
		if handle == "" {
			continue
		}
		if _, ok := seenSocial[handle]; ok {
			continue
		}
		seenSocial[handle] = struct{}{}
		out.Socials = append(out.Socials, handle)
	}

	if out.Tags == nil {
		out.Tags = []string{}
	}
	if out.Scores == nil {
		out.Scores = []Score{}
	}
	if out.Wallets == nil {
		out.Wallets = []string{}
	}
	if out.Socials == nil {
		out.Socials = []string{}
	}
	return out
}
