package service

import (
	"time"

	"github.com/okian/wrapped/internal/domain/model"
)

const recentEventsLimit = 10

// View is the payload of GET /api/wrapped/{identifier}.
type View struct {
	User         User               `json:"user"`
	Scores       Scores             `json:"scores"`
	Activity     Activity           `json:"activity"`
	Credentials  Credentials        `json:"credentials"`
	Connections  Connections        `json:"connections"`
	Projects     Projects           `json:"projects"`
	YearInReview model.YearInReview `json:"yearInReview"`
	Metadata     Metadata           `json:"metadata"`
}

// User is the public identity block.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	Bio         string    `json:"bio"`
	ImageURL    string    `json:"imageUrl"`
	Location    string    `json:"location"`
	Tags        []string  `json:"tags"`
	Verified    Verified  `json:"verified"`
	Wallets     []string  `json:"wallets"`
	Socials     []string  `json:"socials"`
	CreatedAt   time.Time `json:"createdAt"`
	ProfileURL  string    `json:"profileUrl"`
}

// Verified holds the identity checks.
type Verified struct {
	Human       bool `json:"human"`
	Nationality bool `json:"nationality"`
}

// Scores groups the builder score, every score by slug and the level.
type Scores struct {
	Builder *model.Score           `json:"builder"`
	All     map[string]model.Score `json:"all"`
	Level   model.Level            `json:"level"`
}

// Activity groups events, data points and the scraped supplement.
type Activity struct {
	Events     Events                 `json:"events"`
	DataPoints map[string]model.Facts `json:"dataPoints"`
	Scraped    model.Supplement       `json:"scraped"`
}

// Events is the event summary.
type Events struct {
	Total    int                   `json:"total"`
	Recent   []model.Event         `json:"recent"`
	Timeline []model.TimelineEntry `json:"timeline"`
}

// Credentials is the credential summary.
type Credentials struct {
	All        []model.Credential                  `json:"all"`
	Count      int                                 `json:"count"`
	ByCategory map[model.Bucket][]model.Credential `json:"byCategory"`
}

// Connections is the connected accounts summary.
type Connections struct {
	Accounts         []model.Account `json:"accounts"`
	Socials          []model.Social  `json:"socials"`
	TotalConnections int             `json:"totalConnections"`
}

// Projects is the project summary. Source is "api", "scrape" or empty.
type Projects struct {
	All    []model.Project `json:"all"`
	Count  int             `json:"count"`
	Source string          `json:"source"`
}

// Metadata describes how the view was produced.
type Metadata struct {
	GeneratedAt time.Time          `json:"generatedAt"`
	Year        int                `json:"year"`
	Identifier  string             `json:"identifier"`
	SourceURL   string             `json:"sourceUrl,omitempty"`
	DataSources model.Availability `json:"dataSources"`
}

func (s *Service) build(rec model.Record, yr model.YearInReview, now time.Time) View {
	p := rec.Profile
	recent := rec.Events
	if len(recent) > recentEventsLimit {
		recent = recent[:recentEventsLimit]
	}

	return View{
		User: User{
			ID:          rec.UserID,
			Name:        p.Name,
			DisplayName: p.DisplayName,
			Bio:         p.Bio,
			ImageURL:    p.ImageURL,
			Location:    p.Location,
			Tags:        nonNil(p.Tags),
			Verified:    Verified{Human: rec.Human, Nationality: p.VerifiedNationality},
			Wallets:     nonNil(p.Wallets),
			Socials:     nonNil(p.Socials),
			CreatedAt:   p.CreatedAt,
			ProfileURL:  s.webURL + rec.RelativePath,
		},
		Scores: Scores{
			Builder: rec.BuilderScore,
			All:     rec.Scores,
			Level:   yr.Level,
		},
		Activity: Activity{
			Events: Events{
				Total:    len(rec.Events),
				Recent:   recent,
				Timeline: yr.Timeline,
			},
			DataPoints: rec.DataPoints,
			Scraped:    rec.Supplement,
		},
		Credentials: Credentials{
			All:        rec.Credentials,
			Count:      len(rec.Credentials),
			ByCategory: yr.CredentialsByCategory,
		},
		Connections: Connections{
			Accounts:         rec.Accounts,
			Socials:          rec.Socials,
			TotalConnections: len(rec.Accounts) + len(rec.Socials),
		},
		Projects: Projects{
			All:    rec.Projects,
			Count:  len(rec.Projects),
			Source: rec.ProjectsSource,
		},
		YearInReview: yr,
		Metadata: Metadata{
			GeneratedAt: now,
			Year:        yr.Year,
			Identifier:  rec.Identifier,
			SourceURL:   rec.SourceURL,
			DataSources: rec.Availability,
		},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
