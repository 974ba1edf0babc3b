package model

// Supplement holds the facts recovered from the public profile page. Every
// field is always present; missing facts are zero or empty, never nil.
type Supplement struct {
	Activity            ActivityCounters `json:"activity"`
	BuilderRewards      float64          `json:"builderRewards"`
	GithubContributions int              `json:"githubContributions"`
	ContractsDeployed   int              `json:"contractsDeployed"`
	CreatorCoin         CreatorCoin      `json:"creatorCoin"`
	Followers           int              `json:"followers"`
	Following           int              `json:"following"`
	ProjectsCount       int              `json:"projectsCount"`
	Rank                int              `json:"rank"`
	Skills              []string         `json:"skills"`
	Achievements        []Achievement    `json:"achievements"`
	RecentActivity      []ActivityItem   `json:"recentActivity"`
	Projects            []Project        `json:"projects"`
	PageScores          []PageScore      `json:"pageScores"`
}

// ActivityCounters are the streak and total counters shown on the profile page.
type ActivityCounters struct {
	CurrentStreak int `json:"currentStreak"`
	LongestStreak int `json:"longestStreak"`
	TotalActivity int `json:"totalActivity"`
	UniqueDays    int `json:"uniqueDays"`
}

// CreatorCoin holds the creator-coin figures shown on the profile page.
type CreatorCoin struct {
	MarketCap   float64 `json:"marketCap"`
	TotalVolume float64 `json:"totalVolume"`
	Holders     int     `json:"holders"`
}

// Achievement is a badge or credential card rendered on the page.
type Achievement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ActivityItem is one entry of the page's recent activity feed.
type ActivityItem struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

// PageScore is a score row scraped from the scores subpage.
type PageScore struct {
	Type   string `json:"type"`
	Rank   int    `json:"rank"`
	Points int    `json:"points"`
}

// EmptySupplement returns a structurally complete supplement with no facts.
// Every failure path hands this out so callers never see nil slices.
func EmptySupplement() Supplement {
	return Supplement{
		Skills:         []string{},
		Achievements:   []Achievement{},
		RecentActivity: []ActivityItem{},
		Projects:       []Project{},
		PageScores:     []PageScore{},
	}
}

// Normalize replaces nil slices with empty ones.
func (s Supplement) Normalize() Supplement {
	if s.Skills == nil {
		s.Skills = []string{}
	}
	if s.Achievements == nil {
		s.Achievements = []Achievement{}
	}
	if s.RecentActivity == nil {
		s.RecentActivity = []ActivityItem{}
	}
	if s.Projects == nil {
		s.Projects = []Project{}
	}
	if s.PageScores == nil {
		s.PageScores = []PageScore{}
	}
	return s
}

// ScrapedPage is the outcome of one profile page scrape. Supplement is
// structurally complete even when the scrape failed.
type ScrapedPage struct {
	Supplement Supplement
	SourceURL  string
	Strategy   string
}
