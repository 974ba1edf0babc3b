package model

// Record is the merged, normalized view of one identifier. It is built fresh
// for every request and never shared.
type Record struct {
	Identifier     string           `json:"identifier"`
	UserID         string           `json:"userId"`
	RelativePath   string           `json:"relativePath"`
	Profile        Profile          `json:"profile"`
	Human          bool             `json:"human"`
	BuilderScore   *Score           `json:"builderScore"`
	Scores         map[string]Score `json:"scores"`
	Credentials    []Credential     `json:"credentials"`
	Events         []Event          `json:"events"`
	Projects       []Project        `json:"projects"`
	ProjectsSource string           `json:"projectsSource"`
	Accounts       []Account        `json:"accounts"`
	Socials        []Social         `json:"socials"`
	DataPoints     map[string]Facts `json:"dataPoints"`
	Supplement     Supplement       `json:"supplement"`
	SourceURL      string           `json:"sourceUrl"`
	Availability   Availability     `json:"availability"`
}

// Facts are the numeric data points reported for one data-point slug.
type Facts map[string]float64

// Project sources.
const (
	ProjectsFromAPI    = "api"
	ProjectsFromScrape = "scrape"
)

// Availability records, per source, whether its call succeeded, independent
// of whether the returned data was empty.
type Availability struct {
	Profile        bool `json:"profile"`
	Scores         bool `json:"scores"`
	Events         bool `json:"events"`
	Credentials    bool `json:"credentials"`
	Projects       bool `json:"projects"`
	Connections    bool `json:"connections"`
	HumanCheckmark bool `json:"humanCheckmark"`
	DataPoints     bool `json:"dataPoints"`
	Scraping       bool `json:"scraping"`
	ScoresPage     bool `json:"scoresPage"`
}

// NewRecord returns a record whose slices and maps are empty rather than nil.
func NewRecord(identifier string) Record {
	return Record{
		Identifier:  identifier,
		Scores:      map[string]Score{},
		Credentials: []Credential{},
		Events:      []Event{},
		Projects:    []Project{},
		Accounts:    []Account{},
		Socials:     []Social{},
		DataPoints:  map[string]Facts{},
		Supplement:  EmptySupplement(),
	}
}
