package scraper

// SourceKind selects which normalizer a hall's fetch goes through.
// A closed set: every hall is exactly one of these.
type SourceKind string

const (
	SourcePomona     SourceKind = "pomona"
	SourceSodexo     SourceKind = "sodexo"
	SourceBonAppetit SourceKind = "bonappetit"
)

// HallConfig is one hall's scrape configuration. The hall list is static
// data passed into the Runner, not mutable state.
type HallConfig struct {
	Key    string // stable identifier used in logs and the run summary
	Name   string // persisted hall name (natural key)
	Campus string
	Source SourceKind
	URL    string // feed URL (pomona), page URL (sodexo), cafe URL (bonappetit)
}

// DefaultHalls is the production scrape configuration for the Claremont
// dining halls.
func DefaultHalls() []HallConfig {
	return []HallConfig{
		{
			Key:    "frank",
			Name:   "Frank Dining Hall",
			Campus: "Pomona",
			Source: SourcePomona,
			URL:    "https://www.pomona.edu/administration/dining/menus/frank.json",
		},
		{
			Key:    "frary",
			Name:   "Frary Dining Hall",
			Campus: "Pomona",
			Source: SourcePomona,
			URL:    "https://www.pomona.edu/administration/dining/menus/frary.json",
		},
		{
			Key:    "oldenborg",
			Name:   "Oldenborg Dining Hall",
			Campus: "Pomona",
			Source: SourcePomona,
			URL:    "https://www.pomona.edu/administration/dining/menus/oldenborg.json",
		},
		{
			Key:    "collins",
			Name:   "Collins Dining Hall",
			Campus: "CMC",
			Source: SourceBonAppetit,
			URL:    "https://collins-cmc.cafebonappetit.com/cafe/collins",
		},
		{
			Key:    "mcconnell",
			Name:   "McConnell Bistro",
			Campus: "Pitzer",
			Source: SourceBonAppetit,
			URL:    "https://pitzer.cafebonappetit.com/cafe/mcconnell-bistro",
		},
		{
			Key:    "malott",
			Name:   "Malott Commons",
			Campus: "Scripps",
			Source: SourceSodexo,
			URL:    "https://scrippsdining.sodexomyway.com/dining-near-me/malott-commons",
		},
		{
			Key:    "hoch",
			Name:   "Hoch-Shanahan Dining Commons",
			Campus: "HMC",
			Source: SourceSodexo,
			URL:    "https://hmc.sodexomyway.com/dining-near-me/hoch-shanahan",
		},
	}
}
