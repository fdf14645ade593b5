package pathway

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultLevelPathways maps ESI levels to station sequences. Level 1 is the
// shortest, routing straight to the trauma center.
func defaultLevelPathways() map[int][]Station {
	return map[int][]Station{
		1: {StationTrauma, StationDischarge},
		2: {StationVision, StationDoctor, StationInvestigate, StationPharmacy, StationDischarge},
		3: {StationVision, StationRefraction, StationDilation, StationDoctor, StationPharmacy, StationDischarge},
		4: {StationVision, StationRefraction, StationPharmacy, StationDischarge},
		5: {StationPharmacy, StationDischarge},
	}
}

// defaultCategoryPathways holds the named complaint pathways that take
// precedence over the ESI-level tables. Categories absent here fall through
// to the level table.
func defaultCategoryPathways() map[Category][]Station {
	return map[Category][]Station{
		CategoryEmergency:     {StationTrauma, StationDischarge},
		CategoryBlurredVision: {StationVision, StationDoctor, StationPharmacy, StationDischarge},
		CategoryPain:          {StationVision, StationInvestigate, StationDoctor, StationPharmacy, StationDischarge},
		CategoryRedness:       {StationVision, StationDoctor, StationPharmacy, StationDischarge},
		CategoryRefraction:    {StationVision, StationRefraction, StationFundus, StationDoctor, StationPharmacy, StationDischarge},
	}
}

// Resolver selects the station sequence for a (level, category) pair. The
// tables are fixed at construction; only the selection is dynamic.
type Resolver struct {
	levels     map[int][]Station
	categories map[Category][]Station
}

func NewResolver() *Resolver {
	return &Resolver{
		levels:     defaultLevelPathways(),
		categories: defaultCategoryPathways(),
	}
}

// Resolve returns the pathway for the given ESI level and category. Category
// pathways win; otherwise the level table applies, and an invalid level
// falls back to the level-3 pathway. The returned slice is a copy.
func (r *Resolver) Resolve(level int, category Category) []Station {
	if p, ok := r.categories[category]; ok {
		return clone(p)
	}
	p, ok := r.levels[level]
	if !ok {
		p = r.levels[3]
	}
	return clone(p)
}

func clone(p []Station) []Station {
	out := make([]Station, len(p))
	copy(out, p)
	return out
}

type overrideFile struct {
	Levels     map[int][]string    `yaml:"levels"`
	Categories map[string][]string `yaml:"categories"`
}

// LoadOverrides replaces individual pathway entries from a YAML file so a
// clinic can re-order station sequences without a rebuild. Station and
// category names are validated; an invalid file leaves the resolver
// untouched.
func (r *Resolver) LoadOverrides(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read pathways file: %w", err)
	}

	var f overrideFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse pathways file: %w", err)
	}

	levels := make(map[int][]Station)
	for level, names := range f.Levels {
		if level < 1 || level > 5 {
			return fmt.Errorf("pathways file: level %d out of range", level)
		}
		stations, err := parseStations(names)
		if err != nil {
			return fmt.Errorf("pathways file: level %d: %w", level, err)
		}
		levels[level] = stations
	}

	categories := make(map[Category][]Station)
	for name, names := range f.Categories {
		cat, err := ParseCategory(name)
		if err != nil {
			return fmt.Errorf("pathways file: %w", err)
		}
		stations, err := parseStations(names)
		if err != nil {
			return fmt.Errorf("pathways file: category %s: %w", name, err)
		}
		categories[cat] = stations
	}

	for level, p := range levels {
		r.levels[level] = p
	}
	for cat, p := range categories {
		r.categories[cat] = p
	}
	return nil
}

func parseStations(names []string) ([]Station, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("empty station list")
	}
	stations := make([]Station, 0, len(names))
	for _, n := range names {
		st, err := ParseStation(n)
		if err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}
	return stations, nil
}
