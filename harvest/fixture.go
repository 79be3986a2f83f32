package harvest

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// fixtureEntry is one row of a JSON fixture file.
type fixtureEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// FixtureHarvester reads a JSON array of {"path", "type"} objects from
// filename and returns a Harvester over them.
func FixtureHarvester(filename string) (Harvester, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("harvest: %w", err)
	}
	var fixtures []fixtureEntry
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		return nil, fmt.Errorf("harvest: %s: %w", filename, err)
	}
	return func(yield func(Entry) bool) {
		for _, f := range fixtures {
			if !yield(Entry{Path: f.Path, Type: f.Type}) {
				return
			}
		}
	}, nil
}
