package intel

import (
	"encoding/json"
	"regexp"
	"sort"
)

// coordPattern matches the bracketed galaxy:system:position form that scan
// exports embed, e.g. "[3:120:8]".
var coordPattern = regexp.MustCompile(`\[(\d{1,2}:\d{1,3}:\d{1,2})\]`)

// scanInput is the recognized structured sub-format of a raw scan export.
type scanInput struct {
	Planet *struct {
		Name      string  `json:"name"`
		Coords    string  `json:"coords"`
		Resources []int64 `json:"resources"`
		Buildings map[string]struct {
			Name  string `json:"name"`
			Level int64  `json:"level"`
		} `json:"buildings"`
		Ships []struct {
			Name  string `json:"name"`
			Count int64  `json:"count"`
		} `json:"ships"`
		Defense []struct {
			Name  string `json:"name"`
			Count int64  `json:"count"`
		} `json:"defense"`
	} `json:"planet"`
}

// Parse extracts a structured snapshot from raw scan text. Two stages: the
// structured decode first, then a coordinate scrape over the raw text when
// that fails. Never errors — unparseable input yields a zeroed snapshot
// plus whatever coordinate was found.
func Parse(text string) Snapshot {
	var snap Snapshot
	if text == "" {
		return snap
	}

	var in scanInput
	if err := json.Unmarshal([]byte(text), &in); err == nil && in.Planet != nil {
		snap.Parsed = true
		snap.PlanetName = in.Planet.Name
		snap.Coords = in.Planet.Coords
		for i, r := range in.Planet.Resources {
			if i >= len(snap.Resources) {
				break
			}
			snap.Resources[i] = r
		}
		for _, b := range sortedBuildings(in) {
			snap.Buildings = append(snap.Buildings, b)
		}
		for _, ship := range in.Planet.Ships {
			snap.Fleet = append(snap.Fleet, UnitCount{Name: ship.Name, Count: ship.Count})
		}
		for _, d := range in.Planet.Defense {
			snap.Defense = append(snap.Defense, UnitCount{Name: d.Name, Count: d.Count})
		}
		return snap
	}

	// Fallback stage: scrape a coordinate out of the raw text.
	if m := coordPattern.FindString(text); m != "" {
		snap.Coords = m
	}
	return snap
}

// sortedBuildings flattens the building map in a stable order so repeated
// parses of the same text produce identical snapshots.
func sortedBuildings(in scanInput) []UnitCount {
	keys := make([]string, 0, len(in.Planet.Buildings))
	for k := range in.Planet.Buildings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]UnitCount, 0, len(keys))
	for _, k := range keys {
		b := in.Planet.Buildings[k]
		out = append(out, UnitCount{Name: b.Name, Count: b.Level})
	}
	return out
}
