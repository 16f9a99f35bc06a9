package reconcile

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Facet is one migratable aspect of an entry. The numeric value is the
// facet's stable position in the persisted bitmask.
type Facet int

const (
	FacetEpisodes Facet = iota
	FacetCategories
	FacetTracks
	FacetCustomCover
)

// AllFacetsMask is the legacy "everything selected" preference value.
const AllFacetsMask = math.MaxInt32

var facetNames = map[Facet]string{
	FacetEpisodes:    "episodes",
	FacetCategories:  "categories",
	FacetTracks:      "tracks",
	FacetCustomCover: "custom_cover",
}

// Facets lists every facet in position order.
func Facets() []Facet {
	return []Facet{FacetEpisodes, FacetCategories, FacetTracks, FacetCustomCover}
}

func (f Facet) String() string {
	if name, ok := facetNames[f]; ok {
		return name
	}
	return fmt.Sprintf("facet(%d)", int(f))
}

// Title returns the user-facing label of the facet for the given entry kind.
func (f Facet) Title(kind Kind) string {
	switch f {
	case FacetEpisodes:
		if kind == KindManga {
			return "Chapters"
		}
		return "Episodes"
	case FacetCategories:
		return "Categories"
	case FacetTracks:
		return "Tracking"
	case FacetCustomCover:
		return "Custom cover"
	default:
		return f.String()
	}
}

// ParseFacet resolves a facet by name (case-insensitive, "-" and "_" equivalent).
func ParseFacet(s string) (Facet, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch norm {
	case "chapters":
		return FacetEpisodes, nil
	case "cover":
		return FacetCustomCover, nil
	case "track":
		return FacetTracks, nil
	}
	for f, name := range facetNames {
		if name == norm {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown facet %q", s)
}

// FacetSet is a set of facets selected for a migration.
type FacetSet struct {
	facets map[Facet]struct{}
}

// NewFacetSet builds a set from the given facets.
func NewFacetSet(facets ...Facet) FacetSet {
	s := FacetSet{facets: make(map[Facet]struct{}, len(facets))}
	for _, f := range facets {
		s.facets[f] = struct{}{}
	}
	return s
}

// AllFacets returns a set with every facet selected.
func AllFacets() FacetSet {
	return NewFacetSet(Facets()...)
}

// FacetSetFromMask decodes the legacy bitmask where bit i selects the facet at position i.
func FacetSetFromMask(mask int) FacetSet {
	s := NewFacetSet()
	for _, f := range Facets() {
		if mask&(1<<uint(f)) != 0 {
			s.facets[f] = struct{}{}
		}
	}
	return s
}

// FacetSetFromPositions builds a set from selected positions. Unknown positions are ignored.
func FacetSetFromPositions(positions []int) FacetSet {
	s := NewFacetSet()
	for _, p := range positions {
		f := Facet(p)
		if _, ok := facetNames[f]; ok {
			s.facets[f] = struct{}{}
		}
	}
	return s
}

// ParseFacetSet parses a comma-separated list of facet names or positions.
// "all" selects every facet, "" and "none" select nothing.
func ParseFacetSet(s string) (FacetSet, error) {
	trimmed := strings.TrimSpace(strings.ToLower(s))
	switch trimmed {
	case "all":
		return AllFacets(), nil
	case "", "none":
		return NewFacetSet(), nil
	}

	var positions []int
	for _, part := range strings.Split(trimmed, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if pos, err := strconv.Atoi(part); err == nil {
			if _, ok := facetNames[Facet(pos)]; !ok {
				return FacetSet{}, fmt.Errorf("unknown facet position %d", pos)
			}
			positions = append(positions, pos)
			continue
		}
		f, err := ParseFacet(part)
		if err != nil {
			return FacetSet{}, err
		}
		positions = append(positions, int(f))
	}
	return FacetSetFromPositions(positions), nil
}

// Has reports whether f is selected.
func (s FacetSet) Has(f Facet) bool {
	_, ok := s.facets[f]
	return ok
}

// Len returns the number of selected facets.
func (s FacetSet) Len() int {
	return len(s.facets)
}

// List returns the selected facets in position order.
func (s FacetSet) List() []Facet {
	out := make([]Facet, 0, len(s.facets))
	for f := range s.facets {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Positions returns the positions of the selected facets.
func (s FacetSet) Positions() []int {
	list := s.List()
	out := make([]int, len(list))
	for i, f := range list {
		out[i] = int(f)
	}
	return out
}

// Mask encodes the set as the legacy bitmask.
func (s FacetSet) Mask() int {
	mask := 0
	for f := range s.facets {
		mask |= 1 << uint(f)
	}
	return mask
}

func (s FacetSet) String() string {
	list := s.List()
	names := make([]string, len(list))
	for i, f := range list {
		names[i] = f.String()
	}
	return strings.Join(names, ",")
}

// MarshalJSON encodes the set as a list of facet names.
func (s FacetSet) MarshalJSON() ([]byte, error) {
	list := s.List()
	names := make([]string, len(list))
	for i, f := range list {
		names[i] = f.String()
	}
	return json.Marshal(names)
}

// UnmarshalJSON decodes a list of facet names or a list of facet positions.
// Unknown positions are ignored, unknown names are an error.
func (s *FacetSet) UnmarshalJSON(data []byte) error {
	var positions []int
	if err := json.Unmarshal(data, &positions); err == nil {
		*s = FacetSetFromPositions(positions)
		return nil
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	set := NewFacetSet()
	for _, name := range names {
		f, err := ParseFacet(name)
		if err != nil {
			return err
		}
		set.facets[f] = struct{}{}
	}
	*s = set
	return nil
}
