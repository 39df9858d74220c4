package insights

import (
	"sort"
	"strings"
)

// ActivityType is a semantic activity type keyed by Strava's raw sport value
type ActivityType string

const (
	// Foot sports
	Run        ActivityType = "Run"
	TrailRun   ActivityType = "TrailRun"
	Walk       ActivityType = "Walk"
	Hike       ActivityType = "Hike"
	Wheelchair ActivityType = "Wheelchair"
	VirtualRun ActivityType = "VirtualRun"

	// Cycle sports
	Ride              ActivityType = "Ride"
	MountainBikeRide  ActivityType = "MountainBikeRide"
	GravelRide        ActivityType = "GravelRide"
	EBikeRide         ActivityType = "EBikeRide"
	EMountainBikeRide ActivityType = "EMountainBikeRide"
	Velomobile        ActivityType = "Velomobile"
	Handcycle         ActivityType = "Handcycle"
	VirtualRide       ActivityType = "VirtualRide"

	// Water sports
	Swim            ActivityType = "Swim"
	Rowing          ActivityType = "Rowing"
	Kayaking        ActivityType = "Kayaking"
	Canoeing        ActivityType = "Canoeing"
	StandUpPaddling ActivityType = "StandUpPaddling"
	Surfing         ActivityType = "Surfing"
	Kitesurf        ActivityType = "Kitesurf"
	Windsurf        ActivityType = "Windsurf"
	Sail            ActivityType = "Sail"

	// Winter sports
	AlpineSki      ActivityType = "AlpineSki"
	BackcountrySki ActivityType = "BackcountrySki"
	NordicSki      ActivityType = "NordicSki"
	Snowboard      ActivityType = "Snowboard"
	Snowshoe       ActivityType = "Snowshoe"
	IceSkate       ActivityType = "IceSkate"

	// Other sports
	InlineSkate ActivityType = "InlineSkate"
	RollerSki   ActivityType = "RollerSki"
	Skateboard  ActivityType = "Skateboard"
	Soccer      ActivityType = "Soccer"
	Tennis      ActivityType = "Tennis"
	Padel       ActivityType = "Padel"
	Racquetball ActivityType = "Racquetball"
	Squash      ActivityType = "Squash"
	Badminton   ActivityType = "Badminton"
	Pickleball  ActivityType = "Pickleball"
	TableTennis ActivityType = "TableTennis"
	Basketball  ActivityType = "Basketball"
	Volleyball  ActivityType = "Volleyball"
	Cricket     ActivityType = "Cricket"
	Dance       ActivityType = "Dance"
	Golf        ActivityType = "Golf"
	Elliptical  ActivityType = "Elliptical"
)

// AllTypes lists every type in declaration order. Classification walks
// this slice front to back, so the order is part of the contract.
var AllTypes = []ActivityType{
	Run, TrailRun, Walk, Hike, Wheelchair, VirtualRun,
	Ride, MountainBikeRide, GravelRide, EBikeRide, EMountainBikeRide, Velomobile, Handcycle, VirtualRide,
	Swim, Rowing, Kayaking, Canoeing, StandUpPaddling, Surfing, Kitesurf, Windsurf, Sail,
	AlpineSki, BackcountrySki, NordicSki, Snowboard, Snowshoe, IceSkate,
	InlineSkate, RollerSki, Skateboard, Soccer, Tennis, Padel, Racquetball, Squash,
	Badminton, Pickleball, TableTennis, Basketball, Volleyball, Cricket, Dance, Golf, Elliptical,
}

// DefaultSelected is the out-of-the-box type selection
var DefaultSelected = []ActivityType{Run, Ride, Walk, TrailRun, Hike, Wheelchair}

var displayNames = map[ActivityType]string{
	Run:               "Run",
	TrailRun:          "Trail Run",
	Walk:              "Walk",
	Hike:              "Hike",
	Wheelchair:        "Wheelchair",
	VirtualRun:        "Virtual Run",
	Ride:              "Ride",
	MountainBikeRide:  "Mountain Bike Ride",
	GravelRide:        "Gravel Ride",
	EBikeRide:         "E-Bike Ride",
	EMountainBikeRide: "E-Mountain Bike Ride",
	Velomobile:        "Velomobile",
	Handcycle:         "Handcycle",
	VirtualRide:       "Virtual Ride",
	Swim:              "Swim",
	Rowing:            "Rowing",
	Kayaking:          "Kayaking",
	Canoeing:          "Canoeing",
	StandUpPaddling:   "Stand Up Paddling",
	Surfing:           "Surfing",
	Kitesurf:          "Kitesurf",
	Windsurf:          "Windsurf",
	Sail:              "Sailing",
	AlpineSki:         "Alpine Ski",
	BackcountrySki:    "Backcountry Ski",
	NordicSki:         "Nordic Ski",
	Snowboard:         "Snowboard",
	Snowshoe:          "Snowshoe",
	IceSkate:          "Ice Skate",
	InlineSkate:       "Inline Skate",
	RollerSki:         "Roller Ski",
	Skateboard:        "Skateboard",
	Soccer:            "Football (Soccer)",
	Tennis:            "Tennis",
	Padel:             "Padel",
	Racquetball:       "Racquetball",
	Squash:            "Squash",
	Badminton:         "Badminton",
	Pickleball:        "Pickleball",
	TableTennis:       "Table Tennis",
	Basketball:        "Basketball",
	Volleyball:        "Volleyball",
	Cricket:           "Cricket",
	Dance:             "Dance",
	Golf:              "Golf",
	Elliptical:        "Elliptical",
}

// matchTokens holds the normalized sport_type values each type matches.
// Tokens are lowercased with underscores and spaces removed.
var matchTokens = map[ActivityType][]string{
	Run:               {"run"},
	TrailRun:          {"trailrun"},
	Walk:              {"walk"},
	Hike:              {"hike"},
	Wheelchair:        {"wheelchair"},
	VirtualRun:        {"virtualrun"},
	Ride:              {"ride"},
	MountainBikeRide:  {"mountainbikeride"},
	GravelRide:        {"gravelride"},
	EBikeRide:         {"ebikeride"},
	EMountainBikeRide: {"emountainbikeride"},
	Velomobile:        {"velomobile"},
	Handcycle:         {"handcycle"},
	VirtualRide:       {"virtualride"},
	Swim:              {"swim"},
	Rowing:            {"rowing", "virtualrow"},
	Kayaking:          {"kayaking"},
	Canoeing:          {"canoeing"},
	StandUpPaddling:   {"standuppaddling"},
	Surfing:           {"surfing"},
	Kitesurf:          {"kitesurf"},
	Windsurf:          {"windsurf"},
	Sail:              {"sail"},
	AlpineSki:         {"alpineski"},
	BackcountrySki:    {"backcountryski"},
	NordicSki:         {"nordicski"},
	Snowboard:         {"snowboard"},
	Snowshoe:          {"snowshoe"},
	IceSkate:          {"iceskate"},
	InlineSkate:       {"inlineskate"},
	RollerSki:         {"rollerski"},
	Skateboard:        {"skateboard"},
	Soccer:            {"soccer"},
	Tennis:            {"tennis"},
	Padel:             {"padel"},
	Racquetball:       {"racquetball"},
	Squash:            {"squash"},
	Badminton:         {"badminton"},
	Pickleball:        {"pickleball"},
	TableTennis:       {"tabletennis"},
	Basketball:        {"basketball"},
	Volleyball:        {"volleyball"},
	Cricket:           {"cricket"},
	Dance:             {"dance"},
	Golf:              {"golf"},
	Elliptical:        {"elliptical"},
}

// DisplayName returns the human-readable name for the type
func (t ActivityType) DisplayName() string {
	if name, ok := displayNames[t]; ok {
		return name
	}
	return string(t)
}

// Matches reports whether the type matches a raw type/sport_type pair.
// The finer-grained sport_type is preferred; the coarse type field is
// only consulted when sport_type is empty.
func (t ActivityType) Matches(typeToken, sportTypeToken string) bool {
	candidate := normalizeToken(sportTypeToken)
	if candidate == "" {
		candidate = normalizeToken(typeToken)
	}
	for _, token := range matchTokens[t] {
		if token == candidate {
			return true
		}
	}
	return false
}

// Classify maps a raw type/sport_type pair to the first matching type.
// The second return is false when no type matches; such activities stay
// out of type-based statistics but still count toward day aggregates.
func Classify(typeToken, sportTypeToken string) (ActivityType, bool) {
	for _, t := range AllTypes {
		if t.Matches(typeToken, sportTypeToken) {
			return t, true
		}
	}
	return "", false
}

// MatchesAny reports whether any of the selected types matches the pair
func MatchesAny(selected []ActivityType, typeToken, sportTypeToken string) bool {
	for _, t := range selected {
		if t.Matches(typeToken, sportTypeToken) {
			return true
		}
	}
	return false
}

// ParseType converts a raw key back to an ActivityType
func ParseType(raw string) (ActivityType, bool) {
	t := ActivityType(raw)
	if _, ok := displayNames[t]; ok {
		return t, true
	}
	return "", false
}

// Category is a coarse grouping of activity types
type Category string

const (
	CategoryFoot   Category = "Foot Sports"
	CategoryCycle  Category = "Cycling"
	CategoryWater  Category = "Water Sports"
	CategoryWinter Category = "Winter Sports"
	CategoryOther  Category = "Other Sports"
)

// AllCategories in fixed display order. Settings screens iterate this,
// so the order is a contract.
var AllCategories = []Category{CategoryFoot, CategoryCycle, CategoryWater, CategoryWinter, CategoryOther}

// Category returns the coarse grouping this type belongs to
func (t ActivityType) Category() Category {
	switch t {
	case Run, TrailRun, Walk, Hike, Wheelchair, VirtualRun:
		return CategoryFoot
	case Ride, MountainBikeRide, GravelRide, EBikeRide, EMountainBikeRide, Velomobile, Handcycle, VirtualRide:
		return CategoryCycle
	case Swim, Rowing, Kayaking, Canoeing, StandUpPaddling, Surfing, Kitesurf, Windsurf, Sail:
		return CategoryWater
	case AlpineSki, BackcountrySki, NordicSki, Snowboard, Snowshoe, IceSkate:
		return CategoryWinter
	default:
		return CategoryOther
	}
}

// CategoryGroup is one category with its member types in declaration order
type CategoryGroup struct {
	Category Category
	Types    []ActivityType
}

// Grouped partitions all types by category, categories in fixed order
func Grouped() []CategoryGroup {
	groups := make([]CategoryGroup, 0, len(AllCategories))
	for _, c := range AllCategories {
		var types []ActivityType
		for _, t := range AllTypes {
			if t.Category() == c {
				types = append(types, t)
			}
		}
		groups = append(groups, CategoryGroup{Category: c, Types: types})
	}
	return groups
}

// NormalizeSelection dedupes and sorts a selection; an empty selection
// falls back to the default set.
func NormalizeSelection(selected []ActivityType) []ActivityType {
	if len(selected) == 0 {
		selected = DefaultSelected
	}
	seen := make(map[ActivityType]bool, len(selected))
	out := make([]ActivityType, 0, len(selected))
	for _, t := range selected {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SelectionKey is the order-independent cache identity of a selection:
// the sorted raw keys joined by commas.
func SelectionKey(selected []ActivityType) string {
	normalized := NormalizeSelection(selected)
	raw := make([]string, len(normalized))
	for i, t := range normalized {
		raw[i] = string(t)
	}
	return strings.Join(raw, ",")
}

func normalizeToken(token string) string {
	token = strings.ToLower(token)
	token = strings.ReplaceAll(token, "_", "")
	return strings.ReplaceAll(token, " ", "")
}
