package builder

import "github.com/dom/haikyu-team-builder/internal/domain"

// SchoolBondThreshold is the number of players from one school on court that
// activates the bond named after that school.
const SchoolBondThreshold = 4

// TeamTypeRule pairs a threshold predicate with the team type it yields.
type TeamTypeRule struct {
	Type    domain.TeamType
	Matches func(domain.StyleCounts) bool
}

// FreeModeRules are evaluated in order; the first match wins even when later
// rules also hold.
var FreeModeRules = []TeamTypeRule{
	{Type: domain.TeamTypeReceive, Matches: func(c domain.StyleCounts) bool { return c.Receive >= 5 }},
	{Type: domain.TeamTypeBlock, Matches: func(c domain.StyleCounts) bool { return c.Block >= 4 }},
	{Type: domain.TeamTypePower, Matches: func(c domain.StyleCounts) bool { return c.Power >= 4 }},
	{Type: domain.TeamTypeFastAttack, Matches: func(c domain.StyleCounts) bool { return c.FastAttack >= 4 }},
}

// CountStyles tallies mapped style tags of every occupied court slot,
// libero included.
func CountStyles(court domain.TeamSlots) domain.StyleCounts {
	var counts domain.StyleCounts
	for _, c := range court.Occupied() {
		for _, style := range c.StyleList() {
			if t, ok := domain.TeamTypeForStyle(style); ok {
				counts.Add(t)
			}
		}
	}
	return counts
}

// SetterTeamType returns the type of the setter's first mapped style tag.
func SetterTeamType(court domain.TeamSlots) domain.TeamType {
	if court.Pos2S == nil {
		return domain.TeamTypeNone
	}
	for _, style := range court.Pos2S.StyleList() {
		if t, ok := domain.TeamTypeForStyle(style); ok {
			return t
		}
	}
	return domain.TeamTypeNone
}

// MatchTeamType returns the type of the first rule counts satisfy.
func MatchTeamType(counts domain.StyleCounts, rules []TeamTypeRule) domain.TeamType {
	for _, rule := range rules {
		if rule.Matches(counts) {
			return rule.Type
		}
	}
	return domain.TeamTypeNone
}

// ComputeTeamType derives the team type under the given ruleset. Style counts
// are returned in both modes.
func ComputeTeamType(court domain.TeamSlots, freeMode bool) (domain.TeamType, domain.StyleCounts) {
	counts := CountStyles(court)
	if !freeMode {
		return SetterTeamType(court), counts
	}
	return MatchTeamType(counts, FreeModeRules), counts
}

// ActiveBonds lists the bonds the court activates: school bonds first, in
// order of the school's first appearance on court, then character bonds in
// the order of bonds.
func ActiveBonds(court domain.TeamSlots, bonds []*domain.Bond, links []*domain.CharacterBondLink, roster []*domain.Character) []*domain.Bond {
	active := []*domain.Bond{}
	onCourt := court.Occupied()
	if len(onCourt) == 0 || len(bonds) == 0 {
		return active
	}

	bondsByName := make(map[string]*domain.Bond, len(bonds))
	for _, b := range bonds {
		if b == nil {
			continue
		}
		if _, seen := bondsByName[b.Name]; !seen {
			bondsByName[b.Name] = b
		}
	}

	schoolCounts := make(map[domain.School]int)
	var schoolOrder []domain.School
	names := make(map[string]bool, len(onCourt))
	for _, c := range onCourt {
		names[c.Name] = true
		if c.School == "" {
			continue
		}
		if schoolCounts[c.School] == 0 {
			schoolOrder = append(schoolOrder, c.School)
		}
		schoolCounts[c.School]++
	}

	activeSchools := make(map[string]bool)
	for _, school := range schoolOrder {
		if schoolCounts[school] < SchoolBondThreshold {
			continue
		}
		if b, ok := bondsByName[string(school)]; ok {
			active = append(active, b)
			activeSchools[b.Name] = true
		}
	}

	required := RequiredNames(links, roster)
	for _, b := range bonds {
		if b == nil || activeSchools[b.Name] {
			continue
		}
		need := required[b.ID]
		if len(need) == 0 {
			continue
		}
		if allPresent(need, names) {
			active = append(active, b)
		}
	}
	return active
}

// RequiredNames groups the distinct character names each bond requires. Links
// pointing at characters missing from roster are ignored.
func RequiredNames(links []*domain.CharacterBondLink, roster []*domain.Character) map[int64][]string {
	byID := make(map[int64]*domain.Character, len(roster))
	for _, c := range roster {
		if c != nil {
			byID[c.ID] = c
		}
	}

	required := make(map[int64][]string)
	seen := make(map[int64]map[string]bool)
	for _, link := range links {
		if link == nil {
			continue
		}
		c, ok := byID[link.CharacterID]
		if !ok || c.Name == "" {
			continue
		}
		if seen[link.BondID] == nil {
			seen[link.BondID] = make(map[string]bool)
		}
		if seen[link.BondID][c.Name] {
			continue
		}
		seen[link.BondID][c.Name] = true
		required[link.BondID] = append(required[link.BondID], c.Name)
	}
	return required
}

func allPresent(need []string, have map[string]bool) bool {
	for _, name := range need {
		if !have[name] {
			return false
		}
	}
	return true
}

// Summary is everything derived from a team for display.
type Summary struct {
	TeamType    domain.TeamType    `json:"teamType"`
	StyleCounts domain.StyleCounts `json:"styleCounts"`
	ActiveBonds []*domain.Bond     `json:"activeBonds"`
}

// Summarize computes team type, style counts and active bonds for t.
func Summarize(t Team, bonds []*domain.Bond, links []*domain.CharacterBondLink, roster []*domain.Character) Summary {
	teamType, counts := ComputeTeamType(t.Court, t.FreeMode)
	return Summary{
		TeamType:    teamType,
		StyleCounts: counts,
		ActiveBonds: ActiveBonds(t.Court, bonds, links, roster),
	}
}
