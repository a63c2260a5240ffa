package domain

// Roster is everything the builder reads from the database in one load.
type Roster struct {
	Characters []*Character         `json:"characters"`
	Bonds      []*Bond              `json:"bonds"`
	Links      []*CharacterBondLink `json:"links"`
}

// Character returns the roster entry with the given id.
func (r *Roster) Character(id int64) (*Character, bool) {
	for _, c := range r.Characters {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}
