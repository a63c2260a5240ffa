package domain

// TeamType summarises the dominant play style of the players on court.
type TeamType string

const (
	TeamTypeNone       TeamType = "None"
	TeamTypeFastAttack TeamType = "Ataque Rápido"
	TeamTypePower      TeamType = "Potente"
	TeamTypeBlock      TeamType = "Bloqueio"
	TeamTypeReceive    TeamType = "Recepção"
)

// styleTeamTypes maps style tags to the team type they count towards. Tags not
// listed ("Saque", "Levantador") never influence the team type.
var styleTeamTypes = map[string]TeamType{
	"Rápido":        TeamTypeFastAttack,
	"Ataque Rápido": TeamTypeFastAttack,
	"Potente":       TeamTypePower,
	"Bloqueio":      TeamTypeBlock,
	"Recepção":      TeamTypeReceive,
}

// TeamTypeForStyle returns the team type a style tag maps to.
func TeamTypeForStyle(style string) (TeamType, bool) {
	t, ok := styleTeamTypes[style]
	return t, ok
}

// StyleCounts tallies mapped style tags across the court.
type StyleCounts struct {
	FastAttack int `json:"Ataque Rápido"`
	Power      int `json:"Potente"`
	Block      int `json:"Bloqueio"`
	Receive    int `json:"Recepção"`
}

// Add increments the counter for t. TeamTypeNone is ignored.
func (s *StyleCounts) Add(t TeamType) {
	switch t {
	case TeamTypeFastAttack:
		s.FastAttack++
	case TeamTypePower:
		s.Power++
	case TeamTypeBlock:
		s.Block++
	case TeamTypeReceive:
		s.Receive++
	}
}
