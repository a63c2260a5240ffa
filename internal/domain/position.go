package domain

// Position is the court role printed on a card.
type Position string

const (
	PositionOpposite    Position = "OP"
	PositionMiddleBlock Position = "MB"
	PositionWingSpiker  Position = "WS"
	PositionSetter      Position = "S"
	PositionLibero      Position = "L"
)

// AllPositions contains all valid positions
var AllPositions = []Position{PositionOpposite, PositionMiddleBlock, PositionWingSpiker, PositionSetter, PositionLibero}

// IsValid checks if a position is valid
func (p Position) IsValid() bool {
	switch p {
	case PositionOpposite, PositionMiddleBlock, PositionWingSpiker, PositionSetter, PositionLibero:
		return true
	}
	return false
}

func (p Position) String() string {
	return string(p)
}

// DisplayName returns a user-friendly display name for the position
func (p Position) DisplayName() string {
	switch p {
	case PositionOpposite:
		return "Opposite"
	case PositionMiddleBlock:
		return "Middle Blocker"
	case PositionWingSpiker:
		return "Wing Spiker"
	case PositionSetter:
		return "Setter"
	case PositionLibero:
		return "Libero"
	default:
		return string(p)
	}
}

// Rarity is the card tier.
type Rarity string

const (
	RaritySR  Rarity = "SR"
	RaritySSR Rarity = "SSR"
	RarityUR  Rarity = "UR"
	RaritySP  Rarity = "SP"
)

var AllRarities = []Rarity{RaritySR, RaritySSR, RarityUR, RaritySP}

func (r Rarity) IsValid() bool {
	switch r {
	case RaritySR, RaritySSR, RarityUR, RaritySP:
		return true
	}
	return false
}

// School is the team a character plays for. School bonds share the school's name.
type School string

const (
	SchoolShiratorizawa  School = "Shiratorizawa"
	SchoolNekoma         School = "Nekoma"
	SchoolFukurodani     School = "Fukurodani"
	SchoolAobaJohsai     School = "Aoba Johsai"
	SchoolInarizaki      School = "Inarizaki"
	SchoolKamomedai      School = "Kamomedai"
	SchoolKarasuno       School = "Karasuno"
	SchoolDateTech       School = "Date Tech"
	SchoolItachiyama     School = "Itachiyama"
	SchoolJohzenji       School = "Johzenji"
	SchoolKitagawaDaichi School = "Kitagawa Daichi"
)

var AllSchools = []School{
	SchoolShiratorizawa, SchoolNekoma, SchoolFukurodani, SchoolAobaJohsai,
	SchoolInarizaki, SchoolKamomedai, SchoolKarasuno, SchoolDateTech,
	SchoolItachiyama, SchoolJohzenji, SchoolKitagawaDaichi,
}

func (s School) IsValid() bool {
	for _, known := range AllSchools {
		if s == known {
			return true
		}
	}
	return false
}
