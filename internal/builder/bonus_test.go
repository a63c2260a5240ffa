package builder_test

import (
	"testing"

	"github.com/dom/haikyu-team-builder/internal/builder"
	"github.com/dom/haikyu-team-builder/internal/domain"
	"github.com/dom/haikyu-team-builder/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func styled(styles ...string) *domain.Character {
	return testutil.NewCharacterBuilder().WithStyles(styles...).Character()
}

func TestComputeTeamType_StrictUsesSetter(t *testing.T) {
	court := domain.TeamSlots{
		Pos2S:  styled("Levantador", "Rápido"),
		Pos4WS: styled("Potente"),
		Pos5WS: styled("Potente"),
		Pos3MB: styled("Potente"),
		Pos6MB: styled("Potente"),
	}

	teamType, counts := builder.ComputeTeamType(court, false)
	assert.Equal(t, domain.TeamTypeFastAttack, teamType)
	assert.Equal(t, domain.StyleCounts{FastAttack: 1, Power: 4}, counts)
}

func TestComputeTeamType_StrictWithoutSetter(t *testing.T) {
	court := domain.TeamSlots{Pos4WS: styled("Potente")}
	teamType, _ := builder.ComputeTeamType(court, false)
	assert.Equal(t, domain.TeamTypeNone, teamType)

	court.Pos2S = styled("Levantador", "Saque")
	teamType, _ = builder.ComputeTeamType(court, false)
	assert.Equal(t, domain.TeamTypeNone, teamType, "setter without a mapped style")
}

func TestComputeTeamType_FreeModePriority(t *testing.T) {
	tests := []struct {
		name  string
		court domain.TeamSlots
		want  domain.TeamType
	}{
		{
			name: "block wins over power",
			court: domain.TeamSlots{
				Pos5WS: styled("Bloqueio", "Potente"),
				Pos6MB: styled("Bloqueio", "Potente"),
				Pos1OP: styled("Bloqueio", "Potente"),
				Pos4WS: styled("Bloqueio", "Potente"),
				Pos3MB: styled("Potente"),
			},
			want: domain.TeamTypeBlock,
		},
		{
			name: "receive needs five",
			court: domain.TeamSlots{
				Pos5WS: styled("Recepção"),
				Pos6MB: styled("Recepção"),
				Pos1OP: styled("Recepção"),
				Pos4WS: styled("Recepção"),
			},
			want: domain.TeamTypeNone,
		},
		{
			name: "receive beats everything",
			court: domain.TeamSlots{
				Pos5WS: styled("Recepção", "Bloqueio"),
				Pos6MB: styled("Recepção", "Bloqueio"),
				Pos1OP: styled("Recepção", "Bloqueio"),
				Pos4WS: styled("Recepção", "Bloqueio"),
				Libero: styled("Recepção"),
			},
			want: domain.TeamTypeReceive,
		},
		{
			name: "fast attack counts both tags",
			court: domain.TeamSlots{
				Pos5WS: styled("Rápido"),
				Pos6MB: styled("Ataque Rápido"),
				Pos1OP: styled("Rápido"),
				Pos4WS: styled("Rápido"),
			},
			want: domain.TeamTypeFastAttack,
		},
		{name: "empty court", want: domain.TeamTypeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := builder.ComputeTeamType(tt.court, true)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeTeamType_BenchIgnored(t *testing.T) {
	team := builder.Team{FreeMode: true}
	for i := 0; i < 5; i++ {
		team.Bench[i] = styled("Recepção")
	}
	summary := builder.Summarize(team, nil, nil, nil)
	assert.Equal(t, domain.TeamTypeNone, summary.TeamType)
	assert.Equal(t, domain.StyleCounts{}, summary.StyleCounts)
	assert.Empty(t, summary.ActiveBonds)
}

func schoolPlayer(school domain.School) *domain.Character {
	return testutil.NewCharacterBuilder().WithSchool(school).Character()
}

func TestActiveBonds_School(t *testing.T) {
	karasuno := &domain.Bond{ID: 1, Name: "Karasuno"}
	nekoma := &domain.Bond{ID: 2, Name: "Nekoma"}
	bonds := []*domain.Bond{karasuno, nekoma}

	court := domain.TeamSlots{
		Pos2S:  schoolPlayer(domain.SchoolKarasuno),
		Pos3MB: schoolPlayer(domain.SchoolKarasuno),
		Pos4WS: schoolPlayer(domain.SchoolKarasuno),
		Pos5WS: schoolPlayer(domain.SchoolNekoma),
	}
	assert.Empty(t, builder.ActiveBonds(court, bonds, nil, nil), "three players are not enough")

	court.Pos6MB = schoolPlayer(domain.SchoolKarasuno)
	got := builder.ActiveBonds(court, bonds, nil, nil)
	assert.Equal(t, []*domain.Bond{karasuno}, got)

	got = builder.ActiveBonds(court, bonds, []*domain.CharacterBondLink{}, nil)
	assert.Equal(t, []*domain.Bond{karasuno}, got, "school bonds do not depend on links")
}

func TestActiveBonds_SchoolWithoutBondRow(t *testing.T) {
	court := domain.TeamSlots{
		Pos2S:  schoolPlayer(domain.SchoolInarizaki),
		Pos3MB: schoolPlayer(domain.SchoolInarizaki),
		Pos4WS: schoolPlayer(domain.SchoolInarizaki),
		Pos5WS: schoolPlayer(domain.SchoolInarizaki),
	}
	bonds := []*domain.Bond{{ID: 1, Name: "Karasuno"}}
	assert.Empty(t, builder.ActiveBonds(court, bonds, nil, nil))
}

func TestActiveBonds_CharacterRequirements(t *testing.T) {
	a := testutil.NewCharacterBuilder().WithID(10).WithName("Kageyama").Character()
	b := testutil.NewCharacterBuilder().WithID(11).WithName("Hinata").Character()
	bInOtherRarity := testutil.NewCharacterBuilder().WithID(12).WithName("Hinata").Character()
	roster := []*domain.Character{a, b, bInOtherRarity}

	quick := &domain.Bond{ID: 5, Name: "Freak Quick"}
	empty := &domain.Bond{ID: 6, Name: "Nobody"}
	bonds := []*domain.Bond{quick, empty}
	links := []*domain.CharacterBondLink{
		{CharacterID: 10, BondID: 5},
		{CharacterID: 11, BondID: 5},
		{CharacterID: 12, BondID: 5},
	}

	court := domain.TeamSlots{Pos2S: a, Pos3MB: bInOtherRarity}
	assert.Equal(t, []*domain.Bond{quick}, builder.ActiveBonds(court, bonds, links, roster),
		"any card with the required name satisfies the requirement")

	court.Pos3MB = nil
	assert.Empty(t, builder.ActiveBonds(court, bonds, links, roster))
}

func TestActiveBonds_SchoolOrderThenBonds(t *testing.T) {
	roster := []*domain.Character{
		testutil.NewCharacterBuilder().WithID(1).WithName("Kuroo").WithSchool(domain.SchoolNekoma).Character(),
		testutil.NewCharacterBuilder().WithID(2).WithName("Kenma").WithSchool(domain.SchoolNekoma).Character(),
	}
	nekoma := &domain.Bond{ID: 1, Name: "Nekoma"}
	karasuno := &domain.Bond{ID: 2, Name: "Karasuno"}
	pair := &domain.Bond{ID: 3, Name: "Childhood Friends"}
	bonds := []*domain.Bond{pair, karasuno, nekoma}
	links := []*domain.CharacterBondLink{{CharacterID: 1, BondID: 3}, {CharacterID: 2, BondID: 3}}

	// Karasuno reaches four on court, Nekoma stays at three.
	court := domain.TeamSlots{
		Pos5WS: schoolPlayer(domain.SchoolKarasuno),
		Pos6MB: schoolPlayer(domain.SchoolKarasuno),
		Pos1OP: schoolPlayer(domain.SchoolKarasuno),
		Pos4WS: schoolPlayer(domain.SchoolNekoma),
		Pos3MB: roster[0],
		Pos2S:  roster[1],
		Libero: schoolPlayer(domain.SchoolKarasuno),
	}

	got := builder.ActiveBonds(court, bonds, links, roster)
	want := []string{"Karasuno", "Childhood Friends"}
	if diff := cmp.Diff(want, bondNames(got)); diff != "" {
		t.Errorf("active bonds mismatch (-want +got):\n%s", diff)
	}
}

func bondNames(bonds []*domain.Bond) []string {
	out := make([]string, 0, len(bonds))
	for _, b := range bonds {
		out = append(out, b.Name)
	}
	return out
}
