package builder_test

import (
	"testing"

	"github.com/dom/haikyu-team-builder/internal/builder"
	"github.com/dom/haikyu-team-builder/internal/domain"
	"github.com/dom/haikyu-team-builder/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func character(name string, pos domain.Position) *domain.Character {
	return testutil.NewCharacterBuilder().WithName(name).WithPosition(pos).Character()
}

// names returns every character name on court and bench.
func names(team builder.Team) []string {
	var out []string
	for _, c := range team.Members() {
		out = append(out, c.Name)
	}
	return out
}

func assertUniqueNames(t *testing.T, team builder.Team) {
	t.Helper()
	seen := map[string]bool{}
	for _, name := range names(team) {
		assert.False(t, seen[name], "%s appears more than once", name)
		seen[name] = true
	}
}

func TestAssign(t *testing.T) {
	b := builder.New(builder.IdentityByName)
	kageyama := character("Kageyama", domain.PositionSetter)
	nishinoya := character("Nishinoya", domain.PositionLibero)

	tests := []struct {
		name    string
		team    builder.Team
		target  domain.SlotRef
		char    *domain.Character
		wantErr error
	}{
		{name: "setter to setter slot", team: builder.NewTeam(), target: domain.CourtRef(domain.SlotPos2S), char: kageyama},
		{name: "setter to wing slot", team: builder.NewTeam(), target: domain.CourtRef(domain.SlotPos4WS), char: kageyama, wantErr: domain.ErrPositionMismatch},
		{name: "setter to wing slot in free mode", team: builder.Team{FreeMode: true}, target: domain.CourtRef(domain.SlotPos4WS), char: kageyama},
		{name: "libero to bench", team: builder.NewTeam(), target: domain.BenchRef(3), char: nishinoya},
		{name: "libero to setter slot", team: builder.Team{FreeMode: true}, target: domain.CourtRef(domain.SlotPos2S), char: nishinoya, wantErr: domain.ErrLiberoOnly},
		{name: "bench index out of range", team: builder.NewTeam(), target: domain.BenchRef(6), char: kageyama, wantErr: domain.ErrSlotNotFound},
		{
			name:    "duplicate name",
			team:    builder.Team{Bench: domain.Bench{kageyama}},
			target:  domain.CourtRef(domain.SlotPos2S),
			char:    character("Kageyama", domain.PositionSetter),
			wantErr: domain.ErrDuplicateCharacter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.team
			res, err := b.Apply(tt.team, builder.Assign{Target: tt.target, Character: tt.char})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, res.Team, "rejected command must not change the team")
				return
			}
			require.NoError(t, err)
			assert.Same(t, tt.char, res.Team.At(tt.target))
			assert.NotEmpty(t, res.Message)
		})
	}
}

func TestMove_FromListSubstitutesSameCharacter(t *testing.T) {
	b := builder.New(builder.IdentityByName)
	hinataSR := testutil.NewCharacterBuilder().WithID(1).WithName("Hinata").WithPosition(domain.PositionMiddleBlock).Character()
	hinataUR := testutil.NewCharacterBuilder().WithID(2).WithName("Hinata").WithPosition(domain.PositionMiddleBlock).Character()

	team := builder.NewTeam()
	team.Court.Pos3MB = hinataSR

	res, err := b.Apply(team, builder.Move{Origin: domain.ListRef(), Target: domain.CourtRef(domain.SlotPos3MB), Character: hinataUR})
	require.NoError(t, err)
	assert.Same(t, hinataUR, res.Team.Court.Pos3MB)
	assertUniqueNames(t, res.Team)

	// Same card into a different slot is a duplicate.
	_, err = b.Apply(team, builder.Move{Origin: domain.ListRef(), Target: domain.CourtRef(domain.SlotPos6MB), Character: hinataUR})
	assert.ErrorIs(t, err, domain.ErrDuplicateCharacter)
}

func TestMove_IdentityByIDAllowsSameName(t *testing.T) {
	b := builder.New(builder.IdentityByID)
	hinataSR := testutil.NewCharacterBuilder().WithID(1).WithName("Hinata").WithPosition(domain.PositionMiddleBlock).Character()
	hinataUR := testutil.NewCharacterBuilder().WithID(2).WithName("Hinata").WithPosition(domain.PositionMiddleBlock).Character()

	team := builder.NewTeam()
	team.Court.Pos3MB = hinataSR

	res, err := b.Apply(team, builder.Move{Origin: domain.ListRef(), Target: domain.CourtRef(domain.SlotPos6MB), Character: hinataUR})
	require.NoError(t, err)
	assert.Same(t, hinataSR, res.Team.Court.Pos3MB)
	assert.Same(t, hinataUR, res.Team.Court.Pos6MB)
}

func TestMove_SwapsBetweenCourtAndBench(t *testing.T) {
	b := builder.New(builder.IdentityByName)
	kageyama := character("Kageyama", domain.PositionSetter)
	sugawara := character("Sugawara", domain.PositionSetter)

	team := builder.NewTeam()
	team.Court.Pos2S = kageyama
	team.Bench[2] = sugawara

	res, err := b.Apply(team, builder.Move{Origin: domain.BenchRef(2), Target: domain.CourtRef(domain.SlotPos2S)})
	require.NoError(t, err)
	assert.Same(t, sugawara, res.Team.Court.Pos2S)
	assert.Same(t, kageyama, res.Team.Bench[2])
	assertUniqueNames(t, res.Team)
}

func TestMove_RejectsIllegalSwapBack(t *testing.T) {
	b := builder.New(builder.IdentityByName)
	kageyama := character("Kageyama", domain.PositionSetter)
	tanaka := character("Tanaka", domain.PositionWingSpiker)

	team := builder.NewTeam()
	team.Court.Pos2S = kageyama
	team.Court.Pos4WS = tanaka

	// Tanaka may not take the setter slot in strict mode.
	res, err := b.Apply(team, builder.Move{Origin: domain.CourtRef(domain.SlotPos4WS), Target: domain.CourtRef(domain.SlotPos2S)})
	assert.ErrorIs(t, err, domain.ErrPositionMismatch)
	assert.Equal(t, team, res.Team)

	team.FreeMode = true
	res, err = b.Apply(team, builder.Move{Origin: domain.CourtRef(domain.SlotPos4WS), Target: domain.CourtRef(domain.SlotPos2S)})
	require.NoError(t, err)
	assert.Same(t, tanaka, res.Team.Court.Pos2S)
	assert.Same(t, kageyama, res.Team.Court.Pos4WS)
}

func TestMove_RelocatesPlacedCharacter(t *testing.T) {
	b := builder.New(builder.IdentityByName)
	kageyama := character("Kageyama", domain.PositionSetter)

	team := builder.NewTeam()
	team.Court.Pos2S = kageyama

	// A placed card may move to an empty slot; it is not a second copy.
	res, err := b.Apply(team, builder.Move{Origin: domain.CourtRef(domain.SlotPos2S), Target: domain.BenchRef(3)})
	require.NoError(t, err)
	assert.Nil(t, res.Team.Court.Pos2S)
	assert.Same(t, kageyama, res.Team.Bench[3])

	res, err = b.Apply(res.Team, builder.Move{Origin: domain.BenchRef(3), Target: domain.BenchRef(0)})
	require.NoError(t, err)
	assert.Same(t, kageyama, res.Team.Bench[0])
	assert.Nil(t, res.Team.Bench[3])
	assertUniqueNames(t, res.Team)
}

func TestMove_ToListRemoves(t *testing.T) {
	b := builder.New(builder.IdentityByName)
	team := builder.NewTeam()
	team.Bench[0] = character("Yamaguchi", domain.PositionMiddleBlock)

	res, err := b.Apply(team, builder.Move{Origin: domain.BenchRef(0), Target: domain.ListRef()})
	require.NoError(t, err)
	assert.Nil(t, res.Team.Bench[0])
}

func TestMove_OntoItselfIsNoop(t *testing.T) {
	b := builder.New(builder.IdentityByName)
	team := builder.NewTeam()
	team.Court.Pos2S = character("Kageyama", domain.PositionSetter)

	res, err := b.Apply(team, builder.Move{Origin: domain.CourtRef(domain.SlotPos2S), Target: domain.CourtRef(domain.SlotPos2S)})
	require.NoError(t, err)
	assert.Equal(t, team, res.Team)
}

func TestMove_EmptyOrigin(t *testing.T) {
	b := builder.New(builder.IdentityByName)
	_, err := b.Apply(builder.NewTeam(), builder.Move{Origin: domain.BenchRef(1), Target: domain.CourtRef(domain.SlotPos2S)})
	assert.ErrorIs(t, err, domain.ErrCharacterNotFound)
}

func TestAutoPlace_FromList(t *testing.T) {
	b := builder.New(builder.IdentityByName)

	team := builder.NewTeam()
	first := character("Tanaka", domain.PositionWingSpiker)
	second := character("Asahi", domain.PositionWingSpiker)
	third := character("Ennoshita", domain.PositionWingSpiker)

	res, err := b.Apply(team, builder.AutoPlace{Origin: domain.ListRef(), Character: first})
	require.NoError(t, err)
	assert.Same(t, first, res.Team.Court.Pos4WS)

	res, err = b.Apply(res.Team, builder.AutoPlace{Origin: domain.ListRef(), Character: second})
	require.NoError(t, err)
	assert.Same(t, second, res.Team.Court.Pos5WS)

	res, err = b.Apply(res.Team, builder.AutoPlace{Origin: domain.ListRef(), Character: third})
	require.NoError(t, err)
	assert.Same(t, third, res.Team.Bench[0], "no wing slot left, goes to the bench")

	_, err = b.Apply(res.Team, builder.AutoPlace{Origin: domain.ListRef(), Character: character("Tanaka", domain.PositionWingSpiker)})
	assert.ErrorIs(t, err, domain.ErrDuplicateCharacter)
}

func TestAutoPlace_FreeModeOrder(t *testing.T) {
	b := builder.New(builder.IdentityByName)
	team := builder.Team{FreeMode: true}

	want := []domain.SlotKey{domain.SlotPos2S, domain.SlotPos3MB, domain.SlotPos4WS, domain.SlotPos5WS, domain.SlotPos6MB, domain.SlotPos1OP}
	for i, key := range want {
		c := testutil.NewCharacterBuilder().WithPosition(domain.PositionOpposite).Character()
		res, err := b.Apply(team, builder.AutoPlace{Origin: domain.ListRef(), Character: c})
		require.NoError(t, err, "placement %d", i)
		got, _ := res.Team.Court.Get(key)
		assert.Same(t, c, got, "placement %d should fill %s", i, key)
		team = res.Team
	}
	assert.Nil(t, team.Court.Libero)
}

func TestAutoPlace_TeamFull(t *testing.T) {
	b := builder.New(builder.IdentityByName)
	team := builder.NewTeam()
	team.Court.Pos2S = character("Kageyama", domain.PositionSetter)
	for i := range team.Bench {
		team.Bench[i] = testutil.NewCharacterBuilder().Character()
	}

	res, err := b.Apply(team, builder.AutoPlace{Origin: domain.ListRef(), Character: character("Sugawara", domain.PositionSetter)})
	assert.ErrorIs(t, err, domain.ErrTeamFull)
	assert.Equal(t, team, res.Team)
}

func TestAutoPlace_FromBenchAndCourt(t *testing.T) {
	b := builder.New(builder.IdentityByName)
	nishinoya := character("Nishinoya", domain.PositionLibero)
	yaku := character("Yaku", domain.PositionLibero)

	team := builder.NewTeam()
	team.Bench[1] = nishinoya
	team.Bench[4] = yaku

	res, err := b.Apply(team, builder.AutoPlace{Origin: domain.BenchRef(1)})
	require.NoError(t, err)
	assert.Same(t, nishinoya, res.Team.Court.Libero)
	assert.Nil(t, res.Team.Bench[1])

	// Libero slot taken: the second libero just leaves the bench.
	res, err = b.Apply(res.Team, builder.AutoPlace{Origin: domain.BenchRef(4)})
	require.NoError(t, err)
	assert.Nil(t, res.Team.Bench[4])
	assert.Same(t, nishinoya, res.Team.Court.Libero)

	res, err = b.Apply(res.Team, builder.AutoPlace{Origin: domain.CourtRef(domain.SlotLibero)})
	require.NoError(t, err)
	assert.Nil(t, res.Team.Court.Libero)
}

func TestRotate(t *testing.T) {
	b := builder.New(builder.IdentityByName)
	s := character("S", domain.PositionSetter)
	mb3 := character("MB3", domain.PositionMiddleBlock)
	ws4 := character("WS4", domain.PositionWingSpiker)
	op := character("OP", domain.PositionOpposite)
	mb6 := character("MB6", domain.PositionMiddleBlock)
	ws5 := character("WS5", domain.PositionWingSpiker)
	l := character("L", domain.PositionLibero)

	team := builder.NewTeam()
	team.Court = domain.TeamSlots{Pos2S: s, Pos3MB: mb3, Pos4WS: ws4, Pos1OP: op, Pos6MB: mb6, Pos5WS: ws5, Libero: l}

	res, err := b.Apply(team, builder.Rotate{})
	require.NoError(t, err)
	want := domain.TeamSlots{Pos3MB: s, Pos4WS: mb3, Pos1OP: ws4, Pos6MB: op, Pos5WS: mb6, Pos2S: ws5, Libero: l}
	assert.Equal(t, want, res.Team.Court)

	// Six rotations bring everyone back.
	rotated := team
	for i := 0; i < 6; i++ {
		rotated = rotated.Rotate()
	}
	assert.Equal(t, team.Court, rotated.Court)
}

func TestToggleMode_LeavingFreeModeClearsCourt(t *testing.T) {
	b := builder.New(builder.IdentityByName)
	team := builder.Team{FreeMode: true}
	team.Court.Pos2S = character("Tanaka", domain.PositionWingSpiker)
	team.Bench[0] = character("Kinoshita", domain.PositionWingSpiker)

	res, err := b.Apply(team, builder.ToggleMode{})
	require.NoError(t, err)
	assert.False(t, res.Team.FreeMode)
	assert.Empty(t, res.Team.Court.Occupied())
	assert.NotNil(t, res.Team.Bench[0], "bench is kept")

	res, err = b.Apply(res.Team, builder.ToggleMode{})
	require.NoError(t, err)
	assert.True(t, res.Team.FreeMode)
	assert.NotNil(t, res.Team.Bench[0])
}

func TestClearAndLoad(t *testing.T) {
	b := builder.New(builder.IdentityByName)
	team := builder.Team{FreeMode: true}
	team.Court.Pos2S = character("Kageyama", domain.PositionSetter)
	team.Bench[5] = character("Sugawara", domain.PositionSetter)

	res, err := b.Apply(team, builder.Clear{})
	require.NoError(t, err)
	assert.Empty(t, res.Team.Members())
	assert.True(t, res.Team.FreeMode)

	res, err = b.Apply(res.Team, builder.Load{Court: team.Court, Bench: team.Bench})
	require.NoError(t, err)
	assert.Equal(t, team.Court, res.Team.Court)
	assert.Equal(t, team.Bench, res.Team.Bench)
}

func TestLoad_RejectsBrokenTeams(t *testing.T) {
	nishinoya := character("Nishinoya Yu", domain.PositionLibero)
	kageyama := character("Kageyama Tobio", domain.PositionSetter)

	tests := []struct {
		name string
		load func() builder.Load
		want error
	}{
		{
			name: "libero on a positional slot",
			load: func() builder.Load {
				var l builder.Load
				l.Court.Pos2S = nishinoya
				return l
			},
			want: domain.ErrLiberoOnly,
		},
		{
			name: "setter in the libero slot",
			load: func() builder.Load {
				var l builder.Load
				l.Court.Libero = kageyama
				return l
			},
			want: domain.ErrLiberoSlot,
		},
		{
			name: "same character on court and bench",
			load: func() builder.Load {
				var l builder.Load
				l.Court.Libero = nishinoya
				l.Bench[0] = nishinoya
				return l
			},
			want: domain.ErrDuplicateCharacter,
		},
		{
			name: "same name twice on the bench",
			load: func() builder.Load {
				var l builder.Load
				l.Bench[1] = kageyama
				l.Bench[4] = character("Kageyama Tobio", domain.PositionSetter)
				return l
			},
			want: domain.ErrDuplicateCharacter,
		},
	}

	b := builder.New(builder.IdentityByName)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			team := builder.NewTeam()
			team.Court.Pos3MB = character("Hinata Shoyo", domain.PositionMiddleBlock)

			_, err := b.Apply(team, tt.load())
			assert.ErrorIs(t, err, tt.want)

			var rejection *builder.RejectionError
			assert.ErrorAs(t, err, &rejection)
			assert.Equal(t, "Hinata Shoyo", team.Court.Pos3MB.Name, "team is untouched")
		})
	}
}

func TestLoad_FreeModePositions(t *testing.T) {
	b := builder.New(builder.IdentityByName)
	var l builder.Load
	l.Court.Pos1OP = character("Kageyama Tobio", domain.PositionSetter)
	l.Court.Libero = character("Nishinoya Yu", domain.PositionLibero)

	res, err := b.Apply(builder.NewTeam(), l)
	require.NoError(t, err)
	assertUniqueNames(t, res.Team)
	assert.Equal(t, l.Court, res.Team.Court)
}

func TestRemove(t *testing.T) {
	b := builder.New(builder.IdentityByName)
	team := builder.NewTeam()
	team.Court.Pos1OP = character("Ushijima", domain.PositionOpposite)

	res, err := b.Apply(team, builder.Remove{Target: domain.CourtRef(domain.SlotPos1OP)})
	require.NoError(t, err)
	assert.Nil(t, res.Team.Court.Pos1OP)
	assert.NotNil(t, team.Court.Pos1OP, "original team is untouched")

	_, err = b.Apply(team, builder.Remove{Target: domain.ListRef()})
	assert.ErrorIs(t, err, domain.ErrSlotNotFound)
}
