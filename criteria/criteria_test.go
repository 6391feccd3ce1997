package criteria

import (
	"testing"

	"github.com/poiesic/scout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func negative(id, reason string) core.ProfileFeedback {
	return core.ProfileFeedback{ProfileID: id, ProfileName: "Profile " + id, Interesting: false, Reason: reason}
}

func positive(id, reason string) core.ProfileFeedback {
	return core.ProfileFeedback{ProfileID: id, ProfileName: "Profile " + id, Interesting: true, Reason: reason}
}

func TestExtract_Threshold(t *testing.T) {
	tests := []struct {
		name     string
		feedback []core.ProfileFeedback
		want     int
	}{
		{"empty", nil, 0},
		{"one senior complaint", []core.ProfileFeedback{negative("1", "muito senior")}, 0},
		{"two senior complaints", []core.ProfileFeedback{negative("1", "muito senior"), negative("2", "muito senior")}, 2},
		{"accented and mixed families", []core.ProfileFeedback{negative("1", "Muito SÊNIOR"), negative("2", "15 anos de experiência")}, 2},
		{"english", []core.ProfileFeedback{negative("1", "overqualified"), negative("2", "too many years")}, 2},
		{"positives do not count", []core.ProfileFeedback{positive("1", "senior, great"), negative("2", "senior")}, 0},
		{"lack of experience is not seniority", []core.ProfileFeedback{negative("1", "inexperiente"), negative("2", "sem experiência"), negative("3", "inexperienced")}, 0},
		{"junior family never emits", []core.ProfileFeedback{negative("1", "muito junior"), negative("2", "estagiário"), negative("3", "inexperienced")}, 0},
		{"empty reasons ignored", []core.ProfileFeedback{negative("1", ""), negative("2", "   "), negative("3", "senior")}, 0},
		{"duplicates for same profile count", []core.ProfileFeedback{negative("1", "senior demais"), negative("1", "senior demais")}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.feedback)
			assert.Len(t, got, tt.want)
			if tt.want == 2 {
				assert.Equal(t, SeniorityFilters(), got)
			}
		})
	}
}

func TestExtract_Order(t *testing.T) {
	got := Extract([]core.ProfileFeedback{negative("1", "senior"), negative("2", "senior")})
	require.Len(t, got, 2)
	assert.Equal(t, "seniority_level IN ('intern', 'junior')", got[0].Predicate)
	assert.Equal(t, "seniority_rank <= 2", got[1].Predicate)
}

func TestExtract_Idempotent(t *testing.T) {
	feedback := []core.ProfileFeedback{
		negative("1", "muito senior"),
		positive("2", "perfil bom"),
		negative("3", "experiente demais"),
	}
	first := Extract(feedback)
	second := Extract(feedback)
	assert.Equal(t, first, second)
}

func TestExtract_OrderIndependent(t *testing.T) {
	a := []core.ProfileFeedback{negative("1", "muito senior"), positive("2", "ok"), negative("3", "anos demais")}
	b := []core.ProfileFeedback{negative("3", "anos demais"), negative("1", "muito senior"), positive("2", "ok")}
	assert.Equal(t, Extract(a), Extract(b))
}

func TestTally(t *testing.T) {
	s := Tally([]core.ProfileFeedback{
		negative("1", "muito sênior"),
		negative("2", "júnior demais"),
		negative("3", ""),
		positive("4", "ótimo"),
		positive("5", ""),
	})
	assert.Equal(t, Signals{Negatives: 3, TooSenior: 1, TooJunior: 1, Positives: 2, WithReason: 3}, s)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "sao paulo", Fold("São Paulo"))
	assert.Equal(t, "senior", Fold("SÊNIOR"))
	assert.Equal(t, "experiencia", Fold("Experiência"))
}

func TestTally_LackOfExperience(t *testing.T) {
	s := Tally([]core.ProfileFeedback{negative("1", "inexperiente"), negative("2", "pouca experiência")})
	assert.Equal(t, 0, s.TooSenior)
	assert.Equal(t, 2, s.TooJunior)
}
