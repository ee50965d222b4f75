package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirakawa-ward/sacrament-roster/backend/internal/domain"
)

func testMembers() []*domain.Member {
	return []*domain.Member{
		{ID: "m1", Name: "佐藤 太郎", Priesthood: domain.PriesthoodPriest},
		{ID: "m2", Name: "鈴木 一郎", Priesthood: domain.PriesthoodMelchizedek},
		{ID: "m3", Name: "高橋 三郎", Priesthood: domain.PriesthoodTeacher},
		{ID: "m4", Name: "渡辺 雄大", Priesthood: domain.PriesthoodDeacon},
	}
}

func memberIDs(members []*domain.Member) []string {
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestEligibleMembersWithoutDuty(t *testing.T) {
	members := testMembers()

	got := EligibleMembers(members, []string{"m2"}, "")

	// 不在のメンバーだけが除外され、順序は保持される
	assert.Equal(t, []string{"m1", "m3", "m4"}, memberIDs(got))
}

func TestEligibleMembersForBlessingDuty(t *testing.T) {
	members := testMembers()

	got := EligibleMembers(members, nil, domain.DutyBlessingBread)

	require.Len(t, got, 2)
	for _, m := range got {
		assert.True(t, m.Priesthood.CanBless())
	}
	assert.Equal(t, []string{"m1", "m2"}, memberIDs(got))
}

func TestEligibleMembersForBlessingDutyExcludesUnavailable(t *testing.T) {
	members := testMembers()

	got := EligibleMembers(members, []string{"m1"}, domain.DutyBlessingWater)

	assert.Equal(t, []string{"m2"}, memberIDs(got))
}

func TestEligibleMembersForPassDutyIgnoresPriesthood(t *testing.T) {
	members := testMembers()

	got := EligibleMembers(members, []string{"m1"}, domain.DutyPass1)

	// パスの担当に神権の制限はなく、不在者のみ除外される
	assert.Equal(t, []string{"m2", "m3", "m4"}, memberIDs(got))
}

func TestEligibleMembersScenario(t *testing.T) {
	members := []*domain.Member{
		{ID: "m1", Name: "A", Priesthood: domain.PriesthoodDeacon},
		{ID: "m9", Name: "B", Priesthood: domain.PriesthoodPriest},
	}

	got := EligibleMembers(members, nil, domain.DutyBlessingBread)

	require.Len(t, got, 1)
	assert.Equal(t, "m9", got[0].ID)
}

func TestEligibleMembersEmptyResultIsValid(t *testing.T) {
	members := testMembers()

	got := EligibleMembers(members, []string{"m1", "m2", "m3", "m4"}, domain.DutyPass2)
	assert.Empty(t, got)

	got = EligibleMembers(nil, nil, domain.DutyBlessingBread)
	assert.Empty(t, got)
}

func TestCandidatesForUnavailability(t *testing.T) {
	members := testMembers()

	got := CandidatesForUnavailability(members, []string{"m3", "m1"})

	// 神権に関係なく、まだ不在リストに入っていないメンバー全員が候補になる
	assert.Equal(t, []string{"m2", "m4"}, memberIDs(got))
}

func TestCandidatesForUnavailabilityIgnoresDanglingIDs(t *testing.T) {
	members := testMembers()

	// 削除済みメンバーの ID が不在リストに残っていても候補の計算には影響しない
	got := CandidatesForUnavailability(members, []string{"deleted-member"})
	assert.Len(t, got, len(members))
}
