package roster

import (
	"github.com/hirakawa-ward/sacrament-roster/backend/internal/domain"
)

// EligibleMembers はその日その担当に割り当て可能なメンバーを返す。
// まず不在リストに含まれるメンバーを除外し、祝福の担当であれば
// さらに祭司・メルキゼデク神権以外を除外する。members の順序は保持される。
// duty が空文字列の場合は不在者の除外のみ行う
func EligibleMembers(members []*domain.Member, unavailableIDs []string, duty domain.Duty) []*domain.Member {
	unavailable := make(map[string]struct{}, len(unavailableIDs))
	for _, id := range unavailableIDs {
		unavailable[id] = struct{}{}
	}

	available := make([]*domain.Member, 0, len(members))
	for _, m := range members {
		if _, ok := unavailable[m.ID]; ok {
			continue
		}
		available = append(available, m)
	}

	if duty == "" || !duty.RequiresBlessingPriesthood() {
		return available
	}

	eligible := make([]*domain.Member, 0, len(available))
	for _, m := range available {
		if m.Priesthood.CanBless() {
			eligible = append(eligible, m)
		}
	}

	return eligible
}

// CandidatesForUnavailability はまだ不在リストに入っていないメンバーを返す
func CandidatesForUnavailability(members []*domain.Member, unavailableIDs []string) []*domain.Member {
	return EligibleMembers(members, unavailableIDs, "")
}
