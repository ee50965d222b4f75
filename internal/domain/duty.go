package domain

type Duty string

const (
	DutyBlessingBread Duty = "祝福パン"
	DutyBlessingWater Duty = "祝福水"
	DutyPass1         Duty = "パス1"
	DutyPass2         Duty = "パス2"
	DutyPass3         Duty = "パス3"
	DutyPass4         Duty = "パス4"
)

// 担当表に表示される固定の順序
var duties = []Duty{
	DutyBlessingBread,
	DutyBlessingWater,
	DutyPass1,
	DutyPass2,
	DutyPass3,
	DutyPass4,
}

func Duties() []Duty {
	return append([]Duty{}, duties...)
}

func (d Duty) IsValid() bool {
	for _, duty := range duties {
		if d == duty {
			return true
		}
	}
	return false
}

// RequiresBlessingPriesthood は祭司またはメルキゼデク神権にしか割り当てられない担当かどうかを返す
func (d Duty) RequiresBlessingPriesthood() bool {
	return d == DutyBlessingBread || d == DutyBlessingWater
}
