package domain

import (
	"time"
)

type Priesthood string

const (
	PriesthoodDeacon      Priesthood = "執事"
	PriesthoodTeacher     Priesthood = "教師"
	PriesthoodPriest      Priesthood = "祭司"
	PriesthoodMelchizedek Priesthood = "メルキゼデク"
)

// CanBless は祝福の割り当てを受けられる神権かどうかを返す
func (p Priesthood) CanBless() bool {
	return p == PriesthoodPriest || p == PriesthoodMelchizedek
}

type Member struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Priesthood Priesthood `json:"priesthood"`
	CreatedAt  time.Time  `json:"createdAt"`
}
