package utils

import (
	"math/rand"

	"github.com/hirakawa-ward/sacrament-roster/backend/internal/domain"
)

var commonSurnames = []string{
	"佐藤", "鈴木", "高橋", "田中", "伊藤", "渡辺", "山本", "中村", "小林", "加藤",
	"吉田", "山田", "佐々木", "山口", "松本", "井上", "木村", "林", "斎藤", "清水",
}
var commonGivenNames = []string{
	"太郎", "一郎", "三郎", "健太", "雄大", "翼", "大輔", "翔", "直樹", "亮",
	"拓也", "蓮", "大和", "悠人", "陽斗", "湊", "樹", "颯太", "悠真", "陸",
}

func GenerateRandomJapaneseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	givenName := commonGivenNames[rand.Intn(len(commonGivenNames))]
	return surname + " " + givenName
}

var priesthoods = []domain.Priesthood{
	domain.PriesthoodDeacon,
	domain.PriesthoodTeacher,
	domain.PriesthoodPriest,
	domain.PriesthoodMelchizedek,
}

func GenerateRandomPriesthood() domain.Priesthood {
	return priesthoods[rand.Intn(len(priesthoods))]
}

func GenerateRandomMember() *domain.Member {
	return &domain.Member{
		Name:       GenerateRandomJapaneseName(),
		Priesthood: GenerateRandomPriesthood(),
	}
}

// Fisher-Yates で選んだランダムな部分集合を返す。空集合も返り得る
func GenerateRandomSubset(members []*domain.Member) []*domain.Member {
	membersCopy := append([]*domain.Member{}, members...)

	for i := len(membersCopy) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		membersCopy[i], membersCopy[j] = membersCopy[j], membersCopy[i]
	}

	n := rand.Intn(len(membersCopy) + 1)

	return membersCopy[:n]
}
