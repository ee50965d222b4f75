package seed

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/hirakawa-ward/sacrament-roster/backend/internal/domain"
	"github.com/hirakawa-ward/sacrament-roster/backend/internal/repository"
	"github.com/hirakawa-ward/sacrament-roster/backend/internal/roster"
	"github.com/hirakawa-ward/sacrament-roster/backend/internal/utils"
)

// ワードの実際の名簿
var realMembers = []domain.Member{
	{Name: "佐藤 太郎", Priesthood: domain.PriesthoodPriest},
	{Name: "鈴木 一郎", Priesthood: domain.PriesthoodMelchizedek},
	{Name: "高橋 三郎", Priesthood: domain.PriesthoodTeacher},
	{Name: "田中 健太", Priesthood: domain.PriesthoodTeacher},
	{Name: "渡辺 雄大", Priesthood: domain.PriesthoodDeacon},
	{Name: "伊藤 翼", Priesthood: domain.PriesthoodDeacon},
	{Name: "山本 大輔", Priesthood: domain.PriesthoodDeacon},
	{Name: "中村 翔", Priesthood: domain.PriesthoodDeacon},
	{Name: "小林 直樹", Priesthood: domain.PriesthoodPriest},
	{Name: "加藤 亮", Priesthood: domain.PriesthoodTeacher},
	{Name: "吉田 拓也", Priesthood: domain.PriesthoodDeacon},
	{Name: "山田 蓮", Priesthood: domain.PriesthoodMelchizedek},
}

// SeedRealMembers はワードの名簿をそのまま登録する
func SeedRealMembers(r *repository.Repository) {
	for _, m := range realMembers {
		member := m
		if err := r.CreateMember(&member); err != nil {
			slog.Error("メンバーの登録に失敗しました", "name", member.Name, "error", err)
			continue
		}
		slog.Info("メンバーを登録しました", "id", member.ID, "name", member.Name)
	}
}

// SeedRandomMembers はランダムな名前・神権のメンバーを n 人登録する
func SeedRandomMembers(r *repository.Repository, n int) {
	for i := 0; i < n; i++ {
		member := utils.GenerateRandomMember()
		if err := r.CreateMember(member); err != nil {
			slog.Error("メンバーの登録に失敗しました", "name", member.Name, "error", err)
			continue
		}
		slog.Info("メンバーを登録しました", "id", member.ID, "name", member.Name)
	}
}

// SeedWeeks は次の日曜日から weeks 週分の担当表を作る。
// 各週でランダムに選んだメンバーを不在にし、残りから担当を割り当てる
func SeedWeeks(r *repository.Repository, weeks int) {
	members, err := r.GetAllMembers()
	if err != nil {
		slog.Error("メンバー一覧の取得に失敗しました", "error", err)
		return
	}
	if len(members) == 0 {
		slog.Error("メンバーが登録されていません。先にメンバーを登録してください")
		return
	}

	sunday := roster.UpcomingSunday(time.Now())

	for week := 0; week < weeks; week++ {
		dateKey := roster.DateKey(roster.ShiftWeek(sunday, week))

		// 何人かを不在にする
		unavailable := utils.GenerateRandomSubset(members)
		if len(unavailable) == len(members) {
			unavailable = unavailable[:len(unavailable)-1]
		}
		unavailableIDs := make([]string, 0, len(unavailable))
		for _, m := range unavailable {
			unavailableIDs = append(unavailableIDs, m.ID)
		}

		if err := r.ReplaceUnavailableMemberIDs(dateKey, unavailableIDs); err != nil {
			slog.Error("不在リストの登録に失敗しました", "dateKey", dateKey, "error", err)
			continue
		}

		for _, duty := range domain.Duties() {
			eligible := roster.EligibleMembers(members, unavailableIDs, duty)
			if len(eligible) == 0 {
				// 祝福を担当できるメンバーが全員不在の週もあり得る
				continue
			}

			member := eligible[rand.Intn(len(eligible))]
			if err := r.AssignDuty(dateKey, duty, member.ID); err != nil {
				slog.Error("割り当ての登録に失敗しました", "dateKey", dateKey, "duty", duty, "error", err)
			}
		}

		slog.Info("1 週分の担当表を登録しました", "dateKey", dateKey)
	}
}
