package roster

import (
	"time"
)

const dateKeyLayout = "2006-01-02"

// UpcomingSunday は基準日以降で最初の日曜日の 0 時（基準日のロケール）を返す。
// 基準日自体が日曜日の場合はその日の 0 時を返す
func UpcomingSunday(t time.Time) time.Time {
	daysToAdd := (7 - int(t.Weekday())) % 7
	shifted := t.AddDate(0, 0, daysToAdd)
	year, month, day := shifted.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DateKey は日付を UTC に正規化した YYYY-MM-DD 形式のキーに変換する。
// 割り当てと不在リストのパーティションキーとして使う
func DateKey(t time.Time) string {
	return t.UTC().Format(dateKeyLayout)
}

// ParseDateKey は DateKey を UTC の 0 時に戻す
func ParseDateKey(key string) (time.Time, error) {
	return time.ParseInLocation(dateKeyLayout, key, time.UTC)
}

// ShiftWeek は時刻を保ったまま 7 * deltaWeeks 日ずらす。週の移動に上限・下限はない
func ShiftWeek(t time.Time, deltaWeeks int) time.Time {
	return t.AddDate(0, 0, 7*deltaWeeks)
}
