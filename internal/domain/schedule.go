package domain

// DutyAssignments は 1 日分の担当ごとの割り当て。値が nil の担当は未割り当てを表す
type DutyAssignments map[Duty]*string

// AssignmentMap は日付キー (YYYY-MM-DD) ごとの割り当て
type AssignmentMap map[string]DutyAssignments

// UnavailabilityMap は日付キーごとの、その日担当できないメンバー ID のリスト（順序を保持する）
type UnavailabilityMap map[string][]string

// DaySchedule は 1 日分のスケジュールのスナップショット
type DaySchedule struct {
	DateKey              string          `json:"dateKey"`
	Assignments          DutyAssignments `json:"assignments"`
	UnavailableMemberIDs []string        `json:"unavailableMemberIDs"`
}
