package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type WeeklyRosterRow struct {
	Duty       string `json:"duty"`
	MemberName string `json:"memberName"`
}

type WeeklyRosterMailData struct {
	DateKey string            `json:"dateKey"`
	Rows    []WeeklyRosterRow `json:"rows"`
}
