package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ShiftPlanMailData struct {
	DateKey     string             `json:"dateKey"`
	TotalTeams  int                `json:"totalTeams"`
	Utilization int                `json:"utilization"`
	Shifts      []ShiftPlanMailRow `json:"shifts"`
}

// ShiftPlanMailRow carries preformatted HH:MM times, the payload goes through
// the queue as JSON and the template has no formatting helpers.
type ShiftPlanMailRow struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	TeamCount int    `json:"teamCount"`
}

type UnassignedReportMailData struct {
	DateKey        string   `json:"dateKey"`
	UnassignedKeys []string `json:"unassignedKeys"`
	AssignedCount  int      `json:"assignedCount"`
}
