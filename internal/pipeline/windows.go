package pipeline

import (
	"time"
)

// OperatorExpectation is the staffing headcount a check-in window verifies.
type OperatorExpectation struct {
	Expected  int
	WarnFloor int
}

// Window is a named check-in run tied to a business time of day.
type Window struct {
	Name        string
	Title       string
	TimeOfDay   string // "15:04"
	Description string
	Pipelines   []string
	Operators   *OperatorExpectation
}

// Windows returns the scheduled check-in windows in chronological order.
func Windows() []Window {
	return []Window{
		{
			Name:        "morning",
			Title:       "☀️ Morning CC Data Check",
			TimeOfDay:   "07:30",
			Description: "ETL overnight run verification",
			Pipelines:   []string{"fact_calls", "fact_first_calls", "dim_agent_activity"},
			Operators:   &OperatorExpectation{Expected: 237, WarnFloor: 230},
		},
		{
			Name:        "first_shift",
			Title:       "📊 First Shift Check",
			TimeOfDay:   "11:45",
			Description: "Late morning ingest verification",
			Pipelines:   []string{"fact_calls", "dim_agent_activity"},
		},
		{
			Name:        "second_shift",
			Title:       "📈 Second Shift Check",
			TimeOfDay:   "15:45",
			Description: "Afternoon ingest verification",
			Pipelines:   []string{"fact_calls", "dim_agent_activity"},
		},
	}
}

// WindowByName returns the named check-in window.
func WindowByName(name string) (Window, bool) {
	for _, w := range Windows() {
		if w.Name == name {
			return w, true
		}
	}
	return Window{}, false
}

// WindowForTime returns the window whose scheduled time is nearest t, so a
// delayed invocation still reports under the intended window.
func WindowForTime(t time.Time) Window {
	windows := Windows()
	best := windows[0]
	bestDist := 1 << 30
	minutes := t.Hour()*60 + t.Minute()

	for _, w := range windows {
		scheduled, err := time.Parse("15:04", w.TimeOfDay)
		if err != nil {
			continue
		}
		dist := minutes - (scheduled.Hour()*60 + scheduled.Minute())
		if dist < 0 {
			dist = -dist
		}
		if dist > 720 {
			dist = 1440 - dist
		}
		if dist < bestDist {
			bestDist = dist
			best = w
		}
	}

	return best
}
