package models

// Status represents the health classification of a pipeline check.
type Status string

const (
	StatusOK       Status = "OK"
	StatusWarning  Status = "WARNING"
	StatusCritical Status = "CRITICAL"
)

// Emoji returns the symbol used for the status in chat cards and alerts.
func (s Status) Emoji() string {
	switch s {
	case StatusOK:
		return "✅"
	case StatusWarning:
		return "⚠️"
	case StatusCritical:
		return "❌"
	default:
		return "❓"
	}
}

// Severity orders statuses for aggregation: OK < WARNING < CRITICAL.
func (s Status) Severity() int {
	switch s {
	case StatusCritical:
		return 2
	case StatusWarning:
		return 1
	default:
		return 0
	}
}

// VolumeStatus flags whether a pipeline met its expected daily record volume.
type VolumeStatus string

const (
	VolumeNormal VolumeStatus = "NORMAL"
	VolumeLow    VolumeStatus = "LOW_VOLUME"
)

// Trend describes how today's record count compares to yesterday's.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// Emoji returns the arrow shown for the trend on summary cards.
func (t Trend) Emoji() string {
	switch t {
	case TrendUp:
		return "📈"
	case TrendDown:
		return "📉"
	default:
		return "➖"
	}
}
