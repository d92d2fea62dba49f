package chat

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pipewatch/pipewatch/internal/health"
	"github.com/pipewatch/pipewatch/internal/models"
	"github.com/pipewatch/pipewatch/internal/pipeline"
)

// Status icons served by Google, shown in card headers.
const (
	iconError   = "https://www.gstatic.com/images/icons/material/system/2x/error_red_48dp.png"
	iconWarning = "https://www.gstatic.com/images/icons/material/system/2x/warning_amber_48dp.png"
	iconHealthy = "https://www.gstatic.com/images/icons/material/system/2x/check_circle_green_48dp.png"
	iconReport  = "https://fonts.gstatic.com/s/i/productlogos/admin_2020q4/v6/192px.svg"
)

// AlertText formats the plain-text health alert for pipelines with issues.
func AlertText(issues []models.PipelineResult, now time.Time) string {
	lines := []string{fmt.Sprintf("🚨 Pipeline Health Alert - %s", now.Format("2006-01-02 15:04"))}

	_, warning, critical := health.Counts(issues)
	if critical > 0 {
		lines = append(lines, fmt.Sprintf("❌ %d CRITICAL issue(s)", critical))
	}
	if warning > 0 {
		lines = append(lines, fmt.Sprintf("⚠️ %d WARNING issue(s)", warning))
	}
	lines = append(lines, "")

	for _, issue := range issues {
		lines = append(lines, fmt.Sprintf("%s %s: %s", issue.Status.Emoji(), issue.Pipeline, issue.Message))
	}

	return strings.Join(lines, "\n")
}

// CriticalAlertCard builds the immediate failure card for one critical
// pipeline.
func CriticalAlertCard(result models.PipelineResult, now time.Time) Message {
	lastRecord := "N/A"
	if result.LastRecord != nil {
		lastRecord = result.LastRecord.Format("2006-01-02 15:04")
	}

	return Message{
		Cards: []Card{{
			Header: &CardHeader{
				Title:    "🚨 CRITICAL PIPELINE FAILURE",
				Subtitle: result.Pipeline,
				ImageURL: iconError,
			},
			Sections: []Section{
				{
					Widgets: []Widget{
						{TextParagraph: &TextParagraph{
							Text: fmt.Sprintf("<b>Issue:</b> %s", result.Message),
						}},
						{KeyValue: &KeyValue{
							TopLabel: "Detection Time",
							Content:  now.Format("15:04:05"),
						}},
					},
				},
				{
					Header: "Details",
					Widgets: []Widget{
						{KeyValue: &KeyValue{TopLabel: "Last Record", Content: lastRecord}},
						{KeyValue: &KeyValue{TopLabel: "Hours Stale", Content: strconv.Itoa(result.HoursStale)}},
						{KeyValue: &KeyValue{TopLabel: "Records Today", Content: strconv.Itoa(result.RecordsToday)}},
					},
				},
			},
		}},
	}
}

// SummaryCard builds the end-of-day report card. A nil stats pointer means
// the aggregate queries failed; the statistics block then shows its header
// alone rather than suppressing the whole card.
func SummaryCard(results []models.PipelineResult, stats *models.DailyStats, now time.Time) Message {
	ok, warning, critical := health.Counts(results)

	var overall string
	switch {
	case critical > 0:
		overall = "🔴 ISSUES DETECTED"
	case warning > 0:
		overall = "🟡 WARNINGS"
	default:
		overall = "🟢 ALL SYSTEMS HEALTHY"
	}

	var text strings.Builder
	fmt.Fprintf(&text, "<b>Report Time:</b> %s\n\n", now.Format("15:04"))

	text.WriteString("*Pipeline Status:*\n")
	for _, r := range results {
		fmt.Fprintf(&text, "%s *%s* (%s)\n   Last update: %dh ago | Today: %d %s\n",
			r.Status.Emoji(), r.Pipeline, r.Description, r.HoursStale, r.RecordsToday, r.Trend.Emoji())
	}

	text.WriteString("\n*Daily Statistics:*\n")
	if stats != nil {
		fmt.Fprintf(&text, "📞 Total calls today: %s\n", comma(stats.CallsToday))
		fmt.Fprintf(&text, "👥 Active operators: %d\n", stats.ActiveOperators)
		fmt.Fprintf(&text, "🚨 First calls today: %d\n", stats.FirstCallsToday)
	}

	fmt.Fprintf(&text, "\n*Summary:* %d OK | %d Warning | %d Critical", ok, warning, critical)

	return Message{
		Cards: []Card{{
			Header: &CardHeader{
				Title:    "📊 Daily Pipeline Summary",
				Subtitle: fmt.Sprintf("%s | %s", now.Format("Monday, January 02, 2006"), overall),
				ImageURL: iconReport,
			},
			Sections: []Section{{
				Widgets: []Widget{
					{TextParagraph: &TextParagraph{Text: text.String()}},
				},
			}},
		}},
	}
}

// CheckinCard builds the scheduled check-in report for one window. The
// operators check only applies to windows that verify headcount; pass nil
// otherwise. Buttons are omitted when no dashboard URL is configured.
func CheckinCard(window pipeline.Window, results []models.PipelineResult, operators *models.OperatorCheck, dashboardURL string, now time.Time) Message {
	_, warning, critical := health.Counts(results)

	var overall, icon string
	switch {
	case critical > 0:
		overall = "🔴 CRITICAL"
		icon = iconError
	case warning > 0:
		overall = "🟡 WARNING"
		icon = iconWarning
	default:
		overall = "🟢 ALL OK"
		icon = iconHealthy
	}

	summary := []Widget{
		{KeyValue: &KeyValue{TopLabel: "Check Time", Content: now.Format("2006-01-02 15:04")}},
		{KeyValue: &KeyValue{TopLabel: "Critical Issues", Content: strconv.Itoa(critical)}},
		{KeyValue: &KeyValue{TopLabel: "Warnings", Content: strconv.Itoa(warning)}},
	}
	if operators != nil {
		var note string
		switch operators.Status {
		case models.StatusOK:
			note = "expected"
		case models.StatusWarning:
			note = "slightly off"
		default:
			note = "below minimum"
		}
		summary = append(summary, Widget{KeyValue: &KeyValue{
			TopLabel:    "Operators",
			Content:     fmt.Sprintf("%s %d/%d", operators.Status.Emoji(), operators.Count, operators.Expected),
			BottomLabel: note,
		}})
	}

	details := make([]Widget, 0, len(results))
	for _, r := range results {
		details = append(details, Widget{KeyValue: &KeyValue{
			TopLabel:    r.Pipeline,
			Content:     fmt.Sprintf("%s %s", r.Status.Emoji(), r.Status),
			BottomLabel: r.Message,
		}})
	}

	sections := []Section{
		{Header: "Summary", Widgets: summary},
		{Header: "Pipeline Details", Widgets: details},
	}
	if dashboardURL != "" {
		sections = append(sections, Section{
			Widgets: []Widget{{Buttons: []Button{
				{TextButton: TextButton{Text: "VIEW DASHBOARD", OnClick: OnClick{OpenLink: OpenLink{URL: dashboardURL}}}},
				{TextButton: TextButton{Text: "VIEW LOGS", OnClick: OnClick{OpenLink: OpenLink{URL: dashboardURL + "/logs"}}}},
			}}},
		})
	}

	return Message{
		Cards: []Card{{
			Header: &CardHeader{
				Title:    window.Title,
				Subtitle: fmt.Sprintf("%s | %s", window.Description, overall),
				ImageURL: icon,
			},
			Sections: sections,
		}},
	}
}

// comma formats an integer with thousands separators, e.g. 15234 becomes
// "15,234".
func comma(n int) string {
	if n < 0 {
		return "-" + comma(-n)
	}
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
