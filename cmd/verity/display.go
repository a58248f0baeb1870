package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ternarybob/verity/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	recommendationStyles = map[models.Recommendation]lipgloss.Style{
		models.RecommendationBuy:     lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
		models.RecommendationHold:    lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true),
		models.RecommendationAvoid:   lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
		models.RecommendationAbstain: lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Bold(true),
	}
)

func styleRecommendation(rec models.Recommendation) string {
	label := strings.ToUpper(string(rec))
	if style, ok := recommendationStyles[rec]; ok {
		return style.Render(label)
	}
	return label
}

// renderRun formats a run for the terminal
func renderRun(run *models.AnalysisRun) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s  run %s", run.Ticker, run.ID)))
	b.WriteString("\n")

	if run.Result == nil {
		b.WriteString(labelStyle.Render("status: "))
		b.WriteString(string(run.Status))
		if run.Error != "" {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(run.Error))
		}
		return b.String()
	}

	b.WriteString(panelStyle.Render(renderDecision(run.Result.Decision)))
	b.WriteString("\n")
	b.WriteString(renderAdvisors(run.Result))

	if len(run.Result.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Data warnings"))
		for _, w := range run.Result.Warnings {
			b.WriteString("\n  ")
			b.WriteString(warningStyle.Render("! " + w))
		}
	}

	return b.String()
}

func renderDecision(d models.PolicyDecision) string {
	lines := []string{
		fmt.Sprintf("%s %s  %s %.2f",
			labelStyle.Render("Decision:"), styleRecommendation(d.FinalRecommendation),
			labelStyle.Render("confidence"), d.Confidence),
	}
	lines = append(lines, d.Rationale...)
	for _, reason := range d.AbstainReasons {
		lines = append(lines, warningStyle.Render("Abstain: "+reason))
	}
	return strings.Join(lines, "\n")
}

func renderAdvisors(result *models.RunResult) string {
	keys := make([]string, 0, len(result.Decision.AdvisorBreakdown))
	for k := range result.Decision.AdvisorBreakdown {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-10s %-8s %6s %9s %7s %8s", "ADVISOR", "REC", "CONF", "VERIFIED", "RATE", "WEIGHT")))
	for _, k := range keys {
		bd := result.Decision.AdvisorBreakdown[k]
		report := result.Verification[k]
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%-10s %-8s %6.2f %9s %7.2f %8.4f",
			k, bd.Recommendation, bd.ModelConfidence,
			fmt.Sprintf("%d/%d", report.VerifiedClaimCount, report.ClaimCount),
			bd.VerificationRate, bd.EffectiveWeight))
	}
	return b.String()
}

// renderRunList formats a run listing as a table
func renderRunList(runs []*models.AnalysisRun) string {
	if len(runs) == 0 {
		return labelStyle.Render("No runs found")
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-36s %-10s %-10s %-8s %s", "ID", "TICKER", "STATUS", "DECISION", "CREATED")))
	for _, run := range runs {
		decision := "-"
		if run.Result != nil {
			decision = string(run.Result.Decision.FinalRecommendation)
		}
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%-36s %-10s %-10s %-8s %s",
			run.ID, run.Ticker, run.Status, decision, run.CreatedAt.Format("2006-01-02 15:04:05")))
	}
	return b.String()
}
