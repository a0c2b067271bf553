// internal/display/display.go
// Package display renders analysis results for the terminal.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/ab"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/api"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/batch"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/comparison"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/util"
)

var (
	parasitizedBanner = lipgloss.NewStyle().
				Background(lipgloss.Color("160")).
				Foreground(lipgloss.Color("230")).
				Bold(true).
				Padding(0, 2)
	uninfectedBanner = lipgloss.NewStyle().
				Background(lipgloss.Color("34")).
				Foreground(lipgloss.Color("230")).
				Bold(true).
				Padding(0, 2)
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			MarginRight(1)
	headerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1)
	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	successText  = color.New(color.FgGreen).SprintFunc()
	failureText  = color.New(color.FgRed).SprintFunc()
	advisoryText = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// PredictionBanner renders the color-coded verdict line for one result.
func PredictionBanner(r api.PredictionResult) string {
	text := fmt.Sprintf("%s  %.2f%%", r.Prediction, r.Confidence)
	if r.IsParasitized {
		return parasitizedBanner.Render(text)
	}
	return uninfectedBanner.Render(text)
}

// PredictionCard renders one result with its probabilities and model line.
func PredictionCard(filename string, r api.PredictionResult) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(filename) + "\n\n")
	b.WriteString(PredictionBanner(r) + "\n\n")
	b.WriteString(probabilityLine("Parasitée", r.ProbabilityParasitized) + "\n")
	b.WriteString(probabilityLine("Non infectée", r.ProbabilityUninfected) + "\n")
	footer := fmt.Sprintf("model: %s", r.ModelName)
	if r.InferenceTimeMS > 0 {
		footer += fmt.Sprintf("  %.0fms", r.InferenceTimeMS)
	}
	b.WriteString(dimStyle.Render(footer))
	return b.String()
}

// probabilityLine renders a fixed-width proportional bar for one class.
func probabilityLine(label string, percentage float64) string {
	const width = 30
	filled := util.Max(0, util.Min(int(percentage/100*width), width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%-14s %s %6.2f%%", label, bar, percentage)
}

// ComparisonView renders every model's verdict next to the derived consensus.
func ComparisonView(result *comparison.Result) string {
	cards := make([]string, 0, len(result.Predictions))
	for i, p := range result.Predictions {
		var b strings.Builder
		name := p.ModelName
		if i == 0 {
			// First card keeps the backend's ordering; the marker is a
			// display convention, not a derived ranking.
			name += " ★"
		}
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(name) + "\n")
		b.WriteString(fmt.Sprintf("%s\n", p.Prediction))
		b.WriteString(fmt.Sprintf("%.2f%%", p.Confidence))
		if p.InferenceTimeMS > 0 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %.0fms", p.InferenceTimeMS)))
		}
		cards = append(cards, cardStyle.Render(b.String()))
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Comparaison multi-modèles: "+result.ImageFilename) + "\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n\n")

	c := result.Consensus
	b.WriteString(fmt.Sprintf("Consensus: %s (%.1f%% agreement", c.MajorityVote, c.AgreementPercentage))
	if c.Unanimous {
		b.WriteString(", " + successText("unanimous"))
	}
	b.WriteString(")\n")

	if len(result.Disagreements) > 0 {
		b.WriteString("\nDisagreements:\n")
		for _, d := range result.Disagreements {
			b.WriteString(fmt.Sprintf("  %s vs %s: %s\n", d.Model1, d.Model2,
				failureText(fmt.Sprintf("Δ%.2f%%", d.Difference))))
		}
	}
	return b.String()
}

// DivergenceView renders the A/B verdicts and their derived divergence.
func DivergenceView(slotA, slotB ab.Slot, div ab.Divergence) string {
	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		cardStyle.Render(PredictionCard(slotA.Filename, *slotA.Result)),
		cardStyle.Render(PredictionCard(slotB.Filename, *slotB.Result)),
	))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Divergence: Δ%.2f%%  similarity: %s\n", div.Delta, div.Tier))
	if div.Advisory != "" {
		b.WriteString(advisoryText("⚠ "+div.Advisory) + "\n")
	}
	return b.String()
}

// BatchSummary renders the per-item outcome of a submitted batch.
func BatchSummary(items []batch.Item) string {
	var b strings.Builder
	for i, item := range items {
		switch item.Status {
		case batch.StatusSuccess:
			b.WriteString(fmt.Sprintf("%2d. %s %s  %s %.2f%%\n", i+1, successText("✔"),
				item.Filename, item.Result.Prediction, item.Result.Confidence))
		case batch.StatusError:
			b.WriteString(fmt.Sprintf("%2d. %s %s  %s\n", i+1, failureText("✘"),
				item.Filename, item.Err))
		default:
			b.WriteString(fmt.Sprintf("%2d. %s %s\n", i+1, dimStyle.Render("…"), item.Filename))
		}
	}
	return b.String()
}

// HistoryTable renders one page of stored predictions.
func HistoryTable(page *api.HistoryPage) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Historique (%d au total)", page.Total)) + "\n")
	b.WriteString(fmt.Sprintf("%-6s %-24s %-14s %-10s %-16s %s\n",
		"ID", "Image", "Prediction", "Conf.", "Model", "Date"))
	for _, p := range page.Predictions {
		label := p.Prediction
		if p.IsParasitized {
			label = failureText(label)
		} else {
			label = successText(label)
		}
		b.WriteString(fmt.Sprintf("%-6d %-24s %-14s %8.2f%%  %-16s %s\n",
			p.ID, p.ImageFilename, label, p.Confidence, p.ModelName,
			p.CreatedAt.Format("2006-01-02 15:04")))
	}
	return b.String()
}

// StatsView renders the overview block plus optional trend and usage tables.
func StatsView(stats *api.Statistics, trends []api.TrendData, usage []api.ModelUsage) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Statistiques") + "\n")
	b.WriteString(fmt.Sprintf("  Total predictions:   %d (today: %d)\n", stats.TotalPredictions, stats.TodayPredictions))
	b.WriteString(fmt.Sprintf("  Parasitées:          %s (%.1f%%)\n",
		failureText(fmt.Sprintf("%d", stats.ParasitizedCount)), stats.ParasitizedPercentage))
	b.WriteString(fmt.Sprintf("  Non infectées:       %s\n", successText(fmt.Sprintf("%d", stats.UninfectedCount))))
	b.WriteString(fmt.Sprintf("  Average confidence:  %.2f%%\n", stats.AverageConfidence))
	b.WriteString(fmt.Sprintf("  Average latency:     %.0fms\n", stats.AverageInferenceTimeMS))

	if len(trends) > 0 {
		b.WriteString("\n  Daily volume:\n")
		for _, tr := range trends {
			b.WriteString(fmt.Sprintf("    %s  total=%-4d parasitized=%-4d uninfected=%d\n",
				tr.Date, tr.Total, tr.Parasitized, tr.Uninfected))
		}
	}
	if len(usage) > 0 {
		b.WriteString("\n  Model usage:\n")
		for _, u := range usage {
			b.WriteString(fmt.Sprintf("    %-20s %5d  %.1f%%\n", u.ModelName, u.Count, u.Percentage))
		}
	}
	return b.String()
}

// ModelsTable renders the model catalog.
func ModelsTable(list *api.ModelList) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-16s %-20s %-10s %-12s %s\n", "ID", "Name", "Accuracy", "Latency", "Flags"))
	for _, m := range list.Models {
		flags := []string{}
		if m.IsDefault {
			flags = append(flags, successText("default"))
		}
		if m.Loaded {
			flags = append(flags, "loaded")
		}
		b.WriteString(fmt.Sprintf("%-16s %-20s %8.2f%% %9.0fms  %s\n",
			m.ID, m.Name, m.Accuracy*100, m.InferenceTimeMS, strings.Join(flags, ",")))
	}
	return b.String()
}
