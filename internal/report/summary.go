// Package report renders a human-readable summary of an analysis result.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/user/news-impact-tracker/internal/models"
)

// MaxHeadlines is the number of headlines listed in a summary.
const MaxHeadlines = 10

// headlineWidth is the display width headlines are truncated to.
const headlineWidth = 80

var metricsHeader = []string{"Asset", "Articles", "Sentiment", "Impact", "Confidence"}

// WriteSummary writes the portfolio overview, insights, per-asset metrics
// table and the first headlines of result to w.
func WriteSummary(w io.Writer, result *models.AnalysisResult) error {
	var lines []string
	rule := strings.Repeat("=", 60)
	analysis := result.PortfolioAnalysis
	stats := result.SummaryStats()

	lines = append(lines,
		rule,
		"FINANCIAL NEWS ANALYSIS SUMMARY",
		rule,
		"",
		"Portfolio Overview:",
		fmt.Sprintf("   Assets Analyzed: %s", strings.Join(result.AssetsAnalyzed, ", ")),
		fmt.Sprintf("   Total Articles: %d", analysis.TotalArticles),
		fmt.Sprintf("   High Impact: %d", analysis.HighImpactCount),
		fmt.Sprintf("   Overall Sentiment: %s", analysis.OverallSentiment),
		fmt.Sprintf("   Risk Level: %s", analysis.RiskLevel),
		fmt.Sprintf("   Sentiment Mix: %d positive, %d negative, %d neutral",
			stats.SentimentDistribution[models.SentimentPositive],
			stats.SentimentDistribution[models.SentimentNegative],
			stats.SentimentDistribution[models.SentimentNeutral]),
		"",
	)

	lines = append(lines, bullets("Key Concerns:", analysis.KeyConcerns)...)
	lines = append(lines, bullets("Opportunities:", analysis.Opportunities)...)
	lines = append(lines, bullets("Recommendations:", analysis.Recommendations)...)

	if len(result.AssetMetrics) > 0 {
		rows := [][]string{metricsHeader}
		for _, m := range result.AssetMetrics {
			rows = append(rows, []string{
				m.Asset,
				fmt.Sprintf("%d", m.ArticleCount),
				string(m.DominantSentiment),
				string(m.AverageImpact),
				fmt.Sprintf("%.2f", m.AverageConfidence),
			})
		}
		lines = append(lines, "Asset-Level Metrics:")
		lines = append(lines, Table(rows)...)
		lines = append(lines, "")
	}

	if len(result.NewsEntries) > 0 {
		lines = append(lines, "Recent News Headlines:")
		for i, e := range result.NewsEntries {
			if i >= MaxHeadlines {
				break
			}
			lines = append(lines,
				fmt.Sprintf("   [%s] %s", e.Asset, runewidth.Truncate(e.Title, headlineWidth, "...")),
				fmt.Sprintf("      Impact: %s | Sentiment: %s", e.ImpactMagnitude, e.Sentiment),
				"",
			)
		}
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// WriteConnectivity writes one line per subsystem status, in the order of
// keys, followed by an overall verdict.
func WriteConnectivity(w io.Writer, status map[string]bool, keys []string) error {
	allOK := true
	for _, key := range keys {
		state := "Available"
		if !status[key] {
			state = "Unavailable"
			allOK = false
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", titleCase(strings.ReplaceAll(key, "_", " ")), state); err != nil {
			return err
		}
	}

	msg := "All systems operational!"
	if !allOK {
		msg = "Some systems are unavailable. Check configuration."
	}
	_, err := fmt.Fprintf(w, "\n%s\n", msg)
	return err
}

// Table renders rows as a pipe table padded to display width. The first row
// is the header.
func Table(rows [][]string) []string {
	if len(rows) == 0 {
		return nil
	}

	colCount := 0
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}

	widths := make([]int, colCount)
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var lines []string
	for r, row := range rows {
		lines = append(lines, formatRow(row, widths))
		if r == 0 {
			sep := make([]string, colCount)
			for i, width := range widths {
				sep[i] = strings.Repeat("-", max(width, 3))
			}
			lines = append(lines, formatRow(sep, widths))
		}
	}
	return lines
}

func formatRow(row []string, widths []int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(cell, max(width, 3)))
		sb.WriteString(" |")
	}
	return sb.String()
}

func bullets(title string, items []string) []string {
	lines := []string{title}
	for _, item := range items {
		lines = append(lines, "   • "+item)
	}
	return append(lines, "")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
