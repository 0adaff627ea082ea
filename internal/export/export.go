// Package export writes analysis results as JSON or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/user/news-impact-tracker/internal/models"
)

// CSVColumns are the CSV header, one column per NewsEntry field.
var CSVColumns = []string{
	"asset",
	"title",
	"summary",
	"source",
	"url",
	"published_at",
	"sentiment",
	"impact_timeframe",
	"impact_magnitude",
	"confidence_score",
}

// WriteJSON writes result as indented JSON.
func WriteJSON(w io.Writer, result *models.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// WriteCSV writes entries with a CSVColumns header.
func WriteCSV(w io.Writer, entries []models.NewsEntry) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(CSVColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, e := range entries {
		record := []string{
			e.Asset,
			e.Title,
			e.Summary,
			e.Source,
			e.URL,
			e.PublishedAt,
			string(e.Sentiment),
			string(e.ImpactTimeframe),
			string(e.ImpactMagnitude),
			strconv.FormatFloat(e.ConfidenceScore, 'f', -1, 64),
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
