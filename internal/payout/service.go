package payout

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"
)

// Aggregator is the persistence side of report generation.
type Aggregator interface {
	Aggregate(ctx context.Context, from, to time.Time) ([]ReportRow, error)
}

// Uploader stores a rendered export and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type Service struct {
	repo    Aggregator
	uploads Uploader
}

func NewService(repo Aggregator, uploads Uploader) *Service {
	return &Service{repo: repo, uploads: uploads}
}

// Report builds the per-restaurant payout report for [from, to). With
// export set, a CSV copy is uploaded and linked from the result.
func (s *Service) Report(ctx context.Context, from, to time.Time, export bool) (*Report, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("report period end must be after start")
	}

	rows, err := s.repo.Aggregate(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("aggregate payouts: %w", err)
	}

	report := &Report{From: from, To: to, Rows: rows}
	for _, row := range rows {
		report.Totals.Orders += row.Orders
		report.Totals.GrossPence += row.GrossPence
		report.Totals.GrossCommissionPence += row.GrossCommissionPence
		report.Totals.NetCommissionPence += row.NetCommissionPence
		report.Totals.RestaurantAbsorbedPence += row.RestaurantAbsorbedPence
		report.Totals.PlatformAbsorbedPence += row.PlatformAbsorbedPence
		report.Totals.NetPence += row.NetPence
	}

	if export && s.uploads != nil {
		url, err := s.exportCSV(ctx, report)
		if err != nil {
			// The numbers are already computed; a failed export should
			// not lose them.
			log.Printf("❌ Failed to export payout report: %v", err)
		} else {
			report.ReportURL = url
		}
	}

	return report, nil
}

func (s *Service) exportCSV(ctx context.Context, report *Report) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"restaurant_id", "restaurant_name", "orders",
		"gross_pence", "gross_commission_pence", "net_commission_pence",
		"restaurant_absorbed_pence", "platform_absorbed_pence", "net_pence",
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, row := range report.Rows {
		record := []string{
			row.RestaurantID,
			row.RestaurantName,
			strconv.Itoa(row.Orders),
			strconv.FormatInt(row.GrossPence, 10),
			strconv.FormatInt(row.GrossCommissionPence, 10),
			strconv.FormatInt(row.NetCommissionPence, 10),
			strconv.FormatInt(row.RestaurantAbsorbedPence, 10),
			strconv.FormatInt(row.PlatformAbsorbedPence, 10),
			strconv.FormatInt(row.NetPence, 10),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	key := fmt.Sprintf("payout-reports/%s_%s.csv",
		report.From.Format("2006-01-02"), report.To.Format("2006-01-02"))
	return s.uploads.Upload(ctx, key, "text/csv", &buf)
}
