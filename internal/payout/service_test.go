package payout

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAggregator struct{ rows []ReportRow }

func (s *stubAggregator) Aggregate(_ context.Context, _, _ time.Time) ([]ReportRow, error) {
	return s.rows, nil
}

type stubUploader struct {
	key  string
	body string
}

func (s *stubUploader) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.key = key
	s.body = string(data)
	return "https://cdn.example.com/" + key, nil
}

var (
	periodFrom = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	periodTo   = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
)

func sampleRows() []ReportRow {
	return []ReportRow{
		{
			RestaurantID: "r1", RestaurantName: "Spice Garden", Orders: 12,
			GrossPence: 120000, GrossCommissionPence: 12000, NetCommissionPence: 11000,
			RestaurantAbsorbedPence: 2000, PlatformAbsorbedPence: 1000, NetPence: 106000,
		},
		{
			RestaurantID: "r2", RestaurantName: "Verde Kitchen", Orders: 5,
			GrossPence: 50000, GrossCommissionPence: 5000, NetCommissionPence: 5000,
			RestaurantAbsorbedPence: 0, PlatformAbsorbedPence: 0, NetPence: 45000,
		},
	}
}

func TestReportTotals(t *testing.T) {
	svc := NewService(&stubAggregator{rows: sampleRows()}, nil)

	report, err := svc.Report(context.Background(), periodFrom, periodTo, false)
	require.NoError(t, err)

	assert.Equal(t, 17, report.Totals.Orders)
	assert.Equal(t, int64(170000), report.Totals.GrossPence)
	assert.Equal(t, int64(17000), report.Totals.GrossCommissionPence)
	assert.Equal(t, int64(16000), report.Totals.NetCommissionPence)
	assert.Equal(t, int64(151000), report.Totals.NetPence)
	assert.Empty(t, report.ReportURL)
}

func TestReportExportsCSV(t *testing.T) {
	uploader := &stubUploader{}
	svc := NewService(&stubAggregator{rows: sampleRows()}, uploader)

	report, err := svc.Report(context.Background(), periodFrom, periodTo, true)
	require.NoError(t, err)

	assert.Equal(t, "payout-reports/2026-03-01_2026-04-01.csv", uploader.key)
	assert.Equal(t, "https://cdn.example.com/"+uploader.key, report.ReportURL)

	lines := strings.Split(strings.TrimSpace(uploader.body), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "gross_commission_pence")
	assert.Contains(t, lines[1], "Spice Garden")
	assert.Contains(t, lines[2], "Verde Kitchen")
}

func TestReportRejectsInvertedPeriod(t *testing.T) {
	svc := NewService(&stubAggregator{}, nil)

	_, err := svc.Report(context.Background(), periodTo, periodFrom, false)
	assert.Error(t, err)
}
