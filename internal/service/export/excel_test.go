package export

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportbot/internal/domain/models"
)

func TestShiftReportsWorkbook(t *testing.T) {
	reports := []models.ShiftReport{
		{
			ID:               1,
			Location:         "Касса - Гагарина 48/1",
			ShiftType:        models.ShiftMorning,
			CashierName:      "Иванов Иван",
			Date:             time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
			TotalRevenue:     decimal.NewFromInt(15000),
			CalculatedAmount: decimal.NewFromInt(5375),
			FactCash:         decimal.NewFromInt(5100),
			SurplusShortage:  decimal.NewFromInt(-275),
			Status:           models.StatusSent,
		},
		{
			ID:          2,
			Location:    "Касса - Гайдара Гаджиева 7Б",
			ShiftType:   models.ShiftNight,
			CashierName: "Петров",
			Date:        time.Date(2026, 8, 30, 22, 0, 0, 0, time.UTC),
			Status:      models.StatusDraft,
		},
	}

	f, err := ShiftReports(reports)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, 1)
	sheet := sheets[0]

	header, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", header)

	location, err := f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Касса - Гагарина 48/1", location)

	shift, err := f.GetCellValue(sheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "Утренняя", shift)

	status, err := f.GetCellValue(sheet, "T3")
	require.NoError(t, err)
	assert.Equal(t, "draft", status)

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	assert.Len(t, rows, 3, "header plus one row per report")
	assert.Len(t, rows[0], len(shiftReportHeaders))
}

func TestShiftReportsEmpty(t *testing.T) {
	f, err := ShiftReports(nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetList()[0])
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
