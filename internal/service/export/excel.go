// Package export renders stored reports as Excel workbooks for download.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"reportbot/internal/domain/models"
)

const shiftReportSheet = "Отчеты смен"

var shiftReportHeaders = []string{
	"ID", "Локация", "Смена", "Кассир", "Дата",
	"Выручка", "Возвраты",
	"Эквайринг", "QR код", "Онлайн приложение", "Яндекс Еда", "Яндекс Еда (вручную)", "Primehill",
	"Итого эквайринг", "Итого внесений", "Итого расходы",
	"Расчетная сумма", "Фактически в кассе", "Излишек/недостача",
	"Статус",
}

// ShiftReports builds a one-sheet workbook with a header row and one row per
// report, declared and derived figures side by side.
func ShiftReports(reports []models.ShiftReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", shiftReportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, header := range shiftReportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(shiftReportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header %s: %w", header, err)
		}
	}

	for i, report := range reports {
		row := i + 2
		values := []any{
			report.ID,
			report.Location,
			shiftLabel(report.ShiftType),
			report.CashierName,
			report.Date.Format("02.01.2006 15:04"),
			report.TotalRevenue.InexactFloat64(),
			report.Returns.InexactFloat64(),
			report.Acquiring.InexactFloat64(),
			report.QRCode.InexactFloat64(),
			report.OnlineApp.InexactFloat64(),
			report.YandexFood.InexactFloat64(),
			report.YandexFoodNoSystem.InexactFloat64(),
			report.Primehill.InexactFloat64(),
			report.TotalAcquiring.InexactFloat64(),
			report.TotalIncome.InexactFloat64(),
			report.TotalExpenses.InexactFloat64(),
			report.CalculatedAmount.InexactFloat64(),
			report.FactCash.InexactFloat64(),
			report.SurplusShortage.InexactFloat64(),
			report.Status,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(shiftReportSheet, cell, value); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	if err := f.SetColWidth(shiftReportSheet, "A", "T", 18); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	return f, nil
}

func shiftLabel(shiftType string) string {
	if shiftType == models.ShiftMorning {
		return "Утренняя"
	}
	return "Ночная"
}
