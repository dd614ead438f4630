package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"reportbot/internal/domain/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleShiftReport() *models.ShiftReport {
	comments := "размен не завезли"
	return &models.ShiftReport{
		ID:          7,
		Location:    "Касса - Гагарина 48/1",
		ShiftType:   models.ShiftMorning,
		CashierName: "Иванов Иван",
		Date:        time.Now(),
		IncomeEntries: models.IncomeEntries{
			{Amount: dec("500"), Comment: "размен"},
		},
		ExpenseEntries: models.ExpenseEntries{
			{Description: "вода", Amount: dec("125")},
		},
		TotalRevenue:     dec("15000"),
		Returns:          dec("200"),
		Acquiring:        dec("5000"),
		QRCode:           dec("1500"),
		TotalIncome:      dec("500"),
		TotalExpenses:    dec("125"),
		TotalAcquiring:   dec("6500"),
		CalculatedAmount: dec("8675"),
		FactCash:         dec("8400"),
		SurplusShortage:  dec("-275"),
		Comments:         &comments,
	}
}

func TestFormatShiftReportSections(t *testing.T) {
	msg := FormatShiftReport(sampleShiftReport())

	// Section order matters: revenue, then electronic payments, then
	// cash-ins, cash-outs and the reconciliation block.
	sections := []string{
		"ОТЧЁТ ЗАВЕРШЕНИЯ СМЕНЫ",
		"Информация из iiko",
		"Безналичные платежи",
		"Внесения",
		"Расходы",
		"Должно быть",
		"КОММЕНТАРИИ",
	}
	last := -1
	for _, section := range sections {
		idx := strings.Index(msg, section)
		assert.Greater(t, idx, last, "section %q out of order", section)
		last = idx
	}

	assert.Contains(t, msg, "🌅")
	assert.Contains(t, msg, "Общая выручка: <b>15000₽</b>")
	assert.Contains(t, msg, "• размен: <b>500₽</b>")
	assert.Contains(t, msg, "• вода: <b>125₽</b>")
	assert.Contains(t, msg, "❌ <b>Недостача: -275₽</b>")
	assert.Contains(t, msg, "КОММЕНТАРИИ: размен не завезли")
}

func TestFormatShiftReportSurplusVariants(t *testing.T) {
	report := sampleShiftReport()

	report.SurplusShortage = dec("120")
	assert.Contains(t, FormatShiftReport(report), "✅ <b>Излишек: +120₽</b>")

	report.SurplusShortage = dec("0")
	assert.Contains(t, FormatShiftReport(report), "✅ <b>Сходится: 0₽</b>")
}

func TestFormatShiftReportEmptyEntries(t *testing.T) {
	report := sampleShiftReport()
	report.IncomeEntries = nil
	report.ExpenseEntries = nil
	report.Comments = nil

	msg := FormatShiftReport(report)

	assert.Contains(t, msg, "• Приходов нет")
	assert.Contains(t, msg, "• Расходов нет")
	assert.Contains(t, msg, "КОММЕНТАРИИ: Отсутствуют")
}

func TestFormatDailyInventoryGroupsByCategory(t *testing.T) {
	inventory := &models.DetailedInventory{
		Location:    "Касса - Гагарина 48/1",
		ShiftType:   models.ShiftNight,
		CashierName: "Петров",
		Date:        time.Date(2026, 8, 30, 22, 15, 0, 0, time.UTC),
		Entries: []models.DetailedInventoryEntry{
			{ItemID: 1, ItemName: "Кола", ItemCategory: "Напитки", ItemUnit: "шт", Quantity: 12},
			{ItemID: 2, ItemName: "Вода Горная", ItemCategory: "Напитки", ItemUnit: "шт", Quantity: 6},
			{ItemID: 3, ItemName: "Стаканы", ItemCategory: "Упаковки", ItemUnit: "шт", Quantity: 250},
		},
	}

	msg := FormatDailyInventory(inventory)

	assert.Contains(t, msg, "🌙")
	assert.Contains(t, msg, "🥤 <b>НАПИТКИ:</b>")
	assert.Contains(t, msg, "📦 <b>УПАКОВКИ:</b>")
	assert.Contains(t, msg, "• Кола: <b>12 шт</b>")
	assert.Less(t, strings.Index(msg, "НАПИТКИ"), strings.Index(msg, "УПАКОВКИ"),
		"categories keep submission order")
}

func TestFormatDailyInventoryPlaceholderItem(t *testing.T) {
	inventory := &models.DetailedInventory{
		Location:  "Касса - Гагарина 48/1",
		ShiftType: models.ShiftMorning,
		Date:      time.Now(),
		Entries: []models.DetailedInventoryEntry{
			{ItemID: 99, ItemName: "Товар не найден", ItemCategory: "unknown", ItemUnit: "шт", Quantity: 3},
		},
	}

	msg := FormatDailyInventory(inventory)

	assert.Contains(t, msg, "• Товар не найден: <b>3 шт</b>")
	assert.Contains(t, msg, "📋 <b>UNKNOWN:</b>", "unknown category falls back to the clipboard emoji")
}

func TestFormatDailyInventoryEmpty(t *testing.T) {
	msg := FormatDailyInventory(&models.DetailedInventory{
		ShiftType: models.ShiftMorning,
		Date:      time.Now(),
	})

	assert.Contains(t, msg, "<b>Товары не указаны</b>")
}

func TestFormatGoodsReportSkipsEmptySections(t *testing.T) {
	report := &models.GoodsReport{
		Location:    "Касса - Гагарина 48/1",
		ShiftType:   models.ShiftMorning,
		CashierName: "Иванов",
		Kitchen: models.GoodsItems{
			{Name: "Курица", Count: 10, Unit: "кг"},
		},
	}

	msg := FormatGoodsReport(report)

	assert.Contains(t, msg, "ОТЧЁТ ПРИЁМА ТОВАРА")
	assert.Contains(t, msg, "🍳 <b>КУХНЯ:</b>")
	assert.Contains(t, msg, "• Курица — <b>10 кг</b>")
	assert.NotContains(t, msg, "БАР")
	assert.NotContains(t, msg, "УПАКОВКИ/ХОЗ")
}

func TestFormatWriteoffTransfer(t *testing.T) {
	date := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	act := &models.WriteoffTransfer{
		Location:    "Касса - Гагарина 48/1",
		ShiftType:   models.ShiftNight,
		CashierName: "Иванов",
		ReportDate:  &date,
		Writeoffs: models.ActItems{
			{Name: "Курица жареная", Weight: dec("2"), Unit: "кг", Reason: "Пересушена"},
		},
		Transfers: models.ActItems{
			{Name: "Вода Горная", Weight: dec("12.4"), Unit: "шт", Reason: "На точку Гайдара"},
		},
	}

	msg := FormatWriteoffTransfer(act)

	assert.Contains(t, msg, "АКТ СПИСАНИЯ/ПЕРЕМЕЩЕНИЯ")
	assert.Contains(t, msg, "🗑 <b>СПИСАНИЕ:</b>")
	assert.Contains(t, msg, "• Курица жареная — <b>2 кг</b> — Пересушена")
	assert.Contains(t, msg, "🔄 <b>ПЕРЕМЕЩЕНИЕ:</b>")
	assert.Contains(t, msg, "• Вода Горная — <b>12 шт</b> — На точку Гайдара")
}

func TestFormatWriteoffTransferTagByContents(t *testing.T) {
	writeoffOnly := &models.WriteoffTransfer{
		Writeoffs: models.ActItems{{Name: "x", Weight: dec("1")}},
	}
	assert.Contains(t, FormatWriteoffTransfer(writeoffOnly), "АКТ СПИСАНИЯ")
	assert.NotContains(t, FormatWriteoffTransfer(writeoffOnly), "ПЕРЕМЕЩЕНИЯ")

	transferOnly := &models.WriteoffTransfer{
		Transfers: models.ActItems{{Name: "x", Weight: dec("1")}},
	}
	assert.Contains(t, FormatWriteoffTransfer(transferOnly), "АКТ ПЕРЕМЕЩЕНИЯ")
}
