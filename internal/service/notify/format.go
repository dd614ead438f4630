// Package notify turns stored reports into Telegram messages and delivers
// them to the right group topic.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"reportbot/internal/domain/models"
)

// moscow is the display timezone for every timestamp shown in chat.
// LoadLocation only fails when the zone database is missing; UTC is an
// acceptable degradation there.
var moscow = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		return time.UTC
	}
	return loc
}()

const chatTimeLayout = "02.01.2006 15:04"

// categoryEmojis decorate inventory category headers. Lookup is
// case-insensitive; unknown categories fall back to the clipboard.
var categoryEmojis = map[string]string{
	"напитки":   "🥤",
	"еда":       "🍽️",
	"кухня":     "🍳",
	"бар":       "🍹",
	"упаковки":  "📦",
	"хоз":       "🧽",
	"хозтовары": "🧽",
	"прочее":    "📋",
}

func shiftEmoji(shiftType string) string {
	if shiftType == models.ShiftMorning {
		return "🌅"
	}
	return "🌙"
}

func shiftLabel(shiftType string) string {
	if shiftType == models.ShiftMorning {
		return "Утренняя"
	}
	return "Ночная"
}

// rub renders a monetary value as whole rubles, half away from zero.
func rub(d decimal.Decimal) string {
	return d.Round(0).StringFixed(0)
}

// FormatShiftReport renders the shift closing report caption.
func FormatShiftReport(report *models.ShiftReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, " <b>ОТЧЁТ ЗАВЕРШЕНИЯ СМЕНЫ</b> %s\n\n", shiftEmoji(report.ShiftType))
	fmt.Fprintf(&b, "📍 <b>Локация:</b> %s\n", report.Location)
	fmt.Fprintf(&b, "👤 <b>Кассир:</b> %s\n", report.CashierName)
	fmt.Fprintf(&b, "📅 <b>Смена:</b> %s\n", shiftLabel(report.ShiftType))
	fmt.Fprintf(&b, "🕐 <b>Дата/время:</b> %s\n\n", time.Now().In(moscow).Format(chatTimeLayout))

	b.WriteString("📊 <b>Информация из iiko:</b>\n")
	fmt.Fprintf(&b, "- Общая выручка: <b>%s₽</b>\n", rub(report.TotalRevenue))
	fmt.Fprintf(&b, "- Возвраты: <b>%s₽</b>\n\n", rub(report.Returns))

	b.WriteString("💳 <b>Безналичные платежи:</b>\n")
	fmt.Fprintf(&b, "- Эквайринг: <b>%s₽</b>\n", rub(report.Acquiring))
	fmt.Fprintf(&b, "- QR код: <b>%s₽</b>\n", rub(report.QRCode))
	fmt.Fprintf(&b, "- Онлайн приложение: <b>%s₽</b>\n", rub(report.OnlineApp))
	fmt.Fprintf(&b, "- Яндекс Еда: <b>%s₽</b>\n", rub(report.YandexFood))
	fmt.Fprintf(&b, "- Яндекс Еда (вручную): <b>%s₽</b>\n", rub(report.YandexFoodNoSystem))
	fmt.Fprintf(&b, "- Primehill: <b>%s₽</b>\n", rub(report.Primehill))
	fmt.Fprintf(&b, "<b>Итого эквайринг: %s₽</b>\n\n", rub(report.TotalAcquiring))

	b.WriteString("📈 <b>Внесения:</b>\n")
	if len(report.IncomeEntries) == 0 {
		b.WriteString("• Приходов нет\n")
	}
	for _, entry := range report.IncomeEntries {
		comment := entry.Comment
		if comment == "" {
			comment = "Без комментария"
		}
		fmt.Fprintf(&b, "• %s: <b>%s₽</b>\n", comment, rub(entry.Amount))
	}
	fmt.Fprintf(&b, "<b>Итого внесений: %s₽</b>\n\n", rub(report.TotalIncome))

	b.WriteString("📉 <b>Расходы:</b>\n")
	if len(report.ExpenseEntries) == 0 {
		b.WriteString("• Расходов нет\n")
	}
	for _, entry := range report.ExpenseEntries {
		description := entry.Description
		if description == "" {
			description = "Без описания"
		}
		fmt.Fprintf(&b, "• %s: <b>%s₽</b>\n", description, rub(entry.Amount))
	}
	fmt.Fprintf(&b, "<b>Итого расходы: %s₽</b>\n\n", rub(report.TotalExpenses))

	fmt.Fprintf(&b, "➡️ <b>Должно быть:</b> %s₽\n\n", rub(report.CalculatedAmount))
	fmt.Fprintf(&b, "💵 <b>Фактически в кассе:</b> %s₽\n", rub(report.FactCash))
	fmt.Fprintf(&b, "💰 <b>Расчетная сумма:</b> %s₽\n\n", rub(report.CalculatedAmount))

	surplus := report.SurplusShortage.Round(0)
	switch surplus.Sign() {
	case 1:
		fmt.Fprintf(&b, "✅ <b>Излишек: +%s₽</b>\n", surplus.StringFixed(0))
	case -1:
		fmt.Fprintf(&b, "❌ <b>Недостача: %s₽</b>\n", surplus.StringFixed(0))
	default:
		fmt.Fprintf(&b, "✅ <b>Сходится: %s₽</b>\n", surplus.StringFixed(0))
	}

	comments := "Отсутствуют"
	if report.Comments != nil && *report.Comments != "" {
		comments = *report.Comments
	}
	fmt.Fprintf(&b, "<b>КОММЕНТАРИИ: %s</b>", comments)

	return b.String()
}

// FormatDailyInventory renders the inventory message, grouped by item
// category. Entries are expected in resolved form; deactivated catalog items
// carry their placeholder name already.
func FormatDailyInventory(inventory *models.DetailedInventory) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📦 <b>ЕЖЕДНЕВНАЯ ИНВЕНТАРИЗАЦИЯ</b> %s\n\n", shiftEmoji(inventory.ShiftType))
	fmt.Fprintf(&b, "📍 <b>Локация:</b> %s\n", inventory.Location)
	fmt.Fprintf(&b, "👤 <b>Кассир:</b> %s\n", inventory.CashierName)
	fmt.Fprintf(&b, "📅 <b>Смена:</b> %s\n", shiftLabel(inventory.ShiftType))
	fmt.Fprintf(&b, "🕐 <b>Время проведения:</b> %s\n\n", inventory.Date.In(moscow).Format(chatTimeLayout))

	if len(inventory.Entries) == 0 {
		b.WriteString("<b>Товары не указаны</b>")
		return b.String()
	}

	// Group entries by category, keeping first-seen category order.
	var order []string
	grouped := map[string][]models.DetailedInventoryEntry{}
	for _, entry := range inventory.Entries {
		if _, seen := grouped[entry.ItemCategory]; !seen {
			order = append(order, entry.ItemCategory)
		}
		grouped[entry.ItemCategory] = append(grouped[entry.ItemCategory], entry)
	}

	for _, category := range order {
		emoji, ok := categoryEmojis[strings.ToLower(category)]
		if !ok {
			emoji = "📋"
		}
		fmt.Fprintf(&b, "%s <b>%s:</b>\n", emoji, strings.ToUpper(category))
		for _, entry := range grouped[category] {
			fmt.Fprintf(&b, "• %s: <b>%d %s</b>\n", entry.ItemName, entry.Quantity, entry.ItemUnit)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatGoodsReport renders the goods delivery report caption.
func FormatGoodsReport(report *models.GoodsReport) string {
	var b strings.Builder

	b.WriteString("📋 <b>ОТЧЁТ ПРИЁМА ТОВАРА</b>\n\n")
	fmt.Fprintf(&b, "📍 <b>Локация:</b> %s\n", report.Location)
	fmt.Fprintf(&b, "🕐 <b>Дата:</b> %s\n", time.Now().In(moscow).Format(chatTimeLayout))
	fmt.Fprintf(&b, "👤 <b>Кассир:</b> %s\n", report.CashierName)
	fmt.Fprintf(&b, "📅 <b>Смена:</b> %s\n", shiftLabel(report.ShiftType))

	writeGoodsSection(&b, "🍳 <b>КУХНЯ:</b>", report.Kitchen)
	writeGoodsSection(&b, "🍹 <b>БАР:</b>", report.Bar)
	writeGoodsSection(&b, "📦 <b>УПАКОВКИ/ХОЗ:</b>", report.Packaging)

	return strings.TrimRight(b.String(), "\n")
}

func writeGoodsSection(b *strings.Builder, header string, items []models.GoodsItem) {
	if len(items) == 0 {
		return
	}
	b.WriteString(header + "\n")
	for _, item := range items {
		name := item.Name
		if name == "" {
			name = "Не указано"
		}
		unit := item.Unit
		if unit == "" {
			unit = "шт"
		}
		fmt.Fprintf(b, "• %s — <b>%d %s</b>\n", name, item.Count, unit)
	}
	b.WriteString("\n")
}

// FormatWriteoffTransfer renders the write-off/transfer act message. The
// header tag depends on which lists are populated.
func FormatWriteoffTransfer(act *models.WriteoffTransfer) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📋 <b>АКТ %s</b>\n\n", actTag(act))
	fmt.Fprintf(&b, "📍 <b>Локация:</b> %s\n", act.Location)
	fmt.Fprintf(&b, "👤 <b>Кассир:</b> %s\n", act.CashierName)
	fmt.Fprintf(&b, "📅 <b>Смена:</b> %s\n", shiftLabel(act.ShiftType))

	when := act.CreatedAt
	if act.ReportDate != nil {
		when = *act.ReportDate
	}
	fmt.Fprintf(&b, "📆 <b>Дата:</b> %s\n", when.In(moscow).Format(chatTimeLayout))

	writeActSection(&b, "🗑 <b>СПИСАНИЕ:</b>", act.Writeoffs)
	writeActSection(&b, "🔄 <b>ПЕРЕМЕЩЕНИЕ:</b>", act.Transfers)

	return strings.TrimRight(b.String(), "\n")
}

// actTag names the act by its contents.
func actTag(act *models.WriteoffTransfer) string {
	switch {
	case len(act.Writeoffs) > 0 && len(act.Transfers) > 0:
		return "СПИСАНИЯ/ПЕРЕМЕЩЕНИЯ"
	case len(act.Transfers) > 0:
		return "ПЕРЕМЕЩЕНИЯ"
	default:
		return "СПИСАНИЯ"
	}
}

func writeActSection(b *strings.Builder, header string, items []models.ActItem) {
	if len(items) == 0 {
		return
	}
	b.WriteString(header + "\n")
	for _, item := range items {
		name := item.Name
		if name == "" {
			name = "Не указано"
		}
		unit := item.Unit
		if unit == "" {
			unit = "кг"
		}
		reason := item.Reason
		if reason == "" {
			reason = "Не указано"
		}
		fmt.Fprintf(b, "• %s — <b>%s %s</b> — %s\n", name, item.Weight.Round(0).StringFixed(0), unit, reason)
	}
	b.WriteString("\n")
}

// FormatLoosePhotos renders the default caption for photos relayed outside a
// report submission.
func FormatLoosePhotos(location string) string {
	return fmt.Sprintf("📸 <b>НЕДОСТАЮЩИЕ ФОТО</b>\n📍 <b>Локация:</b> %s\n🕐 <b>Время:</b> %s",
		location, time.Now().In(moscow).Format(chatTimeLayout))
}
