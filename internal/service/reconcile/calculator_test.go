package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportbot/internal/domain/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleInput() Input {
	return Input{
		TotalRevenue: dec("15000"),
		Returns:      dec("200"),
		IncomeEntries: []models.IncomeEntry{
			{Amount: dec("500"), Comment: "размен"},
			{Amount: dec("200"), Comment: "внесение"},
		},
		ExpenseEntries: []models.ExpenseEntry{
			{Description: "вода", Amount: dec("125")},
			{Description: "такси", Amount: dec("300")},
		},
		Acquiring:  dec("5000"),
		QRCode:     dec("1500"),
		OnlineApp:  dec("2000"),
		YandexFood: dec("1200"),
		FactCash:   dec("5100"),
	}
}

func TestCalculateExample(t *testing.T) {
	result := Calculate(sampleInput())

	assert.True(t, result.TotalIncome.Equal(dec("700")), "total income: %s", result.TotalIncome)
	assert.True(t, result.TotalExpenses.Equal(dec("425")), "total expenses: %s", result.TotalExpenses)
	assert.True(t, result.TotalAcquiring.Equal(dec("9700")), "total acquiring: %s", result.TotalAcquiring)
	assert.True(t, result.CalculatedAmount.Equal(dec("5375")), "calculated: %s", result.CalculatedAmount)
	assert.True(t, result.SurplusShortage.Equal(dec("-275")), "surplus: %s", result.SurplusShortage)
}

func TestCalculateDeterministic(t *testing.T) {
	in := sampleInput()
	first := Calculate(in)
	second := Calculate(in)

	assert.True(t, first.CalculatedAmount.Equal(second.CalculatedAmount))
	assert.True(t, first.SurplusShortage.Equal(second.SurplusShortage))
}

func TestCalculateIdentity(t *testing.T) {
	inputs := []Input{
		sampleInput(),
		{
			TotalRevenue: dec("10500.55"),
			Returns:      dec("33.40"),
			IncomeEntries: []models.IncomeEntry{
				{Amount: dec("100.25")},
				{Amount: dec("0.30")},
			},
			ExpenseEntries: []models.ExpenseEntry{
				{Amount: dec("49.99")},
			},
			Acquiring: dec("2000.10"),
			QRCode:    dec("15.45"),
			FactCash:  dec("8100"),
		},
		{FactCash: dec("100")},
	}

	for _, in := range inputs {
		result := Calculate(in)

		reconstructed := in.TotalRevenue.Sub(in.Returns).
			Add(result.TotalIncome).
			Sub(result.TotalExpenses).
			Sub(result.TotalAcquiring).
			Round(0)
		assert.True(t, result.CalculatedAmount.Equal(reconstructed),
			"calculated %s != reconstructed %s", result.CalculatedAmount, reconstructed)

		surplus := in.FactCash.Sub(result.CalculatedAmount).Round(0)
		assert.True(t, result.SurplusShortage.Equal(surplus))
	}
}

func TestCalculateRoundsHalfAwayFromZero(t *testing.T) {
	result := Calculate(Input{
		IncomeEntries: []models.IncomeEntry{{Amount: dec("10.5")}},
	})
	assert.True(t, result.TotalIncome.Equal(dec("11")), "got %s", result.TotalIncome)

	result = Calculate(Input{
		TotalRevenue: dec("0"),
		Returns:      dec("10.5"),
	})
	assert.True(t, result.CalculatedAmount.Equal(dec("-11")), "got %s", result.CalculatedAmount)
}

func TestCalculateDoesNotMutateInput(t *testing.T) {
	in := sampleInput()
	before := in.IncomeEntries[0].Amount.String()

	_ = Calculate(in)

	require.Equal(t, before, in.IncomeEntries[0].Amount.String())
}

func TestCalculateEmptyEntries(t *testing.T) {
	result := Calculate(Input{
		TotalRevenue: dec("1000"),
		FactCash:     dec("1000"),
	})

	assert.True(t, result.TotalIncome.IsZero())
	assert.True(t, result.TotalExpenses.IsZero())
	assert.True(t, result.TotalAcquiring.IsZero())
	assert.True(t, result.CalculatedAmount.Equal(dec("1000")))
	assert.True(t, result.SurplusShortage.IsZero())
}
