package model

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// FormatLKR renders an amount as Sri Lankan rupees with digit grouping,
// e.g. "LKR 1,234,567.89".
func FormatLKR(amount float64) string {
	return printer.Sprintf("LKR %v", number.Decimal(amount,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatKWh renders an energy amount with digit grouping, e.g. "4,033 kWh".
func FormatKWh(kwh float64) string {
	return printer.Sprintf("%v kWh", number.Decimal(kwh, number.MaxFractionDigits(0)))
}

// FormatPercent renders a fraction as a percentage, e.g. "61.1%".
func FormatPercent(fraction float64) string {
	return printer.Sprintf("%v%%", number.Decimal(fraction*100,
		number.MinFractionDigits(1), number.MaxFractionDigits(1)))
}
