package finance

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// categoryAliases maps the English constant names to their persisted label.
var categoryAliases = map[string]ExpenseCategory{
	"RENT":     CategoryRent,
	"BILLS":    CategoryBills,
	"CAR":      CategoryCar,
	"SHOPPING": CategoryShopping,
	"CLOTHES":  CategoryClothes,
	"OUTINGS":  CategoryOutings,
	"LOANS":    CategoryLoans,
	"FAMILY":   CategoryFamily,
	"CHARITY":  CategoryCharity,
	"OTHER":    CategoryOther,
}

var recurrenceAliases = map[string]RecurrenceType{
	"MONTHLY": RecurrenceMonthly,
	"YEARLY":  RecurrenceYearly,
	"شهري":    RecurrenceMonthly,
	"سنوي":    RecurrenceYearly,
}

// ParseCategory resolves a label or constant name to a category. Labels are
// compared after NFC normalization so differently composed Arabic input matches.
func ParseCategory(s string) (ExpenseCategory, bool) {
	s = canonical(s)
	if s == "" {
		return "", false
	}
	for _, c := range Categories {
		if s == canonical(string(c)) {
			return c, true
		}
	}
	if c, ok := categoryAliases[strings.ToUpper(s)]; ok {
		return c, true
	}
	return "", false
}

// ParseRecurrenceType accepts MONTHLY/YEARLY in any case and the Darija
// labels written by older clients.
func ParseRecurrenceType(s string) (RecurrenceType, bool) {
	s = canonical(s)
	if rt, ok := recurrenceAliases[strings.ToUpper(s)]; ok {
		return rt, true
	}
	rt, ok := recurrenceAliases[s]
	return rt, ok
}

func canonical(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
