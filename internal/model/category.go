// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"
)

// CategoryLabel identifies one spending category from the closed set.
type CategoryLabel string

// The closed category set. The engine must never emit a label outside it.
const (
	CategoryFoodDining     CategoryLabel = "Food & Dining"
	CategoryGroceries      CategoryLabel = "Groceries"
	CategoryTransportation CategoryLabel = "Transportation"
	CategoryShopping       CategoryLabel = "Shopping"
	CategoryBillsUtilities CategoryLabel = "Bills & Utilities"
	CategoryEntertainment  CategoryLabel = "Entertainment"
	CategoryHealthcare     CategoryLabel = "Healthcare"
	CategoryIncome         CategoryLabel = "Income"
	CategoryFees           CategoryLabel = "Fees"
	CategoryTransfer       CategoryLabel = "Transfer"
	CategoryOther          CategoryLabel = "Other"
	CategoryUncategorized  CategoryLabel = "Uncategorized"
)

// categoryDescriptions guide the inference service toward the intended use
// of each label.
var categoryDescriptions = map[CategoryLabel]string{
	CategoryFoodDining:     "Restaurants, coffee shops, food delivery, dining out",
	CategoryGroceries:      "Grocery stores, supermarkets, food shopping",
	CategoryTransportation: "Gas stations, rideshare, public transit, parking, car expenses",
	CategoryShopping:       "Retail purchases, online shopping, clothing, electronics",
	CategoryBillsUtilities: "Electric, water, internet, phone bills, utilities",
	CategoryEntertainment:  "Streaming services, movies, games, events, recreation",
	CategoryHealthcare:     "Medical, dental, pharmacy, health-related expenses",
	CategoryIncome:         "Salary deposits, interest, refunds, incoming payments",
	CategoryFees:           "Bank fees, penalties, service charges, maintenance fees",
	CategoryTransfer:       "Movements between accounts, ATM withdrawals, cash",
	CategoryOther:          "Transactions that don't clearly fit other categories",
	CategoryUncategorized:  "Sentinel for transactions no path could resolve",
}

// Categories returns the full closed set in display order.
func Categories() []CategoryLabel {
	return []CategoryLabel{
		CategoryFoodDining,
		CategoryGroceries,
		CategoryTransportation,
		CategoryShopping,
		CategoryBillsUtilities,
		CategoryEntertainment,
		CategoryHealthcare,
		CategoryIncome,
		CategoryFees,
		CategoryTransfer,
		CategoryOther,
		CategoryUncategorized,
	}
}

// InferenceCategories returns the labels the inference service may choose
// from. The Uncategorized sentinel is reserved for the fallback path and is
// never offered.
func InferenceCategories() []CategoryLabel {
	all := Categories()
	out := make([]CategoryLabel, 0, len(all)-1)
	for _, c := range all {
		if c != CategoryUncategorized {
			out = append(out, c)
		}
	}
	return out
}

// Valid reports whether the label belongs to the closed set.
func (c CategoryLabel) Valid() bool {
	_, ok := categoryDescriptions[c]
	return ok
}

// Description returns the guidance text for a label, empty for labels
// outside the closed set.
func (c CategoryLabel) Description() string {
	return categoryDescriptions[c]
}

// ParseCategory resolves a label string case-insensitively against the
// closed set.
func ParseCategory(s string) (CategoryLabel, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories() {
		if strings.ToLower(string(c)) == needle {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category: %q", s)
}
