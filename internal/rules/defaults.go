package rules

import "github.com/spendlens/spendlens/internal/model"

// defaultFragments is the built-in merchant keyword table. It covers the
// obvious merchants so the bulk of a statement never reaches paid inference.
var defaultFragments = map[model.CategoryLabel][]string{
	model.CategoryFoodDining: {
		// Coffee and fast food
		"starbucks", "dunkin", "dunkin donuts", "coffee", "cafe",
		"mcdonalds", "burger king", "subway", "kfc", "taco bell",
		"chipotle", "panera", "panda express", "pizza hut", "dominos",
		// Restaurants
		"restaurant", "bistro", "grill", "kitchen", "diner", "eatery",
		"food truck", "catering", "bakery",
		// Delivery
		"uber eats", "doordash", "grubhub", "postmates", "food delivery",
	},
	model.CategoryGroceries: {
		"walmart", "target", "costco", "sams club", "sam's club",
		"kroger", "safeway", "publix", "wegmans", "giant", "stop shop",
		"whole foods", "trader joe", "aldi", "food lion", "harris teeter",
		"market", "grocery", "supermarket", "supercenter", "food store",
	},
	model.CategoryTransportation: {
		// Gas stations
		"shell", "exxon", "chevron", "bp", "mobil", "citgo", "arco",
		"gas station", "fuel", "gasoline", "petrol",
		// Rideshare and transit
		"uber", "lyft", "taxi", "cab", "rideshare",
		"metro", "mta", "transit", "bus", "train",
		"parking", "garage", "meter",
		// Travel
		"airline", "airport", "flight", "car rental", "hertz", "enterprise",
	},
	model.CategoryShopping: {
		"amazon", "ebay", "etsy", "best buy", "apple store", "microsoft",
		"home depot", "lowes", "macys", "kohls", "tj maxx", "marshalls",
		"ross", "old navy", "gap", "nike", "adidas", "mall", "outlet",
	},
	model.CategoryBillsUtilities: {
		"electric", "power", "energy", "utility", "water", "sewer",
		"gas bill", "internet", "cable", "phone", "wireless",
		"verizon", "att", "at&t", "comcast", "spectrum", "xfinity",
		"municipal", "city of", "county of",
	},
	model.CategoryEntertainment: {
		"netflix", "spotify", "hulu", "disney", "amazon prime",
		"apple music", "youtube", "gaming", "steam", "playstation",
		"xbox", "nintendo", "movie", "theater", "cinema", "concert",
	},
	model.CategoryHealthcare: {
		"cvs", "walgreens", "rite aid", "pharmacy", "medical",
		"doctor", "dentist", "hospital", "clinic", "health",
	},
	model.CategoryTransfer: {
		"atm", "withdrawal", "cash advance", "cash back", "cashout",
	},
	model.CategoryIncome: {
		"direct deposit", "salary", "payroll", "interest", "dividend",
		"refund", "tax refund", "deposit",
	},
	model.CategoryFees: {
		"fee", "charge", "penalty", "overdraft", "maintenance",
		"service charge", "atm fee",
	},
}

// DefaultRules returns the built-in merchant rules.
func DefaultRules() []Rule {
	var out []Rule
	for category, fragments := range defaultFragments {
		for _, fragment := range fragments {
			out = append(out, Rule{Fragment: fragment, Category: category})
		}
	}
	return out
}
