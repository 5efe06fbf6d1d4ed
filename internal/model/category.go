package model

// Category is one of the fixed set of spending categories an expense can be
// classified into. The zero value means "not yet classified".
type Category string

// The closed category vocabulary. The oracle is instructed to answer with one
// of these; anything else is coerced to CategoryOther at the parse edge.
const (
	CategoryFoodDining    Category = "Food & Dining"
	CategoryGroceries     Category = "Groceries"
	CategoryRent          Category = "Rent"
	CategoryUtilities     Category = "Utilities"
	CategoryTransport     Category = "Transport"
	CategoryTravel        Category = "Travel"
	CategoryEntertainment Category = "Entertainment"
	CategoryShopping      Category = "Shopping"
	CategoryHealth        Category = "Health"
	CategoryFitness       Category = "Fitness"
	CategorySubscriptions Category = "Subscriptions"
	CategoryOther         Category = "Other"
)

// UncategorizedLabel is the synthetic bucket name used by summaries for
// records with no classification. It is never written back to a record.
const UncategorizedLabel = "Uncategorized"

var allCategories = []Category{
	CategoryFoodDining,
	CategoryGroceries,
	CategoryRent,
	CategoryUtilities,
	CategoryTransport,
	CategoryTravel,
	CategoryEntertainment,
	CategoryShopping,
	CategoryHealth,
	CategoryFitness,
	CategorySubscriptions,
	CategoryOther,
}

// AllCategories returns the full category vocabulary in display order.
func AllCategories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// ParseCategory maps a raw string onto the closed vocabulary. The boolean
// reports whether the string was a member of the set.
func ParseCategory(s string) (Category, bool) {
	for _, c := range allCategories {
		if string(c) == s {
			return c, true
		}
	}
	return CategoryOther, false
}

// IsValid reports whether the category is a member of the fixed set.
func (c Category) IsValid() bool {
	_, ok := ParseCategory(string(c))
	return ok
}

func (c Category) String() string {
	return string(c)
}
