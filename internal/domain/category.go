package domain

// Category is the fixed set of transaction categories. Budgets and the
// transaction query engine only ever see values from this set; anything else
// is rejected at validation time.
type Category string

const (
	CategoryGeneral        Category = "general"
	CategoryBills          Category = "bills"
	CategoryGroceries      Category = "groceries"
	CategoryDiningOut      Category = "dining_out"
	CategoryTransportation Category = "transportation"
	CategoryEntertainment  Category = "entertainment"
	CategoryPersonalCare   Category = "personal_care"
	CategoryEducation      Category = "education"
	CategoryLifestyle      Category = "lifestyle"
	CategoryShopping       Category = "shopping"
)

// AllCategories lists every valid category in display order.
var AllCategories = []Category{
	CategoryGeneral,
	CategoryBills,
	CategoryGroceries,
	CategoryDiningOut,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryPersonalCare,
	CategoryEducation,
	CategoryLifestyle,
	CategoryShopping,
}

var validCategories = func() map[Category]struct{} {
	m := make(map[Category]struct{}, len(AllCategories))
	for _, c := range AllCategories {
		m[c] = struct{}{}
	}
	return m
}()

// IsValid reports whether c is a member of the fixed category set.
func (c Category) IsValid() bool {
	_, ok := validCategories[c]
	return ok
}
