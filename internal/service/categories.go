package service

// defaultCategories is the seed list of suggested category names created for
// every new family. Expenses store free-text categories, so this list is a
// UX affordance rather than an enforced taxonomy.
var defaultCategories = []string{
	"Groceries",
	"Restaurants & Takeout",
	"Coffee & Snacks",
	"Household Supplies",
	"Personal Care",
	"Clothing & Shoes",
	"Gas & Fuel",
	"Public Transportation",
	"Rideshare",
	"Parking & Tolls",
	"Vehicle Maintenance",
	"Vehicle Insurance",
	"Car Loan Payments",
	"Rent or Mortgage",
	"Electricity",
	"Water & Sewer",
	"Gas (Home)",
	"Internet",
	"Mobile Phone",
	"Home Maintenance & Repairs",
	"Property Taxes",
	"Home Insurance",
	"Health Insurance",
	"Doctor Visits",
	"Dental & Vision",
	"Medications",
	"Therapy & Mental Health",
	"Fitness",
	"Tuition & School Fees",
	"Books & Supplies",
	"Childcare & Babysitting",
	"Kids' Activities",
	"Office Supplies",
	"Software Subscriptions",
	"Freelance/Contractor Payments",
	"Business Travel",
	"Professional Services",
	"Loan Payments",
	"Credit Card Payments",
	"Bank Fees",
	"Savings & Investments",
	"Taxes",
	"Flights",
	"Hotels",
	"Vacation Spending",
	"Events & Activities",
	"Entertainment",
	"Subscriptions",
	"Gifts",
	"Charitable Donations",
	"Pet Food & Supplies",
	"Vet Visits",
	"Pet Insurance",
	"Grooming",
	"Postage & Shipping",
	"Legal Fees",
	"Other",
}

// DefaultCategories returns a copy of the seed category list.
func DefaultCategories() []string {
	out := make([]string, len(defaultCategories))
	copy(out, defaultCategories)
	return out
}
