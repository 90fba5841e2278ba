package domain

type TravelPace string

const (
	PaceRelaxed  TravelPace = "relaxed"
	PaceBalanced TravelPace = "balanced"
	PacePacked   TravelPace = "packed"
)

type Budget string

const (
	BudgetShoestring Budget = "shoestring"
	BudgetModerate   Budget = "moderate"
	BudgetLuxury     Budget = "luxury"
)

// ValidPaces is the canonical set of accepted pace strings.
var ValidPaces = map[string]bool{
	"relaxed": true, "balanced": true, "packed": true,
}

// ValidBudgets is the canonical set of accepted budget strings.
var ValidBudgets = map[string]bool{
	"shoestring": true, "moderate": true, "luxury": true,
}
