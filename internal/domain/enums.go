package domain

// Action is the upsert decision for one sync request
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	// SKIP is never produced by the planner; it marks items that reached no storefront call.
	ActionSkip Action = "SKIP"
)

// IsValid checks if the action is valid
func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionSkip:
		return true
	default:
		return false
	}
}

// MainCategory is the top-level storefront category derived from supplier taxonomy
type MainCategory string

const (
	MainCategoryNone      MainCategory = ""
	MainCategorySmartHome MainCategory = "Casa Inteligente"
	MainCategoryGadgets   MainCategory = "Gadgets"
)

// Outcome is the terminal state of one item in a run
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeUpdated   Outcome = "updated"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeUnmatched Outcome = "unmatched"
	OutcomeFailed    Outcome = "failed"
)

// IsValid checks if the outcome is valid
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeCreated, OutcomeUpdated, OutcomeSkipped, OutcomeUnmatched, OutcomeFailed:
		return true
	default:
		return false
	}
}
