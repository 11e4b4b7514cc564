package shortage

import "github.com/shopspring/decimal"

// Event is a shortage reported by a warehouse picker.
type Event struct {
	OrderID     string
	LineID      int
	ProductCode string
	ExpectedQty decimal.Decimal
	PickedQty   decimal.Decimal
	PickerID    *string
	Comment     *string
}

// ReplacementCandidate is a projection of a warehouse item proposed as a
// substitute for a short-picked line.
type ReplacementCandidate struct {
	LineID       int
	ProductCode  string
	Name         string
	AvailableQty decimal.Decimal
	Unit         string
}

// PickShortageResult is the outcome of registering a picker shortage.
type PickShortageResult struct {
	OrderID       string
	LineID        int
	ShortageQty   decimal.Decimal
	Action        Action
	Replacements  []ReplacementCandidate
	Notifications []string
}

// LineRef identifies an order line together with the quantity in question.
type LineRef struct {
	LineID int
	Qty    decimal.Decimal
}

// TargetRef is an optional replacement reference in a proactive item. Qty is
// the requested replacement quantity; when nil the "from" quantity is used.
type TargetRef struct {
	LineID int
	Qty    *decimal.Decimal
}

// ProactiveItem describes one hypothetical substitution to evaluate.
type ProactiveItem struct {
	From LineRef
	To   *TargetRef
}

// Decision is the recommendation for one proactive item. ReplacementQty is
// set only for REPLACE.
type Decision struct {
	LineID         int
	Action         Action
	ReplacementQty *decimal.Decimal
}
