package shortage

// Action is the closed set of outcomes for an order line with a shortage.
// It is the sole vocabulary shared by the picker and proactive rules.
type Action string

const (
	ActionKeep    Action = "KEEP"
	ActionReplace Action = "REPLACE"
	ActionDelete  Action = "DELETE"
)
