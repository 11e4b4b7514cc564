package shortage

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// buildNotifications composes the ordered, human-readable messages handed to
// downstream customer communication. At least one message is always produced
// and exactly one action-specific message closes the sequence.
func buildNotifications(event Event, shortageQty decimal.Decimal, action Action, replacements []ReplacementCandidate) []string {
	messages := []string{
		fmt.Sprintf("Order %s line %d flagged as short_pick (shortage %s units).",
			event.OrderID, event.LineID, shortageQty.StringFixed(2)),
	}

	if event.Comment != nil && strings.TrimSpace(*event.Comment) != "" {
		messages = append(messages, "Picker note: "+*event.Comment)
	}

	switch action {
	case ActionReplace:
		messages = append(messages, fmt.Sprintf("Prepared %d replacement option(s) for Communication Orchestrator.", len(replacements)))
	case ActionDelete:
		messages = append(messages, "No replacements available; customer approval required to remove the item.")
	case ActionKeep:
		messages = append(messages, "Shortage resolved during picking; no customer action required.")
	}

	return messages
}
