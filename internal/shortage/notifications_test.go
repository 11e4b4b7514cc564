package shortage

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestBuildNotifications_ShortageMessageAlwaysFirst(t *testing.T) {
	event := Event{OrderID: "ORD-1001", LineID: 2}

	messages := buildNotifications(event, decimal.NewFromInt(4), ActionKeep, nil)
	require.NotEmpty(t, messages)
	require.Equal(t, "Order ORD-1001 line 2 flagged as short_pick (shortage 4.00 units).", messages[0])
}

func TestBuildNotifications_CommentIncludedWhenNonBlank(t *testing.T) {
	comment := "Last crate was damaged."
	event := Event{OrderID: "ORD-1001", LineID: 2, Comment: &comment}

	messages := buildNotifications(event, decimal.NewFromInt(1), ActionDelete, nil)
	require.Len(t, messages, 3)
	require.Equal(t, "Picker note: Last crate was damaged.", messages[1])
}

func TestBuildNotifications_BlankCommentSkipped(t *testing.T) {
	blank := "   "
	event := Event{OrderID: "ORD-1001", LineID: 2, Comment: &blank}

	messages := buildNotifications(event, decimal.NewFromInt(1), ActionDelete, nil)
	require.Len(t, messages, 2)
}

func TestBuildNotifications_ActionSpecificTail(t *testing.T) {
	event := Event{OrderID: "O1", LineID: 7}
	replacements := []ReplacementCandidate{{LineID: 3}, {LineID: 9}}

	replace := buildNotifications(event, decimal.NewFromInt(4), ActionReplace, replacements)
	require.Equal(t, "Prepared 2 replacement option(s) for Communication Orchestrator.", replace[len(replace)-1])

	del := buildNotifications(event, decimal.NewFromInt(4), ActionDelete, nil)
	require.Equal(t, "No replacements available; customer approval required to remove the item.", del[len(del)-1])

	keep := buildNotifications(event, decimal.Zero, ActionKeep, nil)
	require.Equal(t, "Shortage resolved during picking; no customer action required.", keep[len(keep)-1])
}

func TestBuildNotifications_TwoDecimalFormatting(t *testing.T) {
	event := Event{OrderID: "O1", LineID: 1}

	messages := buildNotifications(event, decimal.NewFromFloat(2.5), ActionDelete, nil)
	require.Contains(t, messages[0], "shortage 2.50 units")
}
