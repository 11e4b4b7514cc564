package shortage

import (
	"github.com/shopspring/decimal"

	"order-fulfilment-service/internal/models"
)

// minimalQuantityKeepThreshold is the fixed policy bound for the proactive
// rule: shortages at or below one unit are absorbed without substitution.
// Not configurable.
var minimalQuantityKeepThreshold = decimal.NewFromInt(1)

// decidePickerAction applies the picker-shortage rule. It deliberately
// ignores whether the resolved replacement quantities cover the shortage;
// only replacement availability matters (partial replacement is acceptable,
// pending product clarification).
func decidePickerAction(shortageQty decimal.Decimal, replacements []ReplacementCandidate) Action {
	switch {
	case shortageQty.Sign() <= 0:
		return ActionKeep
	case len(replacements) > 0:
		return ActionReplace
	default:
		return ActionDelete
	}
}

// decideProactive applies the proactive rule to a single item. replacement is
// the stock record the item's "to" reference resolved to, or nil when the
// item has no "to" reference or it did not resolve.
func decideProactive(item ProactiveItem, replacement *models.WarehouseItem) Decision {
	if replacement != nil {
		requested := item.From.Qty
		if item.To != nil && item.To.Qty != nil {
			requested = *item.To.Qty
		}
		replacementQty := decimal.Min(replacement.Qty, requested)
		if replacementQty.Sign() < 0 {
			replacementQty = decimal.Zero
		}
		return Decision{
			LineID:         item.From.LineID,
			Action:         ActionReplace,
			ReplacementQty: &replacementQty,
		}
	}

	if item.From.Qty.LessThanOrEqual(minimalQuantityKeepThreshold) {
		return Decision{LineID: item.From.LineID, Action: ActionKeep}
	}

	return Decision{LineID: item.From.LineID, Action: ActionDelete}
}
