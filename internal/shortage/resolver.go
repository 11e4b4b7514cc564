package shortage

import (
	"context"

	"order-fulfilment-service/internal/models"
)

// resolveReplacements maps suggested candidate line ids to full replacement
// descriptors. Ids are de-duplicated keeping first-occurrence order, ids with
// no warehouse record are silently omitted, and an empty input returns
// without touching the store.
func (s *Service) resolveReplacements(ctx context.Context, lineIDs []int) ([]ReplacementCandidate, error) {
	if len(lineIDs) == 0 {
		return nil, nil
	}

	seen := make(map[int]struct{}, len(lineIDs))
	distinct := make([]int, 0, len(lineIDs))
	for _, id := range lineIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}

	items, err := s.warehouse.FindBatch(ctx, distinct)
	if err != nil {
		return nil, err
	}

	byLineID := make(map[int]models.WarehouseItem, len(items))
	for _, item := range items {
		byLineID[item.LineID] = item
	}

	replacements := make([]ReplacementCandidate, 0, len(distinct))
	for _, id := range distinct {
		item, ok := byLineID[id]
		if !ok {
			continue
		}
		replacements = append(replacements, ReplacementCandidate{
			LineID:       item.LineID,
			ProductCode:  item.ProductCode,
			Name:         item.Name,
			AvailableQty: item.Qty,
			Unit:         item.Unit,
		})
	}

	return replacements, nil
}
