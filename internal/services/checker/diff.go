package checker

import "github.com/Houeta/storewatch/internal/models"

// DetectChanges compares two snapshots and finds the difference.
//
// An empty new snapshot against a non-empty old one yields no changes: it is
// read as a failed fetch, not as every product being removed. Within a
// snapshot the first record of a key wins and later duplicates are ignored.
// Added and Changed follow the new snapshot order, Removed the old one.
func DetectChanges(oldProducts, newProducts []models.Product) models.Changes {
	var changes models.Changes
	if len(newProducts) == 0 && len(oldProducts) > 0 {
		return changes
	}

	oldKeys := make([]string, 0, len(oldProducts))
	oldMap := make(map[string]models.Product, len(oldProducts))
	for _, p := range oldProducts {
		key := Key(p)
		if _, dup := oldMap[key]; dup {
			continue
		}
		oldMap[key] = p
		oldKeys = append(oldKeys, key)
	}

	seen := make(map[string]struct{}, len(newProducts))
	for _, newProduct := range newProducts {
		key := Key(newProduct)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		oldProduct, found := oldMap[key]
		if !found {
			changes.Added = append(changes.Added, newProduct)
			continue
		}
		if fields := diffFields(oldProduct, newProduct); len(fields) > 0 {
			changes.Changed = append(changes.Changed, models.ChangeInfo{
				Key:    key,
				Old:    oldProduct,
				New:    newProduct,
				Fields: fields,
			})
		}
		delete(oldMap, key)
	}

	for _, key := range oldKeys {
		if removedProduct, left := oldMap[key]; left {
			changes.Removed = append(changes.Removed, removedProduct)
		}
	}

	return changes
}

func diffFields(oldProduct, newProduct models.Product) []models.FieldDiff {
	pairs := [...]struct {
		field    string
		old, new string
	}{
		{models.FieldTitle, oldProduct.Title, newProduct.Title},
		{models.FieldPrice, oldProduct.Price, newProduct.Price},
		{models.FieldLink, oldProduct.Link, newProduct.Link},
		{models.FieldImage, oldProduct.Image, newProduct.Image},
		{models.FieldRating, oldProduct.Rating, newProduct.Rating},
	}

	var fields []models.FieldDiff
	for _, p := range pairs {
		if p.old != p.new {
			fields = append(fields, models.FieldDiff{Field: p.field, Old: p.old, New: p.new})
		}
	}

	return fields
}
