// Package normalizer cleans raw custodian exports into sorted, typed records
package normalizer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/findosh/holdings/internal/models"
)

// Result is the outcome of a normalization run
type Result struct {
	Table   models.Table
	Log     models.ProcessingLog
	Removed int
}

// Normalize derives Account Info, cleans Value, remaps and sorts Asset
// Category. Each step runs only when its columns are present; a missing
// column is reported as a warning and the step is skipped. The input table
// is never modified.
func Normalize(t models.Table, policy *models.CategoryPolicy) Result {
	if policy == nil {
		policy = models.DefaultCategoryPolicy()
	}

	res := Result{Table: t.Clone()}

	res.Table = deriveAccountInfo(res.Table, &res.Log)
	res.Table, res.Removed = cleanValues(res.Table, &res.Log)
	res.Table = remapCategories(res.Table, &res.Log)
	res.Table = sortByCategory(res.Table, policy, &res.Log)

	return res
}

func deriveAccountInfo(t models.Table, log *models.ProcessingLog) models.Table {
	if !t.Has(models.ColAccountType, models.ColAccountNumber) {
		log.Add(models.SeverityWarning, fmt.Sprintf("'%s' and/or '%s' columns not found in the uploaded file.",
			models.ColAccountType, models.ColAccountNumber))
		return t
	}

	typeIdx := t.Index(models.ColAccountType)
	numIdx := t.Index(models.ColAccountNumber)
	out := t.WithColumn(models.ColAccountInfo, func(r models.Row) string {
		acctType, acctNum := strings.TrimSpace(r.At(typeIdx)), strings.TrimSpace(r.At(numIdx))
		if acctType == "" || acctNum == "" {
			return ""
		}
		return models.AccountInfo(acctType, acctNum)
	})

	log.Add(models.SeveritySuccess, fmt.Sprintf("'%s' column created in the format: %s (%s).",
		models.ColAccountInfo, models.ColAccountType, models.ColAccountNumber))
	return out
}

func cleanValues(t models.Table, log *models.ProcessingLog) (models.Table, int) {
	if !t.Has(models.ColValue) {
		log.Add(models.SeverityWarning, fmt.Sprintf("'%s' column not found in the uploaded file.", models.ColValue))
		return t, 0
	}

	idx := t.Index(models.ColValue)
	kept := t.Filter(func(r models.Row) bool {
		v, ok := ParseValue(r.At(idx))
		return ok && !v.IsZero()
	})
	for _, r := range kept.Rows {
		v, _ := ParseValue(r[idx])
		r[idx] = v.String()
	}

	removed := t.Len() - kept.Len()
	log.Add(models.SeverityInfo, fmt.Sprintf("Removed %d rows with non-numeric or zero '%s'.", removed, models.ColValue))
	return kept, removed
}

func remapCategories(t models.Table, log *models.ProcessingLog) models.Table {
	if !t.Has(models.ColAssetCategory) {
		log.Add(models.SeverityWarning, fmt.Sprintf("'%s' column not found in the uploaded file.", models.ColAssetCategory))
		return t
	}

	idx := t.Index(models.ColAssetCategory)
	out := t.WithColumn(models.ColAssetCategory, func(r models.Row) string {
		return models.Remap(r.At(idx))
	})

	log.Add(models.SeverityInfo, fmt.Sprintf("Replaced '%s' with '%s' in '%s' column.",
		models.CategoryUSSmallCap, models.CategoryUSEquity, models.ColAssetCategory))
	return out
}

func sortByCategory(t models.Table, policy *models.CategoryPolicy, log *models.ProcessingLog) models.Table {
	if !t.Has(models.ColAssetCategory) {
		log.Add(models.SeverityWarning, fmt.Sprintf("'%s' column not found in the uploaded file.", models.ColAssetCategory))
		return t
	}

	idx := t.Index(models.ColAssetCategory)
	out := t.Clone()
	sort.SliceStable(out.Rows, func(i, j int) bool {
		return policy.Less(out.Rows[i].At(idx), out.Rows[j].At(idx))
	})

	log.Add(models.SeverityInfo, fmt.Sprintf("Sorted by %s priority.", models.ColAssetCategory))
	return out
}
