// Package analytics aggregates cleaned holdings and cross-tabulates them by account
package analytics

import (
	"fmt"

	"github.com/findosh/holdings/internal/models"
)

// ColumnMode selects how accounts are identified in the aggregation key and
// in the pivot column labels
type ColumnMode string

const (
	// ColumnsDetailed keys accounts by Custodian, Account Type and Account Number
	ColumnsDetailed ColumnMode = "detailed"
	// ColumnsAccountInfo keys accounts by Custodian and the derived Account Info
	ColumnsAccountInfo ColumnMode = "account_info"
)

// ParseColumnMode validates a configured mode string
func ParseColumnMode(s string) (ColumnMode, error) {
	switch ColumnMode(s) {
	case ColumnsDetailed, ColumnsAccountInfo:
		return ColumnMode(s), nil
	case "":
		return ColumnsDetailed, nil
	}
	return "", fmt.Errorf("unknown pivot column mode %q: must be %q or %q", s, ColumnsDetailed, ColumnsAccountInfo)
}

// Options tunes aggregation and pivoting
type Options struct {
	Columns ColumnMode
	// DropNetZeroRows also removes pivot rows whose accounts offset each other
	// to a zero total, not only rows with no holdings at all.
	DropNetZeroRows bool
}

// Service provides holdings aggregation and pivot calculations
type Service struct {
	policy *models.CategoryPolicy
	opts   Options
}

// NewService creates a new analytics service
func NewService(policy *models.CategoryPolicy, opts Options) *Service {
	if policy == nil {
		policy = models.DefaultCategoryPolicy()
	}
	if opts.Columns == "" {
		opts.Columns = ColumnsDetailed
	}
	return &Service{policy: policy, opts: opts}
}

// Options returns the service configuration
func (s *Service) Options() Options {
	return s.opts
}

// Policy returns the category ordering in use
func (s *Service) Policy() *models.CategoryPolicy {
	return s.policy
}

// keyColumns lists the grouping key for the current mode
func (s *Service) keyColumns() []string {
	if s.opts.Columns == ColumnsAccountInfo {
		return []string{
			models.ColAssetCategory,
			models.ColName,
			models.ColTicker,
			models.ColCustodian,
			models.ColAccountInfo,
		}
	}
	return []string{
		models.ColAssetCategory,
		models.ColName,
		models.ColTicker,
		models.ColCustodian,
		models.ColAccountType,
		models.ColAccountNumber,
	}
}

// accountParts returns the account tuple of a holding for the current mode
func (s *Service) accountParts(h models.Holding) []string {
	if s.opts.Columns == ColumnsAccountInfo {
		return []string{h.Custodian, h.AccountInfo}
	}
	return []string{h.Custodian, h.AccountType, h.AccountNumber}
}
