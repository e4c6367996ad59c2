package types

import (
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/samber/lo"
)

const (
	FilterDefaultLimit = 50
	FilterMaxLimit     = 1000
)

// QueryFilter carries the common pagination and soft-delete filtering options.
type QueryFilter struct {
	Limit  *int    `json:"limit,omitempty" form:"limit"`
	Offset *int    `json:"offset,omitempty" form:"offset"`
	Status *Status `json:"status,omitempty" form:"status"`
	Sort   *string `json:"sort,omitempty" form:"sort"`
	Order  *string `json:"order,omitempty" form:"order"`
}

// NewDefaultQueryFilter returns a filter with the default page size and
// published-only visibility.
func NewDefaultQueryFilter() *QueryFilter {
	return &QueryFilter{
		Limit:  lo.ToPtr(FilterDefaultLimit),
		Offset: lo.ToPtr(0),
		Status: lo.ToPtr(StatusPublished),
	}
}

// NewNoLimitQueryFilter returns a filter without pagination, for internal
// bulk reads.
func NewNoLimitQueryFilter() *QueryFilter {
	return &QueryFilter{
		Status: lo.ToPtr(StatusPublished),
	}
}

func (f *QueryFilter) GetLimit() int {
	if f == nil || f.Limit == nil {
		return FilterDefaultLimit
	}
	return *f.Limit
}

func (f *QueryFilter) GetOffset() int {
	if f == nil || f.Offset == nil {
		return 0
	}
	return *f.Offset
}

func (f *QueryFilter) GetStatus() Status {
	if f == nil || f.Status == nil {
		return StatusPublished
	}
	return *f.Status
}

func (f *QueryFilter) GetOrder() string {
	if f == nil || f.Order == nil {
		return "desc"
	}
	return *f.Order
}

func (f *QueryFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.Limit != nil && (*f.Limit < 1 || *f.Limit > FilterMaxLimit) {
		return ierr.NewErrorf("limit must be between 1 and %d", FilterMaxLimit).
			WithHintf("Limit must be between 1 and %d", FilterMaxLimit).
			Mark(ierr.ErrValidation)
	}
	if f.Offset != nil && *f.Offset < 0 {
		return ierr.NewError("offset must be non negative").
			WithHint("Offset must be non negative").
			Mark(ierr.ErrValidation)
	}
	if f.Status != nil {
		if err := f.Status.Validate(); err != nil {
			return err
		}
	}
	if f.Order != nil && *f.Order != "asc" && *f.Order != "desc" {
		return ierr.NewErrorf("invalid order: %s", *f.Order).
			WithHint("Order must be asc or desc").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PlanFilter filters pricing plan lists.
type PlanFilter struct {
	*QueryFilter
	ActiveOnly   bool    `json:"active_only,omitempty" form:"active_only"`
	FeaturedOnly bool    `json:"featured_only,omitempty" form:"featured_only"`
	Currency     *string `json:"currency,omitempty" form:"currency"`
}

func NewPlanFilter() *PlanFilter {
	return &PlanFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *PlanFilter) Validate() error {
	if f == nil {
		return nil
	}
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	if f.Currency != nil && !IsSupportedCurrency(*f.Currency) {
		return ierr.NewErrorf("unsupported currency: %s", *f.Currency).
			WithReportableDetails(map[string]any{
				"supported": SupportedCurrencies,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CompanyFilter filters company lists.
type CompanyFilter struct {
	*QueryFilter
	ActiveOnly bool    `json:"active_only,omitempty" form:"active_only"`
	PlanID     *string `json:"plan_id,omitempty" form:"plan_id"`
}

func NewCompanyFilter() *CompanyFilter {
	return &CompanyFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *CompanyFilter) Validate() error {
	if f == nil {
		return nil
	}
	return f.QueryFilter.Validate()
}

// InvoiceFilter filters invoice lists.
type InvoiceFilter struct {
	*QueryFilter
	CompanyID     *string        `json:"company_id,omitempty" form:"company_id"`
	InvoiceStatus *InvoiceStatus `json:"invoice_status,omitempty" form:"invoice_status"`
}

func NewInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *InvoiceFilter) Validate() error {
	if f == nil {
		return nil
	}
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	if f.InvoiceStatus != nil {
		if err := f.InvoiceStatus.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// GuardFilter filters guard roster lists.
type GuardFilter struct {
	*QueryFilter
	CompanyID  *string `json:"company_id,omitempty" form:"company_id"`
	ActiveOnly bool    `json:"active_only,omitempty" form:"active_only"`
}

func NewGuardFilter() *GuardFilter {
	return &GuardFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *GuardFilter) Validate() error {
	if f == nil {
		return nil
	}
	return f.QueryFilter.Validate()
}

// PaginationResponse is returned alongside paginated lists.
type PaginationResponse struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func NewPaginationResponse(total, limit, offset int) PaginationResponse {
	return PaginationResponse{Total: total, Limit: limit, Offset: offset}
}

// ListResponse is the generic envelope for list endpoints.
type ListResponse[T any] struct {
	Items      []T                `json:"items"`
	Pagination PaginationResponse `json:"pagination"`
}
