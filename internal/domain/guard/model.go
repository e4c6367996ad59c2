package guard

import (
	ierr "github.com/securecommand/securecommand/internal/errors"
	"github.com/securecommand/securecommand/internal/types"
)

// Guard is a security-personnel record. Active guards are the billable unit
// of the per-guard fee.
type Guard struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`

	types.BaseModel
}

func (g *Guard) Validate() error {
	if g.CompanyID == "" {
		return ierr.NewError("guard company_id is required").
			WithHint("Guard must belong to a company").
			Mark(ierr.ErrValidation)
	}
	if g.Name == "" {
		return ierr.NewError("guard name is required").
			WithHint("Guard name is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
