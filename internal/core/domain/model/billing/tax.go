package billing

import (
	"fmt"

	"pos/internal/core/domain/model/kernel"
	"pos/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Tax is one entry of the outlet's tax schedule.
type Tax struct {
	ID   string          `yaml:"id"`
	Name string          `yaml:"name"`
	Rate decimal.Decimal `yaml:"rate"`
}

// TaxSchedule lists the taxes levied by an outlet, in display order.
type TaxSchedule []Tax

// Validate rejects negative rates and duplicate IDs.
func (s TaxSchedule) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for _, t := range s {
		if t.ID == "" {
			return errs.NewValueIsRequiredError("tax id")
		}
		if _, dup := seen[t.ID]; dup {
			return errs.NewValueIsInvalidErrorWithCause("tax schedule", fmt.Errorf("duplicate tax %q", t.ID))
		}
		seen[t.ID] = struct{}{}
		if err := kernel.NonNegative("tax rate", t.Rate); err != nil {
			return err
		}
	}
	return nil
}

// TaxLine is a computed tax amount.
type TaxLine struct {
	TaxID  string
	Name   string
	Rate   decimal.Decimal
	Amount decimal.Decimal
}

// Apply computes every tax independently on the same base.
func (s TaxSchedule) Apply(base decimal.Decimal) []TaxLine {
	lines := make([]TaxLine, 0, len(s))
	for _, t := range s {
		lines = append(lines, TaxLine{
			TaxID:  t.ID,
			Name:   t.Name,
			Rate:   t.Rate,
			Amount: kernel.Percent(base, t.Rate),
		})
	}
	return lines
}
