package clinic

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/siga-vet/go-clinic-repository/model"
)

// Clinical reference ranges enforced before any write.
var (
	HematocritRange = [2]float64{20, 60}
	HemoglobinRange = [2]float64{5, 20}
	DensityRange    = [2]float64{1.000, 1.050}
	PHRange         = [2]float64{4.5, 8.0}
)

type bound struct {
	field string
	value any
	rule  validation.Rule
}

func within(entity string, bounds ...bound) error {
	for _, b := range bounds {
		if err := validation.Validate(b.value, b.rule); err != nil {
			return model.Invalid(entity, b.field, err.Error(), b.value)
		}
	}
	return nil
}

func between(r [2]float64) validation.Rule {
	return model.Between(r[0], r[1])
}

// CheckHemogram applies the hematocrit and hemoglobin reference ranges.
func CheckHemogram(h model.Hemogram) error {
	return within("hemogram",
		bound{"hematocrit", h.Hematocrit, between(HematocritRange)},
		bound{"hemoglobin", h.Hemoglobin, between(HemoglobinRange)},
	)
}

// CheckUrinalysis applies the density and pH reference ranges.
func CheckUrinalysis(u model.Urinalysis) error {
	return within("urinalysis",
		bound{"density", u.Density, between(DensityRange)},
		bound{"ph", u.PH, between(PHRange)},
	)
}

// CheckClinicalChemistry rejects negative glucose and urea readings.
func CheckClinicalChemistry(c model.ClinicalChemistry) error {
	return within("clinical chemistry",
		bound{"glucose", c.Glucose, model.NonNegative},
		bound{"urea", c.Urea, model.NonNegative},
	)
}

// CheckReferral requires the referral date.
func CheckReferral(r model.Referral) error {
	return within("referral",
		bound{"date", r.Date, validation.Required.Error("date is required")},
	)
}

// CheckReturn requires the return date.
func CheckReturn(r model.Return) error {
	return within("return",
		bound{"date", r.Date, validation.Required.Error("date is required")},
	)
}
