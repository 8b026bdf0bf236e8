package model

import "github.com/uptrace/bun"

// Hemogram is a complete blood count attached to one consultation.
type Hemogram struct {
	bun.BaseModel `bun:"table:hemograma,alias:h" json:"-"`
	Base
	ConsultationID int64   `bun:"consulta_id,notnull" json:"consultation_id"`
	Hematocrit     float64 `bun:"hematocrito" json:"hematocrit"`
	Hemoglobin     float64 `bun:"hemoglobina" json:"hemoglobin"`
	Leukocytes     float64 `bun:"leucocitos" json:"leukocytes"`
	Erythrocytes   float64 `bun:"eritrocitos" json:"erythrocytes"`
	Notes          string  `bun:"observaciones" json:"notes"`
}

// Validate implements the record contract.
func (h Hemogram) Validate() error {
	return firstFailure("hemogram",
		field("consultation_id", h.ConsultationID, required("consultation")),
		field("hematocrit", h.Hematocrit, NonNegative),
		field("hemoglobin", h.Hemoglobin, NonNegative),
		field("leukocytes", h.Leukocytes, NonNegative),
		field("erythrocytes", h.Erythrocytes, NonNegative),
	)
}

// ClinicalChemistry is a serum chemistry panel attached to one consultation.
type ClinicalChemistry struct {
	bun.BaseModel `bun:"table:quimica_clinica,alias:q" json:"-"`
	Base
	ConsultationID int64   `bun:"consulta_id,notnull" json:"consultation_id"`
	Glucose        float64 `bun:"glucosa" json:"glucose"`
	Urea           float64 `bun:"urea" json:"urea"`
	Creatinine     float64 `bun:"creatinina" json:"creatinine"`
	Cholesterol    float64 `bun:"colesterol" json:"cholesterol"`
	Triglycerides  float64 `bun:"trigliceridos" json:"triglycerides"`
	ALT            float64 `bun:"alt" json:"alt"`
	AST            float64 `bun:"ast" json:"ast"`
	Notes          string  `bun:"observaciones" json:"notes"`
}

// Validate implements the record contract.
func (c ClinicalChemistry) Validate() error {
	return firstFailure("clinical chemistry",
		field("consultation_id", c.ConsultationID, required("consultation")),
		field("creatinine", c.Creatinine, NonNegative),
		field("cholesterol", c.Cholesterol, NonNegative),
		field("triglycerides", c.Triglycerides, NonNegative),
		field("alt", c.ALT, NonNegative),
		field("ast", c.AST, NonNegative),
	)
}

// Urinalysis is a urine panel attached to one consultation. Only density
// and pH are numeric; the remaining findings are free text.
type Urinalysis struct {
	bun.BaseModel `bun:"table:urianalisis,alias:u" json:"-"`
	Base
	ConsultationID int64   `bun:"consulta_id,notnull" json:"consultation_id"`
	Density        float64 `bun:"densidad" json:"density"`
	PH             float64 `bun:"ph" json:"ph"`
	Proteins       string  `bun:"proteinas" json:"proteins"`
	Glucose        string  `bun:"glucosa" json:"glucose"`
	Ketones        string  `bun:"cetonas" json:"ketones"`
	Blood          string  `bun:"sangre" json:"blood"`
	Nitrites       string  `bun:"nitritos" json:"nitrites"`
	Leukocytes     string  `bun:"leucocitos" json:"leukocytes"`
	Color          string  `bun:"color" json:"color"`
	Appearance     string  `bun:"aspecto" json:"appearance"`
	Notes          string  `bun:"observaciones" json:"notes"`
}

// Validate implements the record contract.
func (u Urinalysis) Validate() error {
	return firstFailure("urinalysis",
		field("consultation_id", u.ConsultationID, required("consultation")),
		field("density", u.Density, NonNegative),
		field("ph", u.PH, Between(0, 14)),
	)
}
