package repositorycache

import "testing"

func TestToSnake(t *testing.T) {
	tests := map[string]string{
		"Hemogram":          "hemogram",
		"ClinicalChemistry": "clinical_chemistry",
		"Urinalysis":        "urinalysis",
		"HTTPServer":        "http_server",
		"Panel2":            "panel_2",
		"*model.Referral":   "model_referral",
		"":                  "",
	}
	for in, want := range tests {
		if got := toSnake(in); got != want {
			t.Errorf("toSnake(%q) = %q, want %q", in, got, want)
		}
	}
}
