package clinic

import (
	"testing"
	"time"

	"github.com/siga-vet/go-clinic-repository/model"
)

func TestDayRange(t *testing.T) {
	art := time.FixedZone("ART", -3*60*60)

	tests := []struct {
		name      string
		from, to  time.Time
		wantStart time.Time
		wantEnd   time.Time
		wantErr   bool
	}{
		{
			name:      "single day",
			from:      time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC),
			to:        time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
			wantStart: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "month end",
			from:      time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			to:        time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC),
			wantStart: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "offset zone is read in UTC",
			from:      time.Date(2025, 3, 1, 22, 0, 0, 0, art),
			to:        time.Date(2025, 3, 1, 22, 0, 0, 0, art),
			wantStart: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "inverted",
			from:    time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
			to:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := dayRange(tt.from, tt.to)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("dayRange() error = %v", err)
			}
			if !start.Equal(tt.wantStart) || !end.Equal(tt.wantEnd) {
				t.Errorf("dayRange() = [%v, %v), want [%v, %v)", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestSatelliteChoosesExactlyOneRow(t *testing.T) {
	tests := []struct {
		name      string
		variant   model.Variant
		wantLarge bool
		wantSmall bool
	}{
		{"large", model.LargeAnimal{RegistrationNumber: "R1", Purpose: "dairy"}, true, false},
		{"large pointer", &model.LargeAnimal{RegistrationNumber: "R1", Purpose: "dairy"}, true, false},
		{"small", model.SmallAnimal{Sterilized: model.Bool(true)}, false, true},
		{"small pointer", &model.SmallAnimal{Sterilized: model.Bool(false)}, false, true},
		{"none", nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			large, small := satellite(7, tt.variant)
			if (large != nil) != tt.wantLarge || (small != nil) != tt.wantSmall {
				t.Fatalf("satellite() = %v, %v", large, small)
			}
			if large != nil && large.AnimalID != 7 {
				t.Errorf("expected animal id 7, got %d", large.AnimalID)
			}
			if small != nil && small.AnimalID != 7 {
				t.Errorf("expected animal id 7, got %d", small.AnimalID)
			}
		})
	}
}
