package performance

import "testing"

func Test_ComputeTrend(t *testing.T) {
	tests := []struct {
		name       string
		current    float64
		previous   float64
		wantDir    string
		wantChange float64
	}{
		{name: "no prior period", current: 120, previous: 0, wantDir: TrendNeutral, wantChange: 0},
		{name: "both zero", current: 0, previous: 0, wantDir: TrendNeutral, wantChange: 0},
		{name: "up 20 percent", current: 120, previous: 100, wantDir: TrendUp, wantChange: 20},
		{name: "down reports magnitude", current: 80, previous: 100, wantDir: TrendDown, wantChange: 20},
		{name: "flat", current: 100, previous: 100, wantDir: TrendNeutral, wantChange: 0},
		{name: "drop to zero", current: 0, previous: 50, wantDir: TrendDown, wantChange: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trend := ComputeTrend(tt.current, tt.previous)
			if trend.Direction != tt.wantDir {
				t.Errorf("Direction = %s; want %s", trend.Direction, tt.wantDir)
			}
			if trend.PercentChange != tt.wantChange {
				t.Errorf("PercentChange = %v; want %v", trend.PercentChange, tt.wantChange)
			}
		})
	}
}

func Test_Classify(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		target float64
		want   string
	}{
		{name: "at target", value: 120, target: 120, want: BandOnTarget},
		{name: "above target", value: 150, target: 120, want: BandOnTarget},
		{name: "within close band", value: 100, target: 120, want: BandClose},
		{name: "at 80 percent boundary", value: 96, target: 120, want: BandClose},
		{name: "below close band", value: 90, target: 120, want: BandBelowTarget},
		{name: "zero value", value: 0, target: 120, want: BandBelowTarget},
		{name: "zero target is not held to anything", value: 0, target: 0, want: BandOnTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.value, tt.target); got != tt.want {
				t.Errorf("Classify(%v, %v) = %s; want %s", tt.value, tt.target, got, tt.want)
			}
		})
	}
}

func Test_Summarize(t *testing.T) {
	snaps := []Snapshot{
		{DailyDials: 125, ContactRate: 20, InspectionsSet: 7, InspectionToDealRate: 40},
		{DailyDials: 110, ContactRate: 16, InspectionsSet: 5, InspectionToDealRate: 30},
		{DailyDials: 98, ContactRate: 18, InspectionsSet: 6, InspectionToDealRate: 35},
	}

	t.Run("short history averages over covered days", func(t *testing.T) {
		sum, err := Summarize(snaps, 7)
		if err != nil {
			t.Fatalf("Summarize() failed: %v", err)
		}
		if sum.Days != 3 {
			t.Errorf("Days = %d; want 3", sum.Days)
		}
		if sum.TotalDials != 333 {
			t.Errorf("TotalDials = %d; want 333", sum.TotalDials)
		}
		if sum.TotalInspections != 18 {
			t.Errorf("TotalInspections = %d; want 18", sum.TotalInspections)
		}
		if sum.AvgContactRate != 18 {
			t.Errorf("AvgContactRate = %v; want 18", sum.AvgContactRate)
		}
		if sum.AvgInspectionToDealRate != 35 {
			t.Errorf("AvgInspectionToDealRate = %v; want 35", sum.AvgInspectionToDealRate)
		}
	})

	t.Run("window truncates older snapshots", func(t *testing.T) {
		sum, err := Summarize(snaps, 2)
		if err != nil {
			t.Fatalf("Summarize() failed: %v", err)
		}
		if sum.Days != 2 || sum.TotalDials != 235 {
			t.Errorf("sum = %+v; want 2 days, 235 dials", sum)
		}
	})

	t.Run("empty history", func(t *testing.T) {
		sum, err := Summarize(nil, 7)
		if err != nil {
			t.Fatalf("Summarize() failed: %v", err)
		}
		if sum != (Summary{}) {
			t.Errorf("sum = %+v; want zero Summary", sum)
		}
	})

	t.Run("bad window size", func(t *testing.T) {
		if _, err := Summarize(snaps, 0); err == nil {
			t.Error("Summarize() expected error for zero window")
		}
	})
}
