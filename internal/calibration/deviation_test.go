package calibration

import (
	"math"
	"testing"
)

func fptr(v float64) *float64 { return &v }

func findDeviation(t *testing.T, devs []Deviation, from, to string) Deviation {
	t.Helper()
	for _, d := range devs {
		if d.From == from && d.To == to {
			return d
		}
	}
	t.Fatalf("missing deviation %s → %s in %+v", from, to, devs)
	return Deviation{}
}

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestDeviationsAllPairsPresent(t *testing.T) {
	rec := Record{
		MachineEstimateMin: fptr(40),
		HumanEstimateMin:   fptr(45),
		ActualMin:          fptr(48),
	}

	devs := rec.Deviations()
	if len(devs) != 3 {
		t.Fatalf("expected 3 pairs, got %+v", devs)
	}

	machineActual := findDeviation(t, devs, "machine_estimate", "actual")
	nearlyEqual(t, "machine→actual abs", machineActual.AbsMin, 8)
	nearlyEqual(t, "machine→actual percent", machineActual.Percent, 20)

	humanActual := findDeviation(t, devs, "human_estimate", "actual")
	nearlyEqual(t, "human→actual abs", humanActual.AbsMin, 3)
	nearlyEqual(t, "human→actual percent", humanActual.Percent, 100.0*3.0/45.0)

	machineHuman := findDeviation(t, devs, "machine_estimate", "human_estimate")
	nearlyEqual(t, "machine→human percent", machineHuman.Percent, 12.5)
}

func TestDeviationsOmitMissingOperands(t *testing.T) {
	rec := Record{MachineEstimateMin: fptr(40)}
	if devs := rec.Deviations(); len(devs) != 0 {
		t.Fatalf("single operand must produce no pairs, got %+v", devs)
	}

	rec.ActualMin = fptr(50)
	devs := rec.Deviations()
	if len(devs) != 1 {
		t.Fatalf("expected only machine→actual, got %+v", devs)
	}
	if devs[0].From != "machine_estimate" || devs[0].To != "actual" {
		t.Fatalf("unexpected pair: %+v", devs[0])
	}
}

func TestDeviationsNegativeDirection(t *testing.T) {
	rec := Record{MachineEstimateMin: fptr(60), ActualMin: fptr(45)}
	devs := rec.Deviations()

	d := findDeviation(t, devs, "machine_estimate", "actual")
	nearlyEqual(t, "abs", d.AbsMin, 15)
	nearlyEqual(t, "percent", d.Percent, -25)
}

func TestDeviationsZeroBase(t *testing.T) {
	rec := Record{MachineEstimateMin: fptr(0), ActualMin: fptr(10)}
	devs := rec.Deviations()

	d := findDeviation(t, devs, "machine_estimate", "actual")
	nearlyEqual(t, "abs", d.AbsMin, 10)
	nearlyEqual(t, "percent", d.Percent, 0)
}

func TestStatusAdvancesForwardOnly(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusNew, StatusEstimated, true},
		{StatusEstimated, StatusCalibrated, true},
		{StatusCalibrated, StatusVerified, true},
		{StatusNew, StatusVerified, true},
		{StatusVerified, StatusCalibrated, false},
		{StatusCalibrated, StatusEstimated, false},
		{StatusEstimated, StatusEstimated, false},
		{Status("bogus"), StatusVerified, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanAdvanceTo(tc.to); got != tc.want {
			t.Fatalf("CanAdvanceTo(%s → %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestRecordedMinPreference(t *testing.T) {
	rec := Record{}
	if _, ok := rec.RecordedMin(); ok {
		t.Fatal("empty record must report no recorded time")
	}

	rec.MachineEstimateMin = fptr(40)
	if v, _ := rec.RecordedMin(); v != 40 {
		t.Fatalf("expected machine estimate, got %v", v)
	}

	rec.HumanEstimateMin = fptr(45)
	if v, _ := rec.RecordedMin(); v != 45 {
		t.Fatalf("expected human estimate to win, got %v", v)
	}

	rec.ActualMin = fptr(48)
	if v, _ := rec.RecordedMin(); v != 48 {
		t.Fatalf("expected actual to win, got %v", v)
	}
}
