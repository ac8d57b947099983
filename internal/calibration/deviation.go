package calibration

// Deviation compares two of the record's time values. Percent is the change
// from From to To relative to From, in percent points; it is 0 when From is
// 0, since a relative deviation from zero has no meaning.
type Deviation struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	AbsMin  float64 `json:"abs_min"`
	Percent float64 `json:"percent"`
}

const (
	operandMachine = "machine_estimate"
	operandHuman   = "human_estimate"
	operandActual  = "actual"
)

// Deviations computes the pairwise deviation metrics for every pair whose
// operands are both present. Pairs with a missing operand are omitted, never
// defaulted to zero.
func (r Record) Deviations() []Deviation {
	type operand struct {
		name  string
		value *float64
	}
	operands := []operand{
		{operandMachine, r.MachineEstimateMin},
		{operandHuman, r.HumanEstimateMin},
		{operandActual, r.ActualMin},
	}

	out := make([]Deviation, 0, 3)
	for i := 0; i < len(operands); i++ {
		for j := i + 1; j < len(operands); j++ {
			from, to := operands[i], operands[j]
			if from.value == nil || to.value == nil {
				continue
			}
			d := Deviation{
				From:   from.name,
				To:     to.name,
				AbsMin: abs(*to.value - *from.value),
			}
			if *from.value != 0 {
				d.Percent = (*to.value - *from.value) / *from.value * 100
			}
			out = append(out, d)
		}
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
