package vehicle

// PedalState holds accelerator and brake positions in percent.
type PedalState struct {
	Accelerator float64 `json:"accelerator" yaml:"accelerator"`
	Brake       float64 `json:"brake" yaml:"brake"`
}

func (p *PedalState) SetAccelerator(position float64) {
	p.Accelerator = clamp(position, 0, 100)
}

func (p *PedalState) SetBrake(position float64) {
	p.Brake = clamp(position, 0, 100)
}

// Throttle returns the accelerator as a [0,1] fraction.
func (p PedalState) Throttle() float64 {
	return clamp(p.Accelerator, 0, 100) / 100
}

// Clamped returns a copy with both pedals forced into [0,100].
func (p PedalState) Clamped() PedalState {
	p.SetAccelerator(p.Accelerator)
	p.SetBrake(p.Brake)
	return p
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
