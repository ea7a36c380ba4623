package telemetry

// DefaultHistorySize is the number of samples kept per channel.
const DefaultHistorySize = 100

// Ring is a fixed-capacity FIFO buffer that evicts the oldest value.
type Ring struct {
	buf   []float64
	start int
	n     int
}

func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{buf: make([]float64, capacity)}
}

func (r *Ring) Push(v float64) {
	if r.n < len(r.buf) {
		r.buf[(r.start+r.n)%len(r.buf)] = v
		r.n++
		return
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % len(r.buf)
}

func (r *Ring) Len() int { return r.n }
func (r *Ring) Cap() int { return len(r.buf) }

// Values returns a copy ordered oldest first.
func (r *Ring) Values() []float64 {
	out := make([]float64, r.n)
	for i := 0; i < r.n; i++ {
		out[i] = r.buf[(r.start+i)%len(r.buf)]
	}
	return out
}

// Last returns the newest value, or 0 when empty.
func (r *Ring) Last() float64 {
	if r.n == 0 {
		return 0
	}
	return r.buf[(r.start+r.n-1)%len(r.buf)]
}

func (r *Ring) Reset() {
	r.start = 0
	r.n = 0
}

// History keeps four parallel channels appended in lockstep.
type History struct {
	RPM             *Ring
	Temperature     *Ring
	Horsepower      *Ring
	FuelConsumption *Ring
}

func NewHistory(size int) *History {
	return &History{
		RPM:             NewRing(size),
		Temperature:     NewRing(size),
		Horsepower:      NewRing(size),
		FuelConsumption: NewRing(size),
	}
}

func (h *History) Append(rpm, temperature, horsepower, fuel float64) {
	h.RPM.Push(rpm)
	h.Temperature.Push(temperature)
	h.Horsepower.Push(horsepower)
	h.FuelConsumption.Push(fuel)
}

func (h *History) Len() int { return h.RPM.Len() }

func (h *History) Reset() {
	h.RPM.Reset()
	h.Temperature.Reset()
	h.Horsepower.Reset()
	h.FuelConsumption.Reset()
}
