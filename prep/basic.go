package prep

import "math"

// INC replaces each series by its stepwise increments
// [x1, x2-x1, ..., xn-x(n-1)]. With zero padding the first entry is 0
// instead of x1.
type INC struct {
	zeroPadding bool
}

// NewINC creates an increments preparateur.
func NewINC(zeroPadding bool) *INC {
	return &INC{zeroPadding: zeroPadding}
}

// Name returns "INC".
func (p *INC) Name() string { return "INC" }

// Fit is a no-op; increments carry no fitted state.
func (p *INC) Fit(x [][][]float64) error { return nil }

// Transform returns the increments of every series.
func (p *INC) Transform(x [][][]float64) ([][][]float64, error) {
	if timesteps(x) == 0 {
		return nil, ErrEmptyInput
	}

	out := alloc(len(x), len(x[0]), timesteps(x))

	for s := range x {
		for d := range x[s] {
			series := x[s][d]

			if p.zeroPadding {
				out[s][d][0] = 0
			} else {
				out[s][d][0] = series[0]
			}

			for t := 1; t < len(series); t++ {
				out[s][d][t] = series[t] - series[t-1]
			}
		}
	}

	return out, nil
}

// Copy returns a copy of the preparateur.
func (p *INC) Copy() Preparateur {
	return &INC{zeroPadding: p.zeroPadding}
}

// STD standardizes every series to zero mean and unit standard
// deviation, per sample and dimension. Constant series are centered
// only. The statistics are taken from the transformed dataset itself,
// so STD carries no fitted state.
type STD struct{}

// NewSTD creates a standardization preparateur.
func NewSTD() *STD { return &STD{} }

// Name returns "STD".
func (p *STD) Name() string { return "STD" }

// Fit is a no-op.
func (p *STD) Fit(x [][][]float64) error { return nil }

// Transform returns (x - mean) / std per series.
func (p *STD) Transform(x [][][]float64) ([][][]float64, error) {
	n := timesteps(x)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	out := alloc(len(x), len(x[0]), n)

	for s := range x {
		for d := range x[s] {
			series := x[s][d]

			mean := 0.0
			for _, v := range series {
				mean += v
			}
			mean /= float64(n)

			variance := 0.0
			for _, v := range series {
				variance += (v - mean) * (v - mean)
			}

			std := math.Sqrt(variance / float64(n))
			if std == 0 {
				std = 1
			}

			for t, v := range series {
				out[s][d][t] = (v - mean) / std
			}
		}
	}

	return out, nil
}

// Copy returns a copy of the preparateur.
func (p *STD) Copy() Preparateur { return &STD{} }

// ONE appends a constant-1 dimension to every sample, providing the
// empty-prefix channel explicitly.
type ONE struct{}

// NewONE creates the constant-dimension preparateur.
func NewONE() *ONE { return &ONE{} }

// Name returns "ONE".
func (p *ONE) Name() string { return "ONE" }

// Fit is a no-op.
func (p *ONE) Fit(x [][][]float64) error { return nil }

// Transform appends a dimension of ones to every sample.
func (p *ONE) Transform(x [][][]float64) ([][][]float64, error) {
	n := timesteps(x)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	out := make([][][]float64, len(x))

	for s := range x {
		out[s] = make([][]float64, len(x[s])+1)

		for d := range x[s] {
			out[s][d] = append([]float64(nil), x[s][d]...)
		}

		ones := make([]float64, n)
		for t := range ones {
			ones[t] = 1
		}

		out[s][len(x[s])] = ones
	}

	return out, nil
}

// Copy returns a copy of the preparateur.
func (p *ONE) Copy() Preparateur { return &ONE{} }

// LAG applies a lead-lag embedding: every dimension is replaced by a
// (lead, lag) pair of dimensions over 2n-1 timesteps, where the lead
// repeats each value after its first occurrence and the lag repeats it
// before. The embedding makes quadratic variation visible to words.
type LAG struct{}

// NewLAG creates the lead-lag preparateur.
func NewLAG() *LAG { return &LAG{} }

// Name returns "LAG".
func (p *LAG) Name() string { return "LAG" }

// Fit is a no-op.
func (p *LAG) Fit(x [][][]float64) error { return nil }

// Transform returns the lead-lag embedded dataset of shape
// (samples x 2*dims x 2n-1).
func (p *LAG) Transform(x [][][]float64) ([][][]float64, error) {
	n := timesteps(x)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	out := alloc(len(x), 2*len(x[0]), 2*n-1)

	for s := range x {
		for d := range x[s] {
			series := x[s][d]
			lead := out[s][2*d]
			lag := out[s][2*d+1]

			for j := 0; j < 2*n-1; j++ {
				lead[j] = series[(j+1)/2]
				lag[j] = series[j/2]
			}
		}
	}

	return out, nil
}

// Copy returns a copy of the preparateur.
func (p *LAG) Copy() Preparateur { return &LAG{} }

// MAV replaces every series by its moving average. The window is given
// either as an absolute width (>= 1) or as a fraction of the series
// length in (0, 1), resolved during Fit. Entries before the first full
// window pass through unchanged.
type MAV struct {
	window float64
	width  int // resolved during Fit; 0 = unfitted
}

// NewMAV creates a moving-average preparateur. window must be a
// fraction in (0, 1) or an absolute width >= 1.
func NewMAV(window float64) (*MAV, error) {
	if window <= 0 {
		return nil, ErrOption
	}

	if window >= 1 && window != math.Trunc(window) {
		return nil, ErrOption
	}

	return &MAV{window: window}, nil
}

// Name returns "MAV".
func (p *MAV) Name() string { return "MAV" }

// Fit resolves the window width against the series length.
func (p *MAV) Fit(x [][][]float64) error {
	n := timesteps(x)
	if n == 0 {
		return ErrEmptyInput
	}

	if p.window < 1 {
		p.width = int(p.window * float64(n))
		if p.width < 1 {
			p.width = 1
		}
	} else {
		p.width = int(p.window)
		if p.width > n {
			p.width = n
		}
	}

	return nil
}

// Transform returns the moving averages of every series.
func (p *MAV) Transform(x [][][]float64) ([][][]float64, error) {
	if p.width == 0 {
		return nil, ErrNotFitted
	}

	n := timesteps(x)
	if n == 0 {
		return nil, ErrEmptyInput
	}

	out := alloc(len(x), len(x[0]), n)
	w := p.width

	for s := range x {
		for d := range x[s] {
			series := x[s][d]

			window := 0.0
			for t, v := range series {
				window += v
				if t >= w {
					window -= series[t-w]
				}

				if t >= w-1 {
					out[s][d][t] = window / float64(w)
				} else {
					out[s][d][t] = v
				}
			}
		}
	}

	return out, nil
}

// Copy returns an unfitted copy of the preparateur.
func (p *MAV) Copy() Preparateur {
	return &MAV{window: p.window}
}
