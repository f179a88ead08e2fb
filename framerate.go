package camemu

import "strconv"

// FrameRate is the guest frame-rate code. Most codes are the rate in frames
// per second; 3 and 7 stand for 3.75 and 7.5 fps.
type FrameRate int32

const (
	FrameRate3   FrameRate = 3 // 3.75 fps
	FrameRate5   FrameRate = 5
	FrameRate7   FrameRate = 7 // 7.5 fps
	FrameRate10  FrameRate = 10
	FrameRate15  FrameRate = 15
	FrameRate20  FrameRate = 20
	FrameRate24  FrameRate = 24
	FrameRate25  FrameRate = 25
	FrameRate30  FrameRate = 30
	FrameRate60  FrameRate = 60
	FrameRate120 FrameRate = 120

	// DefaultFrameRate is used for codes that are not in the table.
	DefaultFrameRate = FrameRate30
)

// ratio is a frame rate kept as numerator/denominator so that fractional
// rates are exact.
type ratio struct {
	num, den int64
}

var frameRateTable = map[FrameRate]ratio{
	FrameRate3:   {375, 100},
	FrameRate5:   {5, 1},
	FrameRate7:   {75, 10},
	FrameRate10:  {10, 1},
	FrameRate15:  {15, 1},
	FrameRate20:  {20, 1},
	FrameRate24:  {24, 1},
	FrameRate25:  {25, 1},
	FrameRate30:  {30, 1},
	FrameRate60:  {60, 1},
	FrameRate120: {120, 1},
}

// Valid reports whether the code is in the frame-rate table.
func (r FrameRate) Valid() bool {
	_, ok := frameRateTable[r]
	return ok
}

// Rational returns the frame rate as numerator and denominator (fps = num/den).
func (r FrameRate) Rational() (num, den int64) {
	q, ok := frameRateTable[r]
	if !ok {
		q = frameRateTable[DefaultFrameRate]
	}
	return q.num, q.den
}

// Interval returns the frame interval in microseconds, 1e6*den/num.
func (r FrameRate) Interval() int64 {
	num, den := r.Rational()
	return 1_000_000 * den / num
}

// CeilFPS returns the smallest integer rate not below the exact one, for
// capture hardware that only takes whole frame rates.
func (r FrameRate) CeilFPS() int {
	num, den := r.Rational()
	return int((num + den - 1) / den)
}

func (r FrameRate) String() string {
	num, den := r.Rational()
	return strconv.FormatFloat(float64(num)/float64(den), 'f', -1, 64) + "fps"
}
