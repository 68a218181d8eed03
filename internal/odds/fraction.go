package odds

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// MaxDenominator bounds fractional renderings
const MaxDenominator = 100

// Fraction is a reduced fractional-odds rendering such as 5/4
type Fraction struct {
	Num int64
	Den int64
}

func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}

// MarshalJSON renders the fraction as "n/d"
func (f Fraction) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// Fractional renders decimal odds minus one as the closest fraction with a
// denominator of at most MaxDenominator. The sentinel price has no fraction.
// This is lossy and meant for display only.
func Fractional(p Price) (Fraction, bool) {
	decimal, ok := p.Decimal()
	if !ok {
		return Fraction{}, false
	}
	net := new(big.Rat).SetFloat64(decimal - 1)
	if net == nil {
		return Fraction{}, false
	}
	best := limitDenominator(net, MaxDenominator)
	return Fraction{Num: best.Num().Int64(), Den: best.Denom().Int64()}, true
}

// limitDenominator returns the closest rational to x with denominator at most
// max, walking the continued-fraction convergents and the last semiconvergent.
func limitDenominator(x *big.Rat, max int64) *big.Rat {
	limit := big.NewInt(max)
	if x.Denom().Cmp(limit) <= 0 {
		return new(big.Rat).Set(x)
	}

	p0, q0 := big.NewInt(0), big.NewInt(1)
	p1, q1 := big.NewInt(1), big.NewInt(0)
	n := new(big.Int).Set(x.Num())
	d := new(big.Int).Set(x.Denom())

	for {
		a := new(big.Int).Quo(n, d)
		q2 := new(big.Int).Add(q0, new(big.Int).Mul(a, q1))
		if q2.Cmp(limit) > 0 {
			break
		}
		p2 := new(big.Int).Add(p0, new(big.Int).Mul(a, p1))
		p0, q0, p1, q1 = p1, q1, p2, q2
		n, d = d, new(big.Int).Sub(n, new(big.Int).Mul(a, d))
	}

	k := new(big.Int).Quo(new(big.Int).Sub(limit, q0), q1)
	semi := new(big.Rat).SetFrac(
		new(big.Int).Add(p0, new(big.Int).Mul(k, p1)),
		new(big.Int).Add(q0, new(big.Int).Mul(k, q1)),
	)
	convergent := new(big.Rat).SetFrac(p1, q1)

	if distance(convergent, x).Cmp(distance(semi, x)) <= 0 {
		return convergent
	}
	return semi
}

func distance(a, b *big.Rat) *big.Rat {
	return new(big.Rat).Abs(new(big.Rat).Sub(a, b))
}
