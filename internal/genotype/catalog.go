package genotype

import (
	"errors"
	"fmt"
	"math"

	"boxyjump/internal/rng"
)

// ErrUnknownResponse marks a response kind missing from the catalog.
var ErrUnknownResponse = errors.New("unknown response kind")

// Kind tags a response variant.
type Kind uint8

const (
	Thrust Kind = iota
	Jump

	kindCount
)

// Response is one behaviour bound to a receptor. It is a plain value; copies
// never share state.
type Response struct {
	Kind Kind
	// Odds is a rate in expected activations per second.
	Odds   float64
	Amount float64
	// Secondary is the launch angle in degrees for Jump and unused for Thrust.
	Secondary float64
}

// Actuator receives the motion requests a response produces.
type Actuator interface {
	ApplyHorizontalForce(force float64)
	ApplyVelocity(x, y float64)
}

// Bounds is an inclusive clamp range.
type Bounds struct {
	Min, Max float64
}

// Clamp pins v into the range.
func (b Bounds) Clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Variant holds everything the engine needs to know about one response kind.
type Variant struct {
	Name           string
	Odds           Bounds
	Amount         Bounds
	Secondary      Bounds
	SeedOdds       Bounds
	SeedAmount     Bounds
	SeedSecondary  *Bounds
	RequiresGround bool
	fire           func(Response, Actuator)
}

var catalog = [kindCount]Variant{
	Thrust: {
		Name:       "thrust",
		Odds:       Bounds{0, 60},
		Amount:     Bounds{0, 20},
		Secondary:  Bounds{0, 0},
		SeedOdds:   Bounds{1.3, 2.0},
		SeedAmount: Bounds{4, 7},
		fire: func(r Response, a Actuator) {
			a.ApplyHorizontalForce(r.Amount)
		},
	},
	Jump: {
		Name:           "jump",
		Odds:           Bounds{0, 60},
		Amount:         Bounds{1.5, 100},
		Secondary:      Bounds{0, 90},
		SeedOdds:       Bounds{0.6, 1.2},
		SeedAmount:     Bounds{3, 6},
		SeedSecondary:  &Bounds{45, 90},
		RequiresGround: true,
		fire: func(r Response, a Actuator) {
			rad := r.Secondary * math.Pi / 180
			a.ApplyVelocity(r.Amount*math.Cos(rad), r.Amount*math.Sin(rad))
		},
	},
}

// Kinds lists every response kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Lookup returns the catalog entry for k.
func Lookup(k Kind) (Variant, error) {
	if k >= kindCount {
		return Variant{}, fmt.Errorf("%w: %d", ErrUnknownResponse, uint8(k))
	}
	return catalog[k], nil
}

func (k Kind) String() string {
	if k >= kindCount {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return catalog[k].Name
}

// RequiresGround reports whether the response may only fire with ground contact.
func (r Response) RequiresGround() (bool, error) {
	v, err := Lookup(r.Kind)
	if err != nil {
		return false, err
	}
	return v.RequiresGround, nil
}

// Fire hands the response's action to the actuator.
func (r Response) Fire(a Actuator) error {
	v, err := Lookup(r.Kind)
	if err != nil {
		return err
	}
	v.fire(r, a)
	return nil
}

// Clamp pins every field into its variant's range.
func (r Response) Clamp() (Response, error) {
	v, err := Lookup(r.Kind)
	if err != nil {
		return Response{}, err
	}
	r.Odds = v.Odds.Clamp(r.Odds)
	r.Amount = v.Amount.Clamp(r.Amount)
	r.Secondary = v.Secondary.Clamp(r.Secondary)
	return r, nil
}

// InBounds reports whether every field lies inside the variant's clamp ranges.
func (r Response) InBounds() bool {
	v, err := Lookup(r.Kind)
	if err != nil {
		return false
	}
	return v.Odds.Contains(r.Odds) && v.Amount.Contains(r.Amount) && v.Secondary.Contains(r.Secondary)
}

// RandomResponse draws a kind uniformly and then its bootstrap parameters in
// the order odds, amount, secondary. Kinds without a secondary seed range
// consume no draw for it.
func RandomResponse(src rng.Source) Response {
	kind := Kinds()[rng.Intn(src, int(kindCount))]
	v := catalog[kind]
	r := Response{Kind: kind}
	r.Odds = rng.Range(src, v.SeedOdds.Min, v.SeedOdds.Max)
	r.Amount = rng.Range(src, v.SeedAmount.Min, v.SeedAmount.Max)
	if v.SeedSecondary != nil {
		r.Secondary = rng.Range(src, v.SeedSecondary.Min, v.SeedSecondary.Max)
	}
	return r
}

// perturb moves each field by +/-rate of itself and clamps it right away.
func (r Response) perturb(src rng.Source, rate float64) (Response, error) {
	v, err := Lookup(r.Kind)
	if err != nil {
		return Response{}, err
	}
	r.Odds = v.Odds.Clamp(r.Odds + r.Odds*signedRate(src, rate))
	r.Amount = v.Amount.Clamp(r.Amount + r.Amount*signedRate(src, rate))
	r.Secondary = v.Secondary.Clamp(r.Secondary + r.Secondary*signedRate(src, rate))
	return r, nil
}

func signedRate(src rng.Source, rate float64) float64 {
	if src.Float64() < 0.5 {
		return rate
	}
	return -rate
}
