package simulation

// Control points of the growth curve: a cubic Bezier from (0,0) to (1,1)
// with P1 = (0.55, -0.26) and P2 = (0.6, 1.61). Because P2's y exceeds 1
// (and P1's dips below 0), the eased value overshoots past 1 and settles
// back, which is what gives a freshly spawned ball its jelly "pop".
const (
	growthEaseY1 = -0.26
	growthEaseY2 = 1.61
)

// GrowthEase maps a growth fraction t in [0, 1] to an eased size fraction
// using the closed-form y-component polynomial of the cubic Bezier above:
//
//	y(t) = 3(1-t)^2 t * y1 + 3(1-t) t^2 * y2 + t^3
//
// y(0) = 0 and y(1) = 1 exactly; interior values may leave [0, 1].
func GrowthEase(t float64) float64 {
	u := 1 - t
	return 3*u*u*t*growthEaseY1 + 3*u*t*t*growthEaseY2 + t*t*t
}
