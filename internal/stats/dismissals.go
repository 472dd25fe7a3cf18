package stats

import "strings"

// bowlerCreditedKinds are the dismissal kinds that count toward a bowler's
// wicket tally, per standard cricket scoring convention. Run-outs, retirements
// and the other fielding/conduct dismissals are not credited; neither is an
// unknown kind.
var bowlerCreditedKinds = map[string]bool{
	"bowled":            true,
	"caught":            true,
	"caught and bowled": true,
	"lbw":               true,
	"stumped":           true,
	"hit wicket":        true,
}

// BowlerCredited reports whether a dismissal of the given kind is credited
// to the bowler.
func BowlerCredited(kind string) bool {
	return bowlerCreditedKinds[strings.ToLower(strings.TrimSpace(kind))]
}
