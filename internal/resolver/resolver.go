// Package resolver maps a record's free-text state and district fields to
// one canonical region. Exact and aliased lookups always win over fuzzy
// matching so that a plausible-looking approximate hit can never pre-empt a
// correct deterministic one.
package resolver

import (
	"regexp"
	"strings"

	"github.com/uidai-ingest/internal/taxonomy"
)

// numeric junk such as a stray pincode in the state column
var reMostlyDigits = regexp.MustCompile(`^\d{3,}$`)

// Resolver resolves raw region labels against the fixed taxonomy.
type Resolver struct {
	cutoff    float64
	stateKeys []string
	utKeys    []string
}

// New creates a resolver with the given fuzzy similarity cutoff. Pass
// DefaultFuzzyCutoff unless tuning; values below it admit loose matches the
// pipeline is not designed for.
func New(cutoff float64) *Resolver {
	r := &Resolver{cutoff: cutoff}
	for _, name := range taxonomy.States {
		r.stateKeys = append(r.stateKeys, taxonomy.Key(name))
	}
	for _, name := range taxonomy.UnionTerritories {
		r.utKeys = append(r.utKeys, taxonomy.Key(name))
	}
	return r
}

// Resolve canonicalises the state/district pair. The precedence chain is
// fixed; the first stage that produces a canonical name wins. Malformed
// input never raises: anything unresolvable is taxonomy.Unknown.
func (r *Resolver) Resolve(stateRaw, districtRaw string) taxonomy.Region {
	s := strings.TrimSpace(stateRaw)
	if reMostlyDigits.MatchString(s) {
		s = ""
	}

	sk := taxonomy.Key(s)
	dk := taxonomy.Key(strings.TrimSpace(districtRaw))

	// 1. alias on the state key
	if name, ok := taxonomy.Alias(sk); ok {
		if region, ok := typed(name); ok {
			return region
		}
	}

	// 2. exact canonical state key
	if name, ok := taxonomy.StateByKey(sk); ok {
		return taxonomy.Region{Type: taxonomy.TypeState, Name: name}
	}
	if name, ok := taxonomy.UTByKey(sk); ok {
		return taxonomy.Region{Type: taxonomy.TypeUT, Name: name}
	}

	// 3. district key in the district->UT map
	if name, ok := taxonomy.UTDistrict(dk); ok {
		return taxonomy.Region{Type: taxonomy.TypeUT, Name: name}
	}

	// 4. capital-territory catch-all for sub-district names absent from the
	// static map. Matches the substring anywhere in the key, so an unrelated
	// district name containing it would also resolve here.
	if dk != "" && strings.Contains(dk, "delhi") {
		return taxonomy.Region{Type: taxonomy.TypeUT, Name: "Delhi"}
	}

	// 5-6. district key through alias and canonical lookups, for extracts
	// that swap the state and district columns
	if name, ok := taxonomy.Alias(dk); ok {
		if region, ok := typed(name); ok {
			return region
		}
	}
	if name, ok := taxonomy.StateByKey(dk); ok {
		return taxonomy.Region{Type: taxonomy.TypeState, Name: name}
	}
	if name, ok := taxonomy.UTByKey(dk); ok {
		return taxonomy.Region{Type: taxonomy.TypeUT, Name: name}
	}

	// 7-8. fuzzy lookup of the state key, states first
	if key, ok := r.closest(sk, r.stateKeys); ok {
		name, _ := taxonomy.StateByKey(key)
		return taxonomy.Region{Type: taxonomy.TypeState, Name: name}
	}
	if key, ok := r.closest(sk, r.utKeys); ok {
		name, _ := taxonomy.UTByKey(key)
		return taxonomy.Region{Type: taxonomy.TypeUT, Name: name}
	}

	return taxonomy.Unknown
}

// typed classifies an alias target by the enumeration it belongs to.
func typed(name string) (taxonomy.Region, bool) {
	if taxonomy.IsState(name) {
		return taxonomy.Region{Type: taxonomy.TypeState, Name: name}, true
	}
	if taxonomy.IsUT(name) {
		return taxonomy.Region{Type: taxonomy.TypeUT, Name: name}, true
	}
	return taxonomy.Unknown, false
}
