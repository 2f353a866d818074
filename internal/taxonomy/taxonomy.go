// Package taxonomy holds the fixed two-tier administrative taxonomy used by
// the ingestion pipeline: the 28 states, the 8 union territories, and the
// key-normalisation rules that make free-text labels comparable against it.
// All tables are built once at init and are read-only afterwards.
package taxonomy

import "strings"

// RegionType classifies a resolved region.
type RegionType string

const (
	TypeState   RegionType = "STATE"
	TypeUT      RegionType = "UT"
	TypeUnknown RegionType = "UNKNOWN"
)

// Region is the canonical resolution of a record's region fields. Name is a
// member of States or UnionTerritories when Type is not TypeUnknown, and
// empty otherwise.
type Region struct {
	Type RegionType
	Name string
}

// Unknown is the terminal resolution for labels that match nothing.
var Unknown = Region{Type: TypeUnknown}

// States is the canonical enumeration of the 28 states.
var States = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
	"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka",
	"Kerala", "Madhya Pradesh", "Maharashtra", "Manipur", "Meghalaya", "Mizoram",
	"Nagaland", "Odisha", "Punjab", "Rajasthan", "Sikkim", "Tamil Nadu",
	"Telangana", "Tripura", "Uttar Pradesh", "Uttarakhand", "West Bengal",
}

// UnionTerritories is the canonical enumeration of the 8 union territories.
var UnionTerritories = []string{
	"Andaman And Nicobar Islands",
	"Chandigarh",
	"Dadra And Nagar Haveli And Daman And Diu",
	"Delhi",
	"Jammu And Kashmir",
	"Ladakh",
	"Lakshadweep",
	"Puducherry",
}

var (
	stateSet   = make(map[string]bool, len(States))
	utSet      = make(map[string]bool, len(UnionTerritories))
	stateByKey = make(map[string]string, len(States))
	utByKey    = make(map[string]string, len(UnionTerritories))
)

func init() {
	for _, name := range States {
		stateSet[name] = true
		stateByKey[Key(name)] = name
	}
	for _, name := range UnionTerritories {
		utSet[name] = true
		utByKey[Key(name)] = name
	}
}

// Key collapses a free-text region label into its comparable canonical key:
// lower-cased, trimmed, "&" replaced by "and", and everything outside
// [a-z0-9] stripped. Total over any input and idempotent.
func Key(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "&", "and")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// StateByKey looks a canonical key up in the state enumeration.
func StateByKey(key string) (string, bool) {
	name, ok := stateByKey[key]
	return name, ok
}

// UTByKey looks a canonical key up in the union-territory enumeration.
func UTByKey(key string) (string, bool) {
	name, ok := utByKey[key]
	return name, ok
}

// IsState reports whether name is one of the 28 canonical state names.
func IsState(name string) bool { return stateSet[name] }

// IsUT reports whether name is one of the 8 canonical UT names.
func IsUT(name string) bool { return utSet[name] }
