package taxonomy

import "testing"

func TestKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Tamil Nadu", "tamilnadu"},
		{"  WEST   BENGAL  ", "westbengal"},
		{"Jammu & Kashmir", "jammuandkashmir"},
		{"Dadra & Nagar Haveli", "dadraandnagarhaveli"},
		{"U.P.", "up"},
		{"Delhi-110001", "delhi110001"},
		{"", ""},
		{"   ", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		if got := Key(tt.input); got != tt.want {
			t.Errorf("Key(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestKeyIdempotent(t *testing.T) {
	inputs := []string{"Tamil Nadu", "Jammu & Kashmir", "x9 Y", ""}
	for _, in := range inputs {
		once := Key(in)
		if twice := Key(once); twice != once {
			t.Errorf("Key not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestEnumerationSizes(t *testing.T) {
	if len(States) != 28 {
		t.Errorf("expected 28 states, got %d", len(States))
	}
	if len(UnionTerritories) != 8 {
		t.Errorf("expected 8 union territories, got %d", len(UnionTerritories))
	}
}

func TestLookupsCoverEnumerations(t *testing.T) {
	for _, name := range States {
		got, ok := StateByKey(Key(name))
		if !ok || got != name {
			t.Errorf("StateByKey(Key(%q)) = %q, %v", name, got, ok)
		}
		if !IsState(name) {
			t.Errorf("IsState(%q) = false", name)
		}
	}
	for _, name := range UnionTerritories {
		got, ok := UTByKey(Key(name))
		if !ok || got != name {
			t.Errorf("UTByKey(Key(%q)) = %q, %v", name, got, ok)
		}
		if !IsUT(name) {
			t.Errorf("IsUT(%q) = false", name)
		}
	}
}

// Every alias and district mapping must point at a canonical name; a typo in
// the tables would otherwise silently send rows to a folder no enumeration
// knows about.
func TestAliasTargetsAreCanonical(t *testing.T) {
	for key, name := range aliases {
		if !IsState(name) && !IsUT(name) {
			t.Errorf("alias %q targets non-canonical name %q", key, name)
		}
		if Key(key) != key {
			t.Errorf("alias key %q is not in canonical key form", key)
		}
	}
	for key, name := range utDistricts {
		if !IsUT(name) {
			t.Errorf("district %q targets non-UT name %q", key, name)
		}
		if Key(key) != key {
			t.Errorf("district key %q is not in canonical key form", key)
		}
	}
}
