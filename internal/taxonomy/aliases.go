package taxonomy

// aliases maps normalised keys of known misspellings and historical names to
// their canonical region name. Keys are already in Key() form.
var aliases = map[string]string{
	// states
	"tamilnadu":    "Tamil Nadu",
	"westbengal":   "West Bengal",
	"chattisgarh":  "Chhattisgarh",
	"chhatishgarh": "Chhattisgarh",
	"uttaranchal":  "Uttarakhand",
	"orissa":       "Odisha",
	"telengana":    "Telangana",

	// UT spellings
	"nctofdelhi":                        "Delhi",
	"delhinct":                          "Delhi",
	"newdelhi":                          "Delhi",
	"andamannicobarislands":             "Andaman And Nicobar Islands",
	"dadraandnagarhaveli":               "Dadra And Nagar Haveli And Daman And Diu",
	"damananddiu":                       "Dadra And Nagar Haveli And Daman And Diu",
	"dadraandnagarhavelianddamananddiu": "Dadra And Nagar Haveli And Daman And Diu",
	"pondicherry":                       "Puducherry",
}

// utDistricts maps normalised district and city keys to the union territory
// that contains them. District-level resolution is needed because several
// source extracts carry only a sub-district in the region columns.
var utDistricts = map[string]string{
	// Delhi
	"eastdelhi":      "Delhi",
	"westdelhi":      "Delhi",
	"northdelhi":     "Delhi",
	"southdelhi":     "Delhi",
	"southwestdelhi": "Delhi",
	"northeastdelhi": "Delhi",
	"northwestdelhi": "Delhi",
	"centraldelhi":   "Delhi",
	"newdelhi":       "Delhi",

	// Jammu & Kashmir
	"srinagar":  "Jammu And Kashmir",
	"jammu":     "Jammu And Kashmir",
	"anantnag":  "Jammu And Kashmir",
	"baramulla": "Jammu And Kashmir",
	"kupwara":   "Jammu And Kashmir",
	"pulwama":   "Jammu And Kashmir",
	"budgam":    "Jammu And Kashmir",
	"ganderbal": "Jammu And Kashmir",
	"kulgam":    "Jammu And Kashmir",
	"shopian":   "Jammu And Kashmir",
	"bandipora": "Jammu And Kashmir",
	"punch":     "Jammu And Kashmir",
	"poonch":    "Jammu And Kashmir",
	"rajouri":   "Jammu And Kashmir",
	"udhampur":  "Jammu And Kashmir",
	"reasi":     "Jammu And Kashmir",
	"ramban":    "Jammu And Kashmir",
	"kathua":    "Jammu And Kashmir",
	"samba":     "Jammu And Kashmir",
	"doda":      "Jammu And Kashmir",
	"kishtwar":  "Jammu And Kashmir",

	// Ladakh
	"leh":    "Ladakh",
	"kargil": "Ladakh",

	// Puducherry
	"puducherry":  "Puducherry",
	"pondicherry": "Puducherry",
	"karaikal":    "Puducherry",
	"mahe":        "Puducherry",
	"yanam":       "Puducherry",

	// Chandigarh
	"chandigarh": "Chandigarh",

	// Andaman & Nicobar Islands
	"southandaman":          "Andaman And Nicobar Islands",
	"northandmiddleandaman": "Andaman And Nicobar Islands",
	"nicobars":              "Andaman And Nicobar Islands",

	// Lakshadweep
	"lakshadweep": "Lakshadweep",

	// Dadra & Nagar Haveli and Daman & Diu
	"dadraandnagarhaveli": "Dadra And Nagar Haveli And Daman And Diu",
	"daman":               "Dadra And Nagar Haveli And Daman And Diu",
	"diu":                 "Dadra And Nagar Haveli And Daman And Diu",
}

// Alias resolves a normalised key against the alias table.
func Alias(key string) (string, bool) {
	name, ok := aliases[key]
	return name, ok
}

// UTDistrict resolves a normalised district key to its containing UT.
func UTDistrict(key string) (string, bool) {
	name, ok := utDistricts[key]
	return name, ok
}
