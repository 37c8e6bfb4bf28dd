package calculator

var stateAbbreviations = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO",
	"CT", "DE", "DC", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY",
	"LA", "ME", "MD", "MA", "MI", "MN",
	"MS", "MO", "MT", "NE", "NV", "NH",
	"NJ", "NM", "NY", "NC", "ND",
	"OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA",
	"WA", "WV", "WI", "WY",
}

var stateNames = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas", "CA": "California", "CO": "Colorado",
	"CT": "Connecticut", "DE": "Delaware", "DC": "District of Columbia", "FL": "Florida", "GA": "Georgia",
	"HI": "Hawaii", "ID": "Idaho", "IL": "Illinois", "IN": "Indiana", "IA": "Iowa", "KS": "Kansas", "KY": "Kentucky",
	"LA": "Louisiana", "ME": "Maine", "MD": "Maryland", "MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota",
	"MS": "Mississippi", "MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada", "NH": "New Hampshire",
	"NJ": "New Jersey", "NM": "New Mexico", "NY": "New York", "NC": "North Carolina", "ND": "North Dakota",
	"OH": "Ohio", "OK": "Oklahoma", "OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah", "VT": "Vermont", "VA": "Virginia",
	"WA": "Washington", "WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming",
}

// State pairs a postal abbreviation with its full name.
type State struct {
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
}

// States lists the 50 states plus DC in the calculator's display order.
func States() []State {
	out := make([]State, 0, len(stateAbbreviations))
	for _, abbr := range stateAbbreviations {
		out = append(out, State{Abbreviation: abbr, Name: stateNames[abbr]})
	}
	return out
}

// StateFullName expands a postal abbreviation. Anything else is returned unchanged,
// so full names pass straight through.
func StateFullName(abbreviation string) string {
	if name, ok := stateNames[abbreviation]; ok {
		return name
	}
	return abbreviation
}
