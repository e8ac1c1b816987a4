package sdata

// Upstream GraphQL variables identify sports and divisions by code, not by
// the URL keys this API exposes.
var sportCodes = map[string]string{
	"football":         "MFB",
	"basketball-men":   "MBB",
	"basketball-women": "WBB",
	"baseball":         "MBA",
	"softball":         "WSB",
	"icehockey-men":    "MIH",
	"icehockey-women":  "WIH",
	"soccer-men":       "MSO",
	"soccer-women":     "WSO",
	"volleyball-men":   "MVB",
	"volleyball-women": "WVB",
	"lacrosse-men":     "MLA",
	"lacrosse-women":   "WLA",
	"fieldhockey":      "WFH",
}

var divisionCodes = map[string]int{
	"fbs": 11,
	"fcs": 12,
	"d1":  1,
	"d2":  2,
	"d3":  3,
}

// SportCode returns the upstream code for an API sport key.
func SportCode(sport string) string {
	return sportCodes[sport]
}

// DivisionCode returns the upstream numeric code for a division key.
func DivisionCode(division string) int {
	return divisionCodes[division]
}
