package core

import "sort"

// RegionInfo names one first-level division of Honduras as keyed in the
// departments map graphic.
type RegionInfo struct {
	Code string
	Name string
}

// regionsByCode is the fixed code → department table. Names must match the
// department column of the dataset exactly.
var regionsByCode = map[string]string{
	"HNAT": "Atlántida",
	"HNCH": "Choluteca",
	"HNCL": "Colón",
	"HNCM": "Comayagua",
	"HNCP": "Copán",
	"HNCR": "Cortés",
	"HNEP": "El Paraíso",
	"HNFM": "Francisco Morazán",
	"HNGD": "Gracias a Dios",
	"HNIB": "Islas de la Bahía",
	"HNIN": "Intibucá",
	"HNLE": "Lempira",
	"HNLP": "La Paz",
	"HNOC": "Ocotepeque",
	"HNOL": "Olancho",
	"HNSB": "Santa Bárbara",
	"HNVA": "Valle",
	"HNYO": "Yoro",
}

// RegionName returns the department name for a map code.
// Returns false for codes outside the fixed table.
func RegionName(code string) (string, bool) {
	name, ok := regionsByCode[code]
	return name, ok
}

// Regions returns the fixed table sorted by code.
func Regions() []RegionInfo {
	out := make([]RegionInfo, 0, len(regionsByCode))
	for code, name := range regionsByCode {
		out = append(out, RegionInfo{Code: code, Name: name})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Code < out[j].Code
	})
	return out
}

// RegionCount returns the number of divisions in the fixed table.
func RegionCount() int {
	return len(regionsByCode)
}

// RegionCode returns the map code for a department name.
func RegionCode(name string) (string, bool) {
	for code, n := range regionsByCode {
		if n == name {
			return code, true
		}
	}
	return "", false
}

// CompleteAggregates returns every department of the fixed table plus any
// other region in aggregates, sorted by Spanish collation. Departments with
// no localities appear with StatusNoData and zero counts. aggregates itself
// is not modified.
func CompleteAggregates(aggregates map[string]RegionAggregate) []RegionAggregate {
	all := make(map[string]RegionAggregate, len(regionsByCode)+len(aggregates))
	for _, name := range regionsByCode {
		all[name] = RegionAggregate{Region: name, Status: StatusNoData}
	}
	for name, agg := range aggregates {
		all[name] = agg
	}
	return SortedAggregates(all)
}
