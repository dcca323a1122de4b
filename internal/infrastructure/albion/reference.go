package albion

// Royal cities in the order the dashboard lists them.
// Names double as the API's location values.
var Cities = []string{"Caerleon", "Bridgewatch", "Lymhurst", "Martlock", "Thetford", "Fort Sterling"}

// Item quality levels
var Qualities = map[int]string{
	1: "Normal",
	2: "Good",
	3: "Outstanding",
	4: "Excellent",
	5: "Masterpiece",
}

// Supported history bucket sizes in hours
var TimeScales = map[int]string{
	1:  "1 Hour",
	6:  "6 Hours",
	24: "24 Hours (Daily)",
}

// DefaultQuality is assumed when the API omits a quality
const DefaultQuality = 1

// ValidTimeScale reports whether the API accepts the bucket size
func ValidTimeScale(hours int) bool {
	_, ok := TimeScales[hours]
	return ok
}

// ValidQuality reports whether q is a known quality level
func ValidQuality(q int) bool {
	_, ok := Qualities[q]
	return ok
}

// IsCity reports whether name is one of the royal cities
func IsCity(name string) bool {
	for _, c := range Cities {
		if c == name {
			return true
		}
	}
	return false
}
