package catalog

import "strings"

// enumCanonical maps the lowercased form of every qualified enum name
// (Family.Member) to its canonical spelling.
var enumCanonical = map[string]string{}

// enumValues holds numeric values for the standalone game enums whose
// constants are fixed by the game data.
var enumValues = map[string]float64{}

func init() {
	for word := range logicTypes {
		addEnumMember("LogicType", word)
	}
	for word := range slotLogicTypes {
		addEnumMember("SlotLogicType", word)
		addEnumMember("LogicSlotType", word)
	}
	for word := range batchModes {
		addEnumMember("BatchMode", word)
	}
	for word := range reagentModes {
		addEnumMember("ReagentMode", word)
	}
	for family, members := range gameEnums {
		for member, value := range members {
			name := addEnumMember(family, member)
			enumValues[name] = value
		}
	}
}

func addEnumMember(family, member string) string {
	name := family + "." + member
	enumCanonical[strings.ToLower(name)] = name
	return name
}

// EnumLookup resolves a qualified enum name case-insensitively and
// reports whether the given spelling matched the canonical one exactly.
func EnumLookup(name string) (canonical string, exact bool, ok bool) {
	canonical, ok = enumCanonical[strings.ToLower(name)]
	if !ok {
		return "", false, false
	}
	return canonical, canonical == name, true
}

// EnumValue returns the numeric value of a standalone game enum
// constant, if the game data fixes one.
func EnumValue(canonical string) (float64, bool) {
	v, ok := enumValues[canonical]
	return v, ok
}

var gameEnums = map[string]map[string]float64{
	"Color": {
		"Blue": 0, "Gray": 1, "Green": 2, "Orange": 3, "Red": 4,
		"Yellow": 5, "White": 6, "Black": 7, "Brown": 8, "Khaki": 9,
		"Pink": 10, "Purple": 11,
	},
	"GasType": {
		"Undefined": 0, "Oxygen": 1, "Nitrogen": 2, "CarbonDioxide": 4,
		"Volatiles": 8, "Pollutant": 16, "Water": 32, "NitrousOxide": 64,
		"Steam": 1024, "LiquidNitrogen": 4096, "LiquidOxygen": 8192,
		"LiquidVolatiles": 16384, "LiquidCarbonDioxide": 32768,
		"LiquidPollutant": 65536, "LiquidNitrousOxide": 131072,
	},
	"AirCon": {
		"Cold": 0, "Hot": 1,
	},
	"AirControl": {
		"None": 0, "Offline": 1, "Pressure": 2, "Draught": 4,
	},
	"Vent": {
		"Outward": 0, "Inward": 1,
	},
	"TransmitterMode": {
		"Passive": 0, "Active": 1,
	},
	"ElevatorMode": {
		"Stationary": 0, "Upward": 1, "Downward": 2,
	},
	"PowerMode": {
		"Idle": 0, "Discharged": 1, "Discharging": 2, "Charging": 3,
		"Charged": 4,
	},
	"RobotMode": {
		"None": 0, "Follow": 1, "MoveToTarget": 2, "Roam": 3,
		"Unload": 4, "PathToTarget": 5, "StorageFull": 6,
	},
	"EntityState": {
		"Alive": 0, "Dead": 1, "Unconscious": 2, "Decay": 3,
	},
	"SortingClass": {
		"Default": 0, "Kits": 1, "Tools": 2, "Resources": 3, "Food": 4,
		"Clothing": 5, "Appliances": 6, "Atmospherics": 7, "Storage": 8,
		"Ores": 9, "Ices": 10,
	},
}
