package catalog

import "strings"

// KeywordClass is a bitmask of the keyword categories an identifier
// matched. One word can belong to several categories (Pressure is both
// a logic type and a slot logic type).
type KeywordClass uint8

const (
	KeywordLogic KeywordClass = 1 << iota
	KeywordSlot
	KeywordBatch
	KeywordReagent
)

// Any reports whether at least one category matched.
func (c KeywordClass) Any() bool { return c != 0 }

// Union expands the matched categories into a signature type union.
func (c KeywordClass) Union() Union {
	var u Union
	if c&KeywordLogic != 0 {
		u = append(u, LogicType)
	}
	if c&KeywordSlot != 0 {
		u = append(u, SlotLogicType)
	}
	if c&KeywordBatch != 0 {
		u = append(u, BatchMode)
	}
	if c&KeywordReagent != 0 {
		u = append(u, ReagentMode)
	}
	return u
}

// ClassifyKeyword resolves an identifier against all keyword sets.
// Exact matches are preferred; a case-insensitive match is reported
// with exact=false so callers can warn about the spelling.
func ClassifyKeyword(ident string) (class KeywordClass, exact bool) {
	class = classify(ident, func(set map[string]struct{}, word string) bool {
		_, ok := set[word]
		return ok
	})
	if class.Any() {
		return class, true
	}
	class = classify(ident, matchFold)
	return class, false
}

func classify(ident string, match func(map[string]struct{}, string) bool) KeywordClass {
	var class KeywordClass
	if match(logicTypes, ident) {
		class |= KeywordLogic
	}
	if match(slotLogicTypes, ident) {
		class |= KeywordSlot
	}
	if match(batchModes, ident) {
		class |= KeywordBatch
	}
	if match(reagentModes, ident) {
		class |= KeywordReagent
	}
	return class
}

func matchFold(set map[string]struct{}, word string) bool {
	for k := range set {
		if strings.EqualFold(k, word) {
			return true
		}
	}
	return false
}

// IsLogicType reports an exact logic type keyword match.
func IsLogicType(word string) bool {
	_, ok := logicTypes[word]
	return ok
}

func makeSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

var logicTypes = makeSet(
	"Activate", "AirRelease", "Bpm", "BurnTimeRemaining", "CelestialHash",
	"CelestialParentHash", "Channel0", "Channel1", "Channel2", "Channel3",
	"Channel4", "Channel5", "Channel6", "Channel7", "Charge", "Chart",
	"ChartedNavPoints", "ClearMemory", "CollectableGoods", "Color",
	"Combustion", "CombustionInput", "CombustionInput2", "CombustionLimiter",
	"CombustionOutput", "CombustionOutput2", "CompletionRatio",
	"ContactTypeId", "CurrentCode", "CurrentResearchPodType", "Density",
	"DestinationCode", "Discover", "DistanceAu", "DistanceKm",
	"DrillCondition", "DryMass", "Eccentricity", "ElevatorLevel",
	"ElevatorSpeed", "EntityState", "EnvironmentEfficiency", "Error",
	"ExhaustVelocity", "ExportCount", "ExportQuantity", "ExportSlotHash",
	"ExportSlotOccupant", "Filtration", "FlightControlRule", "Flush",
	"ForceWrite", "ForwardX", "ForwardY", "ForwardZ", "Fuel", "Harvest",
	"Horizontal", "HorizontalRatio", "Idle", "ImportCount", "ImportQuantity",
	"ImportSlotHash", "ImportSlotOccupant", "Inclination", "Index",
	"InterrogationProgress", "LineNumber", "Lock", "ManualResearchRequiredPod",
	"Mass", "Maximum", "MineablesInQueue", "MineablesInVicinity", "Minimum",
	"MinimumWattsToContact", "Mode", "NavPoints", "NextWeatherEventTime",
	"None", "On", "Open", "OperationalTemperatureEfficiency",
	"OrbitPeriod", "Orientation", "Output", "PassedMoles", "Plant",
	"PlantEfficiency1", "PlantEfficiency2", "PlantEfficiency3",
	"PlantEfficiency4", "PlantGrowth1", "PlantGrowth2", "PlantGrowth3",
	"PlantGrowth4", "PlantHash1", "PlantHash2", "PlantHash3", "PlantHash4",
	"PlantHealth1", "PlantHealth2", "PlantHealth3", "PlantHealth4",
	"PositionX", "PositionY", "PositionZ", "Power", "PowerActual",
	"PowerGeneration", "PowerPotential", "PowerRequired", "PrefabHash",
	"Pressure", "PressureEfficiency", "PressureExternal", "PressureInput",
	"PressureInput2", "PressureInternal", "PressureOutput", "PressureOutput2",
	"PressureSetting", "Progress", "Quantity", "Ratio", "RatioCarbonDioxide",
	"RatioCarbonDioxideInput", "RatioCarbonDioxideInput2",
	"RatioCarbonDioxideOutput", "RatioCarbonDioxideOutput2",
	"RatioHydrogen", "RatioLiquidCarbonDioxide", "RatioLiquidHydrogen",
	"RatioLiquidNitrogen", "RatioLiquidNitrousOxide", "RatioLiquidOxygen",
	"RatioLiquidPollutant", "RatioLiquidVolatiles", "RatioNitrogen",
	"RatioNitrogenInput", "RatioNitrogenInput2", "RatioNitrogenOutput",
	"RatioNitrogenOutput2", "RatioNitrousOxide", "RatioNitrousOxideInput",
	"RatioNitrousOxideInput2", "RatioNitrousOxideOutput",
	"RatioNitrousOxideOutput2", "RatioOxygen", "RatioOxygenInput",
	"RatioOxygenInput2", "RatioOxygenOutput", "RatioOxygenOutput2",
	"RatioPollutant", "RatioPollutantInput", "RatioPollutantInput2",
	"RatioPollutantOutput", "RatioPollutantOutput2", "RatioSteam",
	"RatioVolatiles", "RatioVolatilesInput", "RatioVolatilesInput2",
	"RatioVolatilesOutput", "RatioVolatilesOutput2", "RatioWater",
	"RatioWaterInput", "RatioWaterInput2", "RatioWaterOutput",
	"RatioWaterOutput2", "ReEntryAltitude", "Reagents", "RecipeHash",
	"ReferenceId", "RequestHash", "RequiredPower", "ReturnFuelCost",
	"Richness", "Rpm", "SemiMajorAxis", "Setting", "SettingInput",
	"SettingOutput", "SignalID", "SignalStrength", "Sites", "Size",
	"SizeX", "SizeY", "SizeZ", "SolarAngle", "SolarIrradiance",
	"SoundAlert", "Stress", "Survey", "TargetPadIndex", "TargetX",
	"TargetY", "TargetZ", "Temperature", "TemperatureDifferentialEfficiency",
	"TemperatureExternal", "TemperatureInput", "TemperatureInput2",
	"TemperatureOutput", "TemperatureOutput2", "TemperatureSetting",
	"Throttle", "Thrust", "ThrustToWeight", "Time", "TimeToDestination",
	"TotalMoles", "TotalMolesInput", "TotalMolesInput2", "TotalMolesOutput",
	"TotalMolesOutput2", "TotalQuantity", "TrueAnomaly", "VelocityMagnitude",
	"VelocityRelativeX", "VelocityRelativeY", "VelocityRelativeZ",
	"VelocityX", "VelocityY", "VelocityZ", "Vertical", "VerticalRatio",
	"Volume", "VolumeOfLiquid", "WattsReachingContact", "Weight", "WorkingGasEfficiency",
)

var slotLogicTypes = makeSet(
	"Charge", "ChargeRatio", "Class", "Damage", "Efficiency", "FilterType",
	"Growth", "Health", "LineNumber", "Lock", "Mature", "MaxQuantity",
	"Occupied", "OccupantHash", "On", "Open", "PrefabHash", "Pressure",
	"PressureAir", "PressureWaste", "Quantity", "ReferenceId", "Seeding",
	"SortingClass", "Temperature", "Volume",
)

var batchModes = makeSet("Average", "Sum", "Minimum", "Maximum")

var reagentModes = makeSet("Contents", "Required", "Recipe", "TotalContents")
