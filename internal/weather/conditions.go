package weather

import (
	"strings"

	"github.com/i474232898/weatherstack-dashboard/internal/common"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// codeDescriptions are the English names of weatherstack weather codes.
var codeDescriptions = map[int]string{
	113: "Clear",
	116: "Partly Cloudy",
	119: "Cloudy",
	122: "Overcast",
	143: "Mist",
	176: "Patchy Rain",
	179: "Patchy Snow",
	182: "Patchy Sleet",
	185: "Patchy Freezing Drizzle",
	200: "Thundery Outbreaks",
	227: "Blowing Snow",
	230: "Blizzard",
	248: "Fog",
	260: "Freezing Fog",
	263: "Patchy Light Drizzle",
	266: "Light Drizzle",
	281: "Freezing Drizzle",
	284: "Heavy Freezing Drizzle",
	293: "Patchy Light Rain",
	296: "Light Rain",
	299: "Moderate Rain",
	302: "Heavy Rain",
	305: "Heavy Rain at Times",
	308: "Torrential Rain",
	311: "Light Freezing Rain",
	314: "Moderate Freezing Rain",
	317: "Light Sleet",
	320: "Moderate Sleet",
	323: "Patchy Light Snow",
	326: "Light Snow",
	329: "Patchy Moderate Snow",
	332: "Moderate Snow",
	335: "Patchy Heavy Snow",
	338: "Heavy Snow",
	350: "Ice Pellets",
	353: "Light Rain Shower",
	356: "Moderate Rain Shower",
	359: "Torrential Rain Shower",
	362: "Light Sleet Shower",
	365: "Moderate Sleet Shower",
	368: "Light Snow Shower",
	371: "Moderate Snow Shower",
	374: "Light Hail Shower",
	377: "Moderate Hail Shower",
	386: "Patchy Light Rain with Thunder",
	389: "Moderate Rain with Thunder",
	392: "Patchy Light Snow with Thunder",
	395: "Moderate Snow with Thunder",
}

// DescribeCode returns the English description for a weather code, or "Unknown".
func DescribeCode(code int) string {
	if d, ok := codeDescriptions[code]; ok {
		return d
	}
	return "Unknown"
}

// ClassifyCode maps a weather code onto a Condition.
func ClassifyCode(code int) Condition {
	d, ok := codeDescriptions[code]
	if !ok {
		return ConditionUnknown
	}
	return classifyText(d)
}

// Order matters: "Patchy Light Rain with Thunder" is a storm, not rain.
func classifyText(text string) Condition {
	s := strings.ToLower(text)
	switch {
	case common.HasAny(s, "thunder", "storm"):
		return ConditionStorm
	case common.HasAny(s, "snow", "sleet", "blizzard", "ice", "hail"):
		return ConditionSnow
	case common.HasAny(s, "rain", "drizzle", "shower"):
		return ConditionRain
	case common.HasAny(s, "fog", "mist"):
		return ConditionMist
	case common.HasAny(s, "cloud", "overcast"):
		return ConditionCloudy
	case common.HasAny(s, "clear", "sunny"):
		return ConditionClear
	default:
		return ConditionUnknown
	}
}
