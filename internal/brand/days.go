package brand

// Day group keys used in working hours
const (
	DayWeekdays = "weekdays"
	DaySaturday = "saturday"
	DaySunday   = "sunday"
)

// DayOrder is the display order of the known day groups
var DayOrder = []string{DayWeekdays, DaySaturday, DaySunday}

var dayLabels = map[string]string{
	DayWeekdays: "Hafta İçi",
	DaySaturday: "Cumartesi",
	DaySunday:   "Pazar",
}

// DayLabel returns the Turkish label for a day group key, or the key itself
func DayLabel(key string) string {
	if label, ok := dayLabels[key]; ok {
		return label
	}
	return key
}
