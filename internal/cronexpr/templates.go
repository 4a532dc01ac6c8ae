package cronexpr

// Template is a ready-made expression offered as a starting point.
type Template struct {
	Name        string `json:"name"`
	Expression  string `json:"expression"`
	Description string `json:"description"`
}

var templates = map[Dialect][]Template{
	Unix5: {
		{Name: "every minute", Expression: "* * * * *", Description: "runs once a minute"},
		{Name: "every hour", Expression: "0 * * * *", Description: "runs at minute 0 of every hour"},
		{Name: "daily at midnight", Expression: "0 0 * * *", Description: "runs every day at 00:00"},
		{Name: "weekdays at 9", Expression: "0 9 * * 1-5", Description: "runs Monday to Friday at 09:00"},
	},
	Spring: {
		{Name: "every minute", Expression: "0 * * * * *", Description: "runs once a minute"},
		{Name: "every hour", Expression: "0 0 * * * *", Description: "runs at 0:00 past every hour"},
		{Name: "daily at midnight", Expression: "0 0 0 * * *", Description: "runs every day at 00:00"},
		{Name: "weekdays at 9", Expression: "0 0 9 * * MON-FRI", Description: "runs Monday to Friday at 09:00"},
	},
	Quartz: {
		{Name: "every minute", Expression: "0 * * ? * *", Description: "runs once a minute"},
		{Name: "every hour", Expression: "0 0 * ? * *", Description: "runs at 0:00 past every hour"},
		{Name: "daily at midnight", Expression: "0 0 0 ? * *", Description: "runs every day at 00:00"},
		{Name: "weekdays at 9", Expression: "0 0 9 ? * MON-FRI", Description: "runs Monday to Friday at 09:00"},
	},
}

// Templates returns the common templates for d (nil for unknown dialects).
func Templates(d Dialect) []Template {
	src := templates[d]
	if src == nil {
		return nil
	}
	return append([]Template(nil), src...)
}
