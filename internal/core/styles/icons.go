package styles

// Notification icons, one per kind.
var (
	IconNotifySuccess = "✔"
	IconNotifyError   = "✖"
	IconNotifyWarning = "⚠"
	IconNotifyInfo    = "ℹ"
)

// Record listing icons.
var (
	IconCalendar    = "📅"
	IconTemperature = "🌡"
	IconComment     = "💬"
	IconImage       = "🖼"
)
