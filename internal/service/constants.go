package service

const (
	// Elevation traces live at <paths dir>/<path group><PathsFileExt>
	PathsFileExt = ".csv"

	// Elevation samples kept for the detail chart
	ElevationChartPoints = 120

	// Location written by convert when neither the request nor the track's
	// directory names one
	DefaultLocation = "Unknown"

	// Convert phases reported on the progress channel
	PhaseParse  = "parse"
	PhaseFilter = "filter"
	PhaseStats  = "stats"
	PhaseWrite  = "write"
)
