package config

const (
	WindowWidth  = 1024
	WindowHeight = 512

	// The layers render at 1/RenderScale of the window and are scaled up.
	RenderScale = 2

	VisualRingSize  = 8192
	SmoothingFactor = 0.6
	SustainTicks    = 200

	// Button dimensions
	ButtonWidth  = 120
	ButtonHeight = 40
	ButtonX      = 20
	ButtonY      = 50

	// Progress bar
	ProgressX      = 20
	ProgressY      = WindowHeight - 30
	ProgressHeight = 6

	// Operator controls
	IntensityStep = 0.1
	PaletteSet    = "standard"
)
