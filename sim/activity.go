package sim

// Session windows in the reference timezone (hours of day). London is
// checked first, so the 13-16 overlap takes the London multiplier.
const (
	londonOpen  = 8
	londonClose = 16
	nyOpen      = 13
	nyClose     = 21
)

// Activity returns the market-activity multiplier for an hour of day:
// high during London hours, highest during the NY session, quiet
// otherwise (Asian session).
func Activity(hour int) float64 {
	switch {
	case hour >= londonOpen && hour <= londonClose:
		return 1.5
	case hour >= nyOpen && hour <= nyClose:
		return 2.0
	default:
		return 0.5
	}
}
