// Package settings is the presentation-side adapter around the stored
// server credentials.
//
// It shows, submits and resets the credentials and runs the "try settings"
// probe on request. Submitting never probes: settings are saved as given
// and only checked when the user asks for it.
package settings
