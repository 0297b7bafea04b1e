package version

// Version represents the current version of sf-log-downloader
const Version = "1.2.0"

// BuildVersion returns the version string for display
func BuildVersion() string {
	return "sf-log-downloader version " + Version
}
