package export

import "fmt"

// Version information for GoSlides.
const (
	VersionMajor = 0
	VersionMinor = 4
	VersionPatch = 0
)

// Version is the full version string, recorded as the PDF creator.
var Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
