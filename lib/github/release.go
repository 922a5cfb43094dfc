package github

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Platform is a row in the release tracking table. Major platforms run
// the full test matrix; the rest are marked skip.
type Platform struct {
	Name    string
	IsMajor bool
}

// DefaultPlatforms is the platform set tracked for every release.
var DefaultPlatforms = []Platform{
	{Name: "Alpine Linux aarch64", IsMajor: true},
	{Name: "Alpine Linux x64"},
	{Name: "Linux aarch64", IsMajor: true},
	{Name: "Linux armv7l"},
	{Name: "Linux ppc64le"},
	{Name: "Linux s390x"},
	{Name: "Linux x64", IsMajor: true},
	{Name: "macOS aarch64", IsMajor: true},
	{Name: "macOS x64", IsMajor: true},
	{Name: "Windows aarch64"},
	{Name: "Windows x64", IsMajor: true},
	{Name: "Windows x86-32"},
}

// ReleaseTemplate renders the standardized release issue.
type ReleaseTemplate struct {
	Platforms []Platform
}

func NewReleaseTemplate(platforms []Platform) ReleaseTemplate {
	if platforms == nil {
		platforms = DefaultPlatforms
	}
	return ReleaseTemplate{Platforms: platforms}
}

func (t ReleaseTemplate) Title(month, year, version string) string {
	return fmt.Sprintf("%s %s JDK: %s", month, year, version)
}

// Body renders the markdown platform table for the issue.
func (t ReleaseTemplate) Body(version string) string {
	major := MajorVersion(version)

	rows := []string{
		fmt.Sprintf(
			"| Platform            | JDK%s | Status :white_check_mark: | Jenkins job Owner | "+
				"Auto-manuals Owner | Interactives Owner | Build links | Results Comment Link |\n"+
				"| ------------------- | ---------- | ----- | ----- | ----- | ----- | ----- | ----- |",
			major,
		),
	}

	for _, platform := range t.Platforms {
		if platform.IsMajor {
			rows = append(rows, fmt.Sprintf(
				"| **%s**       | All        |  |  |  | run | JDK / JRE | Results |",
				platform.Name,
			))
		} else {
			rows = append(rows, fmt.Sprintf(
				"| %s         |   |  |  |  | skip | JDK / JRE | Results |",
				platform.Name,
			))
		}
	}

	return fmt.Sprintf("### JDK%s\n\n%s", major, strings.Join(rows, "\n"))
}

var majorVersionRegex = regexp.MustCompile(`^(\d+)`)

// MajorVersion extracts the leading major version from strings like
// "21.0.4+7" or "8u462-b06". Unparseable versions fall back to "X".
func MajorVersion(version string) string {
	if match := majorVersionRegex.FindStringSubmatch(version); match != nil {
		return match[1]
	}
	slog.Warn("could not extract major version", "version", version)
	return "X"
}
