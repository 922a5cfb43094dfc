package github

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTitle(t *testing.T) {
	template := NewReleaseTemplate(nil)
	require.Equal(t, "July 2025 JDK: 21.0.4+7", template.Title("July", "2025", "21.0.4+7"))
}

func TestMajorVersion(t *testing.T) {
	testCases := []struct {
		version  string
		expected string
	}{
		{version: "21.0.4+7", expected: "21"},
		{version: "8u462-b06", expected: "8"},
		{version: "11.0.24+8", expected: "11"},
		{version: "garbage", expected: "X"},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, MajorVersion(test.version), test.version)
	}
}

func TestBody(t *testing.T) {
	template := NewReleaseTemplate(nil)
	body := template.Body("21.0.4+7")

	require.True(t, strings.HasPrefix(body, "### JDK21\n"))
	require.Contains(t, body, "| Platform            | JDK21 |")
	// major platforms are bold and marked run, the rest skip
	require.Contains(t, body, "| **Linux x64**")
	require.Contains(t, body, "| Linux armv7l")

	rows := strings.Split(body, "\n")
	// heading, blank line, two header rows, one row per platform
	require.Len(t, rows, 4+len(DefaultPlatforms))
}

func TestBodyCustomPlatforms(t *testing.T) {
	template := NewReleaseTemplate([]Platform{
		{Name: "Linux riscv64", IsMajor: true},
	})
	body := template.Body("24+36")

	require.Contains(t, body, "### JDK24")
	require.Contains(t, body, "| **Linux riscv64**")
	require.NotContains(t, body, "Windows")
}
