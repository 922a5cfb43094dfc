package htmlutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFragmentAnchors(t *testing.T) {
	anchors, err := FragmentAnchors(
		context.Background(),
		`prefix <a href="/job/one/1/">one #1</a> middle <a href="/job/two/2/">two   #2</a>`,
	)
	require.NoError(t, err)
	require.Len(t, anchors, 2)

	require.Equal(t, "one #1", anchors[0].Text)
	require.Equal(t, "/job/one/1/", anchors[0].Href)
	// inner runs of whitespace collapse to a single space
	require.Equal(t, "two #2", anchors[1].Text)
	require.Equal(t, "/job/two/2/", anchors[1].Href)
}

func TestFragmentAnchorsPlainText(t *testing.T) {
	anchors, err := FragmentAnchors(context.Background(), "no markup on this line")
	require.NoError(t, err)
	require.Empty(t, anchors)
}

func TestFragmentAnchorsMissingHref(t *testing.T) {
	anchors, err := FragmentAnchors(context.Background(), `<a name="plain-anchor">text</a>`)
	require.NoError(t, err)
	require.Len(t, anchors, 1)
	require.Empty(t, anchors[0].Href)
}

func TestStripTags(t *testing.T) {
	testCases := []struct {
		fragment string
		expected string
	}{
		{
			fragment: `<a href="https://example.com/">example</a>`,
			expected: "example",
		},
		{
			fragment: "  plain text  ",
			expected: "plain text",
		},
		{
			fragment: "https://example.com/a%20b.tar.gz",
			expected: "https://example.com/a b.tar.gz",
		},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, StripTags(test.fragment), test.fragment)
	}
}
