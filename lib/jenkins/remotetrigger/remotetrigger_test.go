package remotetrigger

import (
	"context"
	"strings"
	"testing"

	"jenkinstools/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const triggerBlock = `some earlier output
Parameterized Remote Trigger Configuration: remote trigger details below
  - job: AQA_Test_Pipeline
  - remoteJenkinsName: temurin-compliance
  - parameters: SDK_RESOURCE = customized, CUSTOMIZED_SDK_URL = https://example.com/sdk.tar.gz, TARGETS = sanity.jck, PARALLEL = Dynamic
  - blockBuildUntilComplete: true
  - connectionRetryLimit: 5
  - trustAllCertificates: false
Triggering parameterized remote job <a href="https://remote.example.com/job/AQA_Test_Pipeline/">AQA_Test_Pipeline</a>
trailing output`

func TestExtractSegments(t *testing.T) {
	segments := ExtractSegments(strings.Split(triggerBlock, "\n"))

	require.Len(t, segments, 1)
	segment := segments[0]
	require.Equal(t, "remote trigger details below", segment[0])
	require.Contains(t, segment[len(segment)-1], "Triggering parameterized remote job")
}

func TestExtractSegmentsUnterminated(t *testing.T) {
	lines := []string{
		"Parameterized Remote Trigger Configuration:",
		"  - job: AQA_Test_Pipeline",
		"  - remoteJenkinsName: temurin-compliance",
	}
	require.Empty(t, ExtractSegments(lines))
}

func TestExtractSegmentsMultiple(t *testing.T) {
	text := triggerBlock + "\n" + triggerBlock
	segments := ExtractSegments(strings.Split(text, "\n"))
	require.Len(t, segments, 2)
}

func TestParse(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:remotetrigger")
	defer cleanup()

	triggers := Parse(context.Background(), triggerBlock)
	require.Len(t, triggers, 1)

	trigger := triggers[0]
	require.Equal(t, "AQA_Test_Pipeline", trigger.JobName)
	require.Equal(t, "temurin-compliance", trigger.RemoteJenkinsName)
	require.Equal(t, "https://remote.example.com/job/AQA_Test_Pipeline/", trigger.RemoteJobURL)

	require.Empty(t, cmp.Diff(map[string]string{
		"SDK_RESOURCE":       "customized",
		"CUSTOMIZED_SDK_URL": "https://example.com/sdk.tar.gz",
		"TARGETS":            "sanity.jck",
		"PARALLEL":           "Dynamic",
	}, trigger.Parameters))

	require.NotNil(t, trigger.BlockBuildUntilComplete)
	require.True(t, *trigger.BlockBuildUntilComplete)
	require.NotNil(t, trigger.ConnectionRetryLimit)
	require.Equal(t, 5, *trigger.ConnectionRetryLimit)
	require.NotNil(t, trigger.TrustAllCertificates)
	require.False(t, *trigger.TrustAllCertificates)
}

func TestParseDropsIncompleteBlocks(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:remotetrigger")
	defer cleanup()

	text := strings.Join([]string{
		"Parameterized Remote Trigger Configuration:",
		"  - job: AQA_Test_Pipeline",
		// no remoteJenkinsName
		`Triggering parameterized remote job <a href="https://remote.example.com/job/AQA_Test_Pipeline/">AQA_Test_Pipeline</a>`,
	}, "\n")

	require.Empty(t, Parse(context.Background(), text))
}

func TestParseNoTriggers(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:remotetrigger")
	defer cleanup()

	require.Empty(t, Parse(context.Background(), "just a normal log\nwith nothing interesting"))
}

func TestParseOptionalFields(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:remotetrigger")
	defer cleanup()

	text := strings.Join([]string{
		"Parameterized Remote Trigger Configuration:",
		"  - job: AQA_Test_Pipeline",
		"  - remoteJenkinsName: temurin-compliance",
		"  - parameters: TARGETS = extended.jck",
		"  - blockBuildUntilComplete:",
		"  - connectionRetryLimit: not-a-number",
		`Triggering parameterized remote job <a href="https://remote.example.com/job/AQA_Test_Pipeline/">AQA_Test_Pipeline</a>`,
	}, "\n")

	triggers := Parse(context.Background(), text)
	require.Len(t, triggers, 1)
	require.Nil(t, triggers[0].BlockBuildUntilComplete)
	require.Nil(t, triggers[0].ConnectionRetryLimit)
	require.Nil(t, triggers[0].TrustAllCertificates)
}

func TestParseParametersEscapedURL(t *testing.T) {
	parameters := parseParameters("CUSTOMIZED_SDK_URL = https://example.com/a%20b.tar.gz, TARGETS = sanity.openjdk")
	require.Equal(t, "https://example.com/a b.tar.gz", parameters["CUSTOMIZED_SDK_URL"])
	require.Equal(t, "sanity.openjdk", parameters["TARGETS"])
}
