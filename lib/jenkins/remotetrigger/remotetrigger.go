// Package remotetrigger extracts Parameterized Remote Trigger
// configuration blocks from Jenkins HTML console logs. A block is the
// run of lines between the plugin's configuration banner and the line
// announcing that the remote job was triggered.
package remotetrigger

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"jenkinstools/lib/htmlutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("jenkinstools.lib.jenkins.remotetrigger")

const (
	segmentStartMarker = "Parameterized Remote Trigger Configuration:"
	segmentEndMarker   = "Triggering parameterized remote job"
)

// Field markers printed by the plugin inside a configuration block.
const (
	jobMarker           = "- job:"
	remoteJenkinsMarker = "- remoteJenkinsName:"
	parametersMarker    = "- parameters:"
	blockBuildMarker    = "- blockBuildUntilComplete:"
	retryLimitMarker    = "- connectionRetryLimit:"
	trustCertsMarker    = "- trustAllCertificates:"
)

// parameterKeys is the allow-list of parameter names worth extracting
// from a trigger's parameter line.
var parameterKeys = []string{
	"SDK_RESOURCE",
	"CUSTOMIZED_SDK_URL",
	"PLATFORMS",
	"cause",
	"APPLICATION_OPTIONS",
	"NUM_MACHINES",
	"AUTO_AQA_GEN",
	"RERUN_FAILURE",
	"LABEL_ADDITION",
	"PIPELINE_DISPLAY_NAME",
	"RERUN_ITERATIONS",
	"SETUP_JCK_RUN",
	"TARGETS",
	"EXTRA_OPTIONS",
	"JCK_GIT_REPO",
	"JDK_VERSIONS",
	"PARALLEL",
}

var parameterPatterns = func() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(parameterKeys))
	for _, key := range parameterKeys {
		patterns[key] = regexp.MustCompile(key + `\s*=\s*([^,]+)`)
	}
	return patterns
}()

// RemoteTrigger describes one remote job invocation found in the log.
// The optional fields are nil when the block never printed them.
type RemoteTrigger struct {
	JobName                 string            `json:"job_name"`
	RemoteJenkinsName       string            `json:"remote_jenkins_name"`
	Parameters              map[string]string `json:"parameters"`
	BlockBuildUntilComplete *bool             `json:"block_build_until_complete"`
	ConnectionRetryLimit    *int              `json:"connection_retry_limit"`
	TrustAllCertificates    *bool             `json:"trust_all_certificates"`
	RemoteJobURL            string            `json:"remote_job_url"`
}

type scanState int

const (
	stateIdle scanState = iota
	stateConsuming
)

// ExtractSegments groups the lines belonging to each trigger block.
// The scanner opens a segment on the configuration banner, keeping only
// the remainder of that line, and closes it on (and including) the
// triggering line. A segment still open at end of input is discarded;
// partial segments are never emitted.
func ExtractSegments(lines []string) [][]string {
	var segments [][]string
	var current []string
	state := stateIdle

	for _, line := range lines {
		switch state {
		case stateConsuming:
			current = append(current, strings.TrimSpace(line))
			if strings.Contains(line, segmentEndMarker) {
				segments = append(segments, current)
				current = nil
				state = stateIdle
			}
		case stateIdle:
			if i := strings.Index(line, segmentStartMarker); i >= 0 {
				current = []string{strings.TrimSpace(line[i+len(segmentStartMarker):])}
				state = stateConsuming
			}
		}
	}

	return segments
}

// parseParameters pulls `KEY = value` pairs out of the parameter line,
// consulting only the allow-listed keys. Values run up to the next
// comma.
func parseParameters(line string) map[string]string {
	parameters := map[string]string{}
	for _, key := range parameterKeys {
		match := parameterPatterns[key].FindStringSubmatch(line)
		if match != nil {
			// values may carry anchor markup in HTML logs
			parameters[key] = htmlutil.StripTags(strings.TrimSpace(match[1]))
		}
	}
	return parameters
}

func valueAfter(line, marker string) string {
	_, rest, _ := strings.Cut(line, marker)
	return strings.TrimSpace(rest)
}

func parseBool(value string) *bool {
	if value == "" {
		return nil
	}
	b := strings.EqualFold(value, "true")
	return &b
}

func parseRetryLimit(value string) *int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

var errIncompleteTrigger = errors.New("segment is missing a job name, remote jenkins name or remote job url")

// parseSegment field-parses one closed segment. Blocks that never print
// all of job name, remote Jenkins name and remote job URL do not
// materialize into a record.
func parseSegment(ctx context.Context, lines []string) (RemoteTrigger, error) {
	trigger := RemoteTrigger{Parameters: map[string]string{}}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.Contains(line, jobMarker):
			trigger.JobName = valueAfter(line, jobMarker)
		case strings.Contains(line, remoteJenkinsMarker):
			trigger.RemoteJenkinsName = valueAfter(line, remoteJenkinsMarker)
		case strings.Contains(line, parametersMarker):
			trigger.Parameters = parseParameters(valueAfter(line, parametersMarker))
		case strings.Contains(line, blockBuildMarker):
			trigger.BlockBuildUntilComplete = parseBool(valueAfter(line, blockBuildMarker))
		case strings.Contains(line, retryLimitMarker):
			trigger.ConnectionRetryLimit = parseRetryLimit(valueAfter(line, retryLimitMarker))
		case strings.Contains(line, trustCertsMarker):
			trigger.TrustAllCertificates = parseBool(valueAfter(line, trustCertsMarker))
		case strings.Contains(line, segmentEndMarker):
			// the remainder of the triggering line holds a single
			// anchor pointing at the remote build
			anchors, err := htmlutil.FragmentAnchors(ctx, valueAfter(line, segmentEndMarker))
			if err != nil || len(anchors) == 0 {
				continue
			}
			trigger.RemoteJobURL = anchors[0].Href
		}
	}

	if trigger.JobName == "" || trigger.RemoteJenkinsName == "" || trigger.RemoteJobURL == "" {
		return trigger, errIncompleteTrigger
	}
	return trigger, nil
}

// Parse extracts every well-formed remote trigger block from the full
// log text. Malformed blocks are logged and skipped; they never abort
// the run.
func Parse(ctx context.Context, text string) []RemoteTrigger {
	ctx, span := tracer.Start(ctx, "Parse")
	defer span.End()

	segments := ExtractSegments(strings.Split(text, "\n"))

	var triggers []RemoteTrigger
	for _, segment := range segments {
		trigger, err := parseSegment(ctx, segment)
		if err != nil {
			slog.WarnContext(ctx, "skipping malformed remote trigger block",
				"err", err,
				"job_name", trigger.JobName,
				"lines", len(segment),
			)
			continue
		}
		triggers = append(triggers, trigger)
	}

	span.SetAttributes(attribute.Int("remote_triggers", len(triggers)))
	return triggers
}
