// Package consolelog turns the raw text of a Jenkins build console log
// into a structured summary: the upstream pipeline that triggered the
// run and the release jobs the run spawned.
package consolelog

import (
	"context"
	"log/slog"
	"strings"

	"jenkinstools/lib/htmlutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("jenkinstools.lib.jenkins.consolelog")

// Literal markers emitted by the Jenkins log renderer. All three must
// appear on a line for it to count as a child-job announcement.
const (
	startBuildingMarker = "Starting building: "
	releaseJobMarker    = "-release-"
	distributionMarker  = "temurin"
)

// Markers of the one-off upstream banner near the top of the log.
const (
	upstreamProjectMarker = "Started by upstream project "
	buildNumberMarker     = "build number"
)

// ParentInfo identifies the upstream pipeline that triggered this run.
type ParentInfo struct {
	PipelineName string `json:"pipeline_name"`
	PipelineURL  string `json:"pipeline_url"`
	BuildNumber  string `json:"build_number"`
	BuildURL     string `json:"build_url"`
}

func unknownParent() ParentInfo {
	return ParentInfo{
		PipelineName: "Unknown",
		BuildNumber:  "Unknown",
	}
}

// SpawnedJob is one downstream release job announced in the log.
// Result is never set by the parser; it is reserved for enrichment from
// the job's own build record.
type SpawnedJob struct {
	Text   string `json:"text"`
	Number string `json:"number"`
	OS     string `json:"os"`
	Arch   string `json:"arch"`
	JDK    string `json:"jdk"`
	URL    string `json:"url,omitempty"`
	Result string `json:"result,omitempty"`
}

// Report is the combined result of both scan passes over one log.
type Report struct {
	Parent      ParentInfo            `json:"parent"`
	SpawnedJobs map[string]SpawnedJob `json:"spawned_jobs"`
}

// The line predicates are deliberately dumb literal-substring checks:
// they encode the exact shape of one Jenkins renderer's output, and a
// renderer change should only ever require swapping a predicate.

func isChildJobLine(line string) bool {
	return strings.Contains(line, startBuildingMarker) &&
		strings.Contains(line, releaseJobMarker) &&
		strings.Contains(line, distributionMarker)
}

func isUpstreamBannerLine(line string) bool {
	return strings.Contains(line, upstreamProjectMarker) &&
		strings.Contains(line, buildNumberMarker)
}

func hasExactlyTwoAnchors(anchors []htmlutil.Anchor) bool {
	return len(anchors) == 2
}

// jobNameFromURL pulls the job identifier out of a build URL path.
// Exactly one path segment must carry both job-name markers; zero or
// several qualifying segments means the URL is not one we recognize.
func jobNameFromURL(url string) (string, bool) {
	var name string
	matches := 0
	for _, segment := range strings.Split(url, "/") {
		if strings.Contains(segment, releaseJobMarker) && strings.Contains(segment, distributionMarker) {
			name = segment
			matches++
		}
	}
	if matches != 1 {
		return "", false
	}
	return name, true
}

// buildNumberFromText returns the portion of an anchor's text after the
// "#" delimiter, e.g. "jdk21u-release-linux-x64-temurin #42" -> "42".
func buildNumberFromText(text string) string {
	i := strings.Index(text, "#")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(text[i+1:])
}

// ExtractSpawnedJobs scans the log for child-job announcements and
// returns one entry per distinct job identifier. Candidates whose
// identifier is missing from the platform table are dropped: jobs the
// table does not describe are not release-platform jobs. A later line
// for the same identifier overwrites the earlier entry.
func ExtractSpawnedJobs(ctx context.Context, lines []string, table PlatformTable) map[string]SpawnedJob {
	ctx, span := tracer.Start(ctx, "ExtractSpawnedJobs")
	defer span.End()

	jobs := map[string]SpawnedJob{}
	for _, line := range lines {
		if !isChildJobLine(line) {
			continue
		}

		anchors, err := htmlutil.FragmentAnchors(ctx, line)
		if err != nil {
			slog.DebugContext(ctx, "skipping unparseable job line", "err", err)
			continue
		}
		if len(anchors) == 0 {
			continue
		}
		anchor := anchors[0]

		name, ok := jobNameFromURL(anchor.Href)
		if !ok {
			slog.DebugContext(ctx, "no unambiguous job name in url", "url", anchor.Href)
			continue
		}
		platform, ok := table[name]
		if !ok {
			continue
		}

		jobs[name] = SpawnedJob{
			Text:   anchor.Text,
			Number: buildNumberFromText(anchor.Text),
			OS:     platform.OS,
			Arch:   platform.Arch,
			JDK:    platform.JDK,
			URL:    anchor.Href,
		}
	}

	span.SetAttributes(attribute.Int("spawned_jobs", len(jobs)))
	return jobs
}

// ExtractParentInfo scans for the upstream-project banner. Jenkins emits
// it once near the top of the log, so only the first qualifying line is
// considered; it must carry exactly two anchors (pipeline, then build).
func ExtractParentInfo(ctx context.Context, lines []string) ParentInfo {
	ctx, span := tracer.Start(ctx, "ExtractParentInfo")
	defer span.End()

	parent := unknownParent()
	for _, line := range lines {
		if !isUpstreamBannerLine(line) {
			continue
		}

		rest := line[strings.Index(line, upstreamProjectMarker)+len(upstreamProjectMarker):]
		anchors, err := htmlutil.FragmentAnchors(ctx, rest)
		if err != nil {
			slog.DebugContext(ctx, "skipping unparseable upstream banner", "err", err)
			break
		}
		if hasExactlyTwoAnchors(anchors) {
			parent.PipelineName = anchors[0].Text
			parent.PipelineURL = anchors[0].Href
			parent.BuildNumber = anchors[1].Text
			parent.BuildURL = anchors[1].Href
		}
		break
	}
	return parent
}

// Parse runs both scan passes over the full console text.
func Parse(ctx context.Context, text string, table PlatformTable) Report {
	ctx, span := tracer.Start(ctx, "Parse")
	defer span.End()

	lines := strings.Split(text, "\n")
	return Report{
		Parent:      ExtractParentInfo(ctx, lines),
		SpawnedJobs: ExtractSpawnedJobs(ctx, lines, table),
	}
}
