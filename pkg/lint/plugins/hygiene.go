package plugins

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/lint"
)

const (
	defaultMaxLineLength  = 200
	defaultHardLineLength = 400
)

//nolint:gochecknoglobals // Compiled once.
var (
	nbspRx   = regexp.MustCompile("[\u00a0\u202f]")
	base64Rx = regexp.MustCompile(`[A-Za-z0-9+/]{800,}={0,2}`)

	// UTF-8 read as Latin-1 or Windows-1252, plus the replacement character.
	mojibakeRx = regexp.MustCompile("\u00c2|\u00c3|\u00e2[\u0080-\u009f]|\u00e2\u20ac|\ufffd")
)

// NBSPPlugin warns about non-breaking spaces.
type NBSPPlugin struct {
	lint.BasePlugin
}

// NewNBSPPlugin creates the pgml_nbsp plugin.
func NewNBSPPlugin() *NBSPPlugin {
	return &NBSPPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_nbsp",
			"Non-breaking spaces",
			"U+00A0 and U+202F spaces render unpredictably and should be plain spaces",
		),
	}
}

// Run reports each affected line once.
func (p *NBSPPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for i, line := range strings.Split(pc.Stripped, "\n") {
		if loc := nbspRx.FindStringIndex(line); loc != nil {
			issues = append(issues, diag.Warning("Non-breaking space detected; replace with a normal space to avoid layout surprises").
				At(pc.Index.Position(pc.Index.LineStart(i+1)+loc[0])))
		}
	}
	return issues, nil
}

// LineLengthPlugin warns about extremely long lines.
type LineLengthPlugin struct {
	lint.BasePlugin
}

// NewLineLengthPlugin creates the pgml_line_length plugin.
func NewLineLengthPlugin() *LineLengthPlugin {
	return &LineLengthPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_line_length",
			"Extreme line length",
			"Lines longer than 200 characters, or 400 for the hard limit, are hard to review and often hide data blobs",
		),
	}
}

// Run measures each line in characters with its comment removed. The
// limits come from the "max" and "hard_max" options.
func (p *LineLengthPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	maxLen := pc.OptionInt("max", defaultMaxLineLength)
	hardMax := max(pc.OptionInt("hard_max", defaultHardLineLength), maxLen)

	var issues []diag.Issue
	for i, raw := range pc.Lines() {
		line := i + 1
		code := codeLine(raw)
		length := utf8.RuneCountInString(code)
		if length <= maxLen {
			continue
		}
		if length <= hardMax {
			issues = append(issues, diag.Warning(fmt.Sprintf("Line length %d exceeds %d characters", length, maxLen)).AtLine(line))
			continue
		}
		issues = append(issues, diag.Warning(fmt.Sprintf("Line length %d exceeds %d characters", length, hardMax)).AtLine(line))
		if !strings.ContainsAny(code, " \t") {
			issues = append(issues, diag.Warning("Long line without whitespace suggests embedded blob payload").AtLine(line))
		}
	}
	return issues, nil
}

// BlobPayloadsPlugin warns about embedded base64 and GeoGebra payloads.
type BlobPayloadsPlugin struct {
	lint.BasePlugin
}

// NewBlobPayloadsPlugin creates the pgml_blob_payloads plugin.
func NewBlobPayloadsPlugin() *BlobPayloadsPlugin {
	return &BlobPayloadsPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_blob_payloads",
			"Embedded blob payloads",
			"Base64 data and GeoGebra ggbbase64 payloads bloat problems and belong in separate files",
		),
	}
}

// Run scans the raw text for base64 runs and each line for payload markers.
func (p *BlobPayloadsPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for _, loc := range base64Rx.FindAllStringIndex(pc.Text, -1) {
		issues = append(issues, diag.Warning("Base64-like blob payload detected; consider removing embedded data").
			AtLine(pc.Index.LineOf(loc[0])))
	}

	for i, raw := range pc.Lines() {
		code := codeLine(raw)
		lower := strings.ToLower(code)
		if strings.Contains(lower, "ggbbase64") {
			issues = append(issues, diag.Warning("ggbbase64 payload marker detected; avoid embedded applet blobs").AtLine(i+1))
		}
		if strings.Contains(lower, "base64") && strings.Contains(code, "=>") {
			issues = append(issues, diag.Warning("base64 payload marker detected; avoid embedded blobs").AtLine(i+1))
		}
	}
	return issues, nil
}

// MojibakePlugin warns about byte sequences left behind by encoding mixups.
type MojibakePlugin struct {
	lint.BasePlugin
}

// NewMojibakePlugin creates the pgml_mojibake plugin.
func NewMojibakePlugin() *MojibakePlugin {
	return &MojibakePlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_mojibake",
			"Mojibake/encoding glitches",
			"UTF-8 text decoded as Latin-1 and replacement characters point to an encoding mixup",
		),
	}
}

// Run reports the first suspicious sequence of each line.
func (p *MojibakePlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for i, line := range strings.Split(pc.Stripped, "\n") {
		token := mojibakeRx.FindString(line)
		if token == "" {
			continue
		}
		msg := fmt.Sprintf("Possible mojibake sequence %s detected; check for UTF-8/Latin-1 encoding mixups",
			strconv.QuoteToASCII(token))
		issues = append(issues, diag.Warning(msg).AtLine(i+1))
	}
	return issues, nil
}
