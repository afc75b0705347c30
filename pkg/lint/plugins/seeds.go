package plugins

import (
	"regexp"
	"strings"

	"github.com/yaklabco/pgmllint/pkg/diag"
	"github.com/yaklabco/pgmllint/pkg/lint"
)

// seedHazard is a call that escapes or resets PG's seeded generator.
type seedHazard struct {
	rx      *regexp.Regexp
	message string
}

//nolint:gochecknoglobals // Compiled once.
var (
	seedHazards = []seedHazard{
		{regexp.MustCompile(`\brand\s*\(`), "rand() may bypass PG seeding; use random() or list_random()."},
		{regexp.MustCompile(`\bsrand\s*\(`), "srand() overrides PG seeding; avoid for stable seeds."},
		{regexp.MustCompile(`\btime\s*\(`), "time() makes values depend on the clock; avoid for stable seeds."},
		{regexp.MustCompile(`\blocaltime\s*\(`), "localtime() makes values depend on the clock; avoid for stable seeds."},
		{regexp.MustCompile(`\bgmtime\s*\(`), "gmtime() makes values depend on the clock; avoid for stable seeds."},
		{regexp.MustCompile(`\bSRAND\s*\(`), "SRAND() resets the PG random generator; avoid for stable seeds."},
		{regexp.MustCompile(`\bProblemRandomize\s*\(`), "ProblemRandomize() reseeds across attempts; confirm this is intended."},
		{regexp.MustCompile(`\bPeriodicRerandomization\s*\(`), "PeriodicRerandomization() reseeds by attempt; confirm this is intended."},
		{regexp.MustCompile(`\brand_button\s*\(`), "rand_button() can reseed problems; confirm this is intended."},
		{regexp.MustCompile(`\brandomizeCheckbox\s*\(`), "randomizeCheckbox() can reseed problems; confirm this is intended."},
		{regexp.MustCompile(`\brandomizeButton\s*\(`), "randomizeButton() can reseed problems; confirm this is intended."},
		{regexp.MustCompile(`\brandomizeInput\s*\(`), "randomizeInput() can reseed problems; confirm this is intended."},
		{regexp.MustCompile(`\brandomizeHTML\s*\(`), "randomizeHTML() can reseed problems; confirm this is intended."},
	}

	randomizationRx = regexp.MustCompile(`\b(?:` +
		`random|non_zero_random|list_random|random_subset|random_coprime|random_pairwise_coprime|` +
		`NchooseK|shuffle|shufflemap|randomPermutation|randomPrime|random_inv_matrix|random_diag_matrix|` +
		`urand|exprand|poissonrand|binomrand|bernoullirand|discreterand|` +
		`GRgraph_size_random|GRgraph_size_random_weight_dweight|GRgraphpic_dim_random_labels_weight_dweight|` +
		`randomPerson|randomLastName|list_random_multi_uniq|bkell_list_random_selection|` +
		`ProblemRandomize|PeriodicRerandomization|rand_button|randomizeCheckbox|randomizeButton|` +
		`randomizeInput|randomizeHTML|SRAND|rand` +
		`)\s*\(|\bPGrandom\b|\bPG_random_generator\b|\$(?:PG_original_)?problemSeed\b`)
)

// SeedStabilityPlugin warns about randomness that ignores the problem seed.
type SeedStabilityPlugin struct {
	lint.BasePlugin
}

// NewSeedStabilityPlugin creates the pgml_seed_stability plugin.
func NewSeedStabilityPlugin() *SeedStabilityPlugin {
	return &SeedStabilityPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_seed_stability",
			"Seed stability checks",
			"Perl rand(), clock calls and reseeding helpers make a problem vary outside its seed",
		),
	}
}

// Run checks each code line. Calls inside literals and method calls such
// as $obj->rand() are ignored.
func (p *SeedStabilityPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	var issues []diag.Issue
	for i, raw := range strings.Split(pc.Stripped, "\n") {
		line := codeLine(raw)
		if line == "" {
			continue
		}
		mask := stringMask(line)
		for _, hazard := range seedHazards {
			for _, loc := range hazard.rx.FindAllStringIndex(line, -1) {
				if mask[loc[0]] || isQualified(line, loc[0]) {
					continue
				}
				issues = append(issues, diag.Warning(hazard.message).At(pc.Index.Position(pc.Index.LineStart(i+1)+loc[0])))
			}
		}
	}
	return issues, nil
}

// SeedVariationPlugin warns when a problem never draws on its seed.
type SeedVariationPlugin struct {
	lint.BasePlugin
}

// NewSeedVariationPlugin creates the pgml_seed_variation plugin.
func NewSeedVariationPlugin() *SeedVariationPlugin {
	return &SeedVariationPlugin{
		BasePlugin: lint.NewBasePlugin(
			"pgml_seed_variation",
			"Seed variation detection",
			"Problems should use PG randomization so every student gets a different version",
		),
	}
}

// Run only looks at problem files, those calling DOCUMENT().
func (p *SeedVariationPlugin) Run(pc *lint.PluginContext) ([]diag.Issue, error) {
	if !isProblemFile(pc) {
		return nil, nil
	}
	for _, raw := range strings.Split(pc.Stripped, "\n") {
		line := codeLine(raw)
		mask := stringMask(line)
		for _, loc := range randomizationRx.FindAllStringIndex(line, -1) {
			if !mask[loc[0]] {
				return nil, nil
			}
		}
	}
	return []diag.Issue{
		diag.Warning("No seed-based randomization detected; answer may not vary with seed").AtLine(1),
	}, nil
}
