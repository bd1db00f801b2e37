package risk

import (
	"embed"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const counselingRulesEnv = "COUNSELING_RULES_YAML"

//go:embed counseling.yaml
var counselingRulesFS embed.FS

// fallback rule table used when the YAML is missing or invalid
var fallbackCounselingRules = []counselingRule{
	{When: "motivation_low", Text: "Schedule a motivational check-in and set one small, reachable weekly goal together."},
	{When: "fees_unpaid", Text: "Refer the student to the financial aid office about the outstanding fee balance."},
	{When: "behavior_concern", Text: "Arrange a one-on-one session with the school counselor to talk through recent behavior."},
	{When: "low_attendance", Text: "Set up an attendance recovery plan and agree on a minimum sessions-per-week target."},
	{When: "low_cgpa", Text: "Connect the student with peer tutoring or an academic support group for weak subjects."},
	{When: "default", Text: "Continue regular mentoring check-ins and re-assess next month."},
}

type counselingRule struct {
	When string `yaml:"when"`
	Text string `yaml:"text"`
}

type counselingRuleFile struct {
	Rules []counselingRule `yaml:"rules"`
}

var (
	counselingOnce  sync.Once
	counselingRules []counselingRule
)

func loadCounselingRules() []counselingRule {
	counselingOnce.Do(func() {
		counselingRules = fallbackCounselingRules
		data, err := readCounselingYAML()
		if err != nil {
			return
		}
		var file counselingRuleFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return
		}
		if len(file.Rules) > 0 {
			counselingRules = file.Rules
		}
	})
	return counselingRules
}

func readCounselingYAML() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(counselingRulesEnv)); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return data, nil
		}
	}
	return counselingRulesFS.ReadFile("counseling.yaml")
}

// CounselingContext is everything the rule conditions can look at: the
// mapped qualitative sub-scores plus whichever quantitative signals the
// assessment resolved (supplied by the mentor or retained from the student).
type CounselingContext struct {
	Sub               SubScores
	AttendancePercent *float64
	CGPA              *float64
}

// Counsel returns one to four suggestion strings chosen by matching the rule
// table against the worst sub-factors. Purely deterministic: identical input
// produces identical suggestions in identical order.
func Counsel(cc CounselingContext) []string {
	const maxSuggestions = 4
	out := make([]string, 0, maxSuggestions)
	for _, rule := range loadCounselingRules() {
		if rule.When == "default" {
			continue
		}
		if ruleMatches(rule.When, cc) {
			out = append(out, rule.Text)
			if len(out) == maxSuggestions {
				return out
			}
		}
	}
	if len(out) == 0 {
		for _, rule := range loadCounselingRules() {
			if rule.When == "default" {
				out = append(out, rule.Text)
				break
			}
		}
	}
	return out
}

func ruleMatches(when string, cc CounselingContext) bool {
	switch when {
	case "motivation_low":
		return cc.Sub.Motivation >= 7
	case "fees_unpaid":
		return cc.Sub.Fees >= 7
	case "behavior_concern":
		return cc.Sub.Behavior >= 7
	case "low_attendance":
		return cc.AttendancePercent != nil && *cc.AttendancePercent < 60
	case "low_cgpa":
		return cc.CGPA != nil && *cc.CGPA < 5
	default:
		return false
	}
}
