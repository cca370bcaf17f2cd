package cleanup

import (
	"fmt"
	"regexp"
	"slices"
)

// DefaultBranchNames are exempt from deletion when nothing else is configured.
var DefaultBranchNames = []string{"master", "main"}

// Rules holds the configuration the classifier applies to branch names.
type Rules struct {
	DefaultNames      []string
	ProtectedPatterns []*regexp.Regexp
}

// DefaultRules returns rules with DefaultBranchNames and no protected patterns.
func DefaultRules() Rules {
	return Rules{DefaultNames: slices.Clone(DefaultBranchNames)}
}

// CompileRules builds Rules from configured names and regular expressions.
// Patterns match anywhere in the branch name unless anchored.
func CompileRules(defaultNames, protectedPatterns []string) (Rules, error) {
	rules := Rules{DefaultNames: slices.Clone(defaultNames)}
	for i, p := range protectedPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return Rules{}, fmt.Errorf("invalid protected pattern [%d] %q: %w", i, p, err)
		}
		rules.ProtectedPatterns = append(rules.ProtectedPatterns, re)
	}
	return rules, nil
}

// Classify applies the rules to a branch name.
func (r Rules) Classify(branch string) Classification {
	return Classify(branch, r.DefaultNames, r.ProtectedPatterns)
}

// Classify labels a branch. An exact default name wins over a protected
// pattern; anything matching neither is Deletable.
func Classify(branch string, defaultNames []string, protectedPatterns []*regexp.Regexp) Classification {
	if slices.Contains(defaultNames, branch) {
		return Default
	}
	for _, re := range protectedPatterns {
		if re.MatchString(branch) {
			return Protected
		}
	}
	return Deletable
}
