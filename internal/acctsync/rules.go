// Package acctsync reconciles customer account types between the Copper
// CRM and the Fishbowl ERP ledger. Copper is the source of truth for
// account type; manual overrides always win and are never touched.
package acctsync

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ridgepoint/commission-cli/internal/model"
)

//go:embed rules.yaml
var rulesYAML []byte

type typeRule struct {
	Match string `yaml:"match"`
	Type  string `yaml:"type"`
}

// ruleTable holds the normalization rules in evaluation order. Exact
// rules run before substring rules; within each group, the YAML order
// is preserved so specific patterns can shadow general ones.
type ruleTable struct {
	Exact     []typeRule `yaml:"exact"`
	Substring []typeRule `yaml:"substring"`
}

var rules ruleTable

func init() {
	if err := yaml.Unmarshal(rulesYAML, &rules); err != nil {
		panic("acctsync: invalid embedded rules.yaml: " + err.Error())
	}
}

// NormalizeType maps a free-text CRM account-type label onto the
// three-value domain. ok is false when no rule matches; the caller
// decides the default.
func NormalizeType(raw string) (model.AccountType, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}

	for _, r := range rules.Exact {
		if s == r.Match {
			return model.AccountType(r.Type), true
		}
	}
	for _, r := range rules.Substring {
		if strings.Contains(s, r.Match) {
			return model.AccountType(r.Type), true
		}
	}
	return "", false
}
