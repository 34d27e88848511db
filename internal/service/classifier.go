package service

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Security categories reported by the classifier.
const (
	CategorySuspicious = "suspicious"
	CategoryInjection  = "injection"
)

// Ruleset enumerates the classifier's keyword and pattern tables as data so
// they can be tuned without touching code. Patterns are case-insensitive
// regular expressions.
type Ruleset struct {
	HostingKeywords    []string `yaml:"hosting_keywords"`
	SuspiciousPatterns []string `yaml:"suspicious_patterns"`
	InjectionPatterns  []string `yaml:"injection_patterns"`
}

// DefaultRuleset returns the built-in moderation tables.
func DefaultRuleset() Ruleset {
	return Ruleset{
		HostingKeywords: []string{
			"hosting", "webhosting", "vserver", "server", "dedicated", "domain",
			"dns", "ssl", "https", "certificate", "backup", "restore",
			"bandwidth", "traffic", "uptime", "sla", "firewall", "ddos",
			"ssh", "sftp", "mysql", "mariadb", "postgres", "database",
			"docker", "port", "reverse proxy", "nginx", "apache",
			"email", "imap", "smtp", "proxmox", "kvm", "vm", "virtual",
			"ram", "cpu", "ssd", "datacenter", "ipv4", "ipv6",
		},
		SuspiciousPatterns: []string{
			`passwort|password`,
			`token`,
			`api[-\s_]*key`,
			`ssh[-\s_]*key`,
			`db\s*dump`,
			`customer\s*data`,
			`internal\s*data`,
			`private\s*data`,
			`credentials`,
		},
		InjectionPatterns: []string{
			`ignore\s+(all\s+)?(previous\s+)?rules`,
			`forget\s+(all\s+)?instructions`,
			`system\s+prompt`,
			`override\s+instructions`,
			`you\s+are\s+now`,
			`reveal\s+(hidden|secret)\s+(rules|data|prompt)`,
			`simulate\s+(admin|system)`,
			`bypass\s+(restrictions|filters)`,
			`disable\s+(security|safety)`,
			`jailbreak`,
			`exploit`,
			`leak\s+(data|prompt|config)`,
			`output\s+raw\s+(kb|data|memory)`,
			`show\s+(internal|config|secrets)`,
		},
	}
}

// LoadRuleset reads a ruleset from a YAML file. Empty tables fall back to
// the built-in defaults so a rules file can override just one table.
func LoadRuleset(path string) (Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Ruleset{}, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rules Ruleset
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Ruleset{}, fmt.Errorf("failed to parse rules file: %w", err)
	}

	defaults := DefaultRuleset()
	if len(rules.HostingKeywords) == 0 {
		rules.HostingKeywords = defaults.HostingKeywords
	}
	if len(rules.SuspiciousPatterns) == 0 {
		rules.SuspiciousPatterns = defaults.SuspiciousPatterns
	}
	if len(rules.InjectionPatterns) == 0 {
		rules.InjectionPatterns = defaults.InjectionPatterns
	}
	return rules, nil
}

// Classifier applies the two-stage input checks: security patterns first,
// then hosting-domain relevance.
type Classifier struct {
	keywords   []string
	suspicious *regexp.Regexp
	injection  *regexp.Regexp
}

func NewClassifier(rules Ruleset) (*Classifier, error) {
	suspicious, err := compilePatterns(rules.SuspiciousPatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid suspicious pattern: %w", err)
	}
	injection, err := compilePatterns(rules.InjectionPatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid injection pattern: %w", err)
	}

	keywords := make([]string, len(rules.HostingKeywords))
	for i, kw := range rules.HostingKeywords {
		keywords[i] = strings.ToLower(kw)
	}

	return &Classifier{
		keywords:   keywords,
		suspicious: suspicious,
		injection:  injection,
	}, nil
}

func compilePatterns(patterns []string) (*regexp.Regexp, error) {
	joined := make([]string, len(patterns))
	for i, p := range patterns {
		joined[i] = "(?:" + p + ")"
	}
	return regexp.Compile(`(?i)` + strings.Join(joined, "|"))
}

// CheckSecurity returns the matched security category, or ok=true when the
// text is clean. Suspicious data requests take precedence over injection
// phrasing when both match.
func (c *Classifier) CheckSecurity(text string) (category string, ok bool) {
	if c.suspicious.MatchString(text) {
		return CategorySuspicious, false
	}
	if c.injection.MatchString(text) {
		return CategoryInjection, false
	}
	return "", true
}

// IsHostingTopic reports whether the text mentions at least one hosting term.
func (c *Classifier) IsHostingTopic(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range c.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
