package model

import (
	"fmt"
	"strings"
)

// ProductGroup is the resolved category of an auction lot.
type ProductGroup string

const (
	// GroupUnknown marks a description no rule matched. Callers decide the
	// error policy; classification never silently defaults to a group.
	GroupUnknown  ProductGroup = ""
	GroupCylinder ProductGroup = "cylinder"
	GroupValve    ProductGroup = "valve"
	GroupBrass    ProductGroup = "brass"
)

// Known SKU descriptions, matched exactly after lower-casing and trimming.
var (
	cylinderSKUs = map[string]bool{
		"14.2 kg":      true,
		"19 kg":        true,
		"5 kg":         true,
		"47.5 kg":      true,
		"5 kg ftlr":    true,
		"5 kg nd":      true,
		"47.5 kg lotv": true,
		"19 kg sc":     true,
		"19 kg ncut":   true,
		"5 kg ftl":     true,
		"14.2 kg omc":  true,
	}
	valveSKUs = map[string]bool{
		"sc valve":             true,
		"liquid offtake valve": true,
	}
)

// Keyword rules applied in order when no exact SKU matches.
var keywordRules = []struct {
	keyword string
	group   ProductGroup
}{
	{"cylinder", GroupCylinder},
	{"valve", GroupValve},
}

// ClassifyDescription maps a free-text product description to a group.
// Exact SKU lookup runs first, then substring keyword rules in order.
// Descriptions nothing matches return GroupUnknown.
func ClassifyDescription(description string) ProductGroup {
	desc := strings.ToLower(strings.TrimSpace(description))
	if cylinderSKUs[desc] {
		return GroupCylinder
	}
	if valveSKUs[desc] {
		return GroupValve
	}
	for _, rule := range keywordRules {
		if strings.Contains(desc, rule.keyword) {
			return rule.group
		}
	}
	return GroupUnknown
}

// ParseGroup normalizes a request-supplied group name. Singular/plural and
// case variations are accepted ("Cylinders" -> GroupCylinder).
func ParseGroup(name string) (ProductGroup, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), "s") {
	case "cylinder":
		return GroupCylinder, nil
	case "valve":
		return GroupValve, nil
	case "bras", "brass":
		// TrimSuffix eats the trailing s of "brass".
		return GroupBrass, nil
	default:
		return GroupUnknown, fmt.Errorf("unrecognized product group %q", name)
	}
}

// ModelPrefix is the artifact-name prefix for the group's trained models.
func (g ProductGroup) ModelPrefix() string {
	switch g {
	case GroupCylinder:
		return "cyl"
	case GroupValve:
		return "valve"
	case GroupBrass:
		return "brass"
	default:
		return ""
	}
}

// CylinderSKUs and ValveSKUs expose the exact-match tables for listing
// endpoints. The returned slices are copies.
func CylinderSKUs() []string { return keys(cylinderSKUs) }
func ValveSKUs() []string    { return keys(valveSKUs) }

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
