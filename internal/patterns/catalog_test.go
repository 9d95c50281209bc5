package patterns

import (
	"strings"
	"testing"

	"lease-risk-eval/internal/report"
)

func TestCatalogIntegrity(t *testing.T) {
	entries := Catalog()
	if len(entries) == 0 {
		t.Fatal("catalog is empty")
	}

	seen := map[string]bool{}
	for _, p := range entries {
		if p.ID == "" || seen[p.ID] {
			t.Fatalf("missing or duplicate id %q", p.ID)
		}
		seen[p.ID] = true

		if !report.ValidCategory(p.Category) {
			t.Fatalf("%s: invalid category %q", p.ID, p.Category)
		}
		if !report.ValidSeverity(p.Severity) {
			t.Fatalf("%s: invalid severity %q", p.ID, p.Severity)
		}
		if p.Name == "" || p.Explanation == "" {
			t.Fatalf("%s: missing name or explanation", p.ID)
		}
		if len(p.Keywords) == 0 {
			t.Fatalf("%s: no keywords", p.ID)
		}
		for _, k := range p.Keywords {
			if strings.TrimSpace(k) == "" {
				t.Fatalf("%s: blank keyword", p.ID)
			}
		}
		if p.IsMalicious && p.LegalReference == "" {
			t.Fatalf("%s: violation without legal reference", p.ID)
		}
	}
}

func TestCatalogRuleFamilies(t *testing.T) {
	// Severity grades the rule base must agree on with the AI path.
	expected := map[string]report.Severity{
		"excessive-security-deposit": report.SeverityHigh,
		"non-refundable-deposit":     report.SeverityHigh,
		"self-help-eviction":         report.SeverityHigh,
		"waiver-of-rights":           report.SeverityHigh,
		"unrestricted-entry":         report.SeverityHigh,
		"tenant-structural-repairs":  report.SeverityHigh,
		"excessive-late-fees":        report.SeverityMedium,
		"guest-restrictions":         report.SeverityMedium,
		"improper-rent-increase":     report.SeverityMedium,
		"pet-deposit-violation":      report.SeverityMedium,
	}
	for id, severity := range expected {
		p, ok := ByID(id)
		if !ok {
			t.Fatalf("catalog missing %s", id)
		}
		if !p.IsMalicious {
			t.Fatalf("%s should be a violation", id)
		}
		if p.Severity != severity {
			t.Fatalf("%s: expected %s got %s", id, severity, p.Severity)
		}
	}

	for _, id := range []string{"notice-period", "utility-allocation", "subletting-policy", "pet-policy"} {
		p, ok := ByID(id)
		if !ok {
			t.Fatalf("catalog missing %s", id)
		}
		if p.IsMalicious {
			t.Fatalf("%s should be informational", id)
		}
	}
}

func TestMalicious(t *testing.T) {
	for _, p := range Malicious() {
		if !p.IsMalicious {
			t.Fatalf("%s leaked into malicious subset", p.ID)
		}
	}
}

func TestDepositRelated(t *testing.T) {
	if !DepositRelated("excessive-security-deposit") || !DepositRelated("pet-deposit-violation") {
		t.Fatal("deposit rules not marked numeric")
	}
	if DepositRelated("waiver-of-rights") {
		t.Fatal("non-deposit rule marked numeric")
	}
}
