package patterns

import "lease-risk-eval/internal/report"

// catalog is the fixed rule base both analysis paths are validated
// against. Entries are ordered: violations first, standard informational
// clauses after. The slice is never mutated after init.
var catalog = []report.ClausePattern{
	{
		ID:             "excessive-security-deposit",
		Category:       report.CategorySecurityDeposit,
		Name:           "Excessive security deposit",
		Explanation:    "Security and pet deposits combined may not exceed half of one month's rent. Anything above that ratio is collectible by the tenant.",
		Keywords:       []string{"security deposit", "damage deposit"},
		IsMalicious:    true,
		Severity:       report.SeverityHigh,
		LegalReference: "Residential Tenancies Act s.19(1)",
	},
	{
		ID:             "non-refundable-deposit",
		Category:       report.CategorySecurityDeposit,
		Name:           "Non-refundable deposit",
		Explanation:    "Deposits are held in trust and must be returned with interest when the tenancy ends. A clause declaring any deposit non-refundable is void.",
		Keywords:       []string{"non-refundable deposit", "nonrefundable deposit", "deposit is non-refundable", "deposit will not be returned"},
		IsMalicious:    true,
		Severity:       report.SeverityHigh,
		LegalReference: "Residential Tenancies Act s.20",
	},
	{
		ID:             "self-help-eviction",
		Category:       report.CategoryTermination,
		Name:           "Immediate or self-help eviction",
		Explanation:    "A landlord may only end a tenancy through the statutory notice and order process. Lockouts, immediate eviction, and termination without notice are prohibited.",
		Keywords:       []string{"immediate eviction", "evict without notice", "terminate immediately", "change the locks", "remove the tenant's belongings"},
		IsMalicious:    true,
		Severity:       report.SeverityHigh,
		LegalReference: "Residential Tenancies Act s.44",
	},
	{
		ID:             "waiver-of-rights",
		Category:       report.CategoryOther,
		Name:           "Waiver of tenant rights",
		Explanation:    "Tenants cannot contract out of their statutory protections. Any term purporting to waive rights under the Act is unenforceable.",
		Keywords:       []string{"waives all rights", "waive any rights", "waiver of rights", "tenant agrees not to pursue", "hold the landlord harmless"},
		IsMalicious:    true,
		Severity:       report.SeverityHigh,
		LegalReference: "Residential Tenancies Act s.5",
	},
	{
		ID:             "unrestricted-entry",
		Category:       report.CategoryPrivacy,
		Name:           "Unrestricted landlord entry",
		Explanation:    "Except in emergencies, a landlord must give 24 hours' written notice before entering and may only enter at reasonable times.",
		Keywords:       []string{"enter at any time", "at any time without notice", "without prior notice", "right to enter at will", "unannounced inspections"},
		IsMalicious:    true,
		Severity:       report.SeverityHigh,
		LegalReference: "Residential Tenancies Act s.29",
	},
	{
		ID:             "tenant-structural-repairs",
		Category:       report.CategoryMaintenance,
		Name:           "Tenant pays for structural repairs",
		Explanation:    "Structural maintenance and repairs required to meet health and safety standards are the landlord's obligation and cannot be shifted to the tenant.",
		Keywords:       []string{"structural repairs", "repairs to the roof", "foundation repairs", "all repairs at tenant's expense", "tenant responsible for all repairs"},
		IsMalicious:    true,
		Severity:       report.SeverityHigh,
		LegalReference: "Residential Tenancies Act s.32(1)",
	},
	{
		ID:             "excessive-late-fees",
		Category:       report.CategoryRent,
		Name:           "Excessive late payment fees",
		Explanation:    "Late fees must be reasonable and non-compounding. Daily or percentage-compounding late charges typically exceed the permitted administration fee.",
		Keywords:       []string{"late fee", "late fees", "late charge", "late charges", "per day until paid", "compounding interest on unpaid rent"},
		IsMalicious:    true,
		Severity:       report.SeverityMedium,
		LegalReference: "Residential Tenancies Regulation s.7(1)(d)",
	},
	{
		ID:             "guest-restrictions",
		Category:       report.CategoryOther,
		Name:           "Unreasonable guest restrictions",
		Explanation:    "A tenant is entitled to quiet enjoyment, which includes hosting guests. Blanket guest bans or approval requirements are an unreasonable restriction.",
		Keywords:       []string{"no overnight guests", "guests are prohibited", "guests must be approved", "no visitors"},
		IsMalicious:    true,
		Severity:       report.SeverityMedium,
		LegalReference: "Residential Tenancies Act s.28",
	},
	{
		ID:             "improper-rent-increase",
		Category:       report.CategoryRent,
		Name:           "Improper rent increase terms",
		Explanation:    "Rent may only be increased once every 12 months, by no more than the annual allowable amount, with three full months' written notice on the approved form.",
		Keywords:       []string{"increase the rent at any time", "rent may be increased without notice", "raise the rent without", "rent subject to change"},
		IsMalicious:    true,
		Severity:       report.SeverityMedium,
		LegalReference: "Residential Tenancies Act s.41-43",
	},
	{
		ID:             "pet-deposit-violation",
		Category:       report.CategoryPets,
		Name:           "Pet damage deposit above the limit",
		Explanation:    "A pet damage deposit is capped at half of one month's rent, once per tenancy, regardless of the number of pets.",
		Keywords:       []string{"pet deposit", "pet damage deposit"},
		IsMalicious:    true,
		Severity:       report.SeverityMedium,
		LegalReference: "Residential Tenancies Act s.19(2)",
	},

	// Standard clauses worth surfacing, but not violations.
	{
		ID:          "notice-period",
		Category:    report.CategoryTermination,
		Name:        "Standard notice period",
		Explanation: "The agreement sets out how much written notice each party gives to end the tenancy.",
		Keywords:    []string{"30 days' notice", "30 days notice", "60 days' notice", "one month's written notice", "notice to end the tenancy"},
		IsMalicious: false,
		Severity:    report.SeverityLow,
	},
	{
		ID:          "utility-allocation",
		Category:    report.CategoryUtilities,
		Name:        "Utility responsibility",
		Explanation: "The agreement allocates responsibility for utilities between landlord and tenant.",
		Keywords:    []string{"utilities", "electricity and water", "responsible for all utilities", "heat and hydro"},
		IsMalicious: false,
		Severity:    report.SeverityLow,
	},
	{
		ID:          "subletting-policy",
		Category:    report.CategorySubletting,
		Name:        "Subletting and assignment policy",
		Explanation: "The agreement states whether and how the tenant may sublet or assign the tenancy.",
		Keywords:    []string{"sublet", "subletting", "sublease", "assignment of this agreement"},
		IsMalicious: false,
		Severity:    report.SeverityLow,
	},
	{
		ID:          "pet-policy",
		Category:    report.CategoryPets,
		Name:        "Pet policy",
		Explanation: "The agreement states whether pets are permitted and under what conditions.",
		Keywords:    []string{"no pets", "pets are permitted", "pets allowed", "pet policy"},
		IsMalicious: false,
		Severity:    report.SeverityLow,
	},
}

// Catalog returns the full ordered clause-pattern rule base.
func Catalog() []report.ClausePattern {
	return catalog
}

// Malicious returns the violation subset of the catalog, preserving order.
func Malicious() []report.ClausePattern {
	var out []report.ClausePattern
	for _, p := range catalog {
		if p.IsMalicious {
			out = append(out, p)
		}
	}
	return out
}

// ByID looks up a catalog entry by identity.
func ByID(id string) (report.ClausePattern, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return report.ClausePattern{}, false
}

// DepositRelated reports whether the pattern encodes the numeric
// deposit-to-rent ceiling. Keyword hits on these patterns are suppressed
// when the extracted ratio is within the legal limit.
func DepositRelated(id string) bool {
	return id == "excessive-security-deposit" || id == "pet-deposit-violation"
}
