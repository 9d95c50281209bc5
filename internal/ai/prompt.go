package ai

import (
	"strings"
	"unicode/utf8"
)

// maxContractChars bounds the contract text sent to the model. Clauses
// past the truncation point are silently excluded from the AI path; this
// is a documented cost/latency trade-off, not a bug, and the keyword path
// still scans the full text.
const maxContractChars = 50000

const systemPrompt = "You are a residential tenancy contract reviewer. You compare rental agreements against the tenancy regulations supplied to you and report problematic clauses. Reply with a single raw JSON object matching the requested schema exactly. Emit nothing outside the JSON object: no markdown, no code fences, no commentary."

// regulationKnowledgeBase is the fixed rule summary the model analyses
// against. It states the same rule families the clause-pattern catalog
// encodes, so both paths share one ground truth.
const regulationKnowledgeBase = `TENANCY REGULATIONS (Residential Tenancies Act and Regulation):
1. Security and pet damage deposits combined may not exceed half of one month's rent (s.19). A deposit above that ratio is a violation; at or below it is legal.
2. All deposits are refundable and held in trust; non-refundable deposit terms are void (s.20).
3. Tenancies end only through the statutory notice process. Immediate eviction, lockouts, changing locks, or removing a tenant's belongings are prohibited self-help measures (s.44).
4. Statutory tenant rights cannot be waived by contract; waiver and hold-harmless terms are unenforceable (s.5).
5. Outside emergencies, the landlord must give 24 hours' written notice before entry, at reasonable times only (s.29).
6. Structural and health-and-safety repairs are the landlord's obligation and cannot be shifted to the tenant (s.32).
7. Late payment fees must be reasonable, flat, and non-compounding (Reg s.7).
8. Tenants are entitled to quiet enjoyment, including hosting guests; blanket guest bans or approval requirements are unreasonable (s.28).
9. Rent increases require 12 months between increases, the annual allowable amount, and three months' written notice (s.41-43).
10. Standard clauses on notice periods, utility allocation, subletting policy, and pet policy are informational, not violations.`

const outputSchema = `Return a JSON object with exactly these fields:
{
  "summary": string, two or three sentences describing the agreement and its overall risk,
  "key_details": array of {"label": string, "value": string or null, "category": string} covering monthly rent, security deposit, lease start and end dates, landlord, tenant, and notice period; use null for any value not present in the text,
  "flagged_clauses": array of {"name": string, "category": one of security_deposit|rent|termination|maintenance|privacy|pets|subletting|utilities|other, "explanation": string, "matched_text": verbatim excerpt from the contract, "is_malicious": boolean (true only for actual violations of the regulations above), "severity": one of low|medium|high, "legal_reference": string citing the regulation, "insight": string elaborating on the risk},
  "overall_risk_score": integer 0-100, computed as 30 points per high, 15 per medium, 5 per low severity violation (is_malicious true only), capped at 100,
  "risk_level": "low" when the score is 0, "moderate" for 1-29, "high" for 30-59, "critical" for 60 and above,
  "recommendations": array of actionable strings for the tenant
}`

// BuildPrompt deterministically assembles the analysis prompt for one
// contract text. Identical text always yields an identical prompt.
func BuildPrompt(text string) string {
	builder := &strings.Builder{}
	builder.WriteString(regulationKnowledgeBase)
	builder.WriteString("\n\nTASK: Review the rental agreement below against the regulations above. Flag every clause that violates a regulation (is_malicious true) and note standard clauses worth the tenant's attention (is_malicious false). Quote matched_text verbatim from the agreement. Do not invent facts: any key detail not present in the text must have a null value.\n\n")
	builder.WriteString(outputSchema)
	builder.WriteString("\n\nRENTAL AGREEMENT TEXT:\n")
	builder.WriteString(truncate(text, maxContractChars))
	return builder.String()
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
