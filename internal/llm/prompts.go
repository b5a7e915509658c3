package llm

import "fmt"

const (
	// DefaultMaxDocumentChars is the character budget for RFP text sent to
	// the oracle; it leaves context room for the structured reply.
	DefaultMaxDocumentChars = 150000

	// BudgetMaxDocumentChars is the tighter budget used for capital budget
	// documents, whose replies are larger (one entry per line item).
	BudgetMaxDocumentChars = 100000

	// MaxOutputTokens bounds every oracle reply.
	MaxOutputTokens = 8192
)

const extractionSystemPrompt = `You are an expert RFP analyst for consulting firms in the AEC (Architecture, Engineering, Construction) sector. Your job is to extract structured data from RFP documents with high accuracy.

CRITICAL REQUIREMENTS:
1. Extract ONLY information explicitly stated in the document
2. For every extracted field, provide the source page number
3. If information is not found, use null - never guess
4. Dates should be in ISO format (YYYY-MM-DD) when possible
5. Be precise with client names - use official entity names

You will receive RFP text with page markers like "--- PAGE X ---". Use these to track source pages.`

const extractionUserPrompt = `Analyze the following RFP document and extract structured data.

<rfp_document>
%s
</rfp_document>

Extract the following fields. For each field, provide:
- The extracted value
- The source page number where you found this information
- A brief quote from the source text (max 100 chars)

Respond with valid JSON in this exact format:
{
  "client_name": {"value": "string or null", "source_page": number or null, "source_text": "brief quote or null"},
  "rfp_number": {"value": "string or null", "source_page": number or null, "source_text": "brief quote or null"},
  "opportunity_title": {"value": "string or null", "source_page": number or null, "source_text": "brief quote or null"},
  "client_contact": {
    "value": {"name": "string or null", "email": "string or null", "phone": "string or null", "role": "string or null"},
    "source_page": number or null,
    "source_text": "brief quote or null"
  },
  "published_date": {"value": "YYYY-MM-DD or null", "source_page": number or null, "source_text": "brief quote or null"},
  "question_deadline": {"value": "YYYY-MM-DD HH:MM or null", "source_page": number or null, "source_text": "brief quote or null"},
  "submission_deadline": {"value": "YYYY-MM-DD HH:MM or null", "source_page": number or null, "source_text": "brief quote or null"},
  "contract_duration": {"value": "string or null", "source_page": number or null, "source_text": "brief quote or null"},
  "scope_summary": {"value": "2-3 sentence summary of project scope", "source_page": number or null, "source_text": "brief quote or null"},
  "required_internal_disciplines": {"value": ["list of disciplines the firm needs internally"], "source_page": number or null, "source_text": "brief quote or null"},
  "required_external_disciplines": {"value": ["list of sub-consultant disciplines needed"], "source_page": number or null, "source_text": "brief quote or null"},
  "evaluation_criteria": {
    "value": {"technical_weight": number or null, "financial_weight": number or null, "criteria": ["list of evaluation factors"]},
    "source_page": number or null,
    "source_text": "brief quote or null"
  },
  "reference_requirements": {
    "value": {"corporate_references": number or null, "team_references": number or null, "recency_years": number or null, "notes": "string or null"},
    "source_page": number or null,
    "source_text": "brief quote or null"
  },
  "insurance_requirements": {
    "value": {"professional_liability": "string or null", "general_liability": "string or null", "other": "string or null"},
    "source_page": number or null,
    "source_text": "brief quote or null"
  },
  "risk_flags": {"value": ["list of any concerning terms, unusual requirements, or red flags"], "source_page": number or null, "source_text": "brief quote or null"}
}

Important:
- For disciplines, distinguish between work the firm would do internally vs. sub-consultants
- Common external disciplines in AEC: Geotechnical, Survey, Archaeological, Environmental, Traffic, Structural
- Look for evaluation weightings like "80%% technical / 20%% price"
- Flag unusual insurance amounts, bonding requirements, or payment terms as risk flags`

const contradictionSystemPrompt = `You are an expert RFP analyst specializing in identifying inconsistencies and contradictions within RFP documents. Your job is to find conflicting information that consultants need to clarify with the client before submitting a proposal.

CRITICAL REQUIREMENTS:
1. Only flag REAL contradictions - conflicting statements about the same thing
2. For every contradiction, provide source page numbers for both conflicting statements
3. Generate a professional clarifying question the consultant could ask the client
4. Focus on contradictions that materially impact proposal preparation

You will receive RFP text with page markers like "--- PAGE X ---". Use these to track source pages.`

const contradictionUserPrompt = `Analyze the following RFP document for contradictions and inconsistencies.

<rfp_document>
%s
</rfp_document>

Scan the ENTIRE document for the following types of contradictions:

1. NUMERICAL MISMATCHES: different numbers for the same item (meeting counts, draft counts, budget figures, team sizes, quantities)
2. TIMELINE CONFLICTS: inconsistent dates or durations (different deadlines in different sections, stated duration vs. schedule, conflicting milestones)
3. SCOPE AMBIGUITIES: conflicting descriptions of deliverables or requirements (full assessment vs. desktop review, contradictory in/out of scope statements)

Respond with valid JSON in this exact format:
{
  "contradictions": [
    {
      "type": "numerical | timeline | scope",
      "description": "Brief description of the contradiction",
      "statement_a": {"text": "Exact quote or close paraphrase from the document", "page": number},
      "statement_b": {"text": "Exact quote or close paraphrase from the document", "page": number},
      "clarifying_question": "Professional question to ask the client to resolve this"
    }
  ]
}

Important:
- Return an empty array if no contradictions are found: {"contradictions": []}
- Only include genuine contradictions, not minor wording differences
- Questions should be professional and specific, referencing the page numbers
- Focus on contradictions that would affect proposal pricing, scheduling, or scope`

const budgetSystemPrompt = `You are an expert at analyzing municipal capital budgets. You extract project line items from budget documents precisely, reporting only what the document states.`

const budgetUserPrompt = `Extract project line items from the following capital budget document.

<budget_document>
%s
</budget_document>

Municipality: %s

Extract each capital project/line item you find. For each project, provide:
- project_name: The name of the project
- project_id: Any project code/ID if present
- department: The department or service area
- total_budget: Total approved budget in dollars (number only, no commas)
- current_year_budget: Budget for current fiscal year if shown
- funding_type: Type of work (Planning, Design, Engineering, Construction, etc.)
- description: Brief description of the project
- source_page: Page number where you found this

Return valid JSON array:
[
  {
    "project_name": "string",
    "project_id": "string or null",
    "department": "string or null",
    "total_budget": number or null,
    "current_year_budget": number or null,
    "funding_type": "string or null",
    "description": "string",
    "source_page": number or null
  }
]

Focus on infrastructure, engineering, and construction projects: road reconstruction and rehabilitation, water/sewer infrastructure, bridge repairs, transit projects, facility improvements, environmental projects.

Return only the JSON array, no other text.`

// Truncate enforces the character budget on document text. When the text is
// over budget it is cut at maxChars and a fixed notice is appended, so the
// same input always produces the same prompt.
func Truncate(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}
	return text[:maxChars] + fmt.Sprintf("\n\n[DOCUMENT TRUNCATED - First %d characters shown]", maxChars)
}

// BuildExtractionPrompt assembles the field-extraction prompt pair.
func BuildExtractionPrompt(pagedText string, maxChars int) (system, user string) {
	return extractionSystemPrompt, fmt.Sprintf(extractionUserPrompt, Truncate(pagedText, maxChars))
}

// BuildContradictionPrompt assembles the contradiction-detection prompt pair.
func BuildContradictionPrompt(pagedText string, maxChars int) (system, user string) {
	return contradictionSystemPrompt, fmt.Sprintf(contradictionUserPrompt, Truncate(pagedText, maxChars))
}

// BuildBudgetPrompt assembles the budget line-item extraction prompt pair.
func BuildBudgetPrompt(pagedText, municipality string, maxChars int) (system, user string) {
	return budgetSystemPrompt, fmt.Sprintf(budgetUserPrompt, Truncate(pagedText, maxChars), municipality)
}
