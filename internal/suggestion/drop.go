package suggestion

// DropStage identifies the pipeline stage at which a section or
// candidate exited.
type DropStage string

const (
	StageClassification DropStage = "CLASSIFICATION"
	StageExtraction     DropStage = "EXTRACTION"
	StageValidation     DropStage = "VALIDATION"
	StageScoring        DropStage = "SCORING"
	StageAggregation    DropStage = "AGGREGATION"
)

// DropReason explains why a section or candidate was excluded. The set
// is closed: every exit path in the engine maps to exactly one reason.
type DropReason string

const (
	// Classification reasons.
	ReasonNotActionable     DropReason = "NOT_ACTIONABLE"
	ReasonSuppressedSection DropReason = "SUPPRESSED_SECTION"

	// Validation reasons.
	ReasonMissingField         DropReason = "MISSING_FIELD"
	ReasonUnknownType          DropReason = "UNKNOWN_TYPE"
	ReasonTrivialTitle         DropReason = "TRIVIAL_TITLE"
	ReasonBannedTitle          DropReason = "BANNED_TITLE"
	ReasonGenericFallback      DropReason = "GENERIC_FALLBACK"
	ReasonUngroundedEvidence   DropReason = "UNGROUNDED_EVIDENCE"
	ReasonInsufficientEvidence DropReason = "INSUFFICIENT_EVIDENCE"

	// Scoring and aggregation reasons.
	ReasonLowRelevance DropReason = "LOW_RELEVANCE"
	ReasonTooLarge     DropReason = "TOO_LARGE"
	ReasonTrimmedToCap DropReason = "TRIMMED_TO_CAP"

	// ReasonInternalError is reserved for genuine programming defects
	// caught at the section boundary. It must never be the expected
	// outcome for an ordinary input.
	ReasonInternalError DropReason = "INTERNAL_ERROR"
)

// Drop pairs a stage with a reason, optionally annotated with detail
// for the debug trace.
type Drop struct {
	Stage  DropStage  `json:"stage"`
	Reason DropReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}
