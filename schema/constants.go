package schema

// Custom string types for type safety.
type (
	// QuestionType discriminates the rule variants of a rubric.
	QuestionType string

	// Bracket is one of the eight score bands that selects a rubric.
	Bracket string

	// IssueKind classifies a recoverable per-answer scoring problem.
	IssueKind string

	// PlanStatus represents the lifecycle state of a growth plan.
	PlanStatus string

	// RiskFlag is a tagged marker appended to a lever's risk reason.
	RiskFlag string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string

	// LockBackend represents the backend used to serialize runs per subject or plan.
	LockBackend string
)

// All question types supported by a rubric.
const (
	SingleChoice QuestionType = "single_choice"
	MultiChoice  QuestionType = "multi_choice"
	FreeText     QuestionType = "free_text"
)

// All brackets, named by their lower bound.
const (
	Bracket10 Bracket = "1.0"
	Bracket15 Bracket = "1.5"
	Bracket20 Bracket = "2.0"
	Bracket25 Bracket = "2.5"
	Bracket30 Bracket = "3.0"
	Bracket35 Bracket = "3.5"
	Bracket40 Bracket = "4.0"
	Bracket45 Bracket = "4.5"
)

// All issue kinds recorded while scoring.
const (
	IssueUnmatchedKey  IssueKind = "unmatched_key"
	IssueTypeMismatch  IssueKind = "type_mismatch"
	IssueUnmappedValue IssueKind = "unmapped_value"
)

// All plan states supported.
const (
	ActivePlan    PlanStatus = "active" // default
	ArchivedPlan  PlanStatus = "archived"
	CompletedPlan PlanStatus = "completed"
)

// FlagConsiderReplacement marks the longest-blocked lever of a plan.
const FlagConsiderReplacement RiskFlag = "consider replacement"

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All lock backends supported.
const (
	MemoryLock LockBackend = "memory" // default
	RedisLock  LockBackend = "redis"
)

// AllBrackets lists every bracket in ascending order.
var AllBrackets = []Bracket{Bracket10, Bracket15, Bracket20, Bracket25, Bracket30, Bracket35, Bracket40, Bracket45}

// ValidQuestionTypes lists all valid question types.
var ValidQuestionTypes = map[QuestionType]struct{}{
	SingleChoice: {},
	MultiChoice:  {},
	FreeText:     {},
}

// ValidBrackets lists all valid brackets.
var ValidBrackets = map[Bracket]struct{}{
	Bracket10: {},
	Bracket15: {},
	Bracket20: {},
	Bracket25: {},
	Bracket30: {},
	Bracket35: {},
	Bracket40: {},
	Bracket45: {},
}

// ValidPlanStatuses lists all valid plan states.
var ValidPlanStatuses = map[PlanStatus]struct{}{
	ActivePlan:    {},
	ArchivedPlan:  {},
	CompletedPlan: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidLockBackends lists all valid lock backends.
var ValidLockBackends = map[LockBackend]struct{}{
	MemoryLock: {},
	RedisLock:  {},
}
