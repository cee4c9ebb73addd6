package schema

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultLeverWeight is used when a lever has no impact or effort.
const DefaultLeverWeight = 3.0

// riskSeparator joins a risk note and its flags in the rendered form.
const riskSeparator = " | "

// GrowthPlan is a scheduling window with an ordered collection of levers.
type GrowthPlan struct {
	ID          string     `json:"id" yaml:"id"`
	SubjectID   string     `json:"subject_id" yaml:"subject_id"`
	Status      PlanStatus `json:"status" yaml:"status"`
	PeriodStart time.Time  `json:"period_start" yaml:"period_start"`
	PeriodEnd   time.Time  `json:"period_end" yaml:"period_end"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	Levers      []Lever    `json:"levers" yaml:"levers"`
}

// Contains reports whether t lies inside the plan window, bounds included.
func (p GrowthPlan) Contains(t time.Time) bool {
	return !t.Before(p.PeriodStart) && !t.After(p.PeriodEnd)
}

// Lever is one initiative of a growth plan.
type Lever struct {
	ID        string     `json:"id" yaml:"id"`
	PlanID    string     `json:"plan_id" yaml:"plan_id"`
	Title     string     `json:"title" yaml:"title"`
	Priority  int        `json:"priority" yaml:"priority"`
	Impact    float64    `json:"impact,omitempty" yaml:"impact,omitempty"`
	Effort    float64    `json:"effort,omitempty" yaml:"effort,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	BlockedAt *time.Time `json:"blocked_at,omitempty" yaml:"blocked_at,omitempty"`
	Completed bool       `json:"completed" yaml:"completed"`
	Risk      RiskReason `json:"risk_reason" yaml:"risk_reason"`
}

// EffectiveImpact returns the impact, or the default when absent.
func (l Lever) EffectiveImpact() float64 {
	if l.Impact <= 0 {
		return DefaultLeverWeight
	}
	return l.Impact
}

// EffectiveEffort returns the effort, or the default when absent.
func (l Lever) EffectiveEffort() float64 {
	if l.Effort <= 0 {
		return DefaultLeverWeight
	}
	return l.Effort
}

// Ratio returns impact over effort, with effort floored at 1.
func (l Lever) Ratio() float64 {
	return l.EffectiveImpact() / max(1, l.EffectiveEffort())
}

// BlockedFor returns how long the lever has been blocked at now, or 0 when unblocked.
func (l Lever) BlockedFor(now time.Time) time.Duration {
	if l.BlockedAt == nil {
		return 0
	}
	return now.Sub(*l.BlockedAt)
}

// Clone returns a deep copy of the lever.
func (l Lever) Clone() Lever {
	out := l
	if l.DueDate != nil {
		d := *l.DueDate
		out.DueDate = &d
	}
	if l.BlockedAt != nil {
		b := *l.BlockedAt
		out.BlockedAt = &b
	}
	out.Risk.Flags = slices.Clone(l.Risk.Flags)
	return out
}

// RiskReason is an append-only risk annotation made of a free-text note and tagged flags.
type RiskReason struct {
	Note  string
	Flags []RiskFlag
}

// IsEmpty reports whether the reason carries no note and no flags.
func (r RiskReason) IsEmpty() bool {
	return r.Note == "" && len(r.Flags) == 0
}

// Has reports whether the flag is already present.
func (r RiskReason) Has(flag RiskFlag) bool {
	return slices.Contains(r.Flags, flag)
}

// With returns the reason with flag appended unless it is already present.
func (r RiskReason) With(flag RiskFlag) RiskReason {
	if r.Has(flag) {
		return r
	}
	out := RiskReason{Note: r.Note, Flags: slices.Clone(r.Flags)}
	out.Flags = append(out.Flags, flag)
	return out
}

// String renders the reason as "note | flag | flag".
func (r RiskReason) String() string {
	var sb strings.Builder
	sb.WriteString(r.Note)
	for _, f := range r.Flags {
		if sb.Len() > 0 {
			sb.WriteString(riskSeparator)
		} else {
			sb.WriteString("| ")
		}
		sb.WriteString(string(f))
	}
	return sb.String()
}

// ParseRiskReason is the inverse of RiskReason.String. Known flags are lifted
// out of the text; every other segment stays in the note.
func ParseRiskReason(s string) RiskReason {
	s = strings.TrimSpace(s)
	if s == "" {
		return RiskReason{}
	}
	var (
		note  []string
		flags []RiskFlag
	)
	for part := range strings.SplitSeq(s, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, ok := knownRiskFlags[RiskFlag(part)]; ok {
			if !slices.Contains(flags, RiskFlag(part)) {
				flags = append(flags, RiskFlag(part))
			}
			continue
		}
		note = append(note, part)
	}
	return RiskReason{Note: strings.Join(note, riskSeparator), Flags: flags}
}

var knownRiskFlags = map[RiskFlag]struct{}{
	FlagConsiderReplacement: {},
}

// MarshalJSON renders the reason as its string form.
func (r RiskReason) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON parses the string form.
func (r *RiskReason) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = ParseRiskReason(s)
	return nil
}

// MarshalYAML renders the reason as its string form.
func (r RiskReason) MarshalYAML() (any, error) {
	return r.String(), nil
}

// UnmarshalYAML parses the string form.
func (r *RiskReason) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*r = ParseRiskReason(s)
	return nil
}
