package engine

// Final verdict values carried in the report and the notification body.
const (
	StatusApproved = "APROBADO"
	StatusRejected = "REPROBADO"
)

// Whole-record reason codes produced by reconciliation, before any
// slot-level evaluation can run.
const (
	ReasonRepoNotSubmitted = "REPO_NO_SUBIDO"     // roster entry with no repository
	ReasonLoginNotFound    = "LOGIN_NO_ENCONTRADO" // repository whose login is not enrolled
	ReasonCloneError       = "ERROR_CLONAR_REPO"   // hosting clone call failed
)

// Placeholder field values for records whose student could not be
// resolved.
const (
	GroupNotRegistered = "NO_REGISTRADO" // login exists but is not in the roster
	ValueUnknown       = "DESCONOCIDO"   // field could not be determined at all
)

// Record is the terminal artifact of the engine: one row of the final
// report, immutable once appended. Repo is empty for roster entries that
// never submitted a repository.
type Record struct {
	Repo   string
	Login  string
	Group  string
	Status string
	Reason string
}
