package kernel

// JobID identifies an asynchronous analysis job.
type JobID string

func NewJobID(id string) JobID { return JobID(id) }
func (j JobID) String() string { return string(j) }
func (j JobID) IsEmpty() bool  { return string(j) == "" }

// SkillKey is the canonical, normalized identifier for a skill after
// alias resolution. All set operations on skills use this type.
type SkillKey string

func NewSkillKey(key string) SkillKey { return SkillKey(key) }
func (k SkillKey) String() string     { return string(k) }
func (k SkillKey) IsEmpty() bool      { return string(k) == "" }

// RoleLabel is a value from the closed, versioned role vocabulary.
type RoleLabel string

func NewRoleLabel(label string) RoleLabel { return RoleLabel(label) }
func (r RoleLabel) String() string        { return string(r) }

// RoleUnknown is the sentinel returned when the classifier cannot make
// a prediction (empty or too-short input, or index failure).
const RoleUnknown RoleLabel = "unknown"
