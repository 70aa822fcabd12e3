package analysis

import "time"

// CompareResponse is the outcome of one resume vs job description
// comparison. Skill lists carry canonical keys, sorted.
type CompareResponse struct {
	FitScore        float64           `json:"fit_score"`
	MatchedSkills   []string          `json:"matched_skills"`
	MissingSkills   []string          `json:"missing_skills"`
	ExtraSkills     []string          `json:"extra_skills"`
	SemanticMatches []SemanticMatch   `json:"semantic_matches,omitempty"`
	ResumeProfile   *ExtractedProfile `json:"resume_profile"`
	JDProfile       *ExtractedProfile `json:"jd_profile"`
	ResumeContact   ContactInfo       `json:"resume_contact"`
	PredictedRole   string            `json:"predicted_role,omitempty"`
}

// NewCompareResponse assembles the response from the match partition,
// the two extracted profiles and the resume's parsed document.
func NewCompareResponse(match *MatchResult, score float64, resumeProfile, jdProfile *ExtractedProfile, resume *ParsedDocument, role RolePrediction) *CompareResponse {
	resp := &CompareResponse{
		FitScore:        score,
		MatchedSkills:   make([]string, 0, len(match.Matched)),
		MissingSkills:   make([]string, 0, len(match.Missing)),
		ExtraSkills:     make([]string, 0, len(match.Extra)),
		SemanticMatches: match.SemanticMatches,
		ResumeProfile:   resumeProfile,
		JDProfile:       jdProfile,
	}
	for _, k := range match.Matched {
		resp.MatchedSkills = append(resp.MatchedSkills, k.String())
	}
	for _, k := range match.Missing {
		resp.MissingSkills = append(resp.MissingSkills, k.String())
	}
	for _, k := range match.Extra {
		resp.ExtraSkills = append(resp.ExtraSkills, k.String())
	}
	if resume != nil {
		resp.ResumeContact = resume.Contact
	}
	if !role.IsUnknown() {
		resp.PredictedRole = role.Label.String()
	}
	return resp
}

// ExtractResponse exposes document extraction on its own.
type ExtractResponse struct {
	FullText string              `json:"full_text"`
	Contact  ContactInfo         `json:"contact"`
	Sections map[string][]string `json:"sections"`
	Profile  *ExtractedProfile   `json:"profile,omitempty"`
}

// PredictRoleRequest classifies free text against the role vocabulary.
type PredictRoleRequest struct {
	Text string `json:"text"`
}

type PredictRoleResponse struct {
	Role       string  `json:"role"`
	Similarity float64 `json:"similarity,omitempty"`
}

// SubmitJobResponse acknowledges an accepted asynchronous comparison.
type SubmitJobResponse struct {
	JobID  string    `json:"job_id"`
	Status JobStatus `json:"status"`
}

// JobStatusResponse reports a job's current state. Result is present
// only once the job completed.
type JobStatusResponse struct {
	JobID     string           `json:"job_id"`
	Status    JobStatus        `json:"status"`
	Result    *CompareResponse `json:"result,omitempty"`
	Error     string           `json:"error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// ToStatusResponse converts the stored job record to its API shape.
func (j *AnalysisJob) ToStatusResponse() *JobStatusResponse {
	return &JobStatusResponse{
		JobID:     j.ID.String(),
		Status:    j.Status,
		Result:    j.Result,
		Error:     j.Error,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}
