package models

// Usage carries token accounting reported by the API
type Usage struct {
	PromptTokens    int64
	CandidateTokens int64
	TotalTokens     int64
}

// Candidate represents a single response candidate
type Candidate struct {
	Text         string
	FinishReason string
}

// ModelOutput represents the complete API response for one prompt
type ModelOutput struct {
	Candidates   []Candidate
	Chosen       int // Index of selected candidate
	ModelVersion string
	Usage        Usage
}

// Text returns the chosen candidate's text
func (m *ModelOutput) Text() string {
	if c := m.ChosenCandidate(); c != nil {
		return c.Text
	}
	return ""
}

// FinishReason returns the chosen candidate's finish reason
func (m *ModelOutput) FinishReason() string {
	if c := m.ChosenCandidate(); c != nil {
		return c.FinishReason
	}
	return ""
}

// ChosenCandidate returns a pointer to the chosen candidate
func (m *ModelOutput) ChosenCandidate() *Candidate {
	if m == nil || len(m.Candidates) == 0 {
		return nil
	}
	if m.Chosen < 0 || m.Chosen >= len(m.Candidates) {
		return &m.Candidates[0]
	}
	return &m.Candidates[m.Chosen]
}
