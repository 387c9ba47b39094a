// Package survey defines the ISO 27001/27002 compliance questionnaire and
// builds the submission payload the audit API expects.
package survey

import (
	"fmt"
	"strings"
	"time"
)

// Answer is one of the four accepted responses to a question.
type Answer string

const (
	AnswerYes     Answer = "YES"
	AnswerPartial Answer = "PARTIAL"
	AnswerNo      Answer = "NO"
	AnswerNA      Answer = "NA"
)

// ParseAnswer normalizes user input to an Answer. "N/A" is accepted as a
// spelling of NA; matching is case-insensitive.
func ParseAnswer(s string) (Answer, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "YES", "Y":
		return AnswerYes, nil
	case "PARTIAL", "P":
		return AnswerPartial, nil
	case "NO", "N":
		return AnswerNo, nil
	case "NA", "N/A":
		return AnswerNA, nil
	default:
		return "", fmt.Errorf("invalid answer %q (expected YES, PARTIAL, NO or N/A)", s)
	}
}

// Question is a single yes/partial/no/na item.
type Question struct {
	ID   string
	Text string
}

// Category groups questions by control area.
type Category struct {
	Key         string
	Title       string
	Description string
	Questions   []Question
}

// categories is ordered; the submission lists answers in this order.
var categories = []Category{
	{
		Key:         "ACCESS_CONTROL",
		Title:       "Access Control",
		Description: "User authentication, authorization, and access management",
		Questions: []Question{
			{ID: "AC-001", Text: "Do you have a formal access control policy in place?"},
			{ID: "AC-002", Text: "Are user access rights reviewed at least quarterly?"},
			{ID: "AC-003", Text: "Is multi-factor authentication enforced for all privileged accounts?"},
			{ID: "AC-004", Text: "Do you have a process for immediate access revocation upon employee termination?"},
			{ID: "AC-005", Text: "Are password policies enforced with complexity requirements?"},
		},
	},
	{
		Key:         "ASSET_MANAGEMENT",
		Title:       "Asset Management",
		Description: "IT asset inventory, classification, and lifecycle management",
		Questions: []Question{
			{ID: "AM-001", Text: "Do you maintain an up-to-date inventory of all IT assets?"},
			{ID: "AM-002", Text: "Are all assets classified according to sensitivity levels?"},
			{ID: "AM-003", Text: "Is there a formal process for asset disposal and data sanitization?"},
			{ID: "AM-004", Text: "Are mobile devices and removable media controlled and encrypted?"},
			{ID: "AM-005", Text: "Do you track software licenses and ensure compliance?"},
		},
	},
	{
		Key:         "RISK_MANAGEMENT",
		Title:       "Risk Management",
		Description: "Risk assessment, treatment, and vendor management",
		Questions: []Question{
			{ID: "RM-001", Text: "Do you conduct formal risk assessments at least annually?"},
			{ID: "RM-002", Text: "Is there a risk register maintained and regularly updated?"},
			{ID: "RM-003", Text: "Are risk treatment plans documented and tracked?"},
			{ID: "RM-004", Text: "Do you have a vendor risk management program?"},
			{ID: "RM-005", Text: "Are security metrics reported to executive management?"},
		},
	},
	{
		Key:         "INCIDENT_RESPONSE",
		Title:       "Incident Response",
		Description: "Security incident detection, response, and reporting",
		Questions: []Question{
			{ID: "IR-001", Text: "Do you have a documented incident response plan?"},
			{ID: "IR-002", Text: "Is the incident response team trained and tested regularly?"},
			{ID: "IR-003", Text: "Do you have 24/7 security monitoring capabilities?"},
			{ID: "IR-004", Text: "Are security incidents logged and analyzed for trends?"},
			{ID: "IR-005", Text: "Do you have breach notification procedures in place?"},
		},
	},
	{
		Key:         "BUSINESS_CONTINUITY",
		Title:       "Business Continuity",
		Description: "Business continuity planning and disaster recovery",
		Questions: []Question{
			{ID: "BC-001", Text: "Do you have a documented business continuity plan?"},
			{ID: "BC-002", Text: "Are critical systems backed up with defined RPO/RTO targets?"},
			{ID: "BC-003", Text: "Do you test disaster recovery procedures at least annually?"},
			{ID: "BC-004", Text: "Is there an alternate processing site or cloud-based failover?"},
			{ID: "BC-005", Text: "Are business impact analyses conducted and updated regularly?"},
		},
	},
}

// Categories returns the questionnaire definition in presentation order.
func Categories() []Category {
	return categories
}

// QuestionCount is the total number of questions across all categories.
func QuestionCount() int {
	n := 0
	for _, c := range categories {
		n += len(c.Questions)
	}
	return n
}

// Response is one answered question as the API expects it.
type Response struct {
	QuestionID string `json:"questionId"`
	Category   string `json:"category"`
	Question   string `json:"question"`
	Answer     Answer `json:"answer"`
	Notes      string `json:"notes,omitempty"`
}

// Submission is the full questionnaire payload.
type Submission struct {
	Answers     []Response `json:"answers"`
	SubmittedAt time.Time  `json:"submittedAt"`
}

// NewSubmission builds a Submission from answers keyed by question ID.
// Every question must be answered; responses are ordered by the
// questionnaire definition regardless of map order.
func NewSubmission(answers map[string]Answer) (*Submission, error) {
	var missing []string
	responses := make([]Response, 0, QuestionCount())

	for _, c := range categories {
		for _, q := range c.Questions {
			a, ok := answers[q.ID]
			if !ok {
				missing = append(missing, q.ID)
				continue
			}
			responses = append(responses, Response{
				QuestionID: q.ID,
				Category:   c.Key,
				Question:   q.Text,
				Answer:     a,
			})
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("unanswered questions: %s", strings.Join(missing, ", "))
	}

	return &Submission{Answers: responses, SubmittedAt: time.Now().UTC()}, nil
}
