package workitems

// Work item type, tag and state values the gateway reasons about.
const (
	TypeUserStory = "User Story"
	TagNew        = "US New"
	StateClosed   = "Closed"
)

// WorkItem is the canonical flat shape served to clients.
type WorkItem struct {
	ID                 int        `json:"id"`
	Title              string     `json:"title"`
	WorkItemType       string     `json:"work_item_type"`
	State              string     `json:"state"`
	AssignedTo         string     `json:"assigned_to,omitempty"`
	Tags               *string    `json:"tags"`
	Description        string     `json:"description"`
	AcceptanceCriteria string     `json:"acceptance_criteria"`
	Dependencies       []int      `json:"dependencies"`
	ChildIDs           []int      `json:"child_ids,omitempty"`
	EstimatedHours     *float64   `json:"estimated_hours"`
	CompletedHours     *float64   `json:"completed_hours"`
	NewEstimate        *float64   `json:"new_estimate,omitempty"`
	StoryPoints        *float64   `json:"story_points,omitempty"`
	Priority           *int       `json:"priority,omitempty"`
	DueDate            string     `json:"due_date,omitempty"`
	WorkItemURL        string     `json:"work_item_url"`
	Progress           *int       `json:"progress,omitempty"`
	ChildWorkItems     []WorkItem `json:"child_work_items,omitempty"`
}

// IsUserStory reports whether the item is a User Story.
func (w WorkItem) IsUserStory() bool {
	return w.WorkItemType == TypeUserStory
}

// HasTagsExactly compares the raw tags field by exact string equality.
func (w WorkItem) HasTagsExactly(tags string) bool {
	return w.Tags != nil && *w.Tags == tags
}

// IncompleteTicket is a User Story lacking description or acceptance criteria.
type IncompleteTicket struct {
	WorkItem
	MissingDescription        bool `json:"missing_description"`
	MissingAcceptanceCriteria bool `json:"missing_acceptance_criteria"`
}
