package models

// Task is a card on the Kanban board. Status names the column it sits in.
type Task struct {
	ID     int    `json:"id"`
	Text   string `json:"text"`
	Status string `json:"status"`
}

// CreateTaskRequest is the POST /tasks payload. Both fields are required;
// a nil pointer means the field was absent (or null) in the JSON body.
type CreateTaskRequest struct {
	Text   *string `json:"text"`
	Status *string `json:"status"`
}

// UpdateTaskRequest is the PUT/PATCH payload. Only non-nil fields are applied.
type UpdateTaskRequest struct {
	Text   *string `json:"text,omitempty"`
	Status *string `json:"status,omitempty"`
}

// Apply copies the present fields of req onto t.
func (req UpdateTaskRequest) Apply(t *Task) {
	if req.Text != nil {
		t.Text = *req.Text
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
}

// Ptr returns a pointer to s. Handy for building requests.
func Ptr(s string) *string { return &s }
