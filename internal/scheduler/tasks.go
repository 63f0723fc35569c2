package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TaskRescoreProfessionals = "professionals.rescore"

// RescorePayload names one professional, or every professional when
// ProfessionalID is empty.
type RescorePayload struct {
	ProfessionalID string `json:"professionalId,omitempty"`
	Reason         string `json:"reason"`
}

// Target returns the parsed professional ID, or nil for a full rescore.
func (p RescorePayload) Target() (*uuid.UUID, error) {
	if p.ProfessionalID == "" {
		return nil, nil
	}
	id, err := uuid.Parse(p.ProfessionalID)
	if err != nil {
		return nil, fmt.Errorf("invalid professional id %q: %w", p.ProfessionalID, err)
	}
	return &id, nil
}

func NewRescoreTask(payload RescorePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRescoreProfessionals, data), nil
}

func ParseRescorePayload(task *asynq.Task) (RescorePayload, error) {
	var payload RescorePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RescorePayload{}, err
	}
	return payload, nil
}
