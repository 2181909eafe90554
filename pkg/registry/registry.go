// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"productlab-workers/internal/common/validation"
)

const DefaultPath = "configs/activity-registry.json"

var ErrActivityNotFound = errors.New("activity not found")

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &reg, nil
}

// Save writes the registry as indented JSON, creating the directory if needed.
func (r *ActivityRegistry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Validate checks required fields, id naming and uniqueness of ids and task types.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]string)
	var errs []error
	for _, a := range r.Activities {
		if a.ID == "" {
			errs = append(errs, fmt.Errorf("activity missing required field: id"))
			continue
		}
		if ids[a.ID] {
			errs = append(errs, fmt.Errorf("duplicate activity ID: %s", a.ID))
		}
		ids[a.ID] = true

		if err := validation.ValidateActivityNaming(a.ID); err != nil {
			errs = append(errs, err)
		}
		if a.DisplayName == "" {
			errs = append(errs, fmt.Errorf("activity %s missing required field: displayName", a.ID))
		}
		if a.Category == "" {
			errs = append(errs, fmt.Errorf("activity %s missing required field: category", a.ID))
		}
		if a.TaskType == "" {
			errs = append(errs, fmt.Errorf("activity %s missing required field: taskType", a.ID))
		} else if other, ok := taskTypes[a.TaskType]; ok {
			errs = append(errs, fmt.Errorf("activities %s and %s share task type %s", other, a.ID, a.TaskType))
		} else {
			taskTypes[a.TaskType] = a.ID
		}
		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				errs = append(errs, fmt.Errorf("activity %s has invalid timeout %q", a.ID, a.Timeout))
			}
		}
		if a.Retries < 0 {
			errs = append(errs, fmt.Errorf("activity %s has negative retries", a.ID))
		}
	}
	return errors.Join(errs...)
}

// FindByTaskType returns the activity registered for taskType.
func (r *ActivityRegistry) FindByTaskType(taskType string) (*Activity, error) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], nil
		}
	}
	return nil, fmt.Errorf("task type %s: %w", taskType, ErrActivityNotFound)
}

// Add appends a new activity. The id must be unused.
func (r *ActivityRegistry) Add(a Activity) error {
	for _, existing := range r.Activities {
		if existing.ID == a.ID {
			return fmt.Errorf("activity with ID %s already exists", a.ID)
		}
	}
	if a.Version == "" {
		a.Version = "1.0.0"
	}
	if a.ImplementationStatus == "" {
		a.ImplementationStatus = StatusPlanned
	}
	if a.Timeout == "" {
		a.Timeout = "10s"
	}
	r.Activities = append(r.Activities, a)
	r.touch()
	return nil
}

// Update sets one editable field of the activity with the given id.
func (r *ActivityRegistry) Update(id, field, value string) error {
	var a *Activity
	for i := range r.Activities {
		if r.Activities[i].ID == id {
			a = &r.Activities[i]
			break
		}
	}
	if a == nil {
		return fmt.Errorf("activity %s: %w", id, ErrActivityNotFound)
	}

	switch field {
	case "status":
		a.ImplementationStatus = value
	case "version":
		a.Version = value
	case "displayName":
		a.DisplayName = value
	case "description":
		a.Description = value
	case "category":
		a.Category = value
	case "taskType":
		a.TaskType = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		a.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		a.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	r.touch()
	return nil
}

func (r *ActivityRegistry) touch() {
	r.LastUpdated = time.Now().UTC().Format(time.RFC3339)
}
