package http

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/domain"
	"github.com/aussiebroadwan/taskapi/pkg/httpx"
	"github.com/aussiebroadwan/taskapi/pkg/taskclient"
)

const msgValidationFailed = "Validation failed"

type registerRequest taskclient.RegisterRequest

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("Name is required"),
			validation.Length(2, 50).Error("Name must be between 2 and 50 characters"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("Email is required"),
			is.Email.Error("Email should be valid"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("Password is required"),
			validation.Length(6, 100).Error("Password must be between 6 and 100 characters"),
		),
	)
}

type loginRequest taskclient.LoginRequest

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("Email is required"),
			is.Email.Error("Email should be valid"),
		),
		validation.Field(&r.Password, validation.Required.Error("Password is required")),
	)
}

type changePasswordRequest taskclient.ChangePasswordRequest

func (r changePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required.Error("Current password is required")),
		validation.Field(&r.NewPassword,
			validation.Required.Error("New password is required"),
			validation.Length(6, 100).Error("Password must be between 6 and 100 characters"),
		),
	)
}

var (
	taskStatuses   = []any{string(domain.TaskTodo), string(domain.TaskInProgress), string(domain.TaskReview), string(domain.TaskDone)}
	taskPriorities = []any{string(domain.PriorityLow), string(domain.PriorityMedium), string(domain.PriorityHigh), string(domain.PriorityUrgent)}
)

type createTaskRequest taskclient.CreateTaskRequest

func (r createTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("Title is required"),
			validation.Length(1, 100).Error("Title must be between 1 and 100 characters"),
		),
		validation.Field(&r.Description, validation.Length(0, 500).Error("Description cannot exceed 500 characters")),
		validation.Field(&r.Status, validation.In(taskStatuses...).Error("Unknown task status")),
		validation.Field(&r.Priority, validation.In(taskPriorities...).Error("Unknown task priority")),
	)
}

type updateTaskRequest taskclient.UpdateTaskRequest

func (r updateTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.NilOrNotEmpty.Error("Title must be between 1 and 100 characters"),
			validation.Length(1, 100).Error("Title must be between 1 and 100 characters"),
		),
		validation.Field(&r.Description, validation.Length(0, 500).Error("Description cannot exceed 500 characters")),
		validation.Field(&r.Status, validation.In(taskStatuses...).Error("Unknown task status")),
		validation.Field(&r.Priority, validation.In(taskPriorities...).Error("Unknown task priority")),
	)
}

type roleRequest taskclient.RoleRequest

func (r roleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role,
			validation.Required.Error("Role is required"),
			validation.In(string(domain.RoleUser), string(domain.RoleAdmin)).Error("Role must be USER or ADMIN"),
		),
	)
}

// decodeAndValidate reads a JSON body into dst and validates it, writing the
// 400 response itself when either step fails.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst validation.Validatable) bool {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, taskclient.ValidationErrorResponse{
			Message: "Malformed request body",
		})
		return false
	}

	if err := dst.Validate(); err != nil {
		writeValidationError(w, err)
		return false
	}
	return true
}

func writeValidationError(w http.ResponseWriter, err error) {
	resp := taskclient.ValidationErrorResponse{Message: msgValidationFailed}

	var fields validation.Errors
	if errors.As(err, &fields) {
		resp.Errors = make(map[string]string, len(fields))
		for name, fieldErr := range fields {
			resp.Errors[name] = fieldErr.Error()
		}
	} else {
		resp.Message = err.Error()
	}

	httpx.WriteJSON(w, http.StatusBadRequest, resp)
}
