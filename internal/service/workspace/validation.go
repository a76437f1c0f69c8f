package workspace

import (
	"fmt"
	"strings"

	"atrium/internal/config"
	models "atrium/internal/domain/models/workspace"
	wsSvc "atrium/internal/domain/services/workspace"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// validateCreateRequest validates a folder creation request
func validateCreateRequest(req *wsSvc.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
			validation.By(validateFolderName),
		),
		validation.Field(&req.FolderType,
			validation.Required,
			validation.By(validateFolderType),
		),
		validation.Field(&req.Visibility,
			validation.Required,
			validation.By(validateVisibility),
		),
	)
}

// validateUpdateRequest validates a folder update request
func validateUpdateRequest(req *wsSvc.UpdateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Length(1, config.MaxFolderNameLength),
			validation.By(validateOptionalFolderName),
		),
		validation.Field(&req.Visibility,
			validation.By(validateOptionalVisibility),
		),
	)
}

// validateFolderName validates a folder name
func validateFolderName(value interface{}) error {
	name, ok := value.(string)
	if !ok {
		return fmt.Errorf("name must be a string")
	}

	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty or whitespace")
	}

	if strings.Contains(name, "/") {
		return fmt.Errorf("name cannot contain '/'")
	}

	return nil
}

func validateOptionalFolderName(value interface{}) error {
	name, ok := value.(*string)
	if !ok {
		return fmt.Errorf("name must be a string")
	}
	if name == nil {
		return nil
	}
	return validateFolderName(*name)
}

func validateFolderType(value interface{}) error {
	t, ok := value.(models.FolderType)
	if !ok {
		return fmt.Errorf("folder_type must be a string")
	}
	if !t.IsValid() {
		return fmt.Errorf("unknown folder type %q", t)
	}
	return nil
}

func validateVisibility(value interface{}) error {
	v, ok := value.(models.Visibility)
	if !ok {
		return fmt.Errorf("visibility must be a string")
	}
	if !v.IsValid() {
		return fmt.Errorf("unknown visibility %q", v)
	}
	return nil
}

func validateOptionalVisibility(value interface{}) error {
	v, ok := value.(*models.Visibility)
	if !ok {
		return fmt.Errorf("visibility must be a string")
	}
	if v == nil {
		return nil
	}
	return validateVisibility(*v)
}
