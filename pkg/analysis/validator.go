package analysis

import (
	"AgroTech-Vision/domain"
	"AgroTech-Vision/internal/utils"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
)

// SelectedFile is an image picked for analysis, with the type its source declared.
type SelectedFile struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type" validate:"required,oneof=image/jpeg image/jpg image/png image/webp"`
	Size     int64  `json:"size" validate:"min=0,max=10485760"`
	Data     []byte `json:"-"`
}

// ValidateFile checks the declared type and the size only. It returns "" when the file
// is acceptable.
func ValidateFile(file SelectedFile) string {
	utils.InitValidator()

	err := utils.Validate.Struct(file)
	if err == nil {
		return ""
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}
	for _, fe := range fieldErrors {
		if fe.StructField() == "MimeType" {
			return domain.MessageInvalidFileType
		}
	}
	return fmt.Sprintf(domain.MessageFileTooLargeFmt, domain.MaxFileSize/(1024*1024))
}

// DetectMimeType sniffs data for sources that carry no declared type.
func DetectMimeType(data []byte) string {
	return mimetype.Detect(data).String()
}

func SelectedFileFromPath(path string) (SelectedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SelectedFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return SelectedFile{
		Name:     filepath.Base(path),
		MimeType: DetectMimeType(data),
		Size:     int64(len(data)),
		Data:     data,
	}, nil
}
