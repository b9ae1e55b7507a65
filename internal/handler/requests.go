package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strconv"
	"strings"
	"unicode/utf8"

	"oddmap/internal/domain"
	"oddmap/internal/service"
	"oddmap/pkg/location"
	"oddmap/pkg/media"

	"github.com/go-playground/validator/v10"
)

const (
	msgImageRequired = "Missing required fields or valid image."
	msgImageTooLarge = "Image too large (max 5MB)"
	msgImageFormat   = "Invalid image format"
	msgInvalidJSON   = "Invalid comment."
)

// CreateLocationRequest is the multipart form of POST /api/locations.
// Coordinates stay strings so a parse failure is reported per field.
type CreateLocationRequest struct {
	Name        string                `form:"name"`
	Description string                `form:"description"`
	Latitude    string                `form:"latitude"`
	Longitude   string                `form:"longitude"`
	Image       *multipart.FileHeader `form:"image"`
}

func parseCoordinate(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !location.Finite(v) {
		return 0, domain.Invalid(field, field+" must be a finite number")
	}
	return v, nil
}

func requireText(field, raw string, max int) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", domain.Invalid(field, field+" is required")
	}
	if utf8.RuneCountInString(s) > max {
		return "", domain.Invalid(field, fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return s, nil
}

func declaredType(fh *multipart.FileHeader) string {
	mt, _, err := mime.ParseMediaType(fh.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}

// Validate checks the request in a fixed order: attachment, coordinates,
// text, size, declared type. It performs no I/O.
func (r *CreateLocationRequest) Validate() (service.Submission, error) {
	var sub service.Submission
	if r.Image == nil {
		return sub, domain.Invalid("image", msgImageRequired)
	}
	lat, err := parseCoordinate("latitude", r.Latitude)
	if err != nil {
		return sub, err
	}
	lng, err := parseCoordinate("longitude", r.Longitude)
	if err != nil {
		return sub, err
	}
	if !location.ValidLatitude(lat) {
		return sub, domain.Invalid("latitude", "latitude must be between -90 and 90")
	}
	name, err := requireText("name", r.Name, domain.MaxNameLength)
	if err != nil {
		return sub, err
	}
	desc, err := requireText("description", r.Description, domain.MaxDescriptionLength)
	if err != nil {
		return sub, err
	}
	if r.Image.Size > domain.MaxImageBytes {
		return sub, domain.Invalid("image", msgImageTooLarge)
	}
	ct := declaredType(r.Image)
	if !domain.AllowedImageTypes[ct] {
		return sub, domain.Invalid("image", msgImageFormat)
	}
	return service.Submission{
		Name:        name,
		Description: desc,
		Latitude:    lat,
		Longitude:   location.NormalizeLongitude(lng),
		Filename:    r.Image.Filename,
		ContentType: ct,
	}, nil
}

// readImage loads the attachment and checks that its bytes match an allowed type.
func readImage(fh *multipart.FileHeader, sub *service.Submission) error {
	f, err := fh.Open()
	if err != nil {
		return domain.Invalid("image", msgImageRequired)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, domain.MaxImageBytes+1))
	if err != nil {
		return domain.Invalid("image", msgImageRequired)
	}
	if len(data) > domain.MaxImageBytes {
		return domain.Invalid("image", msgImageTooLarge)
	}
	sniffed, ext := media.Detect(data)
	if !domain.AllowedImageTypes[sniffed] {
		return domain.Invalid("image", msgImageFormat)
	}
	sub.Data = data
	sub.ContentType = sniffed
	sub.Extension = ext
	return nil
}

// CreateCommentRequest is the JSON body of POST /api/locations/:id/comments.
// The max must track domain.MaxCommentLength.
type CreateCommentRequest struct {
	Comment string `json:"comment" binding:"required,min=1,max=2000"`
}

// commentBindError translates a binding failure into a ValidationError.
func commentBindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.Invalid("comment", msgInvalidJSON)
	}
	switch verrs[0].Tag() {
	case "max":
		return domain.Invalid("comment", fmt.Sprintf("comment must be at most %d characters", domain.MaxCommentLength))
	default:
		return domain.Invalid("comment", "comment must not be empty")
	}
}
