package domain

// ReportThreshold is the report count at which a location drops out of listings.
const ReportThreshold = 5

const (
	LocationListLimit = 200
	CommentListLimit  = 50
)

const (
	MaxImageBytes        = 5 * 1024 * 1024
	MaxNameLength        = 200
	MaxDescriptionLength = 4000
	MaxCommentLength     = 2000
)

const (
	DefaultNearRadiusKm = 25.0
	MaxNearRadiusKm     = 500.0
)

// AllowedImageTypes is checked against both the declared and the sniffed type.
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// Visible is the moderation gate. It is evaluated on every read; nothing is stored.
func Visible(reportCount int) bool {
	return reportCount < ReportThreshold
}
