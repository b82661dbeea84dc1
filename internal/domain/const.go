package domain

const (
	// Review surface paths embedded in notification metadata
	REVIEW_REQUESTS_PATH   = "/requests/pending"
	ARTWORK_DETAIL_PATH    = "/artworks/%s"
	SUBMITTED_REQUEST_PATH = "/requests/%s"

	// Notification subject prefix used on the message broker
	NOTIFICATION_SUBJECT_PREFIX = "notifications"

	// Maximum number of items accepted by a single batch provenance update
	MAX_BATCH_UPDATE_ITEMS = 100
)
