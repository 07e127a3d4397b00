package activity

// DefaultLimit caps listings when no limit is given.
const DefaultLimit = 50

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	ProjectID    string
	TrackingID   *string
	ActivityType *ActivityType
	Limit        int
	Offset       int
}
