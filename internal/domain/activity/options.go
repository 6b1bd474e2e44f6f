package activity

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	ActivityType *ActivityType
	SubjectID    *int64
	Limit        int
	Offset       int
}
