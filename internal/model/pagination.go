package model

// Pagination selects a window of a listing. A nil Limit means no limit.
type Pagination struct {
	Limit  *int
	Offset int
}
