package service

// PageRequest selects one page of a list.
type PageRequest struct {
	Limit  int
	Offset int
}

// Anonymous is the viewer id of an unauthenticated request.
const Anonymous uint = 0
