package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler     authHandler
	postHandler     postHandler
	categoryHandler categoryHandler
}

// PageWindow points at a neighboring page in a paginated listing.
type PageWindow struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination carries the next/prev descriptors for a listing. A side with
// no page is omitted.
type Pagination struct {
	Next *PageWindow `json:"next,omitempty"`
	Prev *PageWindow `json:"prev,omitempty"`
}

// dataResponse is the standard success envelope.
type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// tokenResponse is returned by register, login, and password updates.
type tokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Data    any    `json:"data,omitempty"`
}

// listResponse is the paginated listing envelope.
type listResponse struct {
	Success    bool        `json:"success"`
	Count      int         `json:"count"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Data       any         `json:"data"`
}

// errorResponse is the uniform failure envelope. Detail is only populated
// outside production.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}
