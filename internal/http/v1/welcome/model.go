package welcome

// Data models the response payload for welcome endpoints.
type Data struct {
	Message string `json:"message" doc:"Welcome message" example:"Welcome to IBM Cloud DevOps using Code Engine and Github Actions!"`
}

// GetOutput is the response wrapper for the welcome endpoints.
type GetOutput struct {
	Body Data
}
