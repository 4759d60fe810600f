package types

// ExecuteRequest asks the executor to dispatch a command by id.
type ExecuteRequest struct {
	ID string `json:"id" binding:"required"`
}

// ExecuteResponse reports the outcome of a dispatch attempt.
type ExecuteResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// CatalogStats summarizes one catalog snapshot.
type CatalogStats struct {
	Total      int              `json:"total"`
	Categories map[Category]int `json:"categories"`
	CachedAt   int64            `json:"cached_at,omitempty"`
}
