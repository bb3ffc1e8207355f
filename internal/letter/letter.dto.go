package letter

type CreateLetterRequest struct {
	Content string `json:"content"`
	Mood    string `json:"mood"`
}

type CreateLetterResponse struct {
	Success bool `json:"success"`
}

type ReactRequest struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type ReactResponse struct {
	Success   bool `json:"success"`
	FireCount int  `json:"fireCount"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
