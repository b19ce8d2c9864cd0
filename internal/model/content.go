package model

type CreateContentRequest struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
}

type CreateContentResponse struct {
	Content Content `json:"content"`
}

type GetContentRequest struct {
	ID string `json:"id"`
}

type GetContentResponse Content

type GetContentsRequest struct {
	Type      string `json:"type"`
	CreatorID string `json:"creator_id"`
	Offset    int    `json:"offset"`
	Limit     int    `json:"limit"`
}

type GetContentsResponse struct {
	Contents []Content `json:"contents"`
}

type RecordViewRequest struct {
	ContentID string `json:"content_id"`
}

type RecordViewResponse struct{}

type RecordDownloadRequest struct {
	ContentID string `json:"content_id"`
}

type RecordDownloadResponse struct{}

type ToggleReactionRequest struct {
	ContentID string `json:"content_id"`
	Type      string `json:"type"`
}

type ToggleReactionResponse struct {
	// Active reports whether the reaction is present after the toggle.
	Active bool `json:"active"`
}

type RateContentRequest struct {
	ContentID string `json:"content_id"`
	Score     int    `json:"score"`
}

type RateContentResponse struct {
	RatingCount   int64   `json:"rating_count"`
	AverageRating float64 `json:"average_rating"`
}
