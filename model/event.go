package model

// Event is a backend-identified highlight within an analyzed video.
// The client never constructs one, it only decodes and formats them.
type Event struct {
	ID            int      `json:"id"`
	Timestamp     float64  `json:"timestamp"` // seconds into the video
	Description   string   `json:"description"`
	VideoID       string   `json:"video_id"`
	VideoFilename string   `json:"video_filename"`
	LLMSummary    string   `json:"llm_summary,omitempty"`
	Similarity    *float64 `json:"similarity,omitempty"` // in [0,1], absent for unscored listings
}
