package review

type CreateReviewRequest struct {
	TourID  int64  `json:"tour_id" binding:"required"`
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}
