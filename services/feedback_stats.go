package services

import "github.com/AbdBoutchichi/SmartDish/models"

// AverageRating returns the arithmetic mean of the ratings, or nil when there
// are none. Callers that need a display value substitute 0.0 themselves.
func AverageRating(feedbacks []models.Feedback) *float64 {
	if len(feedbacks) == 0 {
		return nil
	}
	sum := 0
	for _, f := range feedbacks {
		sum += f.Rating
	}
	avg := float64(sum) / float64(len(feedbacks))
	return &avg
}

// RatingHistogram counts feedbacks per star value. Ratings nobody gave are
// absent from the map, not zero-filled.
func RatingHistogram(feedbacks []models.Feedback) map[int]int64 {
	hist := make(map[int]int64)
	for _, f := range feedbacks {
		hist[f.Rating]++
	}
	return hist
}
