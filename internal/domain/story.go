package domain

// Story is the subset of a stories row needed to find its owner.
type Story struct {
	ID     string `json:"id" dynamodbav:"id"`
	UserID string `json:"user_id" dynamodbav:"user_id"`
}
