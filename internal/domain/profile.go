package domain

// Profile is the subset of a profiles row used for addressing and display.
type Profile struct {
	ID       string  `json:"id" dynamodbav:"id"`
	Username string  `json:"username" dynamodbav:"username"`
	FCMToken *string `json:"fcm_token" dynamodbav:"fcm_token"`
}

// DeviceToken returns the registered push token, or "" when none is set.
func (p *Profile) DeviceToken() string {
	if p == nil || p.FCMToken == nil {
		return ""
	}
	return *p.FCMToken
}
