package domain

// PushNotification is the user-visible part of a push message.
type PushNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// PushMessage is a single provider-agnostic push addressed to one device token.
type PushMessage struct {
	Token        string            `json:"token"`
	Notification PushNotification  `json:"notification"`
	Data         map[string]string `json:"data"`
}
