package model

type GetMyNotificationsRequest struct {
	Limit int `json:"limit"`
}

type GetMyNotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
}

type MarkNotificationReadRequest struct {
	ID string `json:"id"`
}

type MarkNotificationReadResponse struct{}
