package model

type ListNotificationsReq struct {
	UnreadOnly bool `query:"unread"`
	Page       int  `query:"page"`
	Limit      int  `query:"limit"`
}

func (r *ListNotificationsReq) Validate() error {
	return normalizePaging(&r.Page, &r.Limit)
}

type ListNotificationsResp struct {
	Notifications []*Notification `json:"notifications"`
	Unread        int64           `json:"unread"`
	Page
}
