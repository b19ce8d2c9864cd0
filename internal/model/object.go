package model

type User struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Handle          int64  `json:"handle"`
	Role            string `json:"role,omitempty"`
	IsPlatformOwner bool   `json:"is_platform_owner,omitempty"`
}

type Wallet struct {
	UserID       string `json:"user_id"`
	GiftPoints   int64  `json:"gift_points"`
	EarnedPoints int64  `json:"earned_points"`
	TotalPoints  int64  `json:"total_points"`
}

type Content struct {
	ID          string `json:"id"`
	CreatedAt   string `json:"created_at"`
	Creator     User   `json:"creator"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`

	Views         int64   `json:"views"`
	UniqueViews   int64   `json:"unique_views"`
	Downloads     int64   `json:"downloads"`
	Likes         int64   `json:"likes"`
	Dislikes      int64   `json:"dislikes"`
	RatingCount   int64   `json:"rating_count"`
	AverageRating float64 `json:"average_rating"`
}

type Contest struct {
	ID              string `json:"id"`
	CreatedAt       string `json:"created_at"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Status          string `json:"status"`
	NumberOfWinners int    `json:"number_of_winners"`
	RewardPoints    int64  `json:"reward_points"`
	EndedAt         string `json:"ended_at,omitempty"`
}

type ContestWinner struct {
	ContestID string `json:"contest_id"`
	UserID    string `json:"user_id"`
	Rank      int    `json:"rank"`
}

type PointTransaction struct {
	ID          int64  `json:"id"`
	CreatedAt   string `json:"created_at"`
	SenderID    string `json:"sender_id,omitempty"`
	RecipientID string `json:"recipient_id,omitempty"`
	Type        string `json:"type"`
	Amount      int64  `json:"amount"`
	Note        string `json:"note,omitempty"`
}

type PurchaseReceipt struct {
	ID              string         `json:"id"`
	CreatedAt       string         `json:"created_at"`
	BuyerID         string         `json:"buyer_id"`
	SellerID        string         `json:"seller_id"`
	ContentID       string         `json:"content_id"`
	Price           int64          `json:"price"`
	Commission      int64          `json:"commission"`
	ContentSnapshot map[string]any `json:"content_snapshot"`
}

type Notification struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	UserID    string `json:"user_id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
}

type UserStatistic struct {
	User        User  `json:"user"`
	Value       int64 `json:"value"`
	CurrentRank uint64 `json:"current_rank"`
}

// NotificationEvent is the payload published to the notification topic when
// a notification row is created.
type NotificationEvent struct {
	NotificationID string `mapstructure:"notification_id" json:"notification_id"`
	UserID         string `mapstructure:"user_id" json:"user_id"`
	Type           string `mapstructure:"type" json:"type"`
	Title          string `mapstructure:"title" json:"title"`
	Message        string `mapstructure:"message" json:"message"`
}
