package model

type GetMyWalletRequest struct{}

type GetMyWalletResponse Wallet

// TransferPointsRequest addresses the recipient either by public numeric
// handle or by raw user id; the id wins when both are set.
type TransferPointsRequest struct {
	RecipientHandle int64  `json:"recipient_handle"`
	RecipientID     string `json:"recipient_id"`
	Amount          int64  `json:"amount"`
	Note            string `json:"note"`
}

type TransferPointsResponse struct{}

type GrantPointsRequest struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

type GrantPointsResponse struct{}

type GetMyTransactionsRequest struct {
	Limit int `json:"limit"`
}

type GetMyTransactionsResponse struct {
	Transactions []PointTransaction `json:"transactions"`
}
