package model

type BuyContentRequest struct {
	ContentID string `json:"content_id"`
}

type BuyContentResponse struct {
	Receipt PurchaseReceipt `json:"receipt"`
}

type GetMyPurchasesRequest struct{}

type GetMyPurchasesResponse struct {
	Receipts []PurchaseReceipt `json:"receipts"`
}
