package entity

// PurchaseReceipt is the immutable audit record of a settled purchase and
// the buyer's proof of ownership. ContentSnapshot freezes the purchased
// content at settlement time, so later edits do not retroactively alter
// what the buyer is entitled to.
type PurchaseReceipt struct {
	Base

	BuyerID string `gorm:"uniqueIndex:idx_receipt_buyer_content"`
	Buyer   User   `gorm:"foreignKey:BuyerID"`

	SellerID string
	Seller   User `gorm:"foreignKey:SellerID"`

	ContentID string  `gorm:"uniqueIndex:idx_receipt_buyer_content"`
	Content   Content `gorm:"foreignKey:ContentID"`

	Price      int64
	Commission int64

	ContentSnapshot Map
}
