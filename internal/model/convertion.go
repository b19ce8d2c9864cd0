package model

import (
	"time"

	"github.com/modhub-lab/backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertUser(user *entity.User, includeSensitive bool) User {
	if user == nil {
		return User{}
	}

	clientUser := User{
		ID:     user.ID,
		Name:   user.Name,
		Handle: user.Handle,
	}

	if includeSensitive {
		clientUser.Role = string(user.Role)
		clientUser.IsPlatformOwner = user.IsPlatformOwner
	}

	return clientUser
}

func ConvertWallet(wallet *entity.Wallet) Wallet {
	if wallet == nil {
		return Wallet{}
	}

	return Wallet{
		UserID:       wallet.UserID,
		GiftPoints:   wallet.GiftPoints,
		EarnedPoints: wallet.EarnedPoints,
		TotalPoints:  wallet.GiftPoints + wallet.EarnedPoints,
	}
}

func ConvertContent(content *entity.Content, creator User) Content {
	if content == nil {
		return Content{}
	}

	return Content{
		ID:            content.ID,
		CreatedAt:     content.CreatedAt.Format(DefaultTimeLayout),
		Creator:       creator,
		Type:          string(content.Type),
		Title:         content.Title,
		Description:   content.Description,
		Price:         content.Price,
		Views:         content.Views,
		UniqueViews:   content.UniqueViews,
		Downloads:     content.Downloads,
		Likes:         content.Likes,
		Dislikes:      content.Dislikes,
		RatingCount:   content.RatingCount,
		AverageRating: content.AverageRating,
	}
}

func ConvertContest(contest *entity.Contest) Contest {
	if contest == nil {
		return Contest{}
	}

	clientContest := Contest{
		ID:              contest.ID,
		CreatedAt:       contest.CreatedAt.Format(DefaultTimeLayout),
		Title:           contest.Title,
		Description:     contest.Description,
		Status:          string(contest.Status),
		NumberOfWinners: contest.NumberOfWinners,
		RewardPoints:    contest.RewardPoints,
	}

	if contest.EndedAt.Valid {
		clientContest.EndedAt = contest.EndedAt.Time.Format(DefaultTimeLayout)
	}

	return clientContest
}

func ConvertContestWinners(winners []entity.ContestWinner) []ContestWinner {
	clientWinners := []ContestWinner{}
	for _, w := range winners {
		clientWinners = append(clientWinners, ContestWinner{
			ContestID: w.ContestID,
			UserID:    w.UserID,
			Rank:      w.Rank,
		})
	}

	return clientWinners
}

func ConvertPointTransaction(tx *entity.PointTransaction) PointTransaction {
	if tx == nil {
		return PointTransaction{}
	}

	return PointTransaction{
		ID:          tx.ID,
		CreatedAt:   tx.CreatedAt.Format(DefaultTimeLayout),
		SenderID:    tx.SenderID.String,
		RecipientID: tx.RecipientID.String,
		Type:        string(tx.Type),
		Amount:      tx.Amount,
		Note:        tx.Note,
	}
}

func ConvertPurchaseReceipt(receipt *entity.PurchaseReceipt) PurchaseReceipt {
	if receipt == nil {
		return PurchaseReceipt{}
	}

	return PurchaseReceipt{
		ID:              receipt.ID,
		CreatedAt:       receipt.CreatedAt.Format(DefaultTimeLayout),
		BuyerID:         receipt.BuyerID,
		SellerID:        receipt.SellerID,
		ContentID:       receipt.ContentID,
		Price:           receipt.Price,
		Commission:      receipt.Commission,
		ContentSnapshot: receipt.ContentSnapshot,
	}
}

func ConvertNotification(notification *entity.Notification) Notification {
	if notification == nil {
		return Notification{}
	}

	return Notification{
		ID:        notification.ID,
		CreatedAt: notification.CreatedAt.Format(DefaultTimeLayout),
		UserID:    notification.UserID,
		Type:      string(notification.Type),
		Title:     notification.Title,
		Message:   notification.Message,
		IsRead:    notification.IsRead,
	}
}
