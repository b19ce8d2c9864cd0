package domain

import (
	"context"
	"net"
	"strings"

	"github.com/modhub-lab/backend/internal/entity"
	"github.com/modhub-lab/backend/internal/repository"
	"github.com/modhub-lab/backend/pkg/xcontext"
)

// FraudRegistry decides whether the request origin already registered an
// account. It never blocks registration, it only withholds the welcome
// grant, so a false positive costs some gift points and nothing else.
type FraudRegistry interface {
	IsFlagged(ctx context.Context) (bool, error)
	RecordOrigins(ctx context.Context, userID string) error
}

type fraudRegistry struct {
	fraudRecordRepo repository.FraudRecordRepository
}

func NewFraudRegistry(fraudRecordRepo repository.FraudRecordRepository) *fraudRegistry {
	return &fraudRegistry{fraudRecordRepo: fraudRecordRepo}
}

func (r *fraudRegistry) IsFlagged(ctx context.Context) (bool, error) {
	return r.fraudRecordRepo.ExistsAny(ctx, requestOriginKeys(ctx))
}

func (r *fraudRegistry) RecordOrigins(ctx context.Context, userID string) error {
	for _, key := range requestOriginKeys(ctx) {
		err := r.fraudRecordRepo.Create(ctx, &entity.FraudRecord{
			OriginKey: key,
			UserID:    userID,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// requestOriginKeys derives the fraud keys of this request. An origin the
// request doesn't carry contributes no key.
func requestOriginKeys(ctx context.Context) []string {
	keys := []string{}
	if ip := normalizeIP(xcontext.RequestRemoteIP(ctx)); ip != "" {
		keys = append(keys, "ip:"+ip)
	}

	if deviceID := xcontext.RequestDeviceID(ctx); deviceID != "" {
		keys = append(keys, "device:"+strings.ToLower(deviceID))
	}

	return keys
}

func normalizeIP(remote string) string {
	if remote == "" {
		return ""
	}

	host := remote
	if h, _, err := net.SplitHostPort(remote); err == nil {
		host = h
	}

	if parsed := net.ParseIP(host); parsed != nil {
		return parsed.String()
	}

	return strings.ToLower(host)
}
