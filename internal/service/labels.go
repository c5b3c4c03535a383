package service

import (
	"fmt"
	"math"
	"strings"

	"go-gin-seat-reservation/internal/model"
	apperrors "go-gin-seat-reservation/pkg/app_errors"
)

// DefaultMaxTicketsPerBooking 單筆訂位的票數上限
const DefaultMaxTicketsPerBooking = 10

// normalizeLabels 去除空白並移除重複的座位編號，保留原本順序
func normalizeLabels(labels []string) ([]string, error) {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		label := strings.ToUpper(strings.TrimSpace(l))
		if label == "" {
			return nil, fmt.Errorf("empty seat label: %w", apperrors.ErrInvalidInput)
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out, nil
}

// resolveTicketCount 票數依序取自：明確指定、座位數、總價 / 單價，都沒有則為 1
func resolveTicketCount(req model.CreateBookingRequest, labels []string, unitPrice float64, max int) (int, error) {
	var count int
	switch {
	case req.TicketCount != nil:
		if *req.TicketCount <= 0 {
			return 0, fmt.Errorf("ticket count must be positive: %w", apperrors.ErrInvalidInput)
		}
		count = *req.TicketCount
	case len(labels) > 0:
		count = len(labels)
	case req.TotalPrice != nil && *req.TotalPrice > 0 && unitPrice > 0:
		count = int(math.Floor(*req.TotalPrice / unitPrice))
		if count < 1 {
			count = 1
		}
	default:
		count = 1
	}

	if count > max {
		return 0, fmt.Errorf("%d tickets requested, at most %d allowed: %w", count, max, apperrors.ErrTicketLimitExceeded)
	}
	if len(labels) > 0 && count != len(labels) {
		return 0, fmt.Errorf("ticket count %d does not match %d seat labels: %w", count, len(labels), apperrors.ErrInvalidInput)
	}
	return count, nil
}

// resolveTotalPrice 請求帶入正數總價時直接採用，否則為單價乘以票數
func resolveTotalPrice(req model.CreateBookingRequest, unitPrice float64, count int) float64 {
	if req.TotalPrice != nil && *req.TotalPrice > 0 {
		return *req.TotalPrice
	}
	return unitPrice * float64(count)
}

// placeholderLabels 一般入場未指定座位時產生 GEN-<n>，n 取自活動的流水號
func placeholderLabels(first, count int) []string {
	labels := make([]string, 0, count)
	for i := 0; i < count; i++ {
		labels = append(labels, fmt.Sprintf("GEN-%d", first+i))
	}
	return labels
}
