package service

import (
	"context"
	"strings"

	"soros-rag-be/internal/constant"
	"soros-rag-be/internal/dto"
	"soros-rag-be/internal/pkg/serverutils"
	"soros-rag-be/pkg/market"

	"github.com/gofiber/fiber/v2"
)

type IMarketService interface {
	Snapshot(ctx context.Context, req *dto.MarketSnapshotRequest) (*dto.MarketSnapshotResponse, error)
}

type marketService struct {
	provider      market.SnapshotProvider
	defaultPeriod string
}

// NewMarketService serves the same snapshots the prompt composer uses. A nil provider means lookups are off.
func NewMarketService(provider market.SnapshotProvider, defaultPeriod string) IMarketService {
	if defaultPeriod == "" {
		defaultPeriod = "6mo"
	}
	return &marketService{
		provider:      provider,
		defaultPeriod: defaultPeriod,
	}
}

func (s *marketService) Snapshot(ctx context.Context, req *dto.MarketSnapshotRequest) (*dto.MarketSnapshotResponse, error) {
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	req.Period = strings.ToLower(strings.TrimSpace(req.Period))
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	if s.provider == nil {
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, constant.MarketLookupsOff)
	}

	period := req.Period
	if period == "" {
		period = s.defaultPeriod
	}

	return &dto.MarketSnapshotResponse{
		Symbol:   req.Symbol,
		Period:   period,
		Snapshot: s.provider.Snapshot(ctx, req.Symbol, period),
	}, nil
}
