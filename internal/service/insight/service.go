package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/ports"
)

const dismissedPrefix = "insights:dismissed:"

type Service struct {
	templates []domain.InsightTemplate
	cache     ports.Cache
	ttl       time.Duration
	log       *zap.Logger
}

func NewService(templates []domain.InsightTemplate, cache ports.Cache, ttl time.Duration, log *zap.Logger) ports.InsightService {
	return &Service{
		templates: templates,
		cache:     cache,
		ttl:       ttl,
		log:       log,
	}
}

// List returns the localized insights the merchant has not dismissed, in template order.
func (s *Service) List(ctx context.Context, merchantID, locale string) ([]domain.Insight, error) {
	dismissed, err := s.dismissed(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	loc := domain.Locale(locale)
	out := make([]domain.Insight, 0, len(s.templates))
	for _, tpl := range s.templates {
		if dismissed[tpl.ID] {
			continue
		}
		out = append(out, tpl.Localize(loc))
	}
	return out, nil
}

func (s *Service) Dismiss(ctx context.Context, merchantID, insightID string) error {
	if !s.known(insightID) {
		return fmt.Errorf("insight %q: %w", insightID, domain.ErrNotFound)
	}

	dismissed, err := s.dismissed(ctx, merchantID)
	if err != nil {
		return err
	}
	if dismissed[insightID] {
		return nil
	}
	dismissed[insightID] = true

	ids := make([]string, 0, len(dismissed))
	for _, tpl := range s.templates {
		if dismissed[tpl.ID] {
			ids = append(ids, tpl.ID)
		}
	}
	payload, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode dismissed insights: %w", err)
	}
	if err := s.cache.Set(ctx, dismissedPrefix+merchantID, payload, s.ttl); err != nil {
		return fmt.Errorf("failed to store dismissed insights: %w", err)
	}

	s.log.Debug("Insight dismissed", zap.String("merchant_id", merchantID), zap.String("insight_id", insightID))
	return nil
}

// Reset brings back every dismissed insight.
func (s *Service) Reset(ctx context.Context, merchantID string) error {
	if err := s.cache.Delete(ctx, dismissedPrefix+merchantID); err != nil {
		return fmt.Errorf("failed to reset insights: %w", err)
	}
	return nil
}

func (s *Service) dismissed(ctx context.Context, merchantID string) (map[string]bool, error) {
	set := make(map[string]bool)
	raw, err := s.cache.Get(ctx, dismissedPrefix+merchantID)
	if errors.Is(err, ports.ErrCacheMiss) {
		return set, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dismissed insights: %w", err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.log.Warn("Discarding unreadable dismissed set", zap.String("merchant_id", merchantID), zap.Error(err))
		return set, nil
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (s *Service) known(id string) bool {
	for _, tpl := range s.templates {
		if tpl.ID == id {
			return true
		}
	}
	return false
}
