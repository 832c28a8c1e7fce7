package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/senyabanana/bid-dashboard/internal/models"
	"github.com/senyabanana/bid-dashboard/internal/repository"

	"github.com/sourcegraph/conc/pool"
)

// OfferService ведёт состояние загрузки предложений по каждой заявке отдельно.
// Запись в карту состояний всегда идёт по ключу заявки и только в рамках поколения,
// в котором загрузка была начата.
type OfferService struct {
	Repo        repository.BidRepository
	logger      *slog.Logger
	concurrency int

	mu         sync.Mutex
	generation uint64
	entries    map[string]*offerEntry
}

type offerEntry struct {
	summary models.OffersSummary
	gen     uint64
	done    chan struct{}
}

// NewOfferService создает новый экземпляр OfferService.
func NewOfferService(repo repository.BidRepository, concurrency int, logger *slog.Logger) *OfferService {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OfferService{
		Repo:        repo,
		logger:      logger,
		concurrency: concurrency,
		entries:     make(map[string]*offerEntry),
	}
}

// LowestOffer возвращает минимальную цену среди предложений или nil, если цен нет.
func LowestOffer(bids []models.Bid) *float64 {
	var lowest *float64
	for _, bid := range bids {
		if bid.Price == nil {
			continue
		}
		if lowest == nil || *bid.Price < *lowest {
			price := *bid.Price
			lowest = &price
		}
	}
	return lowest
}

// SummarizeOffers строит сводку предложений по заявке.
func SummarizeOffers(requestID string, bids []models.Bid) models.OffersSummary {
	return models.OffersSummary{
		RequestID:   requestID,
		Status:      models.OfferOK,
		OffersCount: len(bids),
		LowestOffer: LowestOffer(bids),
	}
}

// Generation возвращает номер текущего поколения.
func (s *OfferService) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// NewGeneration начинает новый показ: состояния сбрасываются,
// а результаты загрузок прошлого поколения отбрасываются.
func (s *OfferService) NewGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.entries = make(map[string]*offerEntry)
	return s.generation
}

// State возвращает состояние по заявке; неизвестная заявка находится в состоянии idle.
func (s *OfferService) State(requestID string) models.OffersSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(requestID)
}

// Snapshot возвращает состояния по списку заявок.
func (s *OfferService) Snapshot(requestIDs []string) map[string]models.OffersSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(map[string]models.OffersSummary, len(requestIDs))
	for _, id := range requestIDs {
		snapshot[id] = s.stateLocked(id)
	}
	return snapshot
}

// Invalidate забывает состояние заявки; незавершённая загрузка по ней будет отброшена.
func (s *OfferService) Invalidate(requestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, requestID)
}

// Load загружает предложения по заявке, если они ещё не загружались.
// Состояния ok и err возвращаются без нового запроса; ошибка снимается только через Retry.
// Если чужая загрузка была отменена или отброшена, ожидающий вызов начинает свою.
func (s *OfferService) Load(ctx context.Context, requestID string) models.OffersSummary {
	for {
		entry, start := s.acquire(requestID)
		if start {
			s.fetch(ctx, requestID, entry)
			return s.State(requestID)
		}
		select {
		case <-entry.done:
		case <-ctx.Done():
			return s.State(requestID)
		}
		if ctx.Err() != nil || !s.abandoned(requestID, entry) {
			return s.State(requestID)
		}
	}
}

// abandoned сообщает, что загрузка entry завершилась без результата для текущего поколения.
func (s *OfferService) abandoned(requestID string, entry *offerEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.entries[requestID]
	return !ok || current != entry || current.summary.Status == models.OfferIdle
}

// LoadAll загружает предложения по всем заявкам параллельно.
// Падение одной заявки не влияет на остальные.
func (s *OfferService) LoadAll(ctx context.Context, requestIDs []string) map[string]models.OffersSummary {
	p := pool.New().WithMaxGoroutines(s.concurrency)
	for _, id := range requestIDs {
		p.Go(func() {
			s.Load(ctx, id)
		})
	}
	p.Wait()
	return s.Snapshot(requestIDs)
}

// Retry повторяет загрузку по одной заявке, не трогая остальные.
func (s *OfferService) Retry(ctx context.Context, requestID string) models.OffersSummary {
	s.mu.Lock()
	if entry, ok := s.entries[requestID]; ok && entry.summary.Status != models.OfferLoading {
		delete(s.entries, requestID)
	}
	s.mu.Unlock()
	return s.Load(ctx, requestID)
}

func (s *OfferService) stateLocked(requestID string) models.OffersSummary {
	if entry, ok := s.entries[requestID]; ok {
		return entry.summary
	}
	return models.OffersSummary{RequestID: requestID, Status: models.OfferIdle}
}

func (s *OfferService) acquire(requestID string) (*offerEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[requestID]; ok && entry.summary.Status != models.OfferIdle {
		return entry, false
	}
	entry := &offerEntry{
		summary: models.OffersSummary{RequestID: requestID, Status: models.OfferLoading},
		gen:     s.generation,
		done:    make(chan struct{}),
	}
	s.entries[requestID] = entry
	return entry, true
}

func (s *OfferService) fetch(ctx context.Context, requestID string, entry *offerEntry) {
	bids, err := s.Repo.GetRequestBids(ctx, requestID)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer close(entry.done)

	if current, ok := s.entries[requestID]; !ok || current != entry || entry.gen != s.generation {
		s.logger.Debug("discarding stale offers result", "request_id", requestID, "generation", entry.gen)
		return
	}
	switch {
	case err == nil:
		entry.summary = SummarizeOffers(requestID, bids)
	case errors.Is(err, context.Canceled):
		entry.summary = models.OffersSummary{RequestID: requestID, Status: models.OfferIdle}
	default:
		s.logger.Warn("failed to load offers", "request_id", requestID, "error", err)
		entry.summary = models.OffersSummary{RequestID: requestID, Status: models.OfferErr, Error: err.Error()}
	}
}
