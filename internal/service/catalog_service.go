package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"crossquote/internal/catalog"
	"crossquote/internal/classifier"
	"crossquote/internal/domain"
	"crossquote/internal/logistics"
	"crossquote/internal/port"
	"crossquote/internal/taxrule"
)

// EngineConfig carries the tuning applied to every engine built from a catalog.
type EngineConfig struct {
	Classifier classifier.Config
	Tax        taxrule.Config
	Logistics  logistics.Config
}

// Engines is one consistent generation of engines built from a single snapshot.
// It is replaced as a whole on refresh and never mutated apart from the
// classifier's custom-mapping path.
type Engines struct {
	Stats      domain.CatalogStats
	Classifier *classifier.Engine
	Tax        *taxrule.Engine
	Logistics  *logistics.Recommender
}

// Revision identifies the lookup state quotes are computed against: the
// snapshot version plus the number of custom mappings applied on top of it.
func (e *Engines) Revision() string {
	_, _, _, custom := e.Classifier.Stats()
	return fmt.Sprintf("%s.%d", e.Stats.Version, custom)
}

func (e *Engines) destinationCurrency(country string) (string, bool) {
	if e.Tax == nil {
		return "", false
	}
	j, ok := e.Tax.Jurisdiction(country)
	return j.Currency, ok
}

// CatalogService owns the live engines and rebuilds them from a catalog source.
type CatalogService interface {
	Refresh(ctx context.Context) (*domain.CatalogStats, error)
	Engines() (*Engines, error)
	Stats() (*domain.CatalogStats, error)
	RegisterCustomMapping(ctx context.Context, m domain.CustomMapping) (*domain.CustomMapping, error)
}

type catalogService struct {
	source   port.CatalogSource
	mappings port.CustomMappingRepository
	cfg      EngineConfig
	log      *zap.Logger

	// writeMu serializes refreshes and registrations so a mapping saved during
	// a refresh is never dropped by the swap.
	writeMu sync.Mutex
	current atomic.Pointer[Engines]
}

// NewCatalogService creates a new CatalogService. mappings may be nil, in which
// case custom mappings live only until the next refresh.
func NewCatalogService(
	source port.CatalogSource,
	mappings port.CustomMappingRepository,
	cfg EngineConfig,
	log *zap.Logger,
) CatalogService {
	return &catalogService{
		source:   source,
		mappings: mappings,
		cfg:      cfg,
		log:      log.With(zap.String("component", "catalogService")),
	}
}

// Refresh loads a snapshot, builds fresh engines, re-applies persisted custom
// mappings and swaps the engines in. On failure the previous engines stay live.
func (s *catalogService) Refresh(ctx context.Context) (*domain.CatalogStats, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap, err := s.source.Load(ctx)
	if err != nil {
		s.log.Error("catalog load failed", zap.String("source", s.source.Name()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	eng := &Engines{
		Stats:      catalog.Stats(snap, s.source.Name()),
		Classifier: classifier.New(snap, s.cfg.Classifier),
		Tax:        taxrule.New(snap.Jurisdictions, s.cfg.Tax),
		Logistics:  logistics.New(snap.Services, s.cfg.Logistics),
	}

	if s.mappings != nil {
		saved, err := s.mappings.List(ctx)
		if err != nil {
			s.log.Error("listing custom mappings failed", zap.Error(err))
			return nil, fmt.Errorf("%w: listing custom mappings: %v", domain.ErrCatalogUnavailable, err)
		}
		for _, m := range saved {
			if _, err := eng.Classifier.RegisterCustomMapping(m); err != nil {
				s.log.Warn("skipping invalid custom mapping",
					zap.String("keyword", m.Keyword), zap.String("hs_code", m.Code), zap.Error(err))
			}
		}
	}
	_, _, _, eng.Stats.CustomMappings = eng.Classifier.Stats()

	prev := s.current.Swap(eng)
	fields := []zap.Field{
		zap.String("source", eng.Stats.Source),
		zap.String("version", eng.Stats.Version),
		zap.Int("hs_codes", eng.Stats.HSCodes),
		zap.Int("jurisdictions", eng.Stats.Jurisdictions),
		zap.Int("services", eng.Stats.Services),
		zap.Int("custom_mappings", eng.Stats.CustomMappings),
	}
	if prev != nil {
		fields = append(fields, zap.String("previous_version", prev.Stats.Version))
	}
	s.log.Info("catalog loaded", fields...)

	stats := eng.Stats
	return &stats, nil
}

func (s *catalogService) Engines() (*Engines, error) {
	eng := s.current.Load()
	if eng == nil {
		return nil, domain.ErrCatalogUnavailable
	}
	return eng, nil
}

func (s *catalogService) Stats() (*domain.CatalogStats, error) {
	eng, err := s.Engines()
	if err != nil {
		return nil, err
	}
	stats := eng.Stats
	_, _, _, stats.CustomMappings = eng.Classifier.Stats()
	return &stats, nil
}

// RegisterCustomMapping validates and persists m, then applies it to the live
// classifier.
func (s *catalogService) RegisterCustomMapping(ctx context.Context, m domain.CustomMapping) (*domain.CustomMapping, error) {
	normalized, err := classifier.NormalizeMapping(m)
	if err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	eng, err := s.Engines()
	if err != nil {
		return nil, err
	}
	if s.mappings != nil {
		if err := s.mappings.Save(ctx, &normalized); err != nil {
			return nil, fmt.Errorf("saving custom mapping: %w", err)
		}
	}
	applied, err := eng.Classifier.RegisterCustomMapping(normalized)
	if err != nil {
		return nil, err
	}
	s.log.Info("custom mapping registered",
		zap.String("keyword", applied.Keyword), zap.String("hs_code", applied.Code))
	return &applied, nil
}
