package catalog

import (
	"context"
	"fmt"

	"crossquote/internal/domain"
	"crossquote/internal/port"
)

// Source names accepted by NewSource.
const (
	SourceBuiltin  = "builtin"
	SourcePostgres = "postgres"
	SourceS3       = "s3"
)

type builtinSource struct{}

// NewBuiltinSource returns a CatalogSource serving the compiled-in defaults.
func NewBuiltinSource() port.CatalogSource {
	return builtinSource{}
}

func (builtinSource) Name() string { return SourceBuiltin }

func (builtinSource) Load(_ context.Context) (*domain.CatalogSnapshot, error) {
	return Default(), nil
}

type repositorySource struct {
	codes         port.HSCodeRepository
	jurisdictions port.JurisdictionRepository
	services      port.CarrierServiceRepository
}

// NewRepositorySource returns a CatalogSource assembling a snapshot from the catalog tables.
func NewRepositorySource(
	codes port.HSCodeRepository,
	jurisdictions port.JurisdictionRepository,
	services port.CarrierServiceRepository,
) port.CatalogSource {
	return &repositorySource{codes: codes, jurisdictions: jurisdictions, services: services}
}

func (s *repositorySource) Name() string { return SourcePostgres }

func (s *repositorySource) Load(ctx context.Context) (*domain.CatalogSnapshot, error) {
	codes, err := s.codes.LoadCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading hs codes: %w", err)
	}
	keywords, err := s.codes.LoadKeywords(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading hs keywords: %w", err)
	}
	categories, err := s.codes.LoadCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading hs categories: %w", err)
	}
	jurisdictions, err := s.jurisdictions.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tax jurisdictions: %w", err)
	}
	services, err := s.services.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading shipping services: %w", err)
	}

	snap := &domain.CatalogSnapshot{
		HSCodes:       codes,
		Keywords:      keywords,
		Categories:    categories,
		Jurisdictions: jurisdictions,
		Services:      services,
	}
	if err := Validate(snap); err != nil {
		return nil, err
	}
	snap.Version = Fingerprint(snap)
	return snap, nil
}

type objectSource struct {
	storage port.ObjectStorage
	bucket  string
	key     string
}

// NewObjectSource returns a CatalogSource reading a JSON snapshot from object storage.
func NewObjectSource(storage port.ObjectStorage, bucket, key string) port.CatalogSource {
	return &objectSource{storage: storage, bucket: bucket, key: key}
}

func (s *objectSource) Name() string { return SourceS3 }

func (s *objectSource) Load(ctx context.Context) (*domain.CatalogSnapshot, error) {
	data, err := s.storage.Download(ctx, s.bucket, s.key)
	if err != nil {
		return nil, fmt.Errorf("downloading catalog snapshot s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return Decode(data)
}
