package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"crossquote/internal/catalog"
	"crossquote/internal/classifier"
	"crossquote/internal/domain"
	"crossquote/internal/logistics"
	"crossquote/internal/service"
	"crossquote/internal/taxrule"
	"crossquote/mocks"
)

func engineConfig() service.EngineConfig {
	return service.EngineConfig{
		Classifier: classifier.DefaultConfig(),
		Tax:        taxrule.DefaultConfig(),
		Logistics:  logistics.DefaultConfig(),
	}
}

func loadedCatalog(t *testing.T) service.CatalogService {
	t.Helper()
	svc := service.NewCatalogService(catalog.NewBuiltinSource(), nil, engineConfig(), zap.NewNop())
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	return svc
}

func TestCatalogService_UnavailableBeforeRefresh(t *testing.T) {
	svc := service.NewCatalogService(catalog.NewBuiltinSource(), nil, engineConfig(), zap.NewNop())

	_, err := svc.Engines()
	assert.True(t, errors.Is(err, domain.ErrCatalogUnavailable))
	_, err = svc.Stats()
	assert.True(t, errors.Is(err, domain.ErrCatalogUnavailable))
}

func TestCatalogService_RefreshBuiltin(t *testing.T) {
	svc := service.NewCatalogService(catalog.NewBuiltinSource(), nil, engineConfig(), zap.NewNop())

	stats, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	def := catalog.Default()
	assert.Equal(t, catalog.SourceBuiltin, stats.Source)
	assert.Equal(t, def.Version, stats.Version)
	assert.Equal(t, len(def.Jurisdictions), stats.Jurisdictions)
	assert.Equal(t, len(def.Services), stats.Services)
	assert.Equal(t, 0, stats.CustomMappings)

	eng, err := svc.Engines()
	require.NoError(t, err)
	assert.True(t, eng.Tax.Supports("de"))
	assert.Equal(t, len(def.Services), eng.Logistics.Count())
	assert.Equal(t, def.Version+".0", eng.Revision())
}

func TestCatalogService_RefreshReappliesSavedMappings(t *testing.T) {
	repo := new(mocks.MockCustomMappingRepo)
	repo.On("List", mock.Anything).Return([]domain.CustomMapping{
		{Keyword: "gizmotron", Code: "847130"},
		{Keyword: "broken", Code: "12"},
	}, nil)

	svc := service.NewCatalogService(catalog.NewBuiltinSource(), repo, engineConfig(), zap.NewNop())
	stats, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CustomMappings)

	eng, _ := svc.Engines()
	top, ok := eng.Classifier.RecommendedCode(domain.ProductDescriptor{Name: "Gizmotron 3000"})
	require.True(t, ok)
	assert.Equal(t, "847130", top.Code)
	repo.AssertExpectations(t)
}

func TestCatalogService_FailedRefreshKeepsPreviousEngines(t *testing.T) {
	src := new(mocks.MockCatalogSource)
	src.On("Name").Return("mock")
	src.On("Load", mock.Anything).Return(catalog.Default(), nil).Once()
	src.On("Load", mock.Anything).Return(nil, errors.New("bucket unreachable")).Once()

	svc := service.NewCatalogService(src, nil, engineConfig(), zap.NewNop())
	first, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	before, _ := svc.Engines()

	_, err = svc.Refresh(context.Background())
	assert.True(t, errors.Is(err, domain.ErrCatalogUnavailable))

	after, err := svc.Engines()
	require.NoError(t, err)
	assert.Same(t, before, after)
	assert.Equal(t, first.Version, after.Stats.Version)
}

func TestCatalogService_RefreshFailsWhenMappingsUnavailable(t *testing.T) {
	repo := new(mocks.MockCustomMappingRepo)
	repo.On("List", mock.Anything).Return(nil, errors.New("db down"))

	svc := service.NewCatalogService(catalog.NewBuiltinSource(), repo, engineConfig(), zap.NewNop())
	_, err := svc.Refresh(context.Background())

	assert.True(t, errors.Is(err, domain.ErrCatalogUnavailable))
	_, err = svc.Engines()
	assert.Error(t, err)
}

func TestCatalogService_RegisterCustomMapping(t *testing.T) {
	repo := new(mocks.MockCustomMappingRepo)
	repo.On("List", mock.Anything).Return([]domain.CustomMapping{}, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(m *domain.CustomMapping) bool {
		return m.Keyword == "fidget cube" && m.Code == "950300"
	})).Return(nil)

	svc := service.NewCatalogService(catalog.NewBuiltinSource(), repo, engineConfig(), zap.NewNop())
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	eng, _ := svc.Engines()
	revision := eng.Revision()

	got, err := svc.RegisterCustomMapping(context.Background(), domain.CustomMapping{Keyword: "  Fidget  Cube ", Code: "9503.00"})
	require.NoError(t, err)
	assert.Equal(t, "fidget cube", got.Keyword)
	assert.Equal(t, "950300", got.Code)
	assert.NotEqual(t, revision, eng.Revision())

	top, ok := eng.Classifier.RecommendedCode(domain.ProductDescriptor{Name: "Rainbow fidget cube"})
	require.True(t, ok)
	assert.Equal(t, "950300", top.Code)

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CustomMappings)
	repo.AssertExpectations(t)
}

func TestCatalogService_RegisterCustomMapping_Rejects(t *testing.T) {
	repo := new(mocks.MockCustomMappingRepo)
	repo.On("List", mock.Anything).Return([]domain.CustomMapping{}, nil)
	svc := service.NewCatalogService(catalog.NewBuiltinSource(), repo, engineConfig(), zap.NewNop())
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	_, err = svc.RegisterCustomMapping(context.Background(), domain.CustomMapping{Keyword: "thing", Code: "7700"})
	assert.True(t, errors.Is(err, domain.ErrInvalidHSCode))

	_, err = svc.RegisterCustomMapping(context.Background(), domain.CustomMapping{Keyword: " ", Code: "950300"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCatalogService_RegisterCustomMapping_SaveErrorLeavesEngineUntouched(t *testing.T) {
	repo := new(mocks.MockCustomMappingRepo)
	repo.On("List", mock.Anything).Return([]domain.CustomMapping{}, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("constraint violation"))
	svc := service.NewCatalogService(catalog.NewBuiltinSource(), repo, engineConfig(), zap.NewNop())
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	_, err = svc.RegisterCustomMapping(context.Background(), domain.CustomMapping{Keyword: "fidget cube", Code: "950300"})
	assert.Error(t, err)

	stats, _ := svc.Stats()
	assert.Equal(t, 0, stats.CustomMappings)
}

func TestCatalogRefreshWorker_RefreshesOnTick(t *testing.T) {
	src := new(mocks.MockCatalogSource)
	src.On("Name").Return("mock")
	src.On("Load", mock.Anything).Return(catalog.Default(), nil)

	svc := service.NewCatalogService(src, nil, engineConfig(), zap.NewNop())
	worker := service.NewCatalogRefreshWorker(svc, service.CatalogRefreshConfig{Interval: 20 * time.Millisecond}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		_, err := svc.Engines()
		return err == nil
	}, time.Second, 10*time.Millisecond)
	cancel()
	<-done

	src.AssertCalled(t, "Load", mock.Anything)
}

func TestCatalogRefreshWorker_DisabledWithoutInterval(t *testing.T) {
	src := new(mocks.MockCatalogSource)
	svc := service.NewCatalogService(src, nil, engineConfig(), zap.NewNop())
	worker := service.NewCatalogRefreshWorker(svc, service.CatalogRefreshConfig{}, zap.NewNop())

	done := make(chan struct{})
	go func() {
		worker.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker without interval should return immediately")
	}
	src.AssertNotCalled(t, "Load", mock.Anything)
}

func TestCatalogService_RefreshLogsOnce(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	svc := service.NewCatalogService(catalog.NewBuiltinSource(), nil, engineConfig(), zap.New(core))

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	_, err = svc.Refresh(context.Background())
	require.NoError(t, err)

	loaded := logs.FilterMessage("catalog loaded").All()
	require.Len(t, loaded, 2)
	assert.NotContains(t, loaded[0].ContextMap(), "previous_version")
	assert.Contains(t, loaded[1].ContextMap(), "previous_version")
}
