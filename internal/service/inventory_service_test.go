package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/emergency-services/internal/domain"
	"github.com/spec-kit/emergency-services/internal/events"
	"github.com/spec-kit/emergency-services/internal/repository"
	util "github.com/spec-kit/emergency-services/pkg/util"
)

type fakeInventoryRepo struct {
	byID   map[int64]*domain.InventoryItem
	nextID int64
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{byID: map[int64]*domain.InventoryItem{}, nextID: 1}
}

func (r *fakeInventoryRepo) Create(ctx context.Context, item *domain.InventoryItem) error {
	item.ID = r.nextID
	r.nextID++
	clone := *item
	r.byID[item.ID] = &clone
	return nil
}

func (r *fakeInventoryRepo) Update(ctx context.Context, item *domain.InventoryItem) error {
	if _, ok := r.byID[item.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *item
	r.byID[item.ID] = &clone
	return nil
}

func (r *fakeInventoryRepo) GetByID(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	item, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *item
	return &clone, nil
}

func (r *fakeInventoryRepo) List(ctx context.Context, filter repository.InventoryFilter) ([]domain.InventoryItem, error) {
	out := make([]domain.InventoryItem, 0, len(r.byID))
	for _, item := range r.byID {
		out = append(out, *item)
	}
	return out, nil
}

func (r *fakeInventoryRepo) ListLowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	var out []domain.InventoryItem
	for _, item := range r.byID {
		if item.LowStock() {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *fakeInventoryRepo) Delete(ctx context.Context, id int64) error {
	delete(r.byID, id)
	return nil
}

func newInventoryFixture() (*InventoryService, *fakeInventoryRepo, *recordingDispatcher) {
	repo := newFakeInventoryRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewInventoryService(InventoryDependencies{
		ItemRepo:   repo,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})
	return svc, repo, dispatcher
}

func newItem(quantity, minimum int) *domain.InventoryItem {
	return &domain.InventoryItem{
		Name:         "saline 0.9%",
		Category:     domain.InventorySupplies,
		Quantity:     quantity,
		Unit:         "bag",
		MinimumStock: minimum,
	}
}

func TestCreateItemAboveThresholdStaysQuiet(t *testing.T) {
	svc, _, dispatcher := newInventoryFixture()

	err := svc.CreateItem(context.Background(), testActor(), newItem(50, 10))
	require.NoError(t, err)
	assert.Empty(t, dispatcher.published)
}

func TestCreateItemAtThresholdRaisesLowStock(t *testing.T) {
	svc, _, dispatcher := newInventoryFixture()

	item := newItem(10, 10)
	require.NoError(t, svc.CreateItem(context.Background(), testActor(), item))

	published := dispatcher.ofType(events.EventInventoryLowStock)
	require.Len(t, published, 1)
	assert.NotEmpty(t, published[0].ID)

	payload, ok := published[0].Payload.(events.InventoryLowStockPayload)
	require.True(t, ok)
	assert.Equal(t, item.ID, payload.ItemID)
	assert.Equal(t, 10, payload.Quantity)
	assert.Equal(t, 10, payload.MinimumStock)
}

func TestCreateItemValidation(t *testing.T) {
	svc, repo, _ := newInventoryFixture()

	err := svc.CreateItem(context.Background(), testActor(), &domain.InventoryItem{
		Quantity:     -1,
		MinimumStock: -2,
	})
	require.Error(t, err)

	domainErr := util.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	for _, field := range []string{"name", "unit", "quantity", "minimum_stock"} {
		assert.Contains(t, domainErr.Details, field)
	}
	assert.Empty(t, repo.byID)
}

func TestUpdateItemRefreshesRestockOnIncrease(t *testing.T) {
	svc, repo, _ := newInventoryFixture()

	item := newItem(5, 2)
	item.LastRestocked = time.Now().Add(-48 * time.Hour).UTC()
	require.NoError(t, repo.Create(context.Background(), item))
	previous := item.LastRestocked

	restocked := *item
	restocked.Quantity = 40
	require.NoError(t, svc.UpdateItem(context.Background(), testActor(), &restocked))
	assert.True(t, restocked.LastRestocked.After(previous))

	consumed := restocked
	consumed.Quantity = 30
	require.NoError(t, svc.UpdateItem(context.Background(), testActor(), &consumed))
	assert.Equal(t, restocked.LastRestocked, consumed.LastRestocked)
}

func TestUpdateItemRaisesLowStockWhenDepleted(t *testing.T) {
	svc, repo, dispatcher := newInventoryFixture()

	item := newItem(50, 10)
	require.NoError(t, repo.Create(context.Background(), item))

	depleted := *item
	depleted.Quantity = 3
	require.NoError(t, svc.UpdateItem(context.Background(), testActor(), &depleted))

	require.Len(t, dispatcher.ofType(events.EventInventoryLowStock), 1)
}

func TestListLowStock(t *testing.T) {
	svc, repo, _ := newInventoryFixture()
	require.NoError(t, repo.Create(context.Background(), newItem(50, 10)))
	require.NoError(t, repo.Create(context.Background(), newItem(2, 10)))

	low, err := svc.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, 2, low[0].Quantity)

	count, err := svc.CountItems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
