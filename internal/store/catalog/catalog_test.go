package catalog

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"

	"admin-dashboard/internal/api"
	"admin-dashboard/internal/mocks"
	"admin-dashboard/internal/models"
	"admin-dashboard/internal/store"
)

func newStore(t *testing.T, opts ...Option) (*Store, *mocks.MockCatalogAPI) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := mocks.NewMockCatalogAPI(ctrl)
	s := New(m, opts...)
	t.Cleanup(s.Close)
	return s, m
}

func product(name string) *models.Product {
	return &models.Product{ID: primitive.NewObjectID(), Name: name, Category: "chair", Price: 100, ImageURLs: []string{"url1"}}
}

func chair() models.ProductInput {
	return models.ProductInput{
		Name:        "Chair",
		Description: "desc",
		Properties:  []models.Property{},
		Category:    "chair",
		Price:       100,
		ImageURLs:   []string{"url1"},
		IsPopular:   false,
	}
}

func loaded(t *testing.T, s *Store, m *mocks.MockCatalogAPI, products ...*models.Product) {
	t.Helper()
	m.EXPECT().ListProducts(gomock.Any()).Return(products, nil)
	if err := s.GetProducts(context.Background()); err != nil {
		t.Fatalf("GetProducts: %v", err)
	}
}

func TestGetProductsReplacesCollection(t *testing.T) {
	s, m := newStore(t)
	first := []*models.Product{product("Sofa"), product("Bed")}
	second := []*models.Product{product("Lamp")}

	gomock.InOrder(
		m.EXPECT().ListProducts(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]*models.Product, error) {
			if !s.State().IsLoading {
				t.Error("IsLoading should be true during fetch")
			}
			return first, nil
		}),
		m.EXPECT().ListProducts(gomock.Any()).Return(second, nil),
	)

	_ = s.GetProducts(context.Background())
	_ = s.GetProducts(context.Background())

	st := s.State()
	if len(st.Products) != 1 || st.Products[0] != second[0] {
		t.Errorf("expected full replace, got %+v", st.Products)
	}
	if st.IsLoading || st.Error != "" {
		t.Errorf("unexpected state %+v", st)
	}
}

func TestGetProductsFailureRecorded(t *testing.T) {
	s, m := newStore(t)
	m.EXPECT().ListProducts(gomock.Any()).Return(nil, &api.Error{Op: "list_products", Status: http.StatusInternalServerError, Message: "db down"})

	if err := s.GetProducts(context.Background()); err != nil {
		t.Fatalf("remote failures are not returned, got %v", err)
	}
	st := s.State()
	if st.Error != "db down" || st.IsLoading {
		t.Errorf("unexpected state %+v", st)
	}
}

func TestAddProductLeavesCollectionUntouched(t *testing.T) {
	s, m := newStore(t)
	existing := product("Sofa")
	loaded(t, s, m, existing)

	m.EXPECT().CreateProduct(gomock.Any(), chair()).Return(nil)

	if err := s.AddProduct(context.Background(), chair()); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	st := s.State()
	if st.IsLoading || st.Error != "" {
		t.Errorf("unexpected state %+v", st)
	}
	if len(st.Products) != 1 || st.Products[0] != existing {
		t.Errorf("collection must not change until the next fetch, got %+v", st.Products)
	}
}

func TestAddProductRefetchReconcile(t *testing.T) {
	s, m := newStore(t, WithReconcile(ReconcileRefetch))
	created := product("Chair")

	gomock.InOrder(
		m.EXPECT().CreateProduct(gomock.Any(), chair()).Return(nil),
		m.EXPECT().ListProducts(gomock.Any()).Return([]*models.Product{created}, nil),
	)

	if err := s.AddProduct(context.Background(), chair()); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	st := s.State()
	if len(st.Products) != 1 || st.Products[0] != created {
		t.Errorf("expected refetched collection, got %+v", st.Products)
	}
}

func TestRefetchDoesNotJoinEarlierFetch(t *testing.T) {
	s, m := newStore(t, WithReconcile(ReconcileRefetch))
	old := product("Sofa")
	created := product("Chair")
	entered := make(chan struct{})
	release := make(chan struct{})

	gomock.InOrder(
		m.EXPECT().ListProducts(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]*models.Product, error) {
			close(entered)
			<-release
			return []*models.Product{old}, nil
		}),
		m.EXPECT().CreateProduct(gomock.Any(), chair()).Return(nil),
		m.EXPECT().ListProducts(gomock.Any()).Return([]*models.Product{old, created}, nil),
	)

	done := make(chan error, 1)
	go func() { done <- s.GetProducts(context.Background()) }()
	<-entered

	if err := s.AddProduct(context.Background(), chair()); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	// la carga lenta empezó antes de crear el producto y no debe pisar la lista
	st := s.State()
	if len(st.Products) != 2 || st.Products[1] != created {
		t.Errorf("expected list with the created product, got %+v", st.Products)
	}
	if st.IsLoading || st.Error != "" {
		t.Errorf("unexpected state %+v", st)
	}
}

func TestRefetchFailureKeepsWriteSuccessful(t *testing.T) {
	s, m := newStore(t, WithReconcile(ReconcileRefetch))
	existing := product("Sofa")
	loaded(t, s, m, existing)

	gomock.InOrder(
		m.EXPECT().CreateProduct(gomock.Any(), chair()).Return(nil),
		m.EXPECT().ListProducts(gomock.Any()).Return(nil, &api.Error{Op: "list_products", Status: http.StatusInternalServerError, Message: "db down"}),
	)

	if err := s.AddProduct(context.Background(), chair()); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	st := s.State()
	if st.Error != "" || st.IsLoading {
		t.Errorf("a successful add must leave Error empty, got %+v", st)
	}
	if len(st.Products) != 1 || st.Products[0] != existing {
		t.Errorf("collection should stay as it was, got %+v", st.Products)
	}
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	s, m := newStore(t)
	stale := product("Sofa")
	fresh := product("Lamp")
	entered := make(chan struct{})
	release := make(chan struct{})

	gomock.InOrder(
		m.EXPECT().ListProducts(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]*models.Product, error) {
			close(entered)
			<-release
			return []*models.Product{stale}, nil
		}),
		m.EXPECT().ListProducts(gomock.Any()).Return([]*models.Product{fresh}, nil),
	)

	done := make(chan error, 1)
	go func() { done <- s.GetProducts(context.Background()) }()
	<-entered

	if err := s.scope.Refresh(context.Background(), "get_products", func(ctx context.Context) error {
		s.loadProducts(ctx, true)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	close(release)
	<-done

	if st := s.State(); len(st.Products) != 1 || st.Products[0] != fresh {
		t.Errorf("older response must not replace a newer one, got %+v", st.Products)
	}
}

func TestAddProductFailureFallback(t *testing.T) {
	s, m := newStore(t)
	m.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).Return(&api.Error{Op: "add_product", Status: http.StatusBadRequest})

	if err := s.AddProduct(context.Background(), chair()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if got := s.State().Error; got != fallbackAdd {
		t.Errorf("expected fallback %q, got %q", fallbackAdd, got)
	}
}

func TestGetSingleProduct(t *testing.T) {
	s, m := newStore(t)
	p := product("Wardrobe")
	m.EXPECT().GetProduct(gomock.Any(), p.ID).Return(p, nil)

	if err := s.GetSingleProduct(context.Background(), p.ID.Hex()); err != nil {
		t.Fatalf("GetSingleProduct: %v", err)
	}
	if got := s.State().Product; got != p {
		t.Errorf("expected product slot to be filled, got %+v", got)
	}
}

func TestInvalidIDRejectedBeforeNetwork(t *testing.T) {
	s, _ := newStore(t)

	for name, call := range map[string]func() error{
		"get":    func() error { return s.GetSingleProduct(context.Background(), "nope") },
		"update": func() error { return s.UpdateProduct(context.Background(), "nope", chair()) },
		"delete": func() error { return s.DeleteProduct(context.Background(), "nope") },
	} {
		if err := call(); !errors.Is(err, models.ErrInvalidID) {
			t.Errorf("%s: expected ErrInvalidID, got %v", name, err)
		}
	}
	if st := s.State(); st.IsLoading || st.Error != "" {
		t.Errorf("validation must not touch state, got %+v", st)
	}
}

func TestUpdateProductDoesNotPatchCollection(t *testing.T) {
	s, m := newStore(t)
	p := product("Sofa")
	loaded(t, s, m, p)

	in := chair()
	m.EXPECT().UpdateProduct(gomock.Any(), p.ID, in).Return(nil)

	if err := s.UpdateProduct(context.Background(), p.ID.Hex(), in); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	st := s.State()
	if st.Products[0] != p || st.Products[0].Name != "Sofa" {
		t.Errorf("collection must not be patched in place, got %+v", st.Products[0])
	}
}

func TestUpdateProductFailureFallback(t *testing.T) {
	s, m := newStore(t)
	p := product("Sofa")
	m.EXPECT().UpdateProduct(gomock.Any(), p.ID, gomock.Any()).Return(errors.New("EOF"))

	_ = s.UpdateProduct(context.Background(), p.ID.Hex(), chair())
	if got := s.State().Error; got != fallbackUpdate {
		t.Errorf("expected fallback %q, got %q", fallbackUpdate, got)
	}
}

func TestDeleteProductRemovesOnlyMatchingEntry(t *testing.T) {
	s, m := newStore(t)
	a, b, c := product("A"), product("B"), product("C")
	loaded(t, s, m, a, b, c)

	m.EXPECT().DeleteProduct(gomock.Any(), b.ID).Return(nil)

	if err := s.DeleteProduct(context.Background(), b.ID.Hex()); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	got := s.State().Products
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Errorf("expected [A C] in order, got %+v", got)
	}
}

func TestDeleteProductClearsEditedSlot(t *testing.T) {
	s, m := newStore(t)
	p := product("Bed")
	m.EXPECT().GetProduct(gomock.Any(), p.ID).Return(p, nil)
	m.EXPECT().DeleteProduct(gomock.Any(), p.ID).Return(nil)

	_ = s.GetSingleProduct(context.Background(), p.ID.Hex())
	_ = s.DeleteProduct(context.Background(), p.ID.Hex())

	if s.State().Product != nil {
		t.Error("deleted product must not stay in the edit slot")
	}
}

func TestDeleteProductFailureKeepsCollection(t *testing.T) {
	s, m := newStore(t)
	a := product("A")
	loaded(t, s, m, a)

	m.EXPECT().DeleteProduct(gomock.Any(), a.ID).Return(&api.Error{Op: "delete_product", Status: http.StatusNotFound, Message: "Product not found"})

	if err := s.DeleteProduct(context.Background(), a.ID.Hex()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	st := s.State()
	if len(st.Products) != 1 || st.Error != "Product not found" {
		t.Errorf("unexpected state %+v", st)
	}
}

func TestConcurrentAddRejected(t *testing.T) {
	s, m := newStore(t)
	entered := make(chan struct{})
	release := make(chan struct{})

	m.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).Times(1).DoAndReturn(
		func(ctx context.Context, in models.ProductInput) error {
			close(entered)
			<-release
			return nil
		})

	done := make(chan error, 1)
	go func() { done <- s.AddProduct(context.Background(), chair()) }()
	<-entered

	if err := s.AddProduct(context.Background(), chair()); !errors.Is(err, store.ErrInFlight) {
		t.Errorf("expected ErrInFlight on double submit, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}
