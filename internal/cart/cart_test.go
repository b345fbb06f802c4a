package cart

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/roach88/storefront/internal/api"
	"github.com/roach88/storefront/internal/apitest"
	"github.com/roach88/storefront/internal/model"
)

type fakeSession struct {
	mu       sync.Mutex
	loggedIn bool
}

func (f *fakeSession) LoggedIn() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loggedIn
}

func (f *fakeSession) set(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedIn = v
}

// fakeAPI serves canned carts. When pending is set, each GetCart hands the
// test a reply channel and blocks until the test answers on it.
type fakeAPI struct {
	mu      sync.Mutex
	items   []model.CartItem
	calls   []string
	failOn  map[string]error
	pending chan chan []model.CartItem
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{failOn: make(map[string]error)}
}

func (f *fakeAPI) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.failOn[call]
}

func (f *fakeAPI) GetCart(ctx context.Context) ([]model.CartItem, error) {
	if err := f.record("get"); err != nil {
		return nil, err
	}
	if f.pending != nil {
		reply := make(chan []model.CartItem)
		f.pending <- reply
		return <-reply, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyItems(f.items), nil
}

func (f *fakeAPI) AddToCart(ctx context.Context, productID int64, quantity int) error {
	return f.record("add")
}

func (f *fakeAPI) RemoveFromCart(ctx context.Context, productID int64) error {
	return f.record("remove")
}

func (f *fakeAPI) UpdateCart(ctx context.Context, productID int64, quantity int) error {
	return f.record("update")
}

func (f *fakeAPI) ClearCart(ctx context.Context) error {
	return f.record("clear")
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func line(productID int64, qty int, price int64) model.CartItem {
	return model.CartItem{ID: productID * 10, ProductID: productID, Quantity: qty, Price: decimal.NewFromInt(price)}
}

func TestAddToCart_LoggedOutMakesNoCall(t *testing.T) {
	fa := newFakeAPI()
	s := New(fa, &fakeSession{}, zaptest.NewLogger(t))

	for i := 0; i < 3; i++ {
		res := s.AddToCart(context.Background(), model.Product{ID: 7})
		assert.False(t, res.OK)
		assert.Equal(t, ReasonLoginToAdd, res.Reason)
		assert.ErrorIs(t, res.Err, model.ErrNoSession)
	}

	assert.Equal(t, 0, fa.callCount())
	assert.Empty(t, s.Items())
}

func TestMutations_LoggedOutGuarded(t *testing.T) {
	fa := newFakeAPI()
	s := New(fa, &fakeSession{}, nil)
	ctx := context.Background()

	for _, res := range []model.Result{
		s.RemoveFromCart(ctx, 1),
		s.UpdateQuantity(ctx, 1, 2),
		s.ClearCart(ctx),
		s.Refresh(ctx),
	} {
		assert.False(t, res.OK)
		assert.ErrorIs(t, res.Err, model.ErrNoSession)
	}
	assert.Equal(t, 0, fa.callCount())
}

func TestMutation_ReplacesItemsWithRefresh(t *testing.T) {
	fa := newFakeAPI()
	fa.items = []model.CartItem{line(3, 1, 1200), line(5, 2, 650)}
	s := New(fa, &fakeSession{loggedIn: true}, zaptest.NewLogger(t))

	var observed [][]model.CartItem
	s.Subscribe(func(items []model.CartItem) { observed = append(observed, items) })

	res := s.AddToCart(context.Background(), model.Product{ID: 3, Name: "Poppy Dress"})
	require.True(t, res.OK, res.String())
	assert.Equal(t, "Added Poppy Dress to cart", res.Reason)

	assert.Equal(t, fa.items, s.Items())
	assert.True(t, s.Total().Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, 3, s.ItemCount())
	assert.Equal(t, []string{"add", "get"}, fa.calls)
	require.Len(t, observed, 1)
	assert.Equal(t, Idle, s.State())
}

func TestMutation_FailureKeepsItems(t *testing.T) {
	fa := newFakeAPI()
	fa.items = []model.CartItem{line(3, 1, 1200)}
	s := New(fa, &fakeSession{loggedIn: true}, zaptest.NewLogger(t))
	ctx := context.Background()
	require.True(t, s.Refresh(ctx).OK)

	fa.failOn["update"] = &api.APIError{Status: http.StatusInternalServerError, Detail: "db down"}
	res := s.UpdateQuantity(ctx, 3, 4)
	assert.False(t, res.OK)
	assert.Equal(t, "db down", res.Reason)
	assert.Equal(t, []model.CartItem{line(3, 1, 1200)}, s.Items())
	assert.Equal(t, []string{"get", "update"}, fa.calls)

	fa.failOn["remove"] = errors.New("connection refused")
	res = s.RemoveFromCart(ctx, 3)
	assert.Equal(t, ReasonRemoveFailed, res.Reason)
	assert.Len(t, s.Items(), 1)
}

func TestMutation_RefreshFailure(t *testing.T) {
	fa := newFakeAPI()
	fa.failOn["get"] = errors.New("timeout")
	s := New(fa, &fakeSession{loggedIn: true}, zaptest.NewLogger(t))

	res := s.ClearCart(context.Background())
	assert.False(t, res.OK)
	assert.Equal(t, ReasonLoadFailed, res.Reason)
	assert.Equal(t, Idle, s.State())
}

func TestUpdateQuantity_NegativeRejected(t *testing.T) {
	fa := newFakeAPI()
	s := New(fa, &fakeSession{loggedIn: true}, nil)

	res := s.UpdateQuantity(context.Background(), 3, -1)
	assert.False(t, res.OK)
	assert.Equal(t, ReasonNegativeQty, res.Reason)
	assert.Equal(t, 0, fa.callCount())
}

func TestUpdateQuantity_ZeroIsSent(t *testing.T) {
	fa := newFakeAPI()
	fa.items = []model.CartItem{line(3, 0, 1200)}
	s := New(fa, &fakeSession{loggedIn: true}, nil)

	res := s.UpdateQuantity(context.Background(), 3, 0)
	require.True(t, res.OK)
	// Zero-quantity lines from the server are kept.
	assert.Len(t, s.Items(), 1)
	assert.Equal(t, 0, s.ItemCount())
	assert.True(t, s.Total().IsZero())
}

func TestAddUnits(t *testing.T) {
	fa := newFakeAPI()
	s := New(fa, &fakeSession{loggedIn: true}, nil)

	res := s.AddUnits(context.Background(), model.Product{ID: 3, Name: "Poppy Dress"}, 3)
	require.True(t, res.OK)
	assert.Equal(t, "Added 3 × Poppy Dress to cart", res.Reason)
	assert.Equal(t, []string{"add", "get", "add", "get", "add", "get"}, fa.calls)

	fa.calls = nil
	fa.failOn["add"] = errors.New("boom")
	res = s.AddUnits(context.Background(), model.Product{ID: 3}, 3)
	assert.False(t, res.OK)
	assert.Equal(t, []string{"add"}, fa.calls)
}

func TestHandleSession_LogoutClearsWithoutNetwork(t *testing.T) {
	fa := newFakeAPI()
	fa.items = []model.CartItem{line(3, 2, 1200)}
	sess := &fakeSession{loggedIn: true}
	s := New(fa, sess, nil)
	ctx := context.Background()

	require.True(t, s.HandleSession(ctx, &model.User{ID: 1}).OK)
	require.Len(t, s.Items(), 1)
	calls := fa.callCount()

	var last []model.CartItem
	s.Subscribe(func(items []model.CartItem) { last = items })

	sess.set(false)
	require.True(t, s.HandleSession(ctx, nil).OK)

	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.ItemCount())
	assert.NotNil(t, last)
	assert.Empty(t, last)
	assert.Equal(t, calls, fa.callCount())
}

func TestRefresh_StaleResponseDiscarded(t *testing.T) {
	fa := newFakeAPI()
	fa.pending = make(chan chan []model.CartItem)
	s := New(fa, &fakeSession{loggedIn: true}, zaptest.NewLogger(t))
	ctx := context.Background()

	first := make(chan model.Result, 1)
	go func() { first <- s.Refresh(ctx) }()
	firstReply := <-fa.pending
	assert.Equal(t, Refreshing, s.State())

	second := make(chan model.Result, 1)
	go func() { second <- s.Refresh(ctx) }()
	secondReply := <-fa.pending

	// Newer request answers first.
	secondReply <- []model.CartItem{line(3, 2, 1200)}
	require.True(t, (<-second).OK)
	assert.Equal(t, int64(2), s.AppliedToken())

	firstReply <- []model.CartItem{line(3, 1, 1200)}
	res := <-first
	assert.True(t, res.OK)
	assert.Equal(t, ReasonStaleDropped, res.Reason)

	assert.Equal(t, 2, s.ItemCount())
	assert.Equal(t, Idle, s.State())
}

func TestRefresh_InFlightDroppedAfterLogout(t *testing.T) {
	fa := newFakeAPI()
	fa.pending = make(chan chan []model.CartItem)
	sess := &fakeSession{loggedIn: true}
	s := New(fa, sess, nil)
	ctx := context.Background()

	done := make(chan model.Result, 1)
	go func() { done <- s.Refresh(ctx) }()
	reply := <-fa.pending

	sess.set(false)
	s.HandleSession(ctx, nil)

	reply <- []model.CartItem{line(3, 5, 1200)}
	assert.Equal(t, ReasonStaleDropped, (<-done).Reason)
	assert.Empty(t, s.Items())
}

func TestRefresh_InFlightDroppedAfterUserSwitch(t *testing.T) {
	fa := newFakeAPI()
	fa.pending = make(chan chan []model.CartItem)
	s := New(fa, &fakeSession{loggedIn: true}, nil)
	ctx := context.Background()

	old := make(chan model.Result, 1)
	go func() { old <- s.Refresh(ctx) }()
	oldReply := <-fa.pending

	fresh := make(chan model.Result, 1)
	go func() { fresh <- s.HandleSession(ctx, &model.User{ID: 2}) }()
	freshReply := <-fa.pending

	freshReply <- []model.CartItem{line(4, 1, 899)}
	require.True(t, (<-fresh).OK)

	// The old user's response lands last but was issued under the old
	// session.
	oldReply <- []model.CartItem{line(3, 9, 1200)}
	assert.Equal(t, ReasonStaleDropped, (<-old).Reason)

	assert.Equal(t, []model.CartItem{line(4, 1, 899)}, s.Items())
}

func TestState_MutatingDuringCall(t *testing.T) {
	fa := &blockingAPI{fakeAPI: newFakeAPI(), release: make(chan struct{}), entered: make(chan struct{})}
	s := New(fa, &fakeSession{loggedIn: true}, nil)

	done := make(chan model.Result, 1)
	go func() { done <- s.ClearCart(context.Background()) }()
	<-fa.entered
	assert.Equal(t, Mutating, s.State())
	close(fa.release)

	require.True(t, (<-done).OK)
	assert.Equal(t, Idle, s.State())
}

type blockingAPI struct {
	*fakeAPI
	release chan struct{}
	entered chan struct{}
}

func (b *blockingAPI) ClearCart(ctx context.Context) error {
	b.entered <- struct{}{}
	<-b.release
	return b.fakeAPI.ClearCart(ctx)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "mutating", Mutating.String())
	assert.Equal(t, "refreshing", Refreshing.String())
	assert.Equal(t, "unknown", State(9).String())
}

func TestItems_ReturnsCopy(t *testing.T) {
	fa := newFakeAPI()
	fa.items = []model.CartItem{line(3, 1, 1200)}
	s := New(fa, &fakeSession{loggedIn: true}, nil)
	require.True(t, s.Refresh(context.Background()).OK)

	items := s.Items()
	items[0].Quantity = 99
	assert.Equal(t, 1, s.ItemCount())
}

// Against the fake server: add product 3 once, then set quantity 2.
func TestScenario_AddThenUpdate(t *testing.T) {
	srv := apitest.New(apitest.WithProducts(apitest.WildflowerCollection()...))
	defer srv.Close()
	token := srv.IssueToken(srv.AddUser("Asha", "asha@example.com", "pw"))

	client, err := api.NewClient(api.Options{BaseURL: srv.URL(), Tokens: api.StaticToken(token)})
	require.NoError(t, err)
	s := New(client, &fakeSession{loggedIn: true}, zaptest.NewLogger(t))
	ctx := context.Background()

	require.True(t, s.AddToCart(ctx, model.Product{ID: 3, Name: "Poppy Dress"}).OK)
	gets := srv.Count(http.MethodGet, "/cart")

	require.True(t, s.UpdateQuantity(ctx, 3, 2).OK)

	assert.True(t, s.Total().Equal(decimal.NewFromInt(2400)))
	assert.Equal(t, 2, s.ItemCount())
	assert.Equal(t, 1, srv.Count(http.MethodPost, "/cart/add"))
	assert.Equal(t, 1, srv.Count(http.MethodPut, "/cart/update"))
	assert.Equal(t, 2, srv.Count(http.MethodGet, "/cart"))
	assert.Equal(t, 1, gets)
}
