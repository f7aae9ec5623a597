package cartservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	gatewayerrors "retailpos/internal/gateway"
	"retailpos/internal/models"
	serviceerrors "retailpos/internal/service"
	cartservice "retailpos/internal/service/cart"
	"retailpos/internal/service/cart/mocks"
	"retailpos/internal/service/confirm"
	"retailpos/internal/session"
	"retailpos/pkg/lib/logger/slogdiscard"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	pen    = models.Product{Id: "p1", Name: "Pen", Category: "Stationery", Price: decimal.NewFromInt(10), Stock: 5}
	eraser = models.Product{Id: "p2", Name: "Eraser", Category: "Stationery", Price: decimal.RequireFromString("2.35"), Stock: 9}
	staff  = session.NewSession("tok", models.User{Name: "ann", Role: models.RoleStaff})
	admin  = session.NewSession("tok", models.User{Name: "root", Role: models.RoleAdmin})
)

func newTestService(gateway *mocks.Gateway, sess session.Session) *cartservice.CartService {
	logger := slogdiscard.NewDiscardLogger()
	return cartservice.New(logger, gateway, mocks.Sessions{Session: sess})
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAddToCart(t *testing.T) {
	t.Run("same product merges into one line", func(t *testing.T) {
		svc := newTestService(new(mocks.Gateway), staff)

		for i := 1; i <= 7; i++ {
			line, err := svc.AddToCart(pen)
			require.NoError(t, err)
			assert.Equal(t, i, line.Quantity)
		}

		lines := svc.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 7, lines[0].Quantity)
	})

	t.Run("P1 twice then P2 once", func(t *testing.T) {
		svc := newTestService(new(mocks.Gateway), staff)

		_, _ = svc.AddToCart(pen)
		_, _ = svc.AddToCart(pen)
		_, _ = svc.AddToCart(eraser)

		lines := svc.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, "p1", lines[0].Product.Id)
		assert.Equal(t, 2, lines[0].Quantity)
		assert.Equal(t, "p2", lines[1].Product.Id)
		assert.Equal(t, 1, lines[1].Quantity)
	})

	t.Run("no stock check", func(t *testing.T) {
		svc := newTestService(new(mocks.Gateway), staff)
		soldOut := models.Product{Id: "p3", Name: "Ink", Price: decimal.NewFromInt(3), Stock: 0}

		line, err := svc.AddToCart(soldOut)
		require.NoError(t, err)
		assert.Equal(t, 1, line.Quantity)
	})

	t.Run("product without id", func(t *testing.T) {
		svc := newTestService(new(mocks.Gateway), staff)

		_, err := svc.AddToCart(models.Product{Name: "Ghost"})
		assert.ErrorIs(t, err, serviceerrors.ErrValidation)
		assert.Empty(t, svc.Lines())
	})
}

func TestRemoveFromCart(t *testing.T) {
	tests := []struct {
		name      string
		productId string
		wantErr   error
		wantLines int
		wantTotal string
	}{
		{name: "removes whole line", productId: "p1", wantLines: 1, wantTotal: "2.35"},
		{name: "unknown product", productId: "nope", wantErr: serviceerrors.ErrNotFound, wantLines: 2, wantTotal: "32.35"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(new(mocks.Gateway), staff)
			_, _ = svc.AddToCart(pen)
			_, _ = svc.AddToCart(pen)
			_, _ = svc.AddToCart(pen)
			_, _ = svc.AddToCart(eraser)

			err := svc.RemoveFromCart(tt.productId)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Len(t, svc.Lines(), tt.wantLines)
			assert.True(t, dec(tt.wantTotal).Equal(svc.Total()), "total %s", svc.Total())
		})
	}
}

func TestClearCart(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		svc := newTestService(new(mocks.Gateway), staff)
		_, _ = svc.AddToCart(pen)
		_, _ = svc.AddToCart(eraser)

		var prompt string
		err := svc.ClearCart(context.Background(), confirm.Func(func(_ context.Context, p string) bool {
			prompt = p
			return true
		}))
		require.NoError(t, err)
		assert.NotEmpty(t, prompt)
		assert.Empty(t, svc.Lines())
		assert.True(t, svc.Total().IsZero())
	})

	t.Run("declined", func(t *testing.T) {
		svc := newTestService(new(mocks.Gateway), staff)
		_, _ = svc.AddToCart(pen)

		err := svc.ClearCart(context.Background(), confirm.Answer(false))
		assert.ErrorIs(t, err, serviceerrors.ErrNotConfirmed)
		assert.Len(t, svc.Lines(), 1)
	})

	t.Run("already empty", func(t *testing.T) {
		svc := newTestService(new(mocks.Gateway), staff)

		require.NoError(t, svc.ClearCart(context.Background(), confirm.Answer(true)))
		assert.Empty(t, svc.Lines())
	})
}

func TestTotal(t *testing.T) {
	svc := newTestService(new(mocks.Gateway), staff)
	assert.True(t, svc.Total().IsZero())

	cheap := models.Product{Id: "p4", Name: "Clip", Price: dec("0.10")}
	for i := 0; i < 30; i++ {
		_, _ = svc.AddToCart(cheap)
	}
	assert.Equal(t, "3", svc.Total().String())

	_, _ = svc.AddToCart(eraser)
	_, _ = svc.AddToCart(eraser)
	assert.True(t, dec("7.70").Equal(svc.Total()))

	want := decimal.Zero
	for _, l := range svc.Lines() {
		want = want.Add(l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	assert.True(t, want.Equal(svc.Total()))

	require.NoError(t, svc.RemoveFromCart("p4"))
	assert.True(t, dec("4.70").Equal(svc.Total()))
}

func TestConfirmOrder(t *testing.T) {
	five := decimal.NewFromInt(5)
	four := decimal.NewFromInt(4)

	tests := []struct {
		name       string
		sess       session.Session
		cash       string
		penQty     int
		mockReturn func(*mocks.Gateway)
		wantErr    error
		wantChange string
		wantEmpty  bool
	}{
		{
			name:   "pays and returns server change",
			sess:   staff,
			cash:   "25",
			penQty: 2,
			mockReturn: func(g *mocks.Gateway) {
				g.On("PlaceOrder", mock.Anything, mock.MatchedBy(func(req models.OrderRequest) bool {
					return req.User == "ann" &&
						req.Total.Equal(decimal.NewFromInt(20)) &&
						req.CashReceived.Equal(decimal.NewFromInt(25)) &&
						len(req.Items) == 1 &&
						req.Items[0].Name == "Pen" &&
						req.Items[0].Price.Equal(pen.Price) &&
						req.Items[0].Quantity == 2
				})).Return(models.Order{Id: "o1", User: "ann", Total: decimal.NewFromInt(20), CashReceived: decimal.NewFromInt(25), Change: &five}, nil)
			},
			wantChange: "5",
			wantEmpty:  true,
		},
		{
			name:   "server change is authoritative",
			sess:   staff,
			cash:   "25",
			penQty: 2,
			mockReturn: func(g *mocks.Gateway) {
				g.On("PlaceOrder", mock.Anything, mock.Anything).Return(models.Order{Id: "o1", Change: &four}, nil)
			},
			wantChange: "4",
			wantEmpty:  true,
		},
		{
			name:   "change derived when server omits it",
			sess:   staff,
			cash:   "20",
			penQty: 2,
			mockReturn: func(g *mocks.Gateway) {
				g.On("PlaceOrder", mock.Anything, mock.Anything).Return(models.Order{Id: "o1"}, nil)
			},
			wantChange: "0",
			wantEmpty:  true,
		},
		{
			name:       "not enough cash",
			sess:       staff,
			cash:       "15",
			penQty:     2,
			mockReturn: func(g *mocks.Gateway) {},
			wantErr:    serviceerrors.ErrInsufficientCash,
		},
		{
			name:       "negative cash",
			sess:       staff,
			cash:       "-1",
			penQty:     2,
			mockReturn: func(g *mocks.Gateway) {},
			wantErr:    serviceerrors.ErrValidation,
		},
		{
			name:       "empty cart",
			sess:       staff,
			cash:       "10",
			mockReturn: func(g *mocks.Gateway) {},
			wantErr:    serviceerrors.ErrEmptyCart,
			wantEmpty:  true,
		},
		{
			name:       "anonymous",
			sess:       session.Session{},
			cash:       "25",
			penQty:     2,
			mockReturn: func(g *mocks.Gateway) {},
			wantErr:    serviceerrors.ErrAnonymous,
		},
		{
			name:       "admin cannot check out",
			sess:       admin,
			cash:       "25",
			penQty:     2,
			mockReturn: func(g *mocks.Gateway) {},
			wantErr:    serviceerrors.ErrForbidden,
		},
		{
			name:   "server rejects",
			sess:   staff,
			cash:   "25",
			penQty: 2,
			mockReturn: func(g *mocks.Gateway) {
				g.On("PlaceOrder", mock.Anything, mock.Anything).
					Return(models.Order{}, &gatewayerrors.APIError{Status: 409, Message: "Insufficient stock for Pen"})
			},
			wantErr: gatewayerrors.ErrRejected,
		},
		{
			name:   "network failure",
			sess:   staff,
			cash:   "25",
			penQty: 2,
			mockReturn: func(g *mocks.Gateway) {
				g.On("PlaceOrder", mock.Anything, mock.Anything).
					Return(models.Order{}, errors.Join(gatewayerrors.ErrTransport, errors.New("connection refused")))
			},
			wantErr: gatewayerrors.ErrTransport,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := new(mocks.Gateway)
			tt.mockReturn(gateway)
			svc := newTestService(gateway, tt.sess)
			for i := 0; i < tt.penQty; i++ {
				_, err := svc.AddToCart(pen)
				require.NoError(t, err)
			}
			before := svc.Lines()

			receipt, err := svc.ConfirmOrder(context.Background(), dec(tt.cash))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, svc.Lines(), "cart must be untouched")
			} else {
				require.NoError(t, err)
				require.NotNil(t, receipt.Change)
				assert.True(t, dec(tt.wantChange).Equal(*receipt.Change), "change %s", receipt.Change)
				assert.Equal(t, "ann", receipt.User)
				assert.Len(t, receipt.Items, 1)
			}
			if tt.wantEmpty {
				assert.Empty(t, svc.Lines())
				assert.True(t, svc.Total().IsZero())
			} else {
				assert.True(t, decimal.NewFromInt(20).Equal(svc.Total()))
			}
			gateway.AssertExpectations(t)
		})
	}
}

func TestConfirmOrder_ContextCanceled(t *testing.T) {
	t.Run("before call", func(t *testing.T) {
		gateway := new(mocks.Gateway)
		svc := newTestService(gateway, staff)
		_, _ = svc.AddToCart(pen)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.ConfirmOrder(ctx, dec("10"))
		assert.ErrorIs(t, err, serviceerrors.ErrContextCanceled)
		assert.Len(t, svc.Lines(), 1)
		gateway.AssertExpectations(t)
	})

	t.Run("deadline during call", func(t *testing.T) {
		gateway := new(mocks.Gateway)
		gateway.On("PlaceOrder", mock.Anything, mock.Anything).
			Return(models.Order{}, context.DeadlineExceeded)
		svc := newTestService(gateway, staff)
		_, _ = svc.AddToCart(pen)

		_, err := svc.ConfirmOrder(context.Background(), dec("10"))
		assert.ErrorIs(t, err, serviceerrors.ErrDeadlineExceeded)
		assert.Len(t, svc.Lines(), 1)
		gateway.AssertExpectations(t)
	})
}

func TestConfirmOrder_RejectsReentry(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	change := decimal.Zero

	gateway := new(mocks.Gateway)
	gateway.On("PlaceOrder", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(models.Order{Id: "o1", Change: &change}, nil).
		Once()

	svc := newTestService(gateway, staff)
	_, _ = svc.AddToCart(pen)

	done := make(chan error, 1)
	go func() {
		_, err := svc.ConfirmOrder(context.Background(), dec("10"))
		done <- err
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("checkout never reached the gateway")
	}

	_, err := svc.ConfirmOrder(context.Background(), dec("10"))
	assert.ErrorIs(t, err, serviceerrors.ErrInProgress)

	_, err = svc.AddToCart(eraser)
	assert.ErrorIs(t, err, serviceerrors.ErrInProgress)
	assert.ErrorIs(t, svc.RemoveFromCart("p1"), serviceerrors.ErrInProgress)
	assert.ErrorIs(t, svc.ClearCart(context.Background(), confirm.Answer(true)), serviceerrors.ErrInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Empty(t, svc.Lines())

	_, err = svc.AddToCart(eraser)
	assert.NoError(t, err)
	gateway.AssertExpectations(t)
}

func TestConfirmOrder_NegativeCashReason(t *testing.T) {
	gateway := new(mocks.Gateway)
	svc := newTestService(gateway, staff)
	_, _ = svc.AddToCart(pen)

	_, err := svc.ConfirmOrder(context.Background(), dec("-0.01"))

	var invalid *serviceerrors.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Cash received must not be negative", invalid.Reason)
	assert.Len(t, svc.Lines(), 1)
	gateway.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
}
