package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stockgrader/internal/gateway"
	"stockgrader/internal/grading"
	"stockgrader/internal/source"
	"stockgrader/internal/source/sourcemock"
)

func toPtr[T any](v T) *T { return &v }

func TestServiceQuote_GradesAndShapes(t *testing.T) {
	t.Parallel()

	// Arrange: a mock source with fundamentals scoring 62/C
	ctrl := gomock.NewController(t)
	src := sourcemock.NewMockSource(ctrl)
	src.EXPECT().
		Fetch(gomock.Any(), "ACME").
		Return(source.Quote{
			Symbol:        "ACME",
			Name:          toPtr("Acme Corp"),
			Exchange:      toPtr("NYSE"),
			Currency:      toPtr("USD"),
			Price:         toPtr(42.5),
			ChangePercent: toPtr(1.25),
			TrailingPE:    nil,
			ForwardPE:     toPtr(15.0),
			EPS:           toPtr(2.0),
			Volume:        toPtr(1e6),
			MarketCap:     toPtr(1e9),
		}, nil).
		Times(1)

	svc := gateway.NewService(src, time.Second, zerolog.Nop())

	// Act: lower-case, padded input is normalized
	resp, err := svc.Quote(t.Context(), "  acme ")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ACME", resp.Symbol)
	assert.Equal(t, "Acme Corp", *resp.Name)
	assert.InEpsilon(t, 15.0, *resp.PE, 0.0001)
	assert.InEpsilon(t, 1e6, *resp.Volume, 0.0001)
	assert.Equal(t, 62, resp.Score)
	assert.Equal(t, grading.C, resp.Grade)
}

func TestServiceQuote_JSONShape(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	src := sourcemock.NewMockSource(ctrl)
	src.EXPECT().Fetch(gomock.Any(), "BARE").Return(source.Quote{Symbol: "BARE", EPS: toPtr(math.Inf(1))}, nil)

	resp, err := gateway.NewService(src, 0, zerolog.Nop()).Quote(t.Context(), "bare")
	require.NoError(t, err)

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"symbol": "BARE",
		"name": null,
		"exchange": null,
		"currency": null,
		"price": null,
		"change": null,
		"pe": null,
		"eps": null,
		"volume": null,
		"marketCap": null,
		"grade": "D",
		"score": 50
	}`, string(b))
}

func TestServiceQuote_Errors(t *testing.T) {
	t.Parallel()

	t.Run("blank symbol", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		src := sourcemock.NewMockSource(ctrl)
		src.EXPECT().Fetch(gomock.Any(), gomock.Any()).Times(0)

		_, err := gateway.NewService(src, time.Second, zerolog.Nop()).Quote(t.Context(), "   ")
		require.ErrorIs(t, err, gateway.ErrSymbolRequired)
	})

	t.Run("not found passes through", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		src := sourcemock.NewMockSource(ctrl)
		src.EXPECT().Fetch(gomock.Any(), "NOPE").Return(source.Quote{}, source.ErrNotFound)

		_, err := gateway.NewService(src, time.Second, zerolog.Nop()).Quote(t.Context(), "nope")
		require.ErrorIs(t, err, source.ErrNotFound)

		var fe *gateway.FetchError
		require.False(t, errors.As(err, &fe))
	})

	t.Run("upstream failure is wrapped", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("connection refused")
		ctrl := gomock.NewController(t)
		src := sourcemock.NewMockSource(ctrl)
		src.EXPECT().Fetch(gomock.Any(), "AAPL").Return(source.Quote{}, boom)

		_, err := gateway.NewService(src, time.Second, zerolog.Nop()).Quote(t.Context(), "AAPL")
		require.ErrorIs(t, err, boom)

		var fe *gateway.FetchError
		require.ErrorAs(t, err, &fe)
		require.Equal(t, "AAPL", fe.Symbol)
		require.Contains(t, fe.Error(), "connection refused")
	})
}

func TestServiceQuote_AppliesTimeout(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	src := sourcemock.NewMockSource(ctrl)
	src.EXPECT().
		Fetch(gomock.Any(), "SLOW").
		DoAndReturn(func(ctx context.Context, _ string) (source.Quote, error) {
			deadline, ok := ctx.Deadline()
			require.True(t, ok)
			require.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 40*time.Millisecond)
			<-ctx.Done()
			return source.Quote{}, ctx.Err()
		})

	_, err := gateway.NewService(src, 50*time.Millisecond, zerolog.Nop()).Quote(t.Context(), "SLOW")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
