package instrument_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stockgrader/internal/source"
	"stockgrader/internal/source/instrument"
	"stockgrader/internal/source/sourcemock"
)

func TestProviderFetch_PassesThrough(t *testing.T) {
	t.Parallel()

	// Arrange: a mock source returning a quote
	ctrl := gomock.NewController(t)
	src := sourcemock.NewMockSource(ctrl)
	src.EXPECT().Name().Return("Yahoo").AnyTimes()
	src.EXPECT().Fetch(gomock.Any(), "AAPL").Return(source.Quote{Symbol: "AAPL"}, nil).Times(1)

	var buf bytes.Buffer
	p := &instrument.Provider{P: src, Log: zerolog.New(&buf).Level(zerolog.DebugLevel)}

	// Act
	q, err := p.Fetch(t.Context(), "AAPL")

	// Assert
	require.NoError(t, err)
	require.Equal(t, "AAPL", q.Symbol)
	require.Equal(t, "Yahoo", p.Name())
	require.Contains(t, buf.String(), "quote fetched")
}

func TestProviderFetch_KeepsErrorIdentity(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tests := []struct {
		name string
		err  error
		log  string
	}{
		{name: "not found", err: source.ErrNotFound, log: "quote not found"},
		{name: "failure", err: boom, log: "quote fetch failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			src := sourcemock.NewMockSource(ctrl)
			src.EXPECT().Name().Return("Yahoo").AnyTimes()
			src.EXPECT().Fetch(gomock.Any(), "XYZ").Return(source.Quote{}, tt.err).Times(1)

			var buf bytes.Buffer
			p := &instrument.Provider{P: src, Log: zerolog.New(&buf).Level(zerolog.DebugLevel)}

			_, err := p.Fetch(t.Context(), "XYZ")
			require.ErrorIs(t, err, tt.err)
			require.Contains(t, buf.String(), tt.log)
		})
	}
}
