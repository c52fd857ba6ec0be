package zakupki

import (
	"context"
	"testing"
	"tenderbot/internal/components/chrono"
	"tenderbot/internal/components/telemetry"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPageCacheKey(t *testing.T) {
	cache := PageCache{}

	testCases := []struct {
		a, b string
	}{
		{
			a: "https://zakupki.gov.ru/epz/order/extendedsearch/results.html?b=2&a=1",
			b: "https://ZAKUPKI.gov.ru/epz/order/extendedsearch/results.html?a=1&b=2#top",
		},
		{a: "https://zakupki.gov.ru/index.html", b: "https://zakupki.gov.ru/"},
		{a: "https://zakupki.gov.ru?b=2&a=1", b: "https://zakupki.gov.ru/?a=1&b=2"},
	}
	for _, test := range testCases {
		a, err := cache.key(test.a)
		require.NoError(t, err)
		b, err := cache.key(test.b)
		require.NoError(t, err)
		require.Equal(t, a, b)
	}

	a, err := cache.key(firstDetailURL)
	require.NoError(t, err)
	b, err := cache.key(firstDocumentsURL)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestCachedFetcher(t *testing.T) {
	db, err := OpenBadger("")
	require.NoError(t, err)
	defer db.Close()

	clock := &chrono.FixedImpl{At: capturedAt}
	inner := newFakeFetcher(map[string]string{
		firstDetailURL: "<html>detail</html>",
	})
	fetcher := NewCachedFetcher(inner, NewPageCache(db, time.Minute, clock), telemetry.NewRecorder())

	for i := 0; i < 3; i++ {
		page, err := fetcher.Fetch(context.Background(), firstDetailURL)
		require.NoError(t, err)
		require.Equal(t, "<html>detail</html>", page)
	}
	require.Equal(t, 1, inner.Calls(firstDetailURL))

	clock.At = capturedAt.Add(2 * time.Minute)
	_, err = fetcher.Fetch(context.Background(), firstDetailURL)
	require.NoError(t, err)
	require.Equal(t, 2, inner.Calls(firstDetailURL), "expired pages are fetched again")

	_, err = fetcher.Fetch(context.Background(), firstDocumentsURL)
	require.Error(t, err)
	_, err = fetcher.Fetch(context.Background(), firstDocumentsURL)
	require.Error(t, err)
	require.Equal(t, 2, inner.Calls(firstDocumentsURL), "failures are not cached")
}
