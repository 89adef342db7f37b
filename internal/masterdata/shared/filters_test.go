package shared

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseListFilters(t *testing.T) {
	q := url.Values{"q": {"шт"}, "limit": {"5"}, "offset": {"10"}}
	f := ParseListFilters(q)
	require.Equal(t, ListFilters{Search: "шт", Limit: 5, Offset: 10}, f)

	require.Equal(t, ListFilters{}, ParseListFilters(url.Values{"limit": {"abc"}}))
}

func TestWindowClampsLimitAndOffset(t *testing.T) {
	limit, offset := ListFilters{}.Window()
	require.Equal(t, 100, limit)
	require.Equal(t, 0, offset)

	limit, offset = ListFilters{Limit: 5000, Offset: -3}.Window()
	require.Equal(t, 100, limit)
	require.Equal(t, 0, offset)

	limit, offset = ListFilters{Limit: 25, Offset: 50}.Window()
	require.Equal(t, 25, limit)
	require.Equal(t, 50, offset)
}
