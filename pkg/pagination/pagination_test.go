package pagination

import (
	"context"
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbers(n int) SliceSource[int] {
	s := make(SliceSource[int], n)
	for i := range s {
		s[i] = i
	}
	return s
}

func TestPaginate(t *testing.T) {
	ctx := context.Background()
	src := numbers(25)

	tests := []struct {
		name      string
		pageIndex int
		wantLen   int
		wantFirst int
	}{
		{name: "first page", pageIndex: 0, wantLen: 10, wantFirst: 0},
		{name: "second page", pageIndex: 1, wantLen: 10, wantFirst: 10},
		{name: "last partial page", pageIndex: 2, wantLen: 5, wantFirst: 20},
		{name: "past the end", pageIndex: 3, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := Paginate[int](ctx, src, 10, tt.pageIndex)
			require.NoError(t, err)

			assert.Len(t, page.Items, tt.wantLen)
			assert.Equal(t, 25, page.TotalCount)
			assert.Equal(t, 10, page.PageSize)
			assert.Equal(t, tt.pageIndex, page.PageIndex)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, page.Items[0])
			} else {
				assert.NotNil(t, page.Items)
			}
		})
	}
}

func TestPaginateHugePageIndex(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		pageSize  int
		pageIndex int
	}{
		{name: "offset overflows int", pageSize: 2, pageIndex: math.MaxInt/2 + 1},
		{name: "offset wraps negative", pageSize: 10, pageIndex: math.MaxInt/10 + 1},
		{name: "max int index", pageSize: 1000, pageIndex: math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &recordingSource{SliceSource: numbers(5)}

			page, err := Paginate[int](ctx, src, tt.pageSize, tt.pageIndex)
			require.NoError(t, err)

			assert.Empty(t, page.Items)
			assert.NotNil(t, page.Items)
			assert.Equal(t, 5, page.TotalCount)
			assert.False(t, src.fetched)
		})
	}
}

func TestPaginateEmptySource(t *testing.T) {
	src := &recordingSource{SliceSource: numbers(0)}

	page, err := Paginate[int](context.Background(), src, 10, 0)
	require.NoError(t, err)

	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalCount)
	assert.False(t, src.fetched)
}

func TestSliceSourceFetchBounds(t *testing.T) {
	ctx := context.Background()
	src := numbers(5)

	items, err := src.Fetch(ctx, -4, 2)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = src.Fetch(ctx, 3, math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, items)
}

type recordingSource struct {
	SliceSource[int]
	fetched bool
}

func (r *recordingSource) Fetch(ctx context.Context, offset, limit int) ([]int, error) {
	r.fetched = true
	return r.SliceSource.Fetch(ctx, offset, limit)
}

func TestPaginateRejectsInvalidPage(t *testing.T) {
	ctx := context.Background()

	_, err := Paginate[int](ctx, numbers(3), 0, 0)
	assert.ErrorIs(t, err, e.ErrInvalidPage)

	_, err = Paginate[int](ctx, numbers(3), 10, -1)
	assert.ErrorIs(t, err, e.ErrInvalidPage)
}

type failingSource struct{ err error }

func (f failingSource) Count(context.Context) (int, error) { return 0, f.err }
func (f failingSource) Fetch(context.Context, int, int) ([]int, error) { return nil, f.err }

func TestPaginatePropagatesSourceError(t *testing.T) {
	boom := errors.New("boom")

	_, err := Paginate[int](context.Background(), failingSource{err: boom}, 10, 0)
	assert.ErrorIs(t, err, boom)
}

func TestProjectIsAppliedOnFetch(t *testing.T) {
	ctx := context.Background()
	calls := 0
	src := Project[int, string](numbers(5), func(i int) string {
		calls++
		return strconv.Itoa(i * 2)
	})

	total, err := src.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Zero(t, calls)

	page, err := Paginate(ctx, src, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "6"}, page.Items)
	assert.Equal(t, 2, calls)
}

func TestAll(t *testing.T) {
	items, err := All[int](context.Background(), numbers(4))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, items)

	empty, err := All[int](context.Background(), numbers(0))
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
