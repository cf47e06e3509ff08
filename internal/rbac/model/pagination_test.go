package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkip(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		limit int
		want  int64
	}{
		{"first page", 1, 20, 0},
		{"third page", 3, 20, 40},
		{"zero page treated as first", 0, 20, 0},
		{"zero limit", 5, 0, 0},
		{"saturates instead of wrapping", 1 << 62, 20, math.MaxInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Skip(tt.page, tt.limit))
		})
	}
}

func TestPagingBounds(t *testing.T) {
	t.Run("audit log page beyond limit rejected", func(t *testing.T) {
		req := GetAuditLogsReq{Page: 1 << 62}
		err := req.Validate()
		require.Error(t, err)
		var detail *ErrorDetail
		require.ErrorAs(t, err, &detail)
		assert.Equal(t, "bad_request", detail.Code)
	})

	t.Run("every list request rejects huge pages", func(t *testing.T) {
		assert.Error(t, (&ListSubmissionsReq{Page: MaxPage + 1}).Validate())
		assert.Error(t, (&ListUsersReq{Page: MaxPage + 1}).Validate())
		assert.Error(t, (&ListNotificationsReq{Page: MaxPage + 1}).Validate())
	})

	t.Run("last allowed page and defaults", func(t *testing.T) {
		req := GetAuditLogsReq{Page: MaxPage, Limit: 500}
		require.NoError(t, req.Validate())
		assert.Equal(t, MaxPageSize, req.Limit)
		assert.Equal(t, int64(MaxPage-1)*MaxPageSize, Skip(req.Page, req.Limit))

		req = GetAuditLogsReq{}
		require.NoError(t, req.Validate())
		assert.Equal(t, 1, req.Page)
		assert.Equal(t, DefaultPageSize, req.Limit)
	})
}
