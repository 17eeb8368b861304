package pagination

import (
	"errors"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestLimitAndOffset(t *testing.T) {
	tests := []struct {
		name       string
		page       *int
		limit      *int
		wantLimit  int
		wantOffset int
		wantErr    bool
	}{
		{name: "defaults", wantLimit: 10, wantOffset: 0},
		{name: "zero page is first page", page: intPtr(0), wantLimit: 10, wantOffset: 0},
		{name: "third page", page: intPtr(3), limit: intPtr(20), wantLimit: 20, wantOffset: 40},
		{name: "max limit", page: intPtr(2), limit: intPtr(50), wantLimit: 50, wantOffset: 50},
		{name: "negative page", page: intPtr(-1), wantErr: true},
		{name: "zero limit", limit: intPtr(0), wantErr: true},
		{name: "limit above max", limit: intPtr(51), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset, err := LimitAndOffset(tt.page, tt.limit)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPagination) {
					t.Fatalf("err = %v, want ErrInvalidPagination", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("got (%d, %d), want (%d, %d)", limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestNew_ClampsDefaultToMax(t *testing.T) {
	p := New(100, 25)
	if p.DefaultLimit != 10 || p.MaxLimit != 25 {
		t.Errorf("New(100, 25) = %+v", p)
	}

	p = New(5, 0)
	if p.DefaultLimit != 5 || p.MaxLimit != MaxLimit {
		t.Errorf("New(5, 0) = %+v", p)
	}

	limit, _, err := New(5, 8).LimitAndOffset(nil, nil)
	if err != nil || limit != 5 {
		t.Errorf("LimitAndOffset with configured default = %d, %v", limit, err)
	}
}
