package validators

import (
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/angelmondragon/repairshop-backend/pkg/errors"
)

func TestParseQueryInt(t *testing.T) {
	cases := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{query: "", want: 25},
		{query: "limit=%20", want: 25},
		{query: "limit=1", want: 1},
		{query: "limit=100", want: 100},
		{query: "limit=0", wantErr: true},
		{query: "limit=101", wantErr: true},
		{query: "limit=abc", wantErr: true},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
		got, err := ParseQueryInt(req, "limit", 25, 1, 100)
		if tc.wantErr {
			if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("%q: expected validation error got %v", tc.query, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("%q: expected %d got %d (%v)", tc.query, tc.want, got, err)
		}
	}
}
