package substitution

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSuggest_SendsExpectedPayload(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"lineId":           7,
			"suggestedLineIds": []int{3, 9},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	ids, err := client.Suggest(context.Background(), 7, "MILK-1L", decimal.NewFromFloat(2.5), nil)
	require.NoError(t, err)
	require.Equal(t, []int{3, 9}, ids)

	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "/substitution/suggest", gotPath)
	require.Equal(t, float64(7), gotBody["lineId"])
	require.Equal(t, "MILK-1L", gotBody["productCode"])
	require.Equal(t, 2.5, gotBody["qty"])
	_, hasName := gotBody["name"]
	require.False(t, hasName)
}

func TestSuggest_IncludesNameWhenProvided(t *testing.T) {
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]interface{}{"lineId": 7, "suggestedLineIds": []int{}})
	}))
	defer server.Close()

	name := "Whole milk 1l"
	client := NewClient(server.URL, 5*time.Second)
	ids, err := client.Suggest(context.Background(), 7, "MILK-1L", decimal.NewFromInt(1), &name)
	require.NoError(t, err)
	require.Empty(t, ids)
	require.Equal(t, "Whole milk 1l", gotBody["name"])
}

func TestSuggest_NonOKStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Suggest(context.Background(), 7, "MILK-1L", decimal.NewFromInt(2), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 500")
}

func TestSuggest_UnreachableService(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 500*time.Millisecond)
	_, err := client.Suggest(context.Background(), 7, "MILK-1L", decimal.NewFromInt(2), nil)
	require.Error(t, err)
}
