package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateIssue(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"number":   17,
			"title":    "July 2025 JDK: 21.0.4+7",
			"html_url": "https://github.com/adoptium/adoptium/issues/17",
		})
	}))
	defer server.Close()

	client := NewClient(ClientOptions{
		Owner:   "adoptium",
		Repo:    "adoptium",
		Token:   "ghp_test",
		BaseURL: server.URL,
	})

	issue, err := client.CreateIssue(
		context.Background(),
		"July 2025 JDK: 21.0.4+7",
		"body text",
		[]string{"release", "jdk21"},
	)
	require.NoError(t, err)
	require.Equal(t, 17, issue.Number)
	require.Equal(t, "https://github.com/adoptium/adoptium/issues/17", issue.HTMLURL)

	require.Equal(t, "/repos/adoptium/adoptium/issues", gotPath)
	require.Equal(t, "token ghp_test", gotAuth)
	require.Equal(t, "July 2025 JDK: 21.0.4+7", gotBody["title"])
	require.Equal(t, []any{"release", "jdk21"}, gotBody["labels"])
}

func TestCreateIssueNoLabels(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"number": 1})
	}))
	defer server.Close()

	client := NewClient(ClientOptions{Owner: "o", Repo: "r", Token: "t", BaseURL: server.URL})
	_, err := client.CreateIssue(context.Background(), "title", "body", nil)
	require.NoError(t, err)
	require.NotContains(t, gotBody, "labels")
}

func TestCreateIssueFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message": "Validation Failed"}`))
	}))
	defer server.Close()

	client := NewClient(ClientOptions{Owner: "o", Repo: "r", Token: "t", BaseURL: server.URL})
	_, err := client.CreateIssue(context.Background(), "title", "body", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 422")
}
