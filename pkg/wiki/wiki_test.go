package wiki

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestTitleFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "plain title",
			url:  "https://en.wikipedia.org/wiki/Adam_Smith",
			want: "Adam_Smith",
		},
		{
			name: "percent-encoded title",
			url:  "https://en.wikipedia.org/wiki/L%C3%A9on_Walras",
			want: "Léon_Walras",
		},
		{
			name: "not a wiki url",
			url:  "https://example.com/adam-smith",
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TitleFromURL(tc.url); got != tc.want {
				t.Errorf("TitleFromURL(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}

func TestFetchTextsMatchesTitlesBack(t *testing.T) {
	var apiCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		apiCalls.Add(1)
		if got := r.URL.Query().Get("prop"); got != "extracts" {
			t.Errorf("prop = %q, want extracts", got)
		}
		// Response titles carry spaces, the request used underscores.
		fmt.Fprint(w, `{"query":{"pages":{
			"1":{"pageid":1,"title":"Adam Smith","extract":"Scottish economist and philosopher."},
			"2":{"pageid":2,"title":"Karl Marx","extract":"German philosopher and economist."}
		}}}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	fetcher := NewFetcher(NewFetcherParams{APIURL: server.URL + "/w/api.php"})

	smithURL := "https://en.wikipedia.org/wiki/Adam_Smith"
	marxURL := "https://en.wikipedia.org/wiki/Karl_Marx"

	texts, err := fetcher.FetchTexts(context.Background(), []string{smithURL, marxURL})
	if err != nil {
		t.Fatalf("FetchTexts() error = %v", err)
	}
	if texts[smithURL] != "Scottish economist and philosopher." {
		t.Errorf("texts[smith] = %q", texts[smithURL])
	}
	if texts[marxURL] != "German philosopher and economist." {
		t.Errorf("texts[marx] = %q", texts[marxURL])
	}

	// Second call must be served from cache.
	if _, err := fetcher.FetchTexts(context.Background(), []string{smithURL, marxURL}); err != nil {
		t.Fatalf("FetchTexts() second call error = %v", err)
	}
	if got := apiCalls.Load(); got != 1 {
		t.Errorf("api called %d times, want 1", got)
	}
}

func TestFetchTextsFallsBackToPageFetch(t *testing.T) {
	var pageHits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		// The article exists but exposes no intro extract.
		fmt.Fprint(w, `{"query":{"pages":{"1":{"pageid":1,"title":"Obscure Economist","extract":""}}}}`)
	})
	mux.HandleFunc("/wiki/", func(w http.ResponseWriter, r *http.Request) {
		pageHits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<!DOCTYPE html><html><head><title>Obscure Economist</title></head><body>
			<article>
			<p>An economist known mostly within a narrow subfield, whose written work
			covered the pricing of grain futures across nineteenth century markets and
			the institutional arrangements that supported them.</p>
			<p>Later writing turned to the measurement of agricultural productivity and
			the statistical series needed to compare harvests across regions, a body of
			work that influenced several later empirical researchers.</p>
			</article></body></html>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	fetcher := NewFetcher(NewFetcherParams{APIURL: server.URL + "/w/api.php"})

	pageURL := server.URL + "/wiki/Obscure_Economist"
	if _, err := fetcher.FetchTexts(context.Background(), []string{pageURL}); err != nil {
		t.Fatalf("FetchTexts() error = %v", err)
	}
	if pageHits.Load() == 0 {
		t.Error("expected a readability fallback request for the article page")
	}
}

func TestFetchTextsRetriesTransientFailures(t *testing.T) {
	var apiCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		if apiCalls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"query":{"pages":{"1":{"pageid":1,"title":"Adam Smith","extract":"Scottish economist."}}}}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	fetcher := NewFetcher(NewFetcherParams{APIURL: server.URL + "/w/api.php"})

	smithURL := "https://en.wikipedia.org/wiki/Adam_Smith"
	texts, err := fetcher.FetchTexts(context.Background(), []string{smithURL})
	if err != nil {
		t.Fatalf("FetchTexts() error = %v", err)
	}
	if texts[smithURL] != "Scottish economist." {
		t.Errorf("texts[smith] = %q", texts[smithURL])
	}
	if got := apiCalls.Load(); got != 2 {
		t.Errorf("api called %d times, want 2", got)
	}
}
