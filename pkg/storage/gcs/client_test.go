package gcs

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestTokenSourceCachesUntilNearExpiry(t *testing.T) {
	calls := 0
	ts := &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			calls++
			return "tok", time.Now().Add(time.Hour), nil
		},
	}

	for i := 0; i < 3; i++ {
		token, err := ts.Token(context.Background())
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		if token != "tok" {
			t.Fatalf("unexpected token %q", token)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single fetch, got %d", calls)
	}
}

func TestTokenSourceRefreshesExpired(t *testing.T) {
	calls := 0
	ts := &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			calls++
			return "tok", time.Now().Add(30 * time.Second), nil
		},
	}

	if _, err := ts.Token(context.Background()); err != nil {
		t.Fatalf("token: %v", err)
	}
	if _, err := ts.Token(context.Background()); err != nil {
		t.Fatalf("token: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected refresh for near-expiry token, got %d fetches", calls)
	}
}

func TestTokenSourcePropagatesFetchError(t *testing.T) {
	wantErr := errors.New("metadata unavailable")
	ts := &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			return "", time.Time{}, wantErr
		},
	}
	if _, err := ts.Token(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

func TestNewServiceAccountTokenSourceRejectsBadCreds(t *testing.T) {
	client := &http.Client{}
	if _, err := newServiceAccountTokenSource(client, "{not json"); err == nil {
		t.Fatalf("expected error for malformed json")
	}
	if _, err := newServiceAccountTokenSource(client, `{"client_email":"","private_key":""}`); err == nil {
		t.Fatalf("expected error for empty credentials")
	}
}

func TestDownloadValidatesInputs(t *testing.T) {
	c := &Client{tokenSource: &tokenSource{fetch: func(context.Context) (string, time.Time, error) {
		return "tok", time.Now().Add(time.Hour), nil
	}}}
	if _, err := c.Download(context.Background(), "", "object.xlsx"); err == nil {
		t.Fatalf("expected error without bucket")
	}
	c.defaultBucket = "seeds"
	if _, err := c.Download(context.Background(), "", ""); err == nil {
		t.Fatalf("expected error without object")
	}
}
