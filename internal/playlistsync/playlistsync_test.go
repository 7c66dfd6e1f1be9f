package playlistsync

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type backendStub struct {
	statusCode  int
	statusBody  string
	syncCode    int
	syncBody    string
	syncCalls   int
	lastRequest Request
}

func (b *backendStub) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /youtube/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(b.statusCode)
		_, _ = w.Write([]byte(b.statusBody))
	})
	mux.HandleFunc("POST /playlists/weekly/sync", func(w http.ResponseWriter, r *http.Request) {
		b.syncCalls++
		if err := json.NewDecoder(r.Body).Decode(&b.lastRequest); err != nil {
			t.Errorf("decode sync body: %v", err)
		}
		w.WriteHeader(b.syncCode)
		_, _ = w.Write([]byte(b.syncBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func request(ids ...string) Request {
	return Request{Title: "Weekly", Description: "Picks", VideoIDs: ids}
}

func TestSyncSucceeds(t *testing.T) {
	stub := &backendStub{
		statusCode: http.StatusOK, statusBody: `{"authorized":true}`,
		syncCode: http.StatusOK, syncBody: `{"playlist_url":"https://youtube.com/playlist?list=PL1"}`,
	}
	srv := stub.server(t)
	wf := NewWorkflow(NewClient(srv.URL, 0))

	got := wf.Sync(context.Background(), request("b", "a", "c"), nil)

	want := Result{State: StateSucceeded, PlaylistURL: "https://youtube.com/playlist?list=PL1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(request("b", "a", "c"), stub.lastRequest); diff != "" {
		t.Errorf("pushed request mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, wf.Status()); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
}

func TestSyncUnauthorizedNavigatesWithoutPush(t *testing.T) {
	stub := &backendStub{statusCode: http.StatusOK, statusBody: `{"authorized":false}`}
	srv := stub.server(t)
	wf := NewWorkflow(NewClient(srv.URL+"/", 0))

	var navigated string
	got := wf.Sync(context.Background(), request("a"), NavigatorFunc(func(url string) { navigated = url }))

	if stub.syncCalls != 0 {
		t.Errorf("expected no sync POST, got %d", stub.syncCalls)
	}
	if navigated != srv.URL+"/youtube/auth" {
		t.Errorf("navigated to %q", navigated)
	}
	if got.State != StateIdle {
		t.Errorf("state = %q, want idle", got.State)
	}
}

func TestSyncFailureMessages(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		statusBody string
		syncCode   int
		syncBody   string
		want       string
	}{
		{"detail from sync", http.StatusOK, `{"authorized":true}`, http.StatusInternalServerError, `{"detail":"quota exceeded"}`, "quota exceeded"},
		{"message fallback", http.StatusOK, `{"authorized":true}`, http.StatusBadGateway, `{"message":"upstream down"}`, "upstream down"},
		{"status text fallback", http.StatusOK, `{"authorized":true}`, http.StatusServiceUnavailable, `not json`, "Service Unavailable"},
		{"non-string detail", http.StatusOK, `{"authorized":true}`, http.StatusUnprocessableEntity, `{"detail":[{"loc":["body"]}]}`, "Unprocessable Entity"},
		{"status check error", http.StatusUnauthorized, `{"detail":"token revoked"}`, 0, "", "token revoked"},
		{"unknown status code", http.StatusOK, `{"authorized":true}`, 599, `{}`, "YouTube request failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &backendStub{statusCode: tt.statusCode, statusBody: tt.statusBody, syncCode: tt.syncCode, syncBody: tt.syncBody}
			srv := stub.server(t)
			wf := NewWorkflow(NewClient(srv.URL, 0))

			got := wf.Sync(context.Background(), request("a"), nil)

			want := Result{State: StateFailed, Message: tt.want}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSyncNetworkErrorIsGeneric(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	wf := NewWorkflow(NewClient(srv.URL, 0))

	got := wf.Sync(context.Background(), request("a"), nil)

	if diff := cmp.Diff(Result{State: StateFailed, Message: "YouTube sync failed"}, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestSyncEmptyListIsNoop(t *testing.T) {
	b := &fakeBackend{}
	wf := NewWorkflow(b)

	got := wf.Sync(context.Background(), request(), nil)

	if got.State != StateIdle || b.statusCalls != 0 {
		t.Errorf("expected untouched idle workflow, got %+v after %d status calls", got, b.statusCalls)
	}
}

type fakeBackend struct {
	statusCalls int
	seenState   State
	wf          *Workflow
}

func (f *fakeBackend) Authorized(context.Context) (bool, error) {
	f.statusCalls++
	if f.wf != nil {
		f.seenState = f.wf.Status().State
	}
	return true, nil
}

func (f *fakeBackend) AuthURL() string { return "" }

func (f *fakeBackend) Push(context.Context, Request) (string, error) {
	return "", errors.New("connection reset")
}

func TestSyncReportsInFlightWhileRunning(t *testing.T) {
	b := &fakeBackend{}
	wf := NewWorkflow(b)
	b.wf = wf

	got := wf.Sync(context.Background(), request("a"), nil)

	if b.seenState != StateInFlight {
		t.Errorf("state during request = %q, want in_flight", b.seenState)
	}
	if got.State != StateFailed || got.Message != "YouTube sync failed" {
		t.Errorf("unexpected result %+v", got)
	}
}

func TestResponseErrorUnwrapsThroughClient(t *testing.T) {
	stub := &backendStub{statusCode: http.StatusForbidden, statusBody: `{"detail":"nope"}`}
	srv := stub.server(t)

	_, err := NewClient(srv.URL, 0).Authorized(context.Background())

	var re *ResponseError
	if !errors.As(err, &re) {
		t.Fatalf("expected ResponseError, got %v", err)
	}
	if re.StatusCode != http.StatusForbidden || re.Message != "nope" {
		t.Errorf("unexpected error %+v", re)
	}
}
