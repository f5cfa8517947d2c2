package messaging

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMailgunSendPostsFormPayload(t *testing.T) {
	var (
		gotUser, gotPass string
		gotForm          map[string][]string
		gotContentType   string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/messages", r.URL.Path)

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"id":"<msg-id@mailgun>","message":"Queued. Thank you."}`)
	}))
	defer server.Close()

	cfg := Config{
		Mailgun:   MailgunConfig{APIKey: "key-test", BaseURL: server.URL},
		FromEmail: "no-reply@example.com",
		FromName:  "HyperSenta",
	}
	dispatcher := NewDispatcher(cfg)

	receipt, err := dispatcher.SendEmail(context.Background(), EmailRequest{
		Recipients: []string{"a@example.com", "b@example.com"},
		Subject:    "Welcome",
		Message:    "hello there",
		Provider:   ProviderMailgun,
	})
	require.NoError(t, err)

	require.Equal(t, "api", gotUser)
	require.Equal(t, "key-test", gotPass)
	require.Equal(t, "application/x-www-form-urlencoded", gotContentType)

	require.Equal(t, []string{"HyperSenta <no-reply@example.com>"}, gotForm["from"])
	require.Equal(t, []string{"a@example.com", "b@example.com"}, gotForm["to"])
	require.Equal(t, []string{"Welcome"}, gotForm["subject"])
	require.Equal(t, []string{"hello there"}, gotForm["text"])

	require.Equal(t, ProviderMailgun, receipt.Provider)
	require.Equal(t, "<msg-id@mailgun>", receipt.MessageID)
	require.Equal(t, http.StatusOK, receipt.StatusCode)
}

func TestMailgunSendWrapsHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Invalid private key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	cfg := Config{Mailgun: MailgunConfig{APIKey: "bad", BaseURL: server.URL}}
	dispatcher := NewDispatcher(cfg)

	_, err := dispatcher.SendEmail(context.Background(), EmailRequest{
		Recipients: []string{"a@example.com"},
		Subject:    "Hi",
		Message:    "hello",
		Provider:   ProviderMailgun,
	})

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	require.Equal(t, ProviderMailgun, transport.Provider)
	require.Contains(t, transport.Error(), "401")
}

func TestMailgunSendWrapsDialFailure(t *testing.T) {
	cfg := Config{Mailgun: MailgunConfig{APIKey: "key", BaseURL: "http://127.0.0.1:1"}}
	dispatcher := NewDispatcher(cfg)

	_, err := dispatcher.SendEmail(context.Background(), EmailRequest{
		Recipients: []string{"a@example.com"},
		Subject:    "Hi",
		Message:    "hello",
		Provider:   ProviderMailgun,
	})

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	require.Equal(t, ProviderMailgun, transport.Provider)
}

func TestConcurrentDispatchesShareNoState(t *testing.T) {
	var (
		mu        sync.Mutex
		delivered []string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		mu.Lock()
		delivered = append(delivered, r.PostForm.Get("to"))
		mu.Unlock()
		fmt.Fprint(w, `{"id":"ok"}`)
	}))
	defer server.Close()

	cfg := Config{
		Mailgun:   MailgunConfig{APIKey: "key", BaseURL: server.URL},
		FromEmail: "no-reply@example.com",
	}
	dispatcher := NewDispatcher(cfg)

	const dispatches = 16
	var wg sync.WaitGroup
	errs := make([]error, dispatches)

	for i := 0; i < dispatches; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = dispatcher.SendEmail(context.Background(), EmailRequest{
				Recipients: []string{fmt.Sprintf("user%02d@example.com", i)},
				Subject:    "Hi",
				Message:    "hello",
				Provider:   ProviderMailgun,
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "dispatch %d", i)
	}

	sort.Strings(delivered)
	require.Len(t, delivered, dispatches)
	for i := 0; i < dispatches; i++ {
		require.Equal(t, fmt.Sprintf("user%02d@example.com", i), delivered[i])
	}
}
