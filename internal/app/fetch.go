package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// allocine sert une page différente (voire un blocage) aux agents non
// navigateurs ; on s'annonce donc comme un navigateur classique.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

const defaultFetchTimeout = 10 * time.Second

type FetchErrorKind string

const (
	// FetchBadStatus : le site a répondu avec un statut non 2xx.
	FetchBadStatus FetchErrorKind = "bad_status"
	// FetchUnreachable : timeout ou erreur de transport.
	FetchUnreachable FetchErrorKind = "unreachable"
)

// FetchError porte un code stable, à la manière des erreurs codées des
// jobs : l'appelant peut classer l'échec sans parser le message.
type FetchError struct {
	Kind       FetchErrorKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e == nil {
		return ""
	}
	if e.Kind == FetchBadStatus {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher fait un GET unique et borné par page. Pas de retry, pas de
// cache : ces politiques appartiennent aux couches au-dessus.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
			},
		},
	}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchUnreachable, URL: url, Err: err}
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: FetchUnreachable, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Kind: FetchBadStatus, URL: url, StatusCode: resp.StatusCode}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: FetchUnreachable, URL: url, Err: err}
	}
	return b, nil
}

// IsFetchError extrait le FetchError d'une chaîne d'erreurs.
func IsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
