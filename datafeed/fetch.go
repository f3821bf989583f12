package datafeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ulikunitz/xz"
	"golang.org/x/time/rate"
)

// Fetcher downloads xz-compressed per-symbol bar archives into the bars
// directory, producing the <symbol>.csv files LoadBarDir expects. Downloads
// are resumable (existing outputs are skipped) and rate limited so the
// upstream is not hammered.
type Fetcher struct {
	BaseURL string
	OutDir  string
	Client  *http.Client
	Limiter *rate.Limiter
}

func NewFetcher(baseURL, outDir string) *Fetcher {
	return &Fetcher{
		BaseURL: baseURL,
		OutDir:  outDir,
		Client:  &http.Client{Timeout: 45 * time.Second},
		// Default to ~4 requests/second; upstreams serving archives are
		// not built for bursty crawls.
		Limiter: rate.NewLimiter(rate.Limit(4), 1),
	}
}

// FetchResult counts outcomes over one Fetch call.
type FetchResult struct {
	Fetched int
	Skipped int
	Missing int
}

// Fetch downloads the archive for each symbol. A 404 counts as missing and
// does not fail the batch; other HTTP errors do.
func (f *Fetcher) Fetch(ctx context.Context, symbols []string) (FetchResult, error) {
	var res FetchResult
	for _, sym := range symbols {
		sym = PadSymbol(sym)
		dst := filepath.Join(f.OutDir, sym+".csv")

		if st, err := os.Stat(dst); err == nil && st.Size() > 0 {
			res.Skipped++
			continue
		}

		if err := f.Limiter.Wait(ctx); err != nil {
			return res, err
		}

		status, err := f.fetchOne(ctx, sym, dst)
		if err != nil {
			return res, fmt.Errorf("datafeed: fetch %s: %w", sym, err)
		}
		if status == http.StatusNotFound {
			res.Missing++
			continue
		}
		res.Fetched++
	}
	return res, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, symbol, dst string) (int, error) {
	url := fmt.Sprintf("%s/%s.csv.xz", f.BaseURL, symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "quantopen-datafeed/1.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return http.StatusNotFound, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("http status %d", resp.StatusCode)
	}

	r, err := xz.NewReader(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("open archive: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return resp.StatusCode, err
	}

	// Write via a .part file and rename so an interrupted download never
	// leaves a truncated CSV behind.
	tmp := dst + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return resp.StatusCode, err
	}
	_, copyErr := io.Copy(out, r)
	closeErr := out.Close()
	if copyErr != nil {
		os.Remove(tmp)
		return resp.StatusCode, copyErr
	}
	if closeErr != nil {
		os.Remove(tmp)
		return resp.StatusCode, closeErr
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return resp.StatusCode, err
	}
	return resp.StatusCode, nil
}
