package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestValidateSATURL(t *testing.T) {
	tests := []struct {
		raw string
		ok  bool
	}{
		{"https://siat.sat.gob.mx/app/qr/faces/pages/mobile/validadorqr.jsf?D1=10&D3=123_ABC", true},
		{"http://sat.gob.mx/consulta", true},
		{"https://SAT.GOB.MX./consulta", true},
		{"https://example.com/?q=sat.gob.mx", false},
		{"https://sat.gob.mx.example.net/x", false},
		{"https://notsat.gob.mx/x", false},
		{"ftp://sat.gob.mx/file", false},
		{"sat.gob.mx", false},
		{"", false},
		{"   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, err := ValidateSATURL(tt.raw)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidSATURL) {
				t.Errorf("err = %v, want ErrInvalidSATURL", err)
			}
		})
	}
}

var minimalPDF = []byte("%PDF-1.4\n1 0 obj<<>>endobj\ntrailer<<>>\n%%EOF\n")

func geminiReply(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{"parts": []any{map[string]any{"text": text}}},
		}},
	})
	return string(b)
}

// generateRequest is the part of the generateContent body the tests inspect.
type generateRequest struct {
	Contents []struct {
		Parts []struct {
			Text       string `json:"text"`
			InlineData *struct {
				MimeType string `json:"mimeType"`
				Data     string `json:"data"`
			} `json:"inlineData"`
		} `json:"parts"`
	} `json:"contents"`
	SystemInstruction struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"systemInstruction"`
	GenerationConfig struct {
		ResponseMimeType string         `json:"responseMimeType"`
		ResponseSchema   map[string]any `json:"responseSchema"`
	} `json:"generationConfig"`
}

func apiError(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	b, _ := json.Marshal(map[string]any{
		"error": map[string]any{"code": code, "message": "rejected", "status": status},
	})
	w.Write(b)
}

func newTestExtractorWith(t *testing.T, cfg GeminiConfig) *GeminiExtractor {
	t.Helper()
	if cfg.APIKey == "" {
		cfg.APIKey = "test-key"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	g, err := NewGeminiExtractor(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewGeminiExtractor: %v", err)
	}
	g.Retry = RetryConfig{MaxAttempts: 3, BackoffBase: time.Millisecond, BackoffMultiplier: 1}
	g.FetchPages = false
	return g
}

func newTestExtractor(t *testing.T, srvURL string) *GeminiExtractor {
	t.Helper()
	return newTestExtractorWith(t, GeminiConfig{BaseURL: srvURL})
}


func TestGeminiExtractor_ExtractDocument(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-2.5-flash:generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Error("api key header missing")
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		io.WriteString(w, geminiReply(`{"customerName":{"fullName":"Fletes Unidos SA de CV","name":null},"billingInfo":{"rfc":"FUN010101AA1"},"address":{"country":"USA","street":"Calle 5"}}`))
	}))
	defer srv.Close()

	rec, err := newTestExtractor(t, srv.URL).ExtractDocument(context.Background(), minimalPDF, "application/octet-stream")
	if err != nil {
		t.Fatalf("ExtractDocument: %v", err)
	}
	if rec.Name.FullName != "Fletes Unidos SA de CV" || rec.Billing.RFC != "FUN010101AA1" {
		t.Errorf("extracted = %+v", rec)
	}

	if got.GenerationConfig.ResponseMimeType != "application/json" || got.GenerationConfig.ResponseSchema == nil {
		t.Error("response schema not requested")
	}
	if len(got.SystemInstruction.Parts) == 0 || !strings.Contains(got.SystemInstruction.Parts[0].Text, "Cédula de Identificación Fiscal") {
		t.Error("system instruction missing")
	}
	parts := got.Contents[0].Parts
	if len(parts) != 2 || parts[0].InlineData == nil || parts[0].InlineData.MimeType != "application/pdf" {
		t.Fatalf("parts = %+v", parts)
	}

	// merging keeps the country fixed
	merged := MergeExtracted(NewCustomerDraft(), rec)
	if merged.Address.Country != DefaultCountry || merged.Address.Street != "Calle 5" {
		t.Errorf("merged address = %+v", merged.Address)
	}
}

func TestGeminiExtractor_UnsupportedDocument(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	_, err := newTestExtractor(t, srv.URL).ExtractDocument(context.Background(), []byte("just some text"), "application/pdf")
	if !errors.Is(err, ErrUnsupportedDocument) {
		t.Fatalf("err = %v, want ErrUnsupportedDocument", err)
	}
	var a *AdvisoryError
	if !errors.As(err, &a) {
		t.Error("error should be advisory")
	}
	if calls.Load() != 0 {
		t.Error("no API call expected for rejected uploads")
	}
}

func TestGeminiExtractor_RetriesTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			apiError(w, http.StatusServiceUnavailable, "UNAVAILABLE")
			return
		}
		io.WriteString(w, geminiReply("```json\n{\"billingInfo\":{\"rfc\":\"XYZ010101AB1\"}}\n```"))
	}))
	defer srv.Close()

	rec, err := newTestExtractor(t, srv.URL).ExtractURL(context.Background(), "https://siat.sat.gob.mx/qr?D3=1")
	if err != nil {
		t.Fatalf("ExtractURL: %v", err)
	}
	if rec.Billing.RFC != "XYZ010101AB1" {
		t.Errorf("rfc = %q", rec.Billing.RFC)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestGeminiExtractor_FatalNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		apiError(w, http.StatusForbidden, "PERMISSION_DENIED")
	}))
	defer srv.Close()

	_, err := newTestExtractor(t, srv.URL).ExtractURL(context.Background(), "https://siat.sat.gob.mx/qr")
	if AdvisoryMessage(err) != "Error al procesar la URL. Intenta de nuevo." {
		t.Errorf("message = %q", AdvisoryMessage(err))
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestGeminiExtractor_InvalidURLSkipsAPI(t *testing.T) {
	g := newTestExtractor(t, "http://127.0.0.1:1")
	if _, err := g.ExtractURL(context.Background(), "https://example.com"); !errors.Is(err, ErrInvalidSATURL) {
		t.Errorf("err = %v", err)
	}
}

func TestGeminiExtractor_MalformedAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, geminiReply("no encontré datos"))
	}))
	defer srv.Close()

	_, err := newTestExtractor(t, srv.URL).ExtractDocument(context.Background(), minimalPDF, "")
	var a *AdvisoryError
	if !errors.As(err, &a) {
		t.Fatalf("err = %v, want AdvisoryError", err)
	}
}

// rewriteTransport sends every request to target, keeping the path.
type rewriteTransport struct{ target *url.URL }

func (rt rewriteTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.URL.Scheme = rt.target.Scheme
	r.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(r)
}

func TestGeminiExtractor_IncludesSATPage(t *testing.T) {
	var prompt atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "text/html")
			io.WriteString(w, "<html><body><h1>Constancia</h1><table><tr><td>RFC:</td><td>ABC010101AB1</td></tr></table></body></html>")
			return
		}
		prompt.Store(promptText(r))
		io.WriteString(w, geminiReply(`{}`))
	}))
	defer srv.Close()

	target, _ := url.Parse(srv.URL)
	g := newTestExtractorWith(t, GeminiConfig{
		BaseURL:    srv.URL,
		HTTPClient: &http.Client{Transport: rewriteTransport{target: target}},
	})
	g.FetchPages = true

	if _, err := g.ExtractURL(context.Background(), "https://siat.sat.gob.mx/qr?D3=1"); err != nil {
		t.Fatal(err)
	}
	p, _ := prompt.Load().(string)
	if !strings.Contains(p, "ABC010101AB1") || !strings.Contains(p, "Constancia") {
		t.Errorf("SAT page text not included in prompt:\n%s", p)
	}
}

func TestGeminiExtractor_RedirectOffSATNotFollowed(t *testing.T) {
	var offsite atomic.Int32
	var prompt atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.Host == "siat.sat.gob.mx":
			http.Redirect(w, r, "https://internal.example.net/secret", http.StatusFound)
		case r.Method == http.MethodGet:
			offsite.Add(1)
			io.WriteString(w, "<html><body>secret-token</body></html>")
		default:
			prompt.Store(promptText(r))
			io.WriteString(w, geminiReply(`{}`))
		}
	}))
	defer srv.Close()

	target, _ := url.Parse(srv.URL)
	g := newTestExtractorWith(t, GeminiConfig{
		BaseURL:    srv.URL,
		HTTPClient: &http.Client{Transport: rewriteTransport{target: target}},
	})
	g.FetchPages = true

	if _, err := g.ExtractURL(context.Background(), "https://siat.sat.gob.mx/qr?D3=1"); err != nil {
		t.Fatal(err)
	}
	if offsite.Load() != 0 {
		t.Error("redirect away from sat.gob.mx was followed")
	}
	if p, _ := prompt.Load().(string); strings.Contains(p, "secret-token") {
		t.Error("off-site page leaked into the prompt")
	}
}

func TestGeminiExtractor_ConcurrentURLExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			io.WriteString(w, "<html><body><p>RFC ABC010101AB1</p></body></html>")
			return
		}
		io.WriteString(w, geminiReply(`{"billingInfo":{"rfc":"ABC010101AB1"}}`))
	}))
	defer srv.Close()

	target, _ := url.Parse(srv.URL)
	g := newTestExtractorWith(t, GeminiConfig{
		BaseURL:    srv.URL,
		HTTPClient: &http.Client{Transport: rewriteTransport{target: target}},
	})
	g.FetchPages = true

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := g.ExtractURL(context.Background(), "https://siat.sat.gob.mx/qr?D3=1")
			if err == nil && rec.Billing.RFC != "ABC010101AB1" {
				err = errors.New("wrong rfc " + rec.Billing.RFC)
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Error(err)
		}
	}
}

func promptText(r *http.Request) string {
	var req generateRequest
	json.NewDecoder(r.Body).Decode(&req)
	var texts []string
	for _, c := range req.Contents {
		for _, p := range c.Parts {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}

func TestDisabledExtractor(t *testing.T) {
	var d DisabledExtractor
	if _, err := d.ExtractDocument(context.Background(), minimalPDF, ""); !errors.Is(err, ErrExtractionDisabled) {
		t.Errorf("err = %v", err)
	}
	if _, err := d.ExtractURL(context.Background(), "nope"); !errors.Is(err, ErrInvalidSATURL) {
		t.Errorf("invalid url err = %v", err)
	}
}
