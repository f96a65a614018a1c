package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

var (
	ErrInvalidSATURL       = errors.New("Por favor, introduce una URL válida del SAT.")
	ErrUnsupportedDocument = errors.New("tipo de documento no soportado")
	ErrExtractionDisabled  = errors.New("la extracción automática no está configurada")
)

// AdvisoryError reports a failed extraction. It never blocks manual entry:
// handlers show Message as a toast and keep the form as it was.
type AdvisoryError struct {
	Message   string
	Err       error
	Transient bool
}

func (e *AdvisoryError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AdvisoryError) Unwrap() error { return e.Err }

func advisory(msg string, err error) error {
	var a *AdvisoryError
	if errors.As(err, &a) {
		return &AdvisoryError{Message: msg, Err: a.Err, Transient: a.Transient}
	}
	return &AdvisoryError{Message: msg, Err: err}
}

// AdvisoryMessage returns the user-facing text of an extraction error.
func AdvisoryMessage(err error) string {
	var a *AdvisoryError
	if errors.As(err, &a) {
		return a.Message
	}
	return err.Error()
}

// Extractor turns a fiscal document or SAT QR URL into a partial customer
// record. Results are suggestions to be merged with MergeExtracted.
type Extractor interface {
	ExtractDocument(ctx context.Context, data []byte, mimeType string) (CustomerRecord, error)
	ExtractURL(ctx context.Context, rawURL string) (CustomerRecord, error)
}

// ValidateSATURL accepts http(s) URLs whose host belongs to sat.gob.mx.
func ValidateSATURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidSATURL
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, ErrInvalidSATURL
	}
	if !isSATHost(u.Hostname()) {
		return nil, ErrInvalidSATURL
	}
	return u, nil
}

const satDomain = "sat.gob.mx"

func isSATHost(host string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	return host == satDomain || strings.HasSuffix(host, "."+satDomain)
}

// satRedirectPolicy follows redirects only while they stay on the SAT domain.
func satRedirectPolicy(req *http.Request, via []*http.Request) error {
	if len(via) >= 5 {
		return errors.New("too many redirects")
	}
	if _, err := ValidateSATURL(req.URL.String()); err != nil {
		return fmt.Errorf("redirect to %s refused: %w", req.URL.Host, err)
	}
	return nil
}

// DisabledExtractor is used when no API key is configured.
type DisabledExtractor struct{}

func (DisabledExtractor) ExtractDocument(context.Context, []byte, string) (CustomerRecord, error) {
	return CustomerRecord{}, advisory("La extracción automática no está disponible.", ErrExtractionDisabled)
}

func (DisabledExtractor) ExtractURL(_ context.Context, rawURL string) (CustomerRecord, error) {
	if _, err := ValidateSATURL(rawURL); err != nil {
		return CustomerRecord{}, err
	}
	return CustomerRecord{}, advisory("La extracción automática no está disponible.", ErrExtractionDisabled)
}

// ── Gemini client ───────────────────────────────────────────────────────

const (
	maxSATPage      = 2 * 1024 * 1024
	maxDocumentSize = 15 * 1024 * 1024

	geminiAPIVersion = "v1beta"

	extractionInstruction = "You are an expert AI for extracting structured data from Mexican " +
		"'Cédula de Identificación Fiscal' (CIF) documents or URLs. Provide only the JSON output."

	documentPrompt = "Analyze the attached Mexican fiscal document. Extract the customer's data: " +
		"full name (or company name), RFC, tax regime, and the full fiscal address. If it's an " +
		"individual, break down the name. Return null for fields not found. Format the output " +
		"according to the provided JSON schema."

	urlPrompt = "Analyze this Mexican SAT QR code URL: %q. Extract the customer's data: full name " +
		"(or company name), RFC, tax regime, and the full fiscal address. If it's an individual, " +
		"break down the name into components. Return null for fields not found. Format the output " +
		"according to the provided JSON schema."
)

// Accepted upload types, matched against the sniffed content.
var documentMimeTypes = []string{"application/pdf", "image/png", "image/jpeg", "image/webp", "image/heic"}

// RetryConfig controls retries of transient API failures.
type RetryConfig struct {
	MaxAttempts       int
	BackoffBase       time.Duration
	BackoffMultiplier float64
	MaxBackoff        time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       time.Second,
		BackoffMultiplier: 2.0,
		MaxBackoff:        10 * time.Second,
	}
}

// GeminiConfig configures NewGeminiExtractor. An empty BaseURL uses the
// public Gemini API.
type GeminiConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiExtractor asks Gemini for a customer record constrained by a JSON
// response schema.
type GeminiExtractor struct {
	Retry RetryConfig
	// FetchPages includes the text of the SAT page for URL sources.
	FetchPages bool

	client    *genai.Client
	model     string
	pages     *http.Client
	converter *md.Converter
}

func NewGeminiExtractor(ctx context.Context, cfg GeminiConfig) (*GeminiExtractor, error) {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 60 * time.Second}
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: hc,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    cfg.BaseURL,
			APIVersion: geminiAPIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	conv := md.NewConverter("", true, nil)
	conv.Use(plugin.GitHubFlavored())
	return &GeminiExtractor{
		Retry:      DefaultRetryConfig(),
		FetchPages: true,
		client:     client,
		model:      cfg.Model,
		pages: &http.Client{
			Transport:     hc.Transport,
			Timeout:       15 * time.Second,
			CheckRedirect: satRedirectPolicy,
		},
		converter: conv,
	}, nil
}

func stringProps(names ...string) *genai.Schema {
	nullable := true
	props := make(map[string]*genai.Schema, len(names))
	for _, n := range names {
		props[n] = &genai.Schema{Type: genai.TypeString, Nullable: &nullable}
	}
	return &genai.Schema{Type: genai.TypeObject, Properties: props}
}

// customerSchema mirrors the JSON layout of CustomerRecord without ids or
// vehicles.
func customerSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"customerName": stringProps("fullName", "name", "paternalLastName", "maternalLastName"),
			"billingInfo":  stringProps("rfc", "taxRegime", "taxPostalCode"),
			"address": stringProps("street", "exteriorNumber", "interiorNumber", "neighborhood",
				"municipality", "state", "postalCode", "country"),
			"contact": stringProps("email", "phone"),
		},
	}
}

func (g *GeminiExtractor) ExtractDocument(ctx context.Context, data []byte, mimeType string) (CustomerRecord, error) {
	const failMsg = "Error al procesar el documento. Intenta de nuevo."
	if len(data) == 0 {
		return CustomerRecord{}, advisory(failMsg, errors.New("empty document"))
	}
	if len(data) > maxDocumentSize {
		return CustomerRecord{}, advisory("El documento es demasiado grande.", ErrUnsupportedDocument)
	}

	detected := mimetype.Detect(data)
	if !mimetype.EqualsAny(detected.String(), documentMimeTypes...) {
		return CustomerRecord{}, advisory("Sube un PDF o una imagen del documento fiscal.",
			fmt.Errorf("%w: %s (declared %s)", ErrUnsupportedDocument, detected.String(), mimeType))
	}

	parts := []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: detected.String(), Data: data}},
		{Text: documentPrompt},
	}
	return g.generate(ctx, parts, failMsg)
}

func (g *GeminiExtractor) ExtractURL(ctx context.Context, rawURL string) (CustomerRecord, error) {
	u, err := ValidateSATURL(rawURL)
	if err != nil {
		return CustomerRecord{}, err
	}

	parts := []*genai.Part{{Text: fmt.Sprintf(urlPrompt, u.String())}}
	if g.FetchPages {
		if page, err := g.fetchSATPage(ctx, u.String()); err != nil {
			log.Printf("extraction: SAT page not fetched, using URL only: %v", err)
		} else if page != "" {
			parts = append(parts, &genai.Part{Text: "Contenido de la página del SAT:\n\n" + page})
		}
	}
	return g.generate(ctx, parts, "Error al procesar la URL. Intenta de nuevo.")
}

// fetchSATPage downloads the SAT verification page and returns it as
// markdown.
func (g *GeminiExtractor) fetchSATPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := g.pages.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("SAT page status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSATPage))
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(mimetype.Detect(body).String(), "text/html") {
		return "", fmt.Errorf("SAT page is %s, not html", mimetype.Detect(body).String())
	}
	text, err := g.converter.ConvertString(string(body))
	if err != nil {
		return "", fmt.Errorf("convert SAT page: %w", err)
	}
	return strings.TrimSpace(excessiveBlankLines.ReplaceAllString(text, "\n\n")), nil
}

var excessiveBlankLines = regexp.MustCompile(`\n{3,}`)

func (g *GeminiExtractor) generate(ctx context.Context, parts []*genai.Part, failMsg string) (CustomerRecord, error) {
	requestID := uuid.New().String()

	contents := []*genai.Content{{Role: "user", Parts: parts}}
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: extractionInstruction}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    customerSchema(),
	}

	attempts := g.Retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := g.Retry.BackoffBase

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		text, err := g.call(ctx, contents, config)
		if err == nil {
			rec, perr := parseExtracted(text)
			if perr != nil {
				return CustomerRecord{}, advisory(failMsg, perr)
			}
			return rec, nil
		}
		lastErr = err

		var a *AdvisoryError
		if !errors.As(err, &a) || !a.Transient || attempt == attempts {
			break
		}
		log.Printf("extraction: request %s attempt %d failed, retrying: %v", requestID, attempt, err)
		select {
		case <-ctx.Done():
			return CustomerRecord{}, advisory(failMsg, ctx.Err())
		case <-time.After(backoff):
		}
		backoff = time.Duration(float64(backoff) * g.Retry.BackoffMultiplier)
		if g.Retry.MaxBackoff > 0 && backoff > g.Retry.MaxBackoff {
			backoff = g.Retry.MaxBackoff
		}
	}
	log.Printf("extraction: request %s failed: %v", requestID, lastErr)
	return CustomerRecord{}, advisory(failMsg, lastErr)
}

func (g *GeminiExtractor) call(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", classifyError(ctx, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &AdvisoryError{Message: "empty response", Err: errors.New("no candidates")}
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			sb.WriteString(p.Text)
		}
	}
	return sb.String(), nil
}

// classifyError marks rate limiting, server errors and transport failures
// as retryable.
func classifyError(ctx context.Context, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		transient := apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500
		return &AdvisoryError{Message: "API error", Err: err, Transient: transient}
	}
	var urlErr *url.Error
	transient := errors.As(err, &urlErr) && ctx.Err() == nil
	return &AdvisoryError{Message: "request failed", Err: err, Transient: transient}
}

var jsonBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*\\})\\s*```")

// parseExtracted decodes the model's JSON answer. Code fences around the
// object are tolerated.
func parseExtracted(text string) (CustomerRecord, error) {
	text = strings.TrimSpace(text)
	if m := jsonBlock.FindStringSubmatch(text); len(m) > 1 {
		text = m[1]
	}
	var rec CustomerRecord
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		return CustomerRecord{}, fmt.Errorf("decode extracted customer: %w", err)
	}
	rec.ID = ""
	rec.Vehicles = nil
	return rec, nil
}
