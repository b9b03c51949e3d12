package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/k3a/html2text"

	"github.com/lexcodex/asklang/framework"
)

// maxPageChars caps the text fed to the model to bound cost and latency.
const maxPageChars = 12000

// ErrFetchFailed marks pages that could not be fetched or yielded no
// readable text. Callers branch on it to distinguish a bad URL from a model
// failure.
var ErrFetchFailed = errors.New("failed to fetch or parse page content")

// Summarizer produces short, citation-ready summaries of web pages.
type Summarizer struct {
	Model  framework.LanguageModel
	client *http.Client
}

// NewSummarizer wires the summarizer to a language model.
func NewSummarizer(model framework.LanguageModel) *Summarizer {
	return &Summarizer{
		Model:  model,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// SummarizeURL fetches url, strips it to plain text, and asks the model for a
// bulleted summary. The model's text is returned verbatim.
func (s *Summarizer) SummarizeURL(ctx context.Context, url string) (string, error) {
	text, err := s.loadURLText(ctx, url)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf("You are a concise summarizer.\n"+
		"Summarize the following web page into 3-5 bullet points. "+
		"Capture key facts, dates, numbers, and named entities. "+
		"Avoid speculation. Keep total length within ~120 words.\n\n"+
		"=== PAGE TEXT START ===\n%s\n=== PAGE TEXT END ===", text)

	resp, err := s.Model.Generate(ctx, prompt, &framework.LLMOptions{Temperature: 0})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (s *Summarizer) loadURLText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("User-Agent", "asklang/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: %s", ErrFetchFailed, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*maxPageChars))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	text := strings.TrimSpace(html2text.HTML2Text(string(body)))
	if text == "" {
		return "", ErrFetchFailed
	}
	if len(text) > maxPageChars {
		// back up so the cut never splits a multi-byte rune
		cut := maxPageChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text, nil
}
