package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

var ErrUpstream = errors.New("translation service unavailable")

// TranslateService proxies text translation to LibreTranslate-compatible
// endpoints so the client never talks to the upstream directly. Endpoints are
// tried in order; the first successful response wins.
type TranslateService struct {
	Endpoints []string
	Client    *http.Client
}

// NewTranslateService accepts a comma-separated endpoint list.
func NewTranslateService(endpoints string) *TranslateService {
	var urls []string
	for _, e := range strings.Split(endpoints, ",") {
		if e = strings.TrimSpace(e); e != "" {
			urls = append(urls, e)
		}
	}
	if len(urls) == 0 {
		urls = []string{"https://libretranslate.com/translate"}
	}
	return &TranslateService{
		Endpoints: urls,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type TranslateRequest struct {
	Text   string `json:"q" validate:"required"`
	Source string `json:"source"`
	Target string `json:"target" validate:"required"`
}

func (s *TranslateService) Translate(req TranslateRequest) (string, error) {
	if req.Source == "" {
		req.Source = "auto"
	}
	body, err := json.Marshal(map[string]string{
		"q":      req.Text,
		"source": req.Source,
		"target": req.Target,
		"format": "text",
	})
	if err != nil {
		return "", err
	}

	for _, endpoint := range s.Endpoints {
		text, err := s.post(endpoint, body)
		if err == nil {
			return text, nil
		}
	}
	return "", ErrUpstream
}

func (s *TranslateService) post(endpoint string, body []byte) (string, error) {
	resp, err := s.Client.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", ErrUpstream
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", ErrUpstream
	}

	var out struct {
		TranslatedText string `json:"translatedText"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", ErrUpstream
	}
	return out.TranslatedText, nil
}
