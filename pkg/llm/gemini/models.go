package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type geminiModel struct {
	Name                       string   `json:"name"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}

type geminiModelList struct {
	Models        []geminiModel `json:"models"`
	NextPageToken string        `json:"nextPageToken"`
}

// ListGenerativeModels returns the names ("models/...") of every model that supports generateContent.
func (g *GeminiProvider) ListGenerativeModels(ctx context.Context) ([]string, error) {
	var names []string
	pageToken := ""

	for {
		page, err := g.listModelsPage(ctx, pageToken)
		if err != nil {
			return nil, err
		}
		for _, m := range page.Models {
			for _, method := range m.SupportedGenerationMethods {
				if method == "generateContent" {
					names = append(names, m.Name)
					break
				}
			}
		}
		if page.NextPageToken == "" {
			return names, nil
		}
		pageToken = page.NextPageToken
	}
}

func (g *GeminiProvider) listModelsPage(ctx context.Context, pageToken string) (*geminiModelList, error) {
	endpoint := strings.TrimRight(g.BaseURL, "/") + "/models"
	if pageToken != "" {
		endpoint += "?pageToken=" + url.QueryEscape(pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", g.ApiKey)

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini list models: status %d, body: %s", resp.StatusCode, string(body))
	}

	var page geminiModelList
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &page, nil
}
