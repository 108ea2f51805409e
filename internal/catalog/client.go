package catalog

import (
	"alcyxob/liftlog/internal/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"
)

var (
	ErrMissingAPIKey   = errors.New("missing ExerciseDB API key, set exercisedb.api_key")
	ErrUnexpectedShape = errors.New("unexpected API response shape")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// Client searches the ExerciseDB API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	host       string
	apiKey     string
}

// NewClient builds a client. A nil httpClient uses http.DefaultClient; requests
// are bounded only by their context.
func NewClient(httpClient *http.Client, baseURL, host, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		host:       host,
		apiKey:     apiKey,
	}
}

// Search queries {base}/exercises/search. A blank query returns an empty list
// without a request.
func (c *Client) Search(ctx context.Context, query string) ([]Item, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return []Item{}, nil
	}
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	endpoint := c.baseURL + "/exercises/search?search=" + url.QueryEscape(q)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exercisedb request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		log.Warnf("exercisedb search %q: status %d", q, resp.StatusCode)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	raw, err := decodeExercises(body)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(raw))
	for _, ex := range raw {
		items = append(items, ex.item())
	}
	return items, nil
}

// decodeExercises accepts either a bare array or an object with a data array.
// Any other object decodes to an empty list.
func decodeExercises(body []byte) ([]apiExercise, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var list []apiExercise
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return list, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(envelope.Data)), "[") {
		return []apiExercise{}, nil
	}
	var list []apiExercise
	if err := json.Unmarshal(envelope.Data, &list); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return list, nil
}

// stringList decodes a JSON string or an array of strings.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*s = nil
		} else {
			*s = stringList{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// apiExercise covers both the singular and plural field variants the API has
// shipped over time.
type apiExercise struct {
	ExerciseID       string     `json:"exerciseId"`
	Name             string     `json:"name"`
	ImageURL         string     `json:"imageUrl"`
	GifURL           string     `json:"gifUrl"`
	VideoURL         string     `json:"videoUrl"`
	ExerciseType     string     `json:"exerciseType"`
	Instructions     stringList `json:"instructions"`
	Target           stringList `json:"target"`
	TargetMuscles    stringList `json:"targetMuscles"`
	SecondaryMuscle  stringList `json:"secondaryMuscle"`
	SecondaryMuscles stringList `json:"secondaryMuscles"`
	BodyPart         stringList `json:"bodyPart"`
	BodyParts        stringList `json:"bodyParts"`
	Equipment        stringList `json:"equipment"`
	Equipments       stringList `json:"equipments"`
}

func (ex apiExercise) item() Item {
	targets := firstNonEmpty(ex.TargetMuscles, ex.Target)
	bodyParts := firstNonEmpty(ex.BodyParts, ex.BodyPart)

	item := Item{
		ID:               ex.ExerciseID,
		Name:             ex.Name,
		Description:      strings.Join(ex.Instructions, " "),
		Image:            ex.ImageURL,
		Video:            ex.VideoURL,
		Targets:          targets,
		SecondaryTargets: firstNonEmpty(ex.SecondaryMuscles, ex.SecondaryMuscle),
		BodyParts:        bodyParts,
		Equipments:       firstNonEmpty(ex.Equipments, ex.Equipment),
		Type:             ex.ExerciseType,
	}
	if item.Description == "" {
		item.Description = domain.DefaultExerciseDescription
	}
	if item.Image == "" {
		item.Image = ex.GifURL
	}
	if len(targets) > 0 {
		item.Muscle = targets[0]
	} else if len(bodyParts) > 0 {
		item.Muscle = bodyParts[0]
	}
	if item.Type == "" {
		if len(bodyParts) > 0 {
			item.Type = bodyParts[0]
		} else if len(targets) > 0 {
			item.Type = targets[0]
		}
	}
	return item
}

func firstNonEmpty(lists ...stringList) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return []string(l)
		}
	}
	return nil
}
