// Package garmin talks to the Garmin Connect API using the OAuth2 token
// cached by a previous garth login.
package garmin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/jpignata/garmin-training-plan/internal/errs"
	"github.com/jpignata/garmin-training-plan/internal/models"
)

const (
	DefaultBaseURL = "https://connectapi.garmin.com"
	userAgent      = "GCM-iOS-5.7.2.1"
	workoutsLimit  = 1000
)

// Credentials come from GARMIN_EMAIL and GARMIN_PASSWORD.
type Credentials struct {
	Email    string
	Password string
}

func (c Credentials) Complete() bool {
	return c.Email != "" && c.Password != ""
}

type Options struct {
	BaseURL  string
	TokenDir string
	Logger   *slog.Logger
	// HTTPClient is the transport under the OAuth2 client.
	HTTPClient *http.Client
	Now        func() time.Time
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient returns a client that authorizes every request with ts.
func NewClient(ctx context.Context, ts oauth2.TokenSource, opts Options) *Client {
	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: 30 * time.Second}
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: oauth2.NewClient(ctx, ts),
		log:        log,
	}
}

// Authenticate resumes the cached session in opts.TokenDir and checks it
// against the profile endpoint.
func Authenticate(ctx context.Context, creds Credentials, opts Options) (*Client, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	tok, err := LoadToken(opts.TokenDir, now())
	if err != nil {
		if errors.Is(err, ErrNoTokens) {
			if !creds.Complete() {
				return nil, fmt.Errorf("%w; set GARMIN_EMAIL and GARMIN_PASSWORD and log in with garth to populate %s", err, opts.TokenDir)
			}
			return nil, fmt.Errorf("%w; log in once with garth (garth.login then garth.save(%q)) to refresh the cache", err, opts.TokenDir)
		}
		return nil, err
	}

	c := NewClient(ctx, oauth2.StaticTokenSource(tok), opts)
	c.log.Info("using saved authentication tokens", "dir", opts.TokenDir)

	name, err := c.FullName(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to verify tokens: %w", err)
	}
	c.log.Info("authenticated", "name", name)
	return c, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, params url.Values, body, out any, ok ...int) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return &errs.RemoteError{Op: op, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("garmin request", "method", method, "path", path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &errs.RemoteError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errs.RemoteError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	if len(ok) == 0 {
		ok = []int{http.StatusOK}
	}
	if !slices.Contains(ok, resp.StatusCode) {
		var detail error
		if msg := strings.TrimSpace(string(respBody)); msg != "" {
			detail = errors.New(truncate(msg, 200))
		}
		return &errs.RemoteError{Op: op, StatusCode: resp.StatusCode, Err: detail}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &errs.RemoteError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) FullName(ctx context.Context) (string, error) {
	var profile struct {
		FullName    string `json:"fullName"`
		DisplayName string `json:"displayName"`
	}
	if err := c.do(ctx, "get profile", http.MethodGet, "/userprofile-service/socialProfile", nil, nil, &profile); err != nil {
		return "", err
	}
	if profile.FullName == "" {
		return profile.DisplayName, nil
	}
	return profile.FullName, nil
}

// GetActivities lists activities newest first.
func (c *Client) GetActivities(ctx context.Context, start, limit int) ([]models.Activity, error) {
	params := url.Values{}
	params.Set("start", strconv.Itoa(start))
	params.Set("limit", strconv.Itoa(limit))

	var activities []models.Activity
	err := c.do(ctx, "list activities", http.MethodGet, "/activitylist-service/activities/search/activities", params, nil, &activities)
	return activities, err
}

func (c *Client) GetSplits(ctx context.Context, activityID int64) ([]models.Lap, error) {
	var splits struct {
		Laps []models.Lap `json:"lapDTOs"`
	}
	path := fmt.Sprintf("/activity-service/activity/%d/splits", activityID)
	if err := c.do(ctx, "get splits", http.MethodGet, path, nil, nil, &splits); err != nil {
		return nil, err
	}
	return splits.Laps, nil
}

// UploadWorkout creates w in the workout library and returns its id.
func (c *Client) UploadWorkout(ctx context.Context, w *models.Workout) (int64, error) {
	var created models.WorkoutSummary
	if err := c.do(ctx, "upload workout", http.MethodPost, "/workout-service/workout", nil, w, &created, http.StatusOK, http.StatusCreated); err != nil {
		return 0, err
	}
	if created.WorkoutID == 0 {
		return 0, &errs.RemoteError{Op: "upload workout", Err: errors.New("response has no workoutId")}
	}
	return created.WorkoutID, nil
}

// ScheduleWorkout puts a library workout on the calendar.
func (c *Client) ScheduleWorkout(ctx context.Context, workoutID int64, date time.Time) error {
	path := fmt.Sprintf("/workout-service/schedule/%d", workoutID)
	body := map[string]string{"date": date.Format(time.DateOnly)}
	return c.do(ctx, "schedule workout", http.MethodPost, path, nil, body, nil,
		http.StatusOK, http.StatusCreated, http.StatusNoContent)
}

func (c *Client) DeleteWorkout(ctx context.Context, workoutID int64) error {
	path := fmt.Sprintf("/workout-service/workout/%d", workoutID)
	return c.do(ctx, "delete workout", http.MethodDelete, path, nil, nil, nil, http.StatusOK, http.StatusNoContent)
}

func (c *Client) ListWorkouts(ctx context.Context) ([]models.WorkoutSummary, error) {
	params := url.Values{}
	params.Set("start", "0")
	params.Set("limit", strconv.Itoa(workoutsLimit))

	var workouts []models.WorkoutSummary
	err := c.do(ctx, "list workouts", http.MethodGet, "/workout-service/workouts", params, nil, &workouts)
	return workouts, err
}

// GetWorkout returns a workout exactly as the service stores it.
func (c *Client) GetWorkout(ctx context.Context, workoutID int64) (json.RawMessage, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("/workout-service/workout/%d", workoutID)
	if err := c.do(ctx, "get workout", http.MethodGet, path, nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
