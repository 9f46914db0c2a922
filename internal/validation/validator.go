package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bookit/internal/logger"
	"bookit/internal/models"

	"github.com/google/uuid"
)

// ContractValidator - проверка работающего сервера на соответствие контракту API
type ContractValidator struct {
	baseURL  string
	basePath string
	client   *http.Client
}

// NewContractValidator creates a validator. baseURL is the server origin,
// basePath the COMMON_ADDR prefix the server was started with.
func NewContractValidator(baseURL, basePath string) *ContractValidator {
	return &ContractValidator{
		baseURL:  strings.TrimRight(baseURL, "/"),
		basePath: "/" + strings.Trim(basePath, "/"),
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// ValidateAll runs every check in order, stopping at the first failure.
// It creates a throwaway user, theatre and show and deletes the latter two.
func (v *ContractValidator) ValidateAll(ctx context.Context) error {
	log := logger.WithContext(ctx)
	log.Info("Начинаю валидацию API", "base_url", v.baseURL, "base_path", v.basePath)

	if err := v.validateRoot(ctx); err != nil {
		return fmt.Errorf("root validation failed: %w", err)
	}

	access, err := v.validateAuth(ctx)
	if err != nil {
		return fmt.Errorf("auth validation failed: %w", err)
	}

	theatreID, err := v.validateTheatres(ctx)
	if err != nil {
		return fmt.Errorf("theatres validation failed: %w", err)
	}

	if err := v.validateShows(ctx, theatreID, access); err != nil {
		return fmt.Errorf("shows validation failed: %w", err)
	}

	if err := v.validateDeletes(ctx, theatreID); err != nil {
		return fmt.Errorf("delete validation failed: %w", err)
	}

	log.Info("Все endpoints прошли валидацию успешно")
	return nil
}

func (v *ContractValidator) validateRoot(ctx context.Context) error {
	status, body, err := v.do(ctx, http.MethodGet, "/", nil, "")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("GET /: expected 200, got %d", status)
	}
	if !strings.Contains(string(body), "API for BookIT.") {
		return fmt.Errorf("GET /: unexpected body %q", body)
	}
	return nil
}

func (v *ContractValidator) validateAuth(ctx context.Context) (string, error) {
	creds := models.CredentialsRequest{
		Username: "validator-" + uuid.NewString()[:8],
		Password: uuid.NewString(),
	}

	var signup models.AuthResponse
	if err := v.expectJSON(ctx, http.MethodPost, v.path("/signup"), creds, "", http.StatusOK, &signup); err != nil {
		return "", err
	}
	if signup.User.Access == "" || signup.User.Refresh == "" || signup.User.Username != creds.Username {
		return "", fmt.Errorf("POST /signup: incomplete token response")
	}

	var login models.AuthResponse
	if err := v.expectJSON(ctx, http.MethodPost, v.path("/login"), creds, "", http.StatusOK, &login); err != nil {
		return "", err
	}

	bad := models.CredentialsRequest{Username: creds.Username, Password: "wrong"}
	if err := v.expectStatus(ctx, http.MethodPost, v.path("/login"), bad, "", http.StatusUnauthorized); err != nil {
		return "", err
	}

	if err := v.expectStatus(ctx, http.MethodGet, v.path("/"), nil, "", http.StatusUnauthorized); err != nil {
		return "", err
	}
	var shows models.DataResponse[models.Show]
	if err := v.expectJSON(ctx, http.MethodGet, v.path("/"), nil, login.User.Access, http.StatusOK, &shows); err != nil {
		return "", err
	}

	return login.User.Access, nil
}

func (v *ContractValidator) validateTheatres(ctx context.Context) (string, error) {
	body := map[string]any{"_id": "client-chosen", "name": "Validator Hall", "place": "Nowhere", "capacity": "200"}

	var created models.DataResponse[models.Theatre]
	if err := v.expectJSON(ctx, http.MethodPost, v.path("/theatres"), body, "", http.StatusCreated, &created); err != nil {
		return "", err
	}
	if len(created.Data) != 1 || created.Data[0].ID == "" || created.Data[0].ID == "client-chosen" {
		return "", fmt.Errorf("POST /theatres: expected one record with a server-assigned _id")
	}
	theatre := created.Data[0]

	var got models.Theatre
	if err := v.expectJSON(ctx, http.MethodGet, v.path("/theatres/"+theatre.ID), nil, "", http.StatusOK, &got); err != nil {
		return "", err
	}
	if got != theatre {
		return "", fmt.Errorf("GET /theatres/%s: record differs from created one", theatre.ID)
	}

	var patched models.Theatre
	if err := v.expectJSON(ctx, http.MethodPatch, v.path("/theatres/"+theatre.ID), map[string]any{"place": "Somewhere"}, "", http.StatusOK, &patched); err != nil {
		return "", err
	}
	if patched.Place != "Somewhere" || patched.Name != theatre.Name {
		return "", fmt.Errorf("PATCH /theatres/%s: partial merge not applied", theatre.ID)
	}

	if err := v.expectStatus(ctx, http.MethodGet, v.path("/theatres/"+uuid.NewString()), nil, "", http.StatusNotFound); err != nil {
		return "", err
	}

	var list models.DataResponse[models.Theatre]
	if err := v.expectJSON(ctx, http.MethodGet, v.path("/theatres"), nil, "", http.StatusOK, &list); err != nil {
		return "", err
	}

	return theatre.ID, nil
}

func (v *ContractValidator) validateShows(ctx context.Context, theatreID, access string) error {
	base := v.path("/theatres/" + theatreID + "/shows")
	body := map[string]any{"name": "Validator Show", "tags": "test", "ticketPrice": 10}

	var created models.DataResponse[models.Show]
	if err := v.expectJSON(ctx, http.MethodPost, base, body, "", http.StatusCreated, &created); err != nil {
		return err
	}
	if len(created.Data) != 1 || created.Data[0].TheatreID != theatreID {
		return fmt.Errorf("POST shows: theatre_id must come from the path")
	}
	show := created.Data[0]

	var patched models.Show
	if err := v.expectJSON(ctx, http.MethodPatch, base+"/"+show.ID, map[string]any{"ticketPrice": 0}, "", http.StatusOK, &patched); err != nil {
		return err
	}
	if patched.TicketPrice != 0 || patched.Name != show.Name {
		return fmt.Errorf("PATCH show: zero ticketPrice not applied")
	}

	if err := v.expectStatus(ctx, http.MethodPatch, base+"/"+show.ID, map[string]any{"theatre_id": uuid.NewString()}, "", http.StatusConflict); err != nil {
		return err
	}

	var list models.DataResponse[models.Show]
	if err := v.expectJSON(ctx, http.MethodGet, base, nil, "", http.StatusOK, &list); err != nil {
		return err
	}
	if len(list.Data) == 0 {
		return fmt.Errorf("GET shows: expected the created show")
	}

	if err := v.expectStatus(ctx, http.MethodDelete, v.path("/theatres"), map[string]any{"_id": theatreID}, "", http.StatusConflict); err != nil {
		return err
	}

	var deleted models.DeleteResponse
	return v.expectJSON(ctx, http.MethodDelete, base, map[string]any{"_id": show.ID}, access, http.StatusOK, &deleted)
}

func (v *ContractValidator) validateDeletes(ctx context.Context, theatreID string) error {
	var resp models.DeleteResponse
	if err := v.expectJSON(ctx, http.MethodDelete, v.path("/theatres"), map[string]any{"_id": theatreID}, "", http.StatusOK, &resp); err != nil {
		return err
	}
	if err := v.expectJSON(ctx, http.MethodDelete, v.path("/theatres"), map[string]any{"_id": "unknown-id"}, "", http.StatusOK, &resp); err != nil {
		return err
	}
	if resp.Error {
		return fmt.Errorf(`DELETE /theatres: expected {"error":false}`)
	}
	return v.expectStatus(ctx, http.MethodDelete, v.path("/theatres"), map[string]any{}, "", http.StatusBadRequest)
}

func (v *ContractValidator) path(p string) string {
	return v.basePath + p
}

func (v *ContractValidator) expectStatus(ctx context.Context, method, path string, body any, token string, want int) error {
	status, _, err := v.do(ctx, method, path, body, token)
	if err != nil {
		return err
	}
	if status != want {
		return fmt.Errorf("%s %s: expected %d, got %d", method, path, want, status)
	}
	return nil
}

func (v *ContractValidator) expectJSON(ctx context.Context, method, path string, body any, token string, want int, out any) error {
	status, raw, err := v.do(ctx, method, path, body, token)
	if err != nil {
		return err
	}
	if status != want {
		return fmt.Errorf("%s %s: expected %d, got %d: %s", method, path, want, status, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}

func (v *ContractValidator) do(ctx context.Context, method, path string, body any, token string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, v.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, raw, nil
}
