package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ScratchOrgInfoRecord is the creation payload submitted to the platform.
// Zero-value fields are omitted from the wire payload.
type ScratchOrgInfoRecord struct {
	LoginURL       string         `json:"loginUrl,omitempty"`
	Snapshot       string         `json:"snapshot,omitempty"`
	AuthCode       string         `json:"authCode,omitempty"`
	Status         string         `json:"status,omitempty"`
	SignupEmail    string         `json:"signupEmail,omitempty"`
	SignupUsername string         `json:"signupUsername,omitempty"`
	Username       string         `json:"username,omitempty"`
	SignupInstance string         `json:"signupInstance,omitempty"`
	Settings       map[string]any `json:"settings,omitempty"`
}

// CreateResult is the platform acknowledgement of a creation call.
type CreateResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

// Authorization is a known identity on the hub org.
type Authorization struct {
	Username    string `json:"username"`
	OrgID       string `json:"orgId"`
	InstanceURL string `json:"instanceUrl"`
}

// Connection is the capability contract a hub org handle provides: creating
// ScratchOrgInfo records and resolving existing authorizations by username.
type Connection interface {
	// CreateScratchOrgInfo submits a creation call. On platform rejection
	// the returned error is a *RemoteFailure.
	CreateScratchOrgInfo(ctx context.Context, rec *ScratchOrgInfoRecord) (*CreateResult, error)

	// ResolveAuthorization looks up an existing authorization for username.
	// Returns ErrNamedOrgNotFound when no authorization is known.
	ResolveAuthorization(ctx context.Context, username string) (*Authorization, error)
}

// restError mirrors one element of the platform's JSON error array.
type restError struct {
	Message   string   `json:"message"`
	ErrorCode string   `json:"errorCode"`
	Fields    []string `json:"fields"`
}

// RestConnection implements Connection over the platform's JSON REST API.
type RestConnection struct {
	instanceURL string
	apiVersion  string
	accessToken string
	httpClient  *http.Client
}

// Compile-time assertion that RestConnection implements Connection.
var _ Connection = (*RestConnection)(nil)

// NewRestConnection creates a connection to the hub org at instanceURL using
// the given API version and bearer token.
func NewRestConnection(instanceURL, apiVersion, accessToken string) *RestConnection {
	return &RestConnection{
		instanceURL: instanceURL,
		apiVersion:  apiVersion,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateScratchOrgInfo POSTs the record to the ScratchOrgInfo collection.
func (c *RestConnection) CreateScratchOrgInfo(ctx context.Context, rec *ScratchOrgInfoRecord) (*CreateResult, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ScratchOrgInfo record: %w", err)
	}

	endpoint := fmt.Sprintf("%s/services/data/%s/sobjects/ScratchOrgInfo", c.instanceURL, c.apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build creation request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("creation call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var result CreateResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, fmt.Errorf("failed to decode creation result: %w", err)
		}
		return &result, nil
	}

	return nil, c.decodeFailure(resp)
}

// ResolveAuthorization GETs the authorization record for username.
func (c *RestConnection) ResolveAuthorization(ctx context.Context, username string) (*Authorization, error) {
	endpoint := fmt.Sprintf("%s/services/data/%s/authorizations/%s", c.instanceURL, c.apiVersion, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build authorization lookup: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("authorization lookup failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNamedOrgNotFound
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var auth Authorization
		if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
			return nil, fmt.Errorf("failed to decode authorization: %w", err)
		}
		return &auth, nil
	default:
		return nil, c.decodeFailure(resp)
	}
}

func (c *RestConnection) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

// decodeFailure normalizes a non-2xx response body. The platform reports
// errors as a JSON array of {message, errorCode, fields}; only the first
// element is classified. Bodies that are not in that shape degrade to a
// message-only failure carrying the raw text.
func (c *RestConnection) decodeFailure(resp *http.Response) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return NormalizeFailure("", nil, fmt.Sprintf("HTTP %d", resp.StatusCode), err)
	}

	var restErrs []restError
	if err := json.Unmarshal(raw, &restErrs); err == nil && len(restErrs) > 0 {
		first := restErrs[0]
		return NormalizeFailure(first.ErrorCode, first.Fields, first.Message, nil)
	}

	return NormalizeFailure("", nil, string(bytes.TrimSpace(raw)), nil)
}
