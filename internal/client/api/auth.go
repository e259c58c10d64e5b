package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/furnistore/internal/client/models"
	"github.com/dmitrijs2005/furnistore/internal/common"
)

const loginPath = "/api/auth/login/"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the payload of a successful credential exchange.
type LoginResult struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh,omitempty"`
	User    models.User `json:"user"`
}

// Login exchanges credentials for tokens. No bearer header is sent and a 401
// here means bad credentials, so the session is not notified.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	b, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(loginPath, nil), bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set(common.HeaderAccept, common.ContentTypeJSON)
	req.Header.Set(common.HeaderContentType, common.ContentTypeJSON)

	var res LoginResult
	if err := c.send(req, false, &res); err != nil {
		return nil, err
	}
	if res.Access == "" {
		return nil, fmt.Errorf("login response carries no access token")
	}
	return &res, nil
}
