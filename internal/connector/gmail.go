package connector

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/gmail/v1"

	"github.com/mindvault/mindvault/pkg/auth"
)

// Gmail API scopes the connector requests
var gmailScopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.labels",
}

// GmailConnector connects Gmail accounts through OAuth2
type GmailConnector struct {
	credentialsPath string
	tokenPath       string

	service *gmail.Service
}

// NewGmailConnector creates a Gmail connector with the given OAuth client files
func NewGmailConnector(credentialsPath, tokenPath string) *GmailConnector {
	return &GmailConnector{
		credentialsPath: credentialsPath,
		tokenPath:       tokenPath,
	}
}

// Provider names the service this connector handles
func (c *GmailConnector) Provider() string { return "gmail" }

// Connect runs the OAuth handshake and resolves the account identity
func (c *GmailConnector) Connect(ctx context.Context) (*ConnectedAccount, error) {
	if strings.TrimSpace(c.credentialsPath) == "" {
		return nil, fmt.Errorf("%w: gmail credentials not configured", ErrConnectFailed)
	}

	service, err := auth.NewGmailService(ctx, c.credentialsPath, c.tokenPath, gmailScopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectFailed, err)
	}
	c.service = service

	profile, err := service.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: could not read profile: %v", ErrConnectFailed, err)
	}

	email := profile.EmailAddress
	display := email
	if at := strings.Index(email, "@"); at > 0 {
		display = email[:at]
	}

	return &ConnectedAccount{Email: email, DisplayName: display}, nil
}

// Sync refreshes the account's data from Gmail
func (c *GmailConnector) Sync(ctx context.Context, email string) error {
	if c.service == nil {
		return fmt.Errorf("%w: not connected", ErrSyncFailed)
	}

	// A label listing is the cheapest call that proves the grant still works
	_, err := c.service.Users.Labels.List("me").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}
	return nil
}

// Revoke drops the cached token for the account
func (c *GmailConnector) Revoke(ctx context.Context, email string) error {
	c.service = nil

	oauthConfig := auth.NewOAuth2Config(c.credentialsPath, c.tokenPath, gmailScopes...)
	if err := oauthConfig.DeleteToken(); err != nil {
		return fmt.Errorf("%w: %v", ErrRevokeFailed, err)
	}
	return nil
}
