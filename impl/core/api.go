package core

import (
	"fmt"

	"SaborBot/entity"
)

// AuthenticateByToken resolves a dashboard principal from an API token.
// The configured static key acts as the admin principal; other tokens are
// looked up in the api-keys collection and cached.
func (c *Core) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}

	if c.authKey != "" && token == c.authKey {
		return &entity.UserAuth{Username: "admin", Token: token}, nil
	}

	c.keysMu.RLock()
	username, ok := c.keys[token]
	c.keysMu.RUnlock()
	if ok {
		return &entity.UserAuth{Username: username, Token: token}, nil
	}

	if c.repo == nil {
		return nil, fmt.Errorf("repository is not set")
	}

	username, err := c.repo.CheckApiKey(token)
	if err != nil {
		return nil, fmt.Errorf("token lookup failed: %w", err)
	}

	c.keysMu.Lock()
	c.keys[token] = username
	c.keysMu.Unlock()
	return &entity.UserAuth{Username: username, Token: token}, nil
}

// ValidateToken adapts AuthenticateByToken to the websocket handshake.
func (c *Core) ValidateToken(token string) (string, error) {
	user, err := c.AuthenticateByToken(token)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

func (c *Core) GenerateApiKey(username string) (string, error) {
	if c.repo == nil {
		return "", fmt.Errorf("repository is not set")
	}

	apiKey, err := c.repo.GenerateApiKey(username)
	if err != nil {
		return "", fmt.Errorf("failed to generate API key: %w", err)
	}

	c.keysMu.Lock()
	c.keys[apiKey] = username
	c.keysMu.Unlock()
	return apiKey, nil
}
