// Package auth stores the relay credential in the system keyring.
package auth

import (
	"errors"

	"github.com/samber/mo"
	"github.com/streamdex/streamdex/constant"
	"github.com/zalando/go-keyring"
)

const user = "relay-token"

// SetToken persists the relay bearer token.
func SetToken(token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	return keyring.Set(constant.Streamdex, user, token)
}

// GetToken returns the relay token, None when none was saved.
func GetToken() (mo.Option[string], error) {
	token, err := keyring.Get(constant.Streamdex, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return mo.None[string](), nil
	}
	if err != nil {
		return mo.None[string](), err
	}
	return mo.Some(token), nil
}

// DeleteToken removes the relay token. A missing token is not an error.
func DeleteToken() error {
	if err := keyring.Delete(constant.Streamdex, user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}
