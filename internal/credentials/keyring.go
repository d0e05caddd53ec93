package credentials

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// KeyringStore keeps secrets in the operating system keychain.
type KeyringStore struct{}

func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

func (s *KeyringStore) Get(service, key string) (string, error) {
	secret, err := keyring.Get(service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", storeErr("get", service, key, err)
	}
	return secret, nil
}

func (s *KeyringStore) Set(service, key, secret string) error {
	if err := keyring.Set(service, key, secret); err != nil {
		return storeErr("set", service, key, err)
	}
	return nil
}

// Delete removes the secret. Deleting a missing secret returns [ErrNotFound].
func (s *KeyringStore) Delete(service, key string) error {
	err := keyring.Delete(service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return storeErr("delete", service, key, err)
	}
	return nil
}
