// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/critiqapp/critiq/internal/platform/apperr"
	"github.com/critiqapp/critiq/internal/platform/constants"
)

// # Confirmation Code Repository

// RedisConfirmationCodeRepository implements ConfirmationCodeRepository using Redis.
//
// Keys are namespaced per username so that re-signup replaces the previous
// code, and expiry is delegated to Redis TTLs.
type RedisConfirmationCodeRepository struct {
	client *redis.Client
}

// NewConfirmationCodeRepository creates a new Redis-backed ConfirmationCodeRepository.
func NewConfirmationCodeRepository(client *redis.Client) *RedisConfirmationCodeRepository {
	return &RedisConfirmationCodeRepository{client: client}
}

// key builds the namespaced Redis key for a username.
func (repository *RedisConfirmationCodeRepository) key(username string) string {
	return constants.RedisPrefixConfirmationCode + username
}

/*
Set stores a confirmation code hash with its TTL, replacing any previous code.

Parameters:
  - context: context.Context
  - username: string
  - codeHash: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisConfirmationCodeRepository) Set(context context.Context, username string, codeHash string, ttl time.Duration) error {

	// Set the code hash with TTL
	if err := repository.client.Set(context, repository.key(username), codeHash, ttl).Err(); err != nil {
		return fmt.Errorf("redis_confirmation_code_set_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
Get retrieves the stored code hash for a username.

Description: Returns apperr.NotFound if the code is absent or expired.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - string: Stored bcrypt hash
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisConfirmationCodeRepository) Get(context context.Context, username string) (string, error) {

	// Get the code hash from Redis
	codeHash, err := repository.client.Get(context, repository.key(username)).Result()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Confirmation code")
		}
		return "", fmt.Errorf("redis_confirmation_code_get_failed: %w", err)
	}

	// Return the stored hash
	return codeHash, nil
}

/*
Delete removes the confirmation code after successful use.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisConfirmationCodeRepository) Delete(context context.Context, username string) error {

	// Delete the code from Redis
	if err := repository.client.Del(context, repository.key(username)).Err(); err != nil {
		return fmt.Errorf("redis_confirmation_code_delete_failed: %w", err)
	}

	// Return nil on success
	return nil
}
