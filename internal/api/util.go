package api

import (
	crand "crypto/rand"
	"encoding/hex"
	"encoding/json"
	"math/rand"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 8

// generateJoinCode creates a short alphanumeric code for joining games.
func generateJoinCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(b)
}

var joinCodeRegex = regexp.MustCompile("^[A-Z0-9]{8}$")

func normalizeJoinCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// newPlayerUUID mints an opaque participant identifier. It only needs to be
// unique per game, not a canonical RFC 4122 UUID.
func newPlayerUUID() string {
	b := make([]byte, 16)
	if _, err := crand.Read(b); err != nil {
		// crypto/rand failing means the host is broken; fall back to the
		// join-code generator rather than crashing a request.
		return "p-" + generateJoinCode()
	}
	return hex.EncodeToString(b)
}

// normalizeTimestamps recursively renames GORM timestamp keys from CamelCase
// (CreatedAt, UpdatedAt, DeletedAt) to snake_case keys (created_at, updated_at, deleted_at)
// so frontend clients consistently receive snake_case timestamps.
func normalizeTimestamps(v interface{}) interface{} {
	switch vv := v.(type) {
	case map[string]interface{}:
		for k, val := range vv {
			vv[k] = normalizeTimestamps(val)
		}
		if val, ok := vv["CreatedAt"]; ok {
			vv["created_at"] = val
			delete(vv, "CreatedAt")
		}
		if val, ok := vv["UpdatedAt"]; ok {
			vv["updated_at"] = val
			delete(vv, "UpdatedAt")
		}
		if val, ok := vv["DeletedAt"]; ok {
			vv["deleted_at"] = val
			delete(vv, "DeletedAt")
		}
		return vv
	case []interface{}:
		for i := range vv {
			vv[i] = normalizeTimestamps(vv[i])
		}
		return vv
	default:
		return v
	}
}

// MarshalIntoSnakeTimestamps marshals the given value into JSON, then decodes
// into an interface{} and normalizes timestamp keys to snake_case. It is used
// to produce API responses with consistent snake_case timestamp keys.
func MarshalIntoSnakeTimestamps(v interface{}) (interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return normalizeTimestamps(out), nil
}

// MarshalForContext behaves like MarshalIntoSnakeTimestamps but also strips
// information that must not leave the server for the wrong viewer. It reads
// the authenticated session email (if any) from the gin.Context, removes
// email fields belonging to other users, and removes the pending-action
// fields of every player object except the caller's own. Allegiance never
// reaches the encoder at all (the model excludes it from JSON); this walker
// is the guard for the fields that do.
func MarshalForContext(c *gin.Context, v interface{}) (interface{}, error) {
	out, err := MarshalIntoSnakeTimestamps(v)
	if err != nil {
		return nil, err
	}
	currentEmail := ""
	if c != nil {
		if v, ok := c.Get("userEmail"); ok {
			if s, _ := v.(string); s != "" {
				currentEmail = s
			}
		}
	}
	redactSecrets(out, currentEmail)
	return out, nil
}

// redactSecrets walks a marshalled JSON structure (decoded into
// map[string]interface{} / []interface{}). Any field whose key contains
// "email" (case-insensitive) is deleted unless its value equals
// currentEmail. A map that looks like a player object belonging to someone
// else additionally loses its pending_ability_key and pending_target_uuid:
// a participant must never learn what another participant has planned for
// the round still being collected.
func redactSecrets(v interface{}, currentEmail string) {
	switch vv := v.(type) {
	case map[string]interface{}:
		isOwnPlayer := false
		if s, ok := vv["player_email"].(string); ok && currentEmail != "" && s == currentEmail {
			isOwnPlayer = true
		}
		if _, isPlayer := vv["player_uuid"]; isPlayer && !isOwnPlayer {
			delete(vv, "pending_ability_key")
			delete(vv, "pending_target_uuid")
		}
		for k, val := range vv {
			lower := strings.ToLower(k)
			if strings.Contains(lower, "email") {
				if s, ok := val.(string); ok {
					if currentEmail != "" && s == currentEmail {
						// keep the field when it matches the session user
						continue
					}
				}
				delete(vv, k)
				continue
			}
			redactSecrets(val, currentEmail)
		}
	case []interface{}:
		for i := range vv {
			redactSecrets(vv[i], currentEmail)
		}
	default:
		// primitives: nothing to do
	}
}
